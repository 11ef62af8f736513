package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tutorlink_backend/internal/models"
	"tutorlink_backend/internal/services/dto"
	"tutorlink_backend/pkg/apperrors"
)

func newPaymentFixture(t *testing.T) (*fakeUserRepo, PaymentService) {
	t.Helper()
	users := newFakeUserRepo()
	methods := newFakePaymentMethodRepo()
	return users, NewPaymentService(methods)
}

func countDefaults(t *testing.T, svc PaymentService, userID string) int {
	t.Helper()
	methods, err := svc.ListPaymentMethods(userID)
	require.NoError(t, err)
	defaults := 0
	for _, m := range methods {
		if m.IsDefault {
			defaults++
		}
	}
	return defaults
}

func TestAddPaymentMethod_NewDefaultDisplacesOld(t *testing.T) {
	t.Parallel()
	users, svc := newPaymentFixture(t)
	user := users.addUser(models.UserRoleStudent, nil)

	first, err := svc.AddPaymentMethod(user.ID, &dto.CreatePaymentMethodRequest{
		Type:          "card",
		AccountNumber: "4111",
		IsDefault:     true,
	})
	require.NoError(t, err)
	assert.True(t, first.IsDefault)

	second, err := svc.AddPaymentMethod(user.ID, &dto.CreatePaymentMethodRequest{
		Type:          "mobile",
		AccountNumber: "7700",
		IsDefault:     true,
	})
	require.NoError(t, err)
	assert.True(t, second.IsDefault)

	assert.Equal(t, 1, countDefaults(t, svc, user.ID))
}

func TestSetDefaultPaymentMethod_SingleDefaultInvariant(t *testing.T) {
	t.Parallel()
	users, svc := newPaymentFixture(t)
	user := users.addUser(models.UserRoleStudent, nil)

	_, err := svc.AddPaymentMethod(user.ID, &dto.CreatePaymentMethodRequest{
		Type: "card", AccountNumber: "4111", IsDefault: true,
	})
	require.NoError(t, err)

	second, err := svc.AddPaymentMethod(user.ID, &dto.CreatePaymentMethodRequest{
		Type: "mobile", AccountNumber: "7700",
	})
	require.NoError(t, err)

	require.NoError(t, svc.SetDefaultPaymentMethod(user.ID, second.ID))

	methods, err := svc.ListPaymentMethods(user.ID)
	require.NoError(t, err)
	for _, m := range methods {
		assert.Equal(t, m.ID == second.ID, m.IsDefault)
	}
	assert.Equal(t, 1, countDefaults(t, svc, user.ID))
}

func TestDeletePaymentMethod_OwnershipEnforced(t *testing.T) {
	t.Parallel()
	users, svc := newPaymentFixture(t)
	owner := users.addUser(models.UserRoleStudent, nil)
	other := users.addUser(models.UserRoleStudent, nil)

	method, err := svc.AddPaymentMethod(owner.ID, &dto.CreatePaymentMethodRequest{
		Type: "card", AccountNumber: "4111",
	})
	require.NoError(t, err)

	// Someone else's id reads as not found.
	err = svc.DeletePaymentMethod(other.ID, method.ID)
	assertCode(t, err, apperrors.CodeNotFound)

	require.NoError(t, svc.DeletePaymentMethod(owner.ID, method.ID))

	methods, err := svc.ListPaymentMethods(owner.ID)
	require.NoError(t, err)
	assert.Empty(t, methods)
}
