package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tutorlink_backend/internal/models"
	"tutorlink_backend/internal/services/dto"
	"tutorlink_backend/pkg/apperrors"
)

type sessionFixture struct {
	users         *fakeUserRepo
	profiles      *fakeProfileRepo
	sessions      *fakeSessionRepo
	notifications *fakeNotificationRepo
	svc           SessionService

	student *models.User
	tutor   *models.User
}

func newSessionFixture(t *testing.T) *sessionFixture {
	t.Helper()

	users := newFakeUserRepo()
	profiles := newFakeProfileRepo(users)
	sessions := newFakeSessionRepo()
	notifications := newFakeNotificationRepo()
	notificationSvc := newTestNotificationService(t, notifications, users)

	f := &sessionFixture{
		users:         users,
		profiles:      profiles,
		sessions:      sessions,
		notifications: notifications,
		svc:           NewSessionService(sessions, users, profiles, notificationSvc),
	}

	f.student = users.addUser(models.UserRoleStudent, nil)
	f.tutor = users.addUser(models.UserRoleTutor, nil)
	require.NoError(t, profiles.Create(&models.TutorProfile{
		UserID:     f.tutor.ID,
		HourlyRate: 1000,
	}))

	return f
}

func (f *sessionFixture) createRequest() *dto.CreateSessionRequest {
	return &dto.CreateSessionRequest{
		StudentID: f.student.ID,
		TutorID:   f.tutor.ID,
		Subject:   "Calculus",
		Date:      time.Now().Add(48 * time.Hour),
		StartTime: "14:00",
		Duration:  90,
	}
}

func (f *sessionFixture) book(t *testing.T) *dto.SessionResponse {
	t.Helper()
	session, err := f.svc.CreateSession(f.student.ID, models.UserRoleStudent, f.createRequest())
	require.NoError(t, err)
	return session
}

func assertCode(t *testing.T, err error, code apperrors.ErrorCode) {
	t.Helper()
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.Code)
}

func TestCreateSession_DerivesPriceFromTutorRate(t *testing.T) {
	t.Parallel()
	f := newSessionFixture(t)

	session := f.book(t)

	// 90 minutes at 1000/hour.
	assert.Equal(t, 1500.0, session.TotalAmount)
	assert.Equal(t, models.SessionStatusPending, session.Status)
	assert.Equal(t, models.PaymentStatusPending, session.PaymentStatus)
}

func TestCreateSession_NotifiesTutor(t *testing.T) {
	t.Parallel()
	f := newSessionFixture(t)

	f.book(t)

	assert.Equal(t, 1, f.notifications.countForUser(f.tutor.ID))
	assert.Equal(t, 0, f.notifications.countForUser(f.student.ID))
}

func TestCreateSession_RoleSlotMismatch(t *testing.T) {
	t.Parallel()
	f := newSessionFixture(t)
	otherStudent := f.users.addUser(models.UserRoleStudent, nil)

	// A student booking with someone else in the student slot is rejected.
	req := f.createRequest()
	req.StudentID = otherStudent.ID
	_, err := f.svc.CreateSession(f.student.ID, models.UserRoleStudent, req)
	assertCode(t, err, apperrors.CodeForbidden)
}

func TestCreateSession_TutorWithoutProfile(t *testing.T) {
	t.Parallel()
	f := newSessionFixture(t)
	bareTutor := f.users.addUser(models.UserRoleTutor, nil)

	req := f.createRequest()
	req.TutorID = bareTutor.ID
	_, err := f.svc.CreateSession(f.student.ID, models.UserRoleStudent, req)
	assertCode(t, err, apperrors.CodeInvalidOperation)
}

func TestUpdateStatus_HappyPathLifecycle(t *testing.T) {
	t.Parallel()
	f := newSessionFixture(t)
	session := f.book(t)

	confirmed, err := f.svc.UpdateStatus(f.tutor.ID, session.ID, models.SessionStatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, models.SessionStatusConfirmed, confirmed.Status)

	completed, err := f.svc.UpdateStatus(f.tutor.ID, session.ID, models.SessionStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, models.SessionStatusCompleted, completed.Status)
}

func TestUpdateStatus_StudentMayNotConfirm(t *testing.T) {
	t.Parallel()
	f := newSessionFixture(t)
	session := f.book(t)

	_, err := f.svc.UpdateStatus(f.student.ID, session.ID, models.SessionStatusConfirmed)
	assertCode(t, err, apperrors.CodeForbidden)

	// The session is untouched.
	current, err := f.svc.GetSession(f.student.ID, session.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionStatusPending, current.Status)
}

func TestUpdateStatus_EitherPartyMayCancel(t *testing.T) {
	t.Parallel()
	f := newSessionFixture(t)
	session := f.book(t)

	cancelled, err := f.svc.UpdateStatus(f.student.ID, session.ID, models.SessionStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, models.SessionStatusCancelled, cancelled.Status)
}

func TestUpdateStatus_TerminalStatesAreFinal(t *testing.T) {
	t.Parallel()
	f := newSessionFixture(t)
	session := f.book(t)

	_, err := f.svc.UpdateStatus(f.tutor.ID, session.ID, models.SessionStatusConfirmed)
	require.NoError(t, err)
	_, err = f.svc.UpdateStatus(f.tutor.ID, session.ID, models.SessionStatusCompleted)
	require.NoError(t, err)

	// Cancelling a completed session must fail with a status conflict, not
	// silently overwrite.
	_, err = f.svc.UpdateStatus(f.tutor.ID, session.ID, models.SessionStatusCancelled)
	assertCode(t, err, apperrors.CodeInvalidStatus)
}

func TestUpdateStatus_SkippingConfirmationRejected(t *testing.T) {
	t.Parallel()
	f := newSessionFixture(t)
	session := f.book(t)

	_, err := f.svc.UpdateStatus(f.tutor.ID, session.ID, models.SessionStatusCompleted)
	assertCode(t, err, apperrors.CodeInvalidStatus)
}

func TestUpdateStatus_OutsiderRejected(t *testing.T) {
	t.Parallel()
	f := newSessionFixture(t)
	session := f.book(t)
	outsider := f.users.addUser(models.UserRoleTutor, nil)

	_, err := f.svc.UpdateStatus(outsider.ID, session.ID, models.SessionStatusConfirmed)
	assertCode(t, err, apperrors.CodeForbidden)
}

func TestUpdateStatus_NotifiesCounterpart(t *testing.T) {
	t.Parallel()
	f := newSessionFixture(t)
	session := f.book(t)

	before := f.notifications.countForUser(f.student.ID)
	_, err := f.svc.UpdateStatus(f.tutor.ID, session.ID, models.SessionStatusConfirmed)
	require.NoError(t, err)

	assert.Equal(t, before+1, f.notifications.countForUser(f.student.ID))
}

func TestUpdateStatus_RefreshesUpdatedAt(t *testing.T) {
	t.Parallel()
	f := newSessionFixture(t)
	session := f.book(t)

	before := time.Now()
	confirmed, err := f.svc.UpdateStatus(f.tutor.ID, session.ID, models.SessionStatusConfirmed)
	require.NoError(t, err)

	// The response reflects the bump the update just wrote.
	assert.False(t, confirmed.UpdatedAt.Before(before))
}

func TestUpdatePaymentStatus_RecordsSignal(t *testing.T) {
	t.Parallel()
	f := newSessionFixture(t)
	session := f.book(t)

	updated, err := f.svc.UpdatePaymentStatus(f.student.ID, session.ID, models.PaymentStatusPaid)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, updated.PaymentStatus)

	// The signal is opaque to the lifecycle.
	assert.Equal(t, models.SessionStatusPending, updated.Status)

	current, err := f.svc.GetSession(f.tutor.ID, session.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, current.PaymentStatus)
}

func TestUpdatePaymentStatus_ParticipantsOnly(t *testing.T) {
	t.Parallel()
	f := newSessionFixture(t)
	session := f.book(t)
	outsider := f.users.addUser(models.UserRoleStudent, nil)

	_, err := f.svc.UpdatePaymentStatus(outsider.ID, session.ID, models.PaymentStatusPaid)
	assertCode(t, err, apperrors.CodeForbidden)

	_, err = f.svc.UpdatePaymentStatus(f.student.ID, "missing", models.PaymentStatusPaid)
	assertCode(t, err, apperrors.CodeNotFound)
}

func TestGetSession_ParticipantsOnly(t *testing.T) {
	t.Parallel()
	f := newSessionFixture(t)
	session := f.book(t)
	outsider := f.users.addUser(models.UserRoleStudent, nil)

	_, err := f.svc.GetSession(outsider.ID, session.ID)
	assertCode(t, err, apperrors.CodeForbidden)

	_, err = f.svc.GetSession(f.tutor.ID, session.ID)
	assert.NoError(t, err)
}
