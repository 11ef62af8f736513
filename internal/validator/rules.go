package validator

import (
	"log"

	"github.com/go-playground/validator/v10"

	"tutorlink_backend/internal/models"
)

// registerCustomRules installs the model-derived validation tags.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			// A rule that fails to register is a startup error.
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("is-user-role", validateUserRole)
	mustRegister("is-session-status", validateSessionStatus)
	mustRegister("is-payment-status", validatePaymentStatus)
}

func validateUserRole(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // empty values are handled by 'required'
	}
	switch models.UserRole(value) {
	case models.UserRoleStudent, models.UserRoleTutor:
		return true
	default:
		return false
	}
}

func validateSessionStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.SessionStatus(value) {
	case models.SessionStatusPending, models.SessionStatusConfirmed,
		models.SessionStatusCompleted, models.SessionStatusCancelled:
		return true
	default:
		return false
	}
}

func validatePaymentStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.PaymentStatus(value) {
	case models.PaymentStatusPending, models.PaymentStatusPaid,
		models.PaymentStatusFailed, models.PaymentStatusRefunded:
		return true
	default:
		return false
	}
}
