package response

import (
	"errors"
	"net/http"

	"github.com/cmlabs-hris/payroll-onboarding/internal/domain/compensation"
	"github.com/cmlabs-hris/payroll-onboarding/internal/domain/onboarding"
	"github.com/cmlabs-hris/payroll-onboarding/internal/pkg/jwt"
	"github.com/cmlabs-hris/payroll-onboarding/internal/pkg/payrollapi"
	"github.com/cmlabs-hris/payroll-onboarding/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var apiErr *payrollapi.APIError
	if errors.As(err, &apiErr) {
		BadGateway(w, "Payroll service request failed: "+apiErr.Message, apiErr.Retryable())
		return
	}

	switch {
	// Auth
	case errors.Is(err, jwt.ErrInvalidToken):
		Unauthorized(w, err.Error())
	case errors.Is(err, jwt.ErrCompanyIDRequired):
		Forbidden(w, "Company context required")

	// Compensation domain errors
	case errors.Is(err, compensation.ErrInvalidCategory):
		BadRequest(w, compensation.ErrInvalidCategory.Error(), nil)
	case errors.Is(err, compensation.ErrComponentTypeNotFound):
		NotFound(w, "Component type not found")
	case errors.Is(err, compensation.ErrEntryNotFound):
		NotFound(w, "Ledger entry not found")
	case errors.Is(err, compensation.ErrPendingOperation),
		errors.Is(err, compensation.ErrNoPendingOperation):
		Conflict(w, err.Error())

	// Onboarding domain errors
	case errors.Is(err, onboarding.ErrSessionNotFound):
		NotFound(w, "Onboarding session not found")
	case errors.Is(err, onboarding.ErrInvalidTab):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, onboarding.ErrSessionClosed),
		errors.Is(err, onboarding.ErrNotSubmitted),
		errors.Is(err, onboarding.ErrTabMismatch),
		errors.Is(err, onboarding.ErrTabNotVisited),
		errors.Is(err, onboarding.ErrInvalidTransition),
		errors.Is(err, onboarding.ErrPaymentModalClosed),
		errors.Is(err, onboarding.ErrSubmissionInFlight),
		errors.Is(err, onboarding.ErrNothingToReconcile):
		Conflict(w, err.Error())

	// Transport failures reaching the payroll API
	case errors.Is(err, payrollapi.ErrUpstream):
		BadGateway(w, "Payroll service is unreachable", true)

	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
