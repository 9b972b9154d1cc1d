package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ddhealthcare/hrms-backend-go/internal/domain/auth"
	"github.com/ddhealthcare/hrms-backend-go/internal/domain/employee"
	"github.com/ddhealthcare/hrms-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrAccountInactive),
		errors.Is(err, auth.ErrEmployeeNotWorking),
		errors.Is(err, auth.ErrGoogleEmailNotLinked):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")
	case errors.Is(err, auth.ErrOTPNotRequested),
		errors.Is(err, auth.ErrInvalidOTP),
		errors.Is(err, auth.ErrOTPExpired),
		errors.Is(err, auth.ErrOTPNotVerified),
		errors.Is(err, auth.ErrOTPAttemptsExceeded),
		errors.Is(err, auth.ErrOAuthStateMismatch),
		errors.Is(err, auth.ErrGoogleAccessDenied):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, auth.ErrGoogleEmailUnverified):
		Forbidden(w, err.Error())
	case errors.Is(err, auth.ErrOAuthDisabled):
		NotFound(w, err.Error())
	case errors.Is(err, auth.ErrEmailDelivery):
		slog.Error("email delivery failed", "error", err)
		InternalServerError(w, "Failed to send passcode email, please try again")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeIDExists):
		Conflict(w, "Employee ID already exists")
	case errors.Is(err, employee.ErrEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, employee.ErrConcurrentUpdate):
		Conflict(w, err.Error())
	case errors.Is(err, employee.ErrUnauthorized):
		Forbidden(w, "You do not have permission to perform this action")
	case errors.Is(err, employee.ErrCannotDeleteSelf),
		errors.Is(err, employee.ErrInvalidLeaveType),
		errors.Is(err, employee.ErrInvalidLeaveDays),
		errors.Is(err, employee.ErrInvalidLeaveOperation),
		errors.Is(err, employee.ErrInvalidExportFormat),
		errors.Is(err, employee.ErrInvalidPhoto):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
