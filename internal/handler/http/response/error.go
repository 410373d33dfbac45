package response

import (
	"errors"
	"net/http"

	"github.com/shiftclock/shiftclock-backend-go/internal/domain/auth"
	"github.com/shiftclock/shiftclock-backend-go/internal/domain/clock"
	"github.com/shiftclock/shiftclock-backend-go/internal/domain/clockgate"
	"github.com/shiftclock/shiftclock-backend-go/internal/domain/report"
	"github.com/shiftclock/shiftclock-backend-go/internal/domain/schedule"
	"github.com/shiftclock/shiftclock-backend-go/internal/domain/session"
	"github.com/shiftclock/shiftclock-backend-go/internal/domain/timesheet"
	"github.com/shiftclock/shiftclock-backend-go/internal/domain/user"
	"github.com/shiftclock/shiftclock-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Auth domain errors
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid token")
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")
	case errors.Is(err, auth.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, auth.ErrRegistrationDenied):
		BadGateway(w, "Registration workflow did not confirm the account")

	// User domain errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrUserNameExists):
		Conflict(w, "Username already registered")
	case errors.Is(err, user.ErrUserEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, user.ErrInvalidEmailFormat),
		errors.Is(err, user.ErrInvalidPasswordLength):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, user.ErrAdminAccessRequired),
		errors.Is(err, user.ErrEmployeeOnly):
		Forbidden(w, err.Error())
	case errors.Is(err, user.ErrProfileSaveUnconfirmed):
		BadGateway(w, "Profile workflow did not confirm the save")

	// Session state machine errors
	case errors.Is(err, session.ErrAlreadyClockedIn),
		errors.Is(err, session.ErrNotWorking),
		errors.Is(err, session.ErrNotOnBreak),
		errors.Is(err, session.ErrNoSession):
		Conflict(w, err.Error())

	// Clock gate errors
	case errors.Is(err, clockgate.ErrNoLocationFix):
		BadRequest(w, "Unable to determine your location", nil)
	case errors.Is(err, clockgate.ErrNoOpenClockIn):
		Conflict(w, "No open clock-in on this device")
	case errors.Is(err, clockgate.ErrWebhookUnconfirmed):
		BadGateway(w, "Clock workflow did not confirm the action")

	// Schedule domain errors
	case errors.Is(err, schedule.ErrAssignmentNotFound):
		NotFound(w, "Schedule assignment not found")
	case errors.Is(err, schedule.ErrTemplateNotFound):
		NotFound(w, "Shift template not found")
	case errors.Is(err, schedule.ErrNoActiveAssignment):
		NotFound(w, "No active schedule assignment")
	case errors.Is(err, schedule.ErrWebhookRejected):
		BadGateway(w, "Schedule workflow did not confirm the change")

	// Timesheet and report errors
	case errors.Is(err, timesheet.ErrInvalidRange),
		errors.Is(err, report.ErrInvalidRange),
		errors.Is(err, clock.ErrInvalidRange):
		BadRequest(w, "From date must not be after to date", nil)
	case errors.Is(err, report.ErrEmptyExport):
		NotFound(w, "No work hours in the requested range")
	case errors.Is(err, clock.ErrEventNotFound):
		NotFound(w, "Clock event not found")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
