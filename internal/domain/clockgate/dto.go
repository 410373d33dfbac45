package clockgate

import (
	"github.com/shiftclock/shiftclock-backend-go/internal/pkg/validator"
)

// ReportedFix is the device's own location reading, relayed with the
// request for the acquisition ladder to judge.
type ReportedFix struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Accuracy  float64 `json:"accuracy"`
	Cached    bool    `json:"cached,omitempty"`
}

// ClockActionRequest carries the device's captured payload for one clock
// action. Selfie is a data URL; Address is the reverse-geocoded label
// when the device resolved one.
type ClockActionRequest struct {
	DeviceID string       `json:"device_id"`
	Action   Action       `json:"action"`
	Selfie   *string      `json:"selfie,omitempty"`
	Address  *string      `json:"address,omitempty"`
	Fix      *ReportedFix `json:"fix,omitempty"`
}

func (r *ClockActionRequest) Validate() error {
	var errs validator.ValidationErrors

	switch r.Action {
	case ActionClockIn, ActionClockOut, ActionBreakStart, ActionBreakEnd:
	default:
		errs = append(errs, validator.ValidationError{
			Field:   "action",
			Message: "action must be one of clock_in, clock_out, break_start, break_end",
		})
	}
	if (r.Action == ActionClockIn || r.Action == ActionClockOut) && (r.Selfie == nil || *r.Selfie == "") {
		errs = append(errs, validator.ValidationError{
			Field:   "selfie",
			Message: "selfie is required for clock in and clock out",
		})
	}
	if r.Fix != nil {
		if !validator.IsValidLatitude(r.Fix.Latitude) {
			errs = append(errs, validator.ValidationError{
				Field:   "fix.latitude",
				Message: "latitude must be between -90 and 90",
			})
		}
		if !validator.IsValidLongitude(r.Fix.Longitude) {
			errs = append(errs, validator.ValidationError{
				Field:   "fix.longitude",
				Message: "longitude must be between -180 and 180",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ClockActionResponse reports the outcome of one gated action.
type ClockActionResponse struct {
	Action          Action  `json:"action"`
	Confirmed       bool    `json:"confirmed"`
	SessionStatus   string  `json:"session_status"`
	Elapsed         string  `json:"elapsed"`
	GeofenceWarning *string `json:"geofence_warning,omitempty"`
}

// SessionStateResponse is the employee home view of the live session.
type SessionStateResponse struct {
	Status        string  `json:"status"`
	SessionID     string  `json:"session_id,omitempty"`
	StartedAt     *string `json:"started_at,omitempty"`
	Elapsed       string  `json:"elapsed"`
	TotalBreak    string  `json:"total_break"`
	OnBreak       bool    `json:"on_break"`
	PendingAction *string `json:"pending_action,omitempty"`
}
