package schedule

import (
	"time"

	"github.com/shiftclock/shiftclock-backend-go/internal/pkg/timeutil"
	"github.com/shiftclock/shiftclock-backend-go/internal/pkg/validator"
)

// CreateAssignmentRequest is relayed to the schedule webhook; the
// workflow owns the insert.
type CreateAssignmentRequest struct {
	UserName  string  `json:"user_name"`
	ShiftName string  `json:"shift_name"`
	Project   string  `json:"project"`
	StartDate string  `json:"start_date"`
	EndDate   *string `json:"end_date,omitempty"`
}

func (r *CreateAssignmentRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserName) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_name",
			Message: "user_name is required",
		})
	}
	if validator.IsEmpty(r.ShiftName) {
		errs = append(errs, validator.ValidationError{
			Field:   "shift_name",
			Message: "shift_name is required",
		})
	}
	if validator.IsEmpty(r.Project) {
		errs = append(errs, validator.ValidationError{
			Field:   "project",
			Message: "project is required",
		})
	}
	if validator.IsEmpty(r.StartDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date is required",
		})
	} else if _, ok := validator.IsValidDate(r.StartDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}
	if r.EndDate != nil {
		if _, ok := validator.IsValidDate(*r.EndDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// UpdateAssignmentRequest updates the local row and notifies the
// webhook. Nil fields are left unchanged.
type UpdateAssignmentRequest struct {
	ID        string  `json:"-"`
	ShiftName *string `json:"shift_name,omitempty"`
	Project   *string `json:"project,omitempty"`
	StartDate *string `json:"start_date,omitempty"`
	EndDate   *string `json:"end_date,omitempty"`
}

func (r *UpdateAssignmentRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.StartDate != nil {
		if _, ok := validator.IsValidDate(*r.StartDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}
	if r.EndDate != nil && *r.EndDate != "" {
		if _, ok := validator.IsValidDate(*r.EndDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// CreateTemplateRequest is relayed to the template webhook.
type CreateTemplateRequest struct {
	ShiftName string   `json:"shift_name"`
	Project   string   `json:"project"`
	StartTime string   `json:"start_time"`
	EndTime   string   `json:"end_time"`
	BreakTime *string  `json:"break_time,omitempty"`
	Days      []string `json:"days"`
}

func (r *CreateTemplateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ShiftName) {
		errs = append(errs, validator.ValidationError{
			Field:   "shift_name",
			Message: "shift_name is required",
		})
	}
	if validator.IsEmpty(r.Project) {
		errs = append(errs, validator.ValidationError{
			Field:   "project",
			Message: "project is required",
		})
	}
	if validator.IsEmpty(r.StartTime) {
		errs = append(errs, validator.ValidationError{
			Field:   "start_time",
			Message: "start_time is required",
		})
	}
	if validator.IsEmpty(r.EndTime) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_time",
			Message: "end_time is required",
		})
	}
	if len(r.Days) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "days",
			Message: "at least one working day is required",
		})
	}
	for _, d := range r.Days {
		if !validator.IsInSlice(d, []string{"sun", "mon", "tue", "wed", "thu", "fri", "sat"}) {
			errs = append(errs, validator.ValidationError{
				Field:   "days",
				Message: "days must be three-letter weekday tokens (mon..sun)",
			})
			break
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type AssignmentResponse struct {
	ID        string  `json:"id"`
	UserName  string  `json:"user_name"`
	ShiftName string  `json:"shift_name"`
	Project   string  `json:"project"`
	StartDate string  `json:"start_date"`
	EndDate   *string `json:"end_date,omitempty"`
	CreatedAt string  `json:"created_at"`
}

func (a Assignment) ToResponse() AssignmentResponse {
	resp := AssignmentResponse{
		ID:        a.ID,
		UserName:  a.UserName,
		ShiftName: a.ShiftName,
		Project:   a.Project,
		StartDate: a.StartDate.Format("2006-01-02"),
		CreatedAt: a.CreatedAt.Format(time.RFC3339),
	}
	if a.EndDate != nil {
		end := a.EndDate.Format("2006-01-02")
		resp.EndDate = &end
	}
	return resp
}

type TemplateResponse struct {
	ID        string   `json:"id"`
	ShiftName string   `json:"shift_name"`
	Project   string   `json:"project"`
	StartTime *string  `json:"start_time,omitempty"`
	EndTime   *string  `json:"end_time,omitempty"`
	BreakTime *string  `json:"break_time,omitempty"`
	Days      []string `json:"days"`
	CreatedAt string   `json:"created_at"`
}

func (t Template) ToResponse() TemplateResponse {
	return TemplateResponse{
		ID:        t.ID,
		ShiftName: t.ShiftName,
		Project:   t.Project,
		StartTime: t.StartTime,
		EndTime:   t.EndTime,
		BreakTime: t.BreakTime,
		Days:      t.Days,
		CreatedAt: t.CreatedAt.Format(time.RFC3339),
	}
}

// ResolvedShift is a user's active assignment with its matching
// template, when one exists.
type ResolvedShift struct {
	Assignment Assignment
	Template   *Template
}

// StartTimeOn resolves the shift's start instant on the given date,
// falling back to the default 09:00 baseline when the template carries
// no parseable start time.
func (s ResolvedShift) StartTimeOn(date time.Time) time.Time {
	if s.Template != nil && s.Template.StartTime != nil {
		if t, ok := timeutil.ParseClockTime(*s.Template.StartTime, date); ok {
			return t
		}
	}
	return time.Date(date.Year(), date.Month(), date.Day(), 9, 0, 0, 0, date.Location())
}
