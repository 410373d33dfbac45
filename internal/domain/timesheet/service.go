package timesheet

import (
	"context"
)

type TimesheetService interface {
	// Timesheet returns a user's reconciled entries and totals for the
	// window, newest entry first.
	Timesheet(ctx context.Context, userName string, window Range) (TimesheetResponse, error)
}
