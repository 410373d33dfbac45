package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/shiftclock/shiftclock-backend-go/internal/domain/timesheet"
	"github.com/shiftclock/shiftclock-backend-go/internal/handler/http/response"
	"github.com/shiftclock/shiftclock-backend-go/internal/pkg/timeutil"
)

type TimesheetHandler interface {
	My(w http.ResponseWriter, r *http.Request)
}

type TimesheetHandlerImpl struct {
	timesheetService timesheet.TimesheetService
}

func NewTimesheetHandler(timesheetService timesheet.TimesheetService) TimesheetHandler {
	return &TimesheetHandlerImpl{timesheetService: timesheetService}
}

// My implements TimesheetHandler. Without explicit bounds it covers the
// last seven days ending today.
func (t *TimesheetHandlerImpl) My(w http.ResponseWriter, r *http.Request) {
	window, err := parseDateWindow(r, 7)
	if err != nil {
		response.BadRequest(w, "Dates must be in YYYY-MM-DD format", nil)
		return
	}

	userName := claimString(r, "user_name")
	sheet, err := t.timesheetService.Timesheet(r.Context(), userName, timesheet.Range{From: window.From, To: window.To})
	if err != nil {
		slog.Error("Timesheet service error", "user_name", userName, "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, sheet)
}

type dateWindow struct {
	From time.Time
	To   time.Time
}

// parseDateWindow reads from/to query parameters, defaulting to a
// window of defaultDays ending today.
func parseDateWindow(r *http.Request, defaultDays int) (dateWindow, error) {
	to := timeutil.DateOf(time.Now())
	if raw := r.URL.Query().Get("to"); raw != "" {
		parsed, err := timeutil.ParseDate(raw)
		if err != nil {
			return dateWindow{}, err
		}
		to = parsed
	}

	from := to.AddDate(0, 0, -(defaultDays - 1))
	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := timeutil.ParseDate(raw)
		if err != nil {
			return dateWindow{}, err
		}
		from = parsed
	}

	return dateWindow{From: from, To: to}, nil
}
