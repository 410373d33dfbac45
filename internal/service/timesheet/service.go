package timesheet

import (
	"context"
	"fmt"

	"github.com/shiftclock/shiftclock-backend-go/internal/domain/clock"
	"github.com/shiftclock/shiftclock-backend-go/internal/domain/schedule"
	"github.com/shiftclock/shiftclock-backend-go/internal/domain/timesheet"
)

type TimesheetServiceImpl struct {
	clock.ClockRepository
	schedule.ScheduleRepository
	schedule.TemplateRepository
}

func NewTimesheetService(
	clockRepo clock.ClockRepository,
	scheduleRepo schedule.ScheduleRepository,
	templateRepo schedule.TemplateRepository,
) timesheet.TimesheetService {
	return &TimesheetServiceImpl{
		ClockRepository:    clockRepo,
		ScheduleRepository: scheduleRepo,
		TemplateRepository: templateRepo,
	}
}

// Timesheet implements timesheet.TimesheetService.
func (s *TimesheetServiceImpl) Timesheet(ctx context.Context, userName string, window timesheet.Range) (timesheet.TimesheetResponse, error) {
	if window.From.After(window.To) {
		return timesheet.TimesheetResponse{}, timesheet.ErrInvalidRange
	}

	filter := clock.Filter{UserName: userName, From: window.From, To: window.To}
	ins, err := s.ListIns(ctx, filter)
	if err != nil {
		return timesheet.TimesheetResponse{}, fmt.Errorf("list clock-ins: %w", err)
	}
	// clock-outs can land past the window's edge; widen by the pairing
	// horizon so an overnight shift still closes
	outFilter := filter
	outFilter.To = window.To.Add(maxShiftSpan)
	outs, err := s.ListOuts(ctx, outFilter)
	if err != nil {
		return timesheet.TimesheetResponse{}, fmt.Errorf("list clock-outs: %w", err)
	}

	assignments, err := s.ListAssignmentsByUser(ctx, userName)
	if err != nil {
		return timesheet.TimesheetResponse{}, fmt.Errorf("list assignments: %w", err)
	}
	templates, err := s.ListTemplates(ctx)
	if err != nil {
		return timesheet.TimesheetResponse{}, fmt.Errorf("list templates: %w", err)
	}

	entries := Reconcile(ins, outs, assignments, templates)
	summary := Summarize(entries)

	resp := timesheet.TimesheetResponse{
		From:    window.From.Format("2006-01-02"),
		To:      window.To.Format("2006-01-02"),
		Entries: make([]timesheet.EntryResponse, 0, len(entries)),
		Summary: summary.ToResponse(),
	}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, e.ToResponse())
	}

	return resp, nil
}
