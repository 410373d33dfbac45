package report

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shiftclock/shiftclock-backend-go/internal/domain/clock"
	"github.com/shiftclock/shiftclock-backend-go/internal/domain/report"
	"github.com/shiftclock/shiftclock-backend-go/internal/domain/schedule"
	domaintimesheet "github.com/shiftclock/shiftclock-backend-go/internal/domain/timesheet"
	"github.com/shiftclock/shiftclock-backend-go/internal/domain/user"
	"github.com/shiftclock/shiftclock-backend-go/internal/pkg/timeutil"
	"github.com/shiftclock/shiftclock-backend-go/internal/service/timesheet"
)

type ReportServiceImpl struct {
	clock.ClockRepository
	schedule.ScheduleRepository
	schedule.TemplateRepository
	user.UserRepository

	now func() time.Time
}

func NewReportService(
	clockRepo clock.ClockRepository,
	scheduleRepo schedule.ScheduleRepository,
	templateRepo schedule.TemplateRepository,
	userRepo user.UserRepository,
) report.ReportService {
	return &ReportServiceImpl{
		ClockRepository:    clockRepo,
		ScheduleRepository: scheduleRepo,
		TemplateRepository: templateRepo,
		UserRepository:     userRepo,
		now:                time.Now,
	}
}

// rangeData is everything a report pass needs, fetched once.
type rangeData struct {
	ins         []clock.Event
	outs        []clock.Event
	clockActive []string
	assignments []schedule.Assignment
	templates   []schedule.Template
	users       map[string]user.User
}

func (s *ReportServiceImpl) fetch(ctx context.Context, q report.Query) (rangeData, error) {
	var d rangeData

	if q.From.After(q.To) {
		return d, report.ErrInvalidRange
	}

	filter := clock.Filter{From: q.From, To: q.To.AddDate(0, 0, 1)}
	var err error
	if d.ins, err = s.ListIns(ctx, filter); err != nil {
		return d, fmt.Errorf("list clock-ins: %w", err)
	}
	if d.outs, err = s.ListOuts(ctx, filter); err != nil {
		return d, fmt.Errorf("list clock-outs: %w", err)
	}
	if d.clockActive, err = s.ActiveUserNames(ctx, filter); err != nil {
		return d, fmt.Errorf("list active users: %w", err)
	}
	if d.assignments, err = s.ListAssignmentsOverlapping(ctx, q.From, q.To); err != nil {
		return d, fmt.Errorf("list assignments: %w", err)
	}
	if d.templates, err = s.ListTemplates(ctx); err != nil {
		return d, fmt.Errorf("list templates: %w", err)
	}

	employees, err := s.ListByRole(ctx, user.RoleEmployee)
	if err != nil {
		return d, fmt.Errorf("list employees: %w", err)
	}
	d.users = make(map[string]user.User, len(employees))
	for _, u := range employees {
		d.users[u.UserName] = u
	}

	return d, nil
}

// activeUserNames is the union of users with an assignment overlapping
// the range and users with any clock activity in it.
func (d rangeData) activeUserNames() []string {
	seen := map[string]struct{}{}
	var names []string
	add := func(name string) {
		if name == "" {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	for _, a := range d.assignments {
		add(a.UserName)
	}
	for _, name := range d.clockActive {
		add(name)
	}
	sort.Strings(names)
	return names
}

func (d rangeData) eventsFor(userName string) (ins, outs []clock.Event) {
	for _, e := range d.ins {
		if e.UserName == userName {
			ins = append(ins, e)
		}
	}
	for _, e := range d.outs {
		if e.UserName == userName {
			outs = append(outs, e)
		}
	}
	return ins, outs
}

func (d rangeData) hasClockIn(userName string, date time.Time) bool {
	for _, e := range d.ins {
		if e.UserName == userName && timeutil.SameDate(e.CreatedAt, date) {
			return true
		}
	}
	return false
}

// shiftFor resolves the user's assignment active on the date, with the
// template matched by shift_name+project first, shift_name alone as
// fallback.
func (d rangeData) shiftFor(userName string, date time.Time) *schedule.ResolvedShift {
	for _, a := range d.assignments {
		if a.UserName != userName || !a.ActiveOn(date) {
			continue
		}
		resolved := schedule.ResolvedShift{Assignment: a}
		for i := range d.templates {
			if d.templates[i].ShiftName == a.ShiftName && d.templates[i].Project == a.Project {
				resolved.Template = &d.templates[i]
				break
			}
		}
		if resolved.Template == nil {
			for i := range d.templates {
				if d.templates[i].ShiftName == a.ShiftName {
					resolved.Template = &d.templates[i]
					break
				}
			}
		}
		return &resolved
	}
	return nil
}

// Build implements report.ReportService.
func (s *ReportServiceImpl) Build(ctx context.Context, q report.Query) (report.Report, error) {
	d, err := s.fetch(ctx, q)
	if err != nil {
		return report.Report{}, err
	}

	today := timeutil.DateOf(s.now())
	query := strings.ToLower(strings.TrimSpace(q.EmployeeQuery))

	result := report.Report{
		From: q.From.Format("2006-01-02"),
		To:   q.To.Format("2006-01-02"),
		Rows: []report.Row{},
	}

	for _, name := range d.activeUserNames() {
		row := s.buildRow(d, name, q.From, q.To, today)

		if !matchesEmployeeQuery(query, row) {
			continue
		}

		result.Summary.TotalEmployees++
		result.Summary.TotalHours += row.TotalHours
		result.Summary.LateIncidents += row.LateCount
		result.Summary.TotalAbsences += row.Absences

		// all-zero rows stay out of the displayed list
		if row.DaysWorked == 0 && row.TotalHours == 0 {
			continue
		}
		result.Rows = append(result.Rows, row)
	}

	result.Summary.TotalHours = roundTenth(result.Summary.TotalHours)
	return result, nil
}

// matchesEmployeeQuery applies the case-insensitive substring filter
// over both the display name and the login. The query must already be
// lower-cased and trimmed.
func matchesEmployeeQuery(query string, row report.Row) bool {
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(row.Employee), query) ||
		strings.Contains(strings.ToLower(row.UserName), query)
}

func (s *ReportServiceImpl) buildRow(d rangeData, userName string, from, to, today time.Time) report.Row {
	row := report.Row{UserName: userName, Employee: userName}
	if u, ok := d.users[userName]; ok && u.Name != "" {
		row.Employee = u.Name
	}

	ins, outs := d.eventsFor(userName)
	entries := timesheet.Reconcile(ins, outs, d.assignments, d.templates)
	summary := timesheet.Summarize(entries)

	row.DaysWorked = summary.DaysWorked
	row.TotalHours = roundTenth(float64(summary.WorkedMinutes) / 60.0)
	row.LateCount = summary.LateCount

	for _, date := range timeutil.DatesInRange(from, to) {
		if date.After(today) {
			continue
		}
		shift := d.shiftFor(userName, date)
		if shift == nil || shift.Template == nil {
			continue
		}
		if !shift.Template.WorksOn(timeutil.WeekdayToken(date.Weekday())) {
			continue
		}
		if row.Project == "" {
			row.Project = shift.Assignment.Project
		}
		if !d.hasClockIn(userName, date) {
			row.Absences++
		}
	}
	if row.Project == "" {
		if shift := d.shiftFor(userName, timeutil.DateOf(to)); shift != nil {
			row.Project = shift.Assignment.Project
		}
	}

	return row
}

// UserDetail implements report.ReportService.
func (s *ReportServiceImpl) UserDetail(ctx context.Context, userName string, q report.Query) (report.UserDetail, error) {
	d, err := s.fetch(ctx, q)
	if err != nil {
		return report.UserDetail{}, err
	}

	detail := report.UserDetail{
		UserName: userName,
		Employee: userName,
		From:     q.From.Format("2006-01-02"),
		To:       q.To.Format("2006-01-02"),
		Entries:  []domaintimesheet.EntryResponse{},
	}
	if u, ok := d.users[userName]; ok && u.Name != "" {
		detail.Employee = u.Name
	}

	ins, outs := d.eventsFor(userName)
	for _, e := range timesheet.Reconcile(ins, outs, d.assignments, d.templates) {
		detail.Entries = append(detail.Entries, e.ToResponse())
	}

	return detail, nil
}

func roundTenth(v float64) float64 {
	if v < 0 {
		return 0
	}
	return float64(int(v*10+0.5)) / 10
}
