package report

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/shiftclock/shiftclock-backend-go/internal/domain/clock"
	"github.com/shiftclock/shiftclock-backend-go/internal/domain/report"
	"github.com/shiftclock/shiftclock-backend-go/internal/domain/schedule"
	"github.com/shiftclock/shiftclock-backend-go/internal/domain/user"
)

type fakeClockRepo struct {
	ins  []clock.Event
	outs []clock.Event
}

func (f *fakeClockRepo) ListIns(_ context.Context, filter clock.Filter) ([]clock.Event, error) {
	return filterEvents(f.ins, filter), nil
}

func (f *fakeClockRepo) ListOuts(_ context.Context, filter clock.Filter) ([]clock.Event, error) {
	return filterEvents(f.outs, filter), nil
}

func (f *fakeClockRepo) ActiveUserNames(_ context.Context, filter clock.Filter) ([]string, error) {
	seen := map[string]struct{}{}
	var names []string
	for _, e := range append(filterEvents(f.ins, filter), filterEvents(f.outs, filter)...) {
		if _, ok := seen[e.UserName]; ok {
			continue
		}
		seen[e.UserName] = struct{}{}
		names = append(names, e.UserName)
	}
	return names, nil
}

func filterEvents(events []clock.Event, filter clock.Filter) []clock.Event {
	var out []clock.Event
	for _, e := range events {
		if filter.UserName != "" && e.UserName != filter.UserName {
			continue
		}
		if !filter.From.IsZero() && e.CreatedAt.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && e.CreatedAt.After(filter.To) {
			continue
		}
		out = append(out, e)
	}
	return out
}

type fakeScheduleRepo struct {
	assignments []schedule.Assignment
}

func (f *fakeScheduleRepo) ListAssignments(_ context.Context) ([]schedule.Assignment, error) {
	return f.assignments, nil
}

func (f *fakeScheduleRepo) ListAssignmentsByUser(_ context.Context, userName string) ([]schedule.Assignment, error) {
	var out []schedule.Assignment
	for _, a := range f.assignments {
		if a.UserName == userName {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeScheduleRepo) ListAssignmentsOverlapping(_ context.Context, _, _ time.Time) ([]schedule.Assignment, error) {
	return f.assignments, nil
}

func (f *fakeScheduleRepo) GetAssignment(_ context.Context, _ string) (schedule.Assignment, error) {
	return schedule.Assignment{}, schedule.ErrAssignmentNotFound
}

func (f *fakeScheduleRepo) UpdateAssignment(_ context.Context, _ schedule.UpdateAssignmentRequest) error {
	return nil
}

func (f *fakeScheduleRepo) DeleteAssignment(_ context.Context, _ string) error {
	return nil
}

type fakeTemplateRepo struct {
	templates []schedule.Template
}

func (f *fakeTemplateRepo) ListTemplates(_ context.Context) ([]schedule.Template, error) {
	return f.templates, nil
}

func (f *fakeTemplateRepo) GetTemplate(_ context.Context, _ string) (schedule.Template, error) {
	return schedule.Template{}, schedule.ErrTemplateNotFound
}

func (f *fakeTemplateRepo) GetByShift(_ context.Context, shiftName, project string) (schedule.Template, error) {
	for _, t := range f.templates {
		if t.ShiftName == shiftName && t.Project == project {
			return t, nil
		}
	}
	for _, t := range f.templates {
		if t.ShiftName == shiftName {
			return t, nil
		}
	}
	return schedule.Template{}, schedule.ErrTemplateNotFound
}

func (f *fakeTemplateRepo) DeleteTemplate(_ context.Context, _ string) error {
	return nil
}

type fakeUserRepo struct {
	users []user.User
}

func (f *fakeUserRepo) GetByID(_ context.Context, _ string) (user.User, error) {
	return user.User{}, user.ErrUserNotFound
}

func (f *fakeUserRepo) GetByUserName(_ context.Context, userName string) (user.User, error) {
	for _, u := range f.users {
		if u.UserName == userName {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, _ string) (user.User, error) {
	return user.User{}, user.ErrUserNotFound
}

func (f *fakeUserRepo) List(_ context.Context) ([]user.User, error) {
	return f.users, nil
}

func (f *fakeUserRepo) ListByRole(_ context.Context, role user.Role) ([]user.User, error) {
	var out []user.User
	for _, u := range f.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) Create(_ context.Context, u user.User) (user.User, error) {
	return u, nil
}

func (f *fakeUserRepo) Update(_ context.Context, _ user.UpdateProfileRequest) error {
	return nil
}

func (f *fakeUserRepo) ExistsByUserNameOrEmail(_ context.Context, _, _ string) (bool, error) {
	return false, nil
}

func ptr(s string) *string { return &s }

// fixture: Mon Mar 10 .. Fri Mar 14 2025, alice scheduled mon-fri on
// Site A, worked Mon and Tue, absent Wed; now pinned to Thu so Thu/Fri
// are future and never counted.
func newFixtureService() *ReportServiceImpl {
	monday := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	clockRepo := &fakeClockRepo{
		ins: []clock.Event{
			{UserName: "alice", CreatedAt: monday.Add(9 * time.Hour), ClockTime: ptr("09:00 AM")},
			{UserName: "alice", CreatedAt: monday.AddDate(0, 0, 1).Add(9*time.Hour + 30*time.Minute), ClockTime: ptr("09:30 AM")},
		},
		outs: []clock.Event{
			{UserName: "alice", CreatedAt: monday.Add(17 * time.Hour), ClockTime: ptr("05:00 PM")},
			{UserName: "alice", CreatedAt: monday.AddDate(0, 0, 1).Add(17*time.Hour + 30*time.Minute), ClockTime: ptr("05:30 PM")},
		},
	}
	scheduleRepo := &fakeScheduleRepo{
		assignments: []schedule.Assignment{
			{ID: "s1", UserName: "alice", ShiftName: "Morning", Project: "Site A", StartDate: monday.AddDate(0, -1, 0)},
			{ID: "s2", UserName: "bob", ShiftName: "Morning", Project: "Site A", StartDate: monday.AddDate(0, 0, 30)},
		},
	}
	templateRepo := &fakeTemplateRepo{
		templates: []schedule.Template{
			{ID: "t1", ShiftName: "Morning", Project: "Site A", StartTime: ptr("09:00 AM"), Days: []string{"mon", "tue", "wed", "thu", "fri"}},
		},
	}
	userRepo := &fakeUserRepo{
		users: []user.User{
			{UserName: "alice", Name: "Alice Smith", Role: user.RoleEmployee},
			{UserName: "bob", Name: "Bob Jones", Role: user.RoleEmployee},
		},
	}

	return &ReportServiceImpl{
		ClockRepository:    clockRepo,
		ScheduleRepository: scheduleRepo,
		TemplateRepository: templateRepo,
		UserRepository:     userRepo,
		now: func() time.Time {
			return time.Date(2025, 3, 13, 12, 0, 0, 0, time.UTC)
		},
	}
}

func fixtureQuery() report.Query {
	return report.Query{
		From: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
	}
}

func TestBuildAggregatesWorkedDaysAndAbsences(t *testing.T) {
	svc := newFixtureService()

	result, err := svc.Build(context.Background(), fixtureQuery())
	require.NoError(t, err)

	require.Len(t, result.Rows, 1)
	row := result.Rows[0]
	assert.Equal(t, "alice", row.UserName)
	assert.Equal(t, "Alice Smith", row.Employee)
	assert.Equal(t, "Site A", row.Project)
	assert.Equal(t, 2, row.DaysWorked)
	assert.Equal(t, 16.0, row.TotalHours)
	assert.Equal(t, 1, row.LateCount)
	// Wed had a schedule and no clock-in; Thu (today) had neither but is
	// not future, so it counts too; Fri is future and does not
	assert.Equal(t, 2, row.Absences)
}

func TestBuildSummaryCountsHiddenZeroRows(t *testing.T) {
	svc := newFixtureService()

	result, err := svc.Build(context.Background(), fixtureQuery())
	require.NoError(t, err)

	// bob's assignment starts after the range: no workdays, no hours,
	// so he is summarized but not listed
	assert.Equal(t, 2, result.Summary.TotalEmployees)
	assert.Equal(t, 16.0, result.Summary.TotalHours)
	assert.Equal(t, 1, result.Summary.LateIncidents)
	assert.Equal(t, 2, result.Summary.TotalAbsences)
	require.Len(t, result.Rows, 1)
}

func TestBuildEmployeeQueryFilter(t *testing.T) {
	svc := newFixtureService()
	q := fixtureQuery()
	q.EmployeeQuery = "smith"

	result, err := svc.Build(context.Background(), q)
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, "alice", result.Rows[0].UserName)

	q.EmployeeQuery = "nobody"
	result, err = svc.Build(context.Background(), q)
	require.NoError(t, err)
	assert.Empty(t, result.Rows)
	assert.Zero(t, result.Summary.TotalEmployees)
}

func TestBuildRejectsInvertedRange(t *testing.T) {
	svc := newFixtureService()
	q := fixtureQuery()
	q.From, q.To = q.To, q.From

	_, err := svc.Build(context.Background(), q)
	assert.ErrorIs(t, err, report.ErrInvalidRange)
}

func TestUserDetailListsReconciledEntries(t *testing.T) {
	svc := newFixtureService()

	detail, err := svc.UserDetail(context.Background(), "alice", fixtureQuery())
	require.NoError(t, err)

	assert.Equal(t, "Alice Smith", detail.Employee)
	require.Len(t, detail.Entries, 2)
	for _, e := range detail.Entries {
		assert.NotNil(t, e.ClockOut)
		assert.Equal(t, 480, e.WorkedMinutes)
	}
}

func TestExportWorkbookLayout(t *testing.T) {
	svc := newFixtureService()

	data, err := svc.Export(context.Background(), fixtureQuery())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	title, err := f.GetCellValue(exportSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "PUBLIC WORK HOURS", title)

	// header block for the single populated week
	h, err := f.GetCellValue(exportSheet, "A3")
	require.NoError(t, err)
	assert.Equal(t, "Month", h)
	h, err = f.GetCellValue(exportSheet, "C3")
	require.NoError(t, err)
	assert.Equal(t, "Project Name/Address", h)

	// project heading row, then alice's row
	month, _ := f.GetCellValue(exportSheet, "A4")
	assert.Equal(t, "March", month)
	weekEnd, _ := f.GetCellValue(exportSheet, "B4")
	assert.Equal(t, "3/14/2025", weekEnd)
	project, _ := f.GetCellValue(exportSheet, "C4")
	assert.Equal(t, "Site A", project)

	employee, _ := f.GetCellValue(exportSheet, "C5")
	assert.Equal(t, "Alice Smith", employee)
	mon, _ := f.GetCellValue(exportSheet, "D5")
	assert.Equal(t, "8", mon)
	total, _ := f.GetCellValue(exportSheet, "I5")
	assert.Equal(t, "16", total)
}

func TestExportHonorsEmployeeFilter(t *testing.T) {
	svc := newFixtureService()

	q := fixtureQuery()
	q.EmployeeQuery = "smith"
	data, err := svc.Export(context.Background(), q)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	employee, _ := f.GetCellValue(exportSheet, "C5")
	assert.Equal(t, "Alice Smith", employee)

	// a filter matching only an employee without hours leaves nothing
	q.EmployeeQuery = "bob"
	_, err = svc.Export(context.Background(), q)
	assert.ErrorIs(t, err, report.ErrEmptyExport)
}

func TestExportEmptyRangeRejected(t *testing.T) {
	svc := newFixtureService()
	q := report.Query{
		From: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
	}

	_, err := svc.Export(context.Background(), q)
	assert.ErrorIs(t, err, report.ErrEmptyExport)
}
