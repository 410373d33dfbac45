package report

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/shiftclock/shiftclock-backend-go/internal/domain/clock"
	"github.com/shiftclock/shiftclock-backend-go/internal/domain/report"
	"github.com/shiftclock/shiftclock-backend-go/internal/pkg/timeutil"
)

const exportSheet = "Work Hours"

var exportHeader = []string{"Month", "Week Ending", "Project Name/Address", "M", "T", "W", "Th", "F", "Total"}

// Export implements report.ReportService. The workbook carries one
// header block per week ending on a Friday; rows are grouped by project
// with one line per employee, Monday through Friday hours only. Weeks
// and employees without any hours are left out.
func (s *ReportServiceImpl) Export(ctx context.Context, q report.Query) ([]byte, error) {
	d, err := s.fetch(ctx, q)
	if err != nil {
		return nil, err
	}

	today := timeutil.DateOf(s.now())
	query := strings.ToLower(strings.TrimSpace(q.EmployeeQuery))

	type member struct {
		userName string
		employee string
		project  string
	}
	var members []member
	for _, name := range d.activeUserNames() {
		row := s.buildRow(d, name, q.From, q.To, today)
		if !matchesEmployeeQuery(query, row) {
			continue
		}
		project := row.Project
		if project == "" {
			project = "—"
		}
		members = append(members, member{userName: name, employee: row.Employee, project: project})
	}
	sort.Slice(members, func(i, j int) bool { return members[i].employee < members[j].employee })

	// calendar dates grouped by their week-ending Friday
	weeks := map[time.Time][]time.Time{}
	var weekEnds []time.Time
	for _, date := range timeutil.DatesInRange(q.From, q.To) {
		we := timeutil.WeekEndingFriday(date)
		if _, ok := weeks[we]; !ok {
			weekEnds = append(weekEnds, we)
		}
		weeks[we] = append(weeks[we], date)
	}
	sort.Slice(weekEnds, func(i, j int) bool { return weekEnds[i].Before(weekEnds[j]) })

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(exportSheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 16},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", WrapText: true},
	})

	f.SetCellValue(exportSheet, "A1", "PUBLIC WORK HOURS")
	f.MergeCell(exportSheet, "A1", "I1")
	f.SetCellStyle(exportSheet, "A1", "I1", titleStyle)

	row := 3
	wrote := false
	for _, we := range weekEnds {
		// Monday..Friday of this week
		weekdays := make([]time.Time, 5)
		for i := 0; i < 5; i++ {
			weekdays[i] = we.AddDate(0, 0, i-4)
		}

		anyData := false
		for _, m := range members {
			for _, day := range weekdays {
				if s.exportDayHours(d, m.userName, day) > 0 {
					anyData = true
					break
				}
			}
			if anyData {
				break
			}
		}
		if !anyData {
			continue
		}

		for col, h := range exportHeader {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(exportSheet, cell, h)
		}
		first, _ := excelize.CoordinatesToCellName(1, row)
		last, _ := excelize.CoordinatesToCellName(len(exportHeader), row)
		f.SetCellStyle(exportSheet, first, last, headerStyle)
		row++

		byProject := map[string][]member{}
		var projects []string
		for _, m := range members {
			if _, ok := byProject[m.project]; !ok {
				projects = append(projects, m.project)
			}
			byProject[m.project] = append(byProject[m.project], m)
		}
		sort.Strings(projects)

		for _, project := range projects {
			type line struct {
				employee string
				cells    []string
				total    float64
			}
			var lines []line
			for _, m := range byProject[project] {
				var total float64
				cells := make([]string, 5)
				for i, day := range weekdays {
					h := s.exportDayHours(d, m.userName, day)
					total += h
					if h > 0 {
						cells[i] = strconv.FormatFloat(h, 'f', -1, 64)
					}
				}
				if total <= 0 {
					continue
				}
				lines = append(lines, line{employee: m.employee, cells: cells, total: total})
			}
			if len(lines) == 0 {
				continue
			}

			f.SetCellValue(exportSheet, fmt.Sprintf("A%d", row), we.Month().String())
			f.SetCellValue(exportSheet, fmt.Sprintf("B%d", row), fmt.Sprintf("%d/%d/%d", int(we.Month()), we.Day(), we.Year()))
			f.SetCellValue(exportSheet, fmt.Sprintf("C%d", row), project)
			row++

			for _, l := range lines {
				f.SetCellValue(exportSheet, fmt.Sprintf("C%d", row), l.employee)
				for i, v := range l.cells {
					cell, _ := excelize.CoordinatesToCellName(4+i, row)
					f.SetCellValue(exportSheet, cell, v)
				}
				f.SetCellValue(exportSheet, fmt.Sprintf("I%d", row), strconv.FormatFloat(l.total, 'f', -1, 64))
				row++
				wrote = true
			}

			row++ // spacer after each project group
		}
	}

	if !wrote {
		return nil, report.ErrEmptyExport
	}

	f.SetColWidth(exportSheet, "A", "A", 12)
	f.SetColWidth(exportSheet, "B", "B", 14)
	f.SetColWidth(exportSheet, "C", "C", 32)
	f.SetColWidth(exportSheet, "D", "H", 8)
	f.SetColWidth(exportSheet, "I", "I", 10)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// exportDayHours computes one employee's hours for one calendar date by
// pairing the date's first clock-in with its first clock-out and
// subtracting the recorded break. A day with a clock-in but no
// computable span still counts as one hour so presence is visible in
// the sheet.
func (s *ReportServiceImpl) exportDayHours(d rangeData, userName string, date time.Time) float64 {
	var in, out *clock.Event
	for i := range d.ins {
		e := &d.ins[i]
		if e.UserName != userName || !timeutil.SameDate(e.CreatedAt, date) {
			continue
		}
		if in == nil || e.CreatedAt.Before(in.CreatedAt) {
			in = e
		}
	}
	if in == nil {
		return 0
	}
	for i := range d.outs {
		e := &d.outs[i]
		if e.UserName != userName || !timeutil.SameDate(e.CreatedAt, date) {
			continue
		}
		if out == nil || e.CreatedAt.Before(out.CreatedAt) {
			out = e
		}
	}

	hours := pairedHours(in, out, date)
	if hours <= 0 {
		return 1
	}
	return hours
}

func pairedHours(in, out *clock.Event, date time.Time) float64 {
	if out == nil {
		return 0
	}

	inAt := in.CreatedAt
	if in.ClockTime != nil {
		if t, ok := timeutil.ParseClockTime(*in.ClockTime, date); ok {
			inAt = t
		}
	}
	outAt := out.CreatedAt
	if out.ClockTime != nil {
		if t, ok := timeutil.ParseClockTime(*out.ClockTime, date); ok {
			outAt = t
		}
	}
	if !outAt.After(inAt) {
		return 0
	}

	mins := int(outAt.Sub(inAt) / time.Minute)
	if in.BreakStart != nil && in.BreakEnd != nil {
		b1, ok1 := timeutil.ParseClockTime(*in.BreakStart, date)
		b2, ok2 := timeutil.ParseClockTime(*in.BreakEnd, date)
		if ok1 && ok2 && b2.After(b1) {
			mins -= int(b2.Sub(b1) / time.Minute)
		}
	}
	if mins < 0 {
		mins = 0
	}

	return float64(int(float64(mins)/60.0*100+0.5)) / 100
}
