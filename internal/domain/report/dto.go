package report

import (
	"time"

	"github.com/shiftclock/shiftclock-backend-go/internal/domain/timesheet"
)

// Row is one employee's aggregate over the requested range.
type Row struct {
	UserName   string  `json:"user_name"`
	Employee   string  `json:"employee"`
	Project    string  `json:"project"`
	DaysWorked int     `json:"days_worked"`
	TotalHours float64 `json:"total_hours"`
	LateCount  int     `json:"late_count"`
	Absences   int     `json:"absences"`
}

// Summary is the header block over all rows, computed before zero rows
// are dropped from the display list.
type Summary struct {
	TotalEmployees int     `json:"total_employees"`
	TotalHours     float64 `json:"total_hours"`
	LateIncidents  int     `json:"late_incidents"`
	TotalAbsences  int     `json:"total_absences"`
}

type Report struct {
	From    string  `json:"from"`
	To      string  `json:"to"`
	Summary Summary `json:"summary"`
	Rows    []Row   `json:"rows"`
}

// UserDetail is the drill-down for one employee: the reconciled entries
// behind their report row.
type UserDetail struct {
	UserName string                    `json:"user_name"`
	Employee string                    `json:"employee"`
	From     string                    `json:"from"`
	To       string                    `json:"to"`
	Entries  []timesheet.EntryResponse `json:"entries"`
}

// Query bounds a report. EmployeeQuery filters rows by a case-insensitive
// substring of name or username; empty matches everyone.
type Query struct {
	From          time.Time
	To            time.Time
	EmployeeQuery string
}

// ExportFileName is the fixed attachment name for the weekly workbook.
const ExportFileName = "public_work_hours.xlsx"
