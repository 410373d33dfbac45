package timesheet

import (
	"time"
)

// Entry is one reconciled attendance row: a clock-in paired (or not)
// with a clock-out, with derived durations. An open entry has a nil
// ClockOut and zero WorkedMinutes.
type Entry struct {
	UserName      string
	Date          time.Time
	ClockIn       time.Time
	ClockOut      *time.Time
	WorkedMinutes int
	BreakMinutes  int
	LateMinutes   int
	Late          bool
	Project       string
	ShiftName     string
	InImage       *string
	OutImage      *string
	InLocation    *string
	OutLocation   *string
}

// Open reports whether the entry still lacks a clock-out.
func (e Entry) Open() bool {
	return e.ClockOut == nil
}

// WeeklySummary totals a user's entries for the requested window.
type WeeklySummary struct {
	WorkedMinutes int
	BreakMinutes  int
	LateCount     int
	LateMinutes   int
	DaysWorked    int
}
