package timesheet

import (
	"time"

	"github.com/shiftclock/shiftclock-backend-go/internal/pkg/timeutil"
)

type EntryResponse struct {
	UserName      string  `json:"user_name"`
	Date          string  `json:"date"`
	ClockIn       string  `json:"clock_in"`
	ClockOut      *string `json:"clock_out,omitempty"`
	WorkedMinutes int     `json:"worked_minutes"`
	BreakMinutes  int     `json:"break_minutes"`
	LateMinutes   int     `json:"late_minutes"`
	Late          bool    `json:"late"`
	Project       string  `json:"project,omitempty"`
	ShiftName     string  `json:"shift_name,omitempty"`
	InImage       *string `json:"in_image,omitempty"`
	OutImage      *string `json:"out_image,omitempty"`
	InLocation    *string `json:"in_location,omitempty"`
	OutLocation   *string `json:"out_location,omitempty"`
}

func (e Entry) ToResponse() EntryResponse {
	resp := EntryResponse{
		UserName:      e.UserName,
		Date:          e.Date.Format("2006-01-02"),
		ClockIn:       timeutil.Format12h(e.ClockIn),
		WorkedMinutes: e.WorkedMinutes,
		BreakMinutes:  e.BreakMinutes,
		LateMinutes:   e.LateMinutes,
		Late:          e.Late,
		Project:       e.Project,
		ShiftName:     e.ShiftName,
		InImage:       e.InImage,
		OutImage:      e.OutImage,
		InLocation:    e.InLocation,
		OutLocation:   e.OutLocation,
	}
	if e.ClockOut != nil {
		out := timeutil.Format12h(*e.ClockOut)
		resp.ClockOut = &out
	}
	return resp
}

type SummaryResponse struct {
	WorkedMinutes int     `json:"worked_minutes"`
	BreakMinutes  int     `json:"break_minutes"`
	WorkedHours   float64 `json:"worked_hours"`
	LateCount     int     `json:"late_count"`
	LateMinutes   int     `json:"late_minutes"`
	DaysWorked    int     `json:"days_worked"`
}

func (s WeeklySummary) ToResponse() SummaryResponse {
	return SummaryResponse{
		WorkedMinutes: s.WorkedMinutes,
		BreakMinutes:  s.BreakMinutes,
		WorkedHours:   float64(int(float64(s.WorkedMinutes)/60.0*10+0.5)) / 10,
		LateCount:     s.LateCount,
		LateMinutes:   s.LateMinutes,
		DaysWorked:    s.DaysWorked,
	}
}

type TimesheetResponse struct {
	From    string          `json:"from"`
	To      string          `json:"to"`
	Entries []EntryResponse `json:"entries"`
	Summary SummaryResponse `json:"summary"`
}

// Range is a closed calendar-date window.
type Range struct {
	From time.Time
	To   time.Time
}
