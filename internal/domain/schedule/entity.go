package schedule

import (
	"time"
)

// Template is a shift definition. StartTime/EndTime/BreakTime are stored
// time-of-day strings ("09:00 AM", "17:00"); Days holds lowercase
// three-letter weekday tokens ("mon".."sun").
type Template struct {
	ID        string
	ShiftName string
	Project   string
	StartTime *string
	EndTime   *string
	BreakTime *string
	Days      []string
	CreatedAt time.Time
}

// Assignment binds a user to a shift for a date window. A nil EndDate
// means open-ended.
type Assignment struct {
	ID        string
	UserName  string
	ShiftName string
	Project   string
	StartDate time.Time
	EndDate   *time.Time
	CreatedAt time.Time
}

// ActiveOn reports whether the assignment covers the given calendar date.
func (a Assignment) ActiveOn(date time.Time) bool {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	start := time.Date(a.StartDate.Year(), a.StartDate.Month(), a.StartDate.Day(), 0, 0, 0, 0, date.Location())
	if day.Before(start) {
		return false
	}
	if a.EndDate != nil {
		end := time.Date(a.EndDate.Year(), a.EndDate.Month(), a.EndDate.Day(), 0, 0, 0, 0, date.Location())
		if day.After(end) {
			return false
		}
	}
	return true
}

// WorksOn reports whether the template's day list includes the weekday
// of the given date. An empty day list means no scheduled workdays.
func (t Template) WorksOn(weekdayToken string) bool {
	for _, d := range t.Days {
		if d == weekdayToken {
			return true
		}
	}
	return false
}
