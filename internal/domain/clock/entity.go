package clock

import (
	"time"
)

// Kind distinguishes the two raw event collections.
type Kind string

const (
	KindIn  Kind = "in"
	KindOut Kind = "out"
)

// Event is one raw clock record as written by the workflow. ClockTime is
// the stored time-of-day or timestamp string and may disagree with
// CreatedAt; BreakStart/BreakEnd are carried on clock-in rows only.
type Event struct {
	ID         string
	UserName   string
	CreatedAt  time.Time
	ClockTime  *string
	Image      *string
	Location   *string
	BreakStart *string
	BreakEnd   *string
}

// Filter bounds a raw event listing. Zero time bounds mean unbounded;
// empty UserName means all users.
type Filter struct {
	UserName string
	From     time.Time
	To       time.Time
}
