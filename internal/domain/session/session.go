package session

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusNone    Status = "no_session"
	StatusWorking Status = "active_working"
	StatusOnBreak Status = "active_on_break"
)

// BreakPeriod is one completed break.
type BreakPeriod struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (b BreakPeriod) Duration() time.Duration {
	return b.End.Sub(b.Start)
}

// State is the live attendance session for one device. At most one open
// session and at most one in-progress break exist at a time; clock-out
// discards everything (authoritative history lives in the database).
type State struct {
	Status     Status        `json:"status"`
	SessionID  string        `json:"session_id,omitempty"`
	StartedAt  time.Time     `json:"started_at,omitempty"`
	Location   *string       `json:"location,omitempty"`
	Breaks     []BreakPeriod `json:"breaks,omitempty"`
	BreakStart *time.Time    `json:"break_start,omitempty"`
}

// New returns the empty no-session state.
func New() State {
	return State{Status: StatusNone}
}

// ClockIn starts a fresh session, clearing any break history.
func (s State) ClockIn(now time.Time, location *string) (State, error) {
	if s.Status != StatusNone {
		return s, ErrAlreadyClockedIn
	}
	return State{
		Status:    StatusWorking,
		SessionID: uuid.NewString(),
		StartedAt: now,
		Location:  location,
	}, nil
}

// StartBreak records the break start instant.
func (s State) StartBreak(now time.Time) (State, error) {
	if s.Status != StatusWorking {
		return s, ErrNotWorking
	}
	next := s
	next.Status = StatusOnBreak
	next.BreakStart = &now
	return next, nil
}

// EndBreak appends a completed break period and clears the in-progress
// marker.
func (s State) EndBreak(now time.Time) (State, error) {
	if s.Status != StatusOnBreak || s.BreakStart == nil {
		return s, ErrNotOnBreak
	}
	next := s
	next.Breaks = append(append([]BreakPeriod(nil), s.Breaks...), BreakPeriod{
		Start: *s.BreakStart,
		End:   now,
	})
	next.BreakStart = nil
	next.Status = StatusWorking
	return next, nil
}

// ClockOut discards the session and break history entirely.
func (s State) ClockOut() (State, error) {
	if s.Status == StatusNone {
		return s, ErrNoSession
	}
	return New(), nil
}

// TotalBreak sums completed break durations plus the in-progress break,
// if any.
func (s State) TotalBreak(now time.Time) time.Duration {
	var total time.Duration
	for _, b := range s.Breaks {
		total += b.Duration()
	}
	if s.Status == StatusOnBreak && s.BreakStart != nil {
		total += now.Sub(*s.BreakStart)
	}
	return total
}

// Elapsed is the working time so far: now minus session start minus
// total break time. Zero when no session is open.
func (s State) Elapsed(now time.Time) time.Duration {
	if s.Status == StatusNone {
		return 0
	}
	return now.Sub(s.StartedAt) - s.TotalBreak(now)
}

// Active reports whether a session is open in either state.
func (s State) Active() bool {
	return s.Status == StatusWorking || s.Status == StatusOnBreak
}

// Marshal serializes the state for the device store.
func (s State) Marshal() ([]byte, error) {
	return json.Marshal(s)
}

// Unmarshal revives a stored state, including its timestamp fields. An
// empty payload yields the no-session state.
func Unmarshal(data []byte) (State, error) {
	if len(data) == 0 {
		return New(), nil
	}
	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return New(), err
	}
	if s.Status == "" {
		s.Status = StatusNone
	}
	return s, nil
}
