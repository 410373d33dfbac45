package clockgate

import (
	"context"
	"time"
)

// Action is the clock operation being gated.
type Action string

const (
	ActionClockIn    Action = "clock_in"
	ActionClockOut   Action = "clock_out"
	ActionBreakStart Action = "break_start"
	ActionBreakEnd   Action = "break_end"
)

// Fix is one location reading. Cached marks a reading served from a
// prior acquisition rather than a fresh one.
type Fix struct {
	Latitude  float64
	Longitude float64
	Accuracy  float64
	Cached    bool
	TakenAt   time.Time
}

// FixRequest tunes one acquisition attempt.
type FixRequest struct {
	HighAccuracy bool
	Timeout      time.Duration
	AllowCached  bool
}

// Provider acquires location fixes. The HTTP surface backs it with
// coordinates relayed by the device; tests use a scripted fake.
type Provider interface {
	Acquire(ctx context.Context, req FixRequest) (Fix, error)
}

// GateResult is what the gate decided before the webhook was called.
type GateResult struct {
	Fix             Fix
	DistanceMeters  float64
	WithinGeofence  bool
	GeofenceWarning string
}

// PendingAction survives in the device store between capture and
// webhook confirmation; it is cleared only on a confirmed send.
type PendingAction struct {
	Action    Action    `json:"action"`
	ClockInID string    `json:"clock_in_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
