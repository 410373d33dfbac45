package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shiftclock/shiftclock-backend-go/internal/domain/session"
	"github.com/shiftclock/shiftclock-backend-go/internal/pkg/localstore"
	"github.com/shiftclock/shiftclock-backend-go/internal/pkg/sse"
	"github.com/shiftclock/shiftclock-backend-go/internal/pkg/timeutil"
)

// staleAfter matches the pairing horizon: a device session older than
// this can never pair with a clock-out anymore and is swept.
const staleAfter = 36 * time.Hour

// Service owns the device-scoped live session: every transition is
// persisted to the device store before it is visible anywhere else.
type Service struct {
	stores *localstore.Manager
	hub    *sse.Hub

	now func() time.Time
}

func NewService(stores *localstore.Manager, hub *sse.Hub) *Service {
	return &Service{
		stores: stores,
		hub:    hub,
		now:    time.Now,
	}
}

// Load revives the device's session state; a device with no stored
// state gets the empty no-session state.
func (s *Service) Load(deviceID string) (session.State, *localstore.Store, error) {
	store, err := s.stores.Device(deviceID)
	if err != nil {
		return session.New(), nil, fmt.Errorf("open device store: %w", err)
	}

	raw, ok := store.Get(localstore.KeyAttendanceState)
	if !ok {
		return session.New(), store, nil
	}
	state, err := session.Unmarshal([]byte(raw))
	if err != nil {
		// a corrupt payload resets to no-session rather than wedging the
		// device
		slog.Warn("discarding unreadable session state", "device_id", store.DeviceID(), "error", err)
		return session.New(), store, nil
	}
	return state, store, nil
}

// Save persists the state under the attendance key.
func (s *Service) Save(store *localstore.Store, state session.State) error {
	data, err := state.Marshal()
	if err != nil {
		return fmt.Errorf("marshal session state: %w", err)
	}
	if err := store.Set(localstore.KeyAttendanceState, string(data)); err != nil {
		return fmt.Errorf("persist session state: %w", err)
	}
	return nil
}

// Transition applies fn to the device's current state and persists the
// result before returning it.
func (s *Service) Transition(deviceID string, fn func(session.State) (session.State, error)) (session.State, error) {
	state, store, err := s.Load(deviceID)
	if err != nil {
		return session.New(), err
	}
	next, err := fn(state)
	if err != nil {
		return state, err
	}
	if err := s.Save(store, next); err != nil {
		return state, err
	}
	return next, nil
}

// Stream subscribes to a device's elapsed-time ticks and drives the
// ticker for as long as ctx lives. Each tick carries the formatted
// elapsed working time, recomputed from the persisted state so a
// transition made elsewhere shows up on the next tick.
func (s *Service) Stream(ctx context.Context, deviceID string) <-chan sse.Event {
	ch, cleanup := s.hub.Subscribe(deviceID)

	go func() {
		defer cleanup()
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				state, _, err := s.Load(deviceID)
				if err != nil {
					continue
				}
				s.hub.Publish(deviceID, sse.Event{
					Name: "tick",
					Data: timeutil.FormatElapsed(state.Elapsed(s.now())),
				})
			}
		}
	}()

	return ch
}

// SweepStale discards device sessions whose start is past the pairing
// horizon. Wired as an hourly job.
func (s *Service) SweepStale(ctx context.Context) error {
	ids, err := s.stores.DeviceIDs()
	if err != nil {
		return fmt.Errorf("list device stores: %w", err)
	}

	now := s.now()
	for _, id := range ids {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		state, store, err := s.Load(id)
		if err != nil || !state.Active() {
			continue
		}
		if now.Sub(state.StartedAt) <= staleAfter {
			continue
		}

		cleared, err := state.ClockOut()
		if err != nil {
			continue
		}
		if err := s.Save(store, cleared); err != nil {
			slog.Error("failed to clear stale session", "device_id", id, "error", err)
			continue
		}
		slog.Info("cleared stale session", "device_id", id, "started_at", state.StartedAt)
	}

	return nil
}
