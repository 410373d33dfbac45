package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftclock/shiftclock-backend-go/internal/domain/session"
	"github.com/shiftclock/shiftclock-backend-go/internal/pkg/localstore"
	"github.com/shiftclock/shiftclock-backend-go/internal/pkg/sse"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	stores, err := localstore.NewManager(t.TempDir())
	require.NoError(t, err)
	return NewService(stores, sse.NewHub())
}

func TestTransitionPersistsAcrossLoads(t *testing.T) {
	svc := newTestService(t)
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	state, err := svc.Transition("dev-1", func(s session.State) (session.State, error) {
		return s.ClockIn(start, nil)
	})
	require.NoError(t, err)
	require.Equal(t, session.StatusWorking, state.Status)

	reloaded, _, err := svc.Load("dev-1")
	require.NoError(t, err)
	assert.Equal(t, session.StatusWorking, reloaded.Status)
	assert.Equal(t, state.SessionID, reloaded.SessionID)
	assert.True(t, start.Equal(reloaded.StartedAt))
}

func TestTransitionErrorLeavesStateUntouched(t *testing.T) {
	svc := newTestService(t)
	start := time.Now().UTC()

	_, err := svc.Transition("dev-1", func(s session.State) (session.State, error) {
		return s.ClockIn(start, nil)
	})
	require.NoError(t, err)

	_, err = svc.Transition("dev-1", func(s session.State) (session.State, error) {
		return s.ClockIn(start.Add(time.Hour), nil)
	})
	assert.ErrorIs(t, err, session.ErrAlreadyClockedIn)

	reloaded, _, err := svc.Load("dev-1")
	require.NoError(t, err)
	assert.Equal(t, session.StatusWorking, reloaded.Status)
	assert.True(t, start.Equal(reloaded.StartedAt))
}

func TestLoadUnknownDeviceYieldsNoSession(t *testing.T) {
	svc := newTestService(t)

	state, store, err := svc.Load("fresh-device")
	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, session.StatusNone, state.Status)
}

func TestSweepStaleClearsOldSessions(t *testing.T) {
	svc := newTestService(t)
	now := time.Date(2025, 3, 12, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	_, err := svc.Transition("old", func(s session.State) (session.State, error) {
		return s.ClockIn(now.Add(-40*time.Hour), nil)
	})
	require.NoError(t, err)
	_, err = svc.Transition("recent", func(s session.State) (session.State, error) {
		return s.ClockIn(now.Add(-2*time.Hour), nil)
	})
	require.NoError(t, err)

	require.NoError(t, svc.SweepStale(context.Background()))

	oldState, _, err := svc.Load("old")
	require.NoError(t, err)
	assert.Equal(t, session.StatusNone, oldState.Status)

	recentState, _, err := svc.Load("recent")
	require.NoError(t, err)
	assert.Equal(t, session.StatusWorking, recentState.Status)
}

func TestStreamStopsWithContext(t *testing.T) {
	svc := newTestService(t)
	ctx, cancel := context.WithCancel(context.Background())

	ch := svc.Stream(ctx, "dev-1")
	cancel()

	// cleanup closes the channel once the ticker goroutine exits
	select {
	case _, open := <-ch:
		for open {
			_, open = <-ch
		}
	case <-time.After(3 * time.Second):
		t.Fatal("stream channel was not closed after cancel")
	}
}
