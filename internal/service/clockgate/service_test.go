package clockgate

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftclock/shiftclock-backend-go/internal/config"
	"github.com/shiftclock/shiftclock-backend-go/internal/domain/clockgate"
	"github.com/shiftclock/shiftclock-backend-go/internal/domain/schedule"
	domainsession "github.com/shiftclock/shiftclock-backend-go/internal/domain/session"
	"github.com/shiftclock/shiftclock-backend-go/internal/domain/user"
	"github.com/shiftclock/shiftclock-backend-go/internal/pkg/localstore"
	"github.com/shiftclock/shiftclock-backend-go/internal/pkg/sse"
	"github.com/shiftclock/shiftclock-backend-go/internal/pkg/webhook"
	"github.com/shiftclock/shiftclock-backend-go/internal/service/session"
)

// fakeProvider scripts the acquisition ladder: each call pops the next
// result.
type fakeProvider struct {
	mu      sync.Mutex
	results []func() (clockgate.Fix, error)
	calls   []clockgate.FixRequest
}

func (f *fakeProvider) Acquire(_ context.Context, req clockgate.FixRequest) (clockgate.Fix, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, req)
	if len(f.results) == 0 {
		return clockgate.Fix{}, errors.New("no scripted result")
	}
	next := f.results[0]
	f.results = f.results[1:]
	return next()
}

func fixAt(lat, lng float64) func() (clockgate.Fix, error) {
	return func() (clockgate.Fix, error) {
		return clockgate.Fix{Latitude: lat, Longitude: lng, TakenAt: time.Now()}, nil
	}
}

func fixFail() func() (clockgate.Fix, error) {
	return func() (clockgate.Fix, error) {
		return clockgate.Fix{}, errors.New("position unavailable")
	}
}

type fakeScheduleService struct {
	shift schedule.ResolvedShift
	err   error
}

func (f *fakeScheduleService) ListAssignments(_ context.Context) ([]schedule.AssignmentResponse, error) {
	return nil, nil
}
func (f *fakeScheduleService) ListTemplates(_ context.Context) ([]schedule.TemplateResponse, error) {
	return nil, nil
}
func (f *fakeScheduleService) ResolveActiveShift(_ context.Context, _ string, _ time.Time) (schedule.ResolvedShift, error) {
	return f.shift, f.err
}
func (f *fakeScheduleService) CreateAssignment(_ context.Context, _ schedule.CreateAssignmentRequest) error {
	return nil
}
func (f *fakeScheduleService) CreateTemplate(_ context.Context, _ schedule.CreateTemplateRequest) error {
	return nil
}
func (f *fakeScheduleService) UpdateAssignment(_ context.Context, _ schedule.UpdateAssignmentRequest) error {
	return nil
}
func (f *fakeScheduleService) DeleteAssignment(_ context.Context, _ string) error { return nil }
func (f *fakeScheduleService) DeleteTemplate(_ context.Context, _ string) error   { return nil }

type fakeUserRepo struct{}

func (fakeUserRepo) GetByID(_ context.Context, _ string) (user.User, error) {
	return user.User{}, user.ErrUserNotFound
}
func (fakeUserRepo) GetByUserName(_ context.Context, userName string) (user.User, error) {
	return user.User{UserName: userName, Name: "Alice Smith", Email: "alice@example.com"}, nil
}
func (fakeUserRepo) GetByEmail(_ context.Context, _ string) (user.User, error) {
	return user.User{}, user.ErrUserNotFound
}
func (fakeUserRepo) List(_ context.Context) ([]user.User, error)                    { return nil, nil }
func (fakeUserRepo) ListByRole(_ context.Context, _ user.Role) ([]user.User, error) { return nil, nil }
func (fakeUserRepo) Create(_ context.Context, u user.User) (user.User, error)       { return u, nil }
func (fakeUserRepo) Update(_ context.Context, _ user.UpdateProfileRequest) error    { return nil }
func (fakeUserRepo) ExistsByUserNameOrEmail(_ context.Context, _, _ string) (bool, error) {
	return false, nil
}

type gateFixture struct {
	svc      *ClockGateServiceImpl
	sessions *session.Service
	stores   *localstore.Manager
	provider *fakeProvider
	server   *httptest.Server
}

func newGateFixture(t *testing.T, handler http.HandlerFunc) *gateFixture {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	stores, err := localstore.NewManager(t.TempDir())
	require.NoError(t, err)
	sessions := session.NewService(stores, sse.NewHub())
	provider := &fakeProvider{}

	svc := NewClockGateService(
		sessions,
		&fakeScheduleService{shift: schedule.ResolvedShift{
			Assignment: schedule.Assignment{ShiftName: "Morning", Project: "Site A"},
		}},
		fakeUserRepo{},
		stores,
		webhook.NewClient(server.URL, 5*time.Second),
		provider,
		config.GeofenceConfig{Latitude: 40.0, Longitude: -74.0, RadiusMeters: 100, LocationName: "Main Office"},
	).(*ClockGateServiceImpl)

	return &gateFixture{svc: svc, sessions: sessions, stores: stores, provider: provider, server: server}
}

func doneHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Done"))
}

func selfie() *string {
	s := "data:image/jpeg;base64,xxxx"
	return &s
}

func TestClockInHappyPath(t *testing.T) {
	f := newGateFixture(t, doneHandler)
	f.provider.results = []func() (clockgate.Fix, error){fixAt(40.0, -74.0)}

	resp, err := f.svc.Perform(context.Background(), "alice", clockgate.ClockActionRequest{
		DeviceID: "dev-1",
		Action:   clockgate.ActionClockIn,
		Selfie:   selfie(),
	})
	require.NoError(t, err)

	assert.True(t, resp.Confirmed)
	assert.Equal(t, string(domainsession.StatusWorking), resp.SessionStatus)
	assert.Nil(t, resp.GeofenceWarning)

	state, store, err := f.sessions.Load("dev-1")
	require.NoError(t, err)
	assert.Equal(t, domainsession.StatusWorking, state.Status)

	id, ok := store.Get(keyClockInID)
	assert.True(t, ok)
	assert.NotEmpty(t, id)
	_, ok = store.Get(localstore.KeyPendingAction)
	assert.False(t, ok)
}

func TestLocationLadderFallsThrough(t *testing.T) {
	f := newGateFixture(t, doneHandler)
	f.provider.results = []func() (clockgate.Fix, error){
		fixFail(),
		fixFail(),
		fixAt(40.0, -74.0),
	}

	_, err := f.svc.Perform(context.Background(), "alice", clockgate.ClockActionRequest{
		DeviceID: "dev-1",
		Action:   clockgate.ActionClockIn,
		Selfie:   selfie(),
	})
	require.NoError(t, err)

	require.Len(t, f.provider.calls, 3)
	assert.True(t, f.provider.calls[0].HighAccuracy)
	assert.False(t, f.provider.calls[1].HighAccuracy)
	assert.True(t, f.provider.calls[1].AllowCached)
	assert.True(t, f.provider.calls[2].HighAccuracy)
	assert.Greater(t, f.provider.calls[2].Timeout, f.provider.calls[0].Timeout)
}

func TestAllFixesFailingBlocksAction(t *testing.T) {
	f := newGateFixture(t, doneHandler)
	f.provider.results = []func() (clockgate.Fix, error){fixFail(), fixFail(), fixFail()}

	_, err := f.svc.Perform(context.Background(), "alice", clockgate.ClockActionRequest{
		DeviceID: "dev-1",
		Action:   clockgate.ActionClockIn,
		Selfie:   selfie(),
	})
	assert.ErrorIs(t, err, clockgate.ErrNoLocationFix)

	state, _, err := f.sessions.Load("dev-1")
	require.NoError(t, err)
	assert.Equal(t, domainsession.StatusNone, state.Status)
}

func TestOutsideGeofenceWarnsButAllows(t *testing.T) {
	f := newGateFixture(t, doneHandler)
	// roughly 1.1 km north of the fence centre
	f.provider.results = []func() (clockgate.Fix, error){fixAt(40.01, -74.0)}

	resp, err := f.svc.Perform(context.Background(), "alice", clockgate.ClockActionRequest{
		DeviceID: "dev-1",
		Action:   clockgate.ActionClockIn,
		Selfie:   selfie(),
	})
	require.NoError(t, err)

	assert.Equal(t, string(domainsession.StatusWorking), resp.SessionStatus)
	require.NotNil(t, resp.GeofenceWarning)
	assert.Contains(t, *resp.GeofenceWarning, "Main Office")
}

func TestClockOutRequiresDoneToken(t *testing.T) {
	var body string
	f := newGateFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(body))
	})

	body = "Done"
	f.provider.results = []func() (clockgate.Fix, error){fixAt(40.0, -74.0), fixAt(40.0, -74.0)}

	_, err := f.svc.Perform(context.Background(), "alice", clockgate.ClockActionRequest{
		DeviceID: "dev-1",
		Action:   clockgate.ActionClockIn,
		Selfie:   selfie(),
	})
	require.NoError(t, err)

	// the workflow acknowledges but never confirms
	body = "processing"
	_, err = f.svc.Perform(context.Background(), "alice", clockgate.ClockActionRequest{
		DeviceID: "dev-1",
		Action:   clockgate.ActionClockOut,
		Selfie:   selfie(),
	})
	assert.ErrorIs(t, err, clockgate.ErrWebhookUnconfirmed)

	// session and pending action survive the failed confirmation
	state, store, err := f.sessions.Load("dev-1")
	require.NoError(t, err)
	assert.Equal(t, domainsession.StatusWorking, state.Status)
	_, ok := store.Get(localstore.KeyPendingAction)
	assert.True(t, ok)

	// a later confirmed clock-out clears everything
	body = "Done"
	f.provider.results = []func() (clockgate.Fix, error){fixAt(40.0, -74.0)}
	resp, err := f.svc.Perform(context.Background(), "alice", clockgate.ClockActionRequest{
		DeviceID: "dev-1",
		Action:   clockgate.ActionClockOut,
		Selfie:   selfie(),
	})
	require.NoError(t, err)
	assert.True(t, resp.Confirmed)

	state, store, err = f.sessions.Load("dev-1")
	require.NoError(t, err)
	assert.Equal(t, domainsession.StatusNone, state.Status)
	_, ok = store.Get(localstore.KeyPendingAction)
	assert.False(t, ok)
	_, ok = store.Get(keyClockInID)
	assert.False(t, ok)
}

func TestBreakActionsUseStoredClockInID(t *testing.T) {
	var seenPayloads []map[string]interface{}
	f := newGateFixture(t, func(w http.ResponseWriter, r *http.Request) {
		payload := map[string]interface{}{}
		_ = jsonDecode(r, &payload)
		seenPayloads = append(seenPayloads, payload)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Done"))
	})
	f.provider.results = []func() (clockgate.Fix, error){fixAt(40.0, -74.0)}

	_, err := f.svc.Perform(context.Background(), "alice", clockgate.ClockActionRequest{
		DeviceID: "dev-1",
		Action:   clockgate.ActionClockIn,
		Selfie:   selfie(),
	})
	require.NoError(t, err)

	resp, err := f.svc.Perform(context.Background(), "alice", clockgate.ClockActionRequest{
		DeviceID: "dev-1",
		Action:   clockgate.ActionBreakStart,
	})
	require.NoError(t, err)
	assert.Equal(t, string(domainsession.StatusOnBreak), resp.SessionStatus)

	resp, err = f.svc.Perform(context.Background(), "alice", clockgate.ClockActionRequest{
		DeviceID: "dev-1",
		Action:   clockgate.ActionBreakEnd,
	})
	require.NoError(t, err)
	assert.Equal(t, string(domainsession.StatusWorking), resp.SessionStatus)

	require.Len(t, seenPayloads, 3)
	clockInID := seenPayloads[0]["clockIn_id"]
	require.NotEmpty(t, clockInID)
	assert.Equal(t, clockInID, seenPayloads[1]["clockIn_id"])
	assert.Equal(t, "startBreak", seenPayloads[1]["action"])
	assert.Equal(t, clockInID, seenPayloads[2]["clockIn_id"])
	assert.Equal(t, "endBreak", seenPayloads[2]["action"])
}

func TestBreakWithoutClockInRejected(t *testing.T) {
	f := newGateFixture(t, doneHandler)

	_, err := f.svc.Perform(context.Background(), "alice", clockgate.ClockActionRequest{
		DeviceID: "dev-1",
		Action:   clockgate.ActionBreakStart,
	})
	assert.ErrorIs(t, err, clockgate.ErrNoOpenClockIn)
}

func TestSessionStateReportsPendingAction(t *testing.T) {
	f := newGateFixture(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("processing"))
	})
	f.provider.results = []func() (clockgate.Fix, error){
		fixAt(40.0, -74.0), // clock-in (fail-open, proceeds)
		fixAt(40.0, -74.0), // clock-out attempt
	}

	_, err := f.svc.Perform(context.Background(), "alice", clockgate.ClockActionRequest{
		DeviceID: "dev-1",
		Action:   clockgate.ActionClockIn,
		Selfie:   selfie(),
	})
	require.NoError(t, err)

	_, err = f.svc.Perform(context.Background(), "alice", clockgate.ClockActionRequest{
		DeviceID: "dev-1",
		Action:   clockgate.ActionClockOut,
		Selfie:   selfie(),
	})
	require.ErrorIs(t, err, clockgate.ErrWebhookUnconfirmed)

	state, err := f.svc.SessionState(context.Background(), "dev-1")
	require.NoError(t, err)
	assert.Equal(t, string(domainsession.StatusWorking), state.Status)
	require.NotNil(t, state.PendingAction)
	assert.Equal(t, string(clockgate.ActionClockOut), *state.PendingAction)
}

func jsonDecode(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
