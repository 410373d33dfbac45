package clockgate

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/shiftclock/shiftclock-backend-go/internal/config"
	"github.com/shiftclock/shiftclock-backend-go/internal/domain/clockgate"
	"github.com/shiftclock/shiftclock-backend-go/internal/domain/schedule"
	domainsession "github.com/shiftclock/shiftclock-backend-go/internal/domain/session"
	"github.com/shiftclock/shiftclock-backend-go/internal/domain/user"
	"github.com/shiftclock/shiftclock-backend-go/internal/pkg/geo"
	"github.com/shiftclock/shiftclock-backend-go/internal/pkg/localstore"
	"github.com/shiftclock/shiftclock-backend-go/internal/pkg/timeutil"
	"github.com/shiftclock/shiftclock-backend-go/internal/pkg/webhook"
	"github.com/shiftclock/shiftclock-backend-go/internal/service/session"
)

// keyClockInID stores the workflow's clock-in correlation id between a
// clock-in and the breaks/clock-out that reference it.
const keyClockInID = "currentClockInId"

// webhookActions maps gate actions onto the tokens the workflow expects.
var webhookActions = map[clockgate.Action]string{
	clockgate.ActionClockIn:    "clockIn",
	clockgate.ActionClockOut:   "clockOut",
	clockgate.ActionBreakStart: "startBreak",
	clockgate.ActionBreakEnd:   "endBreak",
}

type ClockGateServiceImpl struct {
	sessions  *session.Service
	schedules schedule.ScheduleService
	users     user.UserRepository
	stores    *localstore.Manager
	client    *webhook.Client
	provider  clockgate.Provider
	geofence  config.GeofenceConfig

	now func() time.Time
}

func NewClockGateService(
	sessions *session.Service,
	schedules schedule.ScheduleService,
	users user.UserRepository,
	stores *localstore.Manager,
	client *webhook.Client,
	provider clockgate.Provider,
	geofence config.GeofenceConfig,
) clockgate.ClockGateService {
	return &ClockGateServiceImpl{
		sessions:  sessions,
		schedules: schedules,
		users:     users,
		stores:    stores,
		client:    client,
		provider:  provider,
		geofence:  geofence,
		now:       time.Now,
	}
}

// AcquireFix walks the three-step acquisition ladder: a fast
// high-accuracy attempt, then a longer low-accuracy attempt that will
// take a cached reading, then a last extended high-accuracy attempt.
// Only when all three fail is the action blocked.
func (s *ClockGateServiceImpl) AcquireFix(ctx context.Context) (clockgate.Fix, error) {
	attempts := []clockgate.FixRequest{
		{HighAccuracy: true, Timeout: 8 * time.Second},
		{HighAccuracy: false, Timeout: 12 * time.Second, AllowCached: true},
		{HighAccuracy: true, Timeout: 20 * time.Second},
	}

	var lastErr error
	for _, req := range attempts {
		fix, err := s.provider.Acquire(ctx, req)
		if err == nil {
			return fix, nil
		}
		lastErr = err
	}
	return clockgate.Fix{}, fmt.Errorf("%w: %v", clockgate.ErrNoLocationFix, lastErr)
}

// checkGeofence measures the fix against the configured circular fence.
// An out-of-fence fix produces a warning, never a block.
func (s *ClockGateServiceImpl) checkGeofence(fix clockgate.Fix) clockgate.GateResult {
	result := clockgate.GateResult{Fix: fix}
	result.DistanceMeters = geo.HaversineDistance(
		fix.Latitude, fix.Longitude,
		s.geofence.Latitude, s.geofence.Longitude,
	)
	result.WithinGeofence = geo.WithinGeofence(
		fix.Latitude, fix.Longitude,
		s.geofence.Latitude, s.geofence.Longitude,
		s.geofence.RadiusMeters,
	)
	if !result.WithinGeofence {
		result.GeofenceWarning = fmt.Sprintf(
			"you appear to be %.0f m from %s; your location has been recorded",
			result.DistanceMeters, s.geofence.LocationName,
		)
	}
	return result
}

// Perform implements clockgate.ClockGateService.
func (s *ClockGateServiceImpl) Perform(ctx context.Context, userName string, req clockgate.ClockActionRequest) (clockgate.ClockActionResponse, error) {
	if err := req.Validate(); err != nil {
		return clockgate.ClockActionResponse{}, err
	}

	switch req.Action {
	case clockgate.ActionBreakStart, clockgate.ActionBreakEnd:
		return s.performBreak(ctx, req)
	default:
		return s.performClock(ctx, userName, req)
	}
}

// performBreak posts the stored clock-in id straight to the workflow
// and applies the transition only after the request succeeds. No selfie
// and no location fix are involved.
func (s *ClockGateServiceImpl) performBreak(ctx context.Context, req clockgate.ClockActionRequest) (clockgate.ClockActionResponse, error) {
	store, err := s.stores.Device(req.DeviceID)
	if err != nil {
		return clockgate.ClockActionResponse{}, fmt.Errorf("open device store: %w", err)
	}
	clockInID, ok := store.Get(keyClockInID)
	if !ok || clockInID == "" {
		return clockgate.ClockActionResponse{}, clockgate.ErrNoOpenClockIn
	}

	now := s.now()
	payload := map[string]interface{}{
		"clockIn_id": clockInID,
		"action":     webhookActions[req.Action],
		"time":       timeutil.Format12h(now),
	}
	result, err := s.client.Send(ctx, webhook.EndpointClockIn, payload)
	if err != nil {
		return clockgate.ClockActionResponse{}, fmt.Errorf("send break action: %w", err)
	}
	if result.StatusCode < 200 || result.StatusCode > 299 {
		return clockgate.ClockActionResponse{}, clockgate.ErrWebhookUnconfirmed
	}

	state, err := s.sessions.Transition(store.DeviceID(), func(st domainsession.State) (domainsession.State, error) {
		if req.Action == clockgate.ActionBreakStart {
			return st.StartBreak(now)
		}
		return st.EndBreak(now)
	})
	if err != nil {
		return clockgate.ClockActionResponse{}, err
	}

	return clockgate.ClockActionResponse{
		Action:        req.Action,
		Confirmed:     result.Confirmed,
		SessionStatus: string(state.Status),
		Elapsed:       timeutil.FormatElapsed(state.Elapsed(now)),
	}, nil
}

// performClock runs the full gate: location ladder, geofence, webhook,
// then the session transition. A clock-out the workflow does not
// confirm leaves the session and the pending action untouched; a
// clock-in proceeds even when confirmation never arrives.
func (s *ClockGateServiceImpl) performClock(ctx context.Context, userName string, req clockgate.ClockActionRequest) (clockgate.ClockActionResponse, error) {
	store, err := s.stores.Device(req.DeviceID)
	if err != nil {
		return clockgate.ClockActionResponse{}, fmt.Errorf("open device store: %w", err)
	}
	deviceID := store.DeviceID()

	now := s.now()
	pending := clockgate.PendingAction{Action: req.Action, CreatedAt: now}
	if req.Action == clockgate.ActionClockIn {
		pending.ClockInID = uuid.NewString()
	}
	if err := store.SetJSON(localstore.KeyPendingAction, pending); err != nil {
		return clockgate.ClockActionResponse{}, fmt.Errorf("record pending action: %w", err)
	}
	if req.Selfie != nil {
		if err := store.Set(localstore.KeySelfiePayload, *req.Selfie); err != nil {
			return clockgate.ClockActionResponse{}, fmt.Errorf("record selfie payload: %w", err)
		}
	}

	fix, err := s.AcquireFix(ctx)
	if err != nil {
		return clockgate.ClockActionResponse{}, err
	}
	gate := s.checkGeofence(fix)
	if !gate.WithinGeofence {
		slog.Warn("clock action outside geofence",
			"user_name", userName,
			"action", req.Action,
			"distance_m", gate.DistanceMeters,
		)
	}

	placeName := fmt.Sprintf("%.5f, %.5f", fix.Latitude, fix.Longitude)
	if req.Address != nil && *req.Address != "" {
		placeName = *req.Address
	}

	payload := map[string]interface{}{
		"name": placeName,
		"time": timeutil.Format12h(now),
		"location": map[string]float64{
			"lat": fix.Latitude,
			"lng": fix.Longitude,
		},
		"action": webhookActions[req.Action],
	}
	if req.Selfie != nil {
		payload["image"] = *req.Selfie
	}
	payload["employee"] = s.employeePayload(ctx, userName)
	if shiftData := s.shiftPayload(ctx, userName, now); shiftData != nil {
		payload["shift"] = shiftData
	}

	clockInID := pending.ClockInID
	endpoint := webhook.EndpointClockIn
	if req.Action == clockgate.ActionClockIn {
		payload["clockIn_id"] = clockInID
	} else {
		endpoint = webhook.EndpointClockOut
	}

	result, err := s.client.Send(ctx, endpoint, payload)
	confirmed := err == nil && result.Confirmed

	if req.Action == clockgate.ActionClockOut {
		if err != nil {
			return clockgate.ClockActionResponse{}, fmt.Errorf("send clock-out: %w", err)
		}
		if !confirmed {
			return clockgate.ClockActionResponse{}, clockgate.ErrWebhookUnconfirmed
		}
		return s.finishClockOut(deviceID, now, req.Action, gate, store)
	}

	// clock-in tolerates a missing confirmation; the id is kept either way
	if err != nil {
		slog.Warn("clock-in webhook unreachable, proceeding locally",
			"user_name", userName, "error", err)
	}
	if err := store.Set(keyClockInID, clockInID); err != nil {
		return clockgate.ClockActionResponse{}, fmt.Errorf("store clock-in id: %w", err)
	}

	location := placeName
	state, err := s.sessions.Transition(deviceID, func(st domainsession.State) (domainsession.State, error) {
		return st.ClockIn(now, &location)
	})
	if err != nil {
		return clockgate.ClockActionResponse{}, err
	}

	_ = store.Delete(localstore.KeyPendingAction)

	resp := clockgate.ClockActionResponse{
		Action:        req.Action,
		Confirmed:     confirmed,
		SessionStatus: string(state.Status),
		Elapsed:       timeutil.FormatElapsed(state.Elapsed(now)),
	}
	if gate.GeofenceWarning != "" {
		resp.GeofenceWarning = &gate.GeofenceWarning
	}
	return resp, nil
}

func (s *ClockGateServiceImpl) finishClockOut(deviceID string, now time.Time, action clockgate.Action, gate clockgate.GateResult, store *localstore.Store) (clockgate.ClockActionResponse, error) {
	state, err := s.sessions.Transition(deviceID, func(st domainsession.State) (domainsession.State, error) {
		return st.ClockOut()
	})
	if err != nil {
		return clockgate.ClockActionResponse{}, err
	}

	_ = store.Delete(localstore.KeyPendingAction)
	_ = store.Delete(localstore.KeySelfiePayload)
	_ = store.Delete(keyClockInID)

	resp := clockgate.ClockActionResponse{
		Action:        action,
		Confirmed:     true,
		SessionStatus: string(state.Status),
		Elapsed:       timeutil.FormatElapsed(0),
	}
	if gate.GeofenceWarning != "" {
		resp.GeofenceWarning = &gate.GeofenceWarning
	}
	return resp, nil
}

func (s *ClockGateServiceImpl) employeePayload(ctx context.Context, userName string) map[string]interface{} {
	payload := map[string]interface{}{
		"user_name": userName,
	}
	if u, err := s.users.GetByUserName(ctx, userName); err == nil {
		payload["name"] = u.Name
		payload["username"] = u.Email
	}
	return payload
}

func (s *ClockGateServiceImpl) shiftPayload(ctx context.Context, userName string, now time.Time) map[string]interface{} {
	resolved, err := s.schedules.ResolveActiveShift(ctx, userName, now)
	if err != nil {
		return nil
	}
	shiftData := map[string]interface{}{
		"shift_name": resolved.Assignment.ShiftName,
		"project":    resolved.Assignment.Project,
	}
	if resolved.Template != nil {
		if resolved.Template.StartTime != nil {
			shiftData["start_time"] = *resolved.Template.StartTime
		}
		if resolved.Template.EndTime != nil {
			shiftData["end_time"] = *resolved.Template.EndTime
		}
	}
	return shiftData
}

// SessionState implements clockgate.ClockGateService.
func (s *ClockGateServiceImpl) SessionState(ctx context.Context, deviceID string) (clockgate.SessionStateResponse, error) {
	state, store, err := s.sessions.Load(deviceID)
	if err != nil {
		return clockgate.SessionStateResponse{}, err
	}

	now := s.now()
	resp := clockgate.SessionStateResponse{
		Status:     string(state.Status),
		SessionID:  state.SessionID,
		Elapsed:    timeutil.FormatElapsed(state.Elapsed(now)),
		TotalBreak: timeutil.FormatElapsed(state.TotalBreak(now)),
		OnBreak:    state.Status == domainsession.StatusOnBreak,
	}
	if state.Active() {
		started := state.StartedAt.Format(time.RFC3339)
		resp.StartedAt = &started
	}

	var pending clockgate.PendingAction
	if ok, err := store.GetJSON(localstore.KeyPendingAction, &pending); err == nil && ok {
		action := string(pending.Action)
		resp.PendingAction = &action
	}

	return resp, nil
}
