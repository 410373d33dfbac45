package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/shiftclock/shiftclock-backend-go/internal/domain/clockgate"
	"github.com/shiftclock/shiftclock-backend-go/internal/handler/http/response"
	"github.com/shiftclock/shiftclock-backend-go/internal/pkg/geo"
	"github.com/shiftclock/shiftclock-backend-go/internal/pkg/jwt"
	sessionservice "github.com/shiftclock/shiftclock-backend-go/internal/service/session"
)

type ClockHandler interface {
	Perform(w http.ResponseWriter, r *http.Request)
	State(w http.ResponseWriter, r *http.Request)
	Stream(w http.ResponseWriter, r *http.Request)
}

type ClockHandlerImpl struct {
	jwtService  jwt.Service
	gateService clockgate.ClockGateService
	sessions    *sessionservice.Service
}

func NewClockHandler(jwtService jwt.Service, gateService clockgate.ClockGateService, sessions *sessionservice.Service) ClockHandler {
	return &ClockHandlerImpl{
		jwtService:  jwtService,
		gateService: gateService,
		sessions:    sessions,
	}
}

// Perform implements ClockHandler.
func (c *ClockHandlerImpl) Perform(w http.ResponseWriter, r *http.Request) {
	var actionReq clockgate.ClockActionRequest

	// 1. Decode JSON
	if err := json.NewDecoder(r.Body).Decode(&actionReq); err != nil {
		slog.Error("Clock action decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if actionReq.DeviceID == "" {
		response.BadRequest(w, "device_id is required", nil)
		return
	}

	// Validate DTO
	if err := actionReq.Validate(); err != nil {
		slog.Error("Clock action validate error", "error", err)
		response.HandleError(w, err)
		return
	}

	// Call service
	ctx := r.Context()
	if actionReq.Fix != nil {
		ctx = geo.WithReportedFix(ctx, clockgate.Fix{
			Latitude:  actionReq.Fix.Latitude,
			Longitude: actionReq.Fix.Longitude,
			Accuracy:  actionReq.Fix.Accuracy,
			Cached:    actionReq.Fix.Cached,
			TakenAt:   time.Now(),
		})
	}
	userName := claimString(r, "user_name")
	actionResponse, err := c.gateService.Perform(ctx, userName, actionReq)
	if err != nil {
		slog.Error("Clock action service error", "action", actionReq.Action, "error", err)
		response.HandleError(w, err)
		return
	}

	slog.Info("Clock action performed", "action", actionReq.Action, "user_name", userName)
	response.Success(w, actionResponse)
}

// State implements ClockHandler.
func (c *ClockHandlerImpl) State(w http.ResponseWriter, r *http.Request) {
	deviceID := r.URL.Query().Get("device_id")
	if deviceID == "" {
		response.BadRequest(w, "device_id is required", nil)
		return
	}

	stateResponse, err := c.gateService.SessionState(r.Context(), deviceID)
	if err != nil {
		slog.Error("Session state service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, stateResponse)
}

// Stream implements ClockHandler. It serves the per-second elapsed-time
// ticks over SSE. The stream token arrives as a query parameter because
// EventSource cannot set request headers.
func (c *ClockHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		response.Unauthorized(w, "Stream token is required")
		return
	}
	if _, err := c.jwtService.ValidateStreamToken(token); err != nil {
		response.Unauthorized(w, "Invalid stream token")
		return
	}

	deviceID := r.URL.Query().Get("device_id")
	if deviceID == "" {
		response.BadRequest(w, "device_id is required", nil)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		response.InternalServerError(w, "Streaming is not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	events := c.sessions.Stream(r.Context(), deviceID)
	for event := range events {
		data, err := json.Marshal(event.Data)
		if err != nil {
			continue
		}
		fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Name, data)
		flusher.Flush()
	}
}
