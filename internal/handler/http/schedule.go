package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shiftclock/shiftclock-backend-go/internal/domain/schedule"
	"github.com/shiftclock/shiftclock-backend-go/internal/handler/http/response"
	"github.com/shiftclock/shiftclock-backend-go/internal/pkg/timeutil"
)

type ScheduleHandler interface {
	ListAssignments(w http.ResponseWriter, r *http.Request)
	CreateAssignment(w http.ResponseWriter, r *http.Request)
	UpdateAssignment(w http.ResponseWriter, r *http.Request)
	DeleteAssignment(w http.ResponseWriter, r *http.Request)
	ListTemplates(w http.ResponseWriter, r *http.Request)
	CreateTemplate(w http.ResponseWriter, r *http.Request)
	DeleteTemplate(w http.ResponseWriter, r *http.Request)
	MyActiveShift(w http.ResponseWriter, r *http.Request)
}

type ScheduleHandlerImpl struct {
	scheduleService schedule.ScheduleService
}

func NewScheduleHandler(scheduleService schedule.ScheduleService) ScheduleHandler {
	return &ScheduleHandlerImpl{scheduleService: scheduleService}
}

// ListAssignments implements ScheduleHandler.
func (h *ScheduleHandlerImpl) ListAssignments(w http.ResponseWriter, r *http.Request) {
	assignments, err := h.scheduleService.ListAssignments(r.Context())
	if err != nil {
		slog.Error("List assignments error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Success(w, assignments)
}

// CreateAssignment implements ScheduleHandler.
func (h *ScheduleHandlerImpl) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	var createReq schedule.CreateAssignmentRequest

	if err := json.NewDecoder(r.Body).Decode(&createReq); err != nil {
		slog.Error("Create assignment decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := createReq.Validate(); err != nil {
		slog.Error("Create assignment validate error", "error", err)
		response.HandleError(w, err)
		return
	}

	if err := h.scheduleService.CreateAssignment(r.Context(), createReq); err != nil {
		slog.Error("Create assignment service error", "error", err)
		response.HandleError(w, err)
		return
	}

	slog.Info("Assignment create relayed", "user_name", createReq.UserName, "shift_name", createReq.ShiftName)
	response.Created(w, "Schedule assignment submitted", nil)
}

// UpdateAssignment implements ScheduleHandler.
func (h *ScheduleHandlerImpl) UpdateAssignment(w http.ResponseWriter, r *http.Request) {
	var updateReq schedule.UpdateAssignmentRequest

	if err := json.NewDecoder(r.Body).Decode(&updateReq); err != nil {
		slog.Error("Update assignment decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	updateReq.ID = chi.URLParam(r, "id")

	if err := updateReq.Validate(); err != nil {
		slog.Error("Update assignment validate error", "error", err)
		response.HandleError(w, err)
		return
	}

	if err := h.scheduleService.UpdateAssignment(r.Context(), updateReq); err != nil {
		slog.Error("Update assignment service error", "id", updateReq.ID, "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Schedule assignment updated", nil)
}

// DeleteAssignment implements ScheduleHandler.
func (h *ScheduleHandlerImpl) DeleteAssignment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.scheduleService.DeleteAssignment(r.Context(), id); err != nil {
		slog.Error("Delete assignment service error", "id", id, "error", err)
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Schedule assignment deleted", nil)
}

// ListTemplates implements ScheduleHandler.
func (h *ScheduleHandlerImpl) ListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.scheduleService.ListTemplates(r.Context())
	if err != nil {
		slog.Error("List templates error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Success(w, templates)
}

// CreateTemplate implements ScheduleHandler.
func (h *ScheduleHandlerImpl) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	var createReq schedule.CreateTemplateRequest

	if err := json.NewDecoder(r.Body).Decode(&createReq); err != nil {
		slog.Error("Create template decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := createReq.Validate(); err != nil {
		slog.Error("Create template validate error", "error", err)
		response.HandleError(w, err)
		return
	}

	if err := h.scheduleService.CreateTemplate(r.Context(), createReq); err != nil {
		slog.Error("Create template service error", "error", err)
		response.HandleError(w, err)
		return
	}

	slog.Info("Template create relayed", "shift_name", createReq.ShiftName)
	response.Created(w, "Shift template submitted", nil)
}

// DeleteTemplate implements ScheduleHandler.
func (h *ScheduleHandlerImpl) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.scheduleService.DeleteTemplate(r.Context(), id); err != nil {
		slog.Error("Delete template service error", "id", id, "error", err)
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Shift template deleted", nil)
}

// MyActiveShift implements ScheduleHandler. Defaults to today when no
// date parameter is given.
func (h *ScheduleHandlerImpl) MyActiveShift(w http.ResponseWriter, r *http.Request) {
	date := timeutil.DateOf(time.Now())
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := timeutil.ParseDate(raw)
		if err != nil {
			response.BadRequest(w, "date must be in YYYY-MM-DD format", nil)
			return
		}
		date = parsed
	}

	userName := claimString(r, "user_name")
	shift, err := h.scheduleService.ResolveActiveShift(r.Context(), userName, date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	payload := map[string]interface{}{
		"assignment": shift.Assignment.ToResponse(),
	}
	if shift.Template != nil {
		payload["template"] = shift.Template.ToResponse()
	}
	response.Success(w, payload)
}
