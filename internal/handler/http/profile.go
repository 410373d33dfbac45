package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/shiftclock/shiftclock-backend-go/internal/domain/user"
	"github.com/shiftclock/shiftclock-backend-go/internal/handler/http/response"
)

type ProfileHandler interface {
	Get(w http.ResponseWriter, r *http.Request)
	Save(w http.ResponseWriter, r *http.Request)
}

type ProfileHandlerImpl struct {
	profileService user.ProfileService
}

func NewProfileHandler(profileService user.ProfileService) ProfileHandler {
	return &ProfileHandlerImpl{profileService: profileService}
}

// Get implements ProfileHandler.
func (h *ProfileHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	userID := claimString(r, "user_id")
	profile, err := h.profileService.Get(r.Context(), userID)
	if err != nil {
		slog.Error("Profile get error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Success(w, profile)
}

// Save implements ProfileHandler. X-Device-ID lets the service refresh
// the device's cached identity after a confirmed save.
func (h *ProfileHandlerImpl) Save(w http.ResponseWriter, r *http.Request) {
	var saveReq user.UpdateProfileRequest

	if err := json.NewDecoder(r.Body).Decode(&saveReq); err != nil {
		slog.Error("Profile save decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	saveReq.ID = claimString(r, "user_id")

	if err := saveReq.Validate(); err != nil {
		slog.Error("Profile save validate error", "error", err)
		response.HandleError(w, err)
		return
	}

	deviceID := r.Header.Get("X-Device-ID")
	profile, err := h.profileService.Save(r.Context(), saveReq, deviceID)
	if err != nil {
		slog.Error("Profile save service error", "error", err)
		response.HandleError(w, err)
		return
	}

	slog.Info("Profile saved", "user_id", saveReq.ID)
	response.SuccessWithMessage(w, "Profile saved successfully", profile)
}
