package profile

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shiftclock/shiftclock-backend-go/internal/domain/user"
	"github.com/shiftclock/shiftclock-backend-go/internal/pkg/localstore"
	"github.com/shiftclock/shiftclock-backend-go/internal/pkg/webhook"
)

type ProfileServiceImpl struct {
	user.UserRepository
	client *webhook.Client
	stores *localstore.Manager
}

func NewProfileService(userRepository user.UserRepository, client *webhook.Client, stores *localstore.Manager) user.ProfileService {
	return &ProfileServiceImpl{
		UserRepository: userRepository,
		client:         client,
		stores:         stores,
	}
}

// Get implements user.ProfileService.
func (s *ProfileServiceImpl) Get(ctx context.Context, userID string) (user.UserResponse, error) {
	u, err := s.GetByID(ctx, userID)
	if err != nil {
		return user.UserResponse{}, err
	}
	return u.ToResponse(), nil
}

// Save implements user.ProfileService. The profile workflow must
// confirm with the done token before anything changes locally.
func (s *ProfileServiceImpl) Save(ctx context.Context, req user.UpdateProfileRequest, deviceID string) (user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	current, err := s.GetByID(ctx, req.ID)
	if err != nil {
		return user.UserResponse{}, err
	}

	payload := map[string]interface{}{
		"user_name": current.UserName,
	}
	if req.Email != nil {
		payload["email"] = *req.Email
	} else {
		payload["email"] = current.Email
	}
	if req.Name != nil {
		payload["name"] = *req.Name
	} else {
		payload["name"] = current.Name
	}
	if req.Phone != nil {
		payload["phone"] = *req.Phone
	}
	if req.Avatar != nil {
		payload["avatar"] = *req.Avatar
	}

	result, err := s.client.Send(ctx, webhook.EndpointProfileSave, payload)
	if err != nil {
		return user.UserResponse{}, fmt.Errorf("send profile save: %w", err)
	}
	if !result.Confirmed {
		return user.UserResponse{}, user.ErrProfileSaveUnconfirmed
	}

	if err := s.Update(ctx, req); err != nil {
		return user.UserResponse{}, fmt.Errorf("update user: %w", err)
	}
	updated, err := s.GetByID(ctx, req.ID)
	if err != nil {
		return user.UserResponse{}, err
	}

	// refresh the device's cached identity so the next page load shows
	// the new profile
	if deviceID != "" {
		if store, err := s.stores.Device(deviceID); err == nil {
			if err := store.SetJSON(localstore.KeyAuthUser, updated.ToResponse()); err != nil {
				slog.Warn("failed to refresh cached identity", "device_id", deviceID, "error", err)
			}
		}
	}

	return updated.ToResponse(), nil
}
