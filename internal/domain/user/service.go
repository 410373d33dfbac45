package user

import (
	"context"
)

type ProfileService interface {
	Get(ctx context.Context, userID string) (UserResponse, error)
	// Save relays the change to the profile workflow, updates the local
	// row, and refreshes the device's cached identity when a device is
	// known.
	Save(ctx context.Context, req UpdateProfileRequest, deviceID string) (UserResponse, error)
}
