package clockgate

import (
	"context"
)

// ClockGateService runs the full gate for an employee's clock action:
// location ladder, geofence check, session transition, webhook
// confirmation. A clock-out that the webhook does not confirm leaves
// the local session and pending action intact.
type ClockGateService interface {
	Perform(ctx context.Context, userName string, req ClockActionRequest) (ClockActionResponse, error)
	SessionState(ctx context.Context, deviceID string) (SessionStateResponse, error)
}
