package clock

import (
	"context"
)

// ClockRepository reads the raw event collections. Rows are created by
// the workflow behind the clock webhooks, never by this service, so the
// port is read-only. Listings come back newest first.
type ClockRepository interface {
	ListIns(ctx context.Context, filter Filter) ([]Event, error)
	ListOuts(ctx context.Context, filter Filter) ([]Event, error)
	ActiveUserNames(ctx context.Context, filter Filter) ([]string, error)
}
