package geo

import (
	"context"
	"errors"
	"time"

	"github.com/shiftclock/shiftclock-backend-go/internal/domain/clockgate"
)

// The server cannot read the GPS itself; the device reports its reading
// with the request and the handler stashes it on the context. The
// acquisition ladder then judges that reading against each attempt's
// accuracy and freshness rules.

var (
	ErrNoReportedFix  = errors.New("no location reading reported with the request")
	ErrFixTooCoarse   = errors.New("reported location is not accurate enough")
	ErrCachedRejected = errors.New("cached location not acceptable for this attempt")
)

// highAccuracyMaxMeters bounds the reported accuracy radius for a
// high-accuracy attempt.
const highAccuracyMaxMeters = 50.0

// freshFixMaxAge is how old a reading may be before it counts as cached.
const freshFixMaxAge = 2 * time.Minute

type fixKey struct{}

// WithReportedFix stashes the device's reported reading on the context.
func WithReportedFix(ctx context.Context, fix clockgate.Fix) context.Context {
	return context.WithValue(ctx, fixKey{}, fix)
}

// ReportedFix returns the stashed reading, if the request carried one.
func ReportedFix(ctx context.Context) (clockgate.Fix, bool) {
	fix, ok := ctx.Value(fixKey{}).(clockgate.Fix)
	return fix, ok
}

// ContextProvider implements clockgate.Provider over the reading the
// device reported with the request.
type ContextProvider struct {
	now func() time.Time
}

func NewContextProvider() *ContextProvider {
	return &ContextProvider{now: time.Now}
}

func (p *ContextProvider) Acquire(ctx context.Context, req clockgate.FixRequest) (clockgate.Fix, error) {
	fix, ok := ReportedFix(ctx)
	if !ok {
		return clockgate.Fix{}, ErrNoReportedFix
	}

	cached := fix.Cached
	if !fix.TakenAt.IsZero() && p.now().Sub(fix.TakenAt) > freshFixMaxAge {
		cached = true
	}
	if cached && !req.AllowCached {
		return clockgate.Fix{}, ErrCachedRejected
	}
	if req.HighAccuracy && fix.Accuracy > highAccuracyMaxMeters {
		return clockgate.Fix{}, ErrFixTooCoarse
	}

	fix.Cached = cached
	return fix, nil
}
