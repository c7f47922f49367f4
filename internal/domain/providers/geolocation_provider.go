package providers

import (
	"context"
	"time"

	"github.com/carefinderfl/geodirectory/pkg/geo"
)

// PositionOptions mirrors the options the browser geolocation capability
// accepts: a bounded timeout and a window during which a previously acquired
// position may be served from cache.
type PositionOptions struct {
	EnableHighAccuracy bool
	Timeout            time.Duration
	MaxCacheAge        time.Duration
}

// DefaultPositionOptions returns the options the engine uses when none are
// supplied.
func DefaultPositionOptions() PositionOptions {
	return PositionOptions{
		EnableHighAccuracy: false,
		Timeout:            10 * time.Second,
		MaxCacheAge:        5 * time.Minute,
	}
}

// GeolocationProvider acquires the user's current position. Implementations
// must honor the timeout and may serve a cached position no older than
// MaxCacheAge. Every failure mode (unavailable, refused, timed out) is
// reported as a geolocation-denied error.
type GeolocationProvider interface {
	RequestCurrentPosition(ctx context.Context, opts PositionOptions) (*geo.Coordinate, error)
}
