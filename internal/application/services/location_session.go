package services

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/carefinderfl/geodirectory/internal/domain/entities"
	"github.com/carefinderfl/geodirectory/internal/domain/providers"
	"github.com/carefinderfl/geodirectory/internal/infrastructure/observability"
	"github.com/carefinderfl/geodirectory/pkg/config"
	"github.com/carefinderfl/geodirectory/pkg/geo"
)

// LocationStatus is the state of the user-location acquisition machine.
type LocationStatus string

const (
	LocationStatusIdle    LocationStatus = "idle"
	LocationStatusLoading LocationStatus = "loading"
	LocationStatusSuccess LocationStatus = "success"
	LocationStatusDenied  LocationStatus = "denied"
)

// LocationSession owns user-location acquisition, the committed search
// center and the active search radius. It is independent of any facet
// state: facet changes never touch it, and only explicit user actions
// (request location, confirm "search this area", clear) mutate it.
type LocationSession struct {
	mu       sync.Mutex
	provider providers.GeolocationProvider
	logger   *zerolog.Logger

	recenterThresholdMiles float64
	positionOptions        providers.PositionOptions

	status                LocationStatus
	userLocation          *geo.Coordinate
	searchCenter          *geo.Coordinate
	searchRadiusMiles     float64
	pendingViewportCenter *geo.Coordinate
	showRecenterPrompt    bool

	// generation invalidates in-flight position callbacks after Clear.
	generation int
}

// NewLocationSession creates an idle session with the configured defaults.
func NewLocationSession(cfg config.EngineConfig, provider providers.GeolocationProvider) *LocationSession {
	return &LocationSession{
		provider:               provider,
		logger:                 observability.ComponentLogger("location_session"),
		recenterThresholdMiles: cfg.RecenterThresholdMiles,
		positionOptions: providers.PositionOptions{
			EnableHighAccuracy: false,
			Timeout:            cfg.GeolocationTimeout,
			MaxCacheAge:        cfg.PositionCacheMaxAge,
		},
		status:            LocationStatusIdle,
		searchRadiusMiles: cfg.DefaultRadiusMiles,
	}
}

// RequestUserLocation starts an asynchronous position acquisition. The
// status moves to loading synchronously so callers can disable re-entry;
// the returned channel closes when the attempt settles. A call while an
// acquisition is already in flight is a no-op and returns a closed channel.
func (s *LocationSession) RequestUserLocation(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})

	s.mu.Lock()
	if s.status == LocationStatusLoading {
		s.mu.Unlock()
		close(done)
		return done
	}
	s.status = LocationStatusLoading
	generation := s.generation
	opts := s.positionOptions
	s.mu.Unlock()

	go func() {
		defer close(done)
		position, err := s.provider.RequestCurrentPosition(ctx, opts)
		s.applyPositionResult(generation, position, err)
	}()

	return done
}

func (s *LocationSession) applyPositionResult(generation int, position *geo.Coordinate, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if generation != s.generation {
		// The session was cleared while the request was in flight.
		s.logger.Debug().Msg("discarding stale position result")
		return
	}

	if err != nil {
		// Prior location state stays untouched; only the status changes.
		s.status = LocationStatusDenied
		s.logger.Info().Err(err).Msg("position acquisition denied")
		return
	}

	if s.status == LocationStatusDenied {
		// A denied state already surfaced to the user; a late success must
		// not silently overwrite it.
		s.logger.Debug().Msg("ignoring late position success after denied")
		return
	}

	s.status = LocationStatusSuccess
	s.userLocation = position
	s.searchCenter = position
	s.pendingViewportCenter = nil
	s.showRecenterPrompt = false
	s.logger.Debug().
		Float64("lat", position.Latitude).
		Float64("lon", position.Longitude).
		Msg("position acquired")
}

// OnViewportMove compares a discrete viewport move against the committed
// search center and decides whether to offer the "search this area" action.
// It runs on every move-end event and performs O(1) work.
func (s *LocationSession) OnViewportMove(newCenter geo.Coordinate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.searchCenter == nil {
		return
	}

	if geo.DistanceMiles(*s.searchCenter, newCenter) > s.recenterThresholdMiles {
		center := newCenter
		s.pendingViewportCenter = &center
		s.showRecenterPrompt = true
	} else {
		s.pendingViewportCenter = nil
		s.showRecenterPrompt = false
	}
}

// ConfirmSearchThisArea promotes the pending viewport center to the active
// search center. This is the only way panning ever changes results.
func (s *LocationSession) ConfirmSearchThisArea() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pendingViewportCenter == nil {
		return
	}
	s.searchCenter = s.pendingViewportCenter
	s.pendingViewportCenter = nil
	s.showRecenterPrompt = false
}

// Clear resets the session to empty and idle. In-flight acquisitions are
// invalidated.
func (s *LocationSession) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	s.status = LocationStatusIdle
	s.userLocation = nil
	s.searchCenter = nil
	s.pendingViewportCenter = nil
	s.showRecenterPrompt = false
}

// SetSearchRadiusMiles updates the active radius. Non-positive values are
// ignored.
func (s *LocationSession) SetSearchRadiusMiles(miles float64) {
	if miles <= 0 {
		return
	}
	s.mu.Lock()
	s.searchRadiusMiles = miles
	s.mu.Unlock()
}

// Status returns the acquisition status.
func (s *LocationSession) Status() LocationStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Active reports whether a committed search center exists.
func (s *LocationSession) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.searchCenter != nil
}

// UserLocation returns the acquired user position, or nil.
func (s *LocationSession) UserLocation() *geo.Coordinate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyCoordinate(s.userLocation)
}

// SearchCenter returns the committed search center, or nil.
func (s *LocationSession) SearchCenter() *geo.Coordinate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyCoordinate(s.searchCenter)
}

// SearchRadiusMiles returns the active radius.
func (s *LocationSession) SearchRadiusMiles() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.searchRadiusMiles
}

// ShowRecenterPrompt reports whether an uncommitted viewport move is far
// enough from the search center to offer re-centering.
func (s *LocationSession) ShowRecenterPrompt() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.showRecenterPrompt
}

// PendingViewportCenter returns the uncommitted viewport center, or nil.
func (s *LocationSession) PendingViewportCenter() *geo.Coordinate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyCoordinate(s.pendingViewportCenter)
}

// WithinRadius returns the mappable listings inside the active radius of
// the committed search center. With no active center it returns all
// mappable listings unchanged.
func (s *LocationSession) WithinRadius(listings []*entities.Listing) []*entities.Listing {
	s.mu.Lock()
	center := copyCoordinate(s.searchCenter)
	radius := s.searchRadiusMiles
	s.mu.Unlock()

	if center == nil {
		return listings
	}

	within := make([]*entities.Listing, 0, len(listings))
	for _, listing := range listings {
		if listing.Coordinates == nil {
			continue
		}
		if geo.DistanceMiles(*center, *listing.Coordinates) <= radius {
			within = append(within, listing)
		}
	}
	return within
}

func copyCoordinate(c *geo.Coordinate) *geo.Coordinate {
	if c == nil {
		return nil
	}
	copied := *c
	return &copied
}
