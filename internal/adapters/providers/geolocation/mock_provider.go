package geolocation

import (
	"context"
	"sync"
	"time"

	"github.com/carefinderfl/geodirectory/internal/domain/providers"
	"github.com/carefinderfl/geodirectory/pkg/geo"
)

// MockProvider is a deterministic GeolocationProvider for tests and local
// development. It returns a fixed position (Florida centroid by default),
// optionally after a delay, or a configured error.
type MockProvider struct {
	mu       sync.Mutex
	Position geo.Coordinate
	Err      error
	Delay    time.Duration
	calls    int
}

// NewMockProvider creates a mock provider positioned at the Florida centroid.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		Position: geo.Coordinate{Latitude: 27.9944, Longitude: -81.7603},
	}
}

// RequestCurrentPosition returns the configured position or error.
func (m *MockProvider) RequestCurrentPosition(ctx context.Context, opts providers.PositionOptions) (*geo.Coordinate, error) {
	m.mu.Lock()
	m.calls++
	pos := m.Position
	err := m.Err
	delay := m.Delay
	m.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if err != nil {
		return nil, err
	}
	return &pos, nil
}

// Calls returns how many times a position was requested.
func (m *MockProvider) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

var _ providers.GeolocationProvider = (*MockProvider)(nil)
