// Package geolocation provides adapters that resolve the user's current
// position. Outside a browser there is no native geolocation capability, so
// the production adapter approximates one from an IP lookup service.
package geolocation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/carefinderfl/geodirectory/internal/domain/providers"
	apperrors "github.com/carefinderfl/geodirectory/pkg/errors"
	"github.com/carefinderfl/geodirectory/pkg/geo"
)

// IPProvider implements GeolocationProvider against an ip-api style JSON
// endpoint. Positions are cached and re-served while younger than the
// caller's MaxCacheAge, mirroring the browser's maximumAge semantics.
type IPProvider struct {
	baseURL    string
	httpClient *http.Client

	mu        sync.Mutex
	cached    *geo.Coordinate
	fetchedAt time.Time
}

// NewIPProvider creates an IP-lookup geolocation provider.
func NewIPProvider(baseURL string, httpClient *http.Client) providers.GeolocationProvider {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &IPProvider{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

type ipLookupResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// RequestCurrentPosition resolves the caller's approximate position. All
// failure modes collapse into the geolocation-denied error classification.
func (p *IPProvider) RequestCurrentPosition(ctx context.Context, opts providers.PositionOptions) (*geo.Coordinate, error) {
	if opts.MaxCacheAge > 0 {
		p.mu.Lock()
		if p.cached != nil && time.Since(p.fetchedAt) <= opts.MaxCacheAge {
			pos := *p.cached
			p.mu.Unlock()
			return &pos, nil
		}
		p.mu.Unlock()
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL, nil)
	if err != nil {
		return nil, apperrors.NewGeolocationDeniedError("failed to build position request", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewGeolocationDeniedError("position lookup failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewGeolocationDeniedError(
			fmt.Sprintf("position lookup returned status %d", resp.StatusCode), nil)
	}

	var lookup ipLookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&lookup); err != nil {
		return nil, apperrors.NewGeolocationDeniedError("failed to decode position response", err)
	}
	if lookup.Status != "success" {
		return nil, apperrors.NewGeolocationDeniedError(
			fmt.Sprintf("position lookup rejected: %s", lookup.Message), nil)
	}

	pos := geo.Coordinate{Latitude: lookup.Lat, Longitude: lookup.Lon}

	p.mu.Lock()
	p.cached = &pos
	p.fetchedAt = time.Now()
	p.mu.Unlock()

	result := pos
	return &result, nil
}
