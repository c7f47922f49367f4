package services

import (
	"strings"
	"sync"

	"github.com/carefinderfl/geodirectory/internal/domain/entities"
	"github.com/carefinderfl/geodirectory/internal/domain/providers"
	"github.com/carefinderfl/geodirectory/pkg/config"
	"github.com/carefinderfl/geodirectory/pkg/geo"
)

// fitPaddingPx is the pixel padding handed to the renderer alongside the
// mile-based region padding.
const fitPaddingPx = 48

// BoundsFitPlanner decides when to auto-fit the map viewport to the
// filtered results. Auto-zooming helps when the user narrows by geography
// alone; it must never fight an explicit radius search, and it must not
// fire on tag-only filters where the natural view is the whole state.
type BoundsFitPlanner struct {
	mu           sync.Mutex
	paddingMiles float64
	maxZoom      float64
	lastKey      string
}

// NewBoundsFitPlanner creates a planner with the configured padding and
// zoom cap.
func NewBoundsFitPlanner(cfg config.EngineConfig) *BoundsFitPlanner {
	return &BoundsFitPlanner{
		paddingMiles: cfg.BoundsFitPaddingMiles,
		maxZoom:      cfg.BoundsFitMaxZoom,
	}
}

// PlanFit returns the padded bounding region of the mappable listings when
// the preconditions hold: no active search center, exactly the county facet
// engaged, and at least one listing with coordinates. Each distinct
// qualifying input set produces a plan once; repeated derivations for the
// same inputs return nil so a pan never re-triggers the fit.
func (p *BoundsFitPlanner) PlanFit(mappable []*entities.Listing, countyOnly, locationActive bool) *geo.BoundingRegion {
	if locationActive || !countyOnly || len(mappable) == 0 {
		return nil
	}

	key := fitKey(mappable)

	p.mu.Lock()
	if key == p.lastKey {
		p.mu.Unlock()
		return nil
	}
	p.lastKey = key
	p.mu.Unlock()

	region := geo.NewBoundingRegion()
	for _, listing := range mappable {
		if listing.Coordinates != nil {
			region.ExtendWithPoint(*listing.Coordinates)
		}
	}
	region.Pad(p.paddingMiles)
	return region
}

// FitOptions returns the renderer options for executing a planned fit. The
// zoom cap keeps a single clustered result from over-zooming.
func (p *BoundsFitPlanner) FitOptions() providers.FitBoundsOptions {
	return providers.FitBoundsOptions{
		PaddingPx: fitPaddingPx,
		MaxZoom:   p.maxZoom,
	}
}

// Reset forgets the last executed fit, so the next qualifying input set
// plans again. Called when the dataset snapshot is replaced.
func (p *BoundsFitPlanner) Reset() {
	p.mu.Lock()
	p.lastKey = ""
	p.mu.Unlock()
}

func fitKey(mappable []*entities.Listing) string {
	var b strings.Builder
	for _, listing := range mappable {
		b.WriteString(listing.ID)
		b.WriteByte(',')
	}
	return b.String()
}
