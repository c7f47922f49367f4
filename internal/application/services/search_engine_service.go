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

// MapPlan is the derived map presentation: either a capped marker set plus
// an optional bounds-fit request, or a refusal that the caller renders as a
// narrowing prompt.
type MapPlan struct {
	Renderable    bool
	Markers       []*entities.Listing
	Cap           int
	TotalMappable int
	FitRequest    *geo.BoundingRegion
	FitOptions    providers.FitBoundsOptions
}

// SearchEngineService owns the immutable listing snapshot and the active
// query state, and derives every view over them: the filtered set, the
// visible list slice, and the map plan. All derivations are pure functions
// of (snapshot, facet selection, location state); none of them mutates
// upstream state. The facet filter memoizes by selection fingerprint, so
// repeated derivations for unchanged inputs do not rescan the snapshot.
type SearchEngineService struct {
	mu     sync.Mutex
	logger *zerolog.Logger

	listings  []*entities.Listing
	selection entities.FacetSelection

	filter   *FacetFilterService
	session  *LocationSession
	window   *ResultWindow
	planner  *BoundsFitPlanner
	guard    *RenderGuard
	viewport *ViewportSyncController
}

// NewSearchEngineService wires the engine from its components.
func NewSearchEngineService(cfg config.EngineConfig, geolocation providers.GeolocationProvider) *SearchEngineService {
	session := NewLocationSession(cfg, geolocation)
	return &SearchEngineService{
		logger:   observability.ComponentLogger("search_engine"),
		filter:   NewFacetFilterService(),
		session:  session,
		window:   NewResultWindow(cfg.ListPageSize),
		planner:  NewBoundsFitPlanner(cfg),
		guard:    NewRenderGuard(cfg),
		viewport: NewViewportSyncController(session),
	}
}

// SetListings replaces the listing snapshot. The snapshot is treated as
// immutable once handed over; derived caches are reset because their keys
// only encode query state, not the dataset.
func (e *SearchEngineService) SetListings(listings []*entities.Listing) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.listings = listings
	e.filter.ResetDataset()
	e.planner.Reset()
	e.window.Reset()
	e.logger.Info().Int("count", len(listings)).Msg("listing snapshot replaced")
}

// ListingCount returns the snapshot size.
func (e *SearchEngineService) ListingCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.listings)
}

// SetSelection replaces the facet selection. A changed selection resets the
// list window; location state is untouched, and an unchanged selection
// (same fingerprint) is a no-op so re-renders never lose scroll position.
func (e *SearchEngineService) SetSelection(selection entities.FacetSelection) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if selection.Fingerprint() == e.selection.Fingerprint() {
		return
	}
	e.selection = selection
	e.window.Reset()
}

// Selection returns the active facet selection.
func (e *SearchEngineService) Selection() entities.FacetSelection {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selection
}

// FilteredListings derives the listings matching the active selection.
func (e *SearchEngineService) FilteredListings() []*entities.Listing {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.filter.Filter(e.listings, e.selection)
}

// VisibleListings derives the list-view slice of the filtered set.
func (e *SearchEngineService) VisibleListings() []*entities.Listing {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.window.VisibleSlice(e.filter.Filter(e.listings, e.selection))
}

// VisibleCount returns the current list window size.
func (e *SearchEngineService) VisibleCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.window.VisibleCount()
}

// LoadMore reveals one more page of the filtered set.
func (e *SearchEngineService) LoadMore() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.window.LoadMore(len(e.filter.Filter(e.listings, e.selection)))
}

// Remaining returns how many filtered listings the list view has not yet
// revealed.
func (e *SearchEngineService) Remaining() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.window.Remaining(len(e.filter.Filter(e.listings, e.selection)))
}

// MappableListings derives the map candidates: the geo-tagged subset of the
// filtered set, radius-restricted when a search center is committed.
func (e *SearchEngineService) MappableListings() []*entities.Listing {
	e.mu.Lock()
	filtered := e.filter.Filter(e.listings, e.selection)
	e.mu.Unlock()

	return e.session.WithinRadius(mappableOnly(filtered))
}

// MapPlan derives the complete map presentation for the current state. The
// filter and location derivations both complete before the guard and
// planner consult them.
func (e *SearchEngineService) MapPlan() MapPlan {
	e.mu.Lock()
	filtered := e.filter.Filter(e.listings, e.selection)
	countyOnly := e.selection.CountyOnly()
	e.mu.Unlock()

	locationActive := e.session.Active()
	mappable := mappableOnly(filtered)
	candidates := e.session.WithinRadius(mappable)

	plan := MapPlan{
		Cap:           e.guard.Cap(locationActive, countyOnly),
		TotalMappable: len(candidates),
		FitOptions:    e.planner.FitOptions(),
	}

	if !e.guard.ShouldRenderMap(len(candidates), locationActive, countyOnly) {
		return plan
	}

	plan.Renderable = true
	plan.Markers = candidates
	plan.FitRequest = e.planner.PlanFit(mappable, countyOnly, locationActive)
	return plan
}

// SyncMap derives the map plan and drives the renderer with it. A
// non-renderable plan leaves the renderer untouched.
func (e *SearchEngineService) SyncMap(renderer providers.MapRenderer) MapPlan {
	plan := e.MapPlan()
	if !plan.Renderable {
		return plan
	}
	renderer.RenderMarkers(plan.Markers)
	if plan.FitRequest != nil {
		renderer.FitBounds(*plan.FitRequest, plan.FitOptions)
	}
	return plan
}

// BindRenderer subscribes the engine to the renderer's move-end events.
func (e *SearchEngineService) BindRenderer(renderer providers.MapRenderer) {
	e.viewport.Bind(renderer)
}

// RequestUserLocation starts asynchronous position acquisition; see
// LocationSession.RequestUserLocation. The list window is deliberately not
// reset: the list view does not depend on location.
func (e *SearchEngineService) RequestUserLocation(ctx context.Context) <-chan struct{} {
	return e.session.RequestUserLocation(ctx)
}

// ClearLocation resets the location session.
func (e *SearchEngineService) ClearLocation() {
	e.session.Clear()
}

// OnMapMoved forwards a discrete viewport move-end event.
func (e *SearchEngineService) OnMapMoved(center geo.Coordinate) {
	e.viewport.HandleMove(center)
}

// ConfirmSearchThisArea commits the pending viewport center as the new
// search center.
func (e *SearchEngineService) ConfirmSearchThisArea() {
	e.session.ConfirmSearchThisArea()
}

// SetSearchRadiusMiles updates the active search radius.
func (e *SearchEngineService) SetSearchRadiusMiles(miles float64) {
	e.session.SetSearchRadiusMiles(miles)
}

// LocationStatus returns the acquisition status.
func (e *SearchEngineService) LocationStatus() LocationStatus {
	return e.session.Status()
}

// SearchCenter returns the committed search center, or nil.
func (e *SearchEngineService) SearchCenter() *geo.Coordinate {
	return e.session.SearchCenter()
}

// SearchRadiusMiles returns the active radius.
func (e *SearchEngineService) SearchRadiusMiles() float64 {
	return e.session.SearchRadiusMiles()
}

// ShowRecenterPrompt reports whether the "search this area" action should
// be offered.
func (e *SearchEngineService) ShowRecenterPrompt() bool {
	return e.session.ShowRecenterPrompt()
}

func mappableOnly(listings []*entities.Listing) []*entities.Listing {
	mappable := make([]*entities.Listing, 0, len(listings))
	for _, listing := range listings {
		if listing.Mappable() {
			mappable = append(mappable, listing)
		}
	}
	return mappable
}
