package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carefinderfl/geodirectory/internal/adapters/providers/geolocation"
	"github.com/carefinderfl/geodirectory/internal/domain/entities"
	"github.com/carefinderfl/geodirectory/internal/domain/providers"
	"github.com/carefinderfl/geodirectory/pkg/geo"
)

type recordingRenderer struct {
	moveHandler   func(geo.Coordinate)
	rendered      [][]*entities.Listing
	fittedRegions []geo.BoundingRegion
}

func (r *recordingRenderer) OnViewportMoveEnd(handler func(center geo.Coordinate)) {
	r.moveHandler = handler
}

func (r *recordingRenderer) RenderMarkers(listings []*entities.Listing) {
	r.rendered = append(r.rendered, listings)
}

func (r *recordingRenderer) FitBounds(region geo.BoundingRegion, opts providers.FitBoundsOptions) {
	r.fittedRegions = append(r.fittedRegions, region)
}

func (r *recordingRenderer) FlyTo(center geo.Coordinate, zoom float64) {}

// directorySnapshot builds n listings spread around the Florida centroid,
// alternating counties and services; every third listing is ungeocoded.
func directorySnapshot(n int) []*entities.Listing {
	counties := []string{"Polk", "Orange", "Hillsborough"}
	services := []string{"aba therapy", "respite care"}
	listings := make([]*entities.Listing, 0, n)
	for i := 0; i < n; i++ {
		listing := &entities.Listing{
			ID:     fmt.Sprintf("l-%d", i),
			Name:   fmt.Sprintf("Listing %d", i),
			County: counties[i%len(counties)],
			State:  "FL",
			Tags: map[string][]string{
				entities.TagCategoryServices: {services[i%len(services)]},
			},
			RecordKind: entities.RecordKindProvider,
		}
		if i%3 != 0 {
			listing.Coordinates = &geo.Coordinate{
				Latitude:  27.9944 + float64(i%10)*0.01,
				Longitude: -81.7603 + float64(i%7)*0.01,
			}
		}
		listings = append(listings, listing)
	}
	return listings
}

func newEngine(t *testing.T) (*SearchEngineService, *geolocation.MockProvider) {
	t.Helper()
	provider := geolocation.NewMockProvider()
	engine := NewSearchEngineService(engineConfig(), provider)
	return engine, provider
}

func TestScopeIsolation_FacetChangeResetsWindowLocationDoesNot(t *testing.T) {
	engine, _ := newEngine(t)
	engine.SetListings(directorySnapshot(200))

	engine.LoadMore()
	require.Equal(t, 100, engine.VisibleCount())

	// Toggling a tag facet resets the window to one page.
	engine.SetSelection(entities.FacetSelection{
		TagValues: map[string][]string{entities.TagCategoryServices: {"aba therapy"}},
	})
	assert.Equal(t, 50, engine.VisibleCount())

	engine.LoadMore()
	widened := engine.VisibleCount()
	require.Greater(t, widened, 50)

	// Acquiring a location must NOT reset the window.
	<-engine.RequestUserLocation(context.Background())
	assert.Equal(t, widened, engine.VisibleCount())

	// Clearing the location must not either.
	engine.ClearLocation()
	assert.Equal(t, widened, engine.VisibleCount())
}

func TestSetSelection_SameFingerprintKeepsWindow(t *testing.T) {
	engine, _ := newEngine(t)
	engine.SetListings(directorySnapshot(200))

	sel := entities.FacetSelection{Counties: []string{"Polk"}}
	engine.SetSelection(sel)
	engine.LoadMore()
	widened := engine.VisibleCount()

	engine.SetSelection(entities.FacetSelection{Counties: []string{"POLK"}})
	assert.Equal(t, widened, engine.VisibleCount())
}

func TestMappableListings_ExcludesUngeocode(t *testing.T) {
	engine, _ := newEngine(t)
	engine.SetListings(directorySnapshot(30))

	for _, listing := range engine.MappableListings() {
		assert.True(t, listing.Mappable())
	}
	// 10 of the 30 are ungeocoded but all stay in the list view.
	assert.Len(t, engine.MappableListings(), 20)
	assert.Len(t, engine.FilteredListings(), 30)
}

func TestMappableListings_RadiusRestrictsWhenLocationActive(t *testing.T) {
	engine, provider := newEngine(t)
	provider.Position = geo.Coordinate{Latitude: 27.9944, Longitude: -81.7603}

	near := &entities.Listing{
		ID:          "near",
		Coordinates: &geo.Coordinate{Latitude: 28.0, Longitude: -81.76},
	}
	far := &entities.Listing{
		ID:          "far",
		Coordinates: &geo.Coordinate{Latitude: 30.3322, Longitude: -81.6557},
	}
	engine.SetListings([]*entities.Listing{near, far})

	require.Len(t, engine.MappableListings(), 2)

	<-engine.RequestUserLocation(context.Background())

	mappable := engine.MappableListings()
	require.Len(t, mappable, 1)
	assert.Equal(t, "near", mappable[0].ID)
}

func TestMapPlan_RefusesWhenOverCap(t *testing.T) {
	engine, _ := newEngine(t)
	// 900 listings, 600 geocoded: over the strict 500 cap, under the
	// relaxed 1500 county-only cap.
	engine.SetListings(directorySnapshot(900))

	plan := engine.MapPlan()
	assert.False(t, plan.Renderable)
	assert.Equal(t, 500, plan.Cap)
	assert.Nil(t, plan.Markers)

	// County-only narrows nothing numerically here but relaxes the cap.
	engine.SetSelection(entities.FacetSelection{Counties: []string{"Polk", "Orange", "Hillsborough"}})
	plan = engine.MapPlan()
	assert.True(t, plan.Renderable)
	assert.Equal(t, 1500, plan.Cap)
	assert.LessOrEqual(t, len(plan.Markers), plan.Cap)
}

func TestMapPlan_FitOnlyForCountyOnlySelection(t *testing.T) {
	engine, _ := newEngine(t)
	engine.SetListings(directorySnapshot(60))

	// No facets: no fit.
	assert.Nil(t, engine.MapPlan().FitRequest)

	// County-only: fit planned once.
	engine.SetSelection(entities.FacetSelection{Counties: []string{"Polk"}})
	first := engine.MapPlan()
	require.NotNil(t, first.FitRequest)
	assert.Nil(t, engine.MapPlan().FitRequest, "same inputs must not replan the fit")

	// Adding a tag facet disqualifies the fit.
	engine.SetSelection(entities.FacetSelection{
		Counties:  []string{"Polk"},
		TagValues: map[string][]string{entities.TagCategoryServices: {"aba therapy"}},
	})
	assert.Nil(t, engine.MapPlan().FitRequest)
}

func TestMapPlan_ActiveLocationSuppressesFit(t *testing.T) {
	engine, _ := newEngine(t)
	engine.SetListings(directorySnapshot(60))
	engine.SetSelection(entities.FacetSelection{Counties: []string{"Polk"}})

	<-engine.RequestUserLocation(context.Background())

	assert.Nil(t, engine.MapPlan().FitRequest)
}

func TestSyncMap_NeverExceedsCap(t *testing.T) {
	engine, _ := newEngine(t)
	engine.SetListings(directorySnapshot(300))
	renderer := &recordingRenderer{}

	plan := engine.SyncMap(renderer)

	require.True(t, plan.Renderable)
	require.Len(t, renderer.rendered, 1)
	assert.LessOrEqual(t, len(renderer.rendered[0]), plan.Cap)
}

func TestSyncMap_RefusalLeavesRendererUntouched(t *testing.T) {
	engine, _ := newEngine(t)
	engine.SetListings(directorySnapshot(900))
	renderer := &recordingRenderer{}

	plan := engine.SyncMap(renderer)

	assert.False(t, plan.Renderable)
	assert.Empty(t, renderer.rendered)
	assert.Empty(t, renderer.fittedRegions)
}

func TestBindRenderer_MoveEventsDriveRecenterPrompt(t *testing.T) {
	engine, provider := newEngine(t)
	provider.Position = geo.Coordinate{Latitude: 28.0, Longitude: -81.0}
	engine.SetListings(directorySnapshot(10))
	renderer := &recordingRenderer{}
	engine.BindRenderer(renderer)

	<-engine.RequestUserLocation(context.Background())
	require.NotNil(t, renderer.moveHandler)

	renderer.moveHandler(geo.Coordinate{Latitude: 28.05, Longitude: -81.0})
	assert.False(t, engine.ShowRecenterPrompt())

	renderer.moveHandler(geo.Coordinate{Latitude: 28.1, Longitude: -81.0})
	assert.True(t, engine.ShowRecenterPrompt())

	engine.ConfirmSearchThisArea()
	assert.False(t, engine.ShowRecenterPrompt())
	assert.Equal(t, 28.1, engine.SearchCenter().Latitude)
}

func TestSnapshotSwap_ResetsDerivedState(t *testing.T) {
	engine, _ := newEngine(t)
	engine.SetListings(directorySnapshot(200))
	engine.SetSelection(entities.FacetSelection{Counties: []string{"Polk"}})
	firstCount := len(engine.FilteredListings())
	require.Greater(t, firstCount, 0)

	engine.SetListings(directorySnapshot(30))

	assert.Len(t, engine.FilteredListings(), 10)
	assert.Equal(t, 50, engine.VisibleCount())
}
