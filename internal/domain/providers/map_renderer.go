package providers

import (
	"github.com/carefinderfl/geodirectory/internal/domain/entities"
	"github.com/carefinderfl/geodirectory/pkg/geo"
)

// FitBoundsOptions control how a bounds fit is executed by the renderer.
type FitBoundsOptions struct {
	PaddingPx int
	MaxZoom   float64
}

// MapRenderer is the rendering collaborator the engine drives. The engine
// never draws anything itself; it hands the renderer a capped marker set and
// viewport instructions, and receives discrete move-end events back.
type MapRenderer interface {
	// OnViewportMoveEnd registers a handler fired once per discrete
	// move-end, not per animation frame.
	OnViewportMoveEnd(handler func(center geo.Coordinate))

	// RenderMarkers draws the given listings. Callers guarantee every
	// listing passed in is mappable and that the render cap was applied.
	RenderMarkers(listings []*entities.Listing)

	// FitBounds adjusts the viewport so the region is fully visible.
	FitBounds(region geo.BoundingRegion, opts FitBoundsOptions)

	// FlyTo recenters the viewport on the given coordinate.
	FlyTo(center geo.Coordinate, zoom float64)
}
