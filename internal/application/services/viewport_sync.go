package services

import (
	"github.com/carefinderfl/geodirectory/internal/domain/providers"
	"github.com/carefinderfl/geodirectory/pkg/geo"
)

// ViewportSyncController connects the map renderer's discrete move-end
// events to the location session. The renderer contract guarantees one
// event per settled move, so no debouncing happens here.
type ViewportSyncController struct {
	session *LocationSession
}

// NewViewportSyncController creates a controller for the given session.
func NewViewportSyncController(session *LocationSession) *ViewportSyncController {
	return &ViewportSyncController{session: session}
}

// Bind subscribes the controller to the renderer's move-end events.
func (c *ViewportSyncController) Bind(renderer providers.MapRenderer) {
	renderer.OnViewportMoveEnd(func(center geo.Coordinate) {
		c.session.OnViewportMove(center)
	})
}

// HandleMove forwards a single move-end event. Exposed for callers that
// deliver events directly rather than through a renderer subscription.
func (c *ViewportSyncController) HandleMove(center geo.Coordinate) {
	c.session.OnViewportMove(center)
}
