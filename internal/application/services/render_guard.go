package services

import "github.com/carefinderfl/geodirectory/pkg/config"

// RenderGuard caps how many listings reach the map renderer. The caps are
// operational tuning carried in configuration: the relaxed county-only cap
// exists because the bounds fit keeps that view legible at higher counts.
type RenderGuard struct {
	strictCap     int
	countyOnlyCap int
}

// NewRenderGuard creates a guard with the configured caps.
func NewRenderGuard(cfg config.EngineConfig) *RenderGuard {
	return &RenderGuard{
		strictCap:     cfg.MapRenderCap,
		countyOnlyCap: cfg.CountyOnlyRenderCap,
	}
}

// Cap returns the marker cap for the current mode. With an active location
// session the strict cap applies to the radius-filtered subset; without one
// the county-only mode gets the relaxed cap and everything else the strict
// cap over the full filtered set.
func (g *RenderGuard) Cap(locationActive, countyOnly bool) int {
	if locationActive {
		return g.strictCap
	}
	if countyOnly {
		return g.countyOnlyCap
	}
	return g.strictCap
}

// ShouldRenderMap reports whether the applicable count is within its cap.
// When it is not, the caller presents a narrowing prompt instead of a map.
func (g *RenderGuard) ShouldRenderMap(count int, locationActive, countyOnly bool) bool {
	return count <= g.Cap(locationActive, countyOnly)
}
