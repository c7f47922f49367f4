package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderGuard_CapPerMode(t *testing.T) {
	guard := NewRenderGuard(engineConfig())

	assert.Equal(t, 500, guard.Cap(true, false), "location mode uses the strict cap")
	assert.Equal(t, 500, guard.Cap(true, true), "location mode wins over county-only")
	assert.Equal(t, 1500, guard.Cap(false, true), "county-only gets the relaxed cap")
	assert.Equal(t, 500, guard.Cap(false, false), "default mode uses the strict cap")
}

func TestRenderGuard_ShouldRenderMap(t *testing.T) {
	guard := NewRenderGuard(engineConfig())

	assert.True(t, guard.ShouldRenderMap(500, false, false))
	assert.False(t, guard.ShouldRenderMap(501, false, false))

	assert.True(t, guard.ShouldRenderMap(1500, false, true))
	assert.False(t, guard.ShouldRenderMap(1501, false, true))

	assert.True(t, guard.ShouldRenderMap(500, true, true))
	assert.False(t, guard.ShouldRenderMap(501, true, true))
}
