package services

import "github.com/carefinderfl/geodirectory/internal/domain/entities"

// ResultWindow exposes the incrementally revealed slice of the filtered
// result set for the list view. It resets when the facet selection changes
// but deliberately not when the location session changes: the list view is
// not location-windowed, only the map view is.
type ResultWindow struct {
	pageSize     int
	visibleCount int
}

// NewResultWindow creates a window opened to one page.
func NewResultWindow(pageSize int) *ResultWindow {
	return &ResultWindow{
		pageSize:     pageSize,
		visibleCount: pageSize,
	}
}

// VisibleSlice returns the first visibleCount filtered listings.
func (w *ResultWindow) VisibleSlice(filtered []*entities.Listing) []*entities.Listing {
	if w.visibleCount >= len(filtered) {
		return filtered
	}
	return filtered[:w.visibleCount]
}

// LoadMore reveals one more page, clamped to the filtered set size.
func (w *ResultWindow) LoadMore(total int) {
	w.visibleCount += w.pageSize
	if w.visibleCount > total {
		w.visibleCount = total
	}
	if w.visibleCount < 0 {
		w.visibleCount = 0
	}
}

// Remaining returns how many filtered listings are not yet revealed.
func (w *ResultWindow) Remaining(total int) int {
	if total <= w.visibleCount {
		return 0
	}
	return total - w.visibleCount
}

// Reset collapses the window back to one page.
func (w *ResultWindow) Reset() {
	w.visibleCount = w.pageSize
}

// VisibleCount returns the current window size.
func (w *ResultWindow) VisibleCount() int {
	return w.visibleCount
}
