package entities

import "time"

// DatasetEventType identifies the kind of dataset lifecycle event.
type DatasetEventType string

const (
	// DatasetEventRefreshed is published after a full dataset load completes
	// and the cached snapshot has been replaced.
	DatasetEventRefreshed DatasetEventType = "dataset.refreshed"
)

// DatasetEvent notifies long-lived consumers that the listing snapshot
// changed and should be re-read.
type DatasetEvent struct {
	ID           string           `json:"id"`
	Type         DatasetEventType `json:"type"`
	ListingCount int              `json:"listing_count"`
	OccurredAt   time.Time        `json:"occurred_at"`
}
