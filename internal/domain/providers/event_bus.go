package providers

import (
	"context"

	"github.com/carefinderfl/geodirectory/internal/domain/entities"
)

// EventBus defines the interface for publishing and subscribing to dataset
// lifecycle events.
type EventBus interface {
	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, channel string, event *entities.DatasetEvent) error

	// Subscribe subscribes to events on a channel
	Subscribe(ctx context.Context, channel string) (<-chan *entities.DatasetEvent, error)

	// Unsubscribe unsubscribes from a channel
	Unsubscribe(ctx context.Context, channel string) error

	// Close closes the event bus and all subscriptions
	Close() error
}

// EventChannelDatasetUpdates is the channel carrying dataset refresh events.
const EventChannelDatasetUpdates = "dataset:updates"
