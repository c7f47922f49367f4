package providers

import (
	"context"

	"github.com/carefinderfl/geodirectory/internal/domain/entities"
)

// ListingSource is the backing store the dataset loader pulls from. Sources
// return listings in a stable order and either populate both coordinate
// components or none.
type ListingSource interface {
	// FetchPage returns one page of listings and whether more pages remain.
	FetchPage(ctx context.Context, limit, offset int) ([]*entities.Listing, bool, error)
}
