// Package dataset contains the listing-source adapters the dataset loader
// pulls the directory from.
package dataset

import (
	"context"

	"github.com/carefinderfl/geodirectory/internal/domain/entities"
	"github.com/carefinderfl/geodirectory/internal/domain/providers"
	"github.com/carefinderfl/geodirectory/internal/infrastructure/clients/listingsapi"
	apperrors "github.com/carefinderfl/geodirectory/pkg/errors"
	"github.com/carefinderfl/geodirectory/pkg/geo"
)

// APISource adapts the hosted listings API to the ListingSource port.
type APISource struct {
	client listingsapi.Client
}

// NewAPISource creates a listing source backed by the hosted store.
func NewAPISource(client listingsapi.Client) providers.ListingSource {
	return &APISource{client: client}
}

// FetchPage returns one page of listings from the hosted store.
func (s *APISource) FetchPage(ctx context.Context, limit, offset int) ([]*entities.Listing, bool, error) {
	resp, err := s.client.ListListings(ctx, listingsapi.ListRequest{Limit: limit, Offset: offset})
	if err != nil {
		return nil, false, apperrors.NewExternalError("failed to fetch listings page", err)
	}

	listings := make([]*entities.Listing, 0, len(resp.Data))
	for _, record := range resp.Data {
		listings = append(listings, recordToListing(record))
	}
	return listings, resp.HasMore, nil
}

// recordToListing converts a wire record into the domain listing. A record
// with only one coordinate component is treated as not geocoded rather than
// rejected; the store contract forbids the half-populated case but upstream
// data quality is not guaranteed.
func recordToListing(record listingsapi.ListingRecord) *entities.Listing {
	listing := &entities.Listing{
		ID:         record.ID,
		Name:       record.Name,
		City:       record.City,
		County:     record.County,
		State:      record.State,
		Tags:       record.Tags,
		RecordKind: entities.RecordKind(record.RecordKind),
		UpdatedAt:  record.LastModified,
	}
	if record.Latitude != nil && record.Longitude != nil {
		listing.Coordinates = &geo.Coordinate{
			Latitude:  *record.Latitude,
			Longitude: *record.Longitude,
		}
	}
	return listing
}
