package dataset

import (
	"context"
	"encoding/json"
	"os"

	"github.com/carefinderfl/geodirectory/internal/domain/entities"
	"github.com/carefinderfl/geodirectory/internal/domain/providers"
	"github.com/carefinderfl/geodirectory/internal/infrastructure/clients/listingsapi"
	apperrors "github.com/carefinderfl/geodirectory/pkg/errors"
)

// FileSource serves listing pages from a JSON export on disk. The file holds
// an array of records in the hosted store's wire format, so an export taken
// with curl works unmodified. Useful for offline runs and seeding.
type FileSource struct {
	listings []*entities.Listing
}

// NewFileSource loads a JSON listing export.
func NewFileSource(path string) (providers.ListingSource, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewNotFoundError("listing export not readable: " + path)
	}

	var records []listingsapi.ListingRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, apperrors.NewValidationError("listing export is not a JSON record array: " + err.Error())
	}

	listings := make([]*entities.Listing, 0, len(records))
	for _, record := range records {
		listings = append(listings, recordToListing(record))
	}
	return &FileSource{listings: listings}, nil
}

// FetchPage returns one page of the loaded export.
func (s *FileSource) FetchPage(ctx context.Context, limit, offset int) ([]*entities.Listing, bool, error) {
	if offset >= len(s.listings) {
		return nil, false, nil
	}
	end := offset + limit
	if end > len(s.listings) {
		end = len(s.listings)
	}
	return s.listings[offset:end], end < len(s.listings), nil
}
