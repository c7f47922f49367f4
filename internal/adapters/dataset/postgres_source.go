package dataset

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/carefinderfl/geodirectory/internal/domain/entities"
	"github.com/carefinderfl/geodirectory/internal/domain/providers"
	"github.com/carefinderfl/geodirectory/internal/infrastructure/clients/postgres"
	apperrors "github.com/carefinderfl/geodirectory/pkg/errors"
	"github.com/carefinderfl/geodirectory/pkg/geo"
)

// PostgresSource serves listing pages from a local replica of the directory,
// for deployments that mirror the hosted store into Postgres.
type PostgresSource struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewPostgresSource creates a Postgres-backed listing source.
func NewPostgresSource(client *postgres.Client) providers.ListingSource {
	return &PostgresSource{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// FetchPage returns one page of listings ordered by ID for stable pagination.
func (s *PostgresSource) FetchPage(ctx context.Context, limit, offset int) ([]*entities.Listing, bool, error) {
	query, args, err := s.db.Select(
		"id", "name", "city", "county", "state",
		"latitude", "longitude", "tags", "record_kind", "updated_at",
	).From("listings").
		Where(goqu.Ex{"is_active": true}).
		Order(goqu.I("id").Asc()).
		Limit(uint(limit + 1)).
		Offset(uint(offset)).
		ToSQL()
	if err != nil {
		return nil, false, apperrors.NewInternalError("failed to build listings query", err)
	}

	rows, err := s.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, false, apperrors.NewInternalError("failed to query listings", err)
	}
	defer rows.Close()

	var listings []*entities.Listing
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return nil, false, err
		}
		listings = append(listings, listing)
	}
	if err := rows.Err(); err != nil {
		return nil, false, apperrors.NewInternalError("failed to read listings rows", err)
	}

	// One extra row was requested to detect whether more pages remain.
	hasMore := len(listings) > limit
	if hasMore {
		listings = listings[:limit]
	}
	return listings, hasMore, nil
}

func scanListing(rows *sql.Rows) (*entities.Listing, error) {
	listing := &entities.Listing{}
	var lat, lon sql.NullFloat64
	var tagsRaw []byte

	err := rows.Scan(
		&listing.ID,
		&listing.Name,
		&listing.City,
		&listing.County,
		&listing.State,
		&lat,
		&lon,
		&tagsRaw,
		&listing.RecordKind,
		&listing.UpdatedAt,
	)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to scan listing row", err)
	}

	if lat.Valid && lon.Valid {
		listing.Coordinates = &geo.Coordinate{Latitude: lat.Float64, Longitude: lon.Float64}
	}

	if len(tagsRaw) > 0 {
		tags := make(map[string][]string)
		if err := json.Unmarshal(tagsRaw, &tags); err == nil {
			listing.Tags = tags
		}
		// Malformed tag payloads leave Tags nil rather than failing the row.
	}

	return listing, nil
}
