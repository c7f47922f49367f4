package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/carefinderfl/geodirectory/internal/domain/entities"
	"github.com/carefinderfl/geodirectory/internal/domain/providers"
	"github.com/carefinderfl/geodirectory/internal/infrastructure/observability"
	apperrors "github.com/carefinderfl/geodirectory/pkg/errors"
)

const datasetCacheKey = "dataset:snapshot"

// DatasetService assembles the full listing snapshot from a backing source.
// The engine filters in memory, so the whole dataset is loaded up front;
// the assembled snapshot is cached and a refresh event is published so other
// engine instances can reload without hitting the source.
type DatasetService struct {
	source   providers.ListingSource
	cache    providers.CacheProvider
	events   providers.EventBus
	pageSize int
	cacheTTL time.Duration
	logger   *zerolog.Logger
}

// NewDatasetService creates a dataset service. Cache and event bus are
// optional; a nil provider disables that concern.
func NewDatasetService(source providers.ListingSource, cache providers.CacheProvider, events providers.EventBus, pageSize int) *DatasetService {
	if pageSize <= 0 {
		pageSize = 1000
	}
	return &DatasetService{
		source:   source,
		cache:    cache,
		events:   events,
		pageSize: pageSize,
		cacheTTL: 24 * time.Hour,
		logger:   observability.ComponentLogger("dataset"),
	}
}

// LoadAll pulls every page from the source and returns the deduplicated
// snapshot. Duplicate IDs keep the first occurrence, matching the source's
// stable ordering. The snapshot is written through to the cache and a
// refresh event is published.
func (s *DatasetService) LoadAll(ctx context.Context) ([]*entities.Listing, error) {
	var (
		snapshot []*entities.Listing
		seen     = make(map[string]struct{})
		offset   int
	)

	for {
		page, hasMore, err := s.source.FetchPage(ctx, s.pageSize, offset)
		if err != nil {
			return nil, apperrors.NewExternalError("failed to fetch listing page", err)
		}
		for _, listing := range page {
			if _, dup := seen[listing.ID]; dup {
				continue
			}
			seen[listing.ID] = struct{}{}
			snapshot = append(snapshot, listing)
		}
		offset += s.pageSize
		if !hasMore || len(page) == 0 {
			break
		}
	}

	s.logger.Info().Int("listings", len(snapshot)).Msg("dataset snapshot loaded")

	if err := s.writeCache(ctx, snapshot); err != nil {
		s.logger.Warn().Err(err).Msg("failed to cache dataset snapshot")
	}
	if err := s.publishRefresh(ctx, len(snapshot)); err != nil {
		s.logger.Warn().Err(err).Msg("failed to publish dataset refresh event")
	}

	return snapshot, nil
}

// CachedSnapshot returns the last cached snapshot, or a not-found error when
// no snapshot has been cached yet.
func (s *DatasetService) CachedSnapshot(ctx context.Context) ([]*entities.Listing, error) {
	if s.cache == nil {
		return nil, apperrors.NewNotFoundError("dataset cache disabled")
	}
	raw, err := s.cache.Get(ctx, datasetCacheKey)
	if err != nil {
		return nil, apperrors.NewNotFoundError("no cached dataset snapshot")
	}
	var snapshot []*entities.Listing
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return nil, apperrors.NewInternalError("corrupt cached dataset snapshot", err)
	}
	return snapshot, nil
}

// InvalidateCache drops the cached snapshot.
func (s *DatasetService) InvalidateCache(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Delete(ctx, datasetCacheKey)
}

func (s *DatasetService) writeCache(ctx context.Context, snapshot []*entities.Listing) error {
	if s.cache == nil {
		return nil
	}
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, datasetCacheKey, raw, s.cacheTTL)
}

func (s *DatasetService) publishRefresh(ctx context.Context, count int) error {
	if s.events == nil {
		return nil
	}
	event := &entities.DatasetEvent{
		ID:           uuid.NewString(),
		Type:         entities.DatasetEventRefreshed,
		ListingCount: count,
		OccurredAt:   time.Now().UTC(),
	}
	return s.events.Publish(ctx, providers.EventChannelDatasetUpdates, event)
}
