package stream

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/eun2ce/uha-backend/internal/cache"
	"github.com/eun2ce/uha-backend/internal/db"
	"github.com/eun2ce/uha-backend/internal/models"
	"github.com/eun2ce/uha-backend/pkg/logging"
)

const recordKeyPrefix = "stream:"

// Store layers Redis in front of the durable stream cache table. Redis
// failures degrade to tier-2 lookups; tier-2 failures degrade to a miss, so
// callers only ever see hit or miss.
type Store struct {
	redis  *cache.Cache
	repo   *db.StreamCacheRepository
	ttl    time.Duration
	logger *zap.Logger
}

// NewStore creates a new two-tier record store
func NewStore(redis *cache.Cache, repo *db.StreamCacheRepository, ttl time.Duration) *Store {
	return &Store{
		redis:  redis,
		repo:   repo,
		ttl:    ttl,
		logger: logging.GetLogger().With(zap.String("component", "stream-store")),
	}
}

// Get looks up an enriched record by video ID. A durable hit re-primes Redis.
func (s *Store) Get(ctx context.Context, videoID string) (*models.StreamRecord, bool) {
	var record models.StreamRecord
	err := s.redis.GetJSON(recordKeyPrefix+videoID, &record)
	if err == nil {
		return &record, true
	}
	if !errors.Is(err, cache.ErrCacheDisabled) && !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("Redis lookup failed, falling through", zap.Error(err))
	}

	cached, err := s.repo.Get(ctx, videoID, s.ttl)
	if err != nil {
		s.logger.Warn("Durable cache lookup failed, treating as miss",
			zap.String("video_id", videoID), zap.Error(err))
		return nil, false
	}
	if cached == nil {
		return nil, false
	}

	result := cached.ToRecord()
	if err := s.redis.SetJSON(recordKeyPrefix+videoID, result, s.ttl); err != nil && !errors.Is(err, cache.ErrCacheDisabled) {
		s.logger.Debug("Failed to re-prime Redis", zap.Error(err))
	}
	return &result, true
}

// Put writes an enriched record to both tiers. The durable tier is
// authoritative; a Redis write failure is logged and ignored.
func (s *Store) Put(ctx context.Context, record *models.StreamRecord) error {
	if err := s.repo.Upsert(ctx, models.NewStreamCache(record)); err != nil {
		return err
	}
	if err := s.redis.SetJSON(recordKeyPrefix+record.VideoID, record, s.ttl); err != nil && !errors.Is(err, cache.ErrCacheDisabled) {
		s.logger.Debug("Failed to write Redis tier", zap.Error(err))
	}
	return nil
}

// ListByYear returns cached records for a year, newest first.
func (s *Store) ListByYear(ctx context.Context, year, page, perPage int) ([]models.StreamRecord, int64, error) {
	cached, total, err := s.repo.ListByYear(ctx, year, page, perPage)
	if err != nil {
		return nil, 0, err
	}
	records := make([]models.StreamRecord, 0, len(cached))
	for _, c := range cached {
		records = append(records, c.ToRecord())
	}
	return records, total, nil
}

// CountByYear counts cached records for a year.
func (s *Store) CountByYear(ctx context.Context, year int) (int64, error) {
	return s.repo.CountByYear(ctx, year)
}

// Clear drops both tiers and returns the number of durable rows removed.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	removed, err := s.repo.Clear(ctx)
	if err != nil {
		return 0, err
	}
	if _, err := s.redis.DeleteByPattern(recordKeyPrefix + "*"); err != nil && !errors.Is(err, cache.ErrCacheDisabled) {
		s.logger.Warn("Failed to clear Redis tier", zap.Error(err))
	}
	return removed, nil
}

// Sweep evicts durable rows not accessed within the retention window.
func (s *Store) Sweep(ctx context.Context, retention time.Duration) (int64, error) {
	return s.repo.Sweep(ctx, retention)
}
