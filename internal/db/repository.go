package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/eun2ce/uha-backend/internal/models"
)

// Repository provides database access methods
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// StreamCacheRepository provides stream cache database operations
type StreamCacheRepository struct {
	*Repository
}

// NewStreamCacheRepository creates a new stream cache repository
func NewStreamCacheRepository(repo *Repository) *StreamCacheRepository {
	return &StreamCacheRepository{Repository: repo}
}

// Get retrieves a cached stream by video ID. A record older than ttl counts
// as a miss; a fresh hit bumps last_accessed so the sweeper keeps it.
func (r *StreamCacheRepository) Get(ctx context.Context, videoID string, ttl time.Duration) (*models.StreamCache, error) {
	var cached models.StreamCache
	if err := r.db.WithContext(ctx).Where("video_id = ?", videoID).First(&cached).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if time.Since(cached.UpdatedAt) > ttl {
		return nil, nil
	}

	now := time.Now().UTC()
	if err := r.db.WithContext(ctx).Model(&cached).UpdateColumn("last_accessed", now).Error; err != nil {
		return nil, err
	}
	cached.LastAccessed = now

	return &cached, nil
}

// Upsert writes a cache entry, replacing any existing row for the video ID
func (r *StreamCacheRepository) Upsert(ctx context.Context, cached *models.StreamCache) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "video_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"date", "url", "title", "thumbnail",
			"view_count", "like_count", "comment_count", "duration",
			"tags", "keywords", "ai_summary", "highlights",
			"sentiment", "engagement_score", "category",
			"updated_at", "last_accessed", "cache_version",
		}),
	}).Create(cached).Error
}

// ListByYear retrieves cached streams for a year ordered newest first
func (r *StreamCacheRepository) ListByYear(ctx context.Context, year, page, perPage int) ([]*models.StreamCache, int64, error) {
	pattern := fmt.Sprintf("%d-%%", year)

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.StreamCache{}).
		Where("date LIKE ?", pattern).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var cached []*models.StreamCache
	if err := r.db.WithContext(ctx).
		Where("date LIKE ?", pattern).
		Order("date DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&cached).Error; err != nil {
		return nil, 0, err
	}
	return cached, total, nil
}

// CountByYear counts cached streams for a year
func (r *StreamCacheRepository) CountByYear(ctx context.Context, year int) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.StreamCache{}).
		Where("date LIKE ?", fmt.Sprintf("%d-%%", year)).Count(&count).Error
	return count, err
}

// Sweep deletes entries not accessed within the retention window and
// returns how many rows were removed
func (r *StreamCacheRepository) Sweep(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-retention)
	result := r.db.WithContext(ctx).
		Where("last_accessed < ?", cutoff).
		Delete(&models.StreamCache{})
	return result.RowsAffected, result.Error
}

// Clear removes all cache entries and returns how many rows were removed
func (r *StreamCacheRepository) Clear(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("1 = 1").
		Delete(&models.StreamCache{})
	return result.RowsAffected, result.Error
}
