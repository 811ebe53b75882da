package db

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/eun2ce/uha-backend/internal/models"
)

func newTestRepo(t *testing.T) *StreamCacheRepository {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	// In-memory sqlite is per-connection; keep the pool at one
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := gdb.AutoMigrate(&models.StreamCache{}); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}
	return NewStreamCacheRepository(NewRepository(gdb))
}

func seedRow(videoID, date, title string) *models.StreamCache {
	return models.NewStreamCache(&models.StreamRecord{
		Date:    date,
		URL:     "https://youtu.be/" + videoID,
		VideoID: videoID,
		Title:   title,
	})
}

// backdate overwrites a timestamp column without touching the others.
func backdate(t *testing.T, repo *StreamCacheRepository, videoID, column string, age time.Duration) time.Time {
	t.Helper()
	past := time.Now().UTC().Add(-age)
	err := repo.db.Model(&models.StreamCache{}).
		Where("video_id = ?", videoID).
		UpdateColumn(column, past).Error
	if err != nil {
		t.Fatalf("failed to backdate %s: %v", column, err)
	}
	return past
}

func TestGetFreshBumpsLastAccessed(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Upsert(ctx, seedRow("AAAAAAAAAAA", "2024-03-15", "게임 방송")); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	past := backdate(t, repo, "AAAAAAAAAAA", "last_accessed", 10*time.Hour)

	cached, err := repo.Get(ctx, "AAAAAAAAAAA", 24*time.Hour)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if cached == nil {
		t.Fatal("expected a fresh hit")
	}
	if cached.Title != "게임 방송" {
		t.Errorf("Title = %q", cached.Title)
	}
	if !cached.LastAccessed.After(past) {
		t.Errorf("last_accessed not bumped: %v", cached.LastAccessed)
	}

	var row models.StreamCache
	if err := repo.db.Where("video_id = ?", "AAAAAAAAAAA").First(&row).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if !row.LastAccessed.After(past) {
		t.Errorf("persisted last_accessed not bumped: %v", row.LastAccessed)
	}
}

func TestGetStaleIsMiss(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Upsert(ctx, seedRow("AAAAAAAAAAA", "2024-03-15", "게임 방송")); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	backdate(t, repo, "AAAAAAAAAAA", "updated_at", 25*time.Hour)

	cached, err := repo.Get(ctx, "AAAAAAAAAAA", 24*time.Hour)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if cached != nil {
		t.Error("a row older than the freshness window must read as a miss")
	}
}

func TestGetMissing(t *testing.T) {
	repo := newTestRepo(t)

	cached, err := repo.Get(context.Background(), "missing00000", 24*time.Hour)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if cached != nil {
		t.Error("expected nil for an unknown video id")
	}
}

func TestUpsertTwiceKeepsOneRow(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Upsert(ctx, seedRow("AAAAAAAAAAA", "2024-03-15", "첫 제목")); err != nil {
		t.Fatalf("first Upsert() error = %v", err)
	}
	if err := repo.Upsert(ctx, seedRow("AAAAAAAAAAA", "2024-03-16", "수정된 제목")); err != nil {
		t.Fatalf("second Upsert() error = %v", err)
	}

	var count int64
	if err := repo.db.Model(&models.StreamCache{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 row after re-enrichment, got %d", count)
	}

	var row models.StreamCache
	if err := repo.db.Where("video_id = ?", "AAAAAAAAAAA").First(&row).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if row.Title != "수정된 제목" || row.Date != "2024-03-16" {
		t.Errorf("last write should win: %+v", row)
	}
	if row.LastAccessed.IsZero() {
		t.Error("re-enriched rows must not carry a zero last_accessed")
	}
}

func TestSweepSparesFreshRows(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Upsert(ctx, seedRow("AAAAAAAAAAA", "2024-03-15", "게임 방송")); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	removed, err := repo.Sweep(ctx, 48*time.Hour)
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}
	if removed != 0 {
		t.Errorf("a just-written row was swept (%d removed)", removed)
	}
}

func TestSweepEvictsUnreadRows(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Upsert(ctx, seedRow("AAAAAAAAAAA", "2024-03-15", "오래된 방송")); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if err := repo.Upsert(ctx, seedRow("BBBBBBBBBBB", "2024-03-16", "최근 방송")); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	backdate(t, repo, "AAAAAAAAAAA", "last_accessed", 49*time.Hour)

	removed, err := repo.Sweep(ctx, 48*time.Hour)
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}

	var remaining []models.StreamCache
	if err := repo.db.Find(&remaining).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if len(remaining) != 1 || remaining[0].VideoID != "BBBBBBBBBBB" {
		t.Errorf("wrong survivor: %+v", remaining)
	}
}

func TestListByYear(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, row := range []*models.StreamCache{
		seedRow("AAAAAAAAAAA", "2024-01-02", "새해 방송"),
		seedRow("BBBBBBBBBBB", "2024-03-15", "봄 방송"),
		seedRow("CCCCCCCCCCC", "2023-12-31", "송년 방송"),
	} {
		if err := repo.Upsert(ctx, row); err != nil {
			t.Fatalf("Upsert() error = %v", err)
		}
	}

	rows, total, err := repo.ListByYear(ctx, 2024, 1, 10)
	if err != nil {
		t.Fatalf("ListByYear() error = %v", err)
	}
	if total != 2 {
		t.Errorf("total = %d, want 2", total)
	}
	if len(rows) != 2 || rows[0].Date != "2024-03-15" || rows[1].Date != "2024-01-02" {
		t.Errorf("expected newest first, got %+v", rows)
	}

	// Second page of one
	rows, _, err = repo.ListByYear(ctx, 2024, 2, 1)
	if err != nil {
		t.Fatalf("ListByYear() error = %v", err)
	}
	if len(rows) != 1 || rows[0].Date != "2024-01-02" {
		t.Errorf("page 2 = %+v", rows)
	}

	count, err := repo.CountByYear(ctx, 2023)
	if err != nil {
		t.Fatalf("CountByYear() error = %v", err)
	}
	if count != 1 {
		t.Errorf("CountByYear(2023) = %d, want 1", count)
	}
}
