package models

import (
	"encoding/json"
	"time"
)

// StreamCache is the persisted form of a StreamRecord, keyed uniquely by
// video ID. Slice fields are stored as JSON text columns.
type StreamCache struct {
	ID      int64  `gorm:"primaryKey;autoIncrement;column:id"`
	VideoID string `gorm:"type:varchar(11);uniqueIndex;not null;column:video_id"`
	URL     string `gorm:"type:varchar(255);not null;column:url"`
	Date    string `gorm:"type:varchar(10);not null;index;column:date"`

	// Basic video information
	Title        string `gorm:"type:varchar(500);column:title"`
	Thumbnail    string `gorm:"type:varchar(500);column:thumbnail"`
	ViewCount    int64  `gorm:"default:0;column:view_count"`
	LikeCount    int64  `gorm:"default:0;column:like_count"`
	CommentCount int64  `gorm:"default:0;column:comment_count"`
	Duration     string `gorm:"type:varchar(50);column:duration"`

	// AI-generated content
	AISummary       string  `gorm:"type:text;column:ai_summary"`
	Highlights      string  `gorm:"type:text;column:highlights"` // JSON array
	Sentiment       string  `gorm:"type:varchar(100);column:sentiment"`
	EngagementScore float64 `gorm:"column:engagement_score"`
	Category        string  `gorm:"type:varchar(100);column:category"`

	// Tags and keywords
	Tags     string `gorm:"type:text;column:tags"`     // JSON array
	Keywords string `gorm:"type:text;column:keywords"` // JSON array

	// Cache metadata
	CreatedAt    time.Time `gorm:"not null;column:created_at"`
	UpdatedAt    time.Time `gorm:"not null;column:updated_at"`
	LastAccessed time.Time `gorm:"not null;index;column:last_accessed"`
	CacheVersion int       `gorm:"default:1;column:cache_version"` // reserved for invalidation
}

// TableName specifies the table name for StreamCache
func (StreamCache) TableName() string {
	return "stream_cache"
}

// ToRecord converts a cached row back into a StreamRecord.
func (c *StreamCache) ToRecord() StreamRecord {
	return StreamRecord{
		Date:            c.Date,
		URL:             c.URL,
		VideoID:         c.VideoID,
		Title:           c.Title,
		Thumbnail:       c.Thumbnail,
		ViewCount:       c.ViewCount,
		LikeCount:       c.LikeCount,
		CommentCount:    c.CommentCount,
		Duration:        c.Duration,
		Tags:            decodeStringList(c.Tags),
		Keywords:        decodeStringList(c.Keywords),
		AISummary:       c.AISummary,
		Highlights:      decodeStringList(c.Highlights),
		Sentiment:       c.Sentiment,
		EngagementScore: c.EngagementScore,
		Category:        c.Category,
	}
}

// NewStreamCache builds a cache row from a StreamRecord. LastAccessed starts
// at now so a fresh row survives the sweeper until it goes genuinely unread.
func NewStreamCache(record *StreamRecord) *StreamCache {
	return &StreamCache{
		LastAccessed:    time.Now().UTC(),
		VideoID:         record.VideoID,
		URL:             record.URL,
		Date:            record.Date,
		Title:           record.Title,
		Thumbnail:       record.Thumbnail,
		ViewCount:       record.ViewCount,
		LikeCount:       record.LikeCount,
		CommentCount:    record.CommentCount,
		Duration:        record.Duration,
		AISummary:       record.AISummary,
		Highlights:      encodeStringList(record.Highlights),
		Sentiment:       record.Sentiment,
		EngagementScore: record.EngagementScore,
		Category:        record.Category,
		Tags:            encodeStringList(record.Tags),
		Keywords:        encodeStringList(record.Keywords),
		CacheVersion:    1,
	}
}

func encodeStringList(values []string) string {
	if len(values) == 0 {
		return ""
	}
	data, err := json.Marshal(values)
	if err != nil {
		return ""
	}
	return string(data)
}

func decodeStringList(raw string) []string {
	if raw == "" {
		return nil
	}
	var values []string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil
	}
	return values
}
