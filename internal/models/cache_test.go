package models

import (
	"reflect"
	"testing"
	"time"
)

func TestStreamCacheRoundTrip(t *testing.T) {
	record := StreamRecord{
		Date:            "2024-03-15",
		URL:             "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		VideoID:         "dQw4w9WgXcQ",
		Title:           "게임 스트리밍",
		Thumbnail:       "https://img.youtube.com/vi/dQw4w9WgXcQ/maxresdefault.jpg",
		ViewCount:       1500,
		LikeCount:       120,
		CommentCount:    45,
		Duration:        "PT1H30M",
		Tags:            []string{"게임", "라이브"},
		Keywords:        []string{"스트리밍", "재미"},
		AISummary:       "재미있는 방송이었습니다.",
		Highlights:      []string{"🎮 게임 스트리밍"},
		Sentiment:       "긍정적인 반응이 많은 스트림",
		EngagementScore: 7.5,
		Category:        "🎮 게임",
	}

	cached := NewStreamCache(&record)
	got := cached.ToRecord()

	if !reflect.DeepEqual(got, record) {
		t.Errorf("round trip mismatch:\n got  %+v\n want %+v", got, record)
	}
}

func TestStreamCacheEmptyLists(t *testing.T) {
	record := StreamRecord{
		Date:    "2024-01-01",
		URL:     "https://example.com/not-a-video",
		VideoID: "",
	}

	cached := NewStreamCache(&record)

	if cached.Tags != "" || cached.Keywords != "" || cached.Highlights != "" {
		t.Error("empty slices should encode to empty strings, not JSON null")
	}

	got := cached.ToRecord()
	if got.Tags != nil || got.Keywords != nil || got.Highlights != nil {
		t.Error("empty columns should decode to nil slices")
	}
}

func TestNewStreamCacheSetsLastAccessed(t *testing.T) {
	cached := NewStreamCache(&StreamRecord{
		Date:    "2024-03-15",
		URL:     "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		VideoID: "dQw4w9WgXcQ",
	})

	if cached.LastAccessed.IsZero() {
		t.Fatal("fresh rows must start with last_accessed set, not the zero time")
	}
	if time.Since(cached.LastAccessed) > time.Minute {
		t.Errorf("last_accessed should be now, got %v", cached.LastAccessed)
	}
}

func TestHasMetadata(t *testing.T) {
	tests := []struct {
		name     string
		record   StreamRecord
		expected bool
	}{
		{"with title", StreamRecord{Title: "방송"}, true},
		{"without title", StreamRecord{VideoID: "dQw4w9WgXcQ"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.record.HasMetadata(); got != tt.expected {
				t.Errorf("HasMetadata() = %v, want %v", got, tt.expected)
			}
		})
	}
}
