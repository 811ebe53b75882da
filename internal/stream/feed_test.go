package stream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/eun2ce/uha-backend/pkg/config"
)

const feedDocument = `# 2024 live streams

| 날짜 | 링크 |
| --- | --- |
| 2024-03-15 | [봄맞이 게임 방송](https://www.youtube.com/watch?v=AAAAAAAAAAA) |
| 2024-03-10 | [심야 토크](https://youtu.be/BBBBBBBBBBB) |
2024-02-28	겨울 마지막 방송	https://www.youtube.com/watch?v=CCCCCCCCCCC
not a feed line
| broken | row |
`

func TestParseFeed(t *testing.T) {
	entries := ParseFeed(feedDocument, "")

	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].Date != "2024-03-15" || entries[0].URL != "https://www.youtube.com/watch?v=AAAAAAAAAAA" {
		t.Errorf("first entry = %+v", entries[0])
	}
	if entries[1].URL != "https://youtu.be/BBBBBBBBBBB" {
		t.Errorf("second entry = %+v", entries[1])
	}
	// Tab separated legacy line
	if entries[2].Date != "2024-02-28" || entries[2].URL != "https://www.youtube.com/watch?v=CCCCCCCCCCC" {
		t.Errorf("third entry = %+v", entries[2])
	}
}

func TestParseFeedDateFilter(t *testing.T) {
	entries := ParseFeed(feedDocument, "2024-03")

	if len(entries) != 2 {
		t.Fatalf("expected 2 entries for 2024-03, got %d", len(entries))
	}
	for _, e := range entries {
		if e.Date[:7] != "2024-03" {
			t.Errorf("entry %+v escaped the date filter", e)
		}
	}
}

func TestParseFeedEmpty(t *testing.T) {
	if entries := ParseFeed("", ""); len(entries) != 0 {
		t.Errorf("expected no entries, got %d", len(entries))
	}
}

func TestFeedFetchNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	t.Cleanup(server.Close)

	feed := NewFeed(&config.FeedConfig{BaseURL: server.URL})
	_, err := feed.Fetch(context.Background(), 2019)
	if !errors.Is(err, ErrFeedNotFound) {
		t.Errorf("expected ErrFeedNotFound, got %v", err)
	}
}

func TestFeedEntries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/readme-2024.md" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(feedDocument))
	}))
	t.Cleanup(server.Close)

	feed := NewFeed(&config.FeedConfig{BaseURL: server.URL})
	entries, err := feed.Entries(context.Background(), 2024, "")
	if err != nil {
		t.Fatalf("Entries() error = %v", err)
	}
	if len(entries) != 3 {
		t.Errorf("expected 3 entries, got %d", len(entries))
	}
}
