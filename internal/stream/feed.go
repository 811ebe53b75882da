package stream

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/eun2ce/uha-backend/internal/models"
	"github.com/eun2ce/uha-backend/pkg/config"
	"github.com/eun2ce/uha-backend/pkg/logging"
	"github.com/eun2ce/uha-backend/pkg/telemetry"
)

// ErrFeedNotFound is returned when no feed document exists for the year.
var ErrFeedNotFound = errors.New("stream: feed not found for year")

// markdownRowPattern matches feed table rows of the form
// | 2024-03-15 | [title](https://youtube.com/...) |
var markdownRowPattern = regexp.MustCompile(`^\|\s*(\d{4}-\d{2}-\d{2})\s*\|\s*\[([^\]]*)\]\(([^)]+)\)\s*\|`)

// datePattern matches the leading date of tab separated feed lines.
var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Feed fetches and parses the per-year live stream link documents.
type Feed struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// NewFeed creates a new feed fetcher
func NewFeed(cfg *config.FeedConfig) *Feed {
	return &Feed{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		logger:  logging.GetLogger().With(zap.String("component", "stream-feed")),
	}
}

// Fetch downloads the raw feed document for a year.
func (f *Feed) Fetch(ctx context.Context, year int) (string, error) {
	ctx, span := telemetry.StartSpan(ctx, "feed.fetch")
	defer span.End()

	feedURL := fmt.Sprintf("%s/readme-%d.md", f.baseURL, year)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := f.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", fmt.Errorf("year %d: %w", year, ErrFeedNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("feed fetch failed with status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read feed body: %w", err)
	}
	return string(body), nil
}

// Entries fetches and parses the feed for a year, optionally filtered by a
// YYYY-MM-DD date prefix.
func (f *Feed) Entries(ctx context.Context, year int, dateFilter string) ([]models.StreamEntry, error) {
	raw, err := f.Fetch(ctx, year)
	if err != nil {
		return nil, err
	}
	entries := ParseFeed(raw, dateFilter)
	f.logger.Debug("Parsed feed document",
		zap.Int("year", year),
		zap.Int("entries", len(entries)))
	return entries, nil
}

// ParseFeed extracts (date, url) entries from a feed document. Both markdown
// table rows and legacy tab separated lines are accepted. When dateFilter is
// non-empty only entries whose date starts with it are kept.
func ParseFeed(raw, dateFilter string) []models.StreamEntry {
	entries := make([]models.StreamEntry, 0)

	scanner := bufio.NewScanner(strings.NewReader(raw))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var entry models.StreamEntry
		if m := markdownRowPattern.FindStringSubmatch(line); m != nil {
			entry = models.StreamEntry{Date: m[1], URL: strings.TrimSpace(m[3])}
		} else if fields := strings.Split(line, "\t"); len(fields) >= 2 && datePattern.MatchString(strings.TrimSpace(fields[0])) {
			entry = models.StreamEntry{
				Date: strings.TrimSpace(fields[0]),
				URL:  strings.TrimSpace(fields[len(fields)-1]),
			}
		} else {
			continue
		}

		if entry.URL == "" {
			continue
		}
		if dateFilter != "" && !strings.HasPrefix(entry.Date, dateFilter) {
			continue
		}
		entries = append(entries, entry)
	}

	return entries
}
