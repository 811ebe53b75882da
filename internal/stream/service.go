package stream

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/eun2ce/uha-backend/internal/analysis"
	"github.com/eun2ce/uha-backend/internal/llm"
	"github.com/eun2ce/uha-backend/internal/models"
	"github.com/eun2ce/uha-backend/internal/youtube"
	"github.com/eun2ce/uha-backend/pkg/config"
	"github.com/eun2ce/uha-backend/pkg/logging"
	"github.com/eun2ce/uha-backend/pkg/telemetry"
)

const (
	maxCommentsPerVideo  = 20
	maxTagsPerRecord     = 5
	maxKeywordsPerRecord = 5
	summaryTemperature   = 0.4
)

// FeedSource resolves a year into parsed stream entries.
type FeedSource interface {
	Entries(ctx context.Context, year int, dateFilter string) ([]models.StreamEntry, error)
}

// MetadataFetcher provides YouTube video metadata and comments.
type MetadataFetcher interface {
	VideoDetails(ctx context.Context, videoID string) (*youtube.Video, error)
	Comments(ctx context.Context, videoID string, max int) []youtube.Comment
}

// Summarizer generates text summaries from prompts.
type Summarizer interface {
	Summarize(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error)
}

// RecordStore caches enriched stream records.
type RecordStore interface {
	Get(ctx context.Context, videoID string) (*models.StreamRecord, bool)
	Put(ctx context.Context, record *models.StreamRecord) error
}

// Service runs the enrichment pipeline: feed entries in, enriched records out.
type Service struct {
	feed          FeedSource
	fetcher       MetadataFetcher
	summarizer    Summarizer
	store         RecordStore
	windowSize    int
	maxConcurrent int
	logger        *zap.Logger
}

// NewService creates a new enrichment service
func NewService(feed FeedSource, fetcher MetadataFetcher, summarizer Summarizer, store RecordStore, cfg *config.StreamConfig) *Service {
	windowSize := cfg.WindowSize
	if windowSize <= 0 {
		windowSize = 5
	}
	maxConcurrent := cfg.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = 5
	}
	return &Service{
		feed:          feed,
		fetcher:       fetcher,
		summarizer:    summarizer,
		store:         store,
		windowSize:    windowSize,
		maxConcurrent: maxConcurrent,
		logger:        logging.GetLogger().With(zap.String("component", "stream-service")),
	}
}

// EnrichYear fetches the feed for a year and enriches every entry.
func (s *Service) EnrichYear(ctx context.Context, year int, dateFilter string) ([]models.StreamRecord, error) {
	entries, err := s.feed.Entries(ctx, year, dateFilter)
	if err != nil {
		return nil, err
	}
	return s.EnrichBatch(ctx, entries), nil
}

// EnrichBatch enriches entries in windows. Windows run sequentially; entries
// inside a window run concurrently under the semaphore. Results are positional
// and every input entry yields exactly one record.
func (s *Service) EnrichBatch(ctx context.Context, entries []models.StreamEntry) []models.StreamRecord {
	ctx, span := telemetry.StartSpan(ctx, "stream.enrich_batch")
	defer span.End()

	results := make([]models.StreamRecord, len(entries))
	for start := 0; start < len(entries); start += s.windowSize {
		end := min(start+s.windowSize, len(entries))
		s.enrichWindow(ctx, entries[start:end], results[start:end])
	}
	return results
}

func (s *Service) enrichWindow(ctx context.Context, entries []models.StreamEntry, out []models.StreamRecord) {
	sem := semaphore.NewWeighted(int64(s.maxConcurrent))
	var wg sync.WaitGroup

	for i := range entries {
		if err := sem.Acquire(ctx, 1); err != nil {
			// Degraded like any other failure: the video id survives
			record := bareRecord(entries[i])
			record.VideoID = youtube.ExtractVideoID(entries[i].URL)
			out[i] = record
			continue
		}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer sem.Release(1)
			out[i] = s.enrichOne(ctx, entries[i])
		}(i)
	}

	wg.Wait()
}

// enrichOne produces a record for one entry. Failures never escape: a panic
// or upstream error degrades the record instead of failing the batch.
func (s *Service) enrichOne(ctx context.Context, entry models.StreamEntry) (record models.StreamRecord) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Enrichment panicked",
				zap.Any("panic", r), zap.String("url", entry.URL))
			record = bareRecord(entry)
			record.VideoID = youtube.ExtractVideoID(entry.URL)
		}
	}()

	record = bareRecord(entry)
	record.VideoID = youtube.ExtractVideoID(entry.URL)
	if record.VideoID == "" {
		// Nothing to enrich and nothing worth caching
		return record
	}

	if cached, ok := s.store.Get(ctx, record.VideoID); ok {
		cached.Date = entry.Date
		cached.URL = entry.URL
		return *cached
	}

	video, err := s.fetcher.VideoDetails(ctx, record.VideoID)
	if err != nil {
		s.logger.Warn("Metadata fetch failed, caching degraded record",
			zap.String("video_id", record.VideoID), zap.Error(err))
		s.persist(ctx, &record)
		return record
	}

	record.Title = video.Snippet.Title
	record.Thumbnail = video.BestThumbnail()
	record.ViewCount = video.Statistics.ViewCount
	record.LikeCount = video.Statistics.LikeCount
	record.CommentCount = video.Statistics.CommentCount
	record.Duration = video.ContentDetails.Duration

	record.Tags = video.Snippet.Tags
	if len(record.Tags) > maxTagsPerRecord {
		record.Tags = record.Tags[:maxTagsPerRecord]
	}
	record.Keywords = analysis.Keywords(video.Snippet.Title+" "+video.Snippet.Description, maxKeywordsPerRecord)

	comments := s.fetcher.Comments(ctx, record.VideoID, maxCommentsPerVideo)
	commentTexts := make([]string, 0, len(comments))
	for _, c := range comments {
		commentTexts = append(commentTexts, c.Text)
	}

	record.Sentiment = analysis.Sentiment(video.Snippet.Title, video.Snippet.Description, commentTexts)
	record.Highlights = analysis.Highlights(commentTexts, video.Snippet.Title)
	record.EngagementScore = analysis.EngagementScore(
		record.ViewCount, record.LikeCount, record.CommentCount,
		analysis.DurationMinutes(record.Duration))
	record.Category = analysis.Categorize(video.Snippet.Title, record.Tags, record.Keywords)

	prompt := llm.StreamSummaryPrompt(
		video.Snippet.Title, video.Snippet.Description,
		commentTexts, record.Tags, record.Keywords)
	summary, err := s.summarizer.Summarize(ctx, prompt, 0, summaryTemperature)
	if err != nil || llm.NeedsFallback(summary) {
		if err != nil {
			s.logger.Warn("Summarization failed, using fallback",
				zap.String("video_id", record.VideoID), zap.Error(err))
		}
		summary = llm.FallbackSummary(video.Snippet.Title, record.Tags)
	}
	record.AISummary = summary

	s.persist(ctx, &record)
	return record
}

func (s *Service) persist(ctx context.Context, record *models.StreamRecord) {
	if err := s.store.Put(ctx, record); err != nil {
		s.logger.Warn("Failed to cache record",
			zap.String("video_id", record.VideoID), zap.Error(err))
	}
}

func bareRecord(entry models.StreamEntry) models.StreamRecord {
	return models.StreamRecord{Date: entry.Date, URL: entry.URL}
}
