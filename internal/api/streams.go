package api

import (
	"errors"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/eun2ce/uha-backend/internal/cache"
	"github.com/eun2ce/uha-backend/internal/llm"
	"github.com/eun2ce/uha-backend/internal/models"
)

const (
	defaultPerPage        = 10
	maxPerPage            = 100
	defaultVideosAnalyzed = 5
	summaryTemperature    = 0.4
	yearSummaryTTL        = time.Hour
)

// yearSummaryCacheKey derives a stable Redis key for a year summary request.
func yearSummaryCacheKey(year int, dateFilter string) string {
	return "summary:" + cache.HashKey("year-summary", strconv.Itoa(year), dateFilter)
}

// summarizeLiveStreams handles POST /llm/summarize-live-streams
func (r *Router) summarizeLiveStreams(c *gin.Context) {
	var req models.StreamSummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, NewError(http.StatusBadRequest, "year is required"))
		return
	}

	ctx := c.Request.Context()
	entries, err := r.deps.Feed.Entries(ctx, req.Year, req.DateFilter)
	if err != nil {
		respondError(c, err)
		return
	}

	dates := make([]string, 0, len(entries))
	for _, e := range entries {
		dates = append(dates, e.Date)
	}

	summaryKey := yearSummaryCacheKey(req.Year, req.DateFilter)
	summary, cacheErr := r.deps.Cache.Get(summaryKey)
	if cacheErr != nil {
		prompt := llm.YearSummaryPrompt(req.Year, len(entries), dates, "")
		generated, err := r.deps.LLM.Summarize(ctx, prompt, 0, summaryTemperature)
		if err != nil || llm.NeedsFallback(generated) {
			if err != nil {
				r.logger.Warn("Year summary generation failed, using fallback",
					zap.Int("year", req.Year), zap.Error(err))
			}
			first, last := "", ""
			if len(dates) > 0 {
				first, last = dates[0], dates[len(dates)-1]
			}
			summary = llm.FallbackYearSummary(req.Year, len(entries), first, last)
		} else {
			summary = generated
			// Only real model output is worth keeping; fallbacks are free
			if err := r.deps.Cache.Set(summaryKey, summary, yearSummaryTTL); err != nil && !errors.Is(err, cache.ErrCacheDisabled) {
				r.logger.Debug("Failed to cache year summary", zap.Error(err))
			}
		}
	}

	response := models.StreamSummaryResponse{
		Entries:      entries,
		Summary:      summary,
		TotalStreams: len(entries),
	}

	if req.IncludeDetailedAnalysis && len(entries) > 0 {
		maxVideos := req.MaxVideosToAnalyze
		if maxVideos <= 0 {
			maxVideos = defaultVideosAnalyzed
		}
		maxVideos = min(maxVideos, len(entries))

		records := r.deps.Streams.EnrichBatch(ctx, entries[:maxVideos])
		detailed := detailedAnalysisFromRecords(records, summary)
		response.DetailedAnalysis = detailed
		response.CommonKeywords = detailed.CommonKeywords
		response.EngagementStats = detailed.TotalEngagement
	}

	c.JSON(http.StatusOK, response)
}

// paginatedStreams handles POST /llm/streams
func (r *Router) paginatedStreams(c *gin.Context) {
	var req models.PaginatedStreamsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, NewError(http.StatusBadRequest, "year is required"))
		return
	}
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PerPage <= 0 {
		req.PerPage = defaultPerPage
	}
	if req.PerPage > maxPerPage {
		req.PerPage = maxPerPage
	}

	ctx := c.Request.Context()
	entries, err := r.deps.Feed.Entries(ctx, req.Year, "")
	if err != nil {
		respondError(c, err)
		return
	}

	total := len(entries)
	totalPages := (total + req.PerPage - 1) / req.PerPage
	start := (req.Page - 1) * req.PerPage
	if start > total {
		start = total
	}
	end := min(start+req.PerPage, total)
	page := entries[start:end]

	var streams []models.StreamRecord
	if req.IncludeDetails {
		streams = r.deps.Streams.EnrichBatch(ctx, page)
	} else {
		streams = make([]models.StreamRecord, 0, len(page))
		for _, e := range page {
			streams = append(streams, models.StreamRecord{Date: e.Date, URL: e.URL})
		}
	}

	c.JSON(http.StatusOK, models.PaginatedStreamsResponse{
		Streams:      streams,
		TotalStreams: total,
		CurrentPage:  req.Page,
		TotalPages:   totalPages,
		PerPage:      req.PerPage,
	})
}

type summarizeTextRequest struct {
	Content     string  `json:"content" binding:"required"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
}

// summarizeText handles POST /llm/summarize
func (r *Router) summarizeText(c *gin.Context) {
	var req summarizeTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, NewError(http.StatusBadRequest, "content is required"))
		return
	}
	if req.Temperature <= 0 {
		req.Temperature = summaryTemperature
	}

	summary, err := r.deps.LLM.Summarize(c.Request.Context(), llm.SummarizeTextPrompt(req.Content), req.MaxTokens, req.Temperature)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"summary":         summary,
		"original_length": len([]rune(req.Content)),
		"summary_length":  len([]rune(summary)),
	})
}

// llmHealth handles GET /llm/health
func (r *Router) llmHealth(c *gin.Context) {
	if err := r.deps.LLM.Health(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// cacheRetention is how long unread cache rows survive the clear endpoint.
const cacheRetention = 48 * time.Hour

// cacheClear handles POST /llm/cache/clear. By default only entries unread
// for the retention window are evicted; ?all=true wipes both tiers.
func (r *Router) cacheClear(c *gin.Context) {
	var cleared int64
	var err error
	if c.Query("all") == "true" {
		cleared, err = r.deps.Store.Clear(c.Request.Context())
	} else {
		cleared, err = r.deps.Store.Sweep(c.Request.Context(), cacheRetention)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	r.logger.Info("Stream cache cleared", zap.Int64("entries", cleared))
	c.JSON(http.StatusOK, gin.H{"cleared": cleared})
}

// cacheStatsYears is the year range reported by the stats endpoint
var cacheStatsYears = []int{2020, 2021, 2022, 2023, 2024, 2025}

// cacheStats handles GET /llm/cache/stats
func (r *Router) cacheStats(c *gin.Context) {
	years := gin.H{}
	var total int64
	for _, year := range cacheStatsYears {
		count, err := r.deps.Store.CountByYear(c.Request.Context(), year)
		if err != nil {
			respondError(c, err)
			return
		}
		years[strconv.Itoa(year)] = count
		total += count
	}
	c.JSON(http.StatusOK, gin.H{"years": years, "total": total})
}

// detailedAnalysisFromRecords aggregates enriched records into the shared
// detailed analysis shape.
func detailedAnalysisFromRecords(records []models.StreamRecord, summary string) *models.DetailedAnalysis {
	videos := make([]models.VideoAnalysis, 0, len(records))
	keywordCounts := make(map[string]int)
	keywordFirst := make(map[string]int)
	var totalViews, totalLikes, totalComments int64

	for _, record := range records {
		if !record.HasMetadata() {
			continue
		}
		videos = append(videos, models.VideoAnalysis{
			VideoID:           record.VideoID,
			Title:             record.Title,
			Tags:              record.Tags,
			ViewCount:         record.ViewCount,
			LikeCount:         record.LikeCount,
			CommentCount:      record.CommentCount,
			Duration:          record.Duration,
			ExtractedKeywords: record.Keywords,
			SentimentSummary:  record.Sentiment,
		})
		for _, kw := range record.Keywords {
			if _, seen := keywordCounts[kw]; !seen {
				keywordFirst[kw] = len(keywordFirst)
			}
			keywordCounts[kw]++
		}
		totalViews += record.ViewCount
		totalLikes += record.LikeCount
		totalComments += record.CommentCount
	}

	return &models.DetailedAnalysis{
		Videos:         videos,
		Summary:        summary,
		CommonKeywords: topKeywords(keywordCounts, keywordFirst, 15),
		TotalEngagement: map[string]int64{
			"total_views":    totalViews,
			"total_likes":    totalLikes,
			"total_comments": totalComments,
		},
	}
}

// topKeywords ranks keywords by count desc, first appearance asc.
func topKeywords(counts map[string]int, first map[string]int, max int) []string {
	type entry struct {
		word  string
		count int
		first int
	}
	entries := make([]entry, 0, len(counts))
	for word, count := range counts {
		entries = append(entries, entry{word, count, first[word]})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].first < entries[j].first
	})

	result := make([]string, 0, min(max, len(entries)))
	for _, e := range entries[:min(max, len(entries))] {
		result = append(result, e.word)
	}
	return result
}
