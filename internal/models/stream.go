package models

// StreamEntry is a single (date, url) row parsed from the live stream feed document.
type StreamEntry struct {
	Date string `json:"date"`
	URL  string `json:"url"`
}

// StreamRecord is a stream entry enriched with YouTube metadata and analysis.
// VideoID is empty only when no video identifier could be extracted from the
// URL; in that case every optional field stays unset and the record is still
// returned, never dropped.
type StreamRecord struct {
	Date    string `json:"date"`
	URL     string `json:"url"`
	VideoID string `json:"video_id"`

	// YouTube metadata
	Title        string   `json:"title,omitempty"`
	Thumbnail    string   `json:"thumbnail,omitempty"`
	ViewCount    int64    `json:"view_count,omitempty"`
	LikeCount    int64    `json:"like_count,omitempty"`
	CommentCount int64    `json:"comment_count,omitempty"`
	Duration     string   `json:"duration,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	Keywords     []string `json:"keywords,omitempty"`

	// Derived analysis
	AISummary       string   `json:"ai_summary,omitempty"`
	Highlights      []string `json:"highlights,omitempty"`
	Sentiment       string   `json:"sentiment,omitempty"`
	EngagementScore float64  `json:"engagement_score,omitempty"`
	Category        string   `json:"category,omitempty"`
}

// HasMetadata reports whether the YouTube metadata fetch succeeded for this record.
func (r *StreamRecord) HasMetadata() bool {
	return r.Title != ""
}

// PaginatedStreamsRequest is the request body for the paginated streams endpoint.
type PaginatedStreamsRequest struct {
	Year           int  `json:"year" binding:"required"`
	Page           int  `json:"page"`
	PerPage        int  `json:"per_page"`
	IncludeDetails bool `json:"include_details"`
}

// PaginatedStreamsResponse is the response body for the paginated streams endpoint.
type PaginatedStreamsResponse struct {
	Streams      []StreamRecord `json:"streams"`
	TotalStreams int            `json:"total_streams"`
	CurrentPage  int            `json:"current_page"`
	TotalPages   int            `json:"total_pages"`
	PerPage      int            `json:"per_page"`
}

// StreamSummaryRequest is the request body for the year summary endpoint.
type StreamSummaryRequest struct {
	Year                    int    `json:"year" binding:"required"`
	DateFilter              string `json:"date_filter"` // YYYY-MM-DD prefix
	IncludeDetailedAnalysis bool   `json:"include_detailed_analysis"`
	MaxVideosToAnalyze      int    `json:"max_videos_to_analyze"`
}

// StreamSummaryResponse is the response body for the year summary endpoint.
type StreamSummaryResponse struct {
	Entries          []StreamEntry    `json:"entries"`
	Summary          string           `json:"summary"`
	TotalStreams     int              `json:"total_streams"`
	DetailedAnalysis *DetailedAnalysis `json:"detailed_analysis,omitempty"`
	CommonKeywords   []string         `json:"common_keywords,omitempty"`
	EngagementStats  map[string]int64 `json:"engagement_stats,omitempty"`
}

// VideoAnalysis is the per-video result of the aggregate analysis endpoint.
type VideoAnalysis struct {
	VideoID           string         `json:"video_id"`
	Title             string         `json:"title"`
	Description       string         `json:"description"`
	Tags              []string       `json:"tags"`
	ViewCount         int64          `json:"view_count"`
	LikeCount         int64          `json:"like_count"`
	CommentCount      int64          `json:"comment_count"`
	Duration          string         `json:"duration"`
	PublishedAt       string         `json:"published_at"`
	TopComments       []VideoComment `json:"top_comments"`
	ExtractedKeywords []string       `json:"extracted_keywords"`
	SentimentSummary  string         `json:"sentiment_summary"`
}

// VideoComment is a single top-level comment surfaced by the analysis endpoint.
type VideoComment struct {
	Author      string `json:"author"`
	Text        string `json:"text"`
	LikeCount   int64  `json:"like_count"`
	PublishedAt string `json:"published_at"`
}

// DetailedAnalysis aggregates per-video analyses across a batch of URLs.
type DetailedAnalysis struct {
	Videos          []VideoAnalysis  `json:"videos"`
	Summary         string           `json:"summary"`
	CommonKeywords  []string         `json:"common_keywords"`
	TotalEngagement map[string]int64 `json:"total_engagement"`
}
