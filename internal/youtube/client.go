package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/eun2ce/uha-backend/pkg/config"
	"github.com/eun2ce/uha-backend/pkg/logging"
	"github.com/eun2ce/uha-backend/pkg/telemetry"
)

// ErrNotFound is returned when a lookup matches zero items.
var ErrNotFound = errors.New("youtube: not found")

// APIError carries a non-2xx upstream status.
type APIError struct {
	Status int
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("youtube: API returned status %d", e.Status)
}

// Video holds the snippet, statistics and content details of a single video.
type Video struct {
	ID             string
	Snippet        Snippet
	Statistics     Statistics
	ContentDetails ContentDetails
}

// Snippet holds descriptive video metadata.
type Snippet struct {
	Title        string
	Description  string
	PublishedAt  string
	ChannelID    string
	ChannelTitle string
	Tags         []string
	Thumbnails   map[string]Thumbnail
}

// Thumbnail is a single thumbnail variant.
type Thumbnail struct {
	URL string `json:"url"`
}

// Statistics holds numeric video counters.
type Statistics struct {
	ViewCount    int64
	LikeCount    int64
	CommentCount int64
}

// ContentDetails holds the ISO 8601 duration of a video.
type ContentDetails struct {
	Duration string `json:"duration"`
}

// Comment is a single top-level comment.
type Comment struct {
	Author      string
	Text        string
	LikeCount   int64
	PublishedAt string
}

// Channel holds channel metadata and statistics.
type Channel struct {
	ID              string
	Title           string
	Description     string
	CustomURL       string
	SubscriberCount int64
	VideoCount      int64
	ViewCount       int64
	Thumbnail       string
}

// SearchVideo is a single result from the channel search endpoint.
type SearchVideo struct {
	Title        string `json:"title"`
	ThumbnailURL string `json:"thumbnail_url"`
	VideoURL     string `json:"video_url"`
}

// Client wraps the YouTube Data API v3.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// New creates a new YouTube Data API client
func New(cfg *config.YouTubeConfig) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: timeout},
		logger:  logging.GetLogger().With(zap.String("component", "youtube-client")),
	}
}

// VideoDetails fetches snippet, statistics and content details for a video.
// Zero matching items surface as ErrNotFound; non-2xx responses as *APIError.
func (c *Client) VideoDetails(ctx context.Context, videoID string) (*Video, error) {
	ctx, span := telemetry.StartSpan(ctx, "youtube.video_details")
	defer span.End()

	params := url.Values{}
	params.Set("id", videoID)
	params.Set("part", "snippet,statistics,contentDetails")
	params.Set("key", c.apiKey)

	var resp struct {
		Items []struct {
			Snippet struct {
				Title        string               `json:"title"`
				Description  string               `json:"description"`
				PublishedAt  string               `json:"publishedAt"`
				ChannelID    string               `json:"channelId"`
				ChannelTitle string               `json:"channelTitle"`
				Tags         []string             `json:"tags"`
				Thumbnails   map[string]Thumbnail `json:"thumbnails"`
			} `json:"snippet"`
			Statistics struct {
				ViewCount    string `json:"viewCount"`
				LikeCount    string `json:"likeCount"`
				CommentCount string `json:"commentCount"`
			} `json:"statistics"`
			ContentDetails ContentDetails `json:"contentDetails"`
		} `json:"items"`
	}

	if err := c.get(ctx, "/videos", params, &resp); err != nil {
		return nil, err
	}
	if len(resp.Items) == 0 {
		return nil, fmt.Errorf("video %s: %w", videoID, ErrNotFound)
	}

	item := resp.Items[0]
	return &Video{
		ID: videoID,
		Snippet: Snippet{
			Title:        item.Snippet.Title,
			Description:  item.Snippet.Description,
			PublishedAt:  item.Snippet.PublishedAt,
			ChannelID:    item.Snippet.ChannelID,
			ChannelTitle: item.Snippet.ChannelTitle,
			Tags:         item.Snippet.Tags,
			Thumbnails:   item.Snippet.Thumbnails,
		},
		Statistics: Statistics{
			ViewCount:    parseCount(item.Statistics.ViewCount),
			LikeCount:    parseCount(item.Statistics.LikeCount),
			CommentCount: parseCount(item.Statistics.CommentCount),
		},
		ContentDetails: item.ContentDetails,
	}, nil
}

// Comments fetches up to max top-level comments ordered by relevance. Any
// failure, including disabled comments, degrades to an empty slice: comments
// are an enrichment nicety, not a required input.
func (c *Client) Comments(ctx context.Context, videoID string, max int) []Comment {
	ctx, span := telemetry.StartSpan(ctx, "youtube.comments")
	defer span.End()

	if max > 100 {
		max = 100
	}

	params := url.Values{}
	params.Set("videoId", videoID)
	params.Set("part", "snippet")
	params.Set("maxResults", strconv.Itoa(max))
	params.Set("order", "relevance")
	params.Set("key", c.apiKey)

	var resp struct {
		Items []struct {
			Snippet struct {
				TopLevelComment struct {
					Snippet struct {
						AuthorDisplayName string `json:"authorDisplayName"`
						TextDisplay       string `json:"textDisplay"`
						LikeCount         int64  `json:"likeCount"`
						PublishedAt       string `json:"publishedAt"`
					} `json:"snippet"`
				} `json:"topLevelComment"`
			} `json:"snippet"`
		} `json:"items"`
	}

	if err := c.get(ctx, "/commentThreads", params, &resp); err != nil {
		c.logger.Debug("comments unavailable", zap.String("video_id", videoID), zap.Error(err))
		return nil
	}

	comments := make([]Comment, 0, len(resp.Items))
	for _, item := range resp.Items {
		s := item.Snippet.TopLevelComment.Snippet
		comments = append(comments, Comment{
			Author:      s.AuthorDisplayName,
			Text:        s.TextDisplay,
			LikeCount:   s.LikeCount,
			PublishedAt: s.PublishedAt,
		})
	}
	return comments
}

// ChannelInfo fetches channel snippet and statistics.
func (c *Client) ChannelInfo(ctx context.Context, channelID string) (*Channel, error) {
	ctx, span := telemetry.StartSpan(ctx, "youtube.channel_info")
	defer span.End()

	params := url.Values{}
	params.Set("id", channelID)
	params.Set("part", "snippet,statistics")
	params.Set("key", c.apiKey)

	var resp struct {
		Items []struct {
			Snippet struct {
				Title       string               `json:"title"`
				Description string               `json:"description"`
				CustomURL   string               `json:"customUrl"`
				Thumbnails  map[string]Thumbnail `json:"thumbnails"`
			} `json:"snippet"`
			Statistics struct {
				SubscriberCount string `json:"subscriberCount"`
				VideoCount      string `json:"videoCount"`
				ViewCount       string `json:"viewCount"`
			} `json:"statistics"`
		} `json:"items"`
	}

	if err := c.get(ctx, "/channels", params, &resp); err != nil {
		return nil, err
	}
	if len(resp.Items) == 0 {
		return nil, fmt.Errorf("channel %s: %w", channelID, ErrNotFound)
	}

	item := resp.Items[0]
	return &Channel{
		ID:              channelID,
		Title:           item.Snippet.Title,
		Description:     item.Snippet.Description,
		CustomURL:       item.Snippet.CustomURL,
		SubscriberCount: parseCount(item.Statistics.SubscriberCount),
		VideoCount:      parseCount(item.Statistics.VideoCount),
		ViewCount:       parseCount(item.Statistics.ViewCount),
		Thumbnail:       bestThumbnail(item.Snippet.Thumbnails),
	}, nil
}

// RecentVideos fetches the most recent uploads of a channel via search.
func (c *Client) RecentVideos(ctx context.Context, channelID string, max int) ([]SearchVideo, error) {
	ctx, span := telemetry.StartSpan(ctx, "youtube.recent_videos")
	defer span.End()

	params := url.Values{}
	params.Set("channelId", channelID)
	params.Set("order", "date")
	params.Set("part", "snippet")
	params.Set("maxResults", strconv.Itoa(max))
	params.Set("key", c.apiKey)

	var resp struct {
		Items []struct {
			ID struct {
				VideoID string `json:"videoId"`
			} `json:"id"`
			Snippet struct {
				Title      string               `json:"title"`
				Thumbnails map[string]Thumbnail `json:"thumbnails"`
			} `json:"snippet"`
		} `json:"items"`
	}

	if err := c.get(ctx, "/search", params, &resp); err != nil {
		return nil, err
	}

	videos := make([]SearchVideo, 0, len(resp.Items))
	for _, item := range resp.Items {
		videos = append(videos, SearchVideo{
			Title:        item.Snippet.Title,
			ThumbnailURL: bestThumbnail(item.Snippet.Thumbnails),
			VideoURL:     "https://www.youtube.com/watch?v=" + item.ID.VideoID,
		})
	}
	return videos, nil
}

// get performs a single GET request and decodes the JSON response. No retry.
func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &APIError{Status: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}

// parseCount converts the API's string counters to int64, defaulting to 0.
func parseCount(s string) int64 {
	if s == "" {
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// bestThumbnail picks the highest resolution variant available.
func bestThumbnail(thumbnails map[string]Thumbnail) string {
	for _, key := range []string{"maxres", "high", "medium", "default"} {
		if t, ok := thumbnails[key]; ok && t.URL != "" {
			return t.URL
		}
	}
	return ""
}

// BestThumbnail exposes thumbnail selection for callers holding a Video.
func (v *Video) BestThumbnail() string {
	return bestThumbnail(v.Snippet.Thumbnails)
}
