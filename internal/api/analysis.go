package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/eun2ce/uha-backend/internal/analysis"
	"github.com/eun2ce/uha-backend/internal/models"
	"github.com/eun2ce/uha-backend/internal/youtube"
)

const (
	maxAnalyzedURLs     = 10
	topCommentsPerVideo = 5
)

type analyzeStreamsRequest struct {
	VideoURLs []string `json:"video_urls" binding:"required"`
}

// analyzeStreams handles POST /youtube-analysis/analyze-streams
func (r *Router) analyzeStreams(c *gin.Context) {
	var req analyzeStreamsRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.VideoURLs) == 0 {
		respondError(c, NewError(http.StatusBadRequest, "video_urls is required"))
		return
	}
	if len(req.VideoURLs) > maxAnalyzedURLs {
		respondError(c, NewError(http.StatusBadRequest,
			fmt.Sprintf("at most %d video urls per request", maxAnalyzedURLs)))
		return
	}

	ctx := c.Request.Context()
	videos := make([]models.VideoAnalysis, 0, len(req.VideoURLs))
	keywordCounts := make(map[string]int)
	keywordFirst := make(map[string]int)
	var totalViews, totalLikes, totalComments int64

	for _, rawURL := range req.VideoURLs {
		videoID := youtube.ExtractVideoID(rawURL)
		if videoID == "" {
			r.logger.Debug("Skipping URL without video ID", zap.String("url", rawURL))
			continue
		}

		video, err := r.deps.YouTube.VideoDetails(ctx, videoID)
		if err != nil {
			r.logger.Warn("Video analysis skipped",
				zap.String("video_id", videoID), zap.Error(err))
			continue
		}

		comments := r.deps.YouTube.Comments(ctx, videoID, 20)
		commentTexts := make([]string, 0, len(comments))
		topComments := make([]models.VideoComment, 0, topCommentsPerVideo)
		for i, comment := range comments {
			commentTexts = append(commentTexts, comment.Text)
			if i < topCommentsPerVideo {
				topComments = append(topComments, models.VideoComment{
					Author:      comment.Author,
					Text:        comment.Text,
					LikeCount:   comment.LikeCount,
					PublishedAt: comment.PublishedAt,
				})
			}
		}

		keywords := analysis.Keywords(video.Snippet.Title+" "+video.Snippet.Description, analysis.DefaultMaxKeywords)
		for _, kw := range keywords {
			if _, seen := keywordCounts[kw]; !seen {
				keywordFirst[kw] = len(keywordFirst)
			}
			keywordCounts[kw]++
		}

		videos = append(videos, models.VideoAnalysis{
			VideoID:           videoID,
			Title:             video.Snippet.Title,
			Description:       video.Snippet.Description,
			Tags:              video.Snippet.Tags,
			ViewCount:         video.Statistics.ViewCount,
			LikeCount:         video.Statistics.LikeCount,
			CommentCount:      video.Statistics.CommentCount,
			Duration:          video.ContentDetails.Duration,
			PublishedAt:       video.Snippet.PublishedAt,
			TopComments:       topComments,
			ExtractedKeywords: keywords,
			SentimentSummary:  analysis.Sentiment(video.Snippet.Title, video.Snippet.Description, commentTexts),
		})
		totalViews += video.Statistics.ViewCount
		totalLikes += video.Statistics.LikeCount
		totalComments += video.Statistics.CommentCount
	}

	summary := ""
	if len(videos) > 0 {
		commonKeywords := topKeywords(keywordCounts, keywordFirst, 15)
		preview := commonKeywords
		if len(preview) > 5 {
			preview = preview[:5]
		}
		summary = fmt.Sprintf("총 %d개의 영상을 분석했습니다. 평균 조회수는 %d회이며, 주요 키워드는 %s입니다.",
			len(videos), totalViews/int64(len(videos)), strings.Join(preview, ", "))
	}

	c.JSON(http.StatusOK, models.DetailedAnalysis{
		Videos:         videos,
		Summary:        summary,
		CommonKeywords: topKeywords(keywordCounts, keywordFirst, 15),
		TotalEngagement: map[string]int64{
			"total_views":    totalViews,
			"total_likes":    totalLikes,
			"total_comments": totalComments,
		},
	})
}

// extractVideoID handles GET /youtube-analysis/video-id/*url
func (r *Router) extractVideoID(c *gin.Context) {
	rawURL := strings.TrimPrefix(c.Param("url"), "/")
	if q := c.Request.URL.RawQuery; q != "" {
		// The video URL carries its own query string (watch?v=...)
		rawURL += "?" + q
	}

	videoID := youtube.ExtractVideoID(rawURL)
	if videoID == "" {
		respondError(c, NewError(http.StatusBadRequest, "no video id found in url"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"video_id": videoID, "url": rawURL})
}
