package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const recentVideoCount = 4

// channelInfo handles GET /youtube/channel
func (r *Router) channelInfo(c *gin.Context) {
	channelID := c.Query("channel_id")
	if channelID == "" {
		channelID = r.deps.ChannelID
	}
	if channelID == "" {
		respondError(c, NewError(http.StatusBadRequest, "channel_id is required"))
		return
	}

	ctx := c.Request.Context()
	channel, err := r.deps.YouTube.ChannelInfo(ctx, channelID)
	if err != nil {
		respondError(c, err)
		return
	}

	// Recent uploads are decorative; the channel card renders without them
	videos, err := r.deps.YouTube.RecentVideos(ctx, channelID, recentVideoCount)
	if err != nil {
		r.logger.Warn("Recent videos fetch failed",
			zap.String("channel_id", channelID), zap.Error(err))
		videos = nil
	}

	c.JSON(http.StatusOK, gin.H{
		"id":               channel.ID,
		"title":            channel.Title,
		"description":      channel.Description,
		"custom_url":       channel.CustomURL,
		"subscriber_count": channel.SubscriberCount,
		"video_count":      channel.VideoCount,
		"view_count":       channel.ViewCount,
		"thumbnail":        channel.Thumbnail,
		"recent_videos":    videos,
	})
}
