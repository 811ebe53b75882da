package api

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/eun2ce/uha-backend/internal/cache"
	"github.com/eun2ce/uha-backend/internal/cafe"
	"github.com/eun2ce/uha-backend/internal/db"
	"github.com/eun2ce/uha-backend/internal/llm"
	"github.com/eun2ce/uha-backend/internal/stream"
	"github.com/eun2ce/uha-backend/internal/youtube"
	"github.com/eun2ce/uha-backend/pkg/logging"
)

// Deps bundles the services the router exposes over HTTP.
type Deps struct {
	Streams   *stream.Service
	Store     *stream.Store
	Feed      *stream.Feed
	YouTube   *youtube.Client
	Cafe      *cafe.Scraper
	LLM       *llm.Client
	DB        *db.DB
	Cache     *cache.Cache
	ChannelID string
}

// Router sets up API routes
type Router struct {
	deps   Deps
	logger *zap.Logger
}

// NewRouter creates a new API router
func NewRouter(deps Deps) *Router {
	return &Router{
		deps:   deps,
		logger: logging.GetLogger().With(zap.String("component", "api-router")),
	}
}

// SetupRoutes sets up all API routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	engine.Use(cors.Default())

	// Health check endpoints
	engine.GET("/health", r.healthHandler)
	engine.GET("/.well-known/healthcheck.json", r.healthHandler)

	llmGroup := engine.Group("/llm")
	{
		llmGroup.POST("/summarize-live-streams", r.summarizeLiveStreams)
		llmGroup.POST("/streams", r.paginatedStreams)
		llmGroup.POST("/summarize", r.summarizeText)
		llmGroup.GET("/health", r.llmHealth)
		llmGroup.POST("/cache/clear", r.cacheClear)
		llmGroup.GET("/cache/stats", r.cacheStats)
	}

	engine.GET("/youtube/channel", r.channelInfo)

	cafeGroup := engine.Group("/cafe")
	{
		cafeGroup.GET("/profile", r.cafeProfile)
		cafeGroup.GET("/articles/:menuID/:pageID", r.cafeArticles)
	}

	analysisGroup := engine.Group("/youtube-analysis")
	{
		analysisGroup.POST("/analyze-streams", r.analyzeStreams)
		analysisGroup.GET("/video-id/*url", r.extractVideoID)
	}
}

// healthHandler reports service health including backing stores
func (r *Router) healthHandler(c *gin.Context) {
	components := gin.H{}
	status := http.StatusOK

	if r.deps.DB != nil {
		if err := r.deps.DB.Health(c.Request.Context()); err != nil {
			components["database"] = "unavailable"
			status = http.StatusServiceUnavailable
		} else {
			components["database"] = "ok"
		}
	}
	if err := r.deps.Cache.Health(c.Request.Context()); err != nil {
		if errors.Is(err, cache.ErrCacheDisabled) {
			components["redis"] = "disabled"
		} else {
			components["redis"] = "unavailable"
		}
	} else {
		components["redis"] = "ok"
	}

	c.JSON(status, gin.H{
		"status":     statusLabel(status),
		"service":    "uha-backend",
		"components": components,
	})
}

func statusLabel(status int) string {
	if status == http.StatusOK {
		return "OK"
	}
	return "DEGRADED"
}
