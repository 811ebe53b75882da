package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/eun2ce/uha-backend/internal/api"
	"github.com/eun2ce/uha-backend/internal/cache"
	"github.com/eun2ce/uha-backend/internal/cafe"
	"github.com/eun2ce/uha-backend/internal/db"
	"github.com/eun2ce/uha-backend/internal/llm"
	"github.com/eun2ce/uha-backend/internal/models"
	"github.com/eun2ce/uha-backend/internal/stream"
	"github.com/eun2ce/uha-backend/internal/youtube"
	"github.com/eun2ce/uha-backend/pkg/config"
	"github.com/eun2ce/uha-backend/pkg/logging"
	"github.com/eun2ce/uha-backend/pkg/telemetry"
)

// cacheSweepInterval controls how often stale cache rows are evicted.
const cacheSweepInterval = 6 * time.Hour

// cacheRetention is how long unread cache rows survive before eviction.
const cacheRetention = 48 * time.Hour

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logging.InitLogger(&cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logging.GetLogger().Sync()

	logger := logging.GetLogger()
	logger.Info("Starting uha backend server")

	// Initialize telemetry
	telemetryShutdown, err := telemetry.Init(&cfg.Telemetry)
	if err != nil {
		logger.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer telemetryShutdown()

	// Database
	database, err := db.New(&cfg.Database, cfg.Logging.Level)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	if err := database.AutoMigrate(&models.StreamCache{}); err != nil {
		logger.Fatal("Failed to migrate schema", zap.Error(err))
	}

	// Redis (optional; nil cache degrades to the durable tier)
	redisCache, err := cache.New(&cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisCache.Close()

	// Upstream clients
	youtubeClient := youtube.New(&cfg.YouTube)
	llmClient := llm.New(&cfg.LLM)
	cafeScraper := cafe.New(&cfg.Cafe)
	feed := stream.NewFeed(&cfg.Feed)

	// Enrichment pipeline
	repo := db.NewStreamCacheRepository(db.NewRepository(database.DB))
	store := stream.NewStore(redisCache, repo, time.Duration(cfg.Stream.CacheTTLHours)*time.Hour)
	streamService := stream.NewService(feed, youtubeClient, llmClient, store, &cfg.Stream)

	// Background cache sweeper
	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()
	go runSweeper(sweepCtx, store, logger)

	// Create Gin router
	if cfg.Logging.Level == "DEBUG" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	apiRouter := api.NewRouter(api.Deps{
		Streams:   streamService,
		Store:     store,
		Feed:      feed,
		YouTube:   youtubeClient,
		Cafe:      cafeScraper,
		LLM:       llmClient,
		DB:        database,
		Cache:     redisCache,
		ChannelID: cfg.YouTube.ChannelID,
	})
	apiRouter.SetupRoutes(router)

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Server starting", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

// runSweeper periodically evicts cache rows that have not been read recently.
func runSweeper(ctx context.Context, store *stream.Store, logger *zap.Logger) {
	ticker := time.NewTicker(cacheSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := store.Sweep(ctx, cacheRetention)
			if err != nil {
				logger.Warn("Cache sweep failed", zap.Error(err))
				continue
			}
			if removed > 0 {
				logger.Info("Cache sweep completed", zap.Int64("removed", removed))
			}
		}
	}
}
