package api

import (
	"github.com/gin-gonic/gin"

	"github.com/sentrylabs/veritas/internal/config"
	"github.com/sentrylabs/veritas/internal/infra/redis"
	"github.com/sentrylabs/veritas/internal/notify"
	"github.com/sentrylabs/veritas/internal/plagiarism"
	"github.com/sentrylabs/veritas/internal/repository"
)

func SetupRoutes(
	cfg *config.Config,
	artifactsRepo *repository.ArtifactsRepository,
	resultsRepo *repository.ResultsRepository,
	workerPool *plagiarism.WorkerPool,
	redisClient *redis.Client,
	notifier *notify.Client,
) *gin.Engine {
	router := gin.Default()

	handler := NewHandler(cfg, artifactsRepo, resultsRepo, workerPool, redisClient, notifier)
	rateLimiter := NewRateLimiter(cfg.RateLimitRPS, int(cfg.RateLimitRPS*2))

	router.Use(ErrorHandlerMiddleware())

	// Health endpoint (no auth)
	router.GET("/health", handler.Health)

	// API routes (with auth and rate limiting)
	api := router.Group("/api/v1")
	api.Use(JWTAuthMiddleware(cfg.JWTSecret))
	api.Use(RateLimitMiddleware(rateLimiter))
	{
		api.POST("/detect", handler.Detect)
		api.POST("/compute", handler.Compute)
		api.GET("/report/:driveId", handler.Report)
	}

	return router
}
