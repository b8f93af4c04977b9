package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/sentrylabs/veritas/internal/config"
	"github.com/sentrylabs/veritas/internal/infra/redis"
	"github.com/sentrylabs/veritas/internal/metrics"
	"github.com/sentrylabs/veritas/internal/models"
	"github.com/sentrylabs/veritas/internal/notify"
	"github.com/sentrylabs/veritas/internal/plagiarism"
	"github.com/sentrylabs/veritas/internal/repository"
)

// DetectRequest carries one source pair for synchronous comparison.
// Threshold is optional; the configured default applies when omitted.
type DetectRequest struct {
	SourceA   string   `json:"sourceA" binding:"required"`
	SourceB   string   `json:"sourceB" binding:"required"`
	Threshold *float64 `json:"threshold"`
}

// DetectResponse is the synchronous comparison result. Segment indices
// refer to the normalized line sequences, which the caller must reconcile
// with the raw text it retains for display.
type DetectResponse struct {
	SimilarityScore float64              `json:"similarityScore"`
	MatchedSegments []plagiarism.Segment `json:"matchedSegments"`
	Threshold       float64              `json:"threshold"`
	Flagged         bool                 `json:"flagged"`
}

// Handler holds dependencies for the HTTP handlers.
type Handler struct {
	cfg            *config.Config
	artifactsRepo  *repository.ArtifactsRepository
	resultsRepo    *repository.ResultsRepository
	workerPool     *plagiarism.WorkerPool
	redisClient    *redis.Client
	notifier       *notify.Client
	computeSem     chan struct{} // bounds concurrent drive computations
	computeTimeout time.Duration
}

func NewHandler(
	cfg *config.Config,
	artifactsRepo *repository.ArtifactsRepository,
	resultsRepo *repository.ResultsRepository,
	workerPool *plagiarism.WorkerPool,
	redisClient *redis.Client,
	notifier *notify.Client,
) *Handler {
	return &Handler{
		cfg:            cfg,
		artifactsRepo:  artifactsRepo,
		resultsRepo:    resultsRepo,
		workerPool:     workerPool,
		redisClient:    redisClient,
		notifier:       notifier,
		computeSem:     make(chan struct{}, cfg.MaxConcurrentCompute),
		computeTimeout: cfg.ComputationTimeout,
	}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// Detect compares two source texts synchronously. The engine is total over
// arbitrary text, so the only rejections are size limits and malformed
// bodies; sources too short to shingle score 0 with no segments.
func (h *Handler) Detect(c *gin.Context) {
	var req DetectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	if len(req.SourceA) > h.cfg.MaxSourceBytes || len(req.SourceB) > h.cfg.MaxSourceBytes {
		c.JSON(http.StatusRequestEntityTooLarge, models.ErrorResponse{
			Error: fmt.Sprintf("source exceeds %d bytes", h.cfg.MaxSourceBytes),
			Code:  "SOURCE_TOO_LARGE",
		})
		return
	}

	threshold := h.cfg.DefaultThreshold
	if req.Threshold != nil {
		if *req.Threshold < 0 || *req.Threshold > 1 {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error: "threshold must be in [0,1]",
				Code:  "INVALID_THRESHOLD",
			})
			return
		}
		threshold = *req.Threshold
	}

	start := time.Now()
	result := plagiarism.Detect(req.SourceA, req.SourceB, threshold)
	metrics.DetectionDuration.Observe(time.Since(start).Seconds())
	metrics.DetectionsTotal.WithLabelValues("ok").Inc()

	c.JSON(http.StatusOK, DetectResponse{
		SimilarityScore: result.Score,
		MatchedSegments: result.Segments,
		Threshold:       threshold,
		Flagged:         result.Score >= threshold,
	})
}

// Compute kicks off an asynchronous drive-wide computation and returns 202.
func (h *Handler) Compute(c *gin.Context) {
	var req models.ComputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	ctx := c.Request.Context()
	count, err := h.artifactsRepo.CountArtifactsByDriveID(ctx, req.DriveID)
	if err != nil {
		log.Error().Err(err).Str("driveId", req.DriveID).Msg("Failed to check artifacts")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: "Failed to check artifacts",
			Code:  "INTERNAL_ERROR",
		})
		return
	}
	if count == 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: "No artifacts found for driveId",
			Code:  "DRIVE_ID_NOT_FOUND",
		})
		return
	}

	select {
	case h.computeSem <- struct{}{}:
	case <-ctx.Done():
		c.JSON(http.StatusRequestTimeout, models.ErrorResponse{
			Error: "Request cancelled",
			Code:  "REQUEST_TIMEOUT",
		})
		return
	}

	if err := plagiarism.UpdateStatus(ctx, h.redisClient, req.DriveID, models.StepInitiated); err != nil {
		log.Warn().Err(err).Str("driveId", req.DriveID).Msg("Failed to update initiated status")
	}

	c.JSON(http.StatusAccepted, models.ComputeResponse{
		Step:   models.StepInitiated,
		TestID: req.DriveID,
	})

	go h.processComputation(req.DriveID)
}

// Report returns the latest drive report with its candidate verdicts.
func (h *Handler) Report(c *gin.Context) {
	driveID := c.Param("driveId")
	ctx := c.Request.Context()

	report, err := h.resultsRepo.GetLatestReportByDriveID(ctx, driveID)
	if err != nil {
		log.Error().Err(err).Str("driveId", driveID).Msg("Failed to load report")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: "Failed to load report",
			Code:  "INTERNAL_ERROR",
		})
		return
	}
	if report == nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: "No report found for driveId",
			Code:  "REPORT_NOT_FOUND",
		})
		return
	}

	candidates, err := h.resultsRepo.GetCandidateResultsByDriveID(ctx, driveID)
	if err != nil {
		log.Error().Err(err).Str("driveId", driveID).Msg("Failed to load candidate results")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: "Failed to load candidate results",
			Code:  "INTERNAL_ERROR",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"report":     report,
		"candidates": candidates,
	})
}

// processComputation runs one drive computation in the background.
func (h *Handler) processComputation(driveID string) {
	defer func() { <-h.computeSem }()

	ctx, cancel := context.WithTimeout(context.Background(), h.computeTimeout)
	defer cancel()

	pending := &models.TestReport{
		DriveID:          driveID,
		Status:           "pending",
		FlaggedQuestions: []string{},
	}
	if err := h.resultsRepo.UpdateTestReportByDriveID(ctx, driveID, pending); err != nil {
		log.Error().Err(err).Str("driveId", driveID).Msg("Failed to create pending report")
	}

	start := time.Now()
	err := plagiarism.ComputeDrive(
		ctx,
		driveID,
		h.artifactsRepo,
		h.resultsRepo,
		h.workerPool,
		h.redisClient,
		h.cfg.BatchSize,
	)
	metrics.ComputationDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.ComputationsTotal.WithLabelValues("failed").Inc()
		log.Error().Err(err).Str("driveId", driveID).Msg("Computation failed")
		h.markFailed(ctx, driveID)
		return
	}

	metrics.ComputationsTotal.WithLabelValues("ok").Inc()
	h.notifyCompletion(ctx, driveID)
}

func (h *Handler) markFailed(ctx context.Context, driveID string) {
	failed := &models.TestReport{
		DriveID:          driveID,
		Status:           "failed",
		FlaggedQuestions: []string{},
	}
	if err := h.resultsRepo.UpdateTestReportByDriveID(ctx, driveID, failed); err != nil {
		log.Error().Err(err).Str("driveId", driveID).Msg("Failed to update failed report")
	}
}

func (h *Handler) notifyCompletion(ctx context.Context, driveID string) {
	if !h.notifier.Enabled() {
		return
	}

	report, err := h.resultsRepo.GetLatestReportByDriveID(ctx, driveID)
	if err != nil || report == nil {
		log.Warn().Err(err).Str("driveId", driveID).Msg("Skipping webhook, report unavailable")
		return
	}
	if err := h.notifier.NotifyReport(ctx, report); err != nil {
		log.Warn().Err(err).Str("driveId", driveID).Msg("Failed to deliver report webhook")
	}
}
