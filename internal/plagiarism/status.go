package plagiarism

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sentrylabs/veritas/internal/infra/redis"
	"github.com/sentrylabs/veritas/internal/models"
)

const statusKeyPrefix = "similarity_report_status:"

// statusTTL keeps stale pipeline status keys from outliving the report they
// describe.
const statusTTL = 12 * time.Hour

// UpdateStatus records the current pipeline step for a drive in Redis so
// the frontend can poll progress.
func UpdateStatus(ctx context.Context, redisClient *redis.Client, driveID string, step models.Step) error {
	validSteps := map[models.Step]bool{
		models.StepIdle:          true,
		models.StepInitiated:     true,
		models.StepStarted:       true,
		models.StepPreprocessing: true,
		models.StepFiltering:     true,
		models.StepDeepAnalysis:  true,
		models.StepCompleted:     true,
	}
	if !validSteps[step] {
		return fmt.Errorf("unknown step: %s", step)
	}

	key := statusKeyPrefix + driveID
	if err := redisClient.Set(ctx, key, string(step), statusTTL).Err(); err != nil {
		log.Error().Err(err).
			Str("step", string(step)).
			Str("driveId", driveID).
			Str("redisKey", key).
			Msg("Failed to update status in Redis")
		return fmt.Errorf("failed to update status in Redis: %w", err)
	}

	log.Trace().
		Str("step", string(step)).
		Str("driveId", driveID).
		Msg("Status updated in Redis")
	return nil
}
