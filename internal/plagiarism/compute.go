package plagiarism

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/sentrylabs/veritas/internal/infra/redis"
	"github.com/sentrylabs/veritas/internal/models"
	"github.com/sentrylabs/veritas/internal/repository"
)

// ComputationJob compares one artifact pair on the worker pool.
type ComputationJob struct {
	Pair       Pair
	Difficulty string
	QID        string
	ResultChan chan<- PairSimilarity
	DoneChan   chan<- struct{}
}

// Execute runs the engine comparison and publishes the result.
func (j *ComputationJob) Execute(ctx context.Context) error {
	defer func() {
		select {
		case j.DoneChan <- struct{}{}:
		default:
		}
	}()

	result := CompareArtifacts(j.Pair.ArtifactA, j.Pair.ArtifactB)

	similarity := PairSimilarity{
		ArtifactA:  j.Pair.ArtifactA,
		ArtifactB:  j.Pair.ArtifactB,
		Score:      result.Score,
		Segments:   result.Segments,
		QID:        j.QID,
		Difficulty: j.Difficulty,
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case j.ResultChan <- similarity:
		return nil
	}
}

// ComputeDrive runs the full pipeline for one drive: load artifacts, bucket
// them by question and language, prefilter candidate pairs on shared
// digests, score the survivors pairwise on the worker pool and aggregate
// per-candidate and per-drive reports.
func ComputeDrive(
	ctx context.Context,
	driveID string,
	artifactsRepo *repository.ArtifactsRepository,
	resultsRepo *repository.ResultsRepository,
	workerPool *WorkerPool,
	redisClient *redis.Client,
	batchSize int,
) error {
	if err := UpdateStatus(ctx, redisClient, driveID, models.StepStarted); err != nil {
		log.Warn().Err(err).Str("driveId", driveID).Msg("Failed to update started status")
	}

	artifacts, err := artifactsRepo.GetArtifactsByDriveID(ctx, driveID)
	if err != nil {
		log.Error().Err(err).Str("driveId", driveID).Msg("Failed to load artifacts")
		return fmt.Errorf("failed to load artifacts: %w", err)
	}
	if len(artifacts) == 0 {
		return fmt.Errorf("no artifacts found for driveId: %s", driveID)
	}

	uniqueCandidates := make(map[string]bool)
	for _, artifact := range artifacts {
		uniqueCandidates[artifact.Email] = true
	}
	if len(uniqueCandidates) == 1 {
		return finishCleanDrive(ctx, []*models.Artifact{artifacts[0]}, resultsRepo, redisClient, driveID, len(artifacts))
	}

	if err := UpdateStatus(ctx, redisClient, driveID, models.StepFiltering); err != nil {
		log.Warn().Err(err).Str("driveId", driveID).Msg("Failed to update filtering status")
	}

	buckets := groupByQuestionAndLanguage(artifacts)

	allPairs := make([]PairSimilarity, 0)
	candidatePairs := make(map[string][]PairSimilarity) // email -> pairs

	deepAnalysisStarted := false
	for qID, langBuckets := range buckets {
		for language, bucketArtifacts := range langBuckets {
			if len(bucketArtifacts) < 2 {
				continue
			}

			index := BuildInvertedIndex(bucketArtifacts)
			if len(index) == 0 {
				log.Info().
					Str("qId", qID).
					Str("language", language).
					Msg("No shared digests in bucket")
				continue
			}

			difficulty := bucketArtifacts[0].Difficulty
			worthy := WorthyPairs(index, bucketArtifacts, difficulty)
			if len(worthy) == 0 {
				log.Info().
					Str("qId", qID).
					Str("language", language).
					Msg("No worthy pairs after overlap prefilter")
				continue
			}

			if !deepAnalysisStarted {
				deepAnalysisStarted = true
				if err := UpdateStatus(ctx, redisClient, driveID, models.StepDeepAnalysis); err != nil {
					log.Warn().Err(err).Str("driveId", driveID).Msg("Failed to update deep analysis status")
				}
			}

			similarities := comparePairs(ctx, worthy, difficulty, qID, workerPool, batchSize)

			for _, ps := range similarities {
				if ps.Score < SignificantScore {
					continue
				}
				allPairs = append(allPairs, ps)
				candidatePairs[ps.ArtifactA.Email] = append(candidatePairs[ps.ArtifactA.Email], ps)
				candidatePairs[ps.ArtifactB.Email] = append(candidatePairs[ps.ArtifactB.Email], ps)
			}
		}
	}

	if len(allPairs) == 0 {
		return finishCleanDrive(ctx, dedupeByEmail(artifacts), resultsRepo, redisClient, driveID, len(artifacts))
	}

	return aggregateResults(ctx, artifacts, allPairs, candidatePairs, resultsRepo, redisClient, driveID)
}

// comparePairs submits pairs to the worker pool in batches and collects the
// comparison results, deduplicating on pair identity.
func comparePairs(
	ctx context.Context,
	pairs []Pair,
	difficulty string,
	qID string,
	workerPool *WorkerPool,
	batchSize int,
) []PairSimilarity {
	if batchSize <= 0 {
		batchSize = len(pairs)
	}

	resultChan := make(chan PairSimilarity, len(pairs))
	doneChan := make(chan struct{}, len(pairs))
	results := make(map[string]PairSimilarity, len(pairs))

	for start := 0; start < len(pairs); start += batchSize {
		end := start + batchSize
		if end > len(pairs) {
			end = len(pairs)
		}

		for _, pair := range pairs[start:end] {
			job := &ComputationJob{
				Pair:       pair,
				Difficulty: difficulty,
				QID:        qID,
				ResultChan: resultChan,
				DoneChan:   doneChan,
			}
			if err := workerPool.Submit(job); err != nil {
				log.Error().Err(err).Msg("Failed to submit comparison job")
			}
		}
	}

	for len(results) < len(pairs) {
		select {
		case <-ctx.Done():
			return collectResults(results)
		case result := <-resultChan:
			key := pairKey(result.ArtifactA.AttemptID, result.ArtifactB.AttemptID)
			results[key] = result
		case <-doneChan:
			// Job finished; keep draining results.
		}
	}

	return collectResults(results)
}

func collectResults(results map[string]PairSimilarity) []PairSimilarity {
	out := make([]PairSimilarity, 0, len(results))
	for _, result := range results {
		out = append(out, result)
	}
	return out
}

// groupByQuestionAndLanguage buckets artifacts so only same-question,
// same-language submissions are ever compared.
func groupByQuestionAndLanguage(artifacts []*models.Artifact) map[string]map[string][]*models.Artifact {
	buckets := make(map[string]map[string][]*models.Artifact)
	for _, artifact := range artifacts {
		qID := strconv.FormatInt(artifact.QID, 10)
		if buckets[qID] == nil {
			buckets[qID] = make(map[string][]*models.Artifact)
		}
		buckets[qID][artifact.Language] = append(buckets[qID][artifact.Language], artifact)
	}
	return buckets
}

func dedupeByEmail(artifacts []*models.Artifact) []*models.Artifact {
	seen := make(map[string]bool, len(artifacts))
	unique := make([]*models.Artifact, 0, len(artifacts))
	for _, artifact := range artifacts {
		if seen[artifact.Email] {
			continue
		}
		seen[artifact.Email] = true
		unique = append(unique, artifact)
	}
	return unique
}

// finishCleanDrive writes clean results for every candidate and a Safe test
// report. Used for single-candidate drives and drives with no significant
// pairs.
func finishCleanDrive(
	ctx context.Context,
	candidates []*models.Artifact,
	resultsRepo *repository.ResultsRepository,
	redisClient *redis.Client,
	driveID string,
	totalAnalyzed int,
) error {
	for _, artifact := range candidates {
		result := &models.CandidateResult{
			Email:            artifact.Email,
			AttemptID:        artifact.AttemptID,
			DriveID:          driveID,
			Risk:             "clean",
			FlaggedQuestions: []string{},
			PlagiarismPeers:  make(map[string][]string),
			Status:           "completed",
		}
		if err := resultsRepo.InsertCandidateResult(ctx, result); err != nil {
			return fmt.Errorf("failed to insert candidate result: %w", err)
		}
	}

	report := &models.TestReport{
		DriveID:          driveID,
		Risk:             "Safe",
		Status:           "completed",
		FlaggedQuestions: []string{},
		TotalAnalyzed:    totalAnalyzed,
	}
	if err := resultsRepo.UpdateTestReportByDriveID(ctx, driveID, report); err != nil {
		return fmt.Errorf("failed to update test report: %w", err)
	}

	if err := UpdateStatus(ctx, redisClient, driveID, models.StepCompleted); err != nil {
		log.Warn().Err(err).Str("driveId", driveID).Msg("Failed to update completed status")
	}

	log.Info().
		Str("driveId", driveID).
		Int("candidates", len(candidates)).
		Msg("Drive completed with no significant pairs")
	return nil
}

// aggregateResults folds the significant pairs into per-candidate verdicts
// and the drive-level report.
func aggregateResults(
	ctx context.Context,
	artifacts []*models.Artifact,
	allPairs []PairSimilarity,
	candidatePairs map[string][]PairSimilarity,
	resultsRepo *repository.ResultsRepository,
	redisClient *redis.Client,
	driveID string,
) error {
	uniqueCandidates := dedupeByEmail(artifacts)

	flaggedQuestions := make(map[string]bool)
	flaggedCandidates := 0

	for _, artifact := range uniqueCandidates {
		pairs := candidatePairs[artifact.Email]

		result := &models.CandidateResult{
			Email:            artifact.Email,
			AttemptID:        artifact.AttemptID,
			DriveID:          driveID,
			Risk:             "clean",
			FlaggedQuestions: []string{},
			PlagiarismPeers:  make(map[string][]string),
			Status:           "completed",
		}

		if len(pairs) > 0 {
			score := CandidateScore(pairs)
			result.Risk = RiskLevel(score)

			qSet := make(map[string]bool)
			for _, pair := range pairs {
				qSet[pair.QID] = true
				flaggedQuestions[pair.QID] = true

				peer := pair.ArtifactB.AttemptID
				if pair.ArtifactB.Email == artifact.Email {
					peer = pair.ArtifactA.AttemptID
				}
				result.PlagiarismPeers[pair.QID] = append(result.PlagiarismPeers[pair.QID], peer)

				if pair.Score >= SignificantScore {
					result.SimilarPairs++
				}
				if pair.Score >= NearCopyScore {
					result.NearCopyPairs++
				}
			}
			for qID := range qSet {
				result.FlaggedQuestions = append(result.FlaggedQuestions, qID)
			}
			if result.Risk != "clean" {
				flaggedCandidates++
			}
		}

		if err := resultsRepo.InsertCandidateResult(ctx, result); err != nil {
			return fmt.Errorf("failed to insert candidate result: %w", err)
		}
	}

	avgDifficulty := 0.0
	for _, artifact := range artifacts {
		avgDifficulty += DifficultyWeight(artifact.Difficulty)
	}
	avgDifficulty /= float64(len(artifacts))

	avgSimilarity := 0.0
	for _, pair := range allPairs {
		avgSimilarity += pair.Score
	}
	avgSimilarity /= float64(len(allPairs))

	flaggedList := make([]string, 0, len(flaggedQuestions))
	for qID := range flaggedQuestions {
		flaggedList = append(flaggedList, qID)
	}

	totalQuestions := len(groupByQuestionAndLanguage(artifacts))
	_, riskLevel := TestRisk(totalQuestions, avgDifficulty, avgSimilarity, len(flaggedList))

	report := &models.TestReport{
		DriveID:           driveID,
		Risk:              riskLevel,
		Status:            "completed",
		FlaggedQuestions:  flaggedList,
		FlaggedCandidates: flaggedCandidates,
		TotalAnalyzed:     len(artifacts),
	}
	if err := resultsRepo.UpdateTestReportByDriveID(ctx, driveID, report); err != nil {
		return fmt.Errorf("failed to update test report: %w", err)
	}

	if err := UpdateStatus(ctx, redisClient, driveID, models.StepCompleted); err != nil {
		log.Warn().Err(err).Str("driveId", driveID).Msg("Failed to update completed status")
	}

	log.Info().
		Str("driveId", driveID).
		Int("candidates", len(uniqueCandidates)).
		Int("flagged", flaggedCandidates).
		Str("testRisk", riskLevel).
		Msg("Drive computation completed")
	return nil
}
