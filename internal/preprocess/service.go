// Package preprocess turns raw stream submissions into stored artifacts:
// normalized line sequences plus shingle fingerprints, computed in-process
// by the detection engine.
package preprocess

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/sentrylabs/veritas/internal/models"
	"github.com/sentrylabs/veritas/internal/plagiarism"
	"github.com/sentrylabs/veritas/internal/repository"
)

type Service struct {
	artifactsRepo *repository.ArtifactsRepository
}

func NewService(artifactsRepo *repository.ArtifactsRepository) *Service {
	return &Service{artifactsRepo: artifactsRepo}
}

// ProcessSubmission normalizes and fingerprints one submission and persists
// the resulting artifact. Submissions too short to shingle are stored
// anyway; they simply never match anything.
func (s *Service) ProcessSubmission(ctx context.Context, submission *models.Submission) error {
	lines, fingerprints := plagiarism.Preprocess(submission.SourceCode)

	artifact := &models.Artifact{
		Email:           submission.Email,
		AttemptID:       submission.AttemptID,
		TestID:          submission.TestID,
		DriveID:         submission.DriveID,
		Difficulty:      submission.Difficulty,
		SourceCode:      submission.SourceCode,
		QID:             submission.QID,
		Language:        submission.Language,
		LangCode:        submission.LangCode,
		NormalizedLines: lines,
		Fingerprints:    fingerprints,
	}

	if err := s.artifactsRepo.InsertArtifact(ctx, artifact); err != nil {
		return fmt.Errorf("failed to store artifact: %w", err)
	}

	log.Debug().
		Str("attemptId", submission.AttemptID).
		Str("driveId", submission.DriveID).
		Int("normalizedLines", len(lines)).
		Int("shingles", len(fingerprints.Hashes)).
		Msg("Submission preprocessed")
	return nil
}
