package plagiarism

import (
	"math"
	"sort"

	"github.com/sentrylabs/veritas/internal/models"
)

// Score bands shared by the batch pipeline and result aggregation.
const (
	// SignificantScore is the pairwise Jaccard score above which a pair
	// counts toward candidate flagging.
	SignificantScore = 0.55

	// NearCopyScore marks pairs that are close to verbatim copies.
	NearCopyScore = 0.70
)

// PairSimilarity is the outcome of one pairwise comparison inside a drive
// computation.
type PairSimilarity struct {
	ArtifactA  *models.Artifact
	ArtifactB  *models.Artifact
	Score      float64
	Segments   []Segment
	QID        string
	Difficulty string
}

// CandidateScore folds a candidate's significant pairs into one score:
// mean of the top K pair scores plus a frequency boost for matching many
// distinct peers.
func CandidateScore(pairs []PairSimilarity) float64 {
	significant := make([]PairSimilarity, 0, len(pairs))
	for _, pair := range pairs {
		if pair.Score >= SignificantScore {
			significant = append(significant, pair)
		}
	}
	if len(significant) == 0 {
		return 0.0
	}

	sort.Slice(significant, func(i, j int) bool {
		return significant[i].Score > significant[j].Score
	})

	k := 3
	if len(significant) < k {
		k = len(significant)
	}
	sum := 0.0
	for _, pair := range significant[:k] {
		sum += pair.Score
	}
	score := sum / float64(k)

	// Frequency boost: matching M distinct peers is worse than matching
	// one peer M times.
	peers := make(map[string]bool)
	for _, pair := range significant {
		peers[pair.ArtifactB.Email] = true
	}
	score += math.Min(0.15, 0.05*float64(len(peers)-1))

	return math.Max(0.0, math.Min(1.0, score))
}

// RiskLevel maps a candidate score to its verdict band.
func RiskLevel(score float64) string {
	switch {
	case score < 0.3:
		return "clean"
	case score < 0.6:
		return "suspicious"
	case score < 0.85:
		return "highly suspicious"
	default:
		return "near copy"
	}
}

// TestRisk scores the drive as a whole from the average pair similarity and
// the share of flagged questions.
func TestRisk(totalQuestions int, avgDifficulty, avgSimilarity float64, flaggedQuestions int) (float64, string) {
	q := float64(totalQuestions)
	if q == 0 {
		return 0.0, "Safe"
	}

	risk := 0.7*avgSimilarity + 0.3*(float64(flaggedQuestions)/q)

	// Fewer, harder questions tolerate more natural overlap before the
	// drive itself looks compromised.
	threshold := 0.70 * (1.0 / math.Sqrt(q)) * (0.5 + avgDifficulty)
	threshold = math.Max(0.35, math.Min(0.85, threshold))
	if risk < threshold*0.5 {
		return risk, "Safe"
	}

	switch {
	case risk < 0.40:
		return risk, "Safe"
	case risk < 0.60:
		return risk, "Moderate"
	case risk < 0.80:
		return risk, "High"
	default:
		return risk, "Critical"
	}
}

// DifficultyWeight maps a difficulty label onto [0,1].
func DifficultyWeight(difficulty string) float64 {
	switch difficulty {
	case "easy":
		return 0.33
	case "medium":
		return 0.66
	case "hard":
		return 1.0
	default:
		return 0.5
	}
}
