package plagiarism

import "github.com/sentrylabs/veritas/internal/models"

// InvertedIndex maps a shingle digest to the attempt IDs that produced it.
// Digests seen by only one candidate carry no pairing signal and are
// dropped at build time.
type InvertedIndex map[string][]string

// BuildInvertedIndex builds the digest -> attemptIDs index over one bucket
// of artifacts, keeping only digests shared by at least two candidates.
func BuildInvertedIndex(artifacts []*models.Artifact) InvertedIndex {
	index := make(InvertedIndex)
	for _, artifact := range artifacts {
		if artifact.Fingerprints == nil {
			continue
		}
		seen := make(map[string]bool)
		for _, entry := range artifact.Fingerprints.Hashes {
			if seen[entry.Hash] {
				continue
			}
			seen[entry.Hash] = true
			index[entry.Hash] = append(index[entry.Hash], artifact.AttemptID)
		}
	}

	filtered := make(InvertedIndex)
	for hash, attemptIDs := range index {
		if len(attemptIDs) >= 2 {
			filtered[hash] = attemptIDs
		}
	}
	return filtered
}

// Pair is a pair of artifacts worth a full comparison.
type Pair struct {
	ArtifactA *models.Artifact
	ArtifactB *models.Artifact
}

// WorthyPairs selects the artifact pairs whose shared-digest overlap clears
// the difficulty threshold. Overlap is shared digests over the smaller
// digest set, a cheap upper-bound filter before the full Jaccard pass.
func WorthyPairs(index InvertedIndex, artifacts []*models.Artifact, difficulty string) []Pair {
	artifactMap := make(map[string]*models.Artifact, len(artifacts))
	for _, artifact := range artifacts {
		artifactMap[artifact.AttemptID] = artifact
	}

	threshold := worthyThreshold(difficulty)
	pairMap := make(map[string]Pair)

	for _, attemptIDs := range index {
		candidates := make([]*models.Artifact, 0, len(attemptIDs))
		for _, attemptID := range attemptIDs {
			if artifact, ok := artifactMap[attemptID]; ok {
				candidates = append(candidates, artifact)
			}
		}

		for i := 0; i < len(candidates); i++ {
			for j := i + 1; j < len(candidates); j++ {
				a, b := candidates[i], candidates[j]
				key := pairKey(a.AttemptID, b.AttemptID)
				if _, exists := pairMap[key]; exists {
					continue
				}
				if digestOverlap(a, b) >= threshold {
					pairMap[key] = Pair{ArtifactA: a, ArtifactB: b}
				}
			}
		}
	}

	pairs := make([]Pair, 0, len(pairMap))
	for _, pair := range pairMap {
		pairs = append(pairs, pair)
	}
	return pairs
}

// digestOverlap computes shared_digests / min(|A|, |B|) over the distinct
// digest sets of two artifacts.
func digestOverlap(a, b *models.Artifact) float64 {
	indexA := IndexFromFingerprints(a.Fingerprints)
	indexB := IndexFromFingerprints(b.Fingerprints)

	if len(indexA) == 0 || len(indexB) == 0 {
		return 0.0
	}

	shared := 0
	for digest := range indexA {
		if _, ok := indexB[digest]; ok {
			shared++
		}
	}

	minTotal := len(indexA)
	if len(indexB) < minTotal {
		minTotal = len(indexB)
	}
	return float64(shared) / float64(minTotal)
}

// worthyThreshold is the minimum prefilter overlap per difficulty. Harder
// questions have more solution variety, so a smaller overlap is already
// suspicious.
func worthyThreshold(difficulty string) float64 {
	switch difficulty {
	case "easy":
		return 0.15
	case "medium":
		return 0.10
	case "hard":
		return 0.05
	default:
		return 0.10
	}
}

// pairKey builds an order-independent key for a pair of attempt IDs.
func pairKey(id1, id2 string) string {
	if id1 < id2 {
		return id1 + ":" + id2
	}
	return id2 + ":" + id1
}
