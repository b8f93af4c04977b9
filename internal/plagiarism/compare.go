package plagiarism

import (
	"sort"

	"github.com/sentrylabs/veritas/internal/models"
)

// FingerprintMethod names the shingling scheme recorded on artifacts.
const FingerprintMethod = "line-shingle-v1"

// Preprocess runs the engine's normalization and shingle indexing over raw
// source and returns the artifact-ready pieces: the normalized lines and
// the digest entries in window order.
func Preprocess(source string) ([]string, *models.Fingerprints) {
	lines := NormalizeSource(source)
	index := BuildShingleIndex(lines)

	entries := make([]models.ShingleEntry, 0, len(index))
	for digest, positions := range index {
		for _, pos := range positions {
			entries = append(entries, models.ShingleEntry{Hash: digest, Position: pos})
		}
	}
	// Each window position carries exactly one digest, so sorting by
	// position restores window order despite the map iteration.
	sort.Slice(entries, func(i, j int) bool { return entries[i].Position < entries[j].Position })

	return lines, &models.Fingerprints{
		Method:      FingerprintMethod,
		ShingleSize: ShingleSize,
		Hashes:      entries,
	}
}

// IndexFromFingerprints rebuilds a ShingleIndex from the digest entries
// stored on an artifact, so pairwise comparisons skip re-normalizing.
func IndexFromFingerprints(fp *models.Fingerprints) ShingleIndex {
	index := make(ShingleIndex)
	if fp == nil {
		return index
	}
	for _, entry := range fp.Hashes {
		index[entry.Hash] = append(index[entry.Hash], entry.Position)
	}
	return index
}

// CompareArtifacts scores two preprocessed artifacts from their stored
// shingle digests and expands the matches into segments over artifact A's
// normalized lines.
func CompareArtifacts(a, b *models.Artifact) Result {
	indexA := IndexFromFingerprints(a.Fingerprints)
	indexB := IndexFromFingerprints(b.Fingerprints)

	score, matched := Score(indexA, indexB)

	return Result{
		Score:    score,
		Segments: BuildSegments(matched, a.NormalizedLines),
	}
}
