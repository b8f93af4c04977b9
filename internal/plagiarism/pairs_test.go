package plagiarism

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sentrylabs/veritas/internal/models"
)

const loopSource = "int total = 0;\nfor (int i = 0; i < 10; i++) {\ntotal = total + i;\n}\nreturn total;\n"

func TestBuildInvertedIndexDropsUnsharedDigests(t *testing.T) {
	a := makeArtifact("a@test.com", "att-1", loopSource)
	b := makeArtifact("b@test.com", "att-2", loopSource)
	c := makeArtifact("c@test.com", "att-3", "print(1);\nprint(2);\nprint(3);\nprint(4);\n")

	index := BuildInvertedIndex([]*models.Artifact{a, b, c})

	require.NotEmpty(t, index)
	for digest, attemptIDs := range index {
		assert.GreaterOrEqual(t, len(attemptIDs), 2, "digest %s", digest)
		assert.ElementsMatch(t, []string{"att-1", "att-2"}, attemptIDs)
	}
}

func TestBuildInvertedIndexSkipsMissingFingerprints(t *testing.T) {
	bare := &models.Artifact{Email: "x@test.com", AttemptID: "att-x"}
	index := BuildInvertedIndex([]*models.Artifact{bare, bare})
	assert.Empty(t, index)
}

func TestBuildInvertedIndexCountsEachArtifactOnce(t *testing.T) {
	// Repeated windows inside one artifact must not make a digest look
	// shared.
	repeated := "x = x + 1;\nx = x + 1;\nx = x + 1;\nx = x + 1;\nx = x + 1;\n"
	a := makeArtifact("a@test.com", "att-1", repeated)

	index := BuildInvertedIndex([]*models.Artifact{a})
	assert.Empty(t, index)
}

func TestWorthyPairsSelectsOverlappingArtifacts(t *testing.T) {
	a := makeArtifact("a@test.com", "att-1", loopSource)
	b := makeArtifact("b@test.com", "att-2", loopSource)
	c := makeArtifact("c@test.com", "att-3", "print(1);\nprint(2);\nprint(3);\nprint(4);\n")
	artifacts := []*models.Artifact{a, b, c}

	pairs := WorthyPairs(BuildInvertedIndex(artifacts), artifacts, "medium")

	require.Len(t, pairs, 1)
	got := []string{pairs[0].ArtifactA.AttemptID, pairs[0].ArtifactB.AttemptID}
	assert.ElementsMatch(t, []string{"att-1", "att-2"}, got)
}

func TestWorthyPairsEmptyIndex(t *testing.T) {
	a := makeArtifact("a@test.com", "att-1", loopSource)
	pairs := WorthyPairs(InvertedIndex{}, []*models.Artifact{a}, "easy")
	assert.Empty(t, pairs)
}

func TestWorthyThresholdPerDifficulty(t *testing.T) {
	assert.Equal(t, 0.15, worthyThreshold("easy"))
	assert.Equal(t, 0.10, worthyThreshold("medium"))
	assert.Equal(t, 0.05, worthyThreshold("hard"))
	assert.Equal(t, 0.10, worthyThreshold("unknown"))
}

func TestPairKeyOrderIndependent(t *testing.T) {
	assert.Equal(t, pairKey("b", "a"), pairKey("a", "b"))
	assert.NotEqual(t, pairKey("a", "b"), pairKey("a", "c"))
}

func TestDigestOverlapBounds(t *testing.T) {
	a := makeArtifact("a@test.com", "att-1", loopSource)
	b := makeArtifact("b@test.com", "att-2", loopSource)

	assert.Equal(t, 1.0, digestOverlap(a, b))

	empty := &models.Artifact{AttemptID: "att-e", Fingerprints: &models.Fingerprints{}}
	assert.Equal(t, 0.0, digestOverlap(a, empty))
}
