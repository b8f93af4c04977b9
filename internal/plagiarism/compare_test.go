package plagiarism

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sentrylabs/veritas/internal/models"
)

func makeArtifact(email, attemptID, source string) *models.Artifact {
	lines, fp := Preprocess(source)
	return &models.Artifact{
		Email:           email,
		AttemptID:       attemptID,
		NormalizedLines: lines,
		Fingerprints:    fp,
	}
}

func TestPreprocess(t *testing.T) {
	lines, fp := Preprocess("int main() {\nint x = 1;\nreturn x;\n}\n")

	require.NotNil(t, fp)
	assert.Equal(t, FingerprintMethod, fp.Method)
	assert.Equal(t, ShingleSize, fp.ShingleSize)
	assert.Len(t, lines, 4)
	assert.Len(t, fp.Hashes, 2)
}

func TestPreprocessEntriesInWindowOrder(t *testing.T) {
	_, fp := Preprocess("int a = 1;\nint b = 2;\nint c = 3;\nint d = 4;\nint e = 5;\n")

	require.NotNil(t, fp)
	require.Len(t, fp.Hashes, 3)
	for i, entry := range fp.Hashes {
		assert.Equal(t, i, entry.Position)
	}
}

func TestPreprocessShortSource(t *testing.T) {
	lines, fp := Preprocess("int x = 1;\n")

	require.NotNil(t, fp)
	assert.Len(t, lines, 1)
	assert.Empty(t, fp.Hashes)
}

func TestIndexFromFingerprintsRoundTrip(t *testing.T) {
	lines := NormalizeSource("int main() {\nint x = 1;\nint y = 2;\nreturn x + y;\n}\n")
	direct := BuildShingleIndex(lines)

	_, fp := Preprocess("int main() {\nint x = 1;\nint y = 2;\nreturn x + y;\n}\n")
	rebuilt := IndexFromFingerprints(fp)

	assert.Equal(t, len(direct), len(rebuilt))
	for digest, positions := range direct {
		assert.ElementsMatch(t, positions, rebuilt[digest], "digest %s", digest)
	}
}

func TestIndexFromFingerprintsNil(t *testing.T) {
	index := IndexFromFingerprints(nil)
	assert.NotNil(t, index)
	assert.Empty(t, index)
}

func TestCompareArtifactsIdentical(t *testing.T) {
	a := makeArtifact("a@test.com", "att-1", addFunc)
	b := makeArtifact("b@test.com", "att-2", sumFunc)

	res := CompareArtifacts(a, b)
	assert.Equal(t, 1.0, res.Score)
	require.Len(t, res.Segments, 1)
	assert.Equal(t, a.NormalizedLines, res.Segments[0].Lines)
}

func TestCompareArtifactsDisjoint(t *testing.T) {
	a := makeArtifact("a@test.com", "att-1", "int a = 1;\nint b = 2;\nint c = 3;\n")
	b := makeArtifact("b@test.com", "att-2", "while (running) {\npoll();\n}\n")

	res := CompareArtifacts(a, b)
	assert.Equal(t, 0.0, res.Score)
	assert.Empty(t, res.Segments)
}
