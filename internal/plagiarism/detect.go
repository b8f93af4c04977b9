// Package plagiarism implements structural code-similarity detection: text
// normalization, structural fingerprinting, k-line shingle hashing, Jaccard
// scoring and matched-segment extraction, plus the batch pipeline that runs
// those comparisons across a drive's submissions.
package plagiarism

// Result is what a single pairwise comparison returns: the Jaccard score in
// [0,1] and the merged line-range segments that caused the match. The
// caller owns it; the engine keeps no state between calls.
type Result struct {
	Score    float64   `json:"similarityScore"`
	Segments []Segment `json:"matchedSegments"`
}

// Detect compares two raw source texts and returns their structural
// similarity with the matched segments. The comparison is total over
// arbitrary text: documents with fewer than ShingleSize normalized lines
// score 0 with no segments. threshold is carried for the caller's
// display-side flagging (score >= threshold) and gates nothing here.
func Detect(sourceA, sourceB string, threshold float64) Result {
	_ = threshold

	linesA := NormalizeSource(sourceA)
	linesB := NormalizeSource(sourceB)

	indexA := BuildShingleIndex(linesA)
	indexB := BuildShingleIndex(linesB)

	score, matched := Score(indexA, indexB)

	return Result{
		Score:    score,
		Segments: BuildSegments(matched, linesA),
	}
}
