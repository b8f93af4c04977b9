package plagiarism

// MatchedShingle is a digest present in both documents' indices, with the
// window positions it occupies on each side.
type MatchedShingle struct {
	Digest     string
	PositionsA []int
	PositionsB []int
}

// Score computes Jaccard similarity over the distinct shingle digests of
// two indices: |A∩B| / |A∪B|, defined as 0 when the union is empty.
// Internal repeats of a shingle within one document count once; the
// position lists ride along on each match for segment expansion.
func Score(indexA, indexB ShingleIndex) (float64, []MatchedShingle) {
	union := make(map[string]bool, len(indexA)+len(indexB))
	for digest := range indexA {
		union[digest] = true
	}
	for digest := range indexB {
		union[digest] = true
	}
	if len(union) == 0 {
		return 0.0, nil
	}

	matched := make([]MatchedShingle, 0)
	for digest, positionsA := range indexA {
		positionsB, ok := indexB[digest]
		if !ok {
			continue
		}
		matched = append(matched, MatchedShingle{
			Digest:     digest,
			PositionsA: positionsA,
			PositionsB: positionsB,
		})
	}

	return float64(len(matched)) / float64(len(union)), matched
}
