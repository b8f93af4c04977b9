package plagiarism

import "strings"

// ShingleSize is the number of consecutive normalized lines per window.
const ShingleSize = 3

// ShingleIndex maps a window digest to the ordered list of window start
// positions that produced it within one document. Positions are indices
// into the normalized line sequence.
type ShingleIndex map[string][]int

// BuildShingleIndex slides a ShingleSize window over the normalized lines,
// fingerprinting and hashing each window. Documents with fewer than
// ShingleSize normalized lines yield an empty index, which downstream
// scoring turns into a similarity of zero.
func BuildShingleIndex(lines []string) ShingleIndex {
	index := make(ShingleIndex)
	if len(lines) < ShingleSize {
		return index
	}

	for i := 0; i+ShingleSize <= len(lines); i++ {
		window := strings.Join(lines[i:i+ShingleSize], "\n")
		digest := HashFingerprint(Fingerprint(window))
		index[digest] = append(index[digest], i)
	}
	return index
}
