package plagiarism

import "strconv"

// HashFingerprint maps a fingerprint string to its fixed-width digest: the
// classic multiply-by-31 running hash over the code points, with explicit
// 32-bit signed wraparound, rendered base-36. It buckets shingles for
// equality testing and is not a security primitive; distinct fingerprints
// may collide and colliding shingles are simply treated as equal.
func HashFingerprint(fp string) string {
	var h int32
	for _, r := range fp {
		h = h*31 + int32(r)
	}
	return strconv.FormatInt(int64(h), 36)
}
