package plagiarism

import "sort"

// Segment is a merged range of corresponding normalized lines: Start1..End1
// in document 1 and Start2..End2 in document 2, inclusive, plus the matched
// line texts from document 1. Indices refer to the normalized line
// sequence, not the raw one.
type Segment struct {
	Start1 int      `json:"start1"`
	End1   int      `json:"end1"`
	Start2 int      `json:"start2"`
	End2   int      `json:"end2"`
	Lines  []string `json:"lines"`
}

// BuildSegments expands each matched shingle into raw per-window segments
// (the full cross product of its two position lists) and greedily merges
// segments that touch or overlap in document-1 coordinates.
//
// Document-2 bounds are widened by min/max during a merge and may end up
// spanning lines that are not contiguous in document 2. Overlap is judged
// on document-1 coordinates only; the loose document-2 bounds are an
// accepted trade-off of that rule.
func BuildSegments(matched []MatchedShingle, linesA []string) []Segment {
	raw := make([]Segment, 0, len(matched))
	for _, m := range matched {
		for _, p1 := range m.PositionsA {
			for _, p2 := range m.PositionsB {
				raw = append(raw, Segment{
					Start1: p1,
					End1:   p1 + ShingleSize - 1,
					Start2: p2,
					End2:   p2 + ShingleSize - 1,
					Lines:  append([]string(nil), linesA[p1:p1+ShingleSize]...),
				})
			}
		}
	}
	if len(raw) == 0 {
		return []Segment{}
	}

	sort.Slice(raw, func(i, j int) bool { return raw[i].Start1 < raw[j].Start1 })

	merged := make([]Segment, 0, len(raw))
	current := raw[0]
	for _, next := range raw[1:] {
		if next.Start1 <= current.End1+1 {
			if next.End1 > current.End1 {
				current.End1 = next.End1
			}
			if next.Start2 < current.Start2 {
				current.Start2 = next.Start2
			}
			if next.End2 > current.End2 {
				current.End2 = next.End2
			}
			current.Lines = unionLines(current.Lines, next.Lines)
			continue
		}
		merged = append(merged, current)
		current = next
	}
	return append(merged, current)
}

// unionLines deduplicates the merged segments' line texts, keeping
// first-seen order so callers get stable output.
func unionLines(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, lines := range [][]string{a, b} {
		for _, line := range lines {
			if seen[line] {
				continue
			}
			seen[line] = true
			out = append(out, line)
		}
	}
	return out
}
