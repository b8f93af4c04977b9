package plagiarism

import (
	"reflect"
	"testing"
)

func TestBuildSegmentsEmptyMatches(t *testing.T) {
	segs := BuildSegments(nil, []string{"a", "b", "c"})
	if segs == nil || len(segs) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", segs)
	}
}

func TestBuildSegmentsSingleMatch(t *testing.T) {
	lines := []string{"l0", "l1", "l2", "l3"}
	matched := []MatchedShingle{
		{Digest: "d", PositionsA: []int{1}, PositionsB: []int{4}},
	}

	segs := BuildSegments(matched, lines)
	want := []Segment{{
		Start1: 1, End1: 3,
		Start2: 4, End2: 6,
		Lines:  []string{"l1", "l2", "l3"},
	}}
	if !reflect.DeepEqual(segs, want) {
		t.Fatalf("segments = %+v, want %+v", segs, want)
	}
}

func TestBuildSegmentsMergesAdjacentWindows(t *testing.T) {
	lines := []string{"l0", "l1", "l2", "l3", "l4"}
	matched := []MatchedShingle{
		{Digest: "d1", PositionsA: []int{0}, PositionsB: []int{2}},
		{Digest: "d2", PositionsA: []int{1}, PositionsB: []int{3}},
	}

	segs := BuildSegments(matched, lines)
	if len(segs) != 1 {
		t.Fatalf("overlapping windows must merge, got %d segments: %+v", len(segs), segs)
	}
	s := segs[0]
	if s.Start1 != 0 || s.End1 != 3 {
		t.Fatalf("doc-1 span = [%d,%d], want [0,3]", s.Start1, s.End1)
	}
	if s.Start2 != 2 || s.End2 != 5 {
		t.Fatalf("doc-2 span = [%d,%d], want [2,5]", s.Start2, s.End2)
	}
	if want := []string{"l0", "l1", "l2", "l3"}; !reflect.DeepEqual(s.Lines, want) {
		t.Fatalf("merged lines = %v, want %v", s.Lines, want)
	}
}

func TestBuildSegmentsKeepsSeparatedWindowsApart(t *testing.T) {
	lines := make([]string, 12)
	for i := range lines {
		lines[i] = "line"
	}
	matched := []MatchedShingle{
		{Digest: "d", PositionsA: []int{0, 8}, PositionsB: []int{0}},
	}

	segs := BuildSegments(matched, lines)
	if len(segs) != 2 {
		t.Fatalf("expected 2 segments for gapped positions, got %d: %+v", len(segs), segs)
	}
	if segs[0].Start1 != 0 || segs[1].Start1 != 8 {
		t.Fatalf("segments out of order: %+v", segs)
	}
}

func TestBuildSegmentsCrossProductExpansion(t *testing.T) {
	lines := make([]string, 10)
	for i := range lines {
		lines[i] = "line"
	}
	// One digest seen once in doc 1 and twice in doc 2 still yields a
	// single doc-1 span; the doc-2 bounds widen to cover both sightings.
	matched := []MatchedShingle{
		{Digest: "d", PositionsA: []int{2}, PositionsB: []int{0, 7}},
	}

	segs := BuildSegments(matched, lines)
	if len(segs) != 1 {
		t.Fatalf("expected 1 merged segment, got %d: %+v", len(segs), segs)
	}
	s := segs[0]
	if s.Start1 != 2 || s.End1 != 4 {
		t.Fatalf("doc-1 span = [%d,%d], want [2,4]", s.Start1, s.End1)
	}
	if s.Start2 != 0 || s.End2 != 9 {
		t.Fatalf("doc-2 span = [%d,%d], want [0,9]", s.Start2, s.End2)
	}
}

func TestBuildSegmentsDeduplicatesLines(t *testing.T) {
	lines := []string{"a", "b", "c", "d"}
	matched := []MatchedShingle{
		{Digest: "d1", PositionsA: []int{0}, PositionsB: []int{0}},
		{Digest: "d2", PositionsA: []int{1}, PositionsB: []int{1}},
	}

	segs := BuildSegments(matched, lines)
	if len(segs) != 1 {
		t.Fatalf("expected merge, got %+v", segs)
	}
	// "b" and "c" appear in both windows but must be listed once, in
	// first-seen order.
	if want := []string{"a", "b", "c", "d"}; !reflect.DeepEqual(segs[0].Lines, want) {
		t.Fatalf("lines = %v, want %v", segs[0].Lines, want)
	}
}
