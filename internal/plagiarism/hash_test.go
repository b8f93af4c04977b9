package plagiarism

import "testing"

func TestHashFingerprintKnownValues(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", "0"},
		{"a", "2p"},   // 97
		{"ab", "2e9"}, // 97*31 + 98 = 3105
	}
	for _, tc := range cases {
		if got := HashFingerprint(tc.in); got != tc.want {
			t.Fatalf("HashFingerprint(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestHashFingerprintDeterministic(t *testing.T) {
	fp := "#COND {\nVAR1 #ASSIGN 0;\n}"
	if HashFingerprint(fp) != HashFingerprint(fp) {
		t.Fatal("same input must produce the same digest")
	}
}

func TestHashFingerprintDistinguishesInputs(t *testing.T) {
	if HashFingerprint("#COND") == HashFingerprint("#LOOP") {
		t.Fatal("expected different digests for different fingerprints")
	}
}

func TestHashFingerprintOverflowWraps(t *testing.T) {
	// Long inputs overflow int32; the digest must still be stable,
	// possibly with a leading minus sign.
	long := ""
	for i := 0; i < 64; i++ {
		long += "#CALL #ASSIGN "
	}
	first := HashFingerprint(long)
	if first == "" {
		t.Fatal("digest must be non-empty")
	}
	if got := HashFingerprint(long); got != first {
		t.Fatalf("overflowing digest not stable: %q vs %q", got, first)
	}
}
