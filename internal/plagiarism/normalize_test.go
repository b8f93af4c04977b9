package plagiarism

import (
	"reflect"
	"testing"
)

func TestNormalizeSourceStripsLineComments(t *testing.T) {
	src := "int total = 5; // starting value\n// whole line comment\ntotal = total;\n"
	got := NormalizeSource(src)

	want := []string{
		"int VAR1 = 5;",
		"VAR1 = VAR1;",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("normalized = %q, want %q", got, want)
	}
}

func TestNormalizeSourceStripsBlockComments(t *testing.T) {
	src := "int x = 1;\n/* spans\nseveral\nlines */ int y = 2;\nint z = /* inline */ 3;\n"
	got := NormalizeSource(src)

	want := []string{
		"int VAR1 = 1;",
		"int VAR2 = 2;",
		"int VAR3 = 3;",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("normalized = %q, want %q", got, want)
	}
}

func TestNormalizeSourceUnterminatedBlockComment(t *testing.T) {
	src := "int a = 1; /* never closed\nstill inside\nmore inside\n"
	got := NormalizeSource(src)

	want := []string{"int VAR1 = 1;"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("normalized = %q, want %q", got, want)
	}
}

func TestNormalizeSourceCollapsesWhitespaceAndDropsBlanks(t *testing.T) {
	src := "  int \t  result   =  0;  \n\n   \n}\n"
	got := NormalizeSource(src)

	want := []string{"int VAR1 = 0;", "}"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("normalized = %q, want %q", got, want)
	}
}

func TestNormalizeSourceKeywordsPassThrough(t *testing.T) {
	src := "for (int i = 0; i < n; i++) {\nreturn i;\n}\n"
	got := NormalizeSource(src)

	want := []string{
		"for (int VAR1 = 0; VAR1 < VAR2; VAR1++) {",
		"return VAR1;",
		"}",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("normalized = %q, want %q", got, want)
	}
}

func TestNormalizeSourcePlaceholdersMonotonicAcrossLines(t *testing.T) {
	// The counter advances for the whole document, never resetting per
	// line: a fresh identifier on line 3 gets the next number, not VAR1.
	src := "alpha;\nbeta;\ngamma alpha;\n"
	got := NormalizeSource(src)

	want := []string{"VAR1;", "VAR2;", "VAR3 VAR1;"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("normalized = %q, want %q", got, want)
	}
}

func TestNormalizeSourceNoStateLeaksBetweenDocuments(t *testing.T) {
	first := NormalizeSource("alpha;\nbeta;\n")
	second := NormalizeSource("gamma;\ndelta;\n")

	if first[0] != "VAR1;" || second[0] != "VAR1;" {
		t.Fatalf("each pass must start numbering at VAR1, got %q and %q", first[0], second[0])
	}
}

func TestNormalizeSourceNumericLiteralsUntouched(t *testing.T) {
	got := NormalizeSource("value = 42 + 0x1f;\n")
	want := []string{"VAR1 = 42 + 0x1f;"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("normalized = %q, want %q", got, want)
	}
}

func TestNormalizeSourceEmptyInput(t *testing.T) {
	if got := NormalizeSource(""); len(got) != 0 {
		t.Fatalf("expected no lines for empty input, got %q", got)
	}
	if got := NormalizeSource("// only a comment\n/* and a block */\n"); len(got) != 0 {
		t.Fatalf("expected no lines for comment-only input, got %q", got)
	}
}
