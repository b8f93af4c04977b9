package env

import "testing"

func TestGetEnv(t *testing.T) {
	t.Setenv("VERITAS_TEST_STR", "value")

	if got := GetEnv("VERITAS_TEST_STR", "fallback"); got != "value" {
		t.Fatalf("GetEnv = %q, want %q", got, "value")
	}
	if got := GetEnv("VERITAS_TEST_UNSET", "fallback"); got != "fallback" {
		t.Fatalf("GetEnv default = %q, want %q", got, "fallback")
	}
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("VERITAS_TEST_INT", "42")
	t.Setenv("VERITAS_TEST_BAD_INT", "forty-two")

	if got := GetEnvInt("VERITAS_TEST_INT", 7); got != 42 {
		t.Fatalf("GetEnvInt = %d, want 42", got)
	}
	if got := GetEnvInt("VERITAS_TEST_BAD_INT", 7); got != 7 {
		t.Fatalf("GetEnvInt with bad value = %d, want 7", got)
	}
	if got := GetEnvInt("VERITAS_TEST_UNSET", 7); got != 7 {
		t.Fatalf("GetEnvInt default = %d, want 7", got)
	}
}

func TestGetEnvFloat(t *testing.T) {
	t.Setenv("VERITAS_TEST_FLOAT", "0.55")
	t.Setenv("VERITAS_TEST_BAD_FLOAT", "none")

	if got := GetEnvFloat("VERITAS_TEST_FLOAT", 0.1); got != 0.55 {
		t.Fatalf("GetEnvFloat = %v, want 0.55", got)
	}
	if got := GetEnvFloat("VERITAS_TEST_BAD_FLOAT", 0.1); got != 0.1 {
		t.Fatalf("GetEnvFloat with bad value = %v, want 0.1", got)
	}
}
