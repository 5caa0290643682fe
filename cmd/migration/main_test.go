package main

import "testing"

func TestParseSteps(t *testing.T) {
	t.Parallel()

	if got, err := parseSteps(nil); err != nil || got != 1 {
		t.Fatalf("default steps got=%d err=%v want=1", got, err)
	}
	if got, err := parseSteps([]string{" 3 "}); err != nil || got != 3 {
		t.Fatalf("explicit steps got=%d err=%v want=3", got, err)
	}
	if _, err := parseSteps([]string{"0"}); err == nil {
		t.Fatalf("expected error for zero steps")
	}
}

func TestParseVersion_RejectsNegative(t *testing.T) {
	t.Parallel()

	if _, err := parseVersion("-1"); err == nil {
		t.Fatalf("expected error for negative version")
	}
	if got, err := parseVersion("1771776034"); err != nil || got != 1771776034 {
		t.Fatalf("unexpected version got=%d err=%v", got, err)
	}
}

func TestNormalizeDBURL_AddsBinaryFlagWhenEnabled(t *testing.T) {
	t.Setenv("EXPORT_DB_DISABLE_PREPARED_BINARY_RESULT", "yes")

	got := normalizeDBURL("postgres://u:p@localhost:5432/tennis_history?sslmode=disable")
	want := "postgres://u:p@localhost:5432/tennis_history?disable_prepared_binary_result=yes&sslmode=disable"
	if got != want {
		t.Fatalf("unexpected url got=%q want=%q", got, want)
	}
}
