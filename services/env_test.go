package services

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "# comment\n" +
		"PORT=4000\n" +
		"QUOTED=\"hello world\"\n" +
		"malformed line\n" +
		"SPACED = value \n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	if err := LoadEnv(path); err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}
	defer func() {
		os.Unsetenv("PORT")
		os.Unsetenv("QUOTED")
		os.Unsetenv("SPACED")
	}()

	if got := os.Getenv("PORT"); got != "4000" {
		t.Errorf("PORT = %q, want 4000", got)
	}
	if got := os.Getenv("QUOTED"); got != "hello world" {
		t.Errorf("QUOTED = %q, want \"hello world\"", got)
	}
	if got := os.Getenv("SPACED"); got != "value" {
		t.Errorf("SPACED = %q, want value", got)
	}
}

func TestLoadEnv_MissingFile(t *testing.T) {
	if err := LoadEnv(filepath.Join(t.TempDir(), "nope.env")); err == nil {
		t.Errorf("expected an error for a missing file")
	}
}
