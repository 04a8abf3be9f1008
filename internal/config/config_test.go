package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadParsesKeyValueWithExpansion(t *testing.T) {
	t.Setenv("PII_RADAR_TEST_HOME", "/data/pii")
	dir := t.TempDir()
	path := filepath.Join(dir, "piiradar.conf")
	content := "# a comment\nplugin-dir = ${PII_RADAR_TEST_HOME}/plugins\nmax-depth=5\n\nfollow-symlinks = true\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := f.String("plugin-dir", ""); got != "/data/pii/plugins" {
		t.Errorf("plugin-dir = %q, want expanded path", got)
	}
	if got := f.Int("max-depth", -1); got != 5 {
		t.Errorf("max-depth = %d, want 5", got)
	}
	if !f.Bool("follow-symlinks", false) {
		t.Errorf("follow-symlinks = false, want true")
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	f, err := Load(filepath.Join(t.TempDir(), "missing.conf"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := f.String("min-confidence", "low"); got != "low" {
		t.Errorf("String() = %q, want default", got)
	}
}

func TestStringFallsBackToEnvironment(t *testing.T) {
	t.Setenv("PII_RADAR_MIN_CONFIDENCE", "high")
	f, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := f.String("min-confidence", "low"); got != "high" {
		t.Errorf("String() = %q, want env value", got)
	}
}

func TestListSplitsAndTrims(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "piiradar.conf")
	if err := os.WriteFile(path, []byte("countries = NL, DE , FR\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	got := f.List("countries")
	want := []string{"NL", "DE", "FR"}
	if len(got) != len(want) {
		t.Fatalf("List() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("List()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
