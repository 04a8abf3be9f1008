package allowlist

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadAndContains(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "allow.txt")
	content := "# comment\nNL91ABNA0417164300\n\n4111111111111111\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	a, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if a.Len() != 2 {
		t.Fatalf("expected 2 values, got %d", a.Len())
	}
	if !a.Contains("NL91ABNA0417164300") {
		t.Errorf("expected allowlisted value to be recognized")
	}
	if a.Contains("not-there") {
		t.Errorf("unexpected value marked as allowlisted")
	}
}

func TestLoadMissingFileIsEmpty(t *testing.T) {
	a, err := Load(filepath.Join(t.TempDir(), "missing.txt"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if a.Len() != 0 {
		t.Errorf("expected empty allowlist for missing file")
	}
}
