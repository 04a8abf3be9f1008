package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/hemlocksec/pii-radar/internal/engine"
	"github.com/hemlocksec/pii-radar/internal/ignore"
)

func TestFileAdapterYieldsPlainTextItems(t *testing.T) {
	dir := t.TempDir()
	content := "BSN 111222333 on file.\nsecond line here."
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	adapter := NewFileAdapter(dir, ignore.Options{}, nil)
	var skipped Skips
	var items []engine.Item
	for it := range adapter.Items(context.Background(), &skipped) {
		items = append(items, it)
	}

	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	text, err := items[0].Text()
	if err != nil {
		t.Fatalf("Text() error = %v", err)
	}
	if text != content {
		t.Errorf("Text() = %q, want %q", text, content)
	}

	loc := items[0].Location()
	if loc.LineForOffset == nil || loc.LineForOffset(len("BSN 111222333 on file.\n")) != 2 {
		t.Errorf("expected LineForOffset to report the second line for the second line's start")
	}
}

func TestFileAdapterHonorsPiiIgnore(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".pii-ignore"), []byte("secrets.txt\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "secrets.txt"), []byte("hidden"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "visible.txt"), []byte("shown"), 0o644); err != nil {
		t.Fatal(err)
	}

	adapter := NewFileAdapter(dir, ignore.Options{}, nil)
	var skipped Skips
	var sources []string
	for it := range adapter.Items(context.Background(), &skipped) {
		sources = append(sources, it.SourceID())
	}

	if len(sources) != 1 || filepath.Base(sources[0]) != "visible.txt" {
		t.Fatalf("expected only visible.txt, got %v", sources)
	}
}
