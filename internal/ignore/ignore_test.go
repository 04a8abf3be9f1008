package ignore

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestWalkHonorsPiiIgnore(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".pii-ignore"), "secrets/\n*.log\n")
	writeFile(t, filepath.Join(root, "a.txt"), "hello")
	writeFile(t, filepath.Join(root, "debug.log"), "noisy")
	writeFile(t, filepath.Join(root, "secrets", "token.txt"), "nope")

	w := NewWalker(Options{})
	var visited []string
	skipped, err := w.Walk(root, func(path string) error {
		rel, _ := filepath.Rel(root, path)
		visited = append(visited, rel)
		return nil
	})
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	if len(visited) != 1 || visited[0] != "a.txt" {
		t.Fatalf("expected only a.txt to be visited, got %v", visited)
	}
	if len(skipped) == 0 {
		t.Errorf("expected some entries to be recorded as skipped")
	}
}

func TestWalkSkipsOversizedFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "big.txt"), "0123456789")

	w := NewWalker(Options{MaxFileSize: 5})
	var visited []string
	_, err := w.Walk(root, func(path string) error {
		visited = append(visited, path)
		return nil
	})
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	if len(visited) != 0 {
		t.Fatalf("expected oversized file to be skipped, got %v", visited)
	}
}

func TestWalkDeterministicOrder(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "b.txt"), "b")
	writeFile(t, filepath.Join(root, "a.txt"), "a")
	writeFile(t, filepath.Join(root, "c.txt"), "c")

	w := NewWalker(Options{})
	var visited []string
	_, err := w.Walk(root, func(path string) error {
		rel, _ := filepath.Rel(root, path)
		visited = append(visited, rel)
		return nil
	})
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	want := []string{"a.txt", "b.txt", "c.txt"}
	for i, w := range want {
		if visited[i] != w {
			t.Fatalf("expected deterministic lexicographic order, got %v", visited)
		}
	}
}
