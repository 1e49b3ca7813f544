package vcs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDetect(t *testing.T) {
	dir := t.TempDir()
	if _, ok := Detect(dir); ok {
		t.Fatalf("Detect on empty dir should report no repo")
	}

	if err := os.Mkdir(filepath.Join(dir, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}
	kind, ok := Detect(dir)
	if !ok || kind != KindGit {
		t.Fatalf("Detect = %v, %v, want git", kind, ok)
	}

	// jj wins over a colocated git dir
	if err := os.Mkdir(filepath.Join(dir, ".jj"), 0o755); err != nil {
		t.Fatal(err)
	}
	kind, ok = Detect(dir)
	if !ok || kind != KindJJ {
		t.Fatalf("Detect = %v, %v, want jj", kind, ok)
	}
}
