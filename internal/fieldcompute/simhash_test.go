package fieldcompute

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSimhashIsStableAndHex(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	if err := os.WriteFile(path, []byte("the quick brown fox jumps over the lazy dog"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	h1, err := Simhash(path)
	if err != nil {
		t.Fatalf("simhash: %v", err)
	}
	h2, err := Simhash(path)
	if err != nil {
		t.Fatalf("simhash: %v", err)
	}
	if h1 != h2 {
		t.Fatalf("expected stable hash, got %s and %s", h1, h2)
	}
	if len(h1) != 16 {
		t.Fatalf("expected 16 hex chars, got %d (%s)", len(h1), h1)
	}
}

func TestSimhashDiffersForDifferentContent(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")
	if err := os.WriteFile(a, []byte("alpha beta gamma"), 0o644); err != nil {
		t.Fatalf("write a: %v", err)
	}
	if err := os.WriteFile(b, []byte("completely unrelated content here"), 0o644); err != nil {
		t.Fatalf("write b: %v", err)
	}

	ha, err := Simhash(a)
	if err != nil {
		t.Fatalf("simhash a: %v", err)
	}
	hb, err := Simhash(b)
	if err != nil {
		t.Fatalf("simhash b: %v", err)
	}
	if ha == hb {
		t.Fatalf("expected different hashes for unrelated content")
	}
}
