package fieldcompute

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/reconscan/recon/internal/record"
)

func TestValueMatchHit(t *testing.T) {
	val := "abc123"
	m, err := ValueMatch("/a/b", "sha256", &val, []string{"deadbeef", "abc123"})
	if err != nil {
		t.Fatalf("value_match: %v", err)
	}
	if !m.IsMatch {
		t.Fatalf("expected match")
	}
	if !m.By["sha256"] {
		t.Fatalf("expected by[sha256]=true, got %v", m.By)
	}
	if m.On != "/a/b" {
		t.Fatalf("unexpected on: %s", m.On)
	}
}

func TestValueMatchMiss(t *testing.T) {
	val := "nomatch"
	m, err := ValueMatch("/a/b", "sha256", &val, []string{"deadbeef"})
	if err != nil {
		t.Fatalf("value_match: %v", err)
	}
	if m.IsMatch {
		t.Fatalf("expected no match")
	}
}

func TestValueMatchFailsLoudlyWithoutPrereq(t *testing.T) {
	_, err := ValueMatch("/a/b", "sha256", nil, []string{"deadbeef"})
	if !errors.Is(err, record.ErrMatchPrereq) {
		t.Fatalf("expected ErrMatchPrereq, got %v", err)
	}
}

func TestPathMatch(t *testing.T) {
	re := regexp.MustCompile(`secret`)
	m := PathMatch("/tmp/secret-file.txt", re)
	if !m.IsMatch {
		t.Fatalf("expected match")
	}
	if !m.By["path"] {
		t.Fatalf("expected by[path]=true")
	}
}

func TestContentMatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	if err := os.WriteFile(path, []byte("contains needle here"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	re := regexp.MustCompile(`needle`)
	m, err := ContentMatch(path, re)
	if err != nil {
		t.Fatalf("content_match: %v", err)
	}
	if !m.IsMatch {
		t.Fatalf("expected match")
	}
	if !m.By["content"] {
		t.Fatalf("expected by[content]=true")
	}
}
