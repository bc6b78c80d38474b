package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/reconscan/recon/internal/config"
	"github.com/reconscan/recon/internal/store"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		full := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
}

func TestRunIndexesAndComputesFields(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"a.txt": "hello world",
		"b.zip": "not really a zip",
	})

	s, err := store.Connect(":memory:")
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer s.Close()

	cfg := config.Config{
		Root:                      dir,
		Query:                     "select * from files",
		BeforeComputedFieldsQuery: "select * from files",
		DefaultFields: config.DefaultFields{
			IsArchive: []string{"zip"},
		},
		ComputedFields: config.ComputedFields{
			SHA256: true,
		},
	}

	table, err := Run(context.Background(), s, Options{
		Root:          dir,
		Config:        cfg,
		RunBothPhases: true,
		AllFiles:      true,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(table.Rows))
	}

	files, err := s.QueryFiles(context.Background(), "select * from files order by abs_path")
	if err != nil {
		t.Fatalf("query_files: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %d", len(files))
	}
	for _, f := range files {
		if f.SHA256 == nil {
			t.Fatalf("expected sha256 to be computed for %s", f.AbsPath)
		}
		if !f.Computed {
			t.Fatalf("expected computed=true for %s", f.AbsPath)
		}
	}

	var zipFile, txtFile = files[0], files[1]
	if filepath.Ext(zipFile.AbsPath) != ".zip" {
		zipFile, txtFile = txtFile, zipFile
	}
	if zipFile.IsArchive == nil || !*zipFile.IsArchive {
		t.Fatalf("expected b.zip to be classified as archive")
	}
	if txtFile.IsArchive == nil || *txtFile.IsArchive {
		t.Fatalf("expected a.txt to not be classified as archive")
	}
}

func TestRunResumeSkipsExistingFiles(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"a.txt": "hello"})

	s, err := store.Connect(":memory:")
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer s.Close()

	cfg := config.Config{Root: dir, Query: "select * from files", BeforeComputedFieldsQuery: "select * from files"}

	if _, err := Run(context.Background(), s, Options{Root: dir, Config: cfg, RunBothPhases: true, AllFiles: true}); err != nil {
		t.Fatalf("first run: %v", err)
	}

	writeTree(t, dir, map[string]string{"b.txt": "world"})

	var cached []string
	progress := &recordingProgress{onCached: func(p string) { cached = append(cached, p) }}

	if _, err := Run(context.Background(), s, Options{
		Root: dir, Config: cfg, RunBothPhases: true, Resume: true, AllFiles: true, Progress: progress,
	}); err != nil {
		t.Fatalf("second run: %v", err)
	}

	if len(cached) != 1 {
		t.Fatalf("expected exactly 1 cached (skipped) file, got %d: %v", len(cached), cached)
	}
}

func TestRunQueryOnlySkipsIndexing(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"a.txt": "hello"})

	s, err := store.Connect(":memory:")
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer s.Close()

	cfg := config.Config{Root: dir, Query: "select * from files", BeforeComputedFieldsQuery: "select * from files"}

	table, err := Run(context.Background(), s, Options{Root: dir, Config: cfg, RunBothPhases: false, AllFiles: true})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(table.Rows) != 0 {
		t.Fatalf("expected no rows when indexing is skipped, got %d", len(table.Rows))
	}
}

type recordingProgress struct {
	onCached func(string)
}

func (r *recordingProgress) Indexed(string)  {}
func (r *recordingProgress) Cached(p string) { r.onCached(p) }
func (r *recordingProgress) Enriched(string) {}
func (r *recordingProgress) Done(Summary)    {}
