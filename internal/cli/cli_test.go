package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
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

func TestRunJSONOutputsIndexedFiles(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"a.txt": "hello world",
		"b.txt": "goodbye",
	})

	var stdout, stderr bytes.Buffer
	code, err := Run([]string{
		"--root", dir,
		"--inmem",
		"--no-progress",
		"--json",
	}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if code != 0 {
		t.Fatalf("expected exit 0, got %d (stderr: %s)", code, stderr.String())
	}

	var rows []map[string]any
	if err := json.Unmarshal(stdout.Bytes(), &rows); err != nil {
		t.Fatalf("unmarshal json output: %v\noutput: %s", err, stdout.String())
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
}

func TestRunXargsListsAbsolutePaths(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"only.txt": "content"})

	var stdout, stderr bytes.Buffer
	code, err := Run([]string{"--root", dir, "--inmem", "--no-progress", "--query", "select abs_path from files", "--xargs"}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if !strings.Contains(stdout.String(), "only.txt") {
		t.Fatalf("expected xargs output to list only.txt, got %q", stdout.String())
	}
}

func TestRunFailSomeFailsWhenNoRowsMatch(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"a.txt": "hello"})

	var stdout, stderr bytes.Buffer
	code, err := Run([]string{
		"--root", dir,
		"--inmem",
		"--no-progress",
		"--query", "select * from files where abs_path = 'does-not-exist'",
		"--fail-some",
	}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if code != 1 {
		t.Fatalf("expected exit 1 when fail-some finds zero rows, got %d", code)
	}
}

func TestRunFailNoneFailsWhenRowsMatch(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"a.txt": "hello"})

	var stdout, stderr bytes.Buffer
	code, err := Run([]string{
		"--root", dir,
		"--inmem",
		"--no-progress",
		"--fail-none",
	}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if code != 1 {
		t.Fatalf("expected exit 1 when fail-none finds rows, got %d", code)
	}
}

func TestRunDeleteRemovesExistingDBFile(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"a.txt": "hello"})
	dbFile := filepath.Join(dir, "recon.db")
	if err := os.WriteFile(dbFile, []byte("stale"), 0o644); err != nil {
		t.Fatalf("seed stale db: %v", err)
	}

	var stdout, stderr bytes.Buffer
	code, err := Run([]string{
		"--root", dir,
		"--file", dbFile,
		"--no-progress",
		"--delete",
		"--json",
	}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if code != 0 {
		t.Fatalf("expected exit 0, got %d (stderr: %s)", code, stderr.String())
	}
}

func TestRunConfigQueryWinsOverQueryFlag(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"a.txt": "hello"})

	configPath := filepath.Join(t.TempDir(), "recon.yaml")
	configYAML := "root: " + dir + "\nquery: \"select abs_path from files\"\n"
	if err := os.WriteFile(configPath, []byte(configYAML), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	var stdout, stderr bytes.Buffer
	code, err := Run([]string{
		"--config", configPath,
		"--inmem",
		"--no-progress",
		"--query", "select * from files where 1=0",
		"--json",
	}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}

	var rows []map[string]any
	if err := json.Unmarshal(stdout.Bytes(), &rows); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected config's query to win and return 1 row, got %d", len(rows))
	}
}
