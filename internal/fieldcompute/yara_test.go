package fieldcompute

import (
	"os"
	"path/filepath"
	"testing"
)

type fakeYaraScanner struct {
	matches []YaraRuleMatch
	err     error
}

func (f fakeYaraScanner) Scan(rulesText string, data []byte) ([]YaraRuleMatch, error) {
	return f.matches, f.err
}

func TestYaraMatchNoHits(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.bin")
	if err := os.WriteFile(path, []byte("clean content"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	m, err := YaraMatch(fakeYaraScanner{}, path, "rule r1 { condition: false }")
	if err != nil {
		t.Fatalf("yara_match: %v", err)
	}
	if m.IsMatch {
		t.Fatalf("expected no match")
	}
	if len(m.By) != 0 {
		t.Fatalf("expected empty by map, got %v", m.By)
	}
}

func TestYaraMatchWithHits(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.bin")
	if err := os.WriteFile(path, []byte("evil payload"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	scanner := fakeYaraScanner{matches: []YaraRuleMatch{{Rule: "evil_rule", Strings: []string{"$a"}}}}
	m, err := YaraMatch(scanner, path, "rule evil_rule { strings: $a = \"evil\" condition: $a }")
	if err != nil {
		t.Fatalf("yara_match: %v", err)
	}
	if !m.IsMatch {
		t.Fatalf("expected match")
	}
	if !m.By["evil_rule"] {
		t.Fatalf("expected by[evil_rule]=true, got %v", m.By)
	}
	if len(m.Details) == 0 {
		t.Fatalf("expected non-empty details")
	}
}
