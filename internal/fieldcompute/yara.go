package fieldcompute

import (
	"encoding/json"
	"fmt"
	"os"

	yara "github.com/hillu/go-yara/v4"

	"github.com/reconscan/recon/internal/record"
)

// YaraScanner compiles rule text and scans a byte buffer against it.
// Isolated behind an interface so the rest of the pipeline and its
// tests never need a real compiled YARA ruleset.
type YaraScanner interface {
	Scan(rulesText string, data []byte) ([]YaraRuleMatch, error)
}

// YaraRuleMatch is one matched rule, identifier plus matched strings,
// serialized into Match.Details.
type YaraRuleMatch struct {
	Rule    string   `json:"rule"`
	Tags    []string `json:"tags,omitempty"`
	Strings []string `json:"strings,omitempty"`
}

// LibYaraScanner scans using the libyara cgo binding.
type LibYaraScanner struct{}

func (LibYaraScanner) Scan(rulesText string, data []byte) ([]YaraRuleMatch, error) {
	compiler, err := yara.NewCompiler()
	if err != nil {
		return nil, fmt.Errorf("new compiler: %w", err)
	}
	if err := compiler.AddString(rulesText, ""); err != nil {
		return nil, fmt.Errorf("add rules: %w", err)
	}
	rules, err := compiler.GetRules()
	if err != nil {
		return nil, fmt.Errorf("compile rules: %w", err)
	}

	var matched yara.MatchRules
	if err := rules.ScanMem(data, 0, 0, &matched); err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}

	out := make([]YaraRuleMatch, 0, len(matched))
	for _, m := range matched {
		strs := make([]string, 0, len(m.Strings))
		for _, s := range m.Strings {
			strs = append(strs, s.Name)
		}
		out = append(out, YaraRuleMatch{Rule: m.Rule, Tags: m.Tags, Strings: strs})
	}
	return out, nil
}

// YaraMatch reads the whole file, compiles rulesText, scans, and
// reports one Match with is_match set when any rule fired, by keyed
// per matched rule identifier, and details holding the full match list.
func YaraMatch(scanner YaraScanner, absPath, rulesText string) (*record.Match, error) {
	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	matches, err := scanner.Scan(rulesText, data)
	if err != nil {
		return nil, fmt.Errorf("yara scan: %w", err)
	}

	by := make(map[string]bool, len(matches))
	for _, m := range matches {
		by[m.Rule] = true
	}
	details, err := json.Marshal(matches)
	if err != nil {
		return nil, fmt.Errorf("marshal yara matches: %w", err)
	}

	return &record.Match{
		IsMatch: len(matches) > 0,
		On:      absPath,
		By:      by,
		Details: details,
	}, nil
}
