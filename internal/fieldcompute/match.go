package fieldcompute

import (
	"fmt"
	"os"
	"regexp"

	"github.com/reconscan/recon/internal/record"
)

// ValueMatch compares a computed value against a candidate list. It
// fails loudly when val is nil: a matcher invoked without its
// prerequisite computed value is a configuration error, not a
// record-level None.
func ValueMatch(on, name string, val *string, candidates []string) (*record.Match, error) {
	if val == nil {
		return nil, fmt.Errorf("%s: %w", name, record.ErrMatchPrereq)
	}
	isMatch := false
	for _, c := range candidates {
		if c == *val {
			isMatch = true
			break
		}
	}
	return &record.Match{
		IsMatch: isMatch,
		On:      on,
		By:      map[string]bool{name: true},
	}, nil
}

// PathMatch applies a regex to abs_path.
func PathMatch(absPath string, re *regexp.Regexp) *record.Match {
	return &record.Match{
		IsMatch: re.MatchString(absPath),
		On:      absPath,
		By:      map[string]bool{"path": true},
	}
}

// ContentMatch reads the whole file and applies a byte regex to its
// contents. Standard library regexp already operates on []byte
// directly, so no distinct "bytes regex" type is needed the way Rust's
// regex::bytes::Regex was.
func ContentMatch(absPath string, re *regexp.Regexp) (*record.Match, error) {
	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return &record.Match{
		IsMatch: re.Match(data),
		On:      absPath,
		By:      map[string]bool{"content": true},
	}, nil
}
