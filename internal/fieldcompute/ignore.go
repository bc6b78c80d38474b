package fieldcompute

import (
	gitignore "github.com/sabhiram/go-gitignore"
)

// IsIgnored builds a gitignore matcher from pattern lines and reports
// whether absPath is ignored. The same library backs the Walker's own
// default ignore behavior, so a config-driven is_ignored field and the
// walk-time filter agree on pattern semantics.
//
// CompileIgnoreLines never itself rejects a pattern line (unparseable
// lines are treated as literal, unmatching patterns rather than
// errors), so unlike PathMatch/ContentMatch's regex compilation, there
// is no unparseable-pattern error to surface here.
func IsIgnored(absPath string, isDir bool, patterns []string) *bool {
	matcher := gitignore.CompileIgnoreLines(patterns...)
	path := absPath
	if isDir {
		path += "/"
	}
	ignored := matcher.MatchesPath(path)
	return &ignored
}
