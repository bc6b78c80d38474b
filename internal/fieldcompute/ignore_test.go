package fieldcompute

import "testing"

func TestIsIgnoredMatchesPattern(t *testing.T) {
	ignored := IsIgnored("/repo/node_modules/pkg/index.js", false, []string{"node_modules/"})
	if ignored == nil || !*ignored {
		t.Fatalf("expected ignored, got %v", ignored)
	}
}

func TestIsIgnoredNoMatch(t *testing.T) {
	ignored := IsIgnored("/repo/src/main.go", false, []string{"node_modules/"})
	if ignored == nil || *ignored {
		t.Fatalf("expected not ignored, got %v", ignored)
	}
}
