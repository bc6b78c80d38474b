package fieldcompute

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Magic identifies a file's content the way the OS `file(1)` command
// does. It is isolated behind an interface so the rest of the pipeline
// and its tests never need a real `file` binary on PATH.
type Magic interface {
	Identify(ctx context.Context, absPath string) (string, error)
}

// FileCommandMagic shells out to the `file` binary, stripping the
// leading "<abs_path>: " prefix from its stdout exactly as the
// original engine's file_magic computer does.
type FileCommandMagic struct {
	// Bin overrides the binary name; defaults to "file".
	Bin string
}

func (m FileCommandMagic) Identify(ctx context.Context, absPath string) (string, error) {
	bin := m.Bin
	if bin == "" {
		bin = "file"
	}
	out, err := exec.CommandContext(ctx, bin, absPath).Output()
	if err != nil {
		return "", fmt.Errorf("run %s: %w", bin, err)
	}
	return strings.TrimPrefix(strings.TrimRight(string(out), "\n"), absPath+": "), nil
}
