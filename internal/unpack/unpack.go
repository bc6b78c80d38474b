// Package unpack defines the archive-extraction hook. Its semantics
// are stated by the pipeline (spec.md §4.5): when enabled and a file's
// is_archive field is true, the hook is invoked to write extracted
// siblings next to the archive. Implementation is delegated — this
// package only states the interface and a no-op default.
package unpack

import "context"

// Extractor extracts an archive's contents next to it on disk. It
// must not re-enter the current walk: newly extracted files are picked
// up only on a subsequent run.
type Extractor interface {
	Extract(ctx context.Context, absPath string) error
}

// Noop never extracts anything; it is the default when unpack is
// disabled or no real extractor has been wired in.
type Noop struct{}

func (Noop) Extract(ctx context.Context, absPath string) error { return nil }
