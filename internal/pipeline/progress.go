package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
)

// Progress receives pipeline events. Indexed/Cached/Enriched are
// called once per file; Done is called once at the end of a run.
type Progress interface {
	Indexed(path string)
	Cached(path string)
	Enriched(path string)
	Done(summary Summary)
}

// Summary is the end-of-run report, rendered as the original CLI's
// "<rows> of <total_rows> files in <elapsed>" stderr line.
type Summary struct {
	Rows      int
	TotalRows int64
	Elapsed   time.Duration
}

func (s Summary) String() string {
	return fmt.Sprintf("%s of %s files in %s",
		humanize.Comma(int64(s.Rows)), humanize.Comma(s.TotalRows), s.Elapsed.Round(time.Millisecond))
}

// NoProgress discards every event.
type NoProgress struct{}

func (NoProgress) Indexed(string)      {}
func (NoProgress) Cached(string)       {}
func (NoProgress) Enriched(string)     {}
func (NoProgress) Done(Summary)        {}

// BarProgress drives a schollz/progressbar/v3 spinner-style bar while
// a run is in flight, writing to w (typically stderr).
type BarProgress struct {
	bar *progressbar.ProgressBar
}

// NewBarProgress creates a progress reporter with an indeterminate
// byte-less counter bar, matching the original CLI's "finding/hashing
// files" feedback during a long walk.
func NewBarProgress(w io.Writer) *BarProgress {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("indexing"),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionShowCount(),
	)
	return &BarProgress{bar: bar}
}

func (p *BarProgress) Indexed(string)  { _ = p.bar.Add(1) }
func (p *BarProgress) Cached(string)   { _ = p.bar.Add(1) }
func (p *BarProgress) Enriched(string) { _ = p.bar.Add(1) }
func (p *BarProgress) Done(Summary) {
	_ = p.bar.Finish()
}
