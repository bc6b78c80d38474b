// Package pipeline orchestrates the two-phase indexing run: walk and
// default-fill (Phase A), then compute and enrich (Phase B), followed
// by the caller's final query. See spec.md §4.5.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/reconscan/recon/internal/config"
	"github.com/reconscan/recon/internal/query"
	"github.com/reconscan/recon/internal/record"
	"github.com/reconscan/recon/internal/store"
	"github.com/reconscan/recon/internal/unpack"
	"github.com/reconscan/recon/internal/walker"
)

// Options configures one pipeline run.
type Options struct {
	Root          string
	Config        config.Config
	RunBothPhases bool
	Resume        bool
	AllFiles      bool
	Progress      Progress
	Collaborators Collaborators
	Unpacker      unpack.Extractor
}

// Run executes the configured phases against store s and returns the
// final ValuesTable for opts.Config.Query.
func Run(ctx context.Context, s *store.Store, opts Options) (*query.ValuesTable, error) {
	progress := opts.Progress
	if progress == nil {
		progress = NoProgress{}
	}
	unpacker := opts.Unpacker
	if unpacker == nil {
		unpacker = unpack.Noop{}
	}

	started := time.Now()
	rowCount := 0

	if opts.RunBothPhases {
		if err := walkAndStore(ctx, s, opts, progress, unpacker); err != nil {
			return nil, err
		}
		if err := enrich(ctx, s, opts, progress); err != nil {
			return nil, err
		}
	}

	table, err := s.QueryTable(ctx, opts.Config.Query)
	if err != nil {
		return nil, fmt.Errorf("final query: %w", err)
	}
	rowCount = len(table.Rows)

	progress.Done(Summary{
		Rows:      rowCount,
		TotalRows: table.TotalRows,
		Elapsed:   time.Since(started),
	})

	return table, nil
}

// walkAndStore is Phase A: enumerate the tree, build a base record per
// file, skip already-indexed files when resuming, else apply Layer-2
// fields and upsert, optionally invoking the unpack hook.
func walkAndStore(ctx context.Context, s *store.Store, opts Options, progress Progress, unpacker unpack.Extractor) error {
	walkOpts := walker.Options{
		Root:           opts.Root,
		AllFiles:       opts.AllFiles,
		IgnorePatterns: opts.Config.DefaultFields.IsIgnored,
	}

	return walker.Walk(walkOpts, func(e walker.Entry) error {
		if e.IsDir {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		f, err := record.New(e.Path, e.Info)
		if err != nil {
			return fmt.Errorf("build record for %s: %w", e.Path, err)
		}

		if opts.Resume {
			exists, err := s.Exists(ctx, f.AbsPath)
			if err != nil {
				return fmt.Errorf("check existence of %s: %w", f.AbsPath, err)
			}
			if exists {
				progress.Cached(f.AbsPath)
				return nil
			}
		}

		applyDefaultFields(f, opts.Config.DefaultFields)

		if err := s.InsertOne(ctx, f); err != nil {
			return err
		}

		if opts.Config.Unpack && f.IsArchive != nil && *f.IsArchive {
			if err := unpacker.Extract(ctx, f.AbsPath); err != nil {
				return fmt.Errorf("unpack %s: %w", f.AbsPath, err)
			}
		}

		progress.Indexed(f.AbsPath)
		return nil
	})
}

// enrich is Phase B: select records due for enrichment, apply Layer-3
// fields when the underlying file still exists, and mark computed.
func enrich(ctx context.Context, s *store.Store, opts Options, progress Progress) error {
	beforeQuery := opts.Config.BeforeComputedFieldsQuery
	files, err := s.QueryFiles(ctx, beforeQuery)
	if err != nil {
		return fmt.Errorf("before_computed_fields_query: %w", err)
	}

	for _, f := range files {
		if f.Computed {
			continue
		}

		if _, err := os.Stat(f.AbsPath); err == nil {
			if err := applyComputedFields(ctx, f, opts.Config.ComputedFields, opts.Collaborators); err != nil {
				return err
			}
		}
		f.Computed = true

		if err := s.InsertOne(ctx, f); err != nil {
			return err
		}
		progress.Enriched(f.AbsPath)
	}
	return nil
}
