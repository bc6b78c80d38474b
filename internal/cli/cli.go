// Package cli implements recon's command-line surface: flag parsing,
// environment overrides, workflow invocation, output rendering, and
// the --fail-some/--fail-none exit-code policy. Following the
// teacher's own ambient choice, flags are parsed with the standard
// library's flag.NewFlagSet rather than a third-party parser.
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/reconscan/recon/internal/config"
	"github.com/reconscan/recon/internal/fieldcompute"
	"github.com/reconscan/recon/internal/pipeline"
	"github.com/reconscan/recon/internal/render"
	"github.com/reconscan/recon/internal/store"
)

// DefaultDBFile is the on-disk database used when neither --file nor
// DATABASE_URL override it.
const DefaultDBFile = "recon.db"

// logLevel resolves the slog level from the LOG environment variable
// (debug, info, warn, error), falling back to debug when --verbose is
// set and warn otherwise.
func logLevel(verbose bool) slog.Level {
	switch os.Getenv("LOG") {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelWarn
}

// Run parses args, executes one recon workflow, writes rendered
// output to stdout and the run summary to stderr, and returns the
// process exit code. A non-nil error means the run failed outright
// (config, I/O, compute, or store failure); the exit code in that
// case is meaningless and the caller should print "error: <err>" and
// exit 1, matching the original engine's policy.
func Run(args []string, stdout, stderr io.Writer) (int, error) {
	fs := flag.NewFlagSet("recon", flag.ContinueOnError)
	fs.SetOutput(stderr)

	configPath := fs.String("config", "", "point to a configuration file")
	rootFlag := fs.String("root", "", "target folder to scan")
	queryFlag := fs.String("query", "", "query with SQL")
	fileFlag := fs.String("file", DefaultDBFile, "use a specific DB file (file or :memory: for in memory)")
	deleteFlag := fs.Bool("delete", false, "delete existing cache database before running")
	updateFlag := fs.Bool("update", false, "always walk files and update DB before query")
	allFlag := fs.Bool("all", false, "walk all files (don't consider .gitignore)")
	noProgressFlag := fs.Bool("no-progress", false, "don't display progress bars")
	inmemFlag := fs.Bool("inmem", false, "don't cache index to disk, run in-memory only")
	xargsFlag := fs.Bool("xargs", false, "output as xargs formatted list")
	jsonFlag := fs.Bool("json", false, "output as JSON")
	csvFlag := fs.Bool("csv", false, "output as CSV")
	noStyleFlag := fs.Bool("no-style", false, "output as a table with no styles")
	failSomeFlag := fs.Bool("fail-some", false, "exit code failure if *some* files are found")
	failNoneFlag := fs.Bool("fail-none", false, "exit code failure if *no* files are found")
	verboseFlag := fs.Bool("verbose", false, "show logs")

	if err := fs.Parse(args); err != nil {
		return 1, err
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{
		Level: logLevel(*verboseFlag),
	})))

	var cfg config.Config
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return 1, fmt.Errorf("cannot load configuration: %w", err)
		}
		cfg = *loaded
	} else {
		cfg.Root = "."
	}

	root := *rootFlag
	if root == "" {
		root = cfg.Root
	}
	if root == "" {
		root = "."
	}

	// Config's own query wins over the --query flag, matching the
	// original engine's `config.source.query.or(opts.query)`.
	query := cfg.Query
	if query == "" {
		query = *queryFlag
	}
	if query == "" {
		query = config.DefaultQuery
	}
	cfg.Query = query
	if cfg.BeforeComputedFieldsQuery == "" {
		cfg.BeforeComputedFieldsQuery = config.DefaultBeforeComputedFieldsQuery
	}

	dbFile := os.Getenv("DATABASE_URL")
	if dbFile == "" {
		if *inmemFlag {
			dbFile = ":memory:"
		} else {
			dbFile = *fileFlag
		}
	}

	if *deleteFlag && dbFile != ":memory:" {
		if err := os.Remove(dbFile); err != nil && !os.IsNotExist(err) {
			return 1, fmt.Errorf("cannot delete existing db: %w", err)
		}
	}

	runBoth, resume := pipeline.PlanPhases(dbFile, *updateFlag)
	slog.Debug("planned phases", "db", dbFile, "walk", runBoth, "resume", resume)

	s, err := store.Connect(dbFile)
	if err != nil {
		return 1, fmt.Errorf("cannot open DB: %w", err)
	}
	defer s.Close()

	var progress pipeline.Progress = pipeline.NoProgress{}
	if !*noProgressFlag {
		progress = pipeline.NewBarProgress(stderr)
	}

	started := time.Now()
	table, err := pipeline.Run(context.Background(), s, pipeline.Options{
		Root:          root,
		Config:        cfg,
		RunBothPhases: runBoth,
		Resume:        resume,
		AllFiles:      *allFlag,
		Progress:      progress,
		Collaborators: pipeline.Collaborators{
			Magic: fieldcompute.FileCommandMagic{},
			Yara:  fieldcompute.LibYaraScanner{},
		},
	})
	if err != nil {
		return 1, err
	}
	slog.Info("run complete", "rows", len(table.Rows), "total_rows", table.TotalRows, "elapsed", time.Since(started).Round(time.Millisecond))

	withSummary := true
	switch {
	case *csvFlag:
		withSummary = false
		if err := render.CSV(stdout, table); err != nil {
			return 1, err
		}
	case *jsonFlag:
		withSummary = false
		if err := render.JSON(stdout, table); err != nil {
			return 1, err
		}
	case *xargsFlag:
		withSummary = false
		if err := render.Xargs(stdout, table); err != nil {
			return 1, err
		}
	default:
		render.Table(stdout, table, *noStyleFlag)
	}

	rows := len(table.Rows)
	if withSummary {
		fmt.Fprintf(stderr, "%d of %d files in %s\n", rows, table.TotalRows, time.Since(started).Round(time.Millisecond))
	}

	// Negative-positive logic preserved exactly from the original
	// engine: --fail-some fails when at least one row was found;
	// --fail-none fails when zero rows were found.
	success := true
	switch {
	case *failSomeFlag:
		success = rows == 0
	case *failNoneFlag:
		success = rows != 0
	}
	if success {
		return 0, nil
	}
	return 1, nil
}
