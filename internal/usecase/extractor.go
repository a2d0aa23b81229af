package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/naka-gawa/git-issue-extractor/internal/domain"
	"github.com/naka-gawa/git-issue-extractor/internal/gateway"
	"github.com/naka-gawa/git-issue-extractor/internal/render"
)

var (
	// ErrNoProjects is returned when the tracker lists no projects at all.
	ErrNoProjects = errors.New("tracker returned no projects")
	// ErrMissingRevision is returned when either end of the range is empty.
	ErrMissingRevision = errors.New("start and end revisions are required")
)

// Options describe a single extraction run.
type Options struct {
	Start    string // sha, tag or branch; excluded from the range
	End      string // sha, tag or branch; included in the range
	NoMerges bool
	Format   render.Format
}

// Extractor is the use case for extracting tracker issues from git history.
// It orchestrates the gateways, the fetcher and the renderer.
type Extractor struct {
	tracker  gateway.Tracker
	history  gateway.History
	fetcher  *IssueFetcher
	renderer render.Renderer
	out      io.Writer
	logger   *slog.Logger
}

// NewExtractor creates a new Extractor instance. Rendered output is written to out.
func NewExtractor(tracker gateway.Tracker, history gateway.History, progress Progress, renderer render.Renderer, out io.Writer, logger *slog.Logger) *Extractor {
	return &Extractor{
		tracker:  tracker,
		history:  history,
		fetcher:  NewIssueFetcher(tracker, progress, logger),
		renderer: renderer,
		out:      out,
		logger:   logger,
	}
}

// Run performs the main business logic.
// Nothing is written to the output unless issues were found and fetched.
func (e *Extractor) Run(ctx context.Context, opts Options) error {
	e.logger.Info("Collecting project keys from the tracker")
	projectKeys, err := e.tracker.ListProjectKeys(ctx)
	if err != nil {
		return fmt.Errorf("failed to list projects: %w", err)
	}
	if len(projectKeys) == 0 {
		return ErrNoProjects
	}
	e.logger.Info("Collected projects", "projects", len(projectKeys))

	if opts.Start == "" || opts.End == "" {
		return ErrMissingRevision
	}
	e.logger.Info("Extracting issues", "start", opts.Start, "end", opts.End, "skip_merges", opts.NoMerges)

	commitLog, err := e.history.Log(ctx, opts.Start, opts.End, opts.NoMerges)
	if err != nil {
		return fmt.Errorf("failed to list commits: %w", err)
	}

	keys := domain.ExtractKeys(projectKeys, commitLog)
	if len(keys) == 0 {
		e.logger.Info("No issues found")
		return nil
	}
	e.logger.Info("Getting status for issues", "issues", len(keys))

	results := e.fetcher.Fetch(ctx, keys)
	issues, failures := domain.Partition(results)
	if len(failures) > 0 {
		e.logger.Warn("Some issues could not be loaded", "failed", len(failures), "loaded", len(issues))
	}

	output, err := e.renderer.Render(opts.Format, issues)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(e.out, output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
