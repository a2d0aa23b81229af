// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"log/slog"

	"github.com/naka-gawa/git-issue-extractor/internal/domain"
	"github.com/naka-gawa/git-issue-extractor/internal/gateway"
)

// Progress observes the issue fetch loop.
type Progress interface {
	Start(total int)
	// Advance is called after every fetch attempt, successful or not.
	Advance(current, total int, key string)
	Finish()
}

// NopProgress ignores all progress events.
type NopProgress struct{}

func (NopProgress) Start(int)                {}
func (NopProgress) Advance(int, int, string) {}
func (NopProgress) Finish()                  {}

// IssueFetcher loads issues one by one from the tracker.
type IssueFetcher struct {
	tracker  gateway.Tracker
	progress Progress
	logger   *slog.Logger
}

// NewIssueFetcher creates a new IssueFetcher instance.
func NewIssueFetcher(tracker gateway.Tracker, progress Progress, logger *slog.Logger) *IssueFetcher {
	if progress == nil {
		progress = NopProgress{}
	}
	return &IssueFetcher{
		tracker:  tracker,
		progress: progress,
		logger:   logger,
	}
}

// Fetch requests every key in order and returns one result per key.
// A failing key is logged and recorded in its result; it never stops the loop.
func (f *IssueFetcher) Fetch(ctx context.Context, keys []string) []domain.FetchResult {
	total := len(keys)
	results := make([]domain.FetchResult, 0, total)

	f.progress.Start(total)
	for i, key := range keys {
		issue, err := f.tracker.GetIssue(ctx, key)
		if err != nil {
			f.logger.Error("Could not load issue", "issue", key, "error", err)
		}
		results = append(results, domain.FetchResult{Key: key, Issue: issue, Err: err})
		f.progress.Advance(i+1, total, key)
	}
	f.progress.Finish()

	return results
}
