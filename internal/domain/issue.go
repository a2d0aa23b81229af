// Package domain contains the core data structures and domain logic for the application.
package domain

import "errors"

// ErrNoIssueData is reported for a fetch that returned neither an issue nor an error.
var ErrNoIssueData = errors.New("tracker returned no issue data")

// Issue holds the tracker data for a single issue key.
// It is the core domain entity of this application.
type Issue struct {
	Key     string
	Status  string
	Summary string
}

// FetchResult is the outcome of loading one issue from the tracker.
// Exactly one of Issue and Err is set.
type FetchResult struct {
	Key   string
	Issue *Issue
	Err   error
}

// FetchFailure describes an issue key that could not be loaded.
type FetchFailure struct {
	Key string
	Err error
}

func (f FetchFailure) Error() string {
	err := f.Err
	if err == nil {
		err = ErrNoIssueData
	}
	return f.Key + ": " + err.Error()
}

func (f FetchFailure) Unwrap() error {
	return f.Err
}

// Partition splits fetch results into the loaded issues and the failures,
// keeping the order of the input in both.
func Partition(results []FetchResult) ([]Issue, []FetchFailure) {
	issues := make([]Issue, 0, len(results))
	var failures []FetchFailure
	for _, r := range results {
		if r.Err != nil || r.Issue == nil {
			err := r.Err
			if err == nil {
				err = ErrNoIssueData
			}
			failures = append(failures, FetchFailure{Key: r.Key, Err: err})
			continue
		}
		issues = append(issues, *r.Issue)
	}
	return issues, failures
}
