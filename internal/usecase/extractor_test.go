package usecase

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/git-issue-extractor/internal/domain"
	"github.com/naka-gawa/git-issue-extractor/internal/gateway"
	"github.com/naka-gawa/git-issue-extractor/internal/render"
)

const baseURL = "https://jira.example.com"

func newTestExtractor(tracker *mockTracker, history *mockHistory, out io.Writer, logs io.Writer) *Extractor {
	logger := slog.New(slog.NewTextHandler(logs, nil))
	return NewExtractor(tracker, history, NopProgress{}, render.Renderer{BaseURL: baseURL}, out, logger)
}

// TestExtractor_Run uses a table-driven approach to test the whole pipeline.
func TestExtractor_Run(t *testing.T) {
	errUnreachable := errors.New("dial tcp: connection refused")
	gitErr := &gateway.GitError{Args: []string{"log", "v1..v2"}, Stderr: "fatal: bad revision 'v1..v2'", Err: errors.New("exit status 128")}

	testCases := []struct {
		name           string
		opts           Options
		projects       []string
		projectsErr    error
		log            string
		logErr         error
		issues         map[string]*domain.Issue
		issueErrs      map[string]error
		expectedOutput string
		expectedErr    error
		expectedLogs   []string
	}{
		{
			name:     "happy path - release note for matched issues",
			opts:     Options{Start: "v1", End: "v2", Format: render.FormatReleaseNote},
			projects: []string{"FOO"},
			log:      "FOO-1 fix\nmerge FOO-1\nFOO-3 add",
			issues: map[string]*domain.Issue{
				"FOO-1": {Key: "FOO-1", Status: "Done", Summary: "Fix the thing"},
				"FOO-3": {Key: "FOO-3", Status: "Done", Summary: "Add the other thing"},
			},
			expectedOutput: "- Fix the thing\n " + baseURL + "/browse/FOO-1\n\n" +
				"- Add the other thing\n " + baseURL + "/browse/FOO-3\n\n",
		},
		{
			name:     "per-issue failure - remaining issues are rendered",
			opts:     Options{Start: "v1", End: "v2", Format: render.FormatReleaseNote},
			projects: []string{"FOO"},
			log:      "FOO-1 FOO-2 FOO-3",
			issues: map[string]*domain.Issue{
				"FOO-1": {Key: "FOO-1", Status: "Done", Summary: "one"},
				"FOO-3": {Key: "FOO-3", Status: "Done", Summary: "three"},
			},
			issueErrs: map[string]error{"FOO-2": errors.New("404")},
			expectedOutput: "- one\n " + baseURL + "/browse/FOO-1\n\n" +
				"- three\n " + baseURL + "/browse/FOO-3\n\n",
			expectedLogs: []string{"Could not load issue", "issue=FOO-2", "failed=1"},
		},
		{
			name:           "no issues found - success without output",
			opts:           Options{Start: "v1", End: "v2"},
			projects:       []string{"FOO"},
			log:            "chore: bump deps",
			expectedOutput: "",
			expectedLogs:   []string{"No issues found"},
		},
		{
			name:        "tracker unreachable - fatal",
			opts:        Options{Start: "v1", End: "v2"},
			projectsErr: errUnreachable,
			expectedErr: errUnreachable,
		},
		{
			name:        "tracker lists no projects - fatal",
			opts:        Options{Start: "v1", End: "v2"},
			projects:    []string{},
			expectedErr: ErrNoProjects,
		},
		{
			name:        "missing revision - fatal",
			opts:        Options{Start: "v1"},
			projects:    []string{"FOO"},
			expectedErr: ErrMissingRevision,
		},
		{
			name:        "git fails - fatal",
			opts:        Options{Start: "v1", End: "v2"},
			projects:    []string{"FOO"},
			logErr:      gitErr,
			expectedErr: gitErr,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// --- Arrange ---
			tracker := new(mockTracker)
			history := new(mockHistory)
			if tc.projectsErr != nil {
				tracker.On("ListProjectKeys", mock.Anything).Return(nil, tc.projectsErr)
			} else {
				tracker.On("ListProjectKeys", mock.Anything).Return(tc.projects, nil)
			}
			history.On("Log", mock.Anything, tc.opts.Start, tc.opts.End, tc.opts.NoMerges).Return(tc.log, tc.logErr)
			for key, issue := range tc.issues {
				tracker.On("GetIssue", mock.Anything, key).Return(issue, nil)
			}
			for key, err := range tc.issueErrs {
				tracker.On("GetIssue", mock.Anything, key).Return(nil, err)
			}
			var out, logs bytes.Buffer
			extractor := newTestExtractor(tracker, history, &out, &logs)

			// --- Act ---
			err := extractor.Run(context.Background(), tc.opts)

			// --- Assert ---
			if tc.expectedErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tc.expectedErr)
				assert.Empty(t, out.String())
				tracker.AssertNotCalled(t, "GetIssue", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectedOutput, out.String())
			for _, s := range tc.expectedLogs {
				assert.Contains(t, logs.String(), s)
			}
			tracker.AssertExpectations(t)
			history.AssertExpectations(t)
		})
	}
}

func TestExtractor_Run_TableFormat(t *testing.T) {
	tracker := new(mockTracker)
	history := new(mockHistory)
	tracker.On("ListProjectKeys", mock.Anything).Return([]string{"WEB"}, nil)
	history.On("Log", mock.Anything, "main", "release", true).Return("WEB-10 then WEB-2", nil)
	tracker.On("GetIssue", mock.Anything, "WEB-2").Return(&domain.Issue{Key: "WEB-2", Status: "Done", Summary: "two"}, nil)
	tracker.On("GetIssue", mock.Anything, "WEB-10").Return(&domain.Issue{Key: "WEB-10", Status: "Open", Summary: "ten"}, nil)
	var out bytes.Buffer

	err := newTestExtractor(tracker, history, &out, io.Discard).
		Run(context.Background(), Options{Start: "main", End: "release", NoMerges: true, Format: render.FormatTable})

	require.NoError(t, err)
	assert.Contains(t, out.String(), baseURL+"/browse/WEB-2")
	assert.Contains(t, out.String(), "Issues: WEB-2, WEB-10\n")
	history.AssertExpectations(t)
}

func TestExtractor_Run_GitErrorKeepsStderr(t *testing.T) {
	tracker := new(mockTracker)
	history := new(mockHistory)
	tracker.On("ListProjectKeys", mock.Anything).Return([]string{"WEB"}, nil)
	history.On("Log", mock.Anything, "nope", "main", false).Return("", &gateway.GitError{
		Args:   []string{"log", "nope..main"},
		Stderr: "fatal: ambiguous argument 'nope..main': unknown revision",
		Err:    errors.New("exit status 128"),
	})

	err := newTestExtractor(tracker, history, io.Discard, io.Discard).
		Run(context.Background(), Options{Start: "nope", End: "main"})

	require.Error(t, err)
	assert.True(t, gateway.IsGitError(err))
	assert.Contains(t, err.Error(), "unknown revision")
}
