package gateway

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// History defines the behavior of a gateway for reading commit history.
type History interface {
	// Log returns the full `git log` output for the commits reachable from end
	// but not from start. Merge commits are left out when noMerges is set.
	Log(ctx context.Context, start, end string, noMerges bool) (string, error)
}

// GitError is returned when the git command exits unsuccessfully.
// Stderr holds git's own explanation, e.g. "unknown revision".
type GitError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *GitError) Error() string {
	msg := "git " + strings.Join(e.Args, " ") + ": " + e.Err.Error()
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *GitError) Unwrap() error {
	return e.Err
}

// GitHistory is the concrete implementation of the History interface.
// It shells out to the git binary found on PATH.
type GitHistory struct {
	repoPath string
	logger   *slog.Logger
}

// NewGitHistory creates a History reading the repository at repoPath.
func NewGitHistory(repoPath string, logger *slog.Logger) *GitHistory {
	if repoPath == "" {
		repoPath = "."
	}
	return &GitHistory{
		repoPath: repoPath,
		logger:   logger,
	}
}

func (g *GitHistory) Log(ctx context.Context, start, end string, noMerges bool) (string, error) {
	args := []string{"-C", g.repoPath, "log"}
	if noMerges {
		args = append(args, "--no-merges")
	}
	// A revision starting with "-" must not be taken for an option.
	args = append(args, "--end-of-options", fmt.Sprintf("%s..%s", start, end), "--")

	g.logger.Debug("Running git", "args", args)
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", &GitError{
			Args:   args,
			Stderr: strings.TrimSpace(stderr.String()),
			Err:    err,
		}
	}
	g.logger.Debug("Completed git log", "bytes", stdout.Len())
	return stdout.String(), nil
}

// IsGitError reports whether err was caused by a failing git command.
func IsGitError(err error) bool {
	var gitErr *GitError
	return errors.As(err, &gitErr)
}
