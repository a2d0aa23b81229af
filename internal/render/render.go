// Package render formats fetched issues for the terminal or for release notes.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/naka-gawa/git-issue-extractor/internal/domain"
)

// Format selects the output layout.
type Format string

const (
	FormatTable       Format = "table"
	FormatReleaseNote Format = "release-note"
)

// maxTitleLength is the number of summary characters shown in the table.
const maxTitleLength = 50

// Renderer turns issues into text. It does no I/O.
type Renderer struct {
	// BaseURL is the tracker root, issues link to BaseURL/browse/KEY.
	BaseURL string
}

// Render dispatches to the renderer for format.
func (r Renderer) Render(format Format, issues []domain.Issue) (string, error) {
	switch format {
	case FormatTable, "":
		return r.Table(issues), nil
	case FormatReleaseNote:
		return r.ReleaseNote(issues), nil
	default:
		return "", fmt.Errorf("unknown output format %q", format)
	}
}

// Table renders one row per issue with its link, status and shortened title,
// followed by a comma separated list of all keys.
func (r Renderer) Table(issues []domain.Issue) string {
	keys := make([]string, 0, len(issues))
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Url", "Status", "Title")
	for _, issue := range issues {
		t.Row(r.BrowseURL(issue.Key), issue.Status, truncate(issue.Summary, maxTitleLength))
		keys = append(keys, issue.Key)
	}

	var sb strings.Builder
	sb.WriteString(t.Render())
	sb.WriteString("\n\nIssues: ")
	sb.WriteString(strings.Join(keys, ", "))
	sb.WriteString("\n")
	return sb.String()
}

// ReleaseNote renders every issue as a bullet with its full summary and link.
func (r Renderer) ReleaseNote(issues []domain.Issue) string {
	var sb strings.Builder
	for _, issue := range issues {
		fmt.Fprintf(&sb, "- %s\n %s\n\n", issue.Summary, r.BrowseURL(issue.Key))
	}
	return sb.String()
}

// BrowseURL is the web link for key.
func (r Renderer) BrowseURL(key string) string {
	return strings.TrimRight(r.BaseURL, "/") + "/browse/" + key
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
