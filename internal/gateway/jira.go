// Package gateway provides gateways to the issue tracker and to the local git history,
// abstracting away the underlying REST client and the git command line.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/andygrunwald/go-jira"
	"golang.org/x/oauth2"

	"github.com/naka-gawa/git-issue-extractor/internal/domain"
)

// issueFields limits the issue request to what the renderers need.
const issueFields = "status,summary"

// Tracker defines the behavior of a gateway for reading from the issue tracker.
type Tracker interface {
	// ListProjectKeys returns the key of every project visible to the configured user.
	ListProjectKeys(ctx context.Context) ([]string, error)
	// GetIssue loads the status and summary of a single issue.
	GetIssue(ctx context.Context, key string) (*domain.Issue, error)
}

// Credentials selects how requests to Jira are authenticated.
// A user with a token uses basic auth (Jira Cloud API tokens), a token alone is
// sent as a bearer token (Jira Data Center personal access tokens).
type Credentials struct {
	User  string
	Token string
}

// JiraGateway is the concrete implementation of the Tracker interface.
type JiraGateway struct {
	client *jira.Client
	logger *slog.Logger
}

// NewJiraGateway is a constructor that creates a new instance of JiraGateway.
func NewJiraGateway(baseURL string, creds Credentials, logger *slog.Logger) (Tracker, error) {
	client, err := jira.NewClient(newHTTPClient(creds), baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create jira client: %w", err)
	}
	return &JiraGateway{
		client: client,
		logger: logger,
	}, nil
}

func newHTTPClient(creds Credentials) *http.Client {
	switch {
	case creds.User != "":
		tp := jira.BasicAuthTransport{
			Username: creds.User,
			Password: creds.Token,
		}
		return tp.Client()
	case creds.Token != "":
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: creds.Token, TokenType: "Bearer"})
		return &http.Client{
			Transport: &oauth2.Transport{
				Base:   http.DefaultTransport,
				Source: ts,
			},
		}
	default:
		return &http.Client{}
	}
}

func (g *JiraGateway) ListProjectKeys(ctx context.Context) ([]string, error) {
	g.logger.Debug("Fetching project list from Jira")
	projects, _, err := g.client.Project.GetListWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list jira projects: %w", err)
	}
	if projects == nil {
		return []string{}, nil
	}

	keys := make([]string, 0, len(*projects))
	for _, p := range *projects {
		if p.Key == "" {
			continue
		}
		keys = append(keys, p.Key)
	}
	g.logger.Debug("Completed fetching project list", "projects", len(keys))
	return keys, nil
}

// ErrIncompleteIssue is returned when Jira answers without the requested fields.
var ErrIncompleteIssue = errors.New("jira issue is missing status or summary")

func (g *JiraGateway) GetIssue(ctx context.Context, key string) (*domain.Issue, error) {
	g.logger.Debug("Fetching issue", "issue", key)
	issue, _, err := g.client.Issue.GetWithContext(ctx, key, &jira.GetQueryOptions{Fields: issueFields})
	if err != nil {
		return nil, fmt.Errorf("failed to get jira issue %s: %w", key, err)
	}
	if issue == nil || issue.Fields == nil || issue.Fields.Status == nil {
		return nil, fmt.Errorf("jira issue %s: %w", key, ErrIncompleteIssue)
	}
	return &domain.Issue{
		Key:     key,
		Status:  issue.Fields.Status.Name,
		Summary: issue.Fields.Summary,
	}, nil
}
