package usecase

import (
	"context"
	"fmt"

	"github.com/stretchr/testify/mock"

	"github.com/naka-gawa/git-issue-extractor/internal/domain"
)

// mockTracker is a mock implementation of the gateway.Tracker interface.
// It allows us to simulate the issue tracker without making real API calls.
type mockTracker struct {
	mock.Mock
}

func (m *mockTracker) ListProjectKeys(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockTracker) GetIssue(ctx context.Context, key string) (*domain.Issue, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Issue), args.Error(1)
}

// mockHistory is a mock implementation of the gateway.History interface.
type mockHistory struct {
	mock.Mock
}

func (m *mockHistory) Log(ctx context.Context, start, end string, noMerges bool) (string, error) {
	args := m.Called(ctx, start, end, noMerges)
	return args.String(0), args.Error(1)
}

// recordingProgress keeps every progress event as a string.
type recordingProgress struct {
	events []string
}

func (p *recordingProgress) Start(total int) {
	p.events = append(p.events, fmt.Sprintf("start %d", total))
}

func (p *recordingProgress) Advance(current, total int, key string) {
	p.events = append(p.events, fmt.Sprintf("%d/%d %s", current, total, key))
}

func (p *recordingProgress) Finish() {
	p.events = append(p.events, "finish")
}
