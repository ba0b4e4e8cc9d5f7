package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/branchseek/branchseek/internal/adapters/driven/config/file"
	"github.com/branchseek/branchseek/internal/core/domain"
)

// stubSearchService is a canned implementation of driving.SearchService.
type stubSearchService struct {
	sessionID string
	events    []domain.ProgressEvent
	results   []domain.SearchResult
	branches  []domain.Branch
	repos     []domain.Repository
	err       error

	lastRequest domain.SearchRequest
}

func (s *stubSearchService) StartSearch(_ context.Context, req domain.SearchRequest) (string, error) {
	s.lastRequest = req
	return s.sessionID, s.err
}

func (s *stubSearchService) SearchAndWait(_ context.Context, req domain.SearchRequest) ([]domain.SearchResult, error) {
	s.lastRequest = req
	return s.results, s.err
}

func (s *stubSearchService) Subscribe(_ string) (<-chan domain.ProgressEvent, func(), error) {
	if s.err != nil {
		return nil, nil, s.err
	}
	ch := make(chan domain.ProgressEvent, len(s.events))
	for _, ev := range s.events {
		ch <- ev
	}
	close(ch)
	return ch, func() {}, nil
}

func (s *stubSearchService) Results(_ string) ([]domain.SearchResult, error) {
	return s.results, s.err
}

func (s *stubSearchService) ListBranches(_ context.Context, _ string) ([]domain.Branch, error) {
	return s.branches, s.err
}

func (s *stubSearchService) SearchRepositories(_ context.Context, _ string) ([]domain.Repository, error) {
	return s.repos, s.err
}

// setupTestServices injects a stub search service and a temp config
// store, returning a cleanup that restores the previous wiring.
func setupTestServices(t *testing.T, stub *stubSearchService) func() {
	t.Helper()

	store, err := file.NewConfigStore(t.TempDir())
	require.NoError(t, err)

	prevSearch := searchService
	prevConfig := configStore
	searchService = stub
	configStore = store

	return func() {
		searchService = prevSearch
		configStore = prevConfig
	}
}
