package mcp

import (
	"context"

	"github.com/branchseek/branchseek/internal/core/domain"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	sessionID string
	results   []domain.SearchResult
	branches  []domain.Branch
	repos     []domain.Repository
	err       error

	lastRequest domain.SearchRequest
}

func (m *mockSearchService) StartSearch(_ context.Context, req domain.SearchRequest) (string, error) {
	m.lastRequest = req
	return m.sessionID, m.err
}

func (m *mockSearchService) SearchAndWait(_ context.Context, req domain.SearchRequest) ([]domain.SearchResult, error) {
	m.lastRequest = req
	return m.results, m.err
}

func (m *mockSearchService) Subscribe(_ string) (<-chan domain.ProgressEvent, func(), error) {
	if m.err != nil {
		return nil, nil, m.err
	}
	ch := make(chan domain.ProgressEvent)
	close(ch)
	return ch, func() {}, nil
}

func (m *mockSearchService) Results(_ string) ([]domain.SearchResult, error) {
	return m.results, m.err
}

func (m *mockSearchService) ListBranches(_ context.Context, _ string) ([]domain.Branch, error) {
	return m.branches, m.err
}

func (m *mockSearchService) SearchRepositories(_ context.Context, _ string) ([]domain.Repository, error) {
	return m.repos, m.err
}
