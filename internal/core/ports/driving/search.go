package driving

import (
	"context"

	"github.com/branchseek/branchseek/internal/core/domain"
)

// SearchService exposes the all-branch search engine to external actors.
type SearchService interface {
	// StartSearch validates the request, creates a session and begins
	// orchestration asynchronously. It returns the session ID
	// immediately; progress is observed via Subscribe.
	// Validation failures wrap domain.ErrInvalidInput and no session
	// is created.
	StartSearch(ctx context.Context, req domain.SearchRequest) (string, error)

	// SearchAndWait runs a search synchronously over the same
	// orchestration path and returns the aggregated results.
	SearchAndWait(ctx context.Context, req domain.SearchRequest) ([]domain.SearchResult, error)

	// Subscribe attaches a live listener to a session's progress
	// stream. The returned cancel function detaches the listener; it
	// never halts the session. Events published while a session has no
	// subscribers are dropped, not replayed.
	Subscribe(sessionID string) (<-chan domain.ProgressEvent, func(), error)

	// Results returns the current aggregated results of a session.
	Results(sessionID string) ([]domain.SearchResult, error)

	// ListBranches enumerates branches of a repository. Standalone;
	// reusable outside a search.
	ListBranches(ctx context.Context, repository string) ([]domain.Branch, error)

	// SearchRepositories finds repositories matching a keyword.
	SearchRepositories(ctx context.Context, keyword string) ([]domain.Repository, error)
}
