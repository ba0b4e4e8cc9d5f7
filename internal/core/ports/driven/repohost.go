package driven

import (
	"context"

	"github.com/branchseek/branchseek/internal/core/domain"
)

// BranchLister enumerates the branches of a remote repository.
type BranchLister interface {
	// ListBranches returns all branches of the repository, paginated
	// transparently. Errors propagate the remote host's taxonomy and
	// are fatal to any search depending on the listing.
	ListBranches(ctx context.Context, repository string) ([]domain.Branch, error)
}

// BranchSearcher performs the content and filename search for a single
// branch. Implementations are stateless; all per-session state lives in
// the orchestrator.
type BranchSearcher interface {
	// SearchBranch searches one branch and returns at most budget
	// results. When both search modes are enabled the budget is split
	// evenly between them. A failing sub-search is tolerated locally;
	// SearchBranch only errors when the branch could not be searched
	// at all.
	SearchBranch(ctx context.Context, req domain.SearchRequest, branch domain.Branch, budget int) ([]domain.SearchResult, error)
}

// RepoSearcher finds repositories by keyword.
type RepoSearcher interface {
	// SearchRepositories returns the best-matching repositories for a
	// keyword, ordered by relevance.
	SearchRepositories(ctx context.Context, keyword string, limit int) ([]domain.Repository, error)
}

// QuotaReporter exposes the most recently observed rate-limit state.
// The snapshot is read-only telemetry; no cross-session coordination is
// derived from it.
type QuotaReporter interface {
	// Quota returns the latest rate-limit snapshot. The zero value
	// means no response headers have been observed yet.
	Quota() domain.RateQuota
}

// RepoHost aggregates everything the orchestrator needs from a remote
// repository host.
type RepoHost interface {
	BranchLister
	BranchSearcher
	RepoSearcher
	QuotaReporter
}
