package services

import (
	"context"
	"fmt"
	"time"

	"github.com/branchseek/branchseek/internal/core/domain"
	"github.com/branchseek/branchseek/internal/core/ports/driven"
	"github.com/branchseek/branchseek/internal/core/ports/driving"
	"github.com/branchseek/branchseek/internal/logger"
)

// DefaultBranchDelay is the fixed pause between branch searches. The
// remote quota is shared per credential regardless of concurrency, so
// branches are searched sequentially with this delay in between.
const DefaultBranchDelay = time.Second

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// SearchService orchestrates all-branch keyword searches: it enumerates
// branches, searches them one at a time under a fixed inter-branch
// delay, aggregates results against the request's budget, tolerates
// per-branch failures and emits progress events through the session
// registry.
type SearchService struct {
	host     driven.RepoHost
	sessions *SessionRegistry
	delay    time.Duration
}

// NewSearchService creates a search service. A non-positive delay falls
// back to DefaultBranchDelay.
func NewSearchService(host driven.RepoHost, sessions *SessionRegistry, delay time.Duration) *SearchService {
	if delay <= 0 {
		delay = DefaultBranchDelay
	}
	return &SearchService{
		host:     host,
		sessions: sessions,
		delay:    delay,
	}
}

// Sessions returns the session registry backing this service.
func (s *SearchService) Sessions() *SessionRegistry {
	return s.sessions
}

// StartSearch validates the request, creates a session and begins
// orchestration asynchronously.
func (s *SearchService) StartSearch(ctx context.Context, req domain.SearchRequest) (string, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return "", err
	}

	sessionID := s.sessions.Create(req)

	// The session outlives the caller's request scope; dropping all
	// subscribers does not stop it either.
	go s.run(context.WithoutCancel(ctx), sessionID, req)

	return sessionID, nil
}

// SearchAndWait runs a search synchronously over the same orchestration
// path and returns the aggregated results.
func (s *SearchService) SearchAndWait(ctx context.Context, req domain.SearchRequest) ([]domain.SearchResult, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	sessionID := s.sessions.Create(req)
	s.run(ctx, sessionID, req)

	status, err := s.sessions.Status(sessionID)
	if err != nil {
		return nil, err
	}
	results, err := s.sessions.Snapshot(sessionID)
	if err != nil {
		return nil, err
	}
	if status == domain.SessionFailed {
		return results, fmt.Errorf("search %s failed during branch enumeration", sessionID)
	}
	return results, nil
}

// Subscribe attaches a live listener to a session's progress stream.
func (s *SearchService) Subscribe(sessionID string) (<-chan domain.ProgressEvent, func(), error) {
	return s.sessions.Subscribe(sessionID)
}

// Results returns the current aggregated results of a session.
func (s *SearchService) Results(sessionID string) ([]domain.SearchResult, error) {
	return s.sessions.Snapshot(sessionID)
}

// ListBranches enumerates branches of a repository.
func (s *SearchService) ListBranches(ctx context.Context, repository string) ([]domain.Branch, error) {
	if err := domain.ValidateRepository(repository); err != nil {
		return nil, err
	}
	return s.host.ListBranches(ctx, repository)
}

// SearchRepositories finds repositories matching a keyword.
func (s *SearchService) SearchRepositories(ctx context.Context, keyword string) ([]domain.Repository, error) {
	if keyword == "" {
		return nil, fmt.Errorf("%w: keyword is required", domain.ErrInvalidInput)
	}
	return s.host.SearchRepositories(ctx, keyword, 0)
}

// run executes the orchestration state machine for one session.
// Branch iteration is sequential with a fixed delay between branches:
// fan-out would not raise effective throughput against a shared
// per-credential quota, and sequential order keeps Match events in a
// stable branch-then-discovery order.
func (s *SearchService) run(ctx context.Context, sessionID string, req domain.SearchRequest) {
	logger.Section("All-Branch Search")
	logger.Info("Session %s: searching %q in %s", sessionID, req.Keyword, req.Repository)

	s.publish(sessionID, domain.EventStart,
		fmt.Sprintf("Starting search for %q in %s", req.Keyword, req.Repository),
		map[string]any{"keyword": req.Keyword, "repository": req.Repository})

	branches, err := s.host.ListBranches(ctx, req.Repository)
	if err != nil {
		// No branches means no search is possible.
		logger.Warn("Session %s: branch enumeration failed: %v", sessionID, err)
		s.publish(sessionID, domain.EventError,
			fmt.Sprintf("Search failed: %v", err),
			map[string]any{"errorType": domain.ErrorKind(err), "detail": err.Error()})
		s.sessions.Finish(sessionID, domain.SessionFailed)
		return
	}

	s.publish(sessionID, domain.EventInfo,
		fmt.Sprintf("Found %d branches to search", len(branches)),
		map[string]any{"totalBranches": len(branches)})

	quotaWatch := newQuotaWatch(s.host)
	collected := 0

	for i, branch := range branches {
		if collected >= req.MaxResults {
			logger.Debug("Session %s: result budget reached, stopping", sessionID)
			break
		}
		if i > 0 {
			s.sleep(ctx, s.delay)
		}

		s.publish(sessionID, domain.EventBranch,
			fmt.Sprintf("Searching branch %d/%d: %s", i+1, len(branches), branch.Name),
			map[string]any{"branchIndex": i, "totalBranches": len(branches), "branchName": branch.Name})

		results, err := s.host.SearchBranch(ctx, req, branch, req.MaxResults-collected)
		if err != nil {
			// Non-fatal: the branch contributes nothing and the
			// loop continues.
			logger.Warn("Session %s: branch %s failed: %v", sessionID, branch.Name, err)
			s.publish(sessionID, domain.EventWarning,
				fmt.Sprintf("Error searching branch %s: %v", branch.Name, err),
				map[string]any{"branchName": branch.Name, "errorType": domain.ErrorKind(err), "detail": err.Error()})
			s.warnOnLowQuota(sessionID, quotaWatch)
			continue
		}

		collected = s.sessions.AppendResults(sessionID, results)

		if len(results) > 0 {
			s.publish(sessionID, domain.EventResults,
				fmt.Sprintf("Found %d results in branch %s", len(results), branch.Name),
				map[string]any{"branchName": branch.Name, "count": len(results)})
			for _, r := range results {
				s.publish(sessionID, domain.EventMatch,
					fmt.Sprintf("Match in %s:%s", branch.Name, r.FilePath),
					map[string]any{"result": r})
			}
		} else {
			s.publish(sessionID, domain.EventInfo,
				fmt.Sprintf("No matches in branch %s", branch.Name), nil)
		}

		s.warnOnLowQuota(sessionID, quotaWatch)
	}

	logger.Info("Session %s: completed with %d results", sessionID, collected)
	s.publish(sessionID, domain.EventComplete,
		fmt.Sprintf("Search completed. Found %d total results.", collected),
		map[string]any{"totalResults": collected})
	s.sessions.Finish(sessionID, domain.SessionCompleted)
}

func (s *SearchService) publish(sessionID string, kind domain.EventKind, message string, payload map[string]any) {
	s.sessions.Publish(sessionID, domain.NewEvent(kind, message, payload))
}

// sleep pauses between branches. The context only shortens the wait for
// the synchronous path; sessions themselves are never cancelled.
func (s *SearchService) sleep(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}

// quotaWatch latches rate-limit warnings so each threshold fires at
// most once per session.
type quotaWatch struct {
	quota          driven.QuotaReporter
	warnedLow      bool
	warnedCritical bool
}

func newQuotaWatch(quota driven.QuotaReporter) *quotaWatch {
	return &quotaWatch{quota: quota}
}

func (s *SearchService) warnOnLowQuota(sessionID string, w *quotaWatch) {
	q := w.quota.Quota()

	if q.Critical() && !w.warnedCritical {
		w.warnedCritical = true
		s.publish(sessionID, domain.EventWarning,
			fmt.Sprintf("API rate limit nearly exhausted: %d of %d requests remaining", q.Remaining, q.Limit),
			map[string]any{"errorType": "rate_limit", "detail": "critical", "remaining": q.Remaining, "limit": q.Limit})
		return
	}

	if q.Low() && !w.warnedLow {
		w.warnedLow = true
		s.publish(sessionID, domain.EventWarning,
			fmt.Sprintf("API rate limit is low: %d of %d requests remaining", q.Remaining, q.Limit),
			map[string]any{"errorType": "rate_limit", "detail": "low", "remaining": q.Remaining, "limit": q.Limit})
	}
}
