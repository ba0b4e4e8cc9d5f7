package github

import (
	"context"
	"net/http"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"

	"github.com/branchseek/branchseek/internal/core/domain"
)

const (
	// DefaultTimeout is the HTTP request timeout for every API call.
	DefaultTimeout = 30 * time.Second

	// BranchPageSize is the page size used when enumerating branches.
	BranchPageSize = 100

	// RepoSearchLimit is the default page size for repository search.
	RepoSearchLimit = 20
)

// Client wraps the go-github client with rate-limit decoding and the
// domain error taxonomy. It implements driven.RepoHost together with
// the Searcher in this package.
type Client struct {
	gh          *gh.Client
	rateLimiter *RateLimiter
}

// NewClient creates a GitHub API client. An empty token is tolerated;
// the client then runs unauthenticated with the much smaller anonymous
// quota.
func NewClient(ctx context.Context, token string) *Client {
	var hc *http.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: token},
		)
		hc = oauth2.NewClient(ctx, ts)
	} else {
		hc = &http.Client{}
	}
	hc.Timeout = DefaultTimeout

	return &Client{
		gh:          gh.NewClient(hc),
		rateLimiter: NewRateLimiter(token != ""),
	}
}

// NewClientWithHTTPClient creates a client over a caller-supplied
// http.Client. Used by tests to point at a stub server.
func NewClientWithHTTPClient(hc *http.Client, authenticated bool) *Client {
	return &Client{
		gh:          gh.NewClient(hc),
		rateLimiter: NewRateLimiter(authenticated),
	}
}

// GitHub returns the underlying go-github client.
func (c *Client) GitHub() *gh.Client {
	return c.gh
}

// Quota returns the latest observed rate-limit snapshot.
func (c *Client) Quota() domain.RateQuota {
	return c.rateLimiter.Quota()
}

// ListBranches enumerates all branches of a repository, paginated at
// BranchPageSize per call. A branch is marked default when its name is
// one of the conventional primary branch names.
func (c *Client) ListBranches(ctx context.Context, repository string) ([]domain.Branch, error) {
	owner, name, err := domain.SplitRepository(repository)
	if err != nil {
		return nil, err
	}

	var branches []domain.Branch

	opts := &gh.BranchListOptions{
		ListOptions: gh.ListOptions{PerPage: BranchPageSize},
	}

	for {
		select {
		case <-ctx.Done():
			return branches, ctx.Err()
		default:
		}

		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, err
		}

		page, resp, err := c.gh.Repositories.ListBranches(ctx, owner, name, opts)
		if err != nil {
			return nil, c.wrapError(err, "list branches")
		}
		c.updateRateLimitFromResponse(resp)

		for _, b := range page {
			branches = append(branches, mapBranch(b))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return branches, nil
}

func mapBranch(b *gh.Branch) domain.Branch {
	branch := domain.Branch{
		Name:      b.GetName(),
		IsDefault: domain.IsDefaultBranchName(b.GetName()),
	}
	if commit := b.GetCommit(); commit != nil {
		branch.HeadCommitSHA = commit.GetSHA()
		if inner := commit.GetCommit(); inner != nil {
			if author := inner.GetAuthor(); author != nil && author.Date != nil {
				date := author.Date.Time
				branch.HeadCommitDate = &date
			}
		}
	}
	return branch
}

// codeHit is one item from the code-search endpoint.
type codeHit struct {
	Path     string
	HTMLURL  string
	Fragment string
}

// searchCode queries the code-search endpoint, capped at limit items.
func (c *Client) searchCode(ctx context.Context, query string, limit int) ([]codeHit, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	opts := &gh.SearchOptions{
		TextMatch:   true,
		ListOptions: gh.ListOptions{PerPage: limit},
	}

	result, resp, err := c.gh.Search.Code(ctx, query, opts)
	if err != nil {
		return nil, c.wrapError(err, "search code")
	}
	c.updateRateLimitFromResponse(resp)

	hits := make([]codeHit, 0, len(result.CodeResults))
	for _, item := range result.CodeResults {
		hit := codeHit{
			Path:    item.GetPath(),
			HTMLURL: item.GetHTMLURL(),
		}
		if len(item.TextMatches) > 0 {
			hit.Fragment = item.TextMatches[0].GetFragment()
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

// fileContent fetches the decoded content of a file at a specific ref.
func (c *Client) fileContent(ctx context.Context, owner, repo, path, ref string) (string, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return "", err
	}

	opts := &gh.RepositoryContentGetOptions{Ref: ref}
	content, _, resp, err := c.gh.Repositories.GetContents(ctx, owner, repo, path, opts)
	if err != nil {
		return "", c.wrapError(err, "get contents")
	}
	c.updateRateLimitFromResponse(resp)

	if content == nil {
		return "", domain.ErrNotFound
	}

	decoded, err := content.GetContent()
	if err != nil {
		return "", c.wrapError(err, "decode content")
	}
	return decoded, nil
}

// tree fetches the full recursive tree listing for a ref and returns
// the blob paths in listing order.
func (c *Client) tree(ctx context.Context, owner, repo, ref string) ([]string, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	t, resp, err := c.gh.Git.GetTree(ctx, owner, repo, ref, true)
	if err != nil {
		return nil, c.wrapError(err, "get tree")
	}
	c.updateRateLimitFromResponse(resp)

	var paths []string
	for _, entry := range t.Entries {
		if entry.GetType() != "blob" {
			continue
		}
		paths = append(paths, entry.GetPath())
	}
	return paths, nil
}

// SearchRepositories finds repositories matching a keyword, best match
// first.
func (c *Client) SearchRepositories(ctx context.Context, keyword string, limit int) ([]domain.Repository, error) {
	if limit <= 0 {
		limit = RepoSearchLimit
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	opts := &gh.SearchOptions{
		Sort:        "stars",
		Order:       "desc",
		ListOptions: gh.ListOptions{PerPage: limit},
	}

	result, resp, err := c.gh.Search.Repositories(ctx, keyword, opts)
	if err != nil {
		return nil, c.wrapError(err, "search repositories")
	}
	c.updateRateLimitFromResponse(resp)

	repos := make([]domain.Repository, 0, len(result.Repositories))
	for _, r := range result.Repositories {
		repos = append(repos, domain.Repository{
			FullName:    r.GetFullName(),
			Description: r.GetDescription(),
			Stars:       r.GetStargazersCount(),
			URL:         r.GetHTMLURL(),
		})
	}
	return repos, nil
}

// ValidateCredentials checks the configured token with a cheap API call.
func (c *Client) ValidateCredentials(ctx context.Context) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return err
	}

	_, resp, err := c.gh.Users.Get(ctx, "")
	if err != nil {
		return c.wrapError(err, "validate credentials")
	}
	c.updateRateLimitFromResponse(resp)
	return nil
}

func (c *Client) updateRateLimitFromResponse(resp *gh.Response) {
	if resp == nil || resp.Response == nil {
		return
	}
	c.rateLimiter.UpdateFromResponse(resp.Response)
}
