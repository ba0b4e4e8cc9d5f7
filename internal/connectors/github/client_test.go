package github

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/branchseek/branchseek/internal/core/domain"
)

// stubAPI points a Client at an httptest server.
func stubAPI(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClientWithHTTPClient(srv.Client(), true)
	base, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)
	c.gh.BaseURL = base
	return c
}

func writeRateHeaders(w http.ResponseWriter, remaining int) {
	w.Header().Set(HeaderRateLimit, "5000")
	w.Header().Set(HeaderRateRemaining, fmt.Sprintf("%d", remaining))
	w.Header().Set(HeaderRateReset, fmt.Sprintf("%d", time.Now().Add(time.Hour).Unix()))
	w.Header().Set("Content-Type", "application/json")
}

func TestClient_ListBranches(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/widgets/branches", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "100", r.URL.Query().Get("per_page"))
		writeRateHeaders(w, 4999)
		fmt.Fprint(w, `[
			{"name": "main", "commit": {"sha": "abc123"}},
			{"name": "dev", "commit": {"sha": "def456"}}
		]`)
	})

	c := stubAPI(t, mux)

	branches, err := c.ListBranches(context.Background(), "acme/widgets")
	require.NoError(t, err)
	require.Len(t, branches, 2)

	assert.Equal(t, "main", branches[0].Name)
	assert.True(t, branches[0].IsDefault)
	assert.Equal(t, "abc123", branches[0].HeadCommitSHA)
	assert.Nil(t, branches[0].HeadCommitDate)

	assert.Equal(t, "dev", branches[1].Name)
	assert.False(t, branches[1].IsDefault)

	// Quota telemetry was decoded from the response headers.
	assert.Equal(t, 4999, c.Quota().Remaining)
}

func TestClient_ListBranches_NotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/gone/branches", func(w http.ResponseWriter, r *http.Request) {
		writeRateHeaders(w, 4998)
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message": "Not Found"}`)
	})

	c := stubAPI(t, mux)

	_, err := c.ListBranches(context.Background(), "acme/gone")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestClient_ListBranches_RejectsBadRepository(t *testing.T) {
	c := testClient()
	_, err := c.ListBranches(context.Background(), "not-a-repo")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestClient_SearchBranch_ContentAndFilename(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search/code", func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Query().Get("q"), "repo:acme/widgets")
		writeRateHeaders(w, 4997)
		fmt.Fprint(w, `{
			"total_count": 1,
			"items": [
				{"name": "app.js", "path": "src/app.js",
				 "html_url": "https://github.com/acme/widgets/blob/main/src/app.js",
				 "text_matches": [{"fragment": "a test snippet"}]}
			]
		}`)
	})
	mux.HandleFunc("/repos/acme/widgets/contents/src/app.js", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "dev", r.URL.Query().Get("ref"))
		writeRateHeaders(w, 4996)
		// "first line\nthe test line\nlast line" base64-encoded.
		fmt.Fprint(w, `{"type": "file", "encoding": "base64", "name": "app.js", "path": "src/app.js",
			"content": "Zmlyc3QgbGluZQp0aGUgdGVzdCBsaW5lCmxhc3QgbGluZQ=="}`)
	})
	mux.HandleFunc("/repos/acme/widgets/git/trees/dev", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("recursive"))
		writeRateHeaders(w, 4995)
		fmt.Fprint(w, `{"sha": "t1", "tree": [
			{"path": "test.js", "type": "blob"},
			{"path": "src", "type": "tree"},
			{"path": "docs/readme.md", "type": "blob"}
		]}`)
	})

	c := stubAPI(t, mux)

	req := testRequest()
	results, err := c.SearchBranch(context.Background(), req, domain.Branch{Name: "dev"}, 10)
	require.NoError(t, err)
	require.Len(t, results, 2)

	content := results[0]
	assert.Equal(t, domain.MatchContent, content.Kind)
	assert.Equal(t, "dev", content.Branch)
	assert.Equal(t, "src/app.js", content.FilePath)
	assert.Equal(t, 2, content.LineNumber)
	assert.Equal(t, "https://github.com/acme/widgets/blob/dev/src/app.js#L2", content.URL)

	filename := results[1]
	assert.Equal(t, domain.MatchFilename, filename.Kind)
	assert.Equal(t, "test.js", filename.FilePath)
}

func TestClient_SearchBranch_FallsBackToSnippet(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search/code", func(w http.ResponseWriter, r *http.Request) {
		writeRateHeaders(w, 4994)
		fmt.Fprint(w, `{
			"total_count": 1,
			"items": [
				{"name": "app.js", "path": "src/app.js",
				 "html_url": "https://github.com/acme/widgets/blob/main/src/app.js",
				 "text_matches": [{"fragment": "fallback snippet"}]}
			]
		}`)
	})
	mux.HandleFunc("/repos/acme/widgets/contents/src/app.js", func(w http.ResponseWriter, r *http.Request) {
		// The file does not exist on this branch.
		writeRateHeaders(w, 4993)
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message": "Not Found"}`)
	})

	c := stubAPI(t, mux)

	req := testRequest()
	req.SearchInFilenames = false

	results, err := c.SearchBranch(context.Background(), req, domain.Branch{Name: "old-branch"}, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)

	r := results[0]
	assert.Equal(t, "old-branch", r.Branch)
	assert.Zero(t, r.LineNumber)
	assert.Equal(t, "fallback snippet", r.Context)
}

func TestClient_SearchBranch_ToleratesSubSearchFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search/code", func(w http.ResponseWriter, r *http.Request) {
		// Content search is broken...
		writeRateHeaders(w, 4992)
		w.WriteHeader(http.StatusUnprocessableEntity)
		fmt.Fprint(w, `{"message": "Validation Failed"}`)
	})
	mux.HandleFunc("/repos/acme/widgets/git/trees/main", func(w http.ResponseWriter, r *http.Request) {
		// ...but the tree listing still works.
		writeRateHeaders(w, 4991)
		fmt.Fprint(w, `{"sha": "t1", "tree": [{"path": "test.go", "type": "blob"}]}`)
	})

	c := stubAPI(t, mux)

	results, err := c.SearchBranch(context.Background(), testRequest(), domain.Branch{Name: "main"}, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, domain.MatchFilename, results[0].Kind)
}

func TestClient_SearchBranch_ZeroBudget(t *testing.T) {
	c := testClient()
	results, err := c.SearchBranch(context.Background(), testRequest(), domain.Branch{Name: "main"}, 0)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestClient_SearchRepositories(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search/repositories", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "widgets", r.URL.Query().Get("q"))
		writeRateHeaders(w, 4990)
		fmt.Fprint(w, `{
			"total_count": 1,
			"items": [
				{"full_name": "acme/widgets", "description": "widget factory",
				 "stargazers_count": 42, "html_url": "https://github.com/acme/widgets"}
			]
		}`)
	})

	c := stubAPI(t, mux)

	repos, err := c.SearchRepositories(context.Background(), "widgets", 0)
	require.NoError(t, err)
	require.Len(t, repos, 1)
	assert.Equal(t, "acme/widgets", repos[0].FullName)
	assert.Equal(t, 42, repos[0].Stars)
}

func TestNewClient_WithoutToken(t *testing.T) {
	c := NewClient(context.Background(), "")
	require.NotNil(t, c)
	assert.Equal(t, UnauthenticatedRateLimit, c.Quota().Limit)
}
