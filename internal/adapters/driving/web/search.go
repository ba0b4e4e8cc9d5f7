package web

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/branchseek/branchseek/internal/core/domain"
)

// SearchBody is the request body for POST /api/search.
type SearchBody struct {
	Keyword    string        `json:"keyword"`
	Repository string        `json:"repository"`
	Options    SearchOptions `json:"options"`
}

// SearchOptions carries the optional tuning knobs of a search request.
type SearchOptions struct {
	SearchInFiles     *bool    `json:"searchInFiles,omitempty"`
	SearchInFilenames *bool    `json:"searchInFilenames,omitempty"`
	FileExtensions    []string `json:"fileExtensions,omitempty"`
	MaxResults        int      `json:"maxResults,omitempty"`
}

// SearchResponse is the response body for POST /api/search.
type SearchResponse struct {
	Success  bool   `json:"success"`
	SearchID string `json:"searchId"`
	Message  string `json:"message"`
}

// handleSearch starts a search session and returns its ID immediately.
// Progress is observed on /api/search/progress/:searchId.
func (s *Server) handleSearch(c echo.Context) error {
	var body SearchBody
	if err := c.Bind(&body); err != nil {
		s.logger.Warn("invalid search request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	req := domain.SearchRequest{
		Keyword:           body.Keyword,
		Repository:        body.Repository,
		SearchInFiles:     optBool(body.Options.SearchInFiles, true),
		SearchInFilenames: optBool(body.Options.SearchInFilenames, true),
		FileExtensions:    body.Options.FileExtensions,
		MaxResults:        body.Options.MaxResults,
	}

	searchID, err := s.search.StartSearch(c.Request().Context(), req)
	if err != nil {
		return fail(c, err)
	}

	s.logger.Info("search started",
		zap.String("search_id", searchID),
		zap.String("keyword", body.Keyword),
		zap.String("repository", body.Repository),
	)

	return c.JSON(http.StatusOK, SearchResponse{
		Success:  true,
		SearchID: searchID,
		Message:  "Search initiated successfully",
	})
}

// BranchesResponse is the response body for GET /api/branches/:owner/:repo.
type BranchesResponse struct {
	Success    bool            `json:"success"`
	Branches   []domain.Branch `json:"branches"`
	Repository string          `json:"repository"`
}

// handleBranches lists all branches of a repository.
func (s *Server) handleBranches(c echo.Context) error {
	repository := c.Param("owner") + "/" + c.Param("repo")

	branches, err := s.search.ListBranches(c.Request().Context(), repository)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, BranchesResponse{
		Success:    true,
		Branches:   branches,
		Repository: repository,
	})
}

// RepoSearchBody is the request body for POST /api/search/repositories.
type RepoSearchBody struct {
	Keyword string `json:"keyword"`
}

// RepoSearchResponse is the response body for POST /api/search/repositories.
type RepoSearchResponse struct {
	Success      bool                `json:"success"`
	Repositories []domain.Repository `json:"repositories"`
	Keyword      string              `json:"keyword"`
}

// handleSearchRepositories finds repositories matching a keyword.
func (s *Server) handleSearchRepositories(c echo.Context) error {
	var body RepoSearchBody
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	repos, err := s.search.SearchRepositories(c.Request().Context(), body.Keyword)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, RepoSearchResponse{
		Success:      true,
		Repositories: repos,
		Keyword:      body.Keyword,
	})
}

func optBool(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
