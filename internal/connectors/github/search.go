package github

import (
	"context"
	"fmt"
	"strings"

	"github.com/branchseek/branchseek/internal/core/domain"
	"github.com/branchseek/branchseek/internal/logger"
)

// Lines of surrounding context captured around a content match.
const (
	contextLinesBefore = 3
	contextLinesAfter  = 3
)

// codeSearchPageCap is the endpoint's maximum page size.
const codeSearchPageCap = 100

// SearchBranch searches one branch for content and filename matches,
// returning at most budget results. The budget is split evenly between
// the two match kinds when both are enabled; a sub-search that fails is
// logged and skipped so the other can still contribute.
func (c *Client) SearchBranch(
	ctx context.Context, req domain.SearchRequest, branch domain.Branch, budget int,
) ([]domain.SearchResult, error) {
	if budget <= 0 {
		return nil, nil
	}

	contentBudget, filenameBudget := splitBudget(req, budget)

	var results []domain.SearchResult

	if req.SearchInFiles && contentBudget > 0 {
		contentResults, err := c.searchFileContents(ctx, req, branch.Name, contentBudget)
		if err != nil {
			logger.Warn("Content search failed on branch %s: %v", branch.Name, err)
		} else {
			results = append(results, contentResults...)
		}
	}

	if req.SearchInFilenames && filenameBudget > 0 {
		nameResults, err := c.searchFilenames(ctx, req, branch.Name, filenameBudget)
		if err != nil {
			logger.Warn("Filename search failed on branch %s: %v", branch.Name, err)
		} else {
			results = append(results, nameResults...)
		}
	}

	if len(results) > budget {
		results = results[:budget]
	}
	return results, nil
}

// splitBudget partitions a branch budget between the enabled match
// kinds: half each when both run, the whole budget otherwise.
func splitBudget(req domain.SearchRequest, budget int) (content, filename int) {
	switch {
	case req.SearchInFiles && req.SearchInFilenames:
		return budget / 2, budget / 2
	case req.SearchInFiles:
		return budget, 0
	case req.SearchInFilenames:
		return 0, budget
	default:
		return 0, 0
	}
}

// searchFileContents finds keyword occurrences inside file bodies.
// The code-search endpoint only indexes the default branch, so every
// hit's file is re-fetched at the target branch and scanned line by
// line for exact, branch-accurate matches.
func (c *Client) searchFileContents(
	ctx context.Context, req domain.SearchRequest, branch string, budget int,
) ([]domain.SearchResult, error) {
	owner, name, err := domain.SplitRepository(req.Repository)
	if err != nil {
		return nil, err
	}

	limit := budget
	if limit > codeSearchPageCap {
		limit = codeSearchPageCap
	}

	hits, err := c.searchCode(ctx, buildCodeQuery(req), limit)
	if err != nil {
		return nil, err
	}

	var results []domain.SearchResult
	for _, hit := range hits {
		if len(results) >= budget {
			break
		}

		content, err := c.fileContent(ctx, owner, name, hit.Path, branch)
		if err != nil {
			// File may not exist on this branch; degrade to the
			// endpoint's own snippet.
			logger.Debug("Branch-exact fetch failed for %s@%s, using search snippet: %v", hit.Path, branch, err)
			results = append(results, fallbackResult(req, branch, hit))
			continue
		}

		matches := findKeywordInContent(req.Keyword, content, hit.Path, branch, req.Repository)
		results = append(results, matches...)
	}

	if len(results) > budget {
		results = results[:budget]
	}
	return results, nil
}

// buildCodeQuery combines the keyword, a repository filter and one
// extension qualifier per requested file extension.
func buildCodeQuery(req domain.SearchRequest) string {
	var sb strings.Builder
	sb.WriteString(req.Keyword)
	sb.WriteString(" repo:")
	sb.WriteString(req.Repository)
	for _, ext := range req.FileExtensions {
		sb.WriteString(" extension:")
		sb.WriteString(strings.TrimPrefix(ext, "."))
	}
	return sb.String()
}

// fallbackResult builds a result from the search endpoint's snippet
// when the branch-exact file body is unavailable. No line number is
// known in this case.
func fallbackResult(req domain.SearchRequest, branch string, hit codeHit) domain.SearchResult {
	context := hit.Fragment
	if context == "" {
		context = "Match found in file"
	}
	return domain.SearchResult{
		Branch:   branch,
		FilePath: hit.Path,
		Kind:     domain.MatchContent,
		Context:  context,
		URL:      hit.HTMLURL,
		Score:    domain.ScoreContentMatch,
	}
}

// findKeywordInContent scans file content line by line for the keyword
// as a case-insensitive substring. Every matching line yields one
// result carrying a window of surrounding lines as context.
func findKeywordInContent(keyword, content, filePath, branch, repository string) []domain.SearchResult {
	lines := strings.Split(content, "\n")
	keywordLower := strings.ToLower(keyword)

	var results []domain.SearchResult
	for i, line := range lines {
		if !strings.Contains(strings.ToLower(line), keywordLower) {
			continue
		}

		start := i - contextLinesBefore
		if start < 0 {
			start = 0
		}
		end := i + contextLinesAfter + 1
		if end > len(lines) {
			end = len(lines)
		}

		results = append(results, domain.SearchResult{
			Branch:     branch,
			FilePath:   filePath,
			Kind:       domain.MatchContent,
			LineNumber: i + 1,
			Context:    strings.Join(lines[start:end], "\n"),
			URL:        fmt.Sprintf("https://github.com/%s/blob/%s/%s#L%d", repository, branch, filePath, i+1),
			Score:      domain.ScoreContentMatch,
		})
	}
	return results
}

// searchFilenames finds keyword occurrences inside file paths using the
// branch's full recursive tree listing.
func (c *Client) searchFilenames(
	ctx context.Context, req domain.SearchRequest, branch string, budget int,
) ([]domain.SearchResult, error) {
	owner, name, err := domain.SplitRepository(req.Repository)
	if err != nil {
		return nil, err
	}

	paths, err := c.tree(ctx, owner, name, branch)
	if err != nil {
		return nil, err
	}

	return matchFilenames(paths, req, branch, budget), nil
}

// matchFilenames applies the filename matching rules to a tree listing:
// case-insensitive substring on the path, optional extension filter,
// score 100 on full-path equality and 50 otherwise, early exit once the
// budget is filled.
func matchFilenames(paths []string, req domain.SearchRequest, branch string, budget int) []domain.SearchResult {
	keywordLower := strings.ToLower(req.Keyword)

	var results []domain.SearchResult
	for _, path := range paths {
		pathLower := strings.ToLower(path)
		if !strings.Contains(pathLower, keywordLower) {
			continue
		}
		if !extensionAllowed(pathLower, req.FileExtensions) {
			continue
		}

		score := float64(domain.ScoreFilenamePartial)
		if pathLower == keywordLower {
			score = domain.ScoreFilenameExact
		}

		results = append(results, domain.SearchResult{
			Branch:   branch,
			FilePath: path,
			Kind:     domain.MatchFilename,
			Context:  fmt.Sprintf("Filename contains %q", req.Keyword),
			URL:      fmt.Sprintf("https://github.com/%s/blob/%s/%s", req.Repository, branch, path),
			Score:    score,
		})

		if len(results) >= budget {
			break
		}
	}
	return results
}

// extensionAllowed reports whether a lowercased path passes the
// extension filter. An empty filter allows everything.
func extensionAllowed(pathLower string, extensions []string) bool {
	if len(extensions) == 0 {
		return true
	}
	for _, ext := range extensions {
		if strings.HasSuffix(pathLower, strings.ToLower(ext)) {
			return true
		}
	}
	return false
}
