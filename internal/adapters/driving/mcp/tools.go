package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/branchseek/branchseek/internal/core/domain"
)

// SearchInput is the input schema for the search_github_repo tool.
type SearchInput struct {
	Keyword           string   `json:"keyword" jsonschema:"the keyword to search for in the repository"`
	Repository        string   `json:"repository" jsonschema:"GitHub repository in owner/repo format (e.g. microsoft/vscode)"`
	SearchInFiles     *bool    `json:"searchInFiles,omitempty" jsonschema:"whether to search in file contents (default true)"`
	SearchInFilenames *bool    `json:"searchInFilenames,omitempty" jsonschema:"whether to search in file names (default true)"`
	FileExtensions    []string `json:"fileExtensions,omitempty" jsonschema:"file extensions to filter by (e.g. .js, .py)"`
	MaxResults        int      `json:"maxResults,omitempty" jsonschema:"maximum number of results to return (default 50)"`
}

// SearchOutput is the output schema for the search_github_repo tool.
type SearchOutput struct {
	Results []domain.SearchResult `json:"results"`
	Count   int                   `json:"count"`
}

// BranchesInput is the input schema for the list_repo_branches tool.
type BranchesInput struct {
	Repository string `json:"repository" jsonschema:"GitHub repository in owner/repo format"`
}

// BranchesOutput is the output schema for the list_repo_branches tool.
type BranchesOutput struct {
	Branches []domain.Branch `json:"branches"`
	Count    int             `json:"count"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_github_repo",
		Description: "Search for keywords across all branches in a GitHub repository",
	}, s.handleSearchRepo)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_repo_branches",
		Description: "List all branches in a GitHub repository",
	}, s.handleListBranches)
}

// handleSearchRepo handles the search_github_repo tool invocation. The
// search runs synchronously; the result text is a markdown report.
func (s *Server) handleSearchRepo(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	req := domain.SearchRequest{
		Keyword:           input.Keyword,
		Repository:        input.Repository,
		SearchInFiles:     boolOrDefault(input.SearchInFiles, true),
		SearchInFilenames: boolOrDefault(input.SearchInFilenames, true),
		FileExtensions:    input.FileExtensions,
		MaxResults:        input.MaxResults,
	}

	results, err := s.ports.Search.SearchAndWait(ctx, req)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: results,
		Count:   len(results),
	}

	result := &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: formatSearchResults(results, input.Keyword, input.Repository)},
		},
	}
	return result, output, nil
}

// handleListBranches handles the list_repo_branches tool invocation.
func (s *Server) handleListBranches(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input BranchesInput,
) (*mcp.CallToolResult, BranchesOutput, error) {
	branches, err := s.ports.Search.ListBranches(ctx, input.Repository)
	if err != nil {
		return nil, BranchesOutput{}, err
	}

	output := BranchesOutput{
		Branches: branches,
		Count:    len(branches),
	}

	result := &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: formatBranchList(branches, input.Repository)},
		},
	}
	return result, output, nil
}

func boolOrDefault(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

// formatSearchResults renders results as a markdown report, one section
// per result.
func formatSearchResults(results []domain.SearchResult, keyword, repository string) string {
	if len(results) == 0 {
		return fmt.Sprintf("No results found for keyword %q in repository %s", keyword, repository)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Search Results for %q in %s\n\n", keyword, repository)
	fmt.Fprintf(&sb, "Found %d results across all branches:\n\n", len(results))

	for i, r := range results {
		fmt.Fprintf(&sb, "## Result %d\n", i+1)
		fmt.Fprintf(&sb, "- **Branch**: %s\n", r.Branch)
		fmt.Fprintf(&sb, "- **File**: %s\n", r.FilePath)
		fmt.Fprintf(&sb, "- **Line**: %s\n", lineOrNA(r.LineNumber))
		fmt.Fprintf(&sb, "- **Match Type**: %s\n", r.Kind)

		if r.Context != "" {
			fmt.Fprintf(&sb, "- **Context**:\n```\n%s\n```\n", r.Context)
		}
		if r.URL != "" {
			fmt.Fprintf(&sb, "- **GitHub URL**: %s\n", r.URL)
		}

		sb.WriteString("\n---\n\n")
	}

	return sb.String()
}

// formatBranchList renders a branch listing as markdown.
func formatBranchList(branches []domain.Branch, repository string) string {
	if len(branches) == 0 {
		return fmt.Sprintf("No branches found for repository %s", repository)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Branches in %s\n\n", repository)
	fmt.Fprintf(&sb, "Total branches: %d\n\n", len(branches))

	for i, b := range branches {
		fmt.Fprintf(&sb, "%d. **%s**", i+1, b.Name)
		if b.IsDefault {
			sb.WriteString(" (default)")
		}
		fmt.Fprintf(&sb, "\n   - Last commit: %s\n", shortSHA(b.HeadCommitSHA))
		fmt.Fprintf(&sb, "   - Last updated: %s\n\n", commitDate(b))
	}

	return sb.String()
}

func lineOrNA(line int) string {
	if line <= 0 {
		return "N/A"
	}
	return fmt.Sprintf("%d", line)
}

func shortSHA(sha string) string {
	if sha == "" {
		return "N/A"
	}
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}

func commitDate(b domain.Branch) string {
	if b.HeadCommitDate == nil {
		return "N/A"
	}
	return b.HeadCommitDate.Format("2006-01-02T15:04:05Z07:00")
}
