// Package mcp provides an MCP (Model Context Protocol) server adapter for
// branchseek. It lets AI assistants search every branch of a GitHub
// repository through the search_github_repo and list_repo_branches tools.
package mcp

import "errors"

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("mcp: search service is required")
