package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for branchseek resources.
	uriScheme = "branchseek://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Template for the aggregated results of a search session.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "sessions/{sessionId}/results",
		Name:        "session-results",
		Description: "Aggregated results of a search session",
		MIMEType:    "application/json",
	}, s.handleSessionResultsResource)

	// Template for a repository's branch listing.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "repos/{owner}/{repo}/branches",
		Name:        "repo-branches",
		Description: "Branches of a GitHub repository",
		MIMEType:    "application/json",
	}, s.handleBranchesResource)
}

// handleSessionResultsResource returns the aggregated results collected
// so far for a session.
func (s *Server) handleSessionResultsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	sessionID := extractSessionID(req.Params.URI)
	if sessionID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	results, err := s.ports.Search.Results(sessionID)
	if err != nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling results: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleBranchesResource returns the branch listing of a repository.
func (s *Server) handleBranchesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	repository := extractRepository(req.Params.URI)
	if repository == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	branches, err := s.ports.Search.ListBranches(ctx, repository)
	if err != nil {
		return nil, fmt.Errorf("listing branches: %w", err)
	}

	data, err := json.MarshalIndent(branches, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling branches: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractSessionID extracts the session ID from a URI like
// branchseek://sessions/{sessionId}/results.
func extractSessionID(uri string) string {
	const prefix = uriScheme + "sessions/"
	const suffix = "/results"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	uri = strings.TrimPrefix(uri, prefix)
	if !strings.HasSuffix(uri, suffix) {
		return ""
	}

	return strings.TrimSuffix(uri, suffix)
}

// extractRepository extracts "owner/repo" from a URI like
// branchseek://repos/{owner}/{repo}/branches.
func extractRepository(uri string) string {
	const prefix = uriScheme + "repos/"
	const suffix = "/branches"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	uri = strings.TrimPrefix(uri, prefix)
	if !strings.HasSuffix(uri, suffix) {
		return ""
	}

	repository := strings.TrimSuffix(uri, suffix)
	if strings.Count(repository, "/") != 1 {
		return ""
	}
	return repository
}
