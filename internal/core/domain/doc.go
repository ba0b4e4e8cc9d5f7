// Package domain defines the core business entities for branchseek.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Branch: A repository branch with its head commit metadata
//   - SearchRequest: A validated all-branch search request
//   - SearchResult: A single content or filename match
//   - ProgressEvent: A timestamped notification about a running search
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
