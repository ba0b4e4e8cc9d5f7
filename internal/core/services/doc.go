// Package services implements the core use cases for branchseek.
//
// Services implement the driving port interfaces and depend only on the
// domain package and the driven port interfaces. Infrastructure is
// injected through constructors.
//
//   - SearchService: the all-branch search orchestrator
//   - SessionRegistry: per-session progress streams and result
//     aggregation
package services
