// Package github implements the driven.RepoHost port against the GitHub
// REST API.
//
// It provides:
//
//   - Client: authenticated API access with rate-limit decoding and a
//     typed error taxonomy (the RemoteClient)
//   - branch enumeration with transparent pagination
//   - per-branch content search (code-search endpoint plus branch-exact
//     file fetches) and filename search (recursive tree listing)
//
// The client is stateless with respect to search sessions; it holds only
// connection and rate-limit telemetry state.
package github
