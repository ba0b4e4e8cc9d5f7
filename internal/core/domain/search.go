package domain

import (
	"fmt"
	"strings"
)

// DefaultMaxResults is applied when a request does not set MaxResults.
const DefaultMaxResults = 50

// MatchKind distinguishes content matches from filename matches.
type MatchKind string

const (
	// MatchContent is a keyword occurrence inside a file body.
	MatchContent MatchKind = "content"

	// MatchFilename is a keyword occurrence inside a file path.
	MatchFilename MatchKind = "filename"
)

// Fixed score bands for search results.
const (
	// ScoreContentMatch is assigned to every line-level content match.
	ScoreContentMatch = 75

	// ScoreFilenameExact is assigned when the full path equals the keyword.
	ScoreFilenameExact = 100

	// ScoreFilenamePartial is assigned when the path contains the keyword.
	ScoreFilenamePartial = 50
)

// SearchRequest describes an all-branch keyword search.
type SearchRequest struct {
	// Keyword is the case-insensitive search term. Required.
	Keyword string `json:"keyword"`

	// Repository is the target repository in "owner/name" form. Required.
	Repository string `json:"repository"`

	// SearchInFiles enables content search via the code-search endpoint.
	SearchInFiles bool `json:"searchInFiles"`

	// SearchInFilenames enables filename search via the recursive tree.
	SearchInFilenames bool `json:"searchInFilenames"`

	// FileExtensions restricts matches to the given extensions
	// (e.g. ".js", ".go"). Empty means no restriction.
	FileExtensions []string `json:"fileExtensions,omitempty"`

	// MaxResults caps the total number of results across all branches.
	MaxResults int `json:"maxResults"`
}

// Normalize fills request defaults. It does not validate.
func (r *SearchRequest) Normalize() {
	if r.MaxResults <= 0 {
		r.MaxResults = DefaultMaxResults
	}
}

// Validate checks the request invariants. Violations wrap ErrInvalidInput.
func (r SearchRequest) Validate() error {
	if strings.TrimSpace(r.Keyword) == "" {
		return fmt.Errorf("%w: keyword is required", ErrInvalidInput)
	}
	if err := ValidateRepository(r.Repository); err != nil {
		return err
	}
	if !r.SearchInFiles && !r.SearchInFilenames {
		return fmt.Errorf("%w: at least one of searchInFiles or searchInFilenames must be enabled", ErrInvalidInput)
	}
	if r.MaxResults <= 0 {
		return fmt.Errorf("%w: maxResults must be positive", ErrInvalidInput)
	}
	return nil
}

// SplitRepository splits an "owner/name" repository identifier.
func SplitRepository(repository string) (owner, name string, err error) {
	if err := ValidateRepository(repository); err != nil {
		return "", "", err
	}
	parts := strings.SplitN(repository, "/", 2)
	return parts[0], parts[1], nil
}

// ValidateRepository checks the "owner/name" repository grammar.
func ValidateRepository(repository string) error {
	parts := strings.Split(repository, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return fmt.Errorf("%w: repository must be in owner/name form, got %q", ErrInvalidInput, repository)
	}
	for _, part := range parts {
		for _, r := range part {
			switch {
			case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			case r == '-', r == '_', r == '.':
			default:
				return fmt.Errorf("%w: repository contains invalid character %q", ErrInvalidInput, r)
			}
		}
	}
	return nil
}

// SearchResult represents a single located keyword occurrence.
type SearchResult struct {
	// Branch is the branch the match was found on.
	Branch string `json:"branch"`

	// FilePath is the repository-relative path of the matched file.
	FilePath string `json:"filePath"`

	// Kind is the match type, content or filename.
	Kind MatchKind `json:"matchKind"`

	// LineNumber is the 1-based line of a content match.
	// Zero means unknown (filename matches and content fallbacks).
	LineNumber int `json:"lineNumber,omitempty"`

	// Context is the matched line with up to three lines before and
	// three after, joined by newlines. For filename matches it is a
	// short human-readable note.
	Context string `json:"context,omitempty"`

	// URL points at the match on the remote host, including the branch
	// and, for line matches, the line anchor.
	URL string `json:"url"`

	// Score is the relevance score; see the Score* constants.
	Score float64 `json:"score"`
}
