package domain

import "time"

// Branch represents a single branch of a remote repository.
type Branch struct {
	// Name is the branch name, e.g. "main" or "feature/login".
	Name string `json:"name"`

	// IsDefault reports whether this is the repository's conventional
	// primary branch ("main" or "master").
	IsDefault bool `json:"isDefault"`

	// HeadCommitSHA is the SHA of the branch's head commit.
	HeadCommitSHA string `json:"headCommitSha"`

	// HeadCommitDate is the author date of the head commit, when known.
	HeadCommitDate *time.Time `json:"headCommitDate,omitempty"`
}

// DefaultBranchNames are the conventional primary branch names.
var DefaultBranchNames = []string{"main", "master"}

// IsDefaultBranchName reports whether name is a conventional primary
// branch name.
func IsDefaultBranchName(name string) bool {
	for _, n := range DefaultBranchNames {
		if name == n {
			return true
		}
	}
	return false
}

// Repository is a remote repository hit returned by repository search.
type Repository struct {
	// FullName is the "owner/name" identifier.
	FullName string `json:"fullName"`

	// Description is the repository description, possibly empty.
	Description string `json:"description,omitempty"`

	// Stars is the stargazer count.
	Stars int `json:"stars"`

	// URL is the repository's HTML URL.
	URL string `json:"url"`
}
