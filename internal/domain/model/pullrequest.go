package model

import "fmt"

// PullRequest identifies the pull request a command operates on, together
// with the commits and workspace it is evaluated against. It is built once
// per run from the Actions event payload and CLI overrides.
type PullRequest struct {
	Owner   string
	Repo    string
	Number  int
	BaseRef string // Target branch name, e.g. "main".
	HeadSHA string // Head commit of the pull request; used for check runs.

	// BaseCommit is the reference commit that changes are classified
	// against, typically "HEAD^" on the merge commit GitHub checks out.
	BaseCommit string
	// HeadCommit is the commit carrying the proposed changes.
	HeadCommit string
}

// FullName returns "owner/repo".
func (pr PullRequest) FullName() string {
	return pr.Owner + "/" + pr.Repo
}

// Validate fails with ErrNotPullRequest when the value does not identify a
// pull request.
func (pr PullRequest) Validate() error {
	if pr.Number <= 0 {
		return ErrNotPullRequest
	}
	if pr.Owner == "" || pr.Repo == "" {
		return fmt.Errorf("repository not set for pull request #%d", pr.Number)
	}
	return nil
}

func (pr PullRequest) String() string {
	return fmt.Sprintf("%s#%d", pr.FullName(), pr.Number)
}
