// Package driven defines secondary port interfaces for external adapters.
package driven

import (
	"context"

	"github.com/ericfisherdev/armlabeler/internal/domain/model"
)

// GitHubClient defines the driven port for reading pull request state from
// the GitHub API. Every call hits the API; callers must not assume results
// are cached between calls.
type GitHubClient interface {
	// ListLabels returns the names of the labels currently on the issue or
	// pull request.
	ListLabels(ctx context.Context, repoFullName string, number int) ([]string, error)

	// FetchCheckRuns returns all check runs for the given ref (commit SHA or branch).
	FetchCheckRuns(ctx context.Context, repoFullName string, ref string) ([]model.CheckRun, error)
	// FetchCombinedStatus returns the combined commit status for the given ref.
	FetchCombinedStatus(ctx context.Context, repoFullName string, ref string) (*model.CombinedStatus, error)
	// FetchRequiredStatusChecks returns the required status check contexts
	// from the branch's protection rules. Returns nil if unprotected.
	FetchRequiredStatusChecks(ctx context.Context, repoFullName string, branch string) ([]string, error)
	// FetchRulesetRequiredChecks returns the required status check contexts
	// from every ruleset that applies to the branch.
	FetchRulesetRequiredChecks(ctx context.Context, repoFullName string, branch string) ([]string, error)
}
