package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	gh "github.com/google/go-github/v82/github"

	"github.com/ericfisherdev/armlabeler/internal/domain/model"
)

// FetchCheckRuns retrieves all check runs for the given ref (commit SHA or branch).
// It handles pagination automatically and maps go-github types to domain model types.
func (c *Client) FetchCheckRuns(ctx context.Context, repoFullName string, ref string) ([]model.CheckRun, error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return nil, err
	}

	opts := &gh.ListCheckRunsOptions{
		ListOptions: gh.ListOptions{PerPage: 100},
	}

	var allRuns []model.CheckRun

	for {
		result, resp, err := c.gh.Checks.ListCheckRunsForRef(ctx, owner, repo, ref, opts)
		if err != nil {
			return nil, fmt.Errorf("listing check runs for %s@%s (page %d): %w", repoFullName, ref, opts.Page, err)
		}

		logRateLimit(resp, repoFullName+"/check-runs", opts.Page, len(result.CheckRuns))

		for _, cr := range result.CheckRuns {
			allRuns = append(allRuns, mapCheckRun(cr))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return allRuns, nil
}

// FetchCombinedStatus returns the combined commit status for the given ref.
// Returns nil, nil if no status checks are configured (zero statuses and empty state).
func (c *Client) FetchCombinedStatus(ctx context.Context, repoFullName string, ref string) (*model.CombinedStatus, error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return nil, err
	}

	cs, resp, err := c.gh.Repositories.GetCombinedStatus(ctx, owner, repo, ref, nil)
	if err != nil {
		return nil, fmt.Errorf("fetching combined status for %s@%s: %w", repoFullName, ref, err)
	}

	logRateLimit(resp, repoFullName+"/status", 0, len(cs.Statuses))

	return mapCombinedStatus(cs), nil
}

// FetchRequiredStatusChecks returns the list of required status check contexts
// for the given branch's protection rules. Returns nil, nil if the branch is
// not protected (404) or if we lack permissions (403).
func (c *Client) FetchRequiredStatusChecks(ctx context.Context, repoFullName string, branch string) ([]string, error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return nil, err
	}

	checks, resp, err := c.gh.Repositories.GetRequiredStatusChecks(ctx, owner, repo, branch)
	if err != nil {
		if absent(resp) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetching required status checks for %s branch %s: %w", repoFullName, branch, err)
	}

	logRateLimit(resp, repoFullName+"/required-checks", 0, 0)

	requiredContexts := checks.GetChecks()
	if requiredContexts == nil {
		return nil, nil
	}

	var contexts []string
	for _, check := range requiredContexts {
		contexts = append(contexts, check.Context)
	}

	return contexts, nil
}

// FetchRulesetRequiredChecks returns the required status check contexts of
// every active ruleset that applies to branch, in ruleset order with
// duplicates collapsed. Returns nil, nil on 404 or 403, like
// FetchRequiredStatusChecks.
func (c *Client) FetchRulesetRequiredChecks(ctx context.Context, repoFullName string, branch string) ([]string, error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return nil, err
	}

	opts := &gh.ListOptions{PerPage: 100}
	var contexts []string
	seen := make(map[string]bool)

	for {
		rules, resp, err := c.gh.Repositories.GetRulesForBranch(ctx, owner, repo, branch, opts)
		if err != nil {
			if absent(resp) {
				return nil, nil
			}
			return nil, fmt.Errorf("fetching branch rules for %s branch %s (page %d): %w", repoFullName, branch, opts.Page, err)
		}

		var statusRules []*gh.RequiredStatusChecksBranchRule
		if rules != nil {
			statusRules = rules.RequiredStatusChecks
		}
		logRateLimit(resp, repoFullName+"/rules", opts.Page, len(statusRules))

		for _, rule := range statusRules {
			for _, check := range rule.Parameters.RequiredStatusChecks {
				if check == nil || check.Context == "" || seen[check.Context] {
					continue
				}
				seen[check.Context] = true
				contexts = append(contexts, check.Context)
			}
			slog.Debug("ruleset required checks", "repo", repoFullName, "branch", branch,
				"ruleset_id", rule.RulesetID, "source", rule.RulesetSource, "checks", len(rule.Parameters.RequiredStatusChecks))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return contexts, nil
}

// absent reports whether a failed response means the branch carries no
// readable protection: not found, or the token may not see it.
func absent(resp *gh.Response) bool {
	return resp != nil && (resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusForbidden)
}

// mapCheckRun converts a go-github CheckRun to a domain model CheckRun.
func mapCheckRun(cr *gh.CheckRun) model.CheckRun {
	var startedAt, completedAt time.Time
	if cr.StartedAt != nil {
		startedAt = cr.GetStartedAt().Time
	}
	if cr.CompletedAt != nil {
		completedAt = cr.GetCompletedAt().Time
	}

	return model.CheckRun{
		ID:          cr.GetID(),
		Name:        cr.GetName(),
		Status:      cr.GetStatus(),
		Conclusion:  cr.GetConclusion(),
		IsRequired:  false, // Set later by the checks service from protection and ruleset data.
		DetailsURL:  cr.GetDetailsURL(),
		StartedAt:   startedAt,
		CompletedAt: completedAt,
	}
}

// mapCombinedStatus converts a go-github CombinedStatus to a domain model CombinedStatus.
// Returns nil if no statuses exist and state is empty (no CI configured).
func mapCombinedStatus(cs *gh.CombinedStatus) *model.CombinedStatus {
	if len(cs.Statuses) == 0 && cs.GetState() == "" {
		return nil
	}

	statuses := make([]model.CommitStatus, 0, len(cs.Statuses))
	for _, s := range cs.Statuses {
		statuses = append(statuses, model.CommitStatus{
			Context:     s.GetContext(),
			State:       s.GetState(),
			Description: s.GetDescription(),
			TargetURL:   s.GetTargetURL(),
		})
	}

	return &model.CombinedStatus{
		State:    cs.GetState(),
		Statuses: statuses,
	}
}
