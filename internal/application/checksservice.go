package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ericfisherdev/armlabeler/internal/domain/model"
	"github.com/ericfisherdev/armlabeler/internal/domain/port/driven"
)

// ChecksSummary is the required-check view of a pull request's head commit.
type ChecksSummary struct {
	CheckRuns        []model.CheckRun
	RequiredContexts []string
	// Missing lists required contexts with no check run or commit status.
	Missing  []string
	CIStatus model.CIStatus
}

// Passing reports whether every required context completed successfully.
func (s ChecksSummary) Passing() bool {
	return len(s.Missing) == 0 && s.CIStatus != model.CIStatusFailing && s.CIStatus != model.CIStatusPending
}

// ChecksService inspects the CI state of a pull request's head commit against
// the checks its base branch requires.
type ChecksService struct {
	client driven.GitHubClient
}

// NewChecksService creates a new ChecksService.
func NewChecksService(client driven.GitHubClient) *ChecksService {
	return &ChecksService{client: client}
}

// Summarize fetches required contexts from branch protection and rulesets,
// the check runs and commit statuses of the head commit, and computes the
// combined status of the required ones. With no required contexts the
// status is passing.
func (s *ChecksService) Summarize(ctx context.Context, pr model.PullRequest) (*ChecksSummary, error) {
	if err := pr.Validate(); err != nil {
		return nil, err
	}
	repo := pr.FullName()

	required, err := s.requiredContexts(ctx, repo, pr.BaseRef)
	if err != nil {
		return nil, err
	}

	checkRuns, err := s.client.FetchCheckRuns(ctx, repo, pr.HeadSHA)
	if err != nil {
		return nil, err
	}
	combined, err := s.client.FetchCombinedStatus(ctx, repo, pr.HeadSHA)
	if err != nil {
		return nil, err
	}

	markRequiredChecks(checkRuns, required)

	summary := &ChecksSummary{
		CheckRuns:        checkRuns,
		RequiredContexts: required,
		CIStatus:         model.CIStatusPassing,
	}
	if len(required) > 0 {
		summary.CIStatus, summary.Missing = resolveRequired(required, checkRuns, combined)
	}

	slog.Info("required checks",
		"pr", pr.String(),
		"required", len(required),
		"missing", summary.Missing,
		"status", summary.CIStatus,
	)
	return summary, nil
}

// RequiredChecksPassing reports whether every check required by the base
// branch passed on the head commit.
func (s *ChecksService) RequiredChecksPassing(ctx context.Context, pr model.PullRequest) (bool, error) {
	summary, err := s.Summarize(ctx, pr)
	if err != nil {
		return false, err
	}
	return summary.Passing(), nil
}

func (s *ChecksService) requiredContexts(ctx context.Context, repo, branch string) ([]string, error) {
	if branch == "" {
		return nil, fmt.Errorf("base branch not set for %s", repo)
	}

	protected, err := s.client.FetchRequiredStatusChecks(ctx, repo, branch)
	if err != nil {
		return nil, err
	}
	ruleset, err := s.client.FetchRulesetRequiredChecks(ctx, repo, branch)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(protected)+len(ruleset))
	var contexts []string
	for _, c := range append(protected, ruleset...) {
		key := strings.ToLower(c)
		if seen[key] {
			continue
		}
		seen[key] = true
		contexts = append(contexts, c)
	}
	return contexts, nil
}

// resolveRequired folds the check runs and commit statuses reported for each
// required context into one status, worst first: failing, pending, passing.
// Contexts nobody reported are returned as missing and do not affect the
// status; unknown means no required context was reported at all.
func resolveRequired(required []string, checkRuns []model.CheckRun, combined *model.CombinedStatus) (model.CIStatus, []string) {
	byContext := make(map[string]model.CIStatus, len(checkRuns))
	for _, cr := range checkRuns {
		key := strings.ToLower(cr.Name)
		byContext[key] = worst(byContext[key], runState(cr))
	}
	if combined != nil {
		for _, st := range combined.Statuses {
			key := strings.ToLower(st.Context)
			byContext[key] = worst(byContext[key], commitState(st.State))
		}
	}

	status := model.CIStatusUnknown
	var missing []string
	for _, c := range required {
		state, ok := byContext[strings.ToLower(c)]
		if !ok {
			missing = append(missing, c)
			continue
		}
		status = worst(status, state)
	}
	return status, missing
}

// runState maps one check run to a CIStatus. neutral and skipped pass.
func runState(cr model.CheckRun) model.CIStatus {
	if cr.Status != "completed" {
		return model.CIStatusPending
	}
	switch cr.Conclusion {
	case "failure", "canceled", "cancelled", "timed_out", "action_required", "stale": //nolint:misspell // GitHub API uses British "cancelled"
		return model.CIStatusFailing
	}
	return model.CIStatusPassing
}

// commitState maps a Status API state to a CIStatus.
func commitState(state string) model.CIStatus {
	switch state {
	case "failure", "error":
		return model.CIStatusFailing
	case "pending":
		return model.CIStatusPending
	case "success":
		return model.CIStatusPassing
	}
	return model.CIStatusUnknown
}

var statusRank = map[model.CIStatus]int{
	model.CIStatusUnknown: 0,
	model.CIStatusPassing: 1,
	model.CIStatusPending: 2,
	model.CIStatusFailing: 3,
}

func worst(a, b model.CIStatus) model.CIStatus {
	if statusRank[b] > statusRank[a] {
		return b
	}
	return a
}

// markRequiredChecks sets IsRequired on check runs whose name matches a
// required context, ignoring case.
func markRequiredChecks(checkRuns []model.CheckRun, requiredContexts []string) {
	required := make(map[string]bool, len(requiredContexts))
	for _, c := range requiredContexts {
		required[strings.ToLower(c)] = true
	}
	for i := range checkRuns {
		if required[strings.ToLower(checkRuns[i].Name)] {
			checkRuns[i].IsRequired = true
		}
	}
}
