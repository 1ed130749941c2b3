// Package actions adapts the GitHub Actions runner environment: the event
// payload, step outputs, the job summary and workflow commands.
package actions

import (
	"encoding/json"
	"fmt"
	"os"

	gh "github.com/google/go-github/v82/github"

	"github.com/ericfisherdev/armlabeler/internal/domain/model"
)

// LoadPullRequest reads the pull request identity from the event payload at
// path. Events without a pull_request object fail with model.ErrNotPullRequest.
func LoadPullRequest(path string) (model.PullRequest, error) {
	if path == "" {
		return model.PullRequest{}, fmt.Errorf("no event payload: %w", model.ErrNotPullRequest)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return model.PullRequest{}, fmt.Errorf("reading event payload: %w", err)
	}

	return ParsePullRequestEvent(data)
}

// ParsePullRequestEvent decodes a pull_request or pull_request_target event.
func ParsePullRequestEvent(data []byte) (model.PullRequest, error) {
	var event gh.PullRequestEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return model.PullRequest{}, fmt.Errorf("parsing event payload: %w", err)
	}

	pr := event.GetPullRequest()
	if pr == nil {
		return model.PullRequest{}, model.ErrNotPullRequest
	}

	repo := event.GetRepo()
	if repo == nil {
		repo = pr.GetBase().GetRepo()
	}

	return model.PullRequest{
		Owner:   repo.GetOwner().GetLogin(),
		Repo:    repo.GetName(),
		Number:  pr.GetNumber(),
		BaseRef: pr.GetBase().GetRef(),
		HeadSHA: pr.GetHead().GetSHA(),
	}, nil
}
