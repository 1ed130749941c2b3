package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	gh "github.com/google/go-github/v82/github"

	"github.com/ericfisherdev/armlabeler/internal/domain/model"
	"github.com/ericfisherdev/armlabeler/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.GitHubWriter = (*Client)(nil)

// AddLabel adds a single label to an issue or pull request.
func (c *Client) AddLabel(ctx context.Context, repoFullName string, number int, name string) error {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return err
	}

	_, resp, err := c.gh.Issues.AddLabelsToIssue(ctx, owner, repo, number, []string{name})
	if err != nil {
		return fmt.Errorf("adding label %q to %s#%d: %w", name, repoFullName, number, err)
	}

	logRateLimit(resp, repoFullName+"/labels:add", 0, 1)
	return nil
}

// RemoveLabel removes a label from an issue or pull request. GitHub answers
// 404 when the label is not present; that case wraps model.ErrNotFound so
// callers can treat it as already removed.
func (c *Client) RemoveLabel(ctx context.Context, repoFullName string, number int, name string) error {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return err
	}

	resp, err := c.gh.Issues.RemoveLabelForIssue(ctx, owner, repo, number, name)
	if err != nil {
		if isNotFound(resp, err) {
			return fmt.Errorf("label %q on %s#%d: %w", name, repoFullName, number, model.ErrNotFound)
		}
		return fmt.Errorf("removing label %q from %s#%d: %w", name, repoFullName, number, err)
	}

	logRateLimit(resp, repoFullName+"/labels:remove", 0, 1)
	return nil
}

func isNotFound(resp *gh.Response, err error) bool {
	if resp != nil && resp.StatusCode == http.StatusNotFound {
		return true
	}
	var ghErr *gh.ErrorResponse
	return errors.As(err, &ghErr) && ghErr.Response != nil && ghErr.Response.StatusCode == http.StatusNotFound
}
