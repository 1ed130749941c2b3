package driven

import "context"

// GitHubWriter defines the driven port for GitHub write operations.
// It is intentionally separate from GitHubClient (read operations).
type GitHubWriter interface {
	// AddLabel adds a label to the issue or pull request.
	AddLabel(ctx context.Context, repoFullName string, number int, name string) error

	// RemoveLabel removes a label from the issue or pull request. When the
	// label is not on the issue the returned error wraps model.ErrNotFound.
	RemoveLabel(ctx context.Context, repoFullName string, number int, name string) error
}
