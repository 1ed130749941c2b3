package driven

import "context"

// RepoState answers questions about the repository's file tree at a given
// commit and in the checked-out workspace.
type RepoState interface {
	// PathExists reports whether a file or directory exists at ref.
	PathExists(ctx context.Context, ref, path string) (bool, error)
	// ListFiles returns every file below dir at ref, recursively.
	ListFiles(ctx context.Context, ref, dir string) ([]string, error)
	// FileContent returns the content of path at ref. The error wraps
	// model.ErrNotFound when the path does not exist at ref.
	FileContent(ctx context.Context, ref, path string) ([]byte, error)
	// WorkspaceFile returns the content of path in the working tree.
	WorkspaceFile(ctx context.Context, path string) ([]byte, error)
	// ChangedFiles returns the paths that differ between base and head,
	// restricted by a git diff filter such as "d" (everything but deletions).
	ChangedFiles(ctx context.Context, base, head, diffFilter string) ([]string, error)
}
