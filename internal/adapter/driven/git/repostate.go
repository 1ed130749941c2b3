// Package git implements the RepoState port by shelling out to the git CLI
// inside the checked-out workspace.
package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/ericfisherdev/armlabeler/internal/domain/model"
	"github.com/ericfisherdev/armlabeler/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.RepoState = (*RepoState)(nil)

// RepoState answers tree and content queries for the repository rooted at
// the workspace directory.
type RepoState struct {
	root string
}

// NewRepoState creates a RepoState whose git commands run in root.
func NewRepoState(root string) *RepoState {
	return &RepoState{root: root}
}

// PathExists reports whether path is present in the tree at ref.
// "git ls-tree" prints nothing for a missing path.
func (r *RepoState) PathExists(ctx context.Context, ref, path string) (bool, error) {
	out, err := r.run(ctx, "ls-tree", ref, path)
	if err != nil {
		return false, err
	}
	exists := len(bytes.TrimSpace(out)) > 0
	slog.Debug("path exists", "ref", ref, "path", path, "exists", exists)
	return exists, nil
}

// ListFiles returns every file below dir at ref.
func (r *RepoState) ListFiles(ctx context.Context, ref, dir string) ([]string, error) {
	out, err := r.run(ctx, "ls-tree", "-r", "--name-only", ref, dir)
	if err != nil {
		return nil, err
	}
	return splitLines(out), nil
}

// FileContent returns the content of path at ref.
func (r *RepoState) FileContent(ctx context.Context, ref, path string) ([]byte, error) {
	out, err := r.run(ctx, "show", ref+":"+path)
	if err != nil {
		var gitErr *commandError
		if errors.As(err, &gitErr) && gitErr.pathMissing() {
			return nil, fmt.Errorf("%s at %s: %w", path, ref, model.ErrNotFound)
		}
		return nil, err
	}
	return out, nil
}

// WorkspaceFile reads path from the working tree.
func (r *RepoState) WorkspaceFile(_ context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(r.root, filepath.FromSlash(path)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s in workspace: %w", path, model.ErrNotFound)
		}
		return nil, fmt.Errorf("reading %s from workspace: %w", path, err)
	}
	return data, nil
}

// ChangedFiles returns the paths that differ between base and head. An
// empty diffFilter includes every kind of change.
func (r *RepoState) ChangedFiles(ctx context.Context, base, head, diffFilter string) ([]string, error) {
	args := []string{"-c", "core.quotepath=off", "diff", "--name-only"}
	if diffFilter != "" {
		args = append(args, "--diff-filter="+diffFilter)
	}
	args = append(args, base, head)

	out, err := r.run(ctx, args...)
	if err != nil {
		return nil, err
	}
	return splitLines(out), nil
}

// commandError carries the stderr of a failed git invocation.
type commandError struct {
	args   []string
	stderr string
	err    error
}

func (e *commandError) Error() string {
	return fmt.Sprintf("git %s: %v: %s", strings.Join(e.args, " "), e.err, e.stderr)
}

func (e *commandError) Unwrap() error { return e.err }

// pathMissing recognizes git's messages for a path absent from a tree.
func (e *commandError) pathMissing() bool {
	return strings.Contains(e.stderr, "does not exist in") ||
		strings.Contains(e.stderr, "exists on disk, but not in")
}

func (r *RepoState) run(ctx context.Context, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = r.root

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, &commandError{args: args, stderr: strings.TrimSpace(stderr.String()), err: err}
	}
	return stdout.Bytes(), nil
}

func splitLines(out []byte) []string {
	lines := []string{}
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
