package git_test

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gitadapter "github.com/ericfisherdev/armlabeler/internal/adapter/driven/git"
	"github.com/ericfisherdev/armlabeler/internal/domain/model"
)

const (
	existingDoc = "specification/foo/resource-manager/Microsoft.Foo/stable/2020-01-01/foo.json"
	addedDoc    = "specification/bar/resource-manager/Microsoft.Bar/stable/2024-01-01/bar.json"
	removedDoc  = "specification/foo/resource-manager/Microsoft.Foo/stable/2019-01-01/old.json"
)

// setupRepo creates a repository with two commits: the first adds
// existingDoc and removedDoc, the second modifies existingDoc, adds addedDoc
// and deletes removedDoc.
func setupRepo(t *testing.T) string {
	t.Helper()

	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	dir := t.TempDir()
	runGit(t, dir, "init", "-q")

	writeFile(t, dir, existingDoc, `{"info":{"title":"foo"}}`)
	writeFile(t, dir, removedDoc, `{"info":{"title":"old"}}`)
	runGit(t, dir, "add", "-A")
	runGit(t, dir, "commit", "-q", "-m", "base")

	writeFile(t, dir, existingDoc, `{"info":{"title":"foo","x-typespec-generated":true}}`)
	writeFile(t, dir, addedDoc, `{"info":{"title":"bar"}}`)
	require.NoError(t, os.Remove(filepath.Join(dir, filepath.FromSlash(removedDoc))))
	runGit(t, dir, "add", "-A")
	runGit(t, dir, "commit", "-q", "-m", "change")

	return dir
}

func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	full := append([]string{"-c", "user.email=test@example.com", "-c", "user.name=Test User", "-c", "commit.gpgsign=false"}, args...)
	cmd := exec.Command("git", full...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v: %s", args, out)
}

func writeFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	p := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

func TestPathExists(t *testing.T) {
	dir := setupRepo(t)
	state := gitadapter.NewRepoState(dir)
	ctx := context.Background()

	exists, err := state.PathExists(ctx, "HEAD^", model.ServiceDirectoryOf(existingDoc))
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = state.PathExists(ctx, "HEAD^", model.ServiceDirectoryOf(addedDoc))
	require.NoError(t, err)
	assert.False(t, exists, "service added in HEAD should not exist at HEAD^")

	exists, err = state.PathExists(ctx, "HEAD", model.ServiceDirectoryOf(addedDoc))
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestPathExists_BadRef(t *testing.T) {
	dir := setupRepo(t)
	state := gitadapter.NewRepoState(dir)

	_, err := state.PathExists(context.Background(), "no-such-ref", "specification")
	require.Error(t, err)
}

func TestListFiles(t *testing.T) {
	dir := setupRepo(t)
	state := gitadapter.NewRepoState(dir)

	files, err := state.ListFiles(context.Background(), "HEAD^", "specification/foo/resource-manager/Microsoft.Foo")

	require.NoError(t, err)
	assert.ElementsMatch(t, []string{existingDoc, removedDoc}, files)
}

func TestListFiles_MissingDir(t *testing.T) {
	dir := setupRepo(t)
	state := gitadapter.NewRepoState(dir)

	files, err := state.ListFiles(context.Background(), "HEAD^", "specification/bar")

	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestFileContent(t *testing.T) {
	dir := setupRepo(t)
	state := gitadapter.NewRepoState(dir)
	ctx := context.Background()

	content, err := state.FileContent(ctx, "HEAD^", existingDoc)
	require.NoError(t, err)
	assert.JSONEq(t, `{"info":{"title":"foo"}}`, string(content))

	_, err = state.FileContent(ctx, "HEAD^", addedDoc)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestWorkspaceFile(t *testing.T) {
	dir := setupRepo(t)
	state := gitadapter.NewRepoState(dir)
	ctx := context.Background()

	content, err := state.WorkspaceFile(ctx, existingDoc)
	require.NoError(t, err)
	assert.JSONEq(t, `{"info":{"title":"foo","x-typespec-generated":true}}`, string(content))

	_, err = state.WorkspaceFile(ctx, removedDoc)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestChangedFiles(t *testing.T) {
	dir := setupRepo(t)
	state := gitadapter.NewRepoState(dir)
	ctx := context.Background()

	files, err := state.ChangedFiles(ctx, "HEAD^", "HEAD", "d")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{existingDoc, addedDoc}, files, "deletions are filtered out")

	files, err = state.ChangedFiles(ctx, "HEAD^", "HEAD", "")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{existingDoc, addedDoc, removedDoc}, files)
}
