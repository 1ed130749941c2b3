package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/ericfisherdev/armlabeler/internal/config"
	"github.com/ericfisherdev/armlabeler/internal/domain/model"
)

const eventPayload = `{
  "pull_request": {
    "number": 42,
    "base": {"ref": "main"},
    "head": {"sha": "head222"}
  },
  "repository": {"name": "azure-rest-api-specs", "owner": {"login": "Azure"}}
}`

// resolvePR runs a throwaway command with prFlags so pullRequest sees parsed flags.
func resolvePR(t *testing.T, a *app, args ...string) (model.PullRequest, error) {
	t.Helper()

	var pr model.PullRequest
	var resolveErr error
	cmd := &cli.Command{
		Name:  "test",
		Flags: prFlags(),
		Action: func(_ context.Context, cmd *cli.Command) error {
			pr, resolveErr = a.pullRequest(cmd)
			return nil
		},
	}
	require.NoError(t, cmd.Run(context.Background(), append([]string{"test"}, args...)))
	return pr, resolveErr
}

func writeEvent(t *testing.T, payload string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "event.json")
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o600))
	return path
}

func TestPullRequest_FromEvent(t *testing.T) {
	cfg := &config.Config{
		EventPath:  writeEvent(t, eventPayload),
		Repository: "ignored/by-event",
		BaseCommit: "HEAD^",
		HeadCommit: "HEAD",
	}

	pr, err := resolvePR(t, newApp(cfg, &bytes.Buffer{}))
	require.NoError(t, err)

	assert.Equal(t, model.PullRequest{
		Owner:      "Azure",
		Repo:       "azure-rest-api-specs",
		Number:     42,
		BaseRef:    "main",
		HeadSHA:    "head222",
		BaseCommit: "HEAD^",
		HeadCommit: "HEAD",
	}, pr)
}

func TestPullRequest_FlagsOverride(t *testing.T) {
	cfg := &config.Config{
		EventPath:  writeEvent(t, eventPayload),
		BaseCommit: "HEAD^",
		HeadCommit: "HEAD",
	}

	pr, err := resolvePR(t, newApp(cfg, &bytes.Buffer{}),
		"--pr", "7", "--repo", "Azure/azure-rest-api-specs-pr",
		"--base", "origin/main", "--head", "feature",
		"--base-branch", "RPSaaSMaster", "--head-sha", "abc",
	)
	require.NoError(t, err)

	assert.Equal(t, "Azure/azure-rest-api-specs-pr", pr.FullName())
	assert.Equal(t, 7, pr.Number)
	assert.Equal(t, "origin/main", pr.BaseCommit)
	assert.Equal(t, "feature", pr.HeadCommit)
	assert.Equal(t, "RPSaaSMaster", pr.BaseRef)
	assert.Equal(t, "abc", pr.HeadSHA)
}

func TestPullRequest_PushEventNeedsFlag(t *testing.T) {
	cfg := &config.Config{
		EventPath:  writeEvent(t, `{"ref": "refs/heads/main"}`),
		Repository: "Azure/azure-rest-api-specs",
	}

	_, err := resolvePR(t, newApp(cfg, &bytes.Buffer{}))
	assert.ErrorIs(t, err, model.ErrNotPullRequest)

	pr, err := resolvePR(t, newApp(cfg, &bytes.Buffer{}), "--pr", "3")
	require.NoError(t, err)
	assert.Equal(t, "Azure/azure-rest-api-specs#3", pr.String())
}

func TestPullRequest_NoEvent(t *testing.T) {
	cfg := &config.Config{Repository: "Azure/azure-rest-api-specs"}

	pr, err := resolvePR(t, newApp(cfg, &bytes.Buffer{}))
	require.NoError(t, err)
	assert.ErrorIs(t, pr.Validate(), model.ErrNotPullRequest)
}

func TestPullRequest_InvalidRepo(t *testing.T) {
	cfg := &config.Config{}

	_, err := resolvePR(t, newApp(cfg, &bytes.Buffer{}), "--pr", "1", "--repo", "nope")
	assert.Error(t, err)
}

func TestLabelCommands_RequireToken(t *testing.T) {
	cfg := &config.Config{Repository: "Azure/azure-rest-api-specs", Workspace: t.TempDir()}
	a := newApp(cfg, &bytes.Buffer{})

	for _, name := range []string{"rp-service", "typespec", "arm-auto-signoff", "required-checks"} {
		t.Run(name, func(t *testing.T) {
			err := a.command().Run(context.Background(), []string{"armlabeler", name, "--pr", "1"})
			require.Error(t, err)
			assert.Contains(t, err.Error(), "GITHUB_TOKEN")
		})
	}
}

func TestHistory_RequiresAuditDB(t *testing.T) {
	a := newApp(&config.Config{}, &bytes.Buffer{})

	err := a.command().Run(context.Background(), []string{"armlabeler", "history"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ARMLABELER_AUDIT_DB")
}

func TestHistory_EmptyDatabase(t *testing.T) {
	var out bytes.Buffer
	cfg := &config.Config{AuditDBPath: filepath.Join(t.TempDir(), "audit.db")}

	err := newApp(cfg, &out).command().Run(context.Background(), []string{"armlabeler", "history"})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "PULL REQUEST")
}

func TestWriteHistory(t *testing.T) {
	var out bytes.Buffer
	err := writeHistory(&out, []model.LabelDecision{{
		RepoFullName: "Azure/azure-rest-api-specs",
		PRNumber:     42,
		Command:      "typespec",
		Outcome:      "noop",
		Applied:      model.LabelTypeSpecNoop,
		Removed:      []string{model.LabelTypeSpecNew, model.LabelTypeSpecIncremental},
		DecidedAt:    time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}})
	require.NoError(t, err)

	assert.Contains(t, out.String(), "2024-03-01 12:00:00")
	assert.Contains(t, out.String(), "Azure/azure-rest-api-specs#42")
	assert.Contains(t, out.String(), "typespec-new,typespec-incremental")
}
