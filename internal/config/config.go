// Package config loads application configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	GitHubToken  string
	GitHubAPIURL string
	// Repository is "owner/repo" from GITHUB_REPOSITORY.
	Repository      string
	EventPath       string
	Workspace       string
	OutputPath      string
	StepSummaryPath string
	InActions       bool

	BaseCommit string
	HeadCommit string

	PolicyFile     string
	AuditDBPath    string
	ReportHTMLPath string
	LogLevel       string
}

// HasGitHubToken reports whether a token is configured. Only the commands
// that talk to GitHub require one.
func (c *Config) HasGitHubToken() bool {
	return c.GitHubToken != ""
}

// SplitRepository splits "owner/repo".
func SplitRepository(fullName string) (owner, name string, err error) {
	owner, name, ok := strings.Cut(fullName, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return "", "", fmt.Errorf("invalid repository %q, expected owner/repo", fullName)
	}
	return owner, name, nil
}

// Load reads configuration from environment variables and returns a Config.
// Variables from the given .env files are loaded first without overriding
// the process environment; with no files, a .env in the working directory is
// used if present.
// Defaults: GITHUB_API_URL (https://api.github.com), GITHUB_WORKSPACE (.),
// ARMLABELER_BASE_REF (HEAD^), ARMLABELER_HEAD_REF (HEAD).
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading .env: %w", err)
		}
	} else if err := godotenv.Load(envFiles...); err != nil {
		return nil, fmt.Errorf("loading %s: %w", strings.Join(envFiles, ", "), err)
	}

	cfg := &Config{
		GitHubToken:     os.Getenv("GITHUB_TOKEN"),
		GitHubAPIURL:    envOr("GITHUB_API_URL", "https://api.github.com"),
		Repository:      os.Getenv("GITHUB_REPOSITORY"),
		EventPath:       os.Getenv("GITHUB_EVENT_PATH"),
		Workspace:       envOr("GITHUB_WORKSPACE", "."),
		OutputPath:      os.Getenv("GITHUB_OUTPUT"),
		StepSummaryPath: os.Getenv("GITHUB_STEP_SUMMARY"),
		InActions:       os.Getenv("GITHUB_ACTIONS") == "true",
		BaseCommit:      envOr("ARMLABELER_BASE_REF", "HEAD^"),
		HeadCommit:      envOr("ARMLABELER_HEAD_REF", "HEAD"),
		PolicyFile:      os.Getenv("ARMLABELER_POLICY_FILE"),
		AuditDBPath:     os.Getenv("ARMLABELER_AUDIT_DB"),
		ReportHTMLPath:  os.Getenv("ARMLABELER_REPORT_HTML"),
		LogLevel:        os.Getenv("ARMLABELER_LOG_LEVEL"),
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
