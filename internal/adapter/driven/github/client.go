// Package github implements the GitHubClient and GitHubWriter ports using the go-github library.
package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v82/github"
	"github.com/gregjones/httpcache"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"

	"github.com/ericfisherdev/armlabeler/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.GitHubClient = (*Client)(nil)

const defaultAPIURL = "https://api.github.com/"

// Client implements the driven.GitHubClient port using the go-github library.
type Client struct {
	gh *gh.Client
}

// NewClient creates a new GitHub API client with the following transport stack:
//  1. revalidation (every GET carries Cache-Control: max-age=0)
//  2. go-github-ratelimit (secondary rate limit middleware, sleeps on 429)
//  3. httpcache (ETag-based conditional requests; a 304 does not count against the rate limit)
//  4. go-github (GitHub REST API client with token auth)
//
// apiURL may be empty for github.com; GitHub Enterprise Server passes its
// GITHUB_API_URL.
func NewClient(token, apiURL string) (*Client, error) {
	cacheTransport := httpcache.NewMemoryCacheTransport()
	rateLimitClient := github_ratelimit.NewClient(cacheTransport)
	httpClient := &http.Client{
		Transport: revalidateTransport{next: rateLimitClient.Transport},
		Timeout:   30 * time.Second,
	}

	client := gh.NewClient(httpClient).WithAuthToken(token)
	if apiURL != "" && strings.TrimSuffix(apiURL, "/")+"/" != defaultAPIURL {
		u, err := parseBaseURL(apiURL)
		if err != nil {
			return nil, err
		}
		client.BaseURL = u
	}

	return &Client{gh: client}, nil
}

// NewClientWithHTTPClient creates a Client with a custom http.Client and base URL.
// This constructor is intended for testing, allowing injection of an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL string) (*Client, error) {
	client := gh.NewClient(httpClient)

	u, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	client.BaseURL = u

	return &Client{gh: client}, nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	return u, nil
}

// revalidateTransport forces the cache layer to revalidate every cached
// response with the server. Label state must never be served stale.
type revalidateTransport struct {
	next http.RoundTripper
}

func (t revalidateTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method == http.MethodGet || req.Method == http.MethodHead {
		req = req.Clone(req.Context())
		req.Header.Set("Cache-Control", "max-age=0")
	}
	next := t.next
	if next == nil {
		next = http.DefaultTransport
	}
	return next.RoundTrip(req)
}

// ListLabels returns the names of all labels on an issue or pull request.
// It handles pagination automatically.
func (c *Client) ListLabels(ctx context.Context, repoFullName string, number int) ([]string, error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return nil, err
	}

	opts := &gh.ListOptions{PerPage: 100}
	names := []string{}

	for {
		labels, resp, err := c.gh.Issues.ListLabelsByIssue(ctx, owner, repo, number, opts)
		if err != nil {
			return nil, fmt.Errorf("listing labels for %s#%d (page %d): %w", repoFullName, number, opts.Page, err)
		}

		logRateLimit(resp, repoFullName+"/labels", opts.Page, len(labels))

		for _, l := range labels {
			names = append(names, l.GetName())
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return names, nil
}

// logRateLimit logs the GitHub API rate limit status after each call.
func logRateLimit(resp *gh.Response, endpoint string, page, count int) {
	if resp == nil {
		return
	}

	slog.Debug("github api call",
		"endpoint", endpoint,
		"page", page,
		"count", count,
		"rate_remaining", resp.Rate.Remaining,
		"rate_limit", resp.Rate.Limit,
	)

	if resp.Rate.Limit > 0 && resp.Rate.Remaining < 100 {
		slog.Warn("github rate limit low",
			"remaining", resp.Rate.Remaining,
			"reset_in", time.Until(resp.Rate.Reset.Time).Round(time.Second),
		)
	}
}

// splitRepo splits a "owner/repo" string into its two components.
func splitRepo(fullName string) (string, string, error) {
	parts := strings.SplitN(fullName, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repo name %q: expected owner/repo", fullName)
	}
	return parts[0], parts[1], nil
}
