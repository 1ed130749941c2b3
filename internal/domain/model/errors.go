package model

import "errors"

var (
	// ErrNotPullRequest is returned when a command runs outside the context
	// of a pull request.
	ErrNotPullRequest = errors.New("may only run in context of a pull request")

	// ErrNotFound is returned when a path does not exist at the requested
	// commit or in the workspace.
	ErrNotFound = errors.New("not found")
)
