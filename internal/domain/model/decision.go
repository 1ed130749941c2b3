package model

import "time"

// SignoffDecision is the outcome of the auto-signoff policy. FailedGate names
// the first gate that did not hold; it is empty when Eligible is true.
type SignoffDecision struct {
	Eligible   bool
	FailedGate string
}

// LabelDecision records one label reconciliation made by a command. It is
// written to the optional audit store and to the step summary.
type LabelDecision struct {
	ID           int64
	RepoFullName string
	PRNumber     int
	HeadSHA      string
	Command      string   // "rp-service", "typespec" or "arm-auto-signoff".
	Outcome      string   // Classification or gate result, e.g. "incremental".
	Applied      string   // Label ensured present; empty if none.
	Removed      []string // Labels this run removed from the pull request.
	ChangedFiles []string // Resource-manager documents the decision was based on.
	DecidedAt    time.Time
}
