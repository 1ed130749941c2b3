package driven

import "github.com/ericfisherdev/armlabeler/internal/domain/model"

// RunReporter publishes the results of a command to the CI job: step outputs
// consumed by later steps and a human-readable job summary.
type RunReporter interface {
	// SetOutput sets a step output.
	SetOutput(name, value string) error
	// ReportDecision appends a summary of the decision to the job summary.
	ReportDecision(d model.LabelDecision) error
}
