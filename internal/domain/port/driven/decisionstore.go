package driven

import (
	"context"

	"github.com/ericfisherdev/armlabeler/internal/domain/model"
)

// DecisionStore defines the driven port for the label decision audit log.
// It is append-only and never consulted when classifying a pull request.
type DecisionStore interface {
	// Record appends a decision and returns its assigned ID.
	Record(ctx context.Context, d model.LabelDecision) (int64, error)
	// ListRecent returns up to limit decisions, newest first. An empty
	// repoFullName matches every repository.
	ListRecent(ctx context.Context, repoFullName string, limit int) ([]model.LabelDecision, error)
	// ListByPR returns every decision for one pull request, newest first.
	ListByPR(ctx context.Context, repoFullName string, number int) ([]model.LabelDecision, error)
}
