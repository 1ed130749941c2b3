// Package application contains use-case orchestration services: change
// classification, label reconciliation and the auto-signoff policy.
package application

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/ericfisherdev/armlabeler/internal/domain/model"
	"github.com/ericfisherdev/armlabeler/internal/domain/port/driven"
)

// Command names, as recorded in model.LabelDecision.Command.
const (
	CommandRPService   = "rp-service"
	CommandTypeSpec    = "typespec"
	CommandAutoSignoff = "arm-auto-signoff"
)

// Step output names.
const (
	OutputRPServiceLabel = "rp-service-label"
	OutputTypeSpecLabel  = "typespec-label"
	OutputAutoSignoff    = "auto-signoff"
)

// LabelService runs the labeling commands: classify the pull request, converge
// its labels, record the decision and publish the result to the CI job.
type LabelService struct {
	classifier *ChangeClassifier
	labels     *LabelReconciler
	signoff    *SignoffService
	store      driven.DecisionStore // optional
	reporter   driven.RunReporter   // optional
	now        func() time.Time
}

// LabelServiceOption configures optional LabelService collaborators.
type LabelServiceOption func(*LabelService)

// WithDecisionStore records every decision in store.
func WithDecisionStore(store driven.DecisionStore) LabelServiceOption {
	return func(s *LabelService) { s.store = store }
}

// WithRunReporter publishes outputs and summaries through reporter.
func WithRunReporter(reporter driven.RunReporter) LabelServiceOption {
	return func(s *LabelService) { s.reporter = reporter }
}

// WithClock overrides the time source used to stamp decisions.
func WithClock(now func() time.Time) LabelServiceOption {
	return func(s *LabelService) { s.now = now }
}

// NewLabelService creates a LabelService.
func NewLabelService(classifier *ChangeClassifier, labels *LabelReconciler, signoff *SignoffService, opts ...LabelServiceOption) *LabelService {
	s := &LabelService{
		classifier: classifier,
		labels:     labels,
		signoff:    signoff,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ChangedFiles returns the changed resource-manager documents of the pull request.
func (s *LabelService) ChangedFiles(ctx context.Context, pr model.PullRequest, diffFilter string) ([]string, error) {
	return s.classifier.ChangedResourceManagerFiles(ctx, pr, diffFilter)
}

// RunRPService labels the pull request rp-service-existing or rp-service-new
// and removes the other label of the pair.
func (s *LabelService) RunRPService(ctx context.Context, pr model.PullRequest) (model.RPClassification, error) {
	if err := pr.Validate(); err != nil {
		return "", err
	}

	files, err := s.classifier.ChangedResourceManagerFiles(ctx, pr, DiffFilterAll)
	if err != nil {
		return "", err
	}

	rp, err := s.classifier.ClassifyResourceProvider(ctx, pr, files)
	if err != nil {
		return "", err
	}

	label := rp.Label()
	removed, err := s.labels.Apply(ctx, pr, label, model.Others(model.RPServiceLabels, label))
	if err != nil {
		return "", err
	}

	err = s.finish(ctx, pr, model.LabelDecision{
		Command:      CommandRPService,
		Outcome:      string(rp),
		Applied:      label,
		Removed:      removed,
		ChangedFiles: files,
	}, OutputRPServiceLabel, label)
	return rp, err
}

// RunTypeSpec labels the pull request with exactly one of the typespec labels.
func (s *LabelService) RunTypeSpec(ctx context.Context, pr model.PullRequest) (model.TypeSpecClassification, error) {
	if err := pr.Validate(); err != nil {
		return "", err
	}

	files, err := s.classifier.ChangedResourceManagerFiles(ctx, pr, DiffFilterNoDeletes)
	if err != nil {
		return "", err
	}

	ts, err := s.classifier.ClassifyTypeSpec(ctx, pr, files)
	if err != nil {
		return "", err
	}

	label := ts.Label()
	removed, err := s.labels.Apply(ctx, pr, label, model.Others(model.TypeSpecLabels, label))
	if err != nil {
		return "", err
	}

	err = s.finish(ctx, pr, model.LabelDecision{
		Command:      CommandTypeSpec,
		Outcome:      string(ts),
		Applied:      label,
		Removed:      removed,
		ChangedFiles: files,
	}, OutputTypeSpecLabel, label)
	return ts, err
}

// RunAutoSignoff adds the signoff label when every signoff gate holds and
// removes it otherwise.
func (s *LabelService) RunAutoSignoff(ctx context.Context, pr model.PullRequest) (model.SignoffDecision, error) {
	if err := pr.Validate(); err != nil {
		return model.SignoffDecision{}, err
	}

	files, err := s.classifier.ChangedResourceManagerFiles(ctx, pr, DiffFilterNoDeletes)
	if err != nil {
		return model.SignoffDecision{}, err
	}

	decision, err := s.signoff.Evaluate(ctx, pr, files)
	if err != nil {
		return model.SignoffDecision{}, err
	}

	signoffLabel := s.signoff.policy.SignoffLabel
	record := model.LabelDecision{
		Command:      CommandAutoSignoff,
		ChangedFiles: files,
	}
	if decision.Eligible {
		slog.Info("pull request qualifies for auto signoff", "pr", pr.String())
		if err := s.labels.EnsureLabel(ctx, pr, signoffLabel); err != nil {
			return model.SignoffDecision{}, fmt.Errorf("ensuring label %q: %w", signoffLabel, err)
		}
		record.Outcome = "eligible"
		record.Applied = signoffLabel
	} else {
		slog.Info("pull request does not qualify for auto signoff", "pr", pr.String(), "failed_gate", decision.FailedGate)
		removed, err := s.labels.EnsureLabelAbsent(ctx, pr, signoffLabel)
		if err != nil {
			return model.SignoffDecision{}, fmt.Errorf("ensuring label %q absent: %w", signoffLabel, err)
		}
		record.Outcome = "blocked: " + decision.FailedGate
		if removed {
			record.Removed = []string{signoffLabel}
		}
	}

	err = s.finish(ctx, pr, record, OutputAutoSignoff, strconv.FormatBool(decision.Eligible))
	return decision, err
}

// finish stamps and records the decision, then publishes the step output
// and summary. A failing audit store is logged; reporter errors propagate.
func (s *LabelService) finish(ctx context.Context, pr model.PullRequest, d model.LabelDecision, output, value string) error {
	d.RepoFullName = pr.FullName()
	d.PRNumber = pr.Number
	d.HeadSHA = pr.HeadSHA
	d.DecidedAt = s.now().UTC()

	if s.store != nil {
		id, err := s.store.Record(ctx, d)
		if err != nil {
			slog.Warn("failed to record label decision", "pr", pr.String(), "command", d.Command, "error", err)
		} else {
			d.ID = id
		}
	}

	if s.reporter == nil {
		return nil
	}
	if err := s.reporter.SetOutput(output, value); err != nil {
		return fmt.Errorf("setting output %s: %w", output, err)
	}
	if err := s.reporter.ReportDecision(d); err != nil {
		return fmt.Errorf("writing job summary: %w", err)
	}
	return nil
}
