package application

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ericfisherdev/armlabeler/internal/domain/model"
)

// Gate names reported in model.SignoffDecision.FailedGate.
const (
	GateReviewRequested   = "review-requested"
	GateReadyForReview    = "ready-for-review"
	GateBestPractices     = "best-practices"
	GateExistingService   = "existing-rp-service"
	GateTypeSpecIncrement = "typespec-incremental"
	GateSuppressions      = "suppressions-approved"
	GateRequiredChecks    = "required-checks"
)

// SignoffService decides whether a pull request qualifies for automatic ARM
// signoff.
type SignoffService struct {
	labels     *LabelReconciler
	classifier *ChangeClassifier
	checks     *ChecksService
	policy     model.SignoffPolicy
}

// NewSignoffService creates a SignoffService. checks may be nil only when
// the policy does not require passing checks.
func NewSignoffService(labels *LabelReconciler, classifier *ChangeClassifier, checks *ChecksService, policy model.SignoffPolicy) (*SignoffService, error) {
	if policy.RequireChecksPassing && checks == nil {
		return nil, errors.New("signoff policy requires passing checks but no checks service is configured")
	}
	return &SignoffService{
		labels:     labels,
		classifier: classifier,
		checks:     checks,
		policy:     policy,
	}, nil
}

type signoffGate struct {
	name  string
	holds func(ctx context.Context) (bool, error)
}

// Evaluate runs the signoff gates in order and stops at the first one that
// does not hold. files are the changed resource-manager documents.
func (s *SignoffService) Evaluate(ctx context.Context, pr model.PullRequest, files []string) (model.SignoffDecision, error) {
	if err := pr.Validate(); err != nil {
		return model.SignoffDecision{}, err
	}

	for _, gate := range s.gates(pr, files) {
		ok, err := gate.holds(ctx)
		if err != nil {
			return model.SignoffDecision{}, err
		}
		slog.Info("signoff gate", "pr", pr.String(), "gate", gate.name, "holds", ok)
		if !ok {
			return model.SignoffDecision{FailedGate: gate.name}, nil
		}
	}

	return model.SignoffDecision{Eligible: true}, nil
}

func (s *SignoffService) gates(pr model.PullRequest, files []string) []signoffGate {
	p := s.policy
	gates := []signoffGate{
		{GateReviewRequested, func(ctx context.Context) (bool, error) {
			return s.labels.HasLabel(ctx, pr, p.ReviewLabel)
		}},
		{GateReadyForReview, func(ctx context.Context) (bool, error) {
			notReady, err := s.labels.HasLabel(ctx, pr, p.NotReadyLabel)
			return !notReady, err
		}},
		{GateBestPractices, func(ctx context.Context) (bool, error) {
			return s.labels.HasLabel(ctx, pr, p.BestPracticesLabel)
		}},
		{GateExistingService, func(ctx context.Context) (bool, error) {
			rp, err := s.classifier.ClassifyResourceProvider(ctx, pr, files)
			return rp == model.RPServiceExisting, err
		}},
		{GateTypeSpecIncrement, func(ctx context.Context) (bool, error) {
			ts, err := s.classifier.ClassifyTypeSpec(ctx, pr, files)
			return ts == model.TypeSpecIncremental, err
		}},
		{GateSuppressions, func(ctx context.Context) (bool, error) {
			review, err := s.labels.HasLabel(ctx, pr, p.SuppressionReviewLabel)
			if err != nil {
				return false, err
			}
			if !review {
				return true, nil
			}
			return s.labels.HasLabel(ctx, pr, p.SuppressionApprovedLabel)
		}},
	}

	if p.RequireChecksPassing {
		gates = append(gates, signoffGate{GateRequiredChecks, func(ctx context.Context) (bool, error) {
			return s.checks.RequiredChecksPassing(ctx, pr)
		}})
	}
	return gates
}
