package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/ericfisherdev/armlabeler/internal/domain/model"
	"github.com/ericfisherdev/armlabeler/internal/domain/port/driven"
)

// LabelReconciler converges the labels of a pull request towards a desired
// state. Every operation reads the current labels first, so repeating a
// call performs no further mutation.
type LabelReconciler struct {
	reader driven.GitHubClient
	writer driven.GitHubWriter
}

// NewLabelReconciler creates a LabelReconciler.
func NewLabelReconciler(reader driven.GitHubClient, writer driven.GitHubWriter) *LabelReconciler {
	return &LabelReconciler{reader: reader, writer: writer}
}

// HasLabel reports whether the pull request currently carries name.
func (r *LabelReconciler) HasLabel(ctx context.Context, pr model.PullRequest, name string) (bool, error) {
	if err := pr.Validate(); err != nil {
		return false, err
	}

	labels, err := r.reader.ListLabels(ctx, pr.FullName(), pr.Number)
	if err != nil {
		return false, err
	}
	slog.Debug("labels", "pr", pr.String(), "labels", labels)

	return slices.Contains(labels, name), nil
}

// EnsureLabel adds name to the pull request unless it is already present.
func (r *LabelReconciler) EnsureLabel(ctx context.Context, pr model.PullRequest, name string) error {
	present, err := r.HasLabel(ctx, pr, name)
	if err != nil {
		return err
	}
	if present {
		slog.Info("label already present", "pr", pr.String(), "label", name)
		return nil
	}

	slog.Info("adding label", "pr", pr.String(), "label", name)
	return r.writer.AddLabel(ctx, pr.FullName(), pr.Number, name)
}

// EnsureLabelAbsent removes name from the pull request if it is present and
// reports whether this call removed it. A label that disappears between the
// read and the delete is not an error and counts as not removed.
func (r *LabelReconciler) EnsureLabelAbsent(ctx context.Context, pr model.PullRequest, name string) (bool, error) {
	present, err := r.HasLabel(ctx, pr, name)
	if err != nil {
		return false, err
	}
	if !present {
		slog.Debug("label already absent", "pr", pr.String(), "label", name)
		return false, nil
	}

	slog.Info("removing label", "pr", pr.String(), "label", name)
	if err := r.writer.RemoveLabel(ctx, pr.FullName(), pr.Number, name); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Apply ensures want is present and every label in remove is absent. It
// returns the labels this call actually removed.
func (r *LabelReconciler) Apply(ctx context.Context, pr model.PullRequest, want string, remove []string) ([]string, error) {
	if err := r.EnsureLabel(ctx, pr, want); err != nil {
		return nil, fmt.Errorf("ensuring label %q: %w", want, err)
	}

	var removed []string
	for _, name := range remove {
		ok, err := r.EnsureLabelAbsent(ctx, pr, name)
		if err != nil {
			return removed, fmt.Errorf("ensuring label %q absent: %w", name, err)
		}
		if ok {
			removed = append(removed, name)
		}
	}
	return removed, nil
}
