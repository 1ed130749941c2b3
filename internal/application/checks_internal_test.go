package application

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ericfisherdev/armlabeler/internal/domain/model"
)

func TestResolveRequired(t *testing.T) {
	tests := []struct {
		name        string
		required    []string
		checkRuns   []model.CheckRun
		combined    *model.CombinedStatus
		wantStatus  model.CIStatus
		wantMissing []string
	}{
		{
			name:     "all required runs succeed",
			required: []string{"Swagger LintDiff", "Swagger Avocado"},
			checkRuns: []model.CheckRun{
				{Name: "Swagger LintDiff", Status: "completed", Conclusion: "success"},
				{Name: "Swagger Avocado", Status: "completed", Conclusion: "success"},
			},
			wantStatus: model.CIStatusPassing,
		},
		{
			name:     "optional failure is ignored",
			required: []string{"Swagger LintDiff"},
			checkRuns: []model.CheckRun{
				{Name: "Swagger LintDiff", Status: "completed", Conclusion: "success"},
				{Name: "Swagger BreakingChange", Status: "completed", Conclusion: "failure"},
			},
			wantStatus: model.CIStatusPassing,
		},
		{
			name:     "failing takes precedence over pending",
			required: []string{"Swagger LintDiff", "TypeSpec Validation"},
			checkRuns: []model.CheckRun{
				{Name: "Swagger LintDiff", Status: "completed", Conclusion: "failure"},
				{Name: "TypeSpec Validation", Status: "in_progress"},
			},
			wantStatus: model.CIStatusFailing,
		},
		{
			name:       "queued run is pending",
			required:   []string{"TypeSpec Validation"},
			checkRuns:  []model.CheckRun{{Name: "TypeSpec Validation", Status: "queued"}},
			wantStatus: model.CIStatusPending,
		},
		{
			name:     "neutral and skipped pass",
			required: []string{"optional", "conditional"},
			checkRuns: []model.CheckRun{
				{Name: "optional", Status: "completed", Conclusion: "neutral"},
				{Name: "conditional", Status: "completed", Conclusion: "skipped"},
			},
			wantStatus: model.CIStatusPassing,
		},
		{
			name:       "stale conclusion fails",
			required:   []string{"Swagger LintDiff"},
			checkRuns:  []model.CheckRun{{Name: "Swagger LintDiff", Status: "completed", Conclusion: "stale"}},
			wantStatus: model.CIStatusFailing,
		},
		{
			name:     "rerun of a failed check still fails the context",
			required: []string{"Swagger LintDiff"},
			checkRuns: []model.CheckRun{
				{Name: "Swagger LintDiff", Status: "completed", Conclusion: "success"},
				{Name: "swagger lintdiff", Status: "completed", Conclusion: "failure"},
			},
			wantStatus: model.CIStatusFailing,
		},
		{
			name:     "commit status error fails",
			required: []string{"license/cla"},
			combined: &model.CombinedStatus{
				State:    "error",
				Statuses: []model.CommitStatus{{Context: "license/cla", State: "error"}},
			},
			wantStatus: model.CIStatusFailing,
		},
		{
			name:      "run passing and commit status pending",
			required:  []string{"Swagger LintDiff", "license/cla"},
			checkRuns: []model.CheckRun{{Name: "Swagger LintDiff", Status: "completed", Conclusion: "success"}},
			combined: &model.CombinedStatus{
				State:    "pending",
				Statuses: []model.CommitStatus{{Context: "License/CLA", State: "pending"}},
			},
			wantStatus: model.CIStatusPending,
		},
		{
			name:      "unreported context is missing",
			required:  []string{"Swagger LintDiff", "TypeSpec Validation"},
			checkRuns: []model.CheckRun{{Name: "swagger lintdiff", Status: "completed", Conclusion: "success"}},
			combined: &model.CombinedStatus{
				State:    "failure",
				Statuses: []model.CommitStatus{{Context: "coverage", State: "failure"}},
			},
			wantStatus:  model.CIStatusPassing,
			wantMissing: []string{"TypeSpec Validation"},
		},
		{
			name:        "nothing reported is unknown",
			required:    []string{"Swagger LintDiff"},
			wantStatus:  model.CIStatusUnknown,
			wantMissing: []string{"Swagger LintDiff"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, missing := resolveRequired(tt.required, tt.checkRuns, tt.combined)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantMissing, missing)
		})
	}
}

func TestMarkRequiredChecks(t *testing.T) {
	t.Run("marks matching check runs as required", func(t *testing.T) {
		checkRuns := []model.CheckRun{
			{Name: "Swagger LintDiff"},
			{Name: "optional-test"},
		}

		markRequiredChecks(checkRuns, []string{"swagger lintdiff"})

		assert.True(t, checkRuns[0].IsRequired)
		assert.False(t, checkRuns[1].IsRequired)
	})

	t.Run("nil required contexts leaves all as not required", func(t *testing.T) {
		checkRuns := []model.CheckRun{{Name: "build"}}

		markRequiredChecks(checkRuns, nil)

		assert.False(t, checkRuns[0].IsRequired)
	})
}
