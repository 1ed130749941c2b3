package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ericfisherdev/armlabeler/internal/domain/model"
)

// policyFile is the YAML layout of the signoff policy:
//
//	labels:
//	  not_ready: WaitForARMFeedback
//	require_checks_passing: true
type policyFile struct {
	Labels struct {
		Signoff             string `yaml:"signoff"`
		Review              string `yaml:"review"`
		NotReady            string `yaml:"not_ready"`
		BestPractices       string `yaml:"best_practices"`
		SuppressionReview   string `yaml:"suppression_review"`
		SuppressionApproved string `yaml:"suppression_approved"`
	} `yaml:"labels"`
	RequireChecksPassing bool `yaml:"require_checks_passing"`
}

// LoadPolicy reads the signoff policy at path. An empty path yields the
// default policy.
func LoadPolicy(path string) (model.SignoffPolicy, error) {
	if path == "" {
		return model.DefaultSignoffPolicy(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return model.SignoffPolicy{}, fmt.Errorf("reading policy file: %w", err)
	}

	policy, err := ParsePolicy(data)
	if err != nil {
		return model.SignoffPolicy{}, fmt.Errorf("%s: %w", path, err)
	}
	return policy, nil
}

// ParsePolicy decodes a YAML policy. Unknown keys are rejected; label names
// left unset keep their defaults.
func ParsePolicy(data []byte) (model.SignoffPolicy, error) {
	var file policyFile

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return model.SignoffPolicy{}, fmt.Errorf("parsing policy: %w", err)
	}

	policy := model.DefaultSignoffPolicy()
	override(&policy.SignoffLabel, file.Labels.Signoff)
	override(&policy.ReviewLabel, file.Labels.Review)
	override(&policy.NotReadyLabel, file.Labels.NotReady)
	override(&policy.BestPracticesLabel, file.Labels.BestPractices)
	override(&policy.SuppressionReviewLabel, file.Labels.SuppressionReview)
	override(&policy.SuppressionApprovedLabel, file.Labels.SuppressionApproved)
	policy.RequireChecksPassing = file.RequireChecksPassing

	return policy, nil
}

func override(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
