package model

// SignoffPolicy names the labels the auto-signoff gate inspects. Every field
// has a default; see DefaultSignoffPolicy.
type SignoffPolicy struct {
	// SignoffLabel is applied when every gate holds.
	SignoffLabel string
	// ReviewLabel must be present: the author requested ARM review.
	ReviewLabel string
	// NotReadyLabel must be absent.
	NotReadyLabel string
	// BestPracticesLabel must be present: the author attests to the design
	// best practices that are not checked automatically.
	BestPracticesLabel string
	// SuppressionReviewLabel flags suppressions that need review. It blocks
	// signoff unless SuppressionApprovedLabel is also present.
	SuppressionReviewLabel   string
	SuppressionApprovedLabel string
	// RequireChecksPassing adds the required-checks gate. Off by default.
	RequireChecksPassing bool
}

// DefaultSignoffPolicy returns the policy used when no policy file is given.
func DefaultSignoffPolicy() SignoffPolicy {
	return SignoffPolicy{
		SignoffLabel:             LabelARMAutoSignedOff,
		ReviewLabel:              "ARMReview",
		NotReadyLabel:            "NotReadyForARMReview",
		BestPracticesLabel:       "ARMBestPractices",
		SuppressionReviewLabel:   "SuppressionReviewRequired",
		SuppressionApprovedLabel: "Suppression-Approved",
	}
}
