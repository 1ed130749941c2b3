package model

// Labels managed by the bot. Downstream workflows match on these names.
const (
	LabelARMAutoSignedOff    = "ARMAutoSignedOff"
	LabelRPServiceNew        = "rp-service-new"
	LabelRPServiceExisting   = "rp-service-existing"
	LabelTypeSpecNew         = "typespec-new"
	LabelTypeSpecIncremental = "typespec-incremental"
	LabelTypeSpecNoop        = "typespec-noop"
)

// RPServiceLabels is the mutually exclusive label family for resource
// provider classification.
var RPServiceLabels = []string{LabelRPServiceNew, LabelRPServiceExisting}

// TypeSpecLabels is the mutually exclusive label family for TypeSpec
// classification.
var TypeSpecLabels = []string{LabelTypeSpecNew, LabelTypeSpecIncremental, LabelTypeSpecNoop}

// Others returns the members of family other than keep, preserving order.
func Others(family []string, keep string) []string {
	out := make([]string, 0, len(family))
	for _, l := range family {
		if l != keep {
			out = append(out, l)
		}
	}
	return out
}
