package model

// RPClassification says whether a pull request touches only resource
// provider services that already exist at the reference commit.
type RPClassification string

const (
	RPServiceNew      RPClassification = "new"
	RPServiceExisting RPClassification = "existing"
)

// Label returns the pull request label that represents the classification.
func (c RPClassification) Label() string {
	if c == RPServiceExisting {
		return LabelRPServiceExisting
	}
	return LabelRPServiceNew
}

// TypeSpecClassification describes how a pull request relates to TypeSpec
// generated specification documents of the services it touches.
type TypeSpecClassification string

const (
	TypeSpecNoop        TypeSpecClassification = "noop"
	TypeSpecNew         TypeSpecClassification = "new"
	TypeSpecIncremental TypeSpecClassification = "incremental"
)

// Label returns the pull request label that represents the classification.
func (c TypeSpecClassification) Label() string {
	switch c {
	case TypeSpecNew:
		return LabelTypeSpecNew
	case TypeSpecIncremental:
		return LabelTypeSpecIncremental
	default:
		return LabelTypeSpecNoop
	}
}

// CIStatus represents the state of a CI check.
type CIStatus string

const (
	CIStatusPassing CIStatus = "passing"
	CIStatusFailing CIStatus = "failing"
	CIStatusPending CIStatus = "pending"
	CIStatusUnknown CIStatus = "unknown"
)
