package matching

import "fmt"

// InvalidProfileError reports a record that cannot be normalized because a
// mandatory field is missing or unusable.
type InvalidProfileError struct {
	ID    string
	Field string
}

func (e *InvalidProfileError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("invalid profile: missing %s", e.Field)
	}
	return fmt.Sprintf("invalid profile %s: missing %s", e.ID, e.Field)
}

// InvalidWeightError reports a weight configuration with no usable weighting.
// It aborts the whole run since weights apply globally.
type InvalidWeightError struct {
	Reason string
}

func (e *InvalidWeightError) Error() string {
	return "invalid weights: " + e.Reason
}

// MissingCriterionError reports a configured weight with no corresponding
// sub-score, which would silently under-count the aggregate.
type MissingCriterionError struct {
	Criterion string
}

func (e *MissingCriterionError) Error() string {
	return "no sub-score for weighted criterion " + e.Criterion
}
