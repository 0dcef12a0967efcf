package matching

// MatchScore is the scored outcome for one (employee, project) pair.
// Never mutated after creation.
type MatchScore struct {
	EmployeeID string            `json:"employee_id"`
	ProjectID  string            `json:"project_id"`
	Aggregate  float64           `json:"aggregate"`
	Criteria   []CriterionResult `json:"criteria"`
}

// SubScore returns the sub-score for a named criterion, or the neutral score
// if the pair was never scored on it.
func (m MatchScore) SubScore(name string) float64 {
	for _, c := range m.Criteria {
		if c.Name == name {
			return c.Score
		}
	}
	return neutralScore
}

// Aggregator combines criterion sub-scores into a single match score using a
// normalized weight set.
type Aggregator struct {
	weights Weights
}

// NewAggregator validates and normalizes the weight set up front, so a bad
// configuration fails before any pair is scored.
func NewAggregator(weights Weights) (*Aggregator, error) {
	norm, err := weights.Normalized()
	if err != nil {
		return nil, err
	}
	return &Aggregator{weights: norm}, nil
}

// Weights returns the normalized weight set in use.
func (a *Aggregator) Weights() Weights { return a.weights }

// Aggregate computes the weighted combination of sub-scores for one pair.
// Only available criteria contribute; their weights are renormalized so the
// effective weights sum to 1. When no criterion is available the full weight
// set applies to the neutral sub-scores, which pins the aggregate at 0.5.
// A weighted criterion with no sub-score fails with MissingCriterionError.
func (a *Aggregator) Aggregate(employeeID, projectID string, results []CriterionResult) (MatchScore, error) {
	byName := a.weights.ByName()
	present := make(map[string]bool, len(results))
	for _, r := range results {
		present[r.Name] = true
	}
	for name, w := range byName {
		if w > 0 && !present[name] {
			return MatchScore{}, &MissingCriterionError{Criterion: name}
		}
	}

	var applied float64
	for _, r := range results {
		if r.Available {
			applied += byName[r.Name]
		}
	}

	criteria := make([]CriterionResult, len(results))
	var total float64
	for i, r := range results {
		weight := 0.0
		switch {
		case applied > 0 && r.Available:
			weight = byName[r.Name] / applied
		case applied == 0:
			weight = byName[r.Name]
		}
		r.Weight = weight
		r.Weighted = r.Score * weight
		total += r.Weighted
		criteria[i] = r
	}

	return MatchScore{
		EmployeeID: employeeID,
		ProjectID:  projectID,
		Aggregate:  clamp(total, 0, 1),
		Criteria:   criteria,
	}, nil
}
