package matching

import "sort"

// RankedResult is the ordered outcome of one ranking run for a project,
// sorted descending by aggregate score. Immutable once produced.
type RankedResult struct {
	ProjectID string       `json:"project_id"`
	Scores    []MatchScore `json:"scores"`
}

// Rank orders match scores descending by aggregate. Ties break on the
// sub-score of the highest-weighted criterion, then on employee identifier
// ascending, which makes the order total for distinct employees. A topK of
// zero or less keeps every candidate; a topK beyond the candidate count
// returns all of them.
func Rank(projectID string, scores []MatchScore, weights Weights, topK int) RankedResult {
	ranked := make([]MatchScore, len(scores))
	copy(ranked, scores)

	top := weights.TopCriterion()
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Aggregate != ranked[j].Aggregate {
			return ranked[i].Aggregate > ranked[j].Aggregate
		}
		si, sj := ranked[i].SubScore(top), ranked[j].SubScore(top)
		if si != sj {
			return si > sj
		}
		return ranked[i].EmployeeID < ranked[j].EmployeeID
	})

	if topK > 0 && topK < len(ranked) {
		ranked = ranked[:topK]
	}
	return RankedResult{ProjectID: projectID, Scores: ranked}
}
