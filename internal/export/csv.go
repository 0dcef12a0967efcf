// Package export serializes ranked results into tabular artifacts for
// downstream consumption. Export is a side effect: a failed export never
// invalidates the computed result.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/talentmesh/staffmatch/internal/matching"
)

// ExportError reports a failure of the underlying sink.
type ExportError struct {
	Err error
}

func (e *ExportError) Error() string { return "export: " + e.Err.Error() }
func (e *ExportError) Unwrap() error { return e.Err }

// WriteCSV writes one row per match score in ranker order: identifier pair,
// rank, aggregate, then one column per criterion.
func WriteCSV(w io.Writer, result matching.RankedResult) error {
	cw := csv.NewWriter(w)

	header := []string{"project_id", "employee_id", "rank", "aggregate"}
	header = append(header, matching.Criteria...)
	if err := cw.Write(header); err != nil {
		return &ExportError{Err: err}
	}

	for i, score := range result.Scores {
		row := []string{
			result.ProjectID,
			score.EmployeeID,
			strconv.Itoa(i + 1),
			formatScore(score.Aggregate),
		}
		for _, name := range matching.Criteria {
			row = append(row, formatScore(score.SubScore(name)))
		}
		if err := cw.Write(row); err != nil {
			return &ExportError{Err: err}
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return &ExportError{Err: err}
	}
	return nil
}

func formatScore(v float64) string {
	return fmt.Sprintf("%.4f", v)
}
