package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"strings"
	"testing"

	"github.com/talentmesh/staffmatch/internal/matching"
)

func sampleResult() matching.RankedResult {
	return matching.RankedResult{
		ProjectID: "proj-1",
		Scores: []matching.MatchScore{
			{
				EmployeeID: "emp-a", ProjectID: "proj-1", Aggregate: 0.91,
				Criteria: []matching.CriterionResult{
					{Name: matching.CriterionSkillOverlap, Score: 0.95, Available: true},
				},
			},
			{
				EmployeeID: "emp-b", ProjectID: "proj-1", Aggregate: 0.62,
			},
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleResult()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d records", len(records))
	}

	header := records[0]
	wantCols := 4 + len(matching.Criteria)
	if len(header) != wantCols {
		t.Errorf("expected %d columns, got %d", wantCols, len(header))
	}
	if header[0] != "project_id" || header[1] != "employee_id" || header[2] != "rank" || header[3] != "aggregate" {
		t.Errorf("unexpected header: %v", header)
	}
	for i, name := range matching.Criteria {
		if header[4+i] != name {
			t.Errorf("column %d is %s, want %s", 4+i, header[4+i], name)
		}
	}

	first := records[1]
	if first[0] != "proj-1" || first[1] != "emp-a" || first[2] != "1" {
		t.Errorf("unexpected first row: %v", first)
	}
	if first[3] != "0.9100" {
		t.Errorf("expected aggregate 0.9100, got %s", first[3])
	}
	if first[4] != "0.9500" {
		t.Errorf("expected skill sub-score 0.9500, got %s", first[4])
	}

	second := records[2]
	if second[1] != "emp-b" || second[2] != "2" {
		t.Errorf("unexpected second row: %v", second)
	}
	// Missing criteria fall back to the neutral sub-score
	if second[4] != "0.5000" {
		t.Errorf("expected neutral 0.5000, got %s", second[4])
	}
}

func TestWriteCSVEmptyResult(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, matching.RankedResult{ProjectID: "proj-1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Errorf("expected header only, got %d lines", len(lines))
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("sink closed") }

func TestWriteCSVWrapsSinkErrors(t *testing.T) {
	err := WriteCSV(failingWriter{}, sampleResult())
	var exportErr *ExportError
	if !errors.As(err, &exportErr) {
		t.Fatalf("expected ExportError, got %v", err)
	}
	if !strings.Contains(err.Error(), "sink closed") {
		t.Errorf("expected wrapped cause, got %v", err)
	}
}
