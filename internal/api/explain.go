package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/talentmesh/staffmatch/internal/store"
)

type ExplainHandler struct {
	store store.Store
}

func NewExplainHandler(s store.Store) *ExplainHandler {
	return &ExplainHandler{store: s}
}

// Explain returns the per-criterion breakdown for one employee in a run.
// GET /api/v1/matching/explain/{run_id}/{employee_id}
func (h *ExplainHandler) Explain(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "run_id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid run_id"})
		return
	}
	employeeID := chi.URLParam(r, "employee_id")

	run, err := h.store.GetRun(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if run == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "run not found"})
		return
	}

	results, err := h.store.GetResults(r.Context(), run.ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	for _, res := range results {
		if res.EmployeeID != employeeID {
			continue
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"run_id":      run.ID,
			"project_id":  res.ProjectID,
			"employee_id": res.EmployeeID,
			"rank":        res.Rank,
			"aggregate":   res.Aggregate,
			"criteria":    res.Criteria,
		})
		return
	}

	// Not in the ranked set: either dropped by top-k or failed as a pair.
	for _, pe := range run.PairErrors {
		if pe.EmployeeID == employeeID {
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"run_id":      run.ID,
				"project_id":  run.ProjectID,
				"employee_id": employeeID,
				"pair_error":  pe.Error,
			})
			return
		}
	}

	writeJSON(w, http.StatusNotFound, map[string]string{"error": "employee not in run results"})
}
