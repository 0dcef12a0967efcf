package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/talentmesh/staffmatch/internal/events"
	"github.com/talentmesh/staffmatch/internal/export"
	"github.com/talentmesh/staffmatch/internal/matching"
	"github.com/talentmesh/staffmatch/internal/store"
)

type RunsHandler struct {
	store  store.Store
	events events.Client
}

func NewRunsHandler(s store.Store, ev events.Client) *RunsHandler {
	return &RunsHandler{store: s, events: ev}
}

type CreateRunRequest struct {
	ProjectID string             `json:"project_id"`
	Weights   map[string]float64 `json:"weights,omitempty"`
	TopK      int                `json:"top_k,omitempty"`
}

func (h *RunsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.ProjectID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "project_id required"})
		return
	}
	for name := range req.Weights {
		if !validCriterion(name) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown criterion " + name})
			return
		}
	}

	project, err := h.store.GetProject(r.Context(), req.ProjectID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if project == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "project not found"})
		return
	}

	run := &store.MatchRun{
		ProjectID: req.ProjectID,
		Status:    store.RunStatusPending,
		Weights:   req.Weights,
		TopK:      req.TopK,
	}
	if err := h.store.CreateRun(r.Context(), run); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	if h.events != nil {
		_ = h.events.Publish(events.SubjectRunCreated(run.ID.String()), events.RunCreatedEvent{
			RunID:     run.ID.String(),
			ProjectID: run.ProjectID,
			TopK:      run.TopK,
		})
	}

	writeJSON(w, http.StatusCreated, run)
}

func (h *RunsHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := store.RunFilter{
		ProjectID: r.URL.Query().Get("project_id"),
	}
	if s := r.URL.Query().Get("status"); s != "" {
		status := store.RunStatus(s)
		filter.Status = &status
	}
	if s := r.URL.Query().Get("limit"); s != "" {
		filter.Limit, _ = strconv.Atoi(s)
	}
	if s := r.URL.Query().Get("offset"); s != "" {
		filter.Offset, _ = strconv.Atoi(s)
	}

	runs, err := h.store.ListRuns(r.Context(), filter)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if runs == nil {
		runs = []*store.MatchRun{}
	}
	writeJSON(w, http.StatusOK, runs)
}

func (h *RunsHandler) Get(w http.ResponseWriter, r *http.Request) {
	run, ok := h.loadRun(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (h *RunsHandler) Results(w http.ResponseWriter, r *http.Request) {
	run, ok := h.loadRun(w, r)
	if !ok {
		return
	}

	results, err := h.store.GetResults(r.Context(), run.ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if results == nil {
		results = []*store.MatchResult{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"run_id":      run.ID,
		"project_id":  run.ProjectID,
		"status":      run.Status,
		"pair_errors": run.PairErrors,
		"results":     results,
	})
}

// Export streams the ranked result set as CSV. Only completed runs export.
func (h *RunsHandler) Export(w http.ResponseWriter, r *http.Request) {
	run, ok := h.loadRun(w, r)
	if !ok {
		return
	}
	if run.Status != store.RunStatusCompleted {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "run is not completed"})
		return
	}

	results, err := h.store.GetResults(r.Context(), run.ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	ranked := matching.RankedResult{ProjectID: run.ProjectID}
	for _, res := range results {
		ranked.Scores = append(ranked.Scores, matching.MatchScore{
			EmployeeID: res.EmployeeID,
			ProjectID:  res.ProjectID,
			Aggregate:  res.Aggregate,
			Criteria:   criteriaFromStored(res.Criteria),
		})
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="run_`+run.ID.String()+`.csv"`)
	if err := export.WriteCSV(w, ranked); err != nil {
		// Headers are already out, the client sees a truncated body.
		exportFailures.Inc()
		return
	}

	if h.events != nil {
		_ = h.events.Publish(events.SubjectRunExported(run.ID.String()), events.RunExportedEvent{
			RunID:     run.ID.String(),
			ProjectID: run.ProjectID,
			Rows:      len(ranked.Scores),
			Timestamp: time.Now().UTC(),
		})
	}
}

func (h *RunsHandler) loadRun(w http.ResponseWriter, r *http.Request) (*store.MatchRun, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid run id"})
		return nil, false
	}
	run, err := h.store.GetRun(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return nil, false
	}
	if run == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "run not found"})
		return nil, false
	}
	return run, true
}

func validCriterion(name string) bool {
	for _, c := range matching.Criteria {
		if c == name {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// criteriaFromStored rebuilds the criterion slice from the persisted JSON
// breakdown, in scoring order.
func criteriaFromStored(stored map[string]interface{}) []matching.CriterionResult {
	var out []matching.CriterionResult
	for _, name := range matching.Criteria {
		entry, ok := stored[name].(map[string]interface{})
		if !ok {
			continue
		}
		c := matching.CriterionResult{Name: name}
		if v, ok := entry["score"].(float64); ok {
			c.Score = v
		}
		if v, ok := entry["weight"].(float64); ok {
			c.Weight = v
		}
		if v, ok := entry["weighted"].(float64); ok {
			c.Weighted = v
		}
		if v, ok := entry["available"].(bool); ok {
			c.Available = v
		}
		if v, ok := entry["reason"].(string); ok {
			c.Reason = v
		}
		out = append(out, c)
	}
	return out
}
