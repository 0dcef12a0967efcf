package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/talentmesh/staffmatch/internal/store"
)

type EmployeesHandler struct {
	store store.Store
}

func NewEmployeesHandler(s store.Store) *EmployeesHandler {
	return &EmployeesHandler{store: s}
}

func (h *EmployeesHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var emp store.Employee
	if err := json.NewDecoder(r.Body).Decode(&emp); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if emp.ID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "employee_id required"})
		return
	}

	if err := h.store.UpsertEmployee(r.Context(), &emp); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, emp)
}

func (h *EmployeesHandler) List(w http.ResponseWriter, r *http.Request) {
	employees, err := h.store.ListEmployees(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if employees == nil {
		employees = []*store.Employee{}
	}
	writeJSON(w, http.StatusOK, employees)
}

func (h *EmployeesHandler) Get(w http.ResponseWriter, r *http.Request) {
	emp, err := h.store.GetEmployee(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if emp == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "employee not found"})
		return
	}
	writeJSON(w, http.StatusOK, emp)
}

func (h *EmployeesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteEmployee(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
