package api

import (
	"net/http"

	"github.com/talentmesh/staffmatch/internal/engine"
	"github.com/talentmesh/staffmatch/internal/store"
)

type AdminHandler struct {
	store  store.Store
	engine *engine.Engine
}

func NewAdminHandler(s store.Store, eng *engine.Engine) *AdminHandler {
	return &AdminHandler{store: s, engine: eng}
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.GetStats(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *AdminHandler) SyncDirectory(w http.ResponseWriter, r *http.Request) {
	employees, projects, err := h.engine.SyncDirectory(r.Context())
	if err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{
		"employees": employees,
		"projects":  projects,
	})
}
