package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"courseware/internal/models"
	"courseware/internal/services"
)

type AdminHandler struct {
	service services.AdminServiceInterface
}

func NewAdminHandler(service services.AdminServiceInterface) *AdminHandler {
	return &AdminHandler{service: service}
}

func (h *AdminHandler) SaveModule(w http.ResponseWriter, r *http.Request) {
	var rec models.DescriptorRecord
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	rec.Location = strings.TrimSpace(rec.Location)
	if rec.Location == "" {
		writeError(w, http.StatusBadRequest, "field 'location' is required")
		return
	}

	if err := h.service.SaveModule(r.Context(), rec); err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"ok": true, "location": rec.Location})
}
