package handlers

import (
	"net/http"

	"courseware/internal/middleware"
	"courseware/internal/models"
	"courseware/internal/services"

	"github.com/go-chi/chi/v5"
)

type ModuleHandler struct {
	service services.ModuleServiceInterface
}

func NewModuleHandler(service services.ModuleServiceInterface) *ModuleHandler {
	return &ModuleHandler{service: service}
}

func locationParam(r *http.Request) string {
	return models.NewLocation(
		chi.URLParam(r, "org"),
		chi.URLParam(r, "course"),
		chi.URLParam(r, "category"),
		chi.URLParam(r, "name"),
	).String()
}

func (h *ModuleHandler) StudentView(w http.ResponseWriter, r *http.Request) {
	studentID, ok := middleware.GetStudentIDFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "student required")
		return
	}

	html, err := h.service.StudentView(r.Context(), studentID, locationParam(r))
	if err != nil {
		fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(html))
}

// Ajax passes the form values of the request to the module's handler and
// answers with its JSON response.
func (h *ModuleHandler) Ajax(w http.ResponseWriter, r *http.Request) {
	studentID, ok := middleware.GetStudentIDFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "student required")
		return
	}
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form data")
		return
	}

	resp, err := h.service.HandleAjax(r.Context(), studentID, locationParam(r), chi.URLParam(r, "dispatch"), r.Form)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
