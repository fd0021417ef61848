package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"courseware/internal/models"
	"courseware/internal/services"
)

type StudentHandler struct {
	service services.StudentServiceInterface
}

func NewStudentHandler(service services.StudentServiceInterface) *StudentHandler {
	return &StudentHandler{service: service}
}

// CreateStudent registers the student named by X-User-ID. The JSON body
// carries the profile.
func (h *StudentHandler) CreateStudent(w http.ResponseWriter, r *http.Request) {
	studentID, err := strconv.ParseInt(r.Header.Get("X-User-ID"), 10, 64)
	if err != nil || studentID <= 0 {
		writeError(w, http.StatusBadRequest, "X-User-ID header must be a positive integer")
		return
	}

	var student models.Student
	if err := json.NewDecoder(r.Body).Decode(&student); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	student.StudentID = studentID

	if err := h.service.CreateStudent(r.Context(), student); err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "ok"})
}
