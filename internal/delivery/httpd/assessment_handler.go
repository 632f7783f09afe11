package httpd

import (
	"encoding/json"
	"net/http"

	"github.com/jackw9829/academic-tracker/internal/models"
)

func (h *Handler) CreateAssessment(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())

	var req models.CreateAssessmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	assessment, err := h.assessmentService.Create(r.Context(), actor, &req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"data":    assessment,
	})
}

func (h *Handler) GetAllAssessments(w http.ResponseWriter, r *http.Request) {
	courseID := r.URL.Query().Get("courseId")

	assessments, err := h.assessmentService.List(r.Context(), courseID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, assessments)
}
