package httpd

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jackw9829/academic-tracker/internal/models"
)

func (h *Handler) PostGrade(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())

	var req models.PostGradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	grade, err := h.gradingService.Grade(r.Context(), actor, &req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"data":    grade,
	})
}

func (h *Handler) GetAllGrades(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())
	assessmentID := r.URL.Query().Get("assessmentId")
	studentID := r.URL.Query().Get("studentId")

	grades, err := h.gradingService.GetGrades(r.Context(), actor, assessmentID, studentID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, grades)
}

func (h *Handler) VerifyGrade(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())

	submissionID := chi.URLParam(r, "submissionId")
	if submissionID == "" {
		writeError(w, http.StatusBadRequest, "Submission ID is required")
		return
	}

	var req models.VerifyGradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	grade, err := h.gradingService.Verify(r.Context(), actor, submissionID, req.Verified)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, grade)
}

func (h *Handler) GetGradeBySubmission(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())

	submissionID := chi.URLParam(r, "submissionId")
	if submissionID == "" {
		writeError(w, http.StatusBadRequest, "Submission ID is required")
		return
	}

	grade, err := h.gradingService.GetBySubmission(r.Context(), actor, submissionID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, grade)
}
