package httpd

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) GetStudentReport(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())

	studentID := chi.URLParam(r, "id")
	if studentID == "" {
		writeError(w, http.StatusBadRequest, "Student ID is required")
		return
	}

	report, err := h.reportService.StudentReport(r.Context(), actor, studentID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, report)
}

func (h *Handler) GetCourseReport(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())

	courseID := chi.URLParam(r, "id")
	if courseID == "" {
		writeError(w, http.StatusBadRequest, "Course ID is required")
		return
	}

	report, err := h.reportService.CourseReport(r.Context(), actor, courseID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, report)
}

func (h *Handler) ExportCourseReport(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())

	courseID := chi.URLParam(r, "id")
	if courseID == "" {
		writeError(w, http.StatusBadRequest, "Course ID is required")
		return
	}

	content, filename, err := h.reportService.ExportCourseReport(r.Context(), actor, courseID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(content)
}
