package httpd

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jackw9829/academic-tracker/internal/models"
)

func (h *Handler) CreateSubmission(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())

	if err := r.ParseMultipartForm(32 << 20); err != nil { // 32MB
		writeError(w, http.StatusBadRequest, "Failed to parse form data")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "File is required")
		return
	}
	defer file.Close()

	fileContent, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to read file")
		return
	}

	req := &models.CreateSubmissionRequest{
		AssessmentID: r.FormValue("assessmentId"),
		FileName:     header.Filename,
		FileType:     header.Header.Get("Content-Type"),
		FileContent:  fileContent,
	}

	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	submission, err := h.submissionService.Submit(r.Context(), actor, req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"data":    submission,
	})
}

func (h *Handler) GetAllSubmissions(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())
	assessmentID := r.URL.Query().Get("assessmentId")
	studentID := r.URL.Query().Get("studentId")

	submissions, err := h.submissionService.List(r.Context(), actor, assessmentID, studentID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, submissions)
}

func (h *Handler) DownloadSubmission(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())

	submissionID := chi.URLParam(r, "id")
	if submissionID == "" {
		writeError(w, http.StatusBadRequest, "Submission ID is required")
		return
	}

	response, err := h.submissionService.DownloadURL(r.Context(), actor, submissionID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, response)
}
