package httpd

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jackw9829/academic-tracker/internal/models"
)

func (h *Handler) UploadMaterial(w http.ResponseWriter, r *http.Request) {
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

	req := &models.UploadMaterialRequest{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		CourseID:    r.FormValue("courseId"),
		FileName:    header.Filename,
		FileType:    header.Header.Get("Content-Type"),
		FileContent: fileContent,
	}

	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	material, err := h.materialService.Upload(r.Context(), actor, req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"data":    material,
	})
}

func (h *Handler) GetAllMaterials(w http.ResponseWriter, r *http.Request) {
	courseID := r.URL.Query().Get("courseId")

	materials, err := h.materialService.List(r.Context(), courseID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, materials)
}

func (h *Handler) DownloadMaterial(w http.ResponseWriter, r *http.Request) {
	materialID := chi.URLParam(r, "id")
	if materialID == "" {
		writeError(w, http.StatusBadRequest, "Material ID is required")
		return
	}

	response, err := h.materialService.DownloadURL(r.Context(), materialID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, response)
}
