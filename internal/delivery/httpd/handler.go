package httpd

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/jackw9829/academic-tracker/internal/service"
	"github.com/jackw9829/academic-tracker/internal/service/integration"
)

type Handler struct {
	accountService      service.AccountService
	courseService       service.CourseService
	materialService     service.MaterialService
	assessmentService   service.AssessmentService
	submissionService   service.SubmissionService
	gradingService      service.GradingService
	notificationService service.NotificationService
	reportService       service.ReportService
	identityProvider    integration.IdentityProvider
	validate            *validator.Validate
	logger              zerolog.Logger
}

func NewHandler(
	accountService service.AccountService,
	courseService service.CourseService,
	materialService service.MaterialService,
	assessmentService service.AssessmentService,
	submissionService service.SubmissionService,
	gradingService service.GradingService,
	notificationService service.NotificationService,
	reportService service.ReportService,
	identityProvider integration.IdentityProvider,
	logger zerolog.Logger,
) *Handler {
	return &Handler{
		accountService:      accountService,
		courseService:       courseService,
		materialService:     materialService,
		assessmentService:   assessmentService,
		submissionService:   submissionService,
		gradingService:      gradingService,
		notificationService: notificationService,
		reportService:       reportService,
		identityProvider:    identityProvider,
		validate:            validator.New(),
		logger:              logger,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/health", h.HealthCheck)

	router.Route("/api/v1", func(api chi.Router) {
		api.Post("/auth/signup", h.Signup)

		// Публичные чтения каталога
		api.Get("/courses", h.GetAllCourses)
		api.Get("/materials", h.GetAllMaterials)
		api.Get("/assessments", h.GetAllAssessments)

		// Всё ниже требует валидного bearer токена
		api.Group(func(r chi.Router) {
			r.Use(h.RequireAuth)

			r.Get("/auth/profile", h.GetProfile)

			r.Post("/courses", h.CreateCourse)

			r.Post("/materials/upload", h.UploadMaterial)
			r.Get("/materials/{id}/download", h.DownloadMaterial)

			r.Post("/assessments", h.CreateAssessment)

			r.Route("/submissions", func(r chi.Router) {
				r.Post("/", h.CreateSubmission)
				r.Get("/", h.GetAllSubmissions)
				r.Get("/{id}/download", h.DownloadSubmission)
			})

			r.Route("/grades", func(r chi.Router) {
				r.Post("/", h.PostGrade)
				r.Get("/", h.GetAllGrades)
				r.Get("/submission/{submissionId}", h.GetGradeBySubmission)
				r.Put("/{submissionId}/verify", h.VerifyGrade)
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", h.GetNotifications)
				r.Put("/{id}/read", h.MarkNotificationRead)
			})

			r.Route("/reports", func(r chi.Router) {
				r.Get("/student/{id}", h.GetStudentReport)
				r.Get("/course/{id}", h.GetCourseReport)
				r.Get("/course/{id}/export", h.ExportCourseReport)
			})
		})
	})
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"service":   "academic-tracker",
		"timestamp": time.Now().UTC(),
	}

	writeJSON(w, http.StatusOK, response)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error":   http.StatusText(status),
		"message": message,
	})
}

func writeSuccess(w http.ResponseWriter, data interface{}) {
	response := map[string]interface{}{
		"success": true,
		"data":    data,
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrUpstream):
		h.logger.Error().Err(err).Msg("Upstream dependency error")
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		h.logger.Error().Err(err).Msg("Service error")
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
