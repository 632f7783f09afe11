package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jackw9829/academic-tracker/internal/models"
	"github.com/jackw9829/academic-tracker/internal/repository"
)

type AssessmentService interface {
	Create(ctx context.Context, actor *models.Actor, req *models.CreateAssessmentRequest) (*models.Assessment, error)
	List(ctx context.Context, courseID string) ([]models.Assessment, error)
}

type assessmentService struct {
	assessmentRepo repository.AssessmentRepository
	courseRepo     repository.CourseRepository
	notifications  NotificationService
	logger         zerolog.Logger
}

func NewAssessmentService(
	assessmentRepo repository.AssessmentRepository,
	courseRepo repository.CourseRepository,
	notifications NotificationService,
	logger zerolog.Logger,
) AssessmentService {
	return &assessmentService{
		assessmentRepo: assessmentRepo,
		courseRepo:     courseRepo,
		notifications:  notifications,
		logger:         logger,
	}
}

func (s *assessmentService) Create(ctx context.Context, actor *models.Actor, req *models.CreateAssessmentRequest) (*models.Assessment, error) {
	if !PolicyAllows(actor.Role, OpCreateAssessment) {
		return nil, fmt.Errorf("%w: instructor or admin role required", ErrForbidden)
	}

	if req.TotalMarks <= 0 {
		return nil, fmt.Errorf("%w: totalMarks must be positive", ErrInvalidInput)
	}

	course, err := s.courseRepo.GetByID(ctx, req.CourseID)
	if err != nil {
		return nil, fmt.Errorf("failed to check course: %w", err)
	}
	if course == nil {
		return nil, fmt.Errorf("course %w", ErrNotFound)
	}

	assessment := &models.Assessment{
		ID:             uuid.New().String(),
		Title:          req.Title,
		Description:    req.Description,
		CourseID:       req.CourseID,
		DueDate:        req.DueDate,
		TotalMarks:     req.TotalMarks,
		InstructorID:   actor.ID,
		InstructorName: actor.Name,
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.assessmentRepo.Save(ctx, assessment); err != nil {
		return nil, fmt.Errorf("failed to create assessment: %w", err)
	}

	// Broadcast для всех студентов
	message := fmt.Sprintf("New assessment %q has been posted", assessment.Title)
	if err := s.notifications.Emit(ctx, "", models.NotificationNewAssessment, message, assessment.ID); err != nil {
		s.logger.Error().Err(err).Str("assessment_id", assessment.ID).Msg("Failed to emit assessment notification")
	}

	s.logger.Info().
		Str("assessment_id", assessment.ID).
		Str("course_id", assessment.CourseID).
		Int("total_marks", assessment.TotalMarks).
		Msg("Assessment created")

	return assessment, nil
}

func (s *assessmentService) List(ctx context.Context, courseID string) ([]models.Assessment, error) {
	assessments, err := s.assessmentRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list assessments: %w", err)
	}

	if courseID != "" {
		filtered := assessments[:0]
		for _, a := range assessments {
			if a.CourseID == courseID {
				filtered = append(filtered, a)
			}
		}
		assessments = filtered
	}

	sort.Slice(assessments, func(i, j int) bool {
		return assessments[i].CreatedAt.After(assessments[j].CreatedAt)
	})

	return assessments, nil
}
