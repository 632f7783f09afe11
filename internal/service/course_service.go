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

type CourseService interface {
	Create(ctx context.Context, actor *models.Actor, req *models.CreateCourseRequest) (*models.Course, error)
	List(ctx context.Context) ([]models.Course, error)
}

type courseService struct {
	courseRepo repository.CourseRepository
	logger     zerolog.Logger
}

func NewCourseService(courseRepo repository.CourseRepository, logger zerolog.Logger) CourseService {
	return &courseService{
		courseRepo: courseRepo,
		logger:     logger,
	}
}

func (s *courseService) Create(ctx context.Context, actor *models.Actor, req *models.CreateCourseRequest) (*models.Course, error) {
	if !PolicyAllows(actor.Role, OpCreateCourse) {
		return nil, fmt.Errorf("%w: instructor or admin role required", ErrForbidden)
	}

	course := &models.Course{
		ID:             uuid.New().String(),
		Name:           req.Name,
		Description:    req.Description,
		InstructorID:   actor.ID,
		InstructorName: actor.Name,
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.courseRepo.Save(ctx, course); err != nil {
		return nil, fmt.Errorf("failed to create course: %w", err)
	}

	s.logger.Info().
		Str("course_id", course.ID).
		Str("instructor_id", actor.ID).
		Msg("Course created")

	return course, nil
}

func (s *courseService) List(ctx context.Context) ([]models.Course, error) {
	courses, err := s.courseRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}

	sort.Slice(courses, func(i, j int) bool {
		return courses[i].CreatedAt.After(courses[j].CreatedAt)
	})

	return courses, nil
}
