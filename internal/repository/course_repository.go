package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jackw9829/academic-tracker/internal/models"
	"github.com/jackw9829/academic-tracker/internal/store"
)

type CourseRepository interface {
	Save(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id string) (*models.Course, error)
	GetAll(ctx context.Context) ([]models.Course, error)
}

type courseRepository struct {
	store  store.RecordStore
	logger zerolog.Logger
}

func NewCourseRepository(store store.RecordStore, logger zerolog.Logger) CourseRepository {
	return &courseRepository{
		store:  store,
		logger: logger,
	}
}

func (r *courseRepository) Save(ctx context.Context, course *models.Course) error {
	if err := r.store.Put(ctx, models.CourseKey(course.ID), course); err != nil {
		return fmt.Errorf("failed to save course: %w", err)
	}
	return nil
}

func (r *courseRepository) GetByID(ctx context.Context, id string) (*models.Course, error) {
	course := &models.Course{}
	found, err := r.store.Get(ctx, models.CourseKey(id), course)
	if err != nil {
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	if !found {
		return nil, nil
	}
	return course, nil
}

func (r *courseRepository) GetAll(ctx context.Context) ([]models.Course, error) {
	records, err := r.store.ScanPrefix(ctx, models.CourseKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to scan courses: %w", err)
	}

	courses := make([]models.Course, 0, len(records))
	for _, data := range records {
		var course models.Course
		if err := json.Unmarshal(data, &course); err != nil {
			return nil, fmt.Errorf("failed to unmarshal course: %w", err)
		}
		courses = append(courses, course)
	}

	return courses, nil
}
