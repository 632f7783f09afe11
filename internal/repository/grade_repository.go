package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jackw9829/academic-tracker/internal/models"
	"github.com/jackw9829/academic-tracker/internal/store"
)

type GradeRepository interface {
	Save(ctx context.Context, grade *models.Grade) error
	GetBySubmissionID(ctx context.Context, submissionID string) (*models.Grade, error)
	GetAll(ctx context.Context) ([]models.Grade, error)
}

type gradeRepository struct {
	store  store.RecordStore
	logger zerolog.Logger
}

func NewGradeRepository(store store.RecordStore, logger zerolog.Logger) GradeRepository {
	return &gradeRepository{
		store:  store,
		logger: logger,
	}
}

// Save пишет по детерминированному ключу grade:submission:{id} — повторная
// оценка той же submission перезаписывает предыдущую запись.
func (r *gradeRepository) Save(ctx context.Context, grade *models.Grade) error {
	if err := r.store.Put(ctx, models.GradeKey(grade.SubmissionID), grade); err != nil {
		return fmt.Errorf("failed to save grade: %w", err)
	}
	return nil
}

func (r *gradeRepository) GetBySubmissionID(ctx context.Context, submissionID string) (*models.Grade, error) {
	grade := &models.Grade{}
	found, err := r.store.Get(ctx, models.GradeKey(submissionID), grade)
	if err != nil {
		return nil, fmt.Errorf("failed to get grade: %w", err)
	}
	if !found {
		return nil, nil
	}
	return grade, nil
}

func (r *gradeRepository) GetAll(ctx context.Context) ([]models.Grade, error) {
	records, err := r.store.ScanPrefix(ctx, models.GradeKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to scan grades: %w", err)
	}

	grades := make([]models.Grade, 0, len(records))
	for _, data := range records {
		var grade models.Grade
		if err := json.Unmarshal(data, &grade); err != nil {
			return nil, fmt.Errorf("failed to unmarshal grade: %w", err)
		}
		grades = append(grades, grade)
	}

	return grades, nil
}
