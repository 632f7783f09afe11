package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jackw9829/academic-tracker/internal/models"
	"github.com/jackw9829/academic-tracker/internal/store"
)

type AssessmentRepository interface {
	Save(ctx context.Context, assessment *models.Assessment) error
	GetByID(ctx context.Context, id string) (*models.Assessment, error)
	GetAll(ctx context.Context) ([]models.Assessment, error)
}

type assessmentRepository struct {
	store  store.RecordStore
	logger zerolog.Logger
}

func NewAssessmentRepository(store store.RecordStore, logger zerolog.Logger) AssessmentRepository {
	return &assessmentRepository{
		store:  store,
		logger: logger,
	}
}

func (r *assessmentRepository) Save(ctx context.Context, assessment *models.Assessment) error {
	if err := r.store.Put(ctx, models.AssessmentKey(assessment.ID), assessment); err != nil {
		return fmt.Errorf("failed to save assessment: %w", err)
	}
	return nil
}

func (r *assessmentRepository) GetByID(ctx context.Context, id string) (*models.Assessment, error) {
	assessment := &models.Assessment{}
	found, err := r.store.Get(ctx, models.AssessmentKey(id), assessment)
	if err != nil {
		return nil, fmt.Errorf("failed to get assessment: %w", err)
	}
	if !found {
		return nil, nil
	}
	return assessment, nil
}

func (r *assessmentRepository) GetAll(ctx context.Context) ([]models.Assessment, error) {
	records, err := r.store.ScanPrefix(ctx, models.AssessmentKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to scan assessments: %w", err)
	}

	assessments := make([]models.Assessment, 0, len(records))
	for _, data := range records {
		var assessment models.Assessment
		if err := json.Unmarshal(data, &assessment); err != nil {
			return nil, fmt.Errorf("failed to unmarshal assessment: %w", err)
		}
		assessments = append(assessments, assessment)
	}

	return assessments, nil
}
