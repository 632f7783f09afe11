package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jackw9829/academic-tracker/internal/models"
	"github.com/jackw9829/academic-tracker/internal/store"
)

type SubmissionRepository interface {
	Save(ctx context.Context, submission *models.Submission) error
	GetByID(ctx context.Context, id string) (*models.Submission, error)
	GetAll(ctx context.Context) ([]models.Submission, error)
}

type submissionRepository struct {
	store  store.RecordStore
	logger zerolog.Logger
}

func NewSubmissionRepository(store store.RecordStore, logger zerolog.Logger) SubmissionRepository {
	return &submissionRepository{
		store:  store,
		logger: logger,
	}
}

func (r *submissionRepository) Save(ctx context.Context, submission *models.Submission) error {
	if err := r.store.Put(ctx, models.SubmissionKey(submission.ID), submission); err != nil {
		return fmt.Errorf("failed to save submission: %w", err)
	}
	return nil
}

func (r *submissionRepository) GetByID(ctx context.Context, id string) (*models.Submission, error) {
	submission := &models.Submission{}
	found, err := r.store.Get(ctx, models.SubmissionKey(id), submission)
	if err != nil {
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	if !found {
		return nil, nil
	}
	return submission, nil
}

func (r *submissionRepository) GetAll(ctx context.Context) ([]models.Submission, error) {
	records, err := r.store.ScanPrefix(ctx, models.SubmissionKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to scan submissions: %w", err)
	}

	submissions := make([]models.Submission, 0, len(records))
	for _, data := range records {
		var submission models.Submission
		if err := json.Unmarshal(data, &submission); err != nil {
			return nil, fmt.Errorf("failed to unmarshal submission: %w", err)
		}
		submissions = append(submissions, submission)
	}

	return submissions, nil
}
