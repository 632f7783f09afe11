package service

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jackw9829/academic-tracker/internal/models"
	"github.com/jackw9829/academic-tracker/internal/repository"
)

type SubmissionService interface {
	Submit(ctx context.Context, actor *models.Actor, req *models.CreateSubmissionRequest) (*models.Submission, error)
	List(ctx context.Context, actor *models.Actor, assessmentID, studentID string) ([]models.Submission, error)
	DownloadURL(ctx context.Context, actor *models.Actor, id string) (*models.DownloadResponse, error)
}

type submissionService struct {
	submissionRepo repository.SubmissionRepository
	assessmentRepo repository.AssessmentRepository
	blobRepo       repository.BlobRepository
	notifications  NotificationService
	bucket         string
	urlExpiry      time.Duration
	logger         zerolog.Logger
}

func NewSubmissionService(
	submissionRepo repository.SubmissionRepository,
	assessmentRepo repository.AssessmentRepository,
	blobRepo repository.BlobRepository,
	notifications NotificationService,
	bucket string,
	urlExpiry time.Duration,
	logger zerolog.Logger,
) SubmissionService {
	return &submissionService{
		submissionRepo: submissionRepo,
		assessmentRepo: assessmentRepo,
		blobRepo:       blobRepo,
		notifications:  notifications,
		bucket:         bucket,
		urlExpiry:      urlExpiry,
		logger:         logger,
	}
}

func (s *submissionService) Submit(ctx context.Context, actor *models.Actor, req *models.CreateSubmissionRequest) (*models.Submission, error) {
	if !PolicyAllows(actor.Role, OpCreateSubmission) {
		return nil, fmt.Errorf("%w: authenticated role required", ErrForbidden)
	}

	if len(req.FileContent) == 0 || req.AssessmentID == "" {
		return nil, fmt.Errorf("%w: file and assessmentId are required", ErrInvalidInput)
	}

	assessment, err := s.assessmentRepo.GetByID(ctx, req.AssessmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to check assessment: %w", err)
	}
	if assessment == nil {
		return nil, fmt.Errorf("assessment %w", ErrNotFound)
	}

	objectName := fmt.Sprintf("%s-%d-%s", actor.ID, time.Now().UnixNano(), req.FileName)
	path, err := s.blobRepo.Upload(ctx, s.bucket, objectName, bytes.NewReader(req.FileContent), int64(len(req.FileContent)), req.FileType)
	if err != nil {
		s.logger.Error().Err(err).Str("object", objectName).Msg("Failed to upload submission file")
		return nil, fmt.Errorf("%w: blob store upload", ErrUpstream)
	}

	submission := &models.Submission{
		ID:           uuid.New().String(),
		AssessmentID: req.AssessmentID,
		StudentID:    actor.ID,
		StudentName:  actor.Name,
		FileName:     req.FileName,
		FileSize:     int64(len(req.FileContent)),
		FileType:     req.FileType,
		FilePath:     path,
		Status:       models.SubmissionStatusSubmitted.String(),
		SubmittedAt:  time.Now().UTC(),
	}

	if err := s.submissionRepo.Save(ctx, submission); err != nil {
		return nil, fmt.Errorf("failed to save submission: %w", err)
	}

	if err := s.notifications.Emit(ctx, actor.ID, models.NotificationSubmissionConfirmed,
		"Your submission has been received successfully", submission.ID); err != nil {
		s.logger.Error().Err(err).Str("submission_id", submission.ID).Msg("Failed to emit submission notification")
	}

	s.logger.Info().
		Str("submission_id", submission.ID).
		Str("assessment_id", submission.AssessmentID).
		Str("student_id", actor.ID).
		Msg("Submission created")

	return submission, nil
}

// List применяет read-own правило: студент видит только свои submissions,
// instructor/admin — любые.
func (s *submissionService) List(ctx context.Context, actor *models.Actor, assessmentID, studentID string) ([]models.Submission, error) {
	if !PolicyAllows(actor.Role, OpListAllRecords) {
		studentID = actor.ID
	}

	submissions, err := s.submissionRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}

	filtered := submissions[:0]
	for _, sub := range submissions {
		if assessmentID != "" && sub.AssessmentID != assessmentID {
			continue
		}
		if studentID != "" && sub.StudentID != studentID {
			continue
		}
		filtered = append(filtered, sub)
	}
	submissions = filtered

	sort.Slice(submissions, func(i, j int) bool {
		return submissions[i].SubmittedAt.After(submissions[j].SubmittedAt)
	})

	return submissions, nil
}

func (s *submissionService) DownloadURL(ctx context.Context, actor *models.Actor, id string) (*models.DownloadResponse, error) {
	submission, err := s.submissionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	if submission == nil {
		return nil, fmt.Errorf("submission %w", ErrNotFound)
	}

	if submission.StudentID != actor.ID && !PolicyAllows(actor.Role, OpListAllRecords) {
		return nil, fmt.Errorf("%w: not the owner of this submission", ErrForbidden)
	}

	url, err := s.blobRepo.PresignedURL(ctx, s.bucket, submission.FilePath, s.urlExpiry)
	if err != nil {
		s.logger.Error().Err(err).Str("submission_id", id).Msg("Failed to create signed URL for submission")
		return nil, fmt.Errorf("%w: blob store signed URL", ErrUpstream)
	}

	return &models.DownloadResponse{
		URL:      url,
		FileName: submission.FileName,
	}, nil
}
