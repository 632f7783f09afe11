package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/jackw9829/academic-tracker/internal/models"
	"github.com/jackw9829/academic-tracker/internal/repository"
)

type GradingService interface {
	Grade(ctx context.Context, actor *models.Actor, req *models.PostGradeRequest) (*models.Grade, error)
	Verify(ctx context.Context, actor *models.Actor, submissionID string, verified bool) (*models.Grade, error)
	GetGrades(ctx context.Context, actor *models.Actor, assessmentID, studentID string) ([]models.Grade, error)
	GetBySubmission(ctx context.Context, actor *models.Actor, submissionID string) (*models.Grade, error)
}

type gradingService struct {
	gradeRepo      repository.GradeRepository
	submissionRepo repository.SubmissionRepository
	notifications  NotificationService
	logger         zerolog.Logger
}

func NewGradingService(
	gradeRepo repository.GradeRepository,
	submissionRepo repository.SubmissionRepository,
	notifications NotificationService,
	logger zerolog.Logger,
) GradingService {
	return &gradingService{
		gradeRepo:      gradeRepo,
		submissionRepo: submissionRepo,
		notifications:  notifications,
		logger:         logger,
	}
}

// Grade выставляет (или перевыставляет) оценку за submission. Повторная оценка
// заменяет предыдущую и сбрасывает verified в false.
func (s *gradingService) Grade(ctx context.Context, actor *models.Actor, req *models.PostGradeRequest) (*models.Grade, error) {
	if !PolicyAllows(actor.Role, OpPostGrade) {
		return nil, fmt.Errorf("%w: instructor or admin role required", ErrForbidden)
	}

	if req.TotalMarks <= 0 {
		return nil, fmt.Errorf("%w: totalMarks must be positive", ErrInvalidInput)
	}
	if req.Grade < 0 || req.Grade > req.TotalMarks {
		return nil, fmt.Errorf("%w: grade must be between 0 and totalMarks", ErrInvalidInput)
	}

	submission, err := s.submissionRepo.GetByID(ctx, req.SubmissionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	if submission == nil {
		return nil, fmt.Errorf("submission %w", ErrNotFound)
	}

	percentage := int(math.Round(float64(req.Grade) * 100 / float64(req.TotalMarks)))

	grade := &models.Grade{
		ID:           submission.ID,
		SubmissionID: submission.ID,
		AssessmentID: submission.AssessmentID,
		StudentID:    submission.StudentID,
		Grade:        req.Grade,
		TotalMarks:   req.TotalMarks,
		Percentage:   percentage,
		Feedback:     req.Feedback,
		GradedBy:     actor.ID,
		GradedByName: actor.Name,
		GradedAt:     time.Now().UTC(),
		Verified:     false,
	}

	// Порядок записи важен: сначала grade, потом статус submission,
	// нотификация последней
	if err := s.gradeRepo.Save(ctx, grade); err != nil {
		return nil, fmt.Errorf("failed to save grade: %w", err)
	}

	submission.Status = models.SubmissionStatusGraded.String()
	if err := s.submissionRepo.Save(ctx, submission); err != nil {
		return nil, fmt.Errorf("failed to update submission status: %w", err)
	}

	message := fmt.Sprintf("Your submission has been graded: %d/%d (%d%%)", grade.Grade, grade.TotalMarks, grade.Percentage)
	if err := s.notifications.Emit(ctx, submission.StudentID, models.NotificationGradePosted, message, submission.ID); err != nil {
		s.logger.Error().Err(err).Str("submission_id", submission.ID).Msg("Failed to emit grade notification")
	}

	s.logger.Info().
		Str("submission_id", submission.ID).
		Str("student_id", submission.StudentID).
		Int("grade", grade.Grade).
		Int("percentage", grade.Percentage).
		Msg("Grade posted")

	return grade, nil
}

// Verify проставляет или снимает флаг верификации. Снятие (verified=false)
// не генерирует нотификацию.
func (s *gradingService) Verify(ctx context.Context, actor *models.Actor, submissionID string, verified bool) (*models.Grade, error) {
	if !PolicyAllows(actor.Role, OpVerifyGrade) {
		return nil, fmt.Errorf("%w: admin role required", ErrForbidden)
	}

	grade, err := s.gradeRepo.GetBySubmissionID(ctx, submissionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get grade: %w", err)
	}
	if grade == nil {
		return nil, fmt.Errorf("grade %w", ErrNotFound)
	}

	now := time.Now().UTC()
	grade.Verified = verified
	grade.VerifiedBy = actor.ID
	grade.VerifiedByName = actor.Name
	grade.VerifiedAt = &now

	if err := s.gradeRepo.Save(ctx, grade); err != nil {
		return nil, fmt.Errorf("failed to save grade: %w", err)
	}

	if verified {
		message := fmt.Sprintf("Your grade has been verified and released: %d/%d (%d%%)", grade.Grade, grade.TotalMarks, grade.Percentage)
		if err := s.notifications.Emit(ctx, grade.StudentID, models.NotificationGradeReleased, message, grade.SubmissionID); err != nil {
			s.logger.Error().Err(err).Str("submission_id", grade.SubmissionID).Msg("Failed to emit verification notification")
		}
	}

	s.logger.Info().
		Str("submission_id", grade.SubmissionID).
		Bool("verified", verified).
		Str("verified_by", actor.ID).
		Msg("Grade verification updated")

	return grade, nil
}

// GetGrades применяет read-own правило: студент видит только свои оценки.
func (s *gradingService) GetGrades(ctx context.Context, actor *models.Actor, assessmentID, studentID string) ([]models.Grade, error) {
	if !PolicyAllows(actor.Role, OpListAllRecords) {
		studentID = actor.ID
	}

	grades, err := s.gradeRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list grades: %w", err)
	}

	filtered := grades[:0]
	for _, g := range grades {
		if assessmentID != "" && g.AssessmentID != assessmentID {
			continue
		}
		if studentID != "" && g.StudentID != studentID {
			continue
		}
		filtered = append(filtered, g)
	}
	grades = filtered

	sort.Slice(grades, func(i, j int) bool {
		return grades[i].GradedAt.After(grades[j].GradedAt)
	})

	return grades, nil
}

func (s *gradingService) GetBySubmission(ctx context.Context, actor *models.Actor, submissionID string) (*models.Grade, error) {
	grade, err := s.gradeRepo.GetBySubmissionID(ctx, submissionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get grade: %w", err)
	}
	if grade == nil {
		return nil, fmt.Errorf("grade %w", ErrNotFound)
	}

	if grade.StudentID != actor.ID && !PolicyAllows(actor.Role, OpListAllRecords) {
		return nil, fmt.Errorf("%w: not the owner of this grade", ErrForbidden)
	}

	return grade, nil
}
