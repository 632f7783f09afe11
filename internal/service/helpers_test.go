package service

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/jackw9829/academic-tracker/internal/models"
	"github.com/jackw9829/academic-tracker/internal/repository"
	"github.com/jackw9829/academic-tracker/internal/store"
)

// fakeBlobRepository пишет "в никуда" и возвращает детерминированные пути.
type fakeBlobRepository struct {
	uploads   []string
	uploadErr error
}

func (f *fakeBlobRepository) Upload(_ context.Context, bucket, objectName string, _ io.Reader, _ int64, _ string) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	f.uploads = append(f.uploads, bucket+"/"+objectName)
	return objectName, nil
}

func (f *fakeBlobRepository) PresignedURL(_ context.Context, bucket, path string, _ time.Duration) (string, error) {
	return fmt.Sprintf("http://blob.local/%s/%s?signed=1", bucket, path), nil
}

type testEnv struct {
	store            store.RecordStore
	userRepo         repository.UserRepository
	courseRepo       repository.CourseRepository
	assessmentRepo   repository.AssessmentRepository
	submissionRepo   repository.SubmissionRepository
	gradeRepo        repository.GradeRepository
	notificationRepo repository.NotificationRepository
	notifications    NotificationService
	blob             *fakeBlobRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	log := zerolog.Nop()
	recordStore := store.NewMemoryStore()

	notificationRepo := repository.NewNotificationRepository(recordStore, log)

	return &testEnv{
		store:            recordStore,
		userRepo:         repository.NewUserRepository(recordStore, log),
		courseRepo:       repository.NewCourseRepository(recordStore, log),
		assessmentRepo:   repository.NewAssessmentRepository(recordStore, log),
		submissionRepo:   repository.NewSubmissionRepository(recordStore, log),
		gradeRepo:        repository.NewGradeRepository(recordStore, log),
		notificationRepo: notificationRepo,
		notifications:    NewNotificationService(notificationRepo, nil, log),
		blob:             &fakeBlobRepository{},
	}
}

func (e *testEnv) seedAssessment(t *testing.T, id, courseID string, totalMarks int) *models.Assessment {
	t.Helper()

	assessment := &models.Assessment{
		ID:         id,
		Title:      "Assessment " + id,
		CourseID:   courseID,
		TotalMarks: totalMarks,
		CreatedAt:  time.Now().UTC(),
	}
	if err := e.assessmentRepo.Save(context.Background(), assessment); err != nil {
		t.Fatalf("failed to seed assessment: %v", err)
	}
	return assessment
}

func (e *testEnv) seedSubmission(t *testing.T, id, assessmentID, studentID string) *models.Submission {
	t.Helper()

	submission := &models.Submission{
		ID:           id,
		AssessmentID: assessmentID,
		StudentID:    studentID,
		FileName:     "hw.pdf",
		Status:       models.SubmissionStatusSubmitted.String(),
		SubmittedAt:  time.Now().UTC(),
	}
	if err := e.submissionRepo.Save(context.Background(), submission); err != nil {
		t.Fatalf("failed to seed submission: %v", err)
	}
	return submission
}

var (
	studentActor    = &models.Actor{ID: "student-1", Name: "Sam Student", Role: models.RoleStudent}
	instructorActor = &models.Actor{ID: "instructor-1", Name: "Ida Instructor", Role: models.RoleInstructor}
	adminActor      = &models.Actor{ID: "admin-1", Name: "Ann Admin", Role: models.RoleAdmin}
)
