package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackw9829/academic-tracker/internal/models"
)

func newAssessmentService(env *testEnv) AssessmentService {
	return NewAssessmentService(env.assessmentRepo, env.courseRepo, env.notifications, zerolog.Nop())
}

func (e *testEnv) seedCourse(t *testing.T, id string) *models.Course {
	t.Helper()

	course := &models.Course{
		ID:        id,
		Name:      "Course " + id,
		CreatedAt: time.Now().UTC(),
	}
	if err := e.courseRepo.Save(context.Background(), course); err != nil {
		t.Fatalf("failed to seed course: %v", err)
	}
	return course
}

func TestAssessmentService_Create(t *testing.T) {
	env := newTestEnv(t)
	svc := newAssessmentService(env)
	ctx := context.Background()

	env.seedCourse(t, "c1")

	assessment, err := svc.Create(ctx, instructorActor, &models.CreateAssessmentRequest{
		Title:      "Homework 1",
		CourseID:   "c1",
		TotalMarks: 100,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, assessment.ID)
	assert.Equal(t, "c1", assessment.CourseID)
	assert.Equal(t, instructorActor.ID, assessment.InstructorID)

	// Глобальная нотификация видна любому пользователю
	notifications, err := env.notificationRepo.GetForUser(ctx, "student-1")
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, models.NotificationNewAssessment, notifications[0].Type)
	assert.Equal(t, assessment.ID, notifications[0].TargetID)
}

func TestAssessmentService_CreateValidation(t *testing.T) {
	env := newTestEnv(t)
	svc := newAssessmentService(env)
	ctx := context.Background()

	env.seedCourse(t, "c1")

	t.Run("student is forbidden", func(t *testing.T) {
		_, err := svc.Create(ctx, studentActor, &models.CreateAssessmentRequest{
			Title: "HW", CourseID: "c1", TotalMarks: 100,
		})
		assert.True(t, errors.Is(err, ErrForbidden))
	})

	t.Run("zero total marks", func(t *testing.T) {
		_, err := svc.Create(ctx, instructorActor, &models.CreateAssessmentRequest{
			Title: "HW", CourseID: "c1", TotalMarks: 0,
		})
		assert.True(t, errors.Is(err, ErrInvalidInput))
	})

	t.Run("missing course", func(t *testing.T) {
		_, err := svc.Create(ctx, instructorActor, &models.CreateAssessmentRequest{
			Title: "HW", CourseID: "nope", TotalMarks: 100,
		})
		assert.True(t, errors.Is(err, ErrNotFound))
	})
}

func TestAssessmentService_ListFilterByCourse(t *testing.T) {
	env := newTestEnv(t)
	svc := newAssessmentService(env)
	ctx := context.Background()

	env.seedAssessment(t, "a1", "c1", 100)
	env.seedAssessment(t, "a2", "c1", 50)
	env.seedAssessment(t, "a3", "c2", 100)

	assessments, err := svc.List(ctx, "c1")
	require.NoError(t, err)
	assert.Len(t, assessments, 2)

	assessments, err = svc.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, assessments, 3)
}
