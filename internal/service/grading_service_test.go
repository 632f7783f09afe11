package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackw9829/academic-tracker/internal/models"
)

func newGradingService(env *testEnv) GradingService {
	return NewGradingService(env.gradeRepo, env.submissionRepo, env.notifications, zerolog.Nop())
}

func TestGradingService_Grade(t *testing.T) {
	env := newTestEnv(t)
	svc := newGradingService(env)
	ctx := context.Background()

	env.seedAssessment(t, "a1", "c1", 100)
	env.seedSubmission(t, "s1", "a1", "student-1")

	grade, err := svc.Grade(ctx, instructorActor, &models.PostGradeRequest{
		SubmissionID: "s1",
		Grade:        85,
		TotalMarks:   100,
		Feedback:     "Good work",
	})
	require.NoError(t, err)

	assert.Equal(t, "s1", grade.ID)
	assert.Equal(t, "s1", grade.SubmissionID)
	assert.Equal(t, "a1", grade.AssessmentID)
	assert.Equal(t, "student-1", grade.StudentID)
	assert.Equal(t, 85, grade.Percentage)
	assert.False(t, grade.Verified)
	assert.Equal(t, instructorActor.ID, grade.GradedBy)

	// Статус submission переведён в graded
	submission, err := env.submissionRepo.GetByID(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, submission)
	assert.Equal(t, models.SubmissionStatusGraded.String(), submission.Status)

	// Студент получил нотификацию grade_posted
	notifications, err := env.notificationRepo.GetForUser(ctx, "student-1")
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, models.NotificationGradePosted, notifications[0].Type)
	assert.Equal(t, "s1", notifications[0].TargetID)
}

func TestGradingService_GradePercentageRounding(t *testing.T) {
	env := newTestEnv(t)
	svc := newGradingService(env)
	ctx := context.Background()

	tests := []struct {
		name       string
		score      int
		totalMarks int
		want       int
	}{
		{"exact percentage", 85, 100, 85},
		{"rounds half up", 1, 8, 13},     // 12.5 -> 13
		{"rounds down", 1, 3, 33},        // 33.33 -> 33
		{"rounds up", 2, 3, 67},          // 66.67 -> 67
		{"zero score", 0, 50, 0},
		{"full marks", 50, 50, 100},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subID := "s-round-" + string(rune('a'+i))
			env.seedSubmission(t, subID, "a1", "student-1")

			grade, err := svc.Grade(ctx, instructorActor, &models.PostGradeRequest{
				SubmissionID: subID,
				Grade:        tt.score,
				TotalMarks:   tt.totalMarks,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, grade.Percentage)
		})
	}
}

func TestGradingService_GradeValidation(t *testing.T) {
	env := newTestEnv(t)
	svc := newGradingService(env)
	ctx := context.Background()

	env.seedSubmission(t, "s1", "a1", "student-1")

	t.Run("student cannot grade", func(t *testing.T) {
		_, err := svc.Grade(ctx, studentActor, &models.PostGradeRequest{
			SubmissionID: "s1", Grade: 50, TotalMarks: 100,
		})
		assert.True(t, errors.Is(err, ErrForbidden))
	})

	t.Run("missing submission", func(t *testing.T) {
		_, err := svc.Grade(ctx, instructorActor, &models.PostGradeRequest{
			SubmissionID: "nope", Grade: 50, TotalMarks: 100,
		})
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("zero total marks", func(t *testing.T) {
		_, err := svc.Grade(ctx, instructorActor, &models.PostGradeRequest{
			SubmissionID: "s1", Grade: 0, TotalMarks: 0,
		})
		assert.True(t, errors.Is(err, ErrInvalidInput))
	})

	t.Run("score above total marks", func(t *testing.T) {
		_, err := svc.Grade(ctx, instructorActor, &models.PostGradeRequest{
			SubmissionID: "s1", Grade: 101, TotalMarks: 100,
		})
		assert.True(t, errors.Is(err, ErrInvalidInput))
	})

	t.Run("negative score", func(t *testing.T) {
		_, err := svc.Grade(ctx, instructorActor, &models.PostGradeRequest{
			SubmissionID: "s1", Grade: -1, TotalMarks: 100,
		})
		assert.True(t, errors.Is(err, ErrInvalidInput))
	})
}

func TestGradingService_RegradeReplacesAndResetsVerification(t *testing.T) {
	env := newTestEnv(t)
	svc := newGradingService(env)
	ctx := context.Background()

	env.seedSubmission(t, "s1", "a1", "student-1")

	_, err := svc.Grade(ctx, instructorActor, &models.PostGradeRequest{
		SubmissionID: "s1", Grade: 60, TotalMarks: 100,
	})
	require.NoError(t, err)

	_, err = svc.Verify(ctx, adminActor, "s1", true)
	require.NoError(t, err)

	regraded, err := svc.Grade(ctx, instructorActor, &models.PostGradeRequest{
		SubmissionID: "s1", Grade: 75, TotalMarks: 100,
	})
	require.NoError(t, err)
	assert.Equal(t, 75, regraded.Grade)
	assert.False(t, regraded.Verified, "re-grade must reset verification")

	// Ровно одна запись оценки на submission
	grades, err := env.gradeRepo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, grades, 1)
	assert.Equal(t, 75, grades[0].Grade)
	assert.False(t, grades[0].Verified)
}

func TestGradingService_Verify(t *testing.T) {
	env := newTestEnv(t)
	svc := newGradingService(env)
	ctx := context.Background()

	env.seedSubmission(t, "s1", "a1", "student-1")

	_, err := svc.Grade(ctx, instructorActor, &models.PostGradeRequest{
		SubmissionID: "s1", Grade: 90, TotalMarks: 100,
	})
	require.NoError(t, err)

	t.Run("only admin can verify", func(t *testing.T) {
		_, err := svc.Verify(ctx, instructorActor, "s1", true)
		assert.True(t, errors.Is(err, ErrForbidden))
	})

	t.Run("missing grade", func(t *testing.T) {
		_, err := svc.Verify(ctx, adminActor, "nope", true)
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("verify true releases the grade", func(t *testing.T) {
		grade, err := svc.Verify(ctx, adminActor, "s1", true)
		require.NoError(t, err)
		assert.True(t, grade.Verified)
		assert.Equal(t, adminActor.ID, grade.VerifiedBy)
		require.NotNil(t, grade.VerifiedAt)

		notifications, err := env.notificationRepo.GetForUser(ctx, "student-1")
		require.NoError(t, err)

		var released int
		for _, n := range notifications {
			if n.Type == models.NotificationGradeReleased {
				released++
			}
		}
		assert.Equal(t, 1, released)
	})

	t.Run("verify false is silent", func(t *testing.T) {
		grade, err := svc.Verify(ctx, adminActor, "s1", false)
		require.NoError(t, err)
		assert.False(t, grade.Verified)

		notifications, err := env.notificationRepo.GetForUser(ctx, "student-1")
		require.NoError(t, err)

		var released int
		for _, n := range notifications {
			if n.Type == models.NotificationGradeReleased {
				released++
			}
		}
		assert.Equal(t, 1, released, "revoking must not emit another notification")
	})
}

func TestGradingService_GetGradesStudentSeesOnlyOwn(t *testing.T) {
	env := newTestEnv(t)
	svc := newGradingService(env)
	ctx := context.Background()

	env.seedSubmission(t, "s1", "a1", "student-1")
	env.seedSubmission(t, "s2", "a1", "student-2")

	for _, subID := range []string{"s1", "s2"} {
		_, err := svc.Grade(ctx, instructorActor, &models.PostGradeRequest{
			SubmissionID: subID, Grade: 80, TotalMarks: 100,
		})
		require.NoError(t, err)
	}

	// Студент запрашивает чужой studentId, но получает только своё
	grades, err := svc.GetGrades(ctx, studentActor, "", "student-2")
	require.NoError(t, err)
	require.Len(t, grades, 1)
	assert.Equal(t, "student-1", grades[0].StudentID)

	// Инструктор видит всё
	grades, err = svc.GetGrades(ctx, instructorActor, "", "")
	require.NoError(t, err)
	assert.Len(t, grades, 2)
}

func TestGradingService_GetBySubmission(t *testing.T) {
	env := newTestEnv(t)
	svc := newGradingService(env)
	ctx := context.Background()

	env.seedSubmission(t, "s1", "a1", "student-1")
	_, err := svc.Grade(ctx, instructorActor, &models.PostGradeRequest{
		SubmissionID: "s1", Grade: 70, TotalMarks: 100,
	})
	require.NoError(t, err)

	t.Run("owner can read", func(t *testing.T) {
		grade, err := svc.GetBySubmission(ctx, studentActor, "s1")
		require.NoError(t, err)
		assert.Equal(t, 70, grade.Grade)
	})

	t.Run("other student is forbidden", func(t *testing.T) {
		other := &models.Actor{ID: "student-2", Role: models.RoleStudent}
		_, err := svc.GetBySubmission(ctx, other, "s1")
		assert.True(t, errors.Is(err, ErrForbidden))
	})

	t.Run("missing grade", func(t *testing.T) {
		_, err := svc.GetBySubmission(ctx, instructorActor, "nope")
		assert.True(t, errors.Is(err, ErrNotFound))
	})
}
