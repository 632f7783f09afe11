package service

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/jackw9829/academic-tracker/internal/models"
	"github.com/jackw9829/academic-tracker/internal/repository"
)

type ReportService interface {
	StudentReport(ctx context.Context, actor *models.Actor, studentID string) (*models.StudentReport, error)
	CourseReport(ctx context.Context, actor *models.Actor, courseID string) (*models.CourseReport, error)
	ExportCourseReport(ctx context.Context, actor *models.Actor, courseID string) ([]byte, string, error)
}

type reportService struct {
	assessmentRepo repository.AssessmentRepository
	submissionRepo repository.SubmissionRepository
	gradeRepo      repository.GradeRepository
	logger         zerolog.Logger
}

func NewReportService(
	assessmentRepo repository.AssessmentRepository,
	submissionRepo repository.SubmissionRepository,
	gradeRepo repository.GradeRepository,
	logger zerolog.Logger,
) ReportService {
	return &reportService{
		assessmentRepo: assessmentRepo,
		submissionRepo: submissionRepo,
		gradeRepo:      gradeRepo,
		logger:         logger,
	}
}

// StudentReport собирает сводку по одному студенту. Студент может запросить
// только собственный отчёт.
func (s *reportService) StudentReport(ctx context.Context, actor *models.Actor, studentID string) (*models.StudentReport, error) {
	if studentID == "" {
		studentID = actor.ID
	}
	if studentID != actor.ID && !PolicyAllows(actor.Role, OpListAllRecords) {
		return nil, fmt.Errorf("%w: students may only view their own report", ErrForbidden)
	}

	allSubmissions, err := s.submissionRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	allGrades, err := s.gradeRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list grades: %w", err)
	}

	submissions := make([]models.Submission, 0)
	for _, sub := range allSubmissions {
		if sub.StudentID == studentID {
			submissions = append(submissions, sub)
		}
	}
	grades := make([]models.Grade, 0)
	for _, g := range allGrades {
		if g.StudentID == studentID {
			grades = append(grades, g)
		}
	}

	sort.Slice(submissions, func(i, j int) bool {
		return submissions[i].SubmittedAt.After(submissions[j].SubmittedAt)
	})
	sort.Slice(grades, func(i, j int) bool {
		return grades[i].GradedAt.After(grades[j].GradedAt)
	})

	report := &models.StudentReport{
		StudentID:          studentID,
		TotalAssessments:   len(submissions),
		GradedAssessments:  len(grades),
		PendingAssessments: len(submissions) - len(grades),
		AverageGrade:       averagePercentage(grades),
		Grades:             grades,
		Submissions:        submissions,
	}

	return report, nil
}

// CourseReport агрегирует по всем assessments курса.
func (s *reportService) CourseReport(ctx context.Context, actor *models.Actor, courseID string) (*models.CourseReport, error) {
	if !PolicyAllows(actor.Role, OpViewCourseReport) {
		return nil, fmt.Errorf("%w: instructor or admin role required", ErrForbidden)
	}

	assessments, submissions, grades, err := s.collectCourseData(ctx, courseID)
	if err != nil {
		return nil, err
	}

	return &models.CourseReport{
		CourseID:         courseID,
		TotalAssessments: len(assessments),
		TotalSubmissions: len(submissions),
		TotalGraded:      len(grades),
		AverageGrade:     averagePercentage(grades),
	}, nil
}

// ExportCourseReport строит XLSX с общей сводкой и построчной разбивкой
// по assessments.
func (s *reportService) ExportCourseReport(ctx context.Context, actor *models.Actor, courseID string) ([]byte, string, error) {
	if !PolicyAllows(actor.Role, OpViewCourseReport) {
		return nil, "", fmt.Errorf("%w: instructor or admin role required", ErrForbidden)
	}

	assessments, submissions, grades, err := s.collectCourseData(ctx, courseID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	headers := []string{"Assessment", "Total Marks", "Submissions", "Graded", "Average %"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	subsByAssessment := make(map[string]int)
	for _, sub := range submissions {
		subsByAssessment[sub.AssessmentID]++
	}
	gradesByAssessment := make(map[string][]models.Grade)
	for _, g := range grades {
		gradesByAssessment[g.AssessmentID] = append(gradesByAssessment[g.AssessmentID], g)
	}

	sort.Slice(assessments, func(i, j int) bool {
		return assessments[i].CreatedAt.Before(assessments[j].CreatedAt)
	})

	row := 2
	for _, a := range assessments {
		values := []interface{}{
			a.Title,
			a.TotalMarks,
			subsByAssessment[a.ID],
			len(gradesByAssessment[a.ID]),
			averagePercentage(gradesByAssessment[a.ID]),
		}
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			f.SetCellValue(sheet, cell, v)
		}
		row++
	}

	row++
	f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Total submissions")
	f.SetCellValue(sheet, fmt.Sprintf("B%d", row), len(submissions))
	row++
	f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Total graded")
	f.SetCellValue(sheet, fmt.Sprintf("B%d", row), len(grades))
	row++
	f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Course average %")
	f.SetCellValue(sheet, fmt.Sprintf("B%d", row), averagePercentage(grades))

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", fmt.Errorf("failed to write report file: %w", err)
	}

	filename := fmt.Sprintf("course-report-%s-%s.xlsx", courseID, time.Now().UTC().Format("2006-01-02"))

	s.logger.Info().
		Str("course_id", courseID).
		Int("assessments", len(assessments)).
		Msg("Course report exported")

	return buf.Bytes(), filename, nil
}

func (s *reportService) collectCourseData(ctx context.Context, courseID string) ([]models.Assessment, []models.Submission, []models.Grade, error) {
	allAssessments, err := s.assessmentRepo.GetAll(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to list assessments: %w", err)
	}

	assessments := make([]models.Assessment, 0)
	assessmentIDs := make(map[string]struct{})
	for _, a := range allAssessments {
		if a.CourseID == courseID {
			assessments = append(assessments, a)
			assessmentIDs[a.ID] = struct{}{}
		}
	}

	allSubmissions, err := s.submissionRepo.GetAll(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	submissions := make([]models.Submission, 0)
	for _, sub := range allSubmissions {
		if _, ok := assessmentIDs[sub.AssessmentID]; ok {
			submissions = append(submissions, sub)
		}
	}

	allGrades, err := s.gradeRepo.GetAll(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to list grades: %w", err)
	}
	grades := make([]models.Grade, 0)
	for _, g := range allGrades {
		if _, ok := assessmentIDs[g.AssessmentID]; ok {
			grades = append(grades, g)
		}
	}

	return assessments, submissions, grades, nil
}

// averagePercentage округляет среднее по половинному правилу; пустой набор
// даёт 0.
func averagePercentage(grades []models.Grade) int {
	if len(grades) == 0 {
		return 0
	}
	sum := 0
	for _, g := range grades {
		sum += g.Percentage
	}
	return int(math.Round(float64(sum) / float64(len(grades))))
}
