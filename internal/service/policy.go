package service

import "github.com/jackw9829/academic-tracker/internal/models"

// Operation — мутирующая или привилегированная операция, проверяемая политикой.
type Operation string

const (
	OpCreateCourse     Operation = "create_course"
	OpUploadMaterial   Operation = "upload_material"
	OpCreateAssessment Operation = "create_assessment"
	OpCreateSubmission Operation = "create_submission"
	OpPostGrade        Operation = "post_grade"
	OpVerifyGrade      Operation = "verify_grade"
	OpViewCourseReport Operation = "view_course_report"
	OpListAllRecords   Operation = "list_all_records"
)

// PolicyAllows — чистая функция (роль, операция) -> разрешено.
// Создание submission намеренно открыто любой аутентифицированной роли,
// это задокументированное поведение, а не упущение.
func PolicyAllows(role models.Role, op Operation) bool {
	switch op {
	case OpCreateCourse, OpUploadMaterial, OpCreateAssessment, OpPostGrade,
		OpViewCourseReport, OpListAllRecords:
		return role == models.RoleInstructor || role == models.RoleAdmin
	case OpVerifyGrade:
		return role == models.RoleAdmin
	case OpCreateSubmission:
		return role == models.RoleStudent || role == models.RoleInstructor || role == models.RoleAdmin
	default:
		return false
	}
}
