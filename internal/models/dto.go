package models

// Data Transfer Objects

type SignupRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	Name     string `json:"name" validate:"required,min=2,max=255"`
	Role     string `json:"role" validate:"required,oneof=student instructor admin"`
}

type CreateCourseRequest struct {
	Name        string `json:"name" validate:"required,min=3,max=255"`
	Description string `json:"description" validate:"max=1000"`
}

type CreateAssessmentRequest struct {
	Title       string `json:"title" validate:"required,min=3,max=255"`
	Description string `json:"description" validate:"max=1000"`
	CourseID    string `json:"courseId" validate:"required"`
	DueDate     string `json:"dueDate"`
	TotalMarks  int    `json:"totalMarks" validate:"required,gt=0"`
}

type UploadMaterialRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=255"`
	Description string `json:"description" validate:"max=1000"`
	CourseID    string `json:"courseId"`
	FileName    string `json:"fileName"`
	FileType    string `json:"fileType"`
	FileContent []byte `json:"-"` // Для внутреннего использования
}

type CreateSubmissionRequest struct {
	AssessmentID string `json:"assessmentId" validate:"required"`
	FileName     string `json:"fileName"`
	FileType     string `json:"fileType"`
	FileContent  []byte `json:"-"`
}

type PostGradeRequest struct {
	SubmissionID string `json:"submissionId" validate:"required"`
	Grade        int    `json:"grade" validate:"gte=0"`
	TotalMarks   int    `json:"totalMarks" validate:"required,gt=0"`
	Feedback     string `json:"feedback" validate:"max=2000"`
}

type VerifyGradeRequest struct {
	Verified bool `json:"verified"`
}

type DownloadResponse struct {
	URL      string `json:"url"`
	FileName string `json:"fileName"`
}

type StudentReport struct {
	StudentID          string       `json:"studentId"`
	TotalAssessments   int          `json:"totalAssessments"`
	GradedAssessments  int          `json:"gradedAssessments"`
	PendingAssessments int          `json:"pendingAssessments"`
	AverageGrade       int          `json:"averageGrade"`
	Grades             []Grade      `json:"grades"`
	Submissions        []Submission `json:"submissions"`
}

type CourseReport struct {
	CourseID         string `json:"courseId"`
	TotalAssessments int    `json:"totalAssessments"`
	TotalSubmissions int    `json:"totalSubmissions"`
	TotalGraded      int    `json:"totalGraded"`
	AverageGrade     int    `json:"averageGrade"`
}
