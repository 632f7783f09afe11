package models

import "time"

type Submission struct {
	ID           string    `json:"id"`
	AssessmentID string    `json:"assessmentId"`
	StudentID    string    `json:"studentId"`
	StudentName  string    `json:"studentName"`
	FileName     string    `json:"fileName"`
	FileSize     int64     `json:"fileSize"`
	FileType     string    `json:"fileType"`
	FilePath     string    `json:"filePath"`
	Status       string    `json:"status"` // submitted, graded
	SubmittedAt  time.Time `json:"submittedAt"`
}

type SubmissionStatus string

const (
	SubmissionStatusSubmitted SubmissionStatus = "submitted"
	SubmissionStatusGraded    SubmissionStatus = "graded"
)

func (s SubmissionStatus) String() string {
	return string(s)
}
