package models

import "time"

// Grade адресуется по id своей submission: ключ grade:submission:{submissionId}
// детерминирован, поэтому на одну submission существует не больше одной оценки.
type Grade struct {
	ID             string     `json:"id"` // совпадает с SubmissionID
	SubmissionID   string     `json:"submissionId"`
	AssessmentID   string     `json:"assessmentId"`
	StudentID      string     `json:"studentId"`
	Grade          int        `json:"grade"`
	TotalMarks     int        `json:"totalMarks"`
	Percentage     int        `json:"percentage"`
	Feedback       string     `json:"feedback"`
	GradedBy       string     `json:"gradedBy"`
	GradedByName   string     `json:"gradedByName"`
	GradedAt       time.Time  `json:"gradedAt"`
	Verified       bool       `json:"verified"`
	VerifiedBy     string     `json:"verifiedBy,omitempty"`
	VerifiedByName string     `json:"verifiedByName,omitempty"`
	VerifiedAt     *time.Time `json:"verifiedAt,omitempty"`
}
