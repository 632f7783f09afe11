package models

import "time"

// Notification с пустым UserID считается глобальной (broadcast).
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId,omitempty"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	TargetID  string    `json:"targetId,omitempty"`
	Read      bool      `json:"read"`
	Timestamp time.Time `json:"timestamp"`
}

const (
	NotificationNewAssessment       = "new_assessment"
	NotificationSubmissionConfirmed = "submission_confirmed"
	NotificationGradePosted         = "grade_posted"
	NotificationGradeReleased       = "grade_released"
)
