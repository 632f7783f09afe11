package models

import "time"

type Assessment struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	CourseID       string    `json:"courseId"`
	DueDate        string    `json:"dueDate"`
	TotalMarks     int       `json:"totalMarks"`
	InstructorID   string    `json:"instructorId"`
	InstructorName string    `json:"instructorName"`
	CreatedAt      time.Time `json:"createdAt"`
}
