package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jackw9829/academic-tracker/internal/models"
)

func TestPolicyAllows(t *testing.T) {
	tests := []struct {
		name string
		role models.Role
		op   Operation
		want bool
	}{
		{"student cannot create course", models.RoleStudent, OpCreateCourse, false},
		{"instructor can create course", models.RoleInstructor, OpCreateCourse, true},
		{"admin can create course", models.RoleAdmin, OpCreateCourse, true},

		{"student cannot upload material", models.RoleStudent, OpUploadMaterial, false},
		{"instructor can upload material", models.RoleInstructor, OpUploadMaterial, true},

		{"student cannot create assessment", models.RoleStudent, OpCreateAssessment, false},
		{"instructor can create assessment", models.RoleInstructor, OpCreateAssessment, true},

		{"student can create submission", models.RoleStudent, OpCreateSubmission, true},
		{"instructor can create submission", models.RoleInstructor, OpCreateSubmission, true},
		{"admin can create submission", models.RoleAdmin, OpCreateSubmission, true},

		{"student cannot post grade", models.RoleStudent, OpPostGrade, false},
		{"instructor can post grade", models.RoleInstructor, OpPostGrade, true},
		{"admin can post grade", models.RoleAdmin, OpPostGrade, true},

		{"student cannot verify grade", models.RoleStudent, OpVerifyGrade, false},
		{"instructor cannot verify grade", models.RoleInstructor, OpVerifyGrade, false},
		{"admin can verify grade", models.RoleAdmin, OpVerifyGrade, true},

		{"student cannot view course report", models.RoleStudent, OpViewCourseReport, false},
		{"instructor can view course report", models.RoleInstructor, OpViewCourseReport, true},

		{"student cannot list all records", models.RoleStudent, OpListAllRecords, false},
		{"admin can list all records", models.RoleAdmin, OpListAllRecords, true},

		{"unknown role is denied", models.Role("guest"), OpCreateSubmission, false},
		{"unknown operation is denied", models.RoleAdmin, Operation("delete_everything"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PolicyAllows(tt.role, tt.op))
		})
	}
}
