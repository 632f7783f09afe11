package models

import "time"

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"` // student, instructor, admin
	CreatedAt time.Time `json:"createdAt"`
}

type Role string

const (
	RoleStudent    Role = "student"
	RoleInstructor Role = "instructor"
	RoleAdmin      Role = "admin"
)

func (r Role) String() string {
	return string(r)
}

func IsValidRole(role string) bool {
	switch role {
	case "student", "instructor", "admin":
		return true
	default:
		return false
	}
}

// Identity — результат проверки bearer токена внешним identity provider.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Actor — аутентифицированный пользователь с разрешённой ролью.
// Если профиль отсутствует в store, роль по политике откатывается к student.
type Actor struct {
	ID    string
	Email string
	Name  string
	Role  Role
}
