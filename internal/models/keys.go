package models

// Пространство ключей record store. Каждый тип сущности живёт под своим
// префиксом, выборки по типу делаются префиксным сканом.
const (
	UserKeyPrefix         = "user:"
	CourseKeyPrefix       = "course:"
	MaterialKeyPrefix     = "material:"
	AssessmentKeyPrefix   = "assessment:"
	SubmissionKeyPrefix   = "submission:"
	GradeKeyPrefix        = "grade:"
	NotificationKeyPrefix = "notification:"
)

func UserKey(id string) string {
	return UserKeyPrefix + id
}

func CourseKey(id string) string {
	return CourseKeyPrefix + id
}

func MaterialKey(id string) string {
	return MaterialKeyPrefix + id
}

func AssessmentKey(id string) string {
	return AssessmentKeyPrefix + id
}

func SubmissionKey(id string) string {
	return SubmissionKeyPrefix + id
}

// GradeKey детерминирован от submission id — не больше одной оценки на submission.
func GradeKey(submissionID string) string {
	return GradeKeyPrefix + "submission:" + submissionID
}

func NotificationKey(id string) string {
	return NotificationKeyPrefix + id
}

// StudentNotificationKey — ключ пользовательской нотификации, userID входит в
// префикс, чтобы лента пользователя читалась одним сканом.
func StudentNotificationKey(userID, id string) string {
	return NotificationKeyPrefix + "student:" + userID + ":" + id
}

func StudentNotificationPrefix(userID string) string {
	return NotificationKeyPrefix + "student:" + userID + ":"
}
