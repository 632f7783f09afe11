package models

// NotificationEvent публикуется в брокер параллельно с записью нотификации в
// store; лента в store остаётся источником истины.
type NotificationEvent struct {
	NotificationID string `json:"notification_id"`
	UserID         string `json:"user_id,omitempty"`
	Type           string `json:"type"`
	Message        string `json:"message"`
	TargetID       string `json:"target_id,omitempty"`
	Timestamp      int64  `json:"timestamp"`
}
