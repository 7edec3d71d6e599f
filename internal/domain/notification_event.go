package domain

// NotificationEvent is an ad-hoc notification record created under
// notifications/{userId}/messages/{messageId}.
type NotificationEvent struct {
	UserID    string
	MessageID string
	Title     string
	Body      string
	Route     string
	TaskID    string
}

func (e *NotificationEvent) HasOwner() bool {
	return e.UserID != ""
}
