package domain

const (
	ReminderPushTitle        = "Task reminder"
	DefaultReminderSubject   = "One of your tasks"
	reminderPushBodySuffix   = " is due soon."
	DefaultEventTitle        = "Update"
	DefaultNotificationRoute = "/notifications"

	DataKeyTaskID = "taskId"
	DataKeyRoute  = "route"
)

// PushMessage is a rendered notification ready for multicast delivery.
// Data is read by the client for navigation.
type PushMessage struct {
	Title string
	Body  string
	Data  map[string]string
}

func NewReminderPush(r *Reminder) PushMessage {
	// Only an absent title falls back to the default; an empty one is kept.
	subject := DefaultReminderSubject
	if r.Title != nil {
		subject = *r.Title
	}

	return PushMessage{
		Title: ReminderPushTitle,
		Body:  subject + reminderPushBodySuffix,
		Data: map[string]string{
			DataKeyTaskID: r.TaskID,
			DataKeyRoute:  DefaultNotificationRoute,
		},
	}
}

func NewEventPush(e *NotificationEvent) PushMessage {
	title := e.Title
	if title == "" {
		title = DefaultEventTitle
	}

	route := e.Route
	if route == "" {
		route = DefaultNotificationRoute
	}

	return PushMessage{
		Title: title,
		Body:  e.Body,
		Data: map[string]string{
			DataKeyRoute:  route,
			DataKeyTaskID: e.TaskID,
		},
	}
}
