package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// NotificationType is the semantic tag of a notification. It decides the
// icon and colour used by the panel and by toasts.
type NotificationType string

const (
	NotifyTaskCreated     NotificationType = "task_created"
	NotifyTaskUpdated     NotificationType = "task_updated"
	NotifyTaskCompleted   NotificationType = "task_completed"
	NotifyTaskUncompleted NotificationType = "task_uncompleted"
	NotifyTaskDeleted     NotificationType = "task_deleted"
	NotifyTaskImportant   NotificationType = "task_important"
	NotifyTaskUnimportant NotificationType = "task_unimportant"
	NotifyProjectAssigned NotificationType = "project_assigned"
	NotifyProjectChanged  NotificationType = "project_changed"
	NotifyOverdue         NotificationType = "overdue"
	NotifyDueSoon         NotificationType = "due_soon"

	// Toast-only types; never stored as notifications.
	NotifyInfo  NotificationType = "info"
	NotifyError NotificationType = "error"
)

// Icon returns the glyph associated with the type.
func (t NotificationType) Icon() string {
	switch t {
	case NotifyTaskCreated, NotifyTaskCompleted:
		return "✅"
	case NotifyTaskUpdated:
		return "📝"
	case NotifyTaskDeleted:
		return "🗑️"
	case NotifyTaskUncompleted:
		return "🔄"
	case NotifyTaskImportant, NotifyTaskUnimportant:
		return "⭐"
	case NotifyProjectAssigned, NotifyProjectChanged:
		return "📁"
	case NotifyOverdue:
		return "⚠️"
	case NotifyDueSoon:
		return "⏰"
	case NotifyError:
		return "❌"
	default:
		return "📋"
	}
}

// NotificationID identifies a notification. Server ids arrive as JSON
// numbers; locally synthesized ids are strings.
type NotificationID string

// UnmarshalJSON accepts a JSON number or string.
func (id *NotificationID) UnmarshalJSON(data []byte) error {
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*id = NotificationID(n.String())
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("decoding notification id: %w", err)
	}
	*id = NotificationID(s)
	return nil
}

// Int returns the numeric server id, if it is one.
func (id NotificationID) Int() (int64, bool) {
	n, err := strconv.ParseInt(string(id), 10, 64)
	return n, err == nil
}

// Notification is an entry of the dashboard notification feed.
type Notification struct {
	ID        NotificationID   `json:"id"`
	Title     string           `json:"title"`
	Desc      string           `json:"desc"`
	Type      NotificationType `json:"notification_type"`
	Icon      string           `json:"icon"`
	Read      bool             `json:"read"`
	Time      string           `json:"time"`
	CreatedAt time.Time        `json:"created_at"`

	// Local marks a notice synthesized by this client. Local notices are
	// never sent to the notifications endpoint.
	Local bool `json:"-"`

	// Pending is set while a read flag flip awaits server confirmation.
	Pending bool `json:"-"`
}

// Age renders how long ago the notification was created, in the same
// words the server uses for its time field.
func (n Notification) Age(now time.Time) string {
	if n.CreatedAt.IsZero() {
		if n.Time != "" {
			return n.Time
		}
		return "Just now"
	}

	d := now.Sub(n.CreatedAt)
	plural := func(v int, unit string) string {
		if v > 1 {
			return fmt.Sprintf("%d %ss ago", v, unit)
		}
		return fmt.Sprintf("%d %s ago", v, unit)
	}

	switch {
	case d >= 24*time.Hour:
		return plural(int(d/(24*time.Hour)), "day")
	case d >= time.Hour:
		return plural(int(d/time.Hour), "hour")
	case d >= time.Minute:
		return plural(int(d/time.Minute), "minute")
	default:
		return "Just now"
	}
}
