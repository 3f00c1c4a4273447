package dashboard

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/tasko/internal/model"
)

// MaxNotifications caps the feed; the oldest insertions are evicted first.
const MaxNotifications = 50

// localIDPrefix namespaces notices synthesized by this client.
const localIDPrefix = "local-"

// Notifications is the ordered notification feed, newest first.
type Notifications struct {
	items []model.Notification
}

// NewLocal builds an unread client-side notice of type typ.
func NewLocal(typ model.NotificationType, title, desc string, now time.Time) model.Notification {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return model.Notification{
		ID:        model.NotificationID(localIDPrefix + id.String()),
		Title:     title,
		Desc:      desc,
		Type:      typ,
		Icon:      typ.Icon(),
		Time:      "Just now",
		CreatedAt: now,
		Local:     true,
	}
}

// Add inserts n at the head and truncates the feed to MaxNotifications.
// It returns n so the caller can raise a toast from it.
func (s *Notifications) Add(n model.Notification) model.Notification {
	s.items = append([]model.Notification{n}, s.items...)
	if len(s.items) > MaxNotifications {
		s.items = s.items[:MaxNotifications]
	}
	return n
}

// Replace installs the server snapshot. Local notices survive and are
// merged back in by creation time.
func (s *Notifications) Replace(server []model.Notification) {
	merged := make([]model.Notification, 0, len(server)+len(s.items))
	for _, n := range s.items {
		if n.Local {
			merged = append(merged, n)
		}
	}
	for _, n := range server {
		n.Local = false
		n.Pending = false
		merged = append(merged, n)
	}

	if len(merged) > len(server) {
		sort.SliceStable(merged, func(i, j int) bool {
			return merged[i].CreatedAt.After(merged[j].CreatedAt)
		})
	}
	if len(merged) > MaxNotifications {
		merged = merged[:MaxNotifications]
	}
	s.items = merged
}

// List returns a copy of the feed, newest first.
func (s *Notifications) List() []model.Notification {
	out := make([]model.Notification, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of notifications held.
func (s *Notifications) Len() int { return len(s.items) }

// Unread counts notifications with read = false.
func (s *Notifications) Unread() int {
	n := 0
	for _, item := range s.items {
		if !item.Read {
			n++
		}
	}
	return n
}

// Get returns the notification with the given id.
func (s *Notifications) Get(id model.NotificationID) (model.Notification, bool) {
	for _, item := range s.items {
		if item.ID == id {
			return item, true
		}
	}
	return model.Notification{}, false
}

// MarkRead flips the read flag locally. Server records are left pending
// until Confirm; local notices are settled at once. It returns the record
// and whether the server must be told.
func (s *Notifications) MarkRead(id model.NotificationID) (model.Notification, bool) {
	for i := range s.items {
		if s.items[i].ID != id {
			continue
		}
		if s.items[i].Read {
			return s.items[i], false
		}
		s.items[i].Read = true
		s.items[i].Pending = !s.items[i].Local
		return s.items[i], s.items[i].Pending
	}
	return model.Notification{}, false
}

// Confirm clears the pending flag once the server accepted the read flip.
func (s *Notifications) Confirm(id model.NotificationID) {
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Pending = false
			return
		}
	}
}

// MarkAllRead flags every notification read.
func (s *Notifications) MarkAllRead() {
	for i := range s.items {
		s.items[i].Read = true
		s.items[i].Pending = false
	}
}

// Clear empties the feed.
func (s *Notifications) Clear() {
	s.items = nil
}
