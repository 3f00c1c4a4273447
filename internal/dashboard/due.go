package dashboard

import (
	"fmt"
	"time"

	"github.com/nhle/tasko/internal/model"
)

// DueSoonDays is the look-ahead window for due-soon notices.
const DueSoonDays = 3

// ScanDue raises one overdue notice per newly overdue task and one
// due-soon notice per pending task due within DueSoonDays. Each task gets
// each kind of notice at most once per session. The notices are returned
// oldest first, already added to the feed.
func (s *State) ScanDue(today model.Date, now time.Time) []model.Notification {
	if s.dueSeen == nil {
		s.dueSeen = map[int64]map[model.NotificationType]bool{}
	}

	var raised []model.Notification
	for _, t := range Sort(s.All, SortDate) {
		if t.ID == 0 || t.Done {
			continue
		}

		var n model.Notification
		switch {
		case t.IsOverdue(today):
			if s.seen(t.ID, model.NotifyOverdue) {
				continue
			}
			n = NewLocal(model.NotifyOverdue, "Task Overdue",
				fmt.Sprintf("Task \"%s\" was due %s", t.Title, t.Date.Format()), now)
		case t.IsDueWithin(today, DueSoonDays):
			if s.seen(t.ID, model.NotifyDueSoon) {
				continue
			}
			n = NewLocal(model.NotifyDueSoon, "Due Soon",
				fmt.Sprintf("Task \"%s\" is due %s", t.Title, dueWhen(t.Date, today)), now)
		default:
			continue
		}

		s.dueSeen[t.ID][n.Type] = true
		raised = append(raised, s.Notifications.Add(n))
	}
	return raised
}

func (s *State) seen(id int64, typ model.NotificationType) bool {
	kinds, ok := s.dueSeen[id]
	if !ok {
		kinds = map[model.NotificationType]bool{}
		s.dueSeen[id] = kinds
	}
	return kinds[typ]
}

func dueWhen(d, today model.Date) string {
	if d == today {
		return "today"
	}
	if t, err := today.Time(); err == nil && model.DateOf(t.AddDate(0, 0, 1)) == d {
		return "tomorrow"
	}
	return "on " + d.Format()
}
