package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskJSONNullables(t *testing.T) {
	var task Task
	require.NoError(t, json.Unmarshal([]byte(`{
		"id": 4, "title": "Pay rent", "desc": "", "date": null,
		"priority": "high", "project": null, "important": true, "done": false,
		"project_name": "No Project", "is_overdue": false
	}`), &task))

	assert.Equal(t, int64(4), task.ID)
	assert.True(t, task.Date.IsZero())
	assert.Equal(t, ProjectNone, task.Project)
	assert.Equal(t, PriorityHigh, task.Priority)

	data, err := json.Marshal(Task{Title: "x", Priority: PriorityLow})
	require.NoError(t, err)
	out := string(data)
	assert.NotContains(t, out, `"id"`)
	assert.Contains(t, out, `"date":null`)
	assert.Contains(t, out, `"project":null`)

	data, err = json.Marshal(Task{ID: 2, Title: "x", Date: "2025-03-05", Project: ProjectWork})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"date":"2025-03-05"`)
	assert.Contains(t, string(data), `"project":"work"`)
}

func TestPriorityWeight(t *testing.T) {
	assert.Equal(t, 3, PriorityHigh.Weight())
	assert.Equal(t, 2, PriorityMedium.Weight())
	assert.Equal(t, 1, PriorityLow.Weight())
	assert.False(t, Priority("urgent").Valid())
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-03-05")
	require.NoError(t, err)
	assert.Equal(t, "5 Mar 2025", d.Format())

	d, err = ParseDate("")
	require.NoError(t, err)
	assert.True(t, d.IsZero())

	_, err = ParseDate("05/03/2025")
	assert.Error(t, err)
}

func TestDateOfIgnoresTimeOfDay(t *testing.T) {
	late := time.Date(2025, 3, 5, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, Date("2025-03-05"), DateOf(late))
	assert.False(t, Task{Date: "2025-03-05"}.IsOverdue(DateOf(late)))
}

func TestParseProject(t *testing.T) {
	p, err := ParseProject(" Work ")
	require.NoError(t, err)
	assert.Equal(t, ProjectWork, p)
	assert.Equal(t, "Work", p.Label())
	assert.Equal(t, "No project", ProjectNone.Label())

	_, err = ParseProject("garden")
	assert.Error(t, err)
}

func TestNotificationIDAcceptsNumbersAndStrings(t *testing.T) {
	var list []Notification
	require.NoError(t, json.Unmarshal([]byte(`[{"id": 12}, {"id": "local-abc"}]`), &list))

	n, ok := list[0].ID.Int()
	require.True(t, ok)
	assert.Equal(t, int64(12), n)

	_, ok = list[1].ID.Int()
	assert.False(t, ok)
	assert.Equal(t, NotificationID("local-abc"), list[1].ID)
}

func TestNotificationAge(t *testing.T) {
	now := time.Date(2025, 3, 5, 12, 0, 0, 0, time.UTC)
	n := Notification{CreatedAt: now.Add(-30 * time.Second)}
	assert.Equal(t, "Just now", n.Age(now))
	n.CreatedAt = now.Add(-time.Minute)
	assert.Equal(t, "1 minute ago", n.Age(now))
	n.CreatedAt = now.Add(-3 * time.Hour)
	assert.Equal(t, "3 hours ago", n.Age(now))
	n.CreatedAt = now.Add(-49 * time.Hour)
	assert.Equal(t, "2 days ago", n.Age(now))

	assert.Equal(t, "5 minutes ago", Notification{Time: "5 minutes ago"}.Age(now))
}

func TestUserDisplay(t *testing.T) {
	u := User{FirstName: "Ada", FullName: "Ada Lovelace", Initials: "al"}
	assert.Equal(t, "Ada Lovelace", u.DisplayName())
	assert.Equal(t, "AL", u.AvatarInitials())
	assert.Equal(t, "Welcome back, Ada!", u.Welcome())

	assert.Equal(t, "User", User{}.DisplayName())
	assert.Equal(t, "U", User{}.AvatarInitials())
	assert.Equal(t, "Welcome back, User!", User{}.Welcome())
}
