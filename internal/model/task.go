package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// Priority is the urgency bucket of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists the valid priorities from lowest to highest.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// Weight returns the sort weight of the priority (higher sorts first).
func (p Priority) Weight() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	return p.Weight() > 0
}

// DateLayout is the wire and display layout of a calendar date.
const DateLayout = "2006-01-02"

// Date is a calendar date without a time component, kept in its
// YYYY-MM-DD wire form so that string order equals date order.
// The zero value means "no date" and is encoded as JSON null.
type Date string

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	return Date(t.Format(DateLayout))
}

// Today returns the local calendar date.
func Today() Date {
	return DateOf(time.Now())
}

// ParseDate validates s as YYYY-MM-DD. An empty string yields the zero Date.
func ParseDate(s string) (Date, error) {
	if s == "" {
		return "", nil
	}
	if _, err := time.Parse(DateLayout, s); err != nil {
		return "", fmt.Errorf("invalid date %q, use YYYY-MM-DD", s)
	}
	return Date(s), nil
}

// IsZero reports whether no date is set.
func (d Date) IsZero() bool { return d == "" }

// Before reports whether d is strictly earlier than other.
// A zero date is never before anything.
func (d Date) Before(other Date) bool {
	return d != "" && other != "" && d < other
}

// Time parses the date at midnight UTC.
func (d Date) Time() (time.Time, error) {
	return time.Parse(DateLayout, string(d))
}

// Format renders the date like "5 Mar 2025". Invalid dates render as-is.
func (d Date) Format() string {
	t, err := d.Time()
	if err != nil {
		return string(d)
	}
	return t.Format("2 Jan 2006")
}

// MarshalJSON encodes the zero date as null.
func (d Date) MarshalJSON() ([]byte, error) {
	if d == "" {
		return []byte("null"), nil
	}
	return json.Marshal(string(d))
}

// UnmarshalJSON accepts null or a date string.
func (d *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("decoding date: %w", err)
	}
	*d = Date(s)
	return nil
}

// Task is the server-owned task record mirrored by the dashboard.
type Task struct {
	// ID is assigned by the server; zero means "not yet created".
	ID int64 `json:"id,omitempty"`

	Title     string   `json:"title"`
	Desc      string   `json:"desc"`
	Date      Date     `json:"date"`
	Priority  Priority `json:"priority"`
	Project   Project  `json:"project"`
	Important bool     `json:"important"`
	Done      bool     `json:"done"`

	// Read-only fields computed by the server.
	ProjectName   string    `json:"project_name,omitempty"`
	ServerOverdue bool      `json:"is_overdue,omitempty"`
	CreatedAt     time.Time `json:"created_at,omitempty"`
	UpdatedAt     time.Time `json:"updated_at,omitempty"`
}

// IsOverdue reports whether the task is pending and due strictly before
// today. A task due today is not overdue, and a done task never is.
func (t Task) IsOverdue(today Date) bool {
	return !t.Done && t.Date.Before(today)
}

// IsDueWithin reports whether a pending task is due between today and
// today+days inclusive.
func (t Task) IsDueWithin(today Date, days int) bool {
	if t.Done || t.Date.IsZero() || t.Date.Before(today) {
		return false
	}
	start, err := today.Time()
	if err != nil {
		return false
	}
	limit := DateOf(start.AddDate(0, 0, days))
	return !limit.Before(t.Date)
}
