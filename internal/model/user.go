package model

import "strings"

// User is the authenticated principal returned by the identity endpoint.
type User struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	FullName  string `json:"full_name"`
	Initials  string `json:"initials"`
}

// DisplayName returns the full name, falling back to email then "User".
func (u User) DisplayName() string {
	if name := strings.TrimSpace(u.FullName); name != "" {
		return name
	}
	if u.Email != "" {
		return u.Email
	}
	return "User"
}

// AvatarInitials returns the initials shown in the user pill.
func (u User) AvatarInitials() string {
	if u.Initials != "" {
		return strings.ToUpper(u.Initials)
	}
	return "U"
}

// Welcome returns the banner greeting.
func (u User) Welcome() string {
	first := u.FirstName
	if first == "" {
		first = "User"
	}
	return "Welcome back, " + first + "!"
}

// Stats is the server-side summary of the task collection.
type Stats struct {
	TotalTasks     int            `json:"total_tasks"`
	CompletedTasks int            `json:"completed_tasks"`
	PendingTasks   int            `json:"pending_tasks"`
	OverdueTasks   int            `json:"overdue_tasks"`
	ImportantTasks int            `json:"important_tasks"`
	CompletionRate float64        `json:"completion_rate"`
	ProjectStats   map[string]int `json:"project_stats"`
}

// Progress counts tasks created inside a window and how many are done.
type Progress struct {
	Total          int     `json:"total"`
	Completed      int     `json:"completed"`
	CompletionRate float64 `json:"completion_rate"`
}

// DashboardStats is the extended summary behind the weekly progress line.
type DashboardStats struct {
	Weekly        Progress       `json:"weekly"`
	PriorityStats map[string]int `json:"priority_stats"`
	ProjectStats  map[string]int `json:"project_stats"`
	DueSoon       int            `json:"due_soon"`
	TotalOverdue  int            `json:"total_overdue"`
}
