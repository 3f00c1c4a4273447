package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Project is the fixed category a task may belong to.
// The zero value means "no project" and is encoded as JSON null.
type Project string

const (
	ProjectNone     Project = ""
	ProjectWork     Project = "work"
	ProjectPersonal Project = "personal"
	ProjectHealth   Project = "health"
)

// Projects is the fixed set shown in the sidebar, in display order.
var Projects = []Project{ProjectWork, ProjectPersonal, ProjectHealth}

// ParseProject maps user input to a Project. Empty input is ProjectNone.
func ParseProject(s string) (Project, error) {
	p := Project(strings.ToLower(strings.TrimSpace(s)))
	if p == ProjectNone {
		return ProjectNone, nil
	}
	for _, known := range Projects {
		if p == known {
			return p, nil
		}
	}
	return ProjectNone, fmt.Errorf("unknown project %q", s)
}

// Label returns the capitalized project name, or "No project".
func (p Project) Label() string {
	if p == ProjectNone {
		return "No project"
	}
	return strings.ToUpper(string(p[:1])) + string(p[1:])
}

// MarshalJSON encodes ProjectNone as null.
func (p Project) MarshalJSON() ([]byte, error) {
	if p == ProjectNone {
		return []byte("null"), nil
	}
	return json.Marshal(string(p))
}

// UnmarshalJSON accepts null or a project string.
func (p *Project) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*p = ProjectNone
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("decoding project: %w", err)
	}
	*p = Project(s)
	return nil
}
