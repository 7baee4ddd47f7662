// Package store holds the application's single state snapshot and the
// closed vocabulary of mutation messages that produce new snapshots.
// Apply is a pure function; all side effects (network, persistence,
// notifications to the user) live in the actions layer.
package store

import (
	"time"

	"github.com/kmckee/teamdash/internal/models"
)

// State is one immutable snapshot of the application. Reducers never
// modify a snapshot in place; untouched collections are shared between
// consecutive snapshots.
type State struct {
	Theme    string
	Language string
	Role     models.Role

	Projects []models.Project
	Teams    []models.Team
	Members  []models.Member
	Tasks    []models.Task

	Loading   bool
	Connected bool
	Err       string

	Notifications []models.Notification
}

// NewState returns the initial snapshot with default preferences.
func NewState() State {
	return State{
		Theme:    "dark",
		Language: "en",
		Role:     models.RoleManager,
	}
}

// MemberByID returns the member with the given id, if present.
func (s State) MemberByID(id int64) (models.Member, bool) {
	for _, m := range s.Members {
		if m.ID == id {
			return m, true
		}
	}
	return models.Member{}, false
}

// ProjectByID returns the project with the given id, if present.
func (s State) ProjectByID(id int64) (models.Project, bool) {
	for _, p := range s.Projects {
		if p.ID == id {
			return p, true
		}
	}
	return models.Project{}, false
}

// TeamByID returns the team with the given id, if present.
func (s State) TeamByID(id int64) (models.Team, bool) {
	for _, t := range s.Teams {
		if t.ID == id {
			return t, true
		}
	}
	return models.Team{}, false
}

// TaskByID returns the task with the given id, if present.
func (s State) TaskByID(id int64) (models.Task, bool) {
	for _, t := range s.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return models.Task{}, false
}

// NewNotification builds a transient notification. The id doubles as
// the creation timestamp so removal after a fixed delay stays cheap.
func NewNotification(severity models.Severity, title, message string) models.Notification {
	return models.Notification{
		ID:       time.Now().UnixNano(),
		Severity: severity,
		Title:    title,
		Message:  message,
	}
}
