package actions

import (
	"sort"
	"strings"
	"time"

	"github.com/kmckee/teamdash/internal/models"
)

// FieldErrors maps input field names to validation messages. Forms
// annotate fields inline from it; nothing that produces a FieldErrors
// ever reaches the network.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return "invalid fields: " + strings.Join(fields, ", ")
}

// ProjectInput carries the create/update form fields for a project.
// ManagerID zero means unset; CreateProject resolves a fallback.
type ProjectInput struct {
	Name        string
	Description string
	ManagerID   int64
	Deadline    time.Time
}

// Validate checks the form fields. now supplies the clock so the
// past-deadline rule is testable.
func (in ProjectInput) Validate(now time.Time) FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(in.Name) == "" {
		errs["name"] = "name is required"
	}
	if in.Deadline.IsZero() {
		errs["deadline"] = "deadline is required"
	} else if dateOf(in.Deadline).Before(dateOf(now)) {
		errs["deadline"] = "deadline must not be in the past"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// TeamInput carries the create/update form fields for a team.
type TeamInput struct {
	Name      string
	LeadID    int64
	ProjectID *int64
	Deadline  time.Time
}

func (in TeamInput) Validate() FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(in.Name) == "" {
		errs["name"] = "name is required"
	}
	if in.LeadID == 0 {
		errs["lead"] = "lead is required"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// MemberInput carries the create/update form fields for a member.
type MemberInput struct {
	Name   string
	Email  string
	Role   models.Role
	TeamID *int64
}

func (in MemberInput) Validate() FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(in.Name) == "" {
		errs["name"] = "name is required"
	}
	switch in.Role {
	case models.RoleManager, models.RoleTeamLead, models.RoleMember:
	default:
		errs["role"] = "unknown role"
	}
	if in.Email != "" && !strings.Contains(in.Email, "@") {
		errs["email"] = "invalid email"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// TaskInput carries the assignment form fields for a task.
type TaskInput struct {
	Title          string
	Description    string
	ProjectID      int64
	PartID         *int64
	AssignedTo     int64
	Priority       models.TaskPriority
	Category       models.TaskCategory
	Deadline       time.Time
	EstimatedHours *int
	Tags           []string
}

// Validate checks the form fields. The deadline must be strictly in
// the future (today is rejected); estimated hours, when present, must
// lie in [1,200].
func (in TaskInput) Validate(now time.Time) FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(in.Title) == "" {
		errs["title"] = "title is required"
	}
	if in.AssignedTo == 0 {
		errs["assignedTo"] = "assignee is required"
	}
	if in.Deadline.IsZero() {
		errs["deadline"] = "deadline is required"
	} else if !dateOf(in.Deadline).After(dateOf(now)) {
		errs["deadline"] = "deadline must be in the future"
	}
	if in.EstimatedHours != nil && (*in.EstimatedHours < 1 || *in.EstimatedHours > 200) {
		errs["estimatedHours"] = "estimated hours must be between 1 and 200"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// PartInput carries the create/update form fields for a project part.
type PartInput struct {
	Name        string
	Description string
	Weight      int
	Progress    int
}

func (in PartInput) Validate() FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(in.Name) == "" {
		errs["name"] = "name is required"
	}
	if in.Weight < 1 || in.Weight > 100 {
		errs["weight"] = "weight must be between 1 and 100"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// dateOf truncates a timestamp to its calendar date.
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
