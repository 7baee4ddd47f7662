package models

import "time"

// Role determines which actions the UI exposes. It is a view-level
// switch, not a security boundary.
type Role string

const (
	RoleManager  Role = "manager"
	RoleTeamLead Role = "teamLead"
	RoleMember   Role = "member"
)

// ProjectStatus is the lifecycle state of a project.
type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectCompleted ProjectStatus = "completed"
	ProjectOnHold    ProjectStatus = "on-hold"
	ProjectPending   ProjectStatus = "pending"
)

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
	TaskCancelled  TaskStatus = "cancelled"
)

// TaskPriority orders tasks by urgency.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
	PriorityUrgent TaskPriority = "urgent"
)

// TaskCategory classifies the kind of work a task represents.
type TaskCategory string

const (
	CategoryDevelopment   TaskCategory = "development"
	CategoryDesign        TaskCategory = "design"
	CategoryTesting       TaskCategory = "testing"
	CategoryDocumentation TaskCategory = "documentation"
	CategoryMeeting       TaskCategory = "meeting"
	CategoryReview        TaskCategory = "review"
	CategoryGeneral       TaskCategory = "general"
)

// Project represents a managed project with its teams, parts and log
type Project struct {
	ID          int64
	Name        string
	Description string
	ManagerID   int64
	Manager     string // resolved manager name, loaded with the project
	Deadline    time.Time
	Progress    int
	Status      ProjectStatus
	TeamIDs     []int64
	Parts       []ProjectPart
	ActivityLog []ActivityEntry
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProjectPart is a weighted slice of a project. Weights are percentage
// contributions to the parent's progress; siblings are not required to
// sum to 100.
type ProjectPart struct {
	ID          int64
	ProjectID   int64
	Name        string
	Description string
	Weight      int
	Progress    int
	Todos       []Todo
}

// Todo is a checklist item scoped to either a project part or a member.
type Todo struct {
	ID        int64
	PartID    *int64
	MemberID  *int64
	Text      string
	Completed bool
}

// ActivityEntry is one append-only line of a project's activity log.
type ActivityEntry struct {
	Date    time.Time
	Message string
}

// Team groups members under a lead, optionally attached to a project.
type Team struct {
	ID        int64
	Name      string
	LeadID    int64
	Lead      string // resolved lead name
	ProjectID *int64
	Progress  int
	Deadline  time.Time
	MemberIDs []int64
	CreatedAt time.Time
}

// Member is a user of the dashboard.
type Member struct {
	ID            int64
	Name          string
	Email         string
	Role          Role
	TeamID        *int64
	TaskIDs       []int64
	PersonalTodos []Todo
	CreatedAt     time.Time
}

// Task is a unit of work assigned between members.
type Task struct {
	ID             int64
	Title          string
	Description    string
	ProjectID      int64
	PartID         *int64
	AssignedTo     int64
	AssignedBy     int64
	Priority       TaskPriority
	Category       TaskCategory
	Deadline       time.Time
	EstimatedHours *int
	Tags           []string
	Status         TaskStatus
	Progress       int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TaskHistoryEntry records one change to a task. History writes are
// best-effort and may lag the task row under partial failure.
type TaskHistoryEntry struct {
	ID        int64
	TaskID    int64
	UserID    int64
	Action    string
	OldValue  string
	NewValue  string
	CreatedAt time.Time
}

// TaskComment is a free-text comment on a task.
type TaskComment struct {
	ID        int64
	TaskID    int64
	UserID    int64
	Comment   string
	CreatedAt time.Time
}

// Severity classifies a notification for display.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Notification is a transient toast. It only ever lives in the store.
type Notification struct {
	ID       int64 // creation time in unix nanos
	Severity Severity
	Title    string
	Message  string
}
