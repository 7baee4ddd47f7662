package store

import "github.com/kmckee/teamdash/internal/models"

// Msg is a mutation message. Like tea.Msg it is an open type; Apply
// ignores anything it does not recognize.
type Msg interface{}

// Scalar preferences.
type (
	SetTheme    struct{ Theme string }
	SetLanguage struct{ Language string }
	SetRole     struct{ Role models.Role }
)

// Collection replacement, used after initial load and after a
// change-notification refetch.
type (
	SetProjects struct{ Projects []models.Project }
	SetTeams    struct{ Teams []models.Team }
	SetMembers  struct{ Members []models.Member }
	SetTasks    struct{ Tasks []models.Task }
)

// Entity mutations by id.
type (
	AddProject    struct{ Project models.Project }
	UpdateProject struct{ Project models.Project }
	DeleteProject struct{ ID int64 }

	AddTeam    struct{ Team models.Team }
	UpdateTeam struct{ Team models.Team }
	DeleteTeam struct{ ID int64 }

	AddMember    struct{ Member models.Member }
	UpdateMember struct{ Member models.Member }
	DeleteMember struct{ ID int64 }

	AddTask    struct{ Task models.Task }
	UpdateTask struct{ Task models.Task }
	DeleteTask struct{ ID int64 }
)

// Nested mutations: project parts within a project.
type (
	AddProjectPart struct {
		ProjectID int64
		Part      models.ProjectPart
	}
	UpdateProjectPart struct {
		ProjectID int64
		Part      models.ProjectPart
	}
	DeleteProjectPart struct {
		ProjectID int64
		PartID    int64
	}
)

// Nested mutations: personal todos within a member. Update fields are
// optional; nil leaves the field unchanged.
type (
	AddPersonalTodo struct {
		MemberID int64
		Todo     models.Todo
	}
	UpdatePersonalTodo struct {
		MemberID  int64
		TodoID    int64
		Text      *string
		Completed *bool
	}
	DeletePersonalTodo struct {
		MemberID int64
		TodoID   int64
	}
)

// Transient UI state.
type (
	SetLoading   struct{ Loading bool }
	SetConnected struct{ Connected bool }
	SetError     struct{ Err string }

	AddNotification    struct{ Notification models.Notification }
	RemoveNotification struct{ ID int64 }
)
