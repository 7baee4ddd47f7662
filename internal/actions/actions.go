// Package actions orchestrates every user-triggered mutation: it
// validates input, calls the gateway, dispatches the resulting
// mutation message, and raises a notification. Views never talk to
// the gateway directly.
package actions

import (
	"errors"
	"log/slog"
	"time"

	"github.com/kmckee/teamdash/internal/i18n"
	"github.com/kmckee/teamdash/internal/models"
	"github.com/kmckee/teamdash/internal/store"
)

// Gateway is the remote-entity boundary the actions layer drives.
// *db.DB satisfies it; tests substitute a mock to count round trips.
type Gateway interface {
	ListProjects() ([]models.Project, error)
	CreateProject(name, description string, managerID int64, deadline time.Time) (*models.Project, error)
	UpdateProject(id int64, name, description string, managerID int64, deadline time.Time, progress int, status models.ProjectStatus) (*models.Project, error)
	DeleteProject(id int64) error
	AppendProjectActivity(projectID int64, message string) error

	CreateProjectPart(projectID int64, name, description string, weight, progress int) (*models.ProjectPart, error)
	UpdateProjectPart(id int64, name, description string, weight, progress int) (*models.ProjectPart, error)
	DeleteProjectPart(id int64) error

	CreatePartTodo(partID int64, text string) (*models.Todo, error)
	CreatePersonalTodo(memberID int64, text string) (*models.Todo, error)
	UpdateTodo(id int64, text string, completed bool) (*models.Todo, error)
	DeleteTodo(id int64) error

	ListTeams() ([]models.Team, error)
	CreateTeam(name string, leadID int64, projectID *int64, deadline time.Time) (*models.Team, error)
	UpdateTeam(id int64, name string, leadID int64, projectID *int64, progress int, deadline time.Time) (*models.Team, error)
	DeleteTeam(id int64) error
	SetMemberTeam(memberID int64, teamID *int64) error

	ListMembers() ([]models.Member, error)
	CreateMember(name, email string, role models.Role, teamID *int64) (*models.Member, error)
	UpdateMember(id int64, name, email string, role models.Role, teamID *int64) (*models.Member, error)
	DeleteMember(id int64) error

	ListTasks() ([]models.Task, error)
	CreateTask(t *models.Task, actorID int64) (*models.Task, error)
	UpdateTask(t *models.Task, actorID int64) (*models.Task, error)
	AssignTask(id, memberID, actorID int64) (*models.Task, error)
	UpdateTaskProgress(id int64, progress int, actorID int64) (*models.Task, error)
	DeleteTask(id int64) error
	CreateTaskComment(taskID, userID int64, comment string) (*models.TaskComment, error)
	ListTaskComments(taskID int64) ([]models.TaskComment, error)
	ListTaskHistory(taskID int64) ([]models.TaskHistoryEntry, error)

	GetSetting(key string) (string, error)
	SetSetting(key, value string) error
}

// Actions binds the gateway to the store.
type Actions struct {
	gw     Gateway
	store  *store.Store
	logger *slog.Logger
	now    func() time.Time
}

// New creates the action layer. A nil logger falls back to the
// default.
func New(gw Gateway, st *store.Store, logger *slog.Logger) *Actions {
	if logger == nil {
		logger = slog.Default()
	}
	return &Actions{gw: gw, store: st, logger: logger, now: time.Now}
}

// tr localizes key for the current language preference.
func (a *Actions) tr(key string) string {
	return i18n.Printer(a.store.Snapshot().Language).Sprintf(key)
}

func (a *Actions) notify(severity models.Severity, title, message string) {
	a.store.Dispatch(store.AddNotification{
		Notification: store.NewNotification(severity, title, message),
	})
}

// run wraps one action invocation: Idle -> Pending -> Success|Failed
// -> Idle. On success the mutation messages are dispatched and a
// success toast raised; on failure an error toast with a generic
// message is raised, the store is otherwise untouched, and the error
// is returned so the caller can react too (e.g. keep a form open).
// No retry is attempted.
func (a *Actions) run(op, successMsg string, fn func() ([]store.Msg, error)) error {
	a.store.Dispatch(store.SetLoading{Loading: true})
	defer a.store.Dispatch(store.SetLoading{Loading: false})

	msgs, err := fn()
	if err != nil {
		a.logger.Error("action failed", slog.String("op", op), slog.Any("err", err))
		a.notify(models.SeverityError, a.tr("Error"), a.tr("Something went wrong. Please try again."))
		return err
	}

	for _, msg := range msgs {
		a.store.Dispatch(msg)
	}
	if successMsg != "" {
		a.notify(models.SeveritySuccess, a.tr("Success"), a.tr(successMsg))
	}
	return nil
}

// LoadAll fetches every collection and replaces the store wholesale.
// Used once at startup; afterwards the change listener keeps the
// collections fresh.
func (a *Actions) LoadAll() error {
	a.store.Dispatch(store.SetLoading{Loading: true})
	defer a.store.Dispatch(store.SetLoading{Loading: false})

	projects, err := a.gw.ListProjects()
	if err != nil {
		return a.loadFailed(err)
	}
	teams, err := a.gw.ListTeams()
	if err != nil {
		return a.loadFailed(err)
	}
	members, err := a.gw.ListMembers()
	if err != nil {
		return a.loadFailed(err)
	}
	tasks, err := a.gw.ListTasks()
	if err != nil {
		return a.loadFailed(err)
	}

	a.store.Dispatch(store.SetProjects{Projects: projects})
	a.store.Dispatch(store.SetTeams{Teams: teams})
	a.store.Dispatch(store.SetMembers{Members: members})
	a.store.Dispatch(store.SetTasks{Tasks: tasks})
	return nil
}

func (a *Actions) loadFailed(err error) error {
	a.logger.Error("initial load failed", slog.Any("err", err))
	a.store.Dispatch(store.SetError{Err: err.Error()})
	a.notify(models.SeverityError, a.tr("Error"), a.tr("Something went wrong. Please try again."))
	return err
}

// actor resolves the member acting on behalf of the current role
// selection: the first member whose role matches the UI role, then
// any member. This is a single-user tool; there is no session
// identity to prefer.
func (a *Actions) actor() int64 {
	snap := a.store.Snapshot()
	for _, m := range snap.Members {
		if m.Role == snap.Role {
			return m.ID
		}
	}
	if len(snap.Members) > 0 {
		return snap.Members[0].ID
	}
	return 0
}

// memberName resolves a member id to its display name, empty when the
// id is not in the snapshot.
func (a *Actions) memberName(id int64) string {
	for _, m := range a.store.Snapshot().Members {
		if m.ID == id {
			return m.Name
		}
	}
	return ""
}

// errNoManager is an application-level precondition failure: it is
// raised before any round trip is attempted.
var errNoManager = errors.New("no manager found to assign to project")

// errUnknownTask guards task operations against ids that are not in
// the snapshot.
var errUnknownTask = errors.New("unknown task")
