package actions

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmckee/teamdash/internal/models"
	"github.com/kmckee/teamdash/internal/store"
)

// mockGateway records call counts and delegates to optional stubs.
// Unstubbed methods succeed with echo responses so tests only wire
// what they assert on.
type mockGateway struct {
	calls map[string]int

	createProjectFn  func(name, description string, managerID int64, deadline time.Time) (*models.Project, error)
	createTaskFn     func(t *models.Task, actorID int64) (*models.Task, error)
	appendActivityFn func(projectID int64, message string) error
	failAll          error
}

func newMockGateway() *mockGateway {
	return &mockGateway{calls: make(map[string]int)}
}

func (g *mockGateway) record(name string) error {
	g.calls[name]++
	return g.failAll
}

func (g *mockGateway) ListProjects() ([]models.Project, error) {
	return nil, g.record("ListProjects")
}

func (g *mockGateway) CreateProject(name, description string, managerID int64, deadline time.Time) (*models.Project, error) {
	if err := g.record("CreateProject"); err != nil {
		return nil, err
	}
	if g.createProjectFn != nil {
		return g.createProjectFn(name, description, managerID, deadline)
	}
	return &models.Project{ID: 1, Name: name, Description: description, ManagerID: managerID, Deadline: deadline}, nil
}

func (g *mockGateway) UpdateProject(id int64, name, description string, managerID int64, deadline time.Time, progress int, status models.ProjectStatus) (*models.Project, error) {
	if err := g.record("UpdateProject"); err != nil {
		return nil, err
	}
	return &models.Project{ID: id, Name: name, Description: description, ManagerID: managerID, Deadline: deadline, Progress: progress, Status: status}, nil
}

func (g *mockGateway) DeleteProject(id int64) error {
	return g.record("DeleteProject")
}

func (g *mockGateway) AppendProjectActivity(projectID int64, message string) error {
	if err := g.record("AppendProjectActivity"); err != nil {
		return err
	}
	if g.appendActivityFn != nil {
		return g.appendActivityFn(projectID, message)
	}
	return nil
}

func (g *mockGateway) CreateProjectPart(projectID int64, name, description string, weight, progress int) (*models.ProjectPart, error) {
	if err := g.record("CreateProjectPart"); err != nil {
		return nil, err
	}
	return &models.ProjectPart{ID: 1, ProjectID: projectID, Name: name, Description: description, Weight: weight, Progress: progress}, nil
}

func (g *mockGateway) UpdateProjectPart(id int64, name, description string, weight, progress int) (*models.ProjectPart, error) {
	if err := g.record("UpdateProjectPart"); err != nil {
		return nil, err
	}
	return &models.ProjectPart{ID: id, Name: name, Description: description, Weight: weight, Progress: progress}, nil
}

func (g *mockGateway) DeleteProjectPart(id int64) error {
	return g.record("DeleteProjectPart")
}

func (g *mockGateway) CreatePartTodo(partID int64, text string) (*models.Todo, error) {
	if err := g.record("CreatePartTodo"); err != nil {
		return nil, err
	}
	return &models.Todo{ID: 1, PartID: &partID, Text: text}, nil
}

func (g *mockGateway) CreatePersonalTodo(memberID int64, text string) (*models.Todo, error) {
	if err := g.record("CreatePersonalTodo"); err != nil {
		return nil, err
	}
	return &models.Todo{ID: 1, MemberID: &memberID, Text: text}, nil
}

func (g *mockGateway) UpdateTodo(id int64, text string, completed bool) (*models.Todo, error) {
	if err := g.record("UpdateTodo"); err != nil {
		return nil, err
	}
	return &models.Todo{ID: id, Text: text, Completed: completed}, nil
}

func (g *mockGateway) DeleteTodo(id int64) error {
	return g.record("DeleteTodo")
}

func (g *mockGateway) ListTeams() ([]models.Team, error) {
	return nil, g.record("ListTeams")
}

func (g *mockGateway) CreateTeam(name string, leadID int64, projectID *int64, deadline time.Time) (*models.Team, error) {
	if err := g.record("CreateTeam"); err != nil {
		return nil, err
	}
	return &models.Team{ID: 1, Name: name, LeadID: leadID, ProjectID: projectID, Deadline: deadline}, nil
}

func (g *mockGateway) UpdateTeam(id int64, name string, leadID int64, projectID *int64, progress int, deadline time.Time) (*models.Team, error) {
	if err := g.record("UpdateTeam"); err != nil {
		return nil, err
	}
	return &models.Team{ID: id, Name: name, LeadID: leadID, ProjectID: projectID, Progress: progress, Deadline: deadline}, nil
}

func (g *mockGateway) DeleteTeam(id int64) error {
	return g.record("DeleteTeam")
}

func (g *mockGateway) SetMemberTeam(memberID int64, teamID *int64) error {
	return g.record("SetMemberTeam")
}

func (g *mockGateway) ListMembers() ([]models.Member, error) {
	return nil, g.record("ListMembers")
}

func (g *mockGateway) CreateMember(name, email string, role models.Role, teamID *int64) (*models.Member, error) {
	if err := g.record("CreateMember"); err != nil {
		return nil, err
	}
	return &models.Member{ID: 1, Name: name, Email: email, Role: role, TeamID: teamID}, nil
}

func (g *mockGateway) UpdateMember(id int64, name, email string, role models.Role, teamID *int64) (*models.Member, error) {
	if err := g.record("UpdateMember"); err != nil {
		return nil, err
	}
	return &models.Member{ID: id, Name: name, Email: email, Role: role, TeamID: teamID}, nil
}

func (g *mockGateway) DeleteMember(id int64) error {
	return g.record("DeleteMember")
}

func (g *mockGateway) ListTasks() ([]models.Task, error) {
	return nil, g.record("ListTasks")
}

func (g *mockGateway) CreateTask(t *models.Task, actorID int64) (*models.Task, error) {
	if err := g.record("CreateTask"); err != nil {
		return nil, err
	}
	if g.createTaskFn != nil {
		return g.createTaskFn(t, actorID)
	}
	created := *t
	created.ID = 1
	created.Status = models.TaskPending
	return &created, nil
}

func (g *mockGateway) UpdateTask(t *models.Task, actorID int64) (*models.Task, error) {
	if err := g.record("UpdateTask"); err != nil {
		return nil, err
	}
	updated := *t
	return &updated, nil
}

func (g *mockGateway) AssignTask(id, memberID, actorID int64) (*models.Task, error) {
	if err := g.record("AssignTask"); err != nil {
		return nil, err
	}
	return &models.Task{ID: id, AssignedTo: memberID, AssignedBy: actorID}, nil
}

func (g *mockGateway) UpdateTaskProgress(id int64, progress int, actorID int64) (*models.Task, error) {
	if err := g.record("UpdateTaskProgress"); err != nil {
		return nil, err
	}
	status := models.TaskInProgress
	if progress >= 100 {
		status = models.TaskCompleted
	}
	return &models.Task{ID: id, Progress: progress, Status: status}, nil
}

func (g *mockGateway) DeleteTask(id int64) error {
	return g.record("DeleteTask")
}

func (g *mockGateway) CreateTaskComment(taskID, userID int64, comment string) (*models.TaskComment, error) {
	if err := g.record("CreateTaskComment"); err != nil {
		return nil, err
	}
	return &models.TaskComment{ID: 1, TaskID: taskID, UserID: userID, Comment: comment}, nil
}

func (g *mockGateway) ListTaskComments(taskID int64) ([]models.TaskComment, error) {
	return nil, g.record("ListTaskComments")
}

func (g *mockGateway) ListTaskHistory(taskID int64) ([]models.TaskHistoryEntry, error) {
	return nil, g.record("ListTaskHistory")
}

func (g *mockGateway) GetSetting(key string) (string, error) {
	return "", g.record("GetSetting")
}

func (g *mockGateway) SetSetting(key, value string) error {
	return g.record("SetSetting")
}

// totalCalls counts all gateway round trips, for asserting that a
// rejected input never reached the network.
func (g *mockGateway) totalCalls() int {
	total := 0
	for _, n := range g.calls {
		total += n
	}
	return total
}

func newTestActions(t *testing.T) (*Actions, *mockGateway, *store.Store) {
	t.Helper()
	gw := newMockGateway()
	st := store.New(store.NewState())
	a := New(gw, st, slog.New(slog.DiscardHandler))
	a.now = func() time.Time { return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC) }
	return a, gw, st
}

func seedMembers(st *store.Store, members ...models.Member) {
	st.Dispatch(store.SetMembers{Members: members})
}

func futureDate() time.Time {
	return time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
}

func TestCreateProjectValidInputHitsGatewayOnce(t *testing.T) {
	a, gw, st := newTestActions(t)
	seedMembers(st, models.Member{ID: 7, Name: "mia", Role: models.RoleManager})

	err := a.CreateProject(ProjectInput{Name: "apollo", Deadline: futureDate()})

	require.NoError(t, err)
	assert.Equal(t, 1, gw.calls["CreateProject"])

	snap := st.Snapshot()
	require.Len(t, snap.Projects, 1)
	assert.Equal(t, "apollo", snap.Projects[0].Name)
	assert.Equal(t, int64(7), snap.Projects[0].ManagerID, "fallback manager resolved")
}

func TestCreateProjectAppendsCreationActivity(t *testing.T) {
	a, gw, st := newTestActions(t)
	st.Dispatch(store.SetRole{Role: models.RoleManager})
	seedMembers(st, models.Member{ID: 7, Name: "mia", Role: models.RoleManager})

	var gotMessage string
	gw.appendActivityFn = func(projectID int64, message string) error {
		gotMessage = message
		return nil
	}

	require.NoError(t, a.CreateProject(ProjectInput{Name: "apollo", Deadline: futureDate()}))

	assert.Equal(t, 1, gw.calls["AppendProjectActivity"])
	assert.Contains(t, gotMessage, `"apollo"`)
	assert.Contains(t, gotMessage, "mia")
}

func TestCreateProjectActivityFailureDoesNotFailCreate(t *testing.T) {
	a, gw, st := newTestActions(t)
	seedMembers(st, models.Member{ID: 7, Name: "mia", Role: models.RoleManager})
	gw.appendActivityFn = func(projectID int64, message string) error {
		return errors.New("disk full")
	}

	err := a.CreateProject(ProjectInput{Name: "apollo", Deadline: futureDate()})

	require.NoError(t, err)
	snap := st.Snapshot()
	require.Len(t, snap.Projects, 1)
	require.Len(t, snap.Notifications, 1)
	assert.Equal(t, models.SeveritySuccess, snap.Notifications[0].Severity)
}

func TestCreateProjectInvalidInputNeverReachesGateway(t *testing.T) {
	a, gw, _ := newTestActions(t)

	err := a.CreateProject(ProjectInput{Name: "", Deadline: time.Time{}})

	var fieldErrs FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Contains(t, fieldErrs, "name")
	assert.Contains(t, fieldErrs, "deadline")
	assert.Zero(t, gw.totalCalls())
}

func TestCreateProjectNoManagerFailsBeforeNetwork(t *testing.T) {
	a, gw, st := newTestActions(t)

	err := a.CreateProject(ProjectInput{Name: "apollo", Deadline: futureDate()})

	require.ErrorIs(t, err, errNoManager)
	assert.Zero(t, gw.calls["CreateProject"])

	// The failure still raises an error toast.
	snap := st.Snapshot()
	require.Len(t, snap.Notifications, 1)
	assert.Equal(t, models.SeverityError, snap.Notifications[0].Severity)
}

func TestCreateProjectManagerFallbackPrefersCurrentRole(t *testing.T) {
	a, gw, st := newTestActions(t)
	st.Dispatch(store.SetRole{Role: models.RoleTeamLead})
	seedMembers(st,
		models.Member{ID: 1, Name: "m", Role: models.RoleManager},
		models.Member{ID: 2, Name: "tl", Role: models.RoleTeamLead},
	)

	var gotManager int64
	gw.createProjectFn = func(name, description string, managerID int64, deadline time.Time) (*models.Project, error) {
		gotManager = managerID
		return &models.Project{ID: 1, Name: name, ManagerID: managerID}, nil
	}

	require.NoError(t, a.CreateProject(ProjectInput{Name: "apollo", Deadline: futureDate()}))
	assert.Equal(t, int64(2), gotManager, "role-matched member wins over the manager")
}

func TestCreateProjectExplicitManagerSkipsFallback(t *testing.T) {
	a, gw, st := newTestActions(t)
	seedMembers(st, models.Member{ID: 1, Name: "m", Role: models.RoleManager})

	var gotManager int64
	gw.createProjectFn = func(name, description string, managerID int64, deadline time.Time) (*models.Project, error) {
		gotManager = managerID
		return &models.Project{ID: 1, Name: name, ManagerID: managerID}, nil
	}

	require.NoError(t, a.CreateProject(ProjectInput{Name: "apollo", ManagerID: 42, Deadline: futureDate()}))
	assert.Equal(t, int64(42), gotManager)
}

func TestGatewayFailureRaisesGenericToastAndReturnsError(t *testing.T) {
	a, gw, st := newTestActions(t)
	seedMembers(st, models.Member{ID: 1, Name: "m", Role: models.RoleManager})
	gw.failAll = errors.New("rpc: connection refused")

	err := a.CreateProject(ProjectInput{Name: "apollo", Deadline: futureDate()})

	require.Error(t, err)
	snap := st.Snapshot()
	assert.Empty(t, snap.Projects, "failed action leaves collections untouched")
	require.Len(t, snap.Notifications, 1)
	assert.Equal(t, models.SeverityError, snap.Notifications[0].Severity)
	assert.NotContains(t, snap.Notifications[0].Message, "rpc:", "raw error text stays out of the toast")
	assert.False(t, snap.Loading, "loading flag resets after failure")
}

func TestDeleteProjectDispatchesRemoval(t *testing.T) {
	a, gw, st := newTestActions(t)
	st.Dispatch(store.SetProjects{Projects: []models.Project{{ID: 4, Name: "old"}}})

	require.NoError(t, a.DeleteProject(4))

	assert.Equal(t, 1, gw.calls["DeleteProject"])
	assert.Empty(t, st.Snapshot().Projects)
}

func TestAddProjectPartInvalidWeightRejected(t *testing.T) {
	a, gw, _ := newTestActions(t)

	for _, weight := range []int{0, -1, 101} {
		err := a.AddProjectPart(1, PartInput{Name: "core", Weight: weight})
		var fieldErrs FieldErrors
		require.ErrorAs(t, err, &fieldErrs, "weight %d", weight)
		assert.Contains(t, fieldErrs, "weight")
	}
	assert.Zero(t, gw.totalCalls())
}

func TestCreateTeamValid(t *testing.T) {
	a, gw, st := newTestActions(t)

	require.NoError(t, a.CreateTeam(TeamInput{Name: "core", LeadID: 3}))

	assert.Equal(t, 1, gw.calls["CreateTeam"])
	require.Len(t, st.Snapshot().Teams, 1)
}

func TestAddTeamMemberUsesSetMemberTeam(t *testing.T) {
	a, gw, st := newTestActions(t)
	seedMembers(st, models.Member{ID: 9, Name: "ana", Role: models.RoleMember})

	require.NoError(t, a.AddTeamMember(2, 9))
	assert.Equal(t, 1, gw.calls["SetMemberTeam"])

	require.NoError(t, a.RemoveTeamMember(9))
	assert.Equal(t, 2, gw.calls["SetMemberTeam"])
}

func TestSuccessToastRaised(t *testing.T) {
	a, _, st := newTestActions(t)

	require.NoError(t, a.CreateMember(MemberInput{Name: "ana", Role: models.RoleMember}))

	snap := st.Snapshot()
	require.Len(t, snap.Notifications, 1)
	assert.Equal(t, models.SeveritySuccess, snap.Notifications[0].Severity)
}
