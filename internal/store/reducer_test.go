package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmckee/teamdash/internal/models"
)

func project(id int64, name string) models.Project {
	return models.Project{ID: id, Name: name, Status: models.ProjectActive}
}

func member(id int64, name string) models.Member {
	return models.Member{ID: id, Name: name, Role: models.RoleMember}
}

func TestApplyUnknownMessageIsNoOp(t *testing.T) {
	s := NewState()
	s.Projects = []models.Project{project(1, "alpha")}

	type mystery struct{ X int }
	next := Apply(s, mystery{X: 42})

	assert.Equal(t, s, next)
}

func TestApplyAddProjectUpsertsById(t *testing.T) {
	s := Apply(NewState(), AddProject{Project: project(1, "alpha")})
	s = Apply(s, AddProject{Project: project(2, "beta")})

	// A second add with an existing id replaces, never duplicates.
	s = Apply(s, AddProject{Project: project(1, "alpha v2")})

	require.Len(t, s.Projects, 2)
	assert.Equal(t, "alpha v2", s.Projects[0].Name)
	assert.Equal(t, "beta", s.Projects[1].Name)
}

func TestApplyDeleteRemovesExactlyOne(t *testing.T) {
	s := NewState()
	s.Projects = []models.Project{project(1, "a"), project(2, "b"), project(3, "c")}

	next := Apply(s, DeleteProject{ID: 2})

	require.Len(t, next.Projects, 2)
	assert.Equal(t, int64(1), next.Projects[0].ID)
	assert.Equal(t, int64(3), next.Projects[1].ID)

	// Deleting an absent id changes nothing.
	again := Apply(next, DeleteProject{ID: 99})
	assert.Equal(t, next, again)
}

func TestApplyUpdateAbsentIdIsNoOp(t *testing.T) {
	s := NewState()
	s.Projects = []models.Project{project(1, "a")}

	next := Apply(s, UpdateProject{Project: project(7, "ghost")})

	assert.Equal(t, s, next)
}

func TestApplyUpdateIsIdempotent(t *testing.T) {
	s := NewState()
	s.Members = []models.Member{member(1, "ana"), member(2, "ben")}

	updated := member(2, "benjamin")
	once := Apply(s, UpdateMember{Member: updated})
	twice := Apply(once, UpdateMember{Member: updated})

	assert.Equal(t, once, twice)
}

func TestApplyLastWriteWins(t *testing.T) {
	s := NewState()
	s.Members = []models.Member{member(1, "ana")}

	s = Apply(s, UpdateMember{Member: member(1, "first")})
	s = Apply(s, UpdateMember{Member: member(1, "second")})

	require.Len(t, s.Members, 1)
	assert.Equal(t, "second", s.Members[0].Name)
}

func TestApplyClampsProgress(t *testing.T) {
	tests := []struct {
		name string
		in   int
		want int
	}{
		{"overflow", 150, 100},
		{"negative", -5, 0},
		{"boundary low", 0, 0},
		{"boundary high", 100, 100},
		{"middle", 42, 42},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := project(1, "p")
			p.Progress = tt.in
			s := Apply(NewState(), AddProject{Project: p})
			assert.Equal(t, tt.want, s.Projects[0].Progress)
		})
	}
}

func TestApplyClampsNestedPartProgress(t *testing.T) {
	p := project(1, "p")
	p.Parts = []models.ProjectPart{{ID: 10, ProjectID: 1, Name: "core", Weight: 50, Progress: 130}}

	s := Apply(NewState(), SetProjects{Projects: []models.Project{p}})

	assert.Equal(t, 100, s.Projects[0].Parts[0].Progress)
}

func TestApplyAddPartToAbsentProjectIsNoOp(t *testing.T) {
	s := NewState()
	s.Projects = []models.Project{project(1, "a")}

	next := Apply(s, AddProjectPart{
		ProjectID: 99,
		Part:      models.ProjectPart{ID: 5, Name: "orphan", Weight: 10},
	})

	assert.Equal(t, s, next)
}

func TestApplyPartLifecycle(t *testing.T) {
	s := NewState()
	s.Projects = []models.Project{project(1, "a")}

	s = Apply(s, AddProjectPart{ProjectID: 1, Part: models.ProjectPart{ID: 5, Name: "core", Weight: 60}})
	s = Apply(s, AddProjectPart{ProjectID: 1, Part: models.ProjectPart{ID: 6, Name: "docs", Weight: 40}})
	require.Len(t, s.Projects[0].Parts, 2)

	s = Apply(s, UpdateProjectPart{ProjectID: 1, Part: models.ProjectPart{ID: 5, Name: "core", Weight: 60, Progress: 80}})
	assert.Equal(t, 80, s.Projects[0].Parts[0].Progress)

	s = Apply(s, DeleteProjectPart{ProjectID: 1, PartID: 5})
	require.Len(t, s.Projects[0].Parts, 1)
	assert.Equal(t, int64(6), s.Projects[0].Parts[0].ID)
}

func TestApplyPersonalTodoPartialUpdate(t *testing.T) {
	m := member(1, "ana")
	m.PersonalTodos = []models.Todo{{ID: 3, Text: "water plants"}}
	s := NewState()
	s.Members = []models.Member{m}

	done := true
	s = Apply(s, UpdatePersonalTodo{MemberID: 1, TodoID: 3, Completed: &done})

	require.Len(t, s.Members[0].PersonalTodos, 1)
	assert.True(t, s.Members[0].PersonalTodos[0].Completed)
	assert.Equal(t, "water plants", s.Members[0].PersonalTodos[0].Text, "nil Text leaves the text alone")
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	orig := NewState()
	orig.Projects = []models.Project{project(1, "a"), project(2, "b")}
	snapshot := append([]models.Project(nil), orig.Projects...)

	Apply(orig, UpdateProject{Project: project(1, "changed")})
	Apply(orig, DeleteProject{ID: 2})
	Apply(orig, AddProjectPart{ProjectID: 1, Part: models.ProjectPart{ID: 9, Name: "p", Weight: 5}})

	assert.Equal(t, snapshot, orig.Projects)
}

func TestApplyNotifications(t *testing.T) {
	s := NewState()
	n1 := models.Notification{ID: 100, Severity: models.SeveritySuccess, Title: "ok"}
	n2 := models.Notification{ID: 200, Severity: models.SeverityError, Title: "bad"}

	s = Apply(s, AddNotification{Notification: n1})
	s = Apply(s, AddNotification{Notification: n2})
	require.Len(t, s.Notifications, 2)

	s = Apply(s, RemoveNotification{ID: 100})
	require.Len(t, s.Notifications, 1)
	assert.Equal(t, int64(200), s.Notifications[0].ID)
}

func TestApplyScalarsAndFlags(t *testing.T) {
	s := NewState()

	s = Apply(s, SetTheme{Theme: "light"})
	s = Apply(s, SetLanguage{Language: "de"})
	s = Apply(s, SetRole{Role: models.RoleTeamLead})
	s = Apply(s, SetLoading{Loading: true})
	s = Apply(s, SetConnected{Connected: true})
	s = Apply(s, SetError{Err: "boom"})

	assert.Equal(t, "light", s.Theme)
	assert.Equal(t, "de", s.Language)
	assert.Equal(t, models.RoleTeamLead, s.Role)
	assert.True(t, s.Loading)
	assert.True(t, s.Connected)
	assert.Equal(t, "boom", s.Err)
}
