package db

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/kmckee/teamdash/internal/models"
)

// recordingPublisher captures change publications for assertions.
type recordingPublisher struct {
	tables []string
}

func (p *recordingPublisher) Publish(table string) {
	p.tables = append(p.tables, table)
}

func (p *recordingPublisher) count(table string) int {
	n := 0
	for _, t := range p.tables {
		if t == table {
			n++
		}
	}
	return n
}

func newTestDB(t *testing.T) (*DB, *recordingPublisher) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	database, err := New(path)
	if err != nil {
		t.Fatalf("New(%s): %v", path, err)
	}
	t.Cleanup(func() { database.Close() })

	pub := &recordingPublisher{}
	database.SetPublisher(pub)
	return database, pub
}

func mustCreateMember(t *testing.T, d *DB, name string, role models.Role) *models.Member {
	t.Helper()
	m, err := d.CreateMember(name, name+"@example.com", role, nil)
	if err != nil {
		t.Fatalf("CreateMember(%s): %v", name, err)
	}
	return m
}

func mustCreateProject(t *testing.T, d *DB, name string, managerID int64) *models.Project {
	t.Helper()
	p, err := d.CreateProject(name, "", managerID, time.Now().AddDate(0, 1, 0))
	if err != nil {
		t.Fatalf("CreateProject(%s): %v", name, err)
	}
	return p
}

func TestSettingsRoundTrip(t *testing.T) {
	d, _ := newTestDB(t)

	got, err := d.GetSetting("theme")
	if err != nil {
		t.Fatalf("GetSetting: %v", err)
	}
	if got != "" {
		t.Errorf("unset key = %q, want empty", got)
	}

	if err := d.SetSetting("theme", "light"); err != nil {
		t.Fatalf("SetSetting: %v", err)
	}
	if err := d.SetSetting("theme", "dark"); err != nil {
		t.Fatalf("SetSetting overwrite: %v", err)
	}

	got, err = d.GetSetting("theme")
	if err != nil {
		t.Fatalf("GetSetting: %v", err)
	}
	if got != "dark" {
		t.Errorf("GetSetting = %q, want dark", got)
	}
}

func TestMemberLifecycle(t *testing.T) {
	d, pub := newTestDB(t)

	m := mustCreateMember(t, d, "ana", models.RoleManager)
	if m.ID == 0 {
		t.Fatal("CreateMember returned zero id")
	}
	if pub.count("users") != 1 {
		t.Errorf("users publications = %d, want 1", pub.count("users"))
	}

	updated, err := d.UpdateMember(m.ID, "ana maria", m.Email, models.RoleTeamLead, nil)
	if err != nil {
		t.Fatalf("UpdateMember: %v", err)
	}
	if updated.Name != "ana maria" || updated.Role != models.RoleTeamLead {
		t.Errorf("UpdateMember = %+v", updated)
	}

	members, err := d.ListMembers()
	if err != nil {
		t.Fatalf("ListMembers: %v", err)
	}
	if len(members) != 1 {
		t.Fatalf("ListMembers = %d members, want 1", len(members))
	}

	if err := d.DeleteMember(m.ID); err != nil {
		t.Fatalf("DeleteMember: %v", err)
	}
	if err := d.DeleteMember(m.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second DeleteMember = %v, want ErrNotFound", err)
	}
}

func TestUpdateMemberNotFound(t *testing.T) {
	d, _ := newTestDB(t)

	_, err := d.UpdateMember(999, "ghost", "", models.RoleMember, nil)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateMember(999) = %v, want ErrNotFound", err)
	}
}

func TestTeamRosterDerivedFromMembers(t *testing.T) {
	d, _ := newTestDB(t)
	lead := mustCreateMember(t, d, "lead", models.RoleTeamLead)
	dev := mustCreateMember(t, d, "dev", models.RoleMember)

	team, err := d.CreateTeam("core", lead.ID, nil, time.Now().AddDate(0, 2, 0))
	if err != nil {
		t.Fatalf("CreateTeam: %v", err)
	}
	if team.Lead != "lead" {
		t.Errorf("team.Lead = %q, want lead name resolved", team.Lead)
	}

	if err := d.SetMemberTeam(dev.ID, &team.ID); err != nil {
		t.Fatalf("SetMemberTeam: %v", err)
	}

	got, err := d.GetTeam(team.ID)
	if err != nil {
		t.Fatalf("GetTeam: %v", err)
	}
	if len(got.MemberIDs) != 1 || got.MemberIDs[0] != dev.ID {
		t.Errorf("MemberIDs = %v, want [%d]", got.MemberIDs, dev.ID)
	}

	// Detaching empties the roster again.
	if err := d.SetMemberTeam(dev.ID, nil); err != nil {
		t.Fatalf("SetMemberTeam(nil): %v", err)
	}
	got, err = d.GetTeam(team.ID)
	if err != nil {
		t.Fatalf("GetTeam: %v", err)
	}
	if len(got.MemberIDs) != 0 {
		t.Errorf("MemberIDs after detach = %v, want empty", got.MemberIDs)
	}
}

func TestProjectWithPartsAndActivity(t *testing.T) {
	d, pub := newTestDB(t)
	mgr := mustCreateMember(t, d, "mgr", models.RoleManager)
	p := mustCreateProject(t, d, "apollo", mgr.ID)

	part, err := d.CreateProjectPart(p.ID, "engine", "", 60, 0)
	if err != nil {
		t.Fatalf("CreateProjectPart: %v", err)
	}
	if _, err := d.CreatePartTodo(part.ID, "order parts"); err != nil {
		t.Fatalf("CreatePartTodo: %v", err)
	}
	if err := d.AppendProjectActivity(p.ID, "kickoff"); err != nil {
		t.Fatalf("AppendProjectActivity: %v", err)
	}

	got, err := d.GetProject(p.ID)
	if err != nil {
		t.Fatalf("GetProject: %v", err)
	}
	if got.Manager != "mgr" {
		t.Errorf("Manager = %q, want resolved name", got.Manager)
	}
	if len(got.Parts) != 1 {
		t.Fatalf("Parts = %d, want 1", len(got.Parts))
	}
	if len(got.Parts[0].Todos) != 1 || got.Parts[0].Todos[0].Text != "order parts" {
		t.Errorf("part todos = %+v", got.Parts[0].Todos)
	}
	if len(got.ActivityLog) != 1 || got.ActivityLog[0].Message != "kickoff" {
		t.Errorf("activity log = %+v", got.ActivityLog)
	}

	// Part and todo writes publish the projects table, since they
	// surface inside project rows.
	if pub.count("projects") < 3 {
		t.Errorf("projects publications = %d, want at least 3", pub.count("projects"))
	}
}

func TestListProjectsNewestFirst(t *testing.T) {
	d, _ := newTestDB(t)
	mgr := mustCreateMember(t, d, "mgr", models.RoleManager)

	first := mustCreateProject(t, d, "first", mgr.ID)
	second := mustCreateProject(t, d, "second", mgr.ID)

	projects, err := d.ListProjects()
	if err != nil {
		t.Fatalf("ListProjects: %v", err)
	}
	if len(projects) != 2 {
		t.Fatalf("ListProjects = %d, want 2", len(projects))
	}
	if projects[0].ID != second.ID || projects[1].ID != first.ID {
		t.Errorf("order = [%d %d], want [%d %d]", projects[0].ID, projects[1].ID, second.ID, first.ID)
	}
}

func TestDeleteProjectCascades(t *testing.T) {
	d, _ := newTestDB(t)
	mgr := mustCreateMember(t, d, "mgr", models.RoleManager)
	p := mustCreateProject(t, d, "apollo", mgr.ID)

	part, err := d.CreateProjectPart(p.ID, "engine", "", 60, 0)
	if err != nil {
		t.Fatalf("CreateProjectPart: %v", err)
	}
	todo, err := d.CreatePartTodo(part.ID, "x")
	if err != nil {
		t.Fatalf("CreatePartTodo: %v", err)
	}

	if err := d.DeleteProject(p.ID); err != nil {
		t.Fatalf("DeleteProject: %v", err)
	}

	if _, err := d.GetProjectPart(part.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("part survived project delete: %v", err)
	}
	if _, err := d.GetTodo(todo.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("todo survived project delete: %v", err)
	}
}

func TestPersonalTodos(t *testing.T) {
	d, _ := newTestDB(t)
	m := mustCreateMember(t, d, "ana", models.RoleMember)

	todo, err := d.CreatePersonalTodo(m.ID, "water plants")
	if err != nil {
		t.Fatalf("CreatePersonalTodo: %v", err)
	}

	got, err := d.GetMember(m.ID)
	if err != nil {
		t.Fatalf("GetMember: %v", err)
	}
	if len(got.PersonalTodos) != 1 {
		t.Fatalf("PersonalTodos = %d, want 1", len(got.PersonalTodos))
	}

	updated, err := d.UpdateTodo(todo.ID, todo.Text, true)
	if err != nil {
		t.Fatalf("UpdateTodo: %v", err)
	}
	if !updated.Completed {
		t.Error("todo not completed after toggle")
	}

	if err := d.DeleteTodo(todo.ID); err != nil {
		t.Fatalf("DeleteTodo: %v", err)
	}
	if _, err := d.GetTodo(todo.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetTodo after delete = %v, want ErrNotFound", err)
	}
}
