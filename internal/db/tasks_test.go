package db

import (
	"errors"
	"testing"
	"time"

	"github.com/kmckee/teamdash/internal/models"
)

func seedTaskFixtures(t *testing.T, d *DB) (mgr, dev *models.Member, p *models.Project) {
	t.Helper()
	mgr = mustCreateMember(t, d, "mgr", models.RoleManager)
	dev = mustCreateMember(t, d, "dev", models.RoleMember)
	p = mustCreateProject(t, d, "apollo", mgr.ID)
	return mgr, dev, p
}

func mustCreateTask(t *testing.T, d *DB, projectID, assignedTo, actorID int64) *models.Task {
	t.Helper()
	task, err := d.CreateTask(&models.Task{
		Title:      "wire the parser",
		ProjectID:  projectID,
		AssignedTo: assignedTo,
		AssignedBy: actorID,
		Priority:   models.PriorityMedium,
		Category:   models.CategoryDevelopment,
		Deadline:   time.Now().AddDate(0, 0, 7),
		Tags:       []string{"backend", "urgent"},
	}, actorID)
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	return task
}

func TestCreateTaskDefaultsAndHistory(t *testing.T) {
	d, pub := newTestDB(t)
	mgr, dev, p := seedTaskFixtures(t, d)

	task := mustCreateTask(t, d, p.ID, dev.ID, mgr.ID)

	if task.Status != models.TaskPending {
		t.Errorf("Status = %s, want pending", task.Status)
	}
	if task.Progress != 0 {
		t.Errorf("Progress = %d, want 0", task.Progress)
	}
	if len(task.Tags) != 2 || task.Tags[0] != "backend" {
		t.Errorf("Tags = %v", task.Tags)
	}
	if pub.count("tasks") != 1 {
		t.Errorf("tasks publications = %d, want 1", pub.count("tasks"))
	}

	history, err := d.ListTaskHistory(task.ID)
	if err != nil {
		t.Fatalf("ListTaskHistory: %v", err)
	}
	if len(history) != 1 || history[0].Action != "created" {
		t.Errorf("history = %+v, want one created entry", history)
	}
	if history[0].UserID != mgr.ID {
		t.Errorf("history actor = %d, want %d", history[0].UserID, mgr.ID)
	}
}

func TestUpdateTaskProgressDerivesStatus(t *testing.T) {
	tests := []struct {
		name     string
		progress int
		want     models.TaskStatus
	}{
		{"start", 25, models.TaskInProgress},
		{"finish", 100, models.TaskCompleted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, _ := newTestDB(t)
			mgr, dev, p := seedTaskFixtures(t, d)
			task := mustCreateTask(t, d, p.ID, dev.ID, mgr.ID)

			updated, err := d.UpdateTaskProgress(task.ID, tt.progress, mgr.ID)
			if err != nil {
				t.Fatalf("UpdateTaskProgress: %v", err)
			}
			if updated.Status != tt.want {
				t.Errorf("Status = %s, want %s", updated.Status, tt.want)
			}
			if updated.Progress != tt.progress {
				t.Errorf("Progress = %d, want %d", updated.Progress, tt.progress)
			}
		})
	}
}

func TestAssignTaskRecordsHistory(t *testing.T) {
	d, _ := newTestDB(t)
	mgr, dev, p := seedTaskFixtures(t, d)
	other := mustCreateMember(t, d, "other", models.RoleMember)
	task := mustCreateTask(t, d, p.ID, dev.ID, mgr.ID)

	updated, err := d.AssignTask(task.ID, other.ID, mgr.ID)
	if err != nil {
		t.Fatalf("AssignTask: %v", err)
	}
	if updated.AssignedTo != other.ID {
		t.Errorf("AssignedTo = %d, want %d", updated.AssignedTo, other.ID)
	}

	history, err := d.ListTaskHistory(task.ID)
	if err != nil {
		t.Fatalf("ListTaskHistory: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("history = %d entries, want 2", len(history))
	}
	if history[1].Action != "assigned" {
		t.Errorf("second entry action = %s, want assigned", history[1].Action)
	}
}

func TestTaskComments(t *testing.T) {
	d, _ := newTestDB(t)
	mgr, dev, p := seedTaskFixtures(t, d)
	task := mustCreateTask(t, d, p.ID, dev.ID, mgr.ID)

	if _, err := d.CreateTaskComment(task.ID, mgr.ID, "first"); err != nil {
		t.Fatalf("CreateTaskComment: %v", err)
	}
	if _, err := d.CreateTaskComment(task.ID, dev.ID, "second"); err != nil {
		t.Fatalf("CreateTaskComment: %v", err)
	}

	comments, err := d.ListTaskComments(task.ID)
	if err != nil {
		t.Fatalf("ListTaskComments: %v", err)
	}
	if len(comments) != 2 {
		t.Fatalf("comments = %d, want 2", len(comments))
	}
	if comments[0].Comment != "first" || comments[1].Comment != "second" {
		t.Errorf("comments out of order: %+v", comments)
	}
}

func TestDeleteTaskRemovesHistoryAndComments(t *testing.T) {
	d, _ := newTestDB(t)
	mgr, dev, p := seedTaskFixtures(t, d)
	task := mustCreateTask(t, d, p.ID, dev.ID, mgr.ID)
	if _, err := d.CreateTaskComment(task.ID, mgr.ID, "bye"); err != nil {
		t.Fatalf("CreateTaskComment: %v", err)
	}

	if err := d.DeleteTask(task.ID); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	if _, err := d.GetTask(task.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetTask after delete = %v, want ErrNotFound", err)
	}

	history, err := d.ListTaskHistory(task.ID)
	if err != nil {
		t.Fatalf("ListTaskHistory: %v", err)
	}
	if len(history) != 0 {
		t.Errorf("history survived delete: %+v", history)
	}
	comments, err := d.ListTaskComments(task.ID)
	if err != nil {
		t.Fatalf("ListTaskComments: %v", err)
	}
	if len(comments) != 0 {
		t.Errorf("comments survived delete: %+v", comments)
	}
}

func TestMemberTaskIDsEmbedded(t *testing.T) {
	d, _ := newTestDB(t)
	mgr, dev, p := seedTaskFixtures(t, d)
	task := mustCreateTask(t, d, p.ID, dev.ID, mgr.ID)

	got, err := d.GetMember(dev.ID)
	if err != nil {
		t.Fatalf("GetMember: %v", err)
	}
	if len(got.TaskIDs) != 1 || got.TaskIDs[0] != task.ID {
		t.Errorf("TaskIDs = %v, want [%d]", got.TaskIDs, task.ID)
	}
}
