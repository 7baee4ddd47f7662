package actions

import (
	"github.com/kmckee/teamdash/internal/models"
	"github.com/kmckee/teamdash/internal/store"
)

// progressStep is the increment the UI moves task progress by.
const progressStep = 25

// CreateTask validates the assignment form and creates the task. The
// new task starts pending with progress 0; a history entry is written
// best-effort by the gateway.
func (a *Actions) CreateTask(in TaskInput) error {
	if errs := in.Validate(a.now()); errs != nil {
		return errs
	}

	return a.run("create task", "Task assigned", func() ([]store.Msg, error) {
		t := &models.Task{
			Title:          in.Title,
			Description:    in.Description,
			ProjectID:      in.ProjectID,
			PartID:         in.PartID,
			AssignedTo:     in.AssignedTo,
			AssignedBy:     a.actor(),
			Priority:       in.Priority,
			Category:       in.Category,
			Deadline:       in.Deadline,
			EstimatedHours: in.EstimatedHours,
			Tags:           in.Tags,
		}
		created, err := a.gw.CreateTask(t, a.actor())
		if err != nil {
			return nil, err
		}
		return []store.Msg{store.AddTask{Task: *created}}, nil
	})
}

// UpdateTask validates the form and rewrites a task's fields, keeping
// its status and progress.
func (a *Actions) UpdateTask(id int64, in TaskInput) error {
	if errs := in.Validate(a.now()); errs != nil {
		return errs
	}

	return a.run("update task", "Task updated", func() ([]store.Msg, error) {
		existing, ok := a.store.Snapshot().TaskByID(id)
		if !ok {
			return nil, errUnknownTask
		}

		t := existing
		t.Title = in.Title
		t.Description = in.Description
		t.ProjectID = in.ProjectID
		t.PartID = in.PartID
		t.AssignedTo = in.AssignedTo
		t.Priority = in.Priority
		t.Category = in.Category
		t.Deadline = in.Deadline
		t.EstimatedHours = in.EstimatedHours
		t.Tags = in.Tags

		updated, err := a.gw.UpdateTask(&t, a.actor())
		if err != nil {
			return nil, err
		}
		return []store.Msg{store.UpdateTask{Task: *updated}}, nil
	})
}

// AssignTask hands a task to another member.
func (a *Actions) AssignTask(taskID, memberID int64) error {
	return a.run("assign task", "Task assigned", func() ([]store.Msg, error) {
		updated, err := a.gw.AssignTask(taskID, memberID, a.actor())
		if err != nil {
			return nil, err
		}
		return []store.Msg{store.UpdateTask{Task: *updated}}, nil
	})
}

// UpdateTaskProgress sets a task's progress to the given value. The
// UI steps by progressStep; the store clamps to [0,100] either way.
func (a *Actions) UpdateTaskProgress(taskID int64, progress int) error {
	return a.run("update progress", "Progress updated", func() ([]store.Msg, error) {
		updated, err := a.gw.UpdateTaskProgress(taskID, progress, a.actor())
		if err != nil {
			return nil, err
		}
		return []store.Msg{store.UpdateTask{Task: *updated}}, nil
	})
}

// StepTaskProgress moves a task's progress one UI increment in the
// given direction (+1 or -1).
func (a *Actions) StepTaskProgress(taskID int64, direction int) error {
	t, ok := a.store.Snapshot().TaskByID(taskID)
	if !ok {
		return errUnknownTask
	}
	next := t.Progress + direction*progressStep
	if next < 0 {
		next = 0
	}
	if next > 100 {
		next = 100
	}
	return a.UpdateTaskProgress(taskID, next)
}

// DeleteTask removes a task along with its history and comments.
func (a *Actions) DeleteTask(id int64) error {
	return a.run("delete task", "Task deleted", func() ([]store.Msg, error) {
		if err := a.gw.DeleteTask(id); err != nil {
			return nil, err
		}
		return []store.Msg{store.DeleteTask{ID: id}}, nil
	})
}

// CommentTask adds a comment on a task attributed to the current
// actor.
func (a *Actions) CommentTask(taskID int64, comment string) error {
	return a.run("comment task", "Comment added", func() ([]store.Msg, error) {
		if _, err := a.gw.CreateTaskComment(taskID, a.actor(), comment); err != nil {
			return nil, err
		}
		return nil, nil
	})
}

// TaskComments lists a task's comments, oldest first.
func (a *Actions) TaskComments(taskID int64) ([]models.TaskComment, error) {
	return a.gw.ListTaskComments(taskID)
}

// TaskHistory lists a task's history, oldest first. Entries may lag
// the task row because history writes are best-effort.
func (a *Actions) TaskHistory(taskID int64) ([]models.TaskHistoryEntry, error) {
	return a.gw.ListTaskHistory(taskID)
}
