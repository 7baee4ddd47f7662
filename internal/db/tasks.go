package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/kmckee/teamdash/internal/models"
)

// CreateTask persists a new task with status pending and progress 0,
// then appends a "created" history entry as a best-effort secondary
// write attributed to actorID.
func (db *DB) CreateTask(t *models.Task, actorID int64) (*models.Task, error) {
	tags, _ := json.Marshal(t.Tags)
	if t.Tags == nil {
		tags = []byte("[]")
	}

	result, err := db.Exec(`
		INSERT INTO tasks
			(title, description, project_id, part_id, assigned_to, assigned_by,
			 priority, category, deadline, estimated_hours, tags, status, progress)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 'pending', 0)
	`, t.Title, t.Description, t.ProjectID, t.PartID, t.AssignedTo, t.AssignedBy,
		string(t.Priority), string(t.Category), t.Deadline, t.EstimatedHours, string(tags))
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	db.appendTaskHistory(id, actorID, "created", "", t.Title)
	db.changed("tasks")
	// Assignments surface inside member rows too.
	db.changed("users")
	return db.GetTask(id)
}

// GetTask retrieves a task by ID
func (db *DB) GetTask(id int64) (*models.Task, error) {
	t := &models.Task{}
	var priority, category, status, tags string
	err := db.QueryRow(`
		SELECT id, title, description, project_id, part_id, assigned_to, assigned_by,
		       priority, category, deadline, estimated_hours, tags, status, progress,
		       created_at, updated_at
		FROM tasks WHERE id = ?
	`, id).Scan(&t.ID, &t.Title, &t.Description, &t.ProjectID, &t.PartID,
		&t.AssignedTo, &t.AssignedBy, &priority, &category, &t.Deadline,
		&t.EstimatedHours, &tags, &status, &t.Progress, &t.CreatedAt, &t.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("task %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	t.Priority = models.TaskPriority(priority)
	t.Category = models.TaskCategory(category)
	t.Status = models.TaskStatus(status)
	if err := json.Unmarshal([]byte(tags), &t.Tags); err != nil {
		t.Tags = nil
	}
	return t, nil
}

// ListTasks returns all tasks ordered by creation descending
func (db *DB) ListTasks() ([]models.Task, error) {
	rows, err := db.Query(`
		SELECT id, title, description, project_id, part_id, assigned_to, assigned_by,
		       priority, category, deadline, estimated_hours, tags, status, progress,
		       created_at, updated_at
		FROM tasks ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		var t models.Task
		var priority, category, status, tags string
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.ProjectID, &t.PartID,
			&t.AssignedTo, &t.AssignedBy, &priority, &category, &t.Deadline,
			&t.EstimatedHours, &tags, &status, &t.Progress, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		t.Priority = models.TaskPriority(priority)
		t.Category = models.TaskCategory(category)
		t.Status = models.TaskStatus(status)
		if err := json.Unmarshal([]byte(tags), &t.Tags); err != nil {
			t.Tags = nil
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// UpdateTask rewrites a task's writable fields and returns the full
// updated row, appending an "updated" history entry best-effort.
func (db *DB) UpdateTask(t *models.Task, actorID int64) (*models.Task, error) {
	old, err := db.GetTask(t.ID)
	if err != nil {
		return nil, err
	}

	tags, _ := json.Marshal(t.Tags)
	if t.Tags == nil {
		tags = []byte("[]")
	}

	_, err = db.Exec(`
		UPDATE tasks
		SET title = ?, description = ?, project_id = ?, part_id = ?, assigned_to = ?,
		    priority = ?, category = ?, deadline = ?, estimated_hours = ?, tags = ?,
		    status = ?, progress = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, t.Title, t.Description, t.ProjectID, t.PartID, t.AssignedTo,
		string(t.Priority), string(t.Category), t.Deadline, t.EstimatedHours,
		string(tags), string(t.Status), t.Progress, t.ID)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}

	db.appendTaskHistory(t.ID, actorID, "updated", old.Title, t.Title)
	db.changed("tasks")
	db.changed("users")
	return db.GetTask(t.ID)
}

// AssignTask reassigns a task to another member and returns the
// updated row
func (db *DB) AssignTask(id, memberID, actorID int64) (*models.Task, error) {
	old, err := db.GetTask(id)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		UPDATE tasks SET assigned_to = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
	`, memberID, id)
	if err != nil {
		return nil, fmt.Errorf("assign task: %w", err)
	}

	db.appendTaskHistory(id, actorID, "assigned",
		strconv.FormatInt(old.AssignedTo, 10), strconv.FormatInt(memberID, 10))
	db.changed("tasks")
	db.changed("users")
	return db.GetTask(id)
}

// UpdateTaskProgress sets a task's progress and derives its status:
// 100 completes the task, anything above zero moves it in progress.
func (db *DB) UpdateTaskProgress(id int64, progress int, actorID int64) (*models.Task, error) {
	old, err := db.GetTask(id)
	if err != nil {
		return nil, err
	}

	status := old.Status
	switch {
	case progress >= 100:
		status = models.TaskCompleted
	case progress > 0 && status != models.TaskCancelled:
		status = models.TaskInProgress
	}

	_, err = db.Exec(`
		UPDATE tasks SET progress = ?, status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
	`, progress, string(status), id)
	if err != nil {
		return nil, fmt.Errorf("update progress: %w", err)
	}

	db.appendTaskHistory(id, actorID, "progress",
		strconv.Itoa(old.Progress), strconv.Itoa(progress))
	db.changed("tasks")
	return db.GetTask(id)
}

// DeleteTask deletes a task and its history and comments
func (db *DB) DeleteTask(id int64) error {
	result, err := db.Exec("DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("task %d: %w", id, ErrNotFound)
	}
	db.changed("tasks")
	db.changed("users")
	return nil
}

// appendTaskHistory records a task change. The write is best-effort:
// a failure is logged and never fails the primary operation, so
// history entries may be missing under partial failure.
func (db *DB) appendTaskHistory(taskID, userID int64, action, oldValue, newValue string) {
	_, err := db.Exec(`
		INSERT INTO task_history (task_id, user_id, action, old_value, new_value)
		VALUES (?, ?, ?, ?, ?)
	`, taskID, userID, action, oldValue, newValue)
	if err != nil {
		db.logger.Warn("task history write failed",
			slog.Int64("task_id", taskID),
			slog.String("action", action),
			slog.Any("err", err))
	}
}

// ListTaskHistory returns a task's history, oldest first
func (db *DB) ListTaskHistory(taskID int64) ([]models.TaskHistoryEntry, error) {
	rows, err := db.Query(`
		SELECT id, task_id, user_id, action, old_value, new_value, created_at
		FROM task_history WHERE task_id = ? ORDER BY created_at ASC, id ASC
	`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.TaskHistoryEntry
	for rows.Next() {
		var e models.TaskHistoryEntry
		if err := rows.Scan(&e.ID, &e.TaskID, &e.UserID, &e.Action, &e.OldValue, &e.NewValue, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// CreateTaskComment adds a comment to a task
func (db *DB) CreateTaskComment(taskID, userID int64, comment string) (*models.TaskComment, error) {
	result, err := db.Exec(`
		INSERT INTO task_comments (task_id, user_id, comment) VALUES (?, ?, ?)
	`, taskID, userID, comment)
	if err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	c := &models.TaskComment{}
	err = db.QueryRow(`
		SELECT id, task_id, user_id, comment, created_at
		FROM task_comments WHERE id = ?
	`, id).Scan(&c.ID, &c.TaskID, &c.UserID, &c.Comment, &c.CreatedAt)
	if err != nil {
		return nil, err
	}

	db.changed("tasks")
	return c, nil
}

// ListTaskComments returns a task's comments, oldest first
func (db *DB) ListTaskComments(taskID int64) ([]models.TaskComment, error) {
	rows, err := db.Query(`
		SELECT id, task_id, user_id, comment, created_at
		FROM task_comments WHERE task_id = ? ORDER BY created_at ASC, id ASC
	`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []models.TaskComment
	for rows.Next() {
		var c models.TaskComment
		if err := rows.Scan(&c.ID, &c.TaskID, &c.UserID, &c.Comment, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}
