package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/kmckee/teamdash/internal/models"
)

// CreateProject creates a new project with progress 0 and status
// active. The manager id must resolve to an existing user.
func (db *DB) CreateProject(name, description string, managerID int64, deadline time.Time) (*models.Project, error) {
	result, err := db.Exec(`
		INSERT INTO projects (name, description, manager_id, deadline, progress, status)
		VALUES (?, ?, ?, ?, 0, 'active')
	`, name, description, managerID, deadline)
	if err != nil {
		return nil, fmt.Errorf("insert project: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	db.changed("projects")
	return db.GetProject(id)
}

// GetProject retrieves a project by ID with its manager name, team
// ids, parts (and their todos) and activity log
func (db *DB) GetProject(id int64) (*models.Project, error) {
	p := &models.Project{}
	var status string
	err := db.QueryRow(`
		SELECT p.id, p.name, p.description, p.manager_id, COALESCE(u.name, 'Unknown'),
		       p.deadline, p.progress, p.status, p.created_at, p.updated_at
		FROM projects p
		LEFT JOIN users u ON u.id = p.manager_id
		WHERE p.id = ?
	`, id).Scan(&p.ID, &p.Name, &p.Description, &p.ManagerID, &p.Manager,
		&p.Deadline, &p.Progress, &status, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("project %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	p.Status = models.ProjectStatus(status)

	if err := db.loadProjectDetails(p); err != nil {
		return nil, err
	}
	return p, nil
}

// ListProjects returns all projects ordered by creation descending,
// embedding manager names, team ids, parts with todos and activity logs
func (db *DB) ListProjects() ([]models.Project, error) {
	rows, err := db.Query(`
		SELECT p.id, p.name, p.description, p.manager_id, COALESCE(u.name, 'Unknown'),
		       p.deadline, p.progress, p.status, p.created_at, p.updated_at
		FROM projects p
		LEFT JOIN users u ON u.id = p.manager_id
		ORDER BY p.created_at DESC, p.id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		var p models.Project
		var status string
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.ManagerID, &p.Manager,
			&p.Deadline, &p.Progress, &status, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		p.Status = models.ProjectStatus(status)
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range projects {
		if err := db.loadProjectDetails(&projects[i]); err != nil {
			return nil, err
		}
	}
	return projects, nil
}

func (db *DB) loadProjectDetails(p *models.Project) error {
	teamRows, err := db.Query("SELECT id FROM teams WHERE project_id = ? ORDER BY id", p.ID)
	if err != nil {
		return err
	}
	defer teamRows.Close()

	p.TeamIDs = nil
	for teamRows.Next() {
		var id int64
		if err := teamRows.Scan(&id); err != nil {
			return err
		}
		p.TeamIDs = append(p.TeamIDs, id)
	}
	if err := teamRows.Err(); err != nil {
		return err
	}

	parts, err := db.ListProjectParts(p.ID)
	if err != nil {
		return err
	}
	p.Parts = parts

	logRows, err := db.Query(`
		SELECT date, message FROM project_activity
		WHERE project_id = ? ORDER BY date DESC, id DESC
	`, p.ID)
	if err != nil {
		return err
	}
	defer logRows.Close()

	p.ActivityLog = nil
	for logRows.Next() {
		var e models.ActivityEntry
		if err := logRows.Scan(&e.Date, &e.Message); err != nil {
			return err
		}
		p.ActivityLog = append(p.ActivityLog, e)
	}
	return logRows.Err()
}

// UpdateProject updates a project and returns the updated row
func (db *DB) UpdateProject(id int64, name, description string, managerID int64, deadline time.Time, progress int, status models.ProjectStatus) (*models.Project, error) {
	result, err := db.Exec(`
		UPDATE projects
		SET name = ?, description = ?, manager_id = ?, deadline = ?, progress = ?, status = ?,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, name, description, managerID, deadline, progress, string(status), id)
	if err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("project %d: %w", id, ErrNotFound)
	}

	db.changed("projects")
	return db.GetProject(id)
}

// DeleteProject deletes a project and all its parts, todos and tasks
func (db *DB) DeleteProject(id int64) error {
	result, err := db.Exec("DELETE FROM projects WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("project %d: %w", id, ErrNotFound)
	}
	db.changed("projects")
	return nil
}

// AppendProjectActivity appends one line to a project's activity log.
// The log is informational and append-only.
func (db *DB) AppendProjectActivity(projectID int64, message string) error {
	_, err := db.Exec(`
		INSERT INTO project_activity (project_id, message) VALUES (?, ?)
	`, projectID, message)
	if err != nil {
		return fmt.Errorf("append activity: %w", err)
	}
	db.changed("projects")
	return nil
}

// ProjectCount returns the number of projects
func (db *DB) ProjectCount() (int, error) {
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM projects").Scan(&count)
	return count, err
}
