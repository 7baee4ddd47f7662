package db

import (
	"database/sql"
	"fmt"

	"github.com/kmckee/teamdash/internal/models"
)

// CreateProjectPart creates a part under a project
func (db *DB) CreateProjectPart(projectID int64, name, description string, weight, progress int) (*models.ProjectPart, error) {
	result, err := db.Exec(`
		INSERT INTO project_parts (project_id, name, description, weight, progress)
		VALUES (?, ?, ?, ?, ?)
	`, projectID, name, description, weight, progress)
	if err != nil {
		return nil, fmt.Errorf("insert part: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	db.changed("projects")
	return db.GetProjectPart(id)
}

// GetProjectPart retrieves a part by ID with its todos
func (db *DB) GetProjectPart(id int64) (*models.ProjectPart, error) {
	p := &models.ProjectPart{}
	err := db.QueryRow(`
		SELECT id, project_id, name, description, weight, progress
		FROM project_parts WHERE id = ?
	`, id).Scan(&p.ID, &p.ProjectID, &p.Name, &p.Description, &p.Weight, &p.Progress)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("part %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	todos, err := db.listTodos("part_id", p.ID)
	if err != nil {
		return nil, err
	}
	p.Todos = todos
	return p, nil
}

// ListProjectParts returns all parts of a project with their todos
func (db *DB) ListProjectParts(projectID int64) ([]models.ProjectPart, error) {
	rows, err := db.Query(`
		SELECT id, project_id, name, description, weight, progress
		FROM project_parts WHERE project_id = ? ORDER BY id
	`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var parts []models.ProjectPart
	for rows.Next() {
		var p models.ProjectPart
		if err := rows.Scan(&p.ID, &p.ProjectID, &p.Name, &p.Description, &p.Weight, &p.Progress); err != nil {
			return nil, err
		}
		parts = append(parts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range parts {
		todos, err := db.listTodos("part_id", parts[i].ID)
		if err != nil {
			return nil, err
		}
		parts[i].Todos = todos
	}
	return parts, nil
}

// UpdateProjectPart updates a part and returns the updated row
func (db *DB) UpdateProjectPart(id int64, name, description string, weight, progress int) (*models.ProjectPart, error) {
	result, err := db.Exec(`
		UPDATE project_parts SET name = ?, description = ?, weight = ?, progress = ?
		WHERE id = ?
	`, name, description, weight, progress, id)
	if err != nil {
		return nil, fmt.Errorf("update part: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("part %d: %w", id, ErrNotFound)
	}

	db.changed("projects")
	return db.GetProjectPart(id)
}

// DeleteProjectPart deletes a part and its todos
func (db *DB) DeleteProjectPart(id int64) error {
	result, err := db.Exec("DELETE FROM project_parts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete part: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("part %d: %w", id, ErrNotFound)
	}
	db.changed("projects")
	return nil
}
