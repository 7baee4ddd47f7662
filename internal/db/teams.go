package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/kmckee/teamdash/internal/models"
)

// CreateTeam creates a new team with progress 0
func (db *DB) CreateTeam(name string, leadID int64, projectID *int64, deadline time.Time) (*models.Team, error) {
	result, err := db.Exec(`
		INSERT INTO teams (name, lead_id, project_id, progress, deadline) VALUES (?, ?, ?, 0, ?)
	`, name, leadID, projectID, deadline)
	if err != nil {
		return nil, fmt.Errorf("insert team: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	db.changed("teams")
	return db.GetTeam(id)
}

// GetTeam retrieves a team by ID with its lead name and member ids
func (db *DB) GetTeam(id int64) (*models.Team, error) {
	t := &models.Team{}
	err := db.QueryRow(`
		SELECT t.id, t.name, t.lead_id, COALESCE(u.name, 'Unknown'), t.project_id, t.progress, t.deadline, t.created_at
		FROM teams t
		LEFT JOIN users u ON u.id = t.lead_id
		WHERE t.id = ?
	`, id).Scan(&t.ID, &t.Name, &t.LeadID, &t.Lead, &t.ProjectID, &t.Progress, &t.Deadline, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("team %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	if err := db.loadTeamMembers(t); err != nil {
		return nil, err
	}
	return t, nil
}

// ListTeams returns all teams ordered by creation descending, with
// lead names and member ids embedded
func (db *DB) ListTeams() ([]models.Team, error) {
	rows, err := db.Query(`
		SELECT t.id, t.name, t.lead_id, COALESCE(u.name, 'Unknown'), t.project_id, t.progress, t.deadline, t.created_at
		FROM teams t
		LEFT JOIN users u ON u.id = t.lead_id
		ORDER BY t.created_at DESC, t.id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var teams []models.Team
	for rows.Next() {
		var t models.Team
		if err := rows.Scan(&t.ID, &t.Name, &t.LeadID, &t.Lead, &t.ProjectID, &t.Progress, &t.Deadline, &t.CreatedAt); err != nil {
			return nil, err
		}
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range teams {
		if err := db.loadTeamMembers(&teams[i]); err != nil {
			return nil, err
		}
	}
	return teams, nil
}

func (db *DB) loadTeamMembers(t *models.Team) error {
	rows, err := db.Query("SELECT id FROM users WHERE team_id = ? ORDER BY id", t.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	t.MemberIDs = nil
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return err
		}
		t.MemberIDs = append(t.MemberIDs, id)
	}
	return rows.Err()
}

// UpdateTeam updates a team and returns the updated row
func (db *DB) UpdateTeam(id int64, name string, leadID int64, projectID *int64, progress int, deadline time.Time) (*models.Team, error) {
	result, err := db.Exec(`
		UPDATE teams SET name = ?, lead_id = ?, project_id = ?, progress = ?, deadline = ?
		WHERE id = ?
	`, name, leadID, projectID, progress, deadline, id)
	if err != nil {
		return nil, fmt.Errorf("update team: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("team %d: %w", id, ErrNotFound)
	}

	db.changed("teams")
	return db.GetTeam(id)
}

// DeleteTeam deletes a team (members keep existing via team_id NULL)
func (db *DB) DeleteTeam(id int64) error {
	result, err := db.Exec("DELETE FROM teams WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete team: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("team %d: %w", id, ErrNotFound)
	}
	db.changed("teams")
	return nil
}
