package db

import (
	"database/sql"
	"fmt"

	"github.com/kmckee/teamdash/internal/models"
)

// CreateMember creates a new member
func (db *DB) CreateMember(name, email string, role models.Role, teamID *int64) (*models.Member, error) {
	result, err := db.Exec(`
		INSERT INTO users (name, email, role, team_id) VALUES (?, ?, ?, ?)
	`, name, email, string(role), teamID)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	db.changed("users")
	return db.GetMember(id)
}

// GetMember retrieves a member by ID with assigned task ids and
// personal todos
func (db *DB) GetMember(id int64) (*models.Member, error) {
	m := &models.Member{}
	var role string
	err := db.QueryRow(`
		SELECT id, name, email, role, team_id, created_at
		FROM users WHERE id = ?
	`, id).Scan(&m.ID, &m.Name, &m.Email, &role, &m.TeamID, &m.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	m.Role = models.Role(role)

	if err := db.loadMemberDetails(m); err != nil {
		return nil, err
	}
	return m, nil
}

// ListMembers returns all members ordered by creation descending,
// with assigned task ids and personal todos embedded
func (db *DB) ListMembers() ([]models.Member, error) {
	rows, err := db.Query(`
		SELECT id, name, email, role, team_id, created_at
		FROM users ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []models.Member
	for rows.Next() {
		var m models.Member
		var role string
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &role, &m.TeamID, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.Role = models.Role(role)
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range members {
		if err := db.loadMemberDetails(&members[i]); err != nil {
			return nil, err
		}
	}
	return members, nil
}

func (db *DB) loadMemberDetails(m *models.Member) error {
	rows, err := db.Query("SELECT id FROM tasks WHERE assigned_to = ? ORDER BY created_at DESC, id DESC", m.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	m.TaskIDs = nil
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return err
		}
		m.TaskIDs = append(m.TaskIDs, id)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	todos, err := db.listTodos("member_id", m.ID)
	if err != nil {
		return err
	}
	m.PersonalTodos = todos
	return nil
}

// UpdateMember updates a member and returns the updated row
func (db *DB) UpdateMember(id int64, name, email string, role models.Role, teamID *int64) (*models.Member, error) {
	result, err := db.Exec(`
		UPDATE users SET name = ?, email = ?, role = ?, team_id = ? WHERE id = ?
	`, name, email, string(role), teamID, id)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
	}

	db.changed("users")
	return db.GetMember(id)
}

// DeleteMember deletes a member
func (db *DB) DeleteMember(id int64) error {
	result, err := db.Exec("DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	db.changed("users")
	return nil
}

// SetMemberTeam assigns a member to a team, or unassigns when teamID
// is nil. Team rosters are derived from this column.
func (db *DB) SetMemberTeam(memberID int64, teamID *int64) error {
	result, err := db.Exec("UPDATE users SET team_id = ? WHERE id = ?", teamID, memberID)
	if err != nil {
		return fmt.Errorf("set team: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("user %d: %w", memberID, ErrNotFound)
	}
	db.changed("users")
	// Rosters surface inside team rows too.
	db.changed("teams")
	return nil
}

// MemberCount returns the number of members
func (db *DB) MemberCount() (int, error) {
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count)
	return count, err
}
