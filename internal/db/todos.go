package db

import (
	"database/sql"
	"fmt"

	"github.com/kmckee/teamdash/internal/models"
)

// CreatePartTodo creates a todo under a project part
func (db *DB) CreatePartTodo(partID int64, text string) (*models.Todo, error) {
	return db.createTodo("part_id", partID, text, "projects")
}

// CreatePersonalTodo creates a personal todo for a member
func (db *DB) CreatePersonalTodo(memberID int64, text string) (*models.Todo, error) {
	return db.createTodo("member_id", memberID, text, "users")
}

func (db *DB) createTodo(scope string, ownerID int64, text, table string) (*models.Todo, error) {
	result, err := db.Exec(
		fmt.Sprintf("INSERT INTO todos (%s, text, completed) VALUES (?, ?, 0)", scope),
		ownerID, text)
	if err != nil {
		return nil, fmt.Errorf("insert todo: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	db.changed(table)
	return db.GetTodo(id)
}

// GetTodo retrieves a todo by ID
func (db *DB) GetTodo(id int64) (*models.Todo, error) {
	t := &models.Todo{}
	err := db.QueryRow(`
		SELECT id, part_id, member_id, text, completed
		FROM todos WHERE id = ?
	`, id).Scan(&t.ID, &t.PartID, &t.MemberID, &t.Text, &t.Completed)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("todo %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// listTodos loads todos for one owner column ("part_id" or "member_id").
func (db *DB) listTodos(scope string, ownerID int64) ([]models.Todo, error) {
	rows, err := db.Query(
		fmt.Sprintf("SELECT id, part_id, member_id, text, completed FROM todos WHERE %s = ? ORDER BY id", scope),
		ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var todos []models.Todo
	for rows.Next() {
		var t models.Todo
		if err := rows.Scan(&t.ID, &t.PartID, &t.MemberID, &t.Text, &t.Completed); err != nil {
			return nil, err
		}
		todos = append(todos, t)
	}
	return todos, rows.Err()
}

// UpdateTodo updates a todo's text and completed flag, returning the
// updated row
func (db *DB) UpdateTodo(id int64, text string, completed bool) (*models.Todo, error) {
	result, err := db.Exec(`
		UPDATE todos SET text = ?, completed = ? WHERE id = ?
	`, text, completed, id)
	if err != nil {
		return nil, fmt.Errorf("update todo: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("todo %d: %w", id, ErrNotFound)
	}

	t, err := db.GetTodo(id)
	if err != nil {
		return nil, err
	}
	db.changed(todoTable(t))
	return t, nil
}

// DeleteTodo deletes a todo
func (db *DB) DeleteTodo(id int64) error {
	t, err := db.GetTodo(id)
	if err != nil {
		return err
	}

	if _, err := db.Exec("DELETE FROM todos WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	db.changed(todoTable(t))
	return nil
}

func todoTable(t *models.Todo) string {
	if t.MemberID != nil {
		return "users"
	}
	return "projects"
}
