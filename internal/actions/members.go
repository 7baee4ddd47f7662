package actions

import (
	"github.com/kmckee/teamdash/internal/models"
	"github.com/kmckee/teamdash/internal/store"
)

// CreateMember validates the form input and creates the member.
func (a *Actions) CreateMember(in MemberInput) error {
	if errs := in.Validate(); errs != nil {
		return errs
	}

	return a.run("create member", "Member added", func() ([]store.Msg, error) {
		m, err := a.gw.CreateMember(in.Name, in.Email, in.Role, in.TeamID)
		if err != nil {
			return nil, err
		}
		return []store.Msg{store.AddMember{Member: *m}}, nil
	})
}

// UpdateMember rewrites a member's fields and replaces them in the
// store.
func (a *Actions) UpdateMember(m models.Member) error {
	return a.run("update member", "Member updated", func() ([]store.Msg, error) {
		updated, err := a.gw.UpdateMember(m.ID, m.Name, m.Email, m.Role, m.TeamID)
		if err != nil {
			return nil, err
		}
		return []store.Msg{store.UpdateMember{Member: *updated}}, nil
	})
}

// DeleteMember removes a member.
func (a *Actions) DeleteMember(id int64) error {
	return a.run("delete member", "Member removed", func() ([]store.Msg, error) {
		if err := a.gw.DeleteMember(id); err != nil {
			return nil, err
		}
		return []store.Msg{store.DeleteMember{ID: id}}, nil
	})
}

// AddPersonalTodo appends a todo to a member's personal list.
func (a *Actions) AddPersonalTodo(memberID int64, text string) error {
	return a.run("add todo", "Todo added", func() ([]store.Msg, error) {
		todo, err := a.gw.CreatePersonalTodo(memberID, text)
		if err != nil {
			return nil, err
		}
		return []store.Msg{store.AddPersonalTodo{MemberID: memberID, Todo: *todo}}, nil
	})
}

// TogglePersonalTodo flips a personal todo's completed flag.
func (a *Actions) TogglePersonalTodo(memberID int64, todo models.Todo) error {
	return a.run("toggle todo", "Todo updated", func() ([]store.Msg, error) {
		updated, err := a.gw.UpdateTodo(todo.ID, todo.Text, !todo.Completed)
		if err != nil {
			return nil, err
		}
		return []store.Msg{store.UpdatePersonalTodo{
			MemberID:  memberID,
			TodoID:    todo.ID,
			Text:      &updated.Text,
			Completed: &updated.Completed,
		}}, nil
	})
}

// DeletePersonalTodo removes a personal todo.
func (a *Actions) DeletePersonalTodo(memberID, todoID int64) error {
	return a.run("delete todo", "Todo deleted", func() ([]store.Msg, error) {
		if err := a.gw.DeleteTodo(todoID); err != nil {
			return nil, err
		}
		return []store.Msg{store.DeletePersonalTodo{MemberID: memberID, TodoID: todoID}}, nil
	})
}
