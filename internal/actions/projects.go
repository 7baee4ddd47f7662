package actions

import (
	"log/slog"

	"github.com/kmckee/teamdash/internal/i18n"
	"github.com/kmckee/teamdash/internal/models"
	"github.com/kmckee/teamdash/internal/store"
)

// CreateProject validates the form input, resolves a manager and
// creates the project. A missing manager id falls back to the first
// member matching the current UI role, then to the first member with
// role manager; with no candidate the action fails fast before any
// round trip.
func (a *Actions) CreateProject(in ProjectInput) error {
	if errs := in.Validate(a.now()); errs != nil {
		return errs
	}

	return a.run("create project", "Project created", func() ([]store.Msg, error) {
		managerID, err := a.resolveManager(in.ManagerID)
		if err != nil {
			return nil, err
		}

		p, err := a.gw.CreateProject(in.Name, in.Description, managerID, in.Deadline)
		if err != nil {
			return nil, err
		}

		// First activity line. Best effort like the task history
		// side write; a failed append never fails the create.
		entry := i18n.Printer(a.store.Snapshot().Language).
			Sprintf("Project %q created by %s", p.Name, a.memberName(a.actor()))
		if err := a.gw.AppendProjectActivity(p.ID, entry); err != nil {
			a.logger.Warn("activity append failed", slog.Int64("project", p.ID), slog.Any("err", err))
		}
		return []store.Msg{store.AddProject{Project: *p}}, nil
	})
}

func (a *Actions) resolveManager(managerID int64) (int64, error) {
	if managerID != 0 {
		return managerID, nil
	}
	snap := a.store.Snapshot()
	for _, m := range snap.Members {
		if m.Role == snap.Role {
			return m.ID, nil
		}
	}
	for _, m := range snap.Members {
		if m.Role == models.RoleManager {
			return m.ID, nil
		}
	}
	return 0, errNoManager
}

// UpdateProject rewrites a project's fields and replaces it in the
// store.
func (a *Actions) UpdateProject(p models.Project) error {
	return a.run("update project", "Project updated", func() ([]store.Msg, error) {
		updated, err := a.gw.UpdateProject(p.ID, p.Name, p.Description, p.ManagerID, p.Deadline, p.Progress, p.Status)
		if err != nil {
			return nil, err
		}
		return []store.Msg{store.UpdateProject{Project: *updated}}, nil
	})
}

// DeleteProject removes a project and everything hanging off it.
func (a *Actions) DeleteProject(id int64) error {
	return a.run("delete project", "Project deleted", func() ([]store.Msg, error) {
		if err := a.gw.DeleteProject(id); err != nil {
			return nil, err
		}
		return []store.Msg{store.DeleteProject{ID: id}}, nil
	})
}

// LogProjectActivity appends an informational line to a project's
// activity log and refreshes the project row.
func (a *Actions) LogProjectActivity(projectID int64, message string) error {
	return a.run("log activity", "", func() ([]store.Msg, error) {
		if err := a.gw.AppendProjectActivity(projectID, message); err != nil {
			return nil, err
		}
		return nil, nil
	})
}

// AddProjectPart creates a part under a project.
func (a *Actions) AddProjectPart(projectID int64, in PartInput) error {
	if errs := in.Validate(); errs != nil {
		return errs
	}

	return a.run("add part", "Part added", func() ([]store.Msg, error) {
		part, err := a.gw.CreateProjectPart(projectID, in.Name, in.Description, in.Weight, in.Progress)
		if err != nil {
			return nil, err
		}
		return []store.Msg{store.AddProjectPart{ProjectID: projectID, Part: *part}}, nil
	})
}

// UpdateProjectPart rewrites a part's fields.
func (a *Actions) UpdateProjectPart(projectID int64, part models.ProjectPart) error {
	return a.run("update part", "Part updated", func() ([]store.Msg, error) {
		updated, err := a.gw.UpdateProjectPart(part.ID, part.Name, part.Description, part.Weight, part.Progress)
		if err != nil {
			return nil, err
		}
		return []store.Msg{store.UpdateProjectPart{ProjectID: projectID, Part: *updated}}, nil
	})
}

// DeleteProjectPart removes a part and its todos.
func (a *Actions) DeleteProjectPart(projectID, partID int64) error {
	return a.run("delete part", "Part deleted", func() ([]store.Msg, error) {
		if err := a.gw.DeleteProjectPart(partID); err != nil {
			return nil, err
		}
		return []store.Msg{store.DeleteProjectPart{ProjectID: projectID, PartID: partID}}, nil
	})
}

// AddPartTodo appends a checklist item to a project part. The change
// listener refreshes the projects collection afterwards, so no
// nested mutation is dispatched here.
func (a *Actions) AddPartTodo(partID int64, text string) error {
	return a.run("add part todo", "Todo added", func() ([]store.Msg, error) {
		if _, err := a.gw.CreatePartTodo(partID, text); err != nil {
			return nil, err
		}
		return nil, nil
	})
}

// TogglePartTodo flips a part todo's completed flag.
func (a *Actions) TogglePartTodo(todo models.Todo) error {
	return a.run("toggle part todo", "Todo updated", func() ([]store.Msg, error) {
		if _, err := a.gw.UpdateTodo(todo.ID, todo.Text, !todo.Completed); err != nil {
			return nil, err
		}
		return nil, nil
	})
}

// DeletePartTodo removes a part todo.
func (a *Actions) DeletePartTodo(todoID int64) error {
	return a.run("delete part todo", "Todo deleted", func() ([]store.Msg, error) {
		if err := a.gw.DeleteTodo(todoID); err != nil {
			return nil, err
		}
		return nil, nil
	})
}
