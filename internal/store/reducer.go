package store

import "github.com/kmckee/teamdash/internal/models"

// Apply produces the next snapshot from the current one and a message.
// It is synchronous, side-effect free, and total: unrecognized messages
// return the snapshot unchanged. Progress values are clamped to
// [0,100] here, once, so no view ever has to.
func Apply(s State, msg Msg) State {
	switch msg := msg.(type) {
	case SetTheme:
		s.Theme = msg.Theme
	case SetLanguage:
		s.Language = msg.Language
	case SetRole:
		s.Role = msg.Role

	case SetProjects:
		s.Projects = clampEach(msg.Projects, clampProject)
	case SetTeams:
		s.Teams = clampEach(msg.Teams, clampTeam)
	case SetMembers:
		s.Members = append([]models.Member(nil), msg.Members...)
	case SetTasks:
		s.Tasks = clampEach(msg.Tasks, clampTask)

	case AddProject:
		s.Projects = upsert(s.Projects, clampProject(msg.Project), projectID)
	case UpdateProject:
		s.Projects = replace(s.Projects, clampProject(msg.Project), projectID)
	case DeleteProject:
		s.Projects = remove(s.Projects, msg.ID, projectID)

	case AddTeam:
		s.Teams = upsert(s.Teams, clampTeam(msg.Team), teamID)
	case UpdateTeam:
		s.Teams = replace(s.Teams, clampTeam(msg.Team), teamID)
	case DeleteTeam:
		s.Teams = remove(s.Teams, msg.ID, teamID)

	case AddMember:
		s.Members = upsert(s.Members, msg.Member, memberID)
	case UpdateMember:
		s.Members = replace(s.Members, msg.Member, memberID)
	case DeleteMember:
		s.Members = remove(s.Members, msg.ID, memberID)

	case AddTask:
		s.Tasks = upsert(s.Tasks, clampTask(msg.Task), taskID)
	case UpdateTask:
		s.Tasks = replace(s.Tasks, clampTask(msg.Task), taskID)
	case DeleteTask:
		s.Tasks = remove(s.Tasks, msg.ID, taskID)

	case AddProjectPart:
		s.Projects = withProject(s.Projects, msg.ProjectID, func(p models.Project) models.Project {
			p.Parts = upsert(p.Parts, clampPart(msg.Part), partID)
			return p
		})
	case UpdateProjectPart:
		s.Projects = withProject(s.Projects, msg.ProjectID, func(p models.Project) models.Project {
			p.Parts = replace(p.Parts, clampPart(msg.Part), partID)
			return p
		})
	case DeleteProjectPart:
		s.Projects = withProject(s.Projects, msg.ProjectID, func(p models.Project) models.Project {
			p.Parts = remove(p.Parts, msg.PartID, partID)
			return p
		})

	case AddPersonalTodo:
		s.Members = withMember(s.Members, msg.MemberID, func(m models.Member) models.Member {
			m.PersonalTodos = upsert(m.PersonalTodos, msg.Todo, todoID)
			return m
		})
	case UpdatePersonalTodo:
		s.Members = withMember(s.Members, msg.MemberID, func(m models.Member) models.Member {
			todos := append([]models.Todo(nil), m.PersonalTodos...)
			for i := range todos {
				if todos[i].ID != msg.TodoID {
					continue
				}
				if msg.Text != nil {
					todos[i].Text = *msg.Text
				}
				if msg.Completed != nil {
					todos[i].Completed = *msg.Completed
				}
			}
			m.PersonalTodos = todos
			return m
		})
	case DeletePersonalTodo:
		s.Members = withMember(s.Members, msg.MemberID, func(m models.Member) models.Member {
			m.PersonalTodos = remove(m.PersonalTodos, msg.TodoID, todoID)
			return m
		})

	case SetLoading:
		s.Loading = msg.Loading
	case SetConnected:
		s.Connected = msg.Connected
	case SetError:
		s.Err = msg.Err

	case AddNotification:
		s.Notifications = append(append([]models.Notification(nil), s.Notifications...), msg.Notification)
	case RemoveNotification:
		s.Notifications = remove(s.Notifications, msg.ID, notificationID)
	}
	return s
}

func projectID(p models.Project) int64           { return p.ID }
func teamID(t models.Team) int64                 { return t.ID }
func memberID(m models.Member) int64             { return m.ID }
func taskID(t models.Task) int64                 { return t.ID }
func partID(p models.ProjectPart) int64          { return p.ID }
func todoID(t models.Todo) int64                 { return t.ID }
func notificationID(n models.Notification) int64 { return n.ID }

// upsert appends item, replacing an existing element with the same id
// so a collection never holds duplicate ids.
func upsert[T any](list []T, item T, idOf func(T) int64) []T {
	out := append([]T(nil), list...)
	for i := range out {
		if idOf(out[i]) == idOf(item) {
			out[i] = item
			return out
		}
	}
	return append(out, item)
}

// replace swaps the element matching item's id; absent ids are no-ops.
func replace[T any](list []T, item T, idOf func(T) int64) []T {
	for i := range list {
		if idOf(list[i]) != idOf(item) {
			continue
		}
		out := append([]T(nil), list...)
		out[i] = item
		return out
	}
	return list
}

// remove filters out the element with the given id.
func remove[T any](list []T, id int64, idOf func(T) int64) []T {
	for i := range list {
		if idOf(list[i]) != id {
			continue
		}
		out := make([]T, 0, len(list)-1)
		out = append(out, list[:i]...)
		return append(out, list[i+1:]...)
	}
	return list
}

func withProject(list []models.Project, id int64, fn func(models.Project) models.Project) []models.Project {
	for i := range list {
		if list[i].ID != id {
			continue
		}
		out := append([]models.Project(nil), list...)
		out[i] = fn(out[i])
		return out
	}
	return list
}

func withMember(list []models.Member, id int64, fn func(models.Member) models.Member) []models.Member {
	for i := range list {
		if list[i].ID != id {
			continue
		}
		out := append([]models.Member(nil), list...)
		out[i] = fn(out[i])
		return out
	}
	return list
}

func clampEach[T any](list []T, clamp func(T) T) []T {
	out := make([]T, len(list))
	for i, v := range list {
		out[i] = clamp(v)
	}
	return out
}

func clampProgress(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func clampProject(p models.Project) models.Project {
	p.Progress = clampProgress(p.Progress)
	if len(p.Parts) > 0 {
		p.Parts = clampEach(p.Parts, clampPart)
	}
	return p
}

func clampPart(p models.ProjectPart) models.ProjectPart {
	p.Progress = clampProgress(p.Progress)
	return p
}

func clampTeam(t models.Team) models.Team {
	t.Progress = clampProgress(t.Progress)
	return t
}

func clampTask(t models.Task) models.Task {
	t.Progress = clampProgress(t.Progress)
	return t
}
