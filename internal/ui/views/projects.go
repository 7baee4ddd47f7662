package views

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kmckee/teamdash/internal/actions"
	"github.com/kmckee/teamdash/internal/models"
	"github.com/kmckee/teamdash/internal/ui/styles"
)

// ProjectsView lists projects and hosts the create form, the delete
// confirm and a read-only detail pane with parts and activity.
type ProjectsView struct {
	ctx    *Context
	cursor int

	// Create form
	creating   bool
	newName    textinput.Model
	newDesc    textinput.Model
	newDate    textinput.Model
	managerIdx int // index into snapshot members, -1 = auto
	focusIdx   int // 0=name, 1=desc, 2=date, 3=manager, 4=confirm
	fieldErrs  actions.FieldErrors

	// Part form inside the detail pane
	addingPart bool
	partName   textinput.Model
	partWeight textinput.Model
	partFocus  int

	// Delete confirmation
	confirmingDelete bool
	deleteTargetID   int64

	// Detail pane
	viewing    bool
	partCursor int
	todoCursor int

	// Todo form inside the detail pane
	addingTodo bool
	newTodo    textinput.Model
}

func NewProjectsView(ctx *Context) *ProjectsView {
	newName := textinput.New()
	newName.Placeholder = "Project name"
	newName.CharLimit = 100

	newDesc := textinput.New()
	newDesc.Placeholder = "Description (optional)"
	newDesc.CharLimit = 200

	newDate := textinput.New()
	newDate.Placeholder = "Deadline (YYYY-MM-DD)"
	newDate.CharLimit = 10

	partName := textinput.New()
	partName.Placeholder = "Part name"
	partName.CharLimit = 100

	partWeight := textinput.New()
	partWeight.Placeholder = "Weight 1-100"
	partWeight.CharLimit = 3

	newTodo := textinput.New()
	newTodo.Placeholder = "Todo text"
	newTodo.CharLimit = 200

	return &ProjectsView{
		ctx:        ctx,
		newName:    newName,
		newDesc:    newDesc,
		newDate:    newDate,
		partName:   partName,
		partWeight: partWeight,
		newTodo:    newTodo,
		managerIdx: -1,
	}
}

func (v *ProjectsView) Init() tea.Cmd { return nil }

func (v *ProjectsView) Editing() bool {
	return v.creating || v.confirmingDelete || v.addingPart || v.addingTodo
}

func (v *ProjectsView) projects() []models.Project {
	return v.ctx.Store.Snapshot().Projects
}

func (v *ProjectsView) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	switch {
	case v.confirmingDelete:
		return v.updateConfirmDelete(keyMsg)
	case v.creating:
		return v.updateCreating(keyMsg)
	case v.addingPart:
		return v.updateAddingPart(keyMsg)
	case v.addingTodo:
		return v.updateAddingTodo(keyMsg)
	case v.viewing:
		return v.updateViewing(keyMsg)
	}

	projects := v.projects()
	k := v.ctx.Keys
	switch {
	case key.Matches(keyMsg, k.Up):
		v.cursor = clamp(v.cursor-1, 0, max(len(projects)-1, 0))
	case key.Matches(keyMsg, k.Down):
		v.cursor = clamp(v.cursor+1, 0, max(len(projects)-1, 0))
	case key.Matches(keyMsg, k.New):
		v.startCreate()
		return textinput.Blink
	case key.Matches(keyMsg, k.Enter):
		if len(projects) > 0 {
			v.viewing = true
			v.partCursor = 0
		}
	case key.Matches(keyMsg, k.Delete):
		if v.cursor < len(projects) {
			v.confirmingDelete = true
			v.deleteTargetID = projects[v.cursor].ID
		}
	}
	return nil
}

func (v *ProjectsView) startCreate() {
	v.creating = true
	v.focusIdx = 0
	v.managerIdx = -1
	v.fieldErrs = nil
	v.newName.Reset()
	v.newDesc.Reset()
	v.newDate.Reset()
	v.updateFocus()
}

func (v *ProjectsView) updateFocus() {
	v.newName.Blur()
	v.newDesc.Blur()
	v.newDate.Blur()
	switch v.focusIdx {
	case 0:
		v.newName.Focus()
	case 1:
		v.newDesc.Focus()
	case 2:
		v.newDate.Focus()
	}
}

func (v *ProjectsView) updateConfirmDelete(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "Y":
		id := v.deleteTargetID
		v.confirmingDelete = false
		v.viewing = false
		return actionCmd(func() error { return v.ctx.Actions.DeleteProject(id) })
	case "n", "N", "esc":
		v.confirmingDelete = false
	}
	return nil
}

func (v *ProjectsView) updateCreating(msg tea.KeyMsg) tea.Cmd {
	k := v.ctx.Keys
	switch {
	case key.Matches(msg, k.Back):
		v.creating = false
		return nil

	case msg.String() == "shift+tab":
		v.focusIdx = (v.focusIdx + 4) % 5
		v.updateFocus()
		return nil

	case key.Matches(msg, k.Tab):
		v.focusIdx = (v.focusIdx + 1) % 5
		v.updateFocus()
		return nil

	case msg.String() == "left", msg.String() == "right":
		if v.focusIdx == 3 {
			members := v.ctx.Store.Snapshot().Members
			dir := 1
			if msg.String() == "left" {
				dir = -1
			}
			// -1 stands for automatic manager resolution
			v.managerIdx = clamp(v.managerIdx+dir, -1, len(members)-1)
			return nil
		}

	case key.Matches(msg, k.Enter):
		if v.focusIdx < 4 {
			v.focusIdx++
			v.updateFocus()
			return nil
		}
		return v.submitCreate()

	case msg.String() == "ctrl+s":
		return v.submitCreate()
	}

	var cmd tea.Cmd
	switch v.focusIdx {
	case 0:
		v.newName, cmd = v.newName.Update(msg)
	case 1:
		v.newDesc, cmd = v.newDesc.Update(msg)
	case 2:
		v.newDate, cmd = v.newDate.Update(msg)
	}
	return cmd
}

func (v *ProjectsView) submitCreate() tea.Cmd {
	in := actions.ProjectInput{
		Name:        strings.TrimSpace(v.newName.Value()),
		Description: strings.TrimSpace(v.newDesc.Value()),
	}
	if deadline, ok := parseDate(strings.TrimSpace(v.newDate.Value())); ok {
		in.Deadline = deadline
	}
	if members := v.ctx.Store.Snapshot().Members; v.managerIdx >= 0 && v.managerIdx < len(members) {
		in.ManagerID = members[v.managerIdx].ID
	}

	// Field validation stays at the form boundary: annotate inline and
	// keep the form open, no round trip.
	if errs := in.Validate(timeNow()); errs != nil {
		v.fieldErrs = errs
		return nil
	}

	v.creating = false
	return actionCmd(func() error { return v.ctx.Actions.CreateProject(in) })
}

func (v *ProjectsView) updateAddingPart(msg tea.KeyMsg) tea.Cmd {
	k := v.ctx.Keys
	switch {
	case key.Matches(msg, k.Back):
		v.addingPart = false
		return nil

	case key.Matches(msg, k.Tab):
		v.partFocus = (v.partFocus + 1) % 2
		if v.partFocus == 0 {
			v.partName.Focus()
			v.partWeight.Blur()
		} else {
			v.partName.Blur()
			v.partWeight.Focus()
		}
		return nil

	case key.Matches(msg, k.Enter):
		projects := v.projects()
		if v.cursor >= len(projects) {
			v.addingPart = false
			return nil
		}
		weight, _ := strconv.Atoi(strings.TrimSpace(v.partWeight.Value()))
		in := actions.PartInput{
			Name:   strings.TrimSpace(v.partName.Value()),
			Weight: weight,
		}
		if errs := in.Validate(); errs != nil {
			v.fieldErrs = errs
			return nil
		}
		projectID := projects[v.cursor].ID
		v.addingPart = false
		return actionCmd(func() error { return v.ctx.Actions.AddProjectPart(projectID, in) })
	}

	var cmd tea.Cmd
	if v.partFocus == 0 {
		v.partName, cmd = v.partName.Update(msg)
	} else {
		v.partWeight, cmd = v.partWeight.Update(msg)
	}
	return cmd
}

func (v *ProjectsView) updateViewing(msg tea.KeyMsg) tea.Cmd {
	projects := v.projects()
	if v.cursor >= len(projects) {
		v.viewing = false
		return nil
	}
	p := projects[v.cursor]

	k := v.ctx.Keys
	switch {
	case key.Matches(msg, k.Back):
		v.viewing = false
	case key.Matches(msg, k.Up):
		v.partCursor = clamp(v.partCursor-1, 0, max(len(p.Parts)-1, 0))
		v.todoCursor = 0
	case key.Matches(msg, k.Down):
		v.partCursor = clamp(v.partCursor+1, 0, max(len(p.Parts)-1, 0))
		v.todoCursor = 0
	case msg.String() == "left":
		v.todoCursor = max(v.todoCursor-1, 0)
	case msg.String() == "right":
		if v.partCursor < len(p.Parts) {
			v.todoCursor = clamp(v.todoCursor+1, 0, max(len(p.Parts[v.partCursor].Todos)-1, 0))
		}
	case key.Matches(msg, k.New):
		v.addingPart = true
		v.partFocus = 0
		v.fieldErrs = nil
		v.partName.Reset()
		v.partWeight.Reset()
		v.partName.Focus()
		return textinput.Blink
	case msg.String() == "t":
		if v.partCursor < len(p.Parts) {
			v.addingTodo = true
			v.newTodo.Reset()
			v.newTodo.Focus()
			return textinput.Blink
		}
	case msg.String() == " ", key.Matches(msg, k.Enter):
		if v.partCursor < len(p.Parts) && v.todoCursor < len(p.Parts[v.partCursor].Todos) {
			todo := p.Parts[v.partCursor].Todos[v.todoCursor]
			return actionCmd(func() error { return v.ctx.Actions.TogglePartTodo(todo) })
		}
	case msg.String() == "x":
		if v.partCursor < len(p.Parts) && v.todoCursor < len(p.Parts[v.partCursor].Todos) {
			todoID := p.Parts[v.partCursor].Todos[v.todoCursor].ID
			return actionCmd(func() error { return v.ctx.Actions.DeletePartTodo(todoID) })
		}
	case key.Matches(msg, k.Delete):
		if v.partCursor < len(p.Parts) {
			projectID, partID := p.ID, p.Parts[v.partCursor].ID
			return actionCmd(func() error { return v.ctx.Actions.DeleteProjectPart(projectID, partID) })
		}
	}
	return nil
}

func (v *ProjectsView) updateAddingTodo(msg tea.KeyMsg) tea.Cmd {
	k := v.ctx.Keys
	switch {
	case key.Matches(msg, k.Back):
		v.addingTodo = false
		return nil
	case key.Matches(msg, k.Enter):
		text := strings.TrimSpace(v.newTodo.Value())
		v.addingTodo = false
		if text == "" {
			return nil
		}
		projects := v.projects()
		if v.cursor >= len(projects) || v.partCursor >= len(projects[v.cursor].Parts) {
			return nil
		}
		partID := projects[v.cursor].Parts[v.partCursor].ID
		return actionCmd(func() error { return v.ctx.Actions.AddPartTodo(partID, text) })
	}
	var cmd tea.Cmd
	v.newTodo, cmd = v.newTodo.Update(msg)
	return cmd
}

func (v *ProjectsView) View() string {
	s := v.ctx.Styles
	snap := v.ctx.Store.Snapshot()

	switch {
	case v.confirmingDelete:
		return v.renderDeleteConfirm()
	case v.creating:
		return v.renderCreateForm()
	case v.addingPart:
		return v.renderPartForm()
	case v.addingTodo:
		return v.renderTodoForm()
	case v.viewing:
		return v.renderDetail()
	}

	if snap.Loading && len(snap.Projects) == 0 {
		return s.TitleMuted.Render(v.ctx.Tr("Loading..."))
	}
	if len(snap.Projects) == 0 {
		return v.renderEmpty()
	}

	contentWidth := styles.ContentWidth(v.ctx.Width)
	barWidth := clamp(contentWidth-58, 8, 20)

	var rows []string
	for i, p := range snap.Projects {
		line := fmt.Sprintf("%-24s %s %3d%%  %-10s %s",
			truncate(p.Name, 24),
			s.ProgressBar(p.Progress, barWidth),
			p.Progress,
			p.Status,
			fmtDate(p.Deadline),
		)
		if i == v.cursor {
			rows = append(rows, s.ListSelected.Render(line))
		} else {
			rows = append(rows, s.ListItem.Render(line))
		}
	}

	content := s.List.Render(lipgloss.JoinVertical(lipgloss.Left, rows...)) + "\n" + v.renderHelp()
	return styles.CenterView(content, v.ctx.Width, v.ctx.Height)
}

func (v *ProjectsView) renderEmpty() string {
	s := v.ctx.Styles
	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Render("No Projects"),
		"",
		s.TitleMuted.Render("Press 'n' to create your first project"),
	)
	return lipgloss.Place(styles.ContentWidth(v.ctx.Width), v.ctx.Height,
		lipgloss.Center, lipgloss.Center, content)
}

func (v *ProjectsView) renderCreateForm() string {
	s := v.ctx.Styles
	contentWidth := styles.ContentWidth(v.ctx.Width)
	inputWidth := clamp(contentWidth-6, 20, 50)

	field := func(idx int, label string, input textinput.Model, errKey string) string {
		style := s.Input
		if v.focusIdx == idx {
			style = s.InputFocused
		}
		if v.fieldErrs[errKey] != "" {
			style = s.InputError
		}
		out := label + "\n" + style.Width(inputWidth).Render(input.View())
		if msg := v.fieldErrs[errKey]; msg != "" {
			out += "\n" + s.FieldError.Render(msg)
		}
		return out
	}

	managerLabel := "auto"
	if members := v.ctx.Store.Snapshot().Members; v.managerIdx >= 0 && v.managerIdx < len(members) {
		managerLabel = members[v.managerIdx].Name
	}
	managerStyle := s.Button
	if v.focusIdx == 3 {
		managerStyle = s.ButtonFocused
	}
	btnStyle := s.Button
	if v.focusIdx == 4 {
		btnStyle = s.ButtonFocused
	}

	form := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("New Project"),
		"",
		field(0, "Name:", v.newName, "name"),
		"",
		field(1, "Description:", v.newDesc, ""),
		"",
		field(2, "Deadline:", v.newDate, "deadline"),
		"",
		"Manager: "+managerStyle.Render(" "+managerLabel+" "),
		"",
		btnStyle.Render(" Create "),
		"",
		s.TitleMuted.Render("Tab: next • ←/→: manager • Ctrl+S: save • Esc: cancel"),
	)

	return lipgloss.Place(contentWidth, v.ctx.Height,
		lipgloss.Center, lipgloss.Center, form)
}

func (v *ProjectsView) renderPartForm() string {
	s := v.ctx.Styles
	contentWidth := styles.ContentWidth(v.ctx.Width)
	inputWidth := clamp(contentWidth-6, 20, 40)

	nameStyle, weightStyle := s.InputFocused, s.Input
	if v.partFocus == 1 {
		nameStyle, weightStyle = s.Input, s.InputFocused
	}

	form := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("New Part"),
		"",
		"Name:",
		nameStyle.Width(inputWidth).Render(v.partName.View()),
		"",
		"Weight:",
		weightStyle.Width(10).Render(v.partWeight.View()),
		"",
		s.TitleMuted.Render("Tab: next • Enter: save • Esc: cancel"),
	)
	if len(v.fieldErrs) > 0 {
		form += "\n" + s.FieldError.Render(v.fieldErrs.Error())
	}

	return lipgloss.Place(contentWidth, v.ctx.Height,
		lipgloss.Center, lipgloss.Center, form)
}

func (v *ProjectsView) renderDetail() string {
	s := v.ctx.Styles
	projects := v.projects()
	if v.cursor >= len(projects) {
		return ""
	}
	p := projects[v.cursor]
	contentWidth := styles.ContentWidth(v.ctx.Width)

	var rows []string
	rows = append(rows,
		s.Title.Render(p.Name)+"  "+s.TitleMuted.Render(string(p.Status)),
		s.TitleMuted.Render(fmt.Sprintf("Manager: %s • Deadline: %s • %d%%", p.Manager, fmtDate(p.Deadline), p.Progress)),
		"",
	)

	for i, part := range p.Parts {
		line := fmt.Sprintf("%-20s w%-3d %s %3d%%",
			truncate(part.Name, 20), part.Weight,
			s.ProgressBar(part.Progress, 10), part.Progress)
		if i == v.partCursor {
			rows = append(rows, s.ListSelected.Render(line))
		} else {
			rows = append(rows, s.ListItem.Render(line))
		}
		for j, todo := range part.Todos {
			check := "[ ]"
			if todo.Completed {
				check = "[x]"
			}
			line := "    " + check + " " + todo.Text
			if i == v.partCursor && j == v.todoCursor {
				rows = append(rows, s.ListSelected.Render(line))
			} else {
				rows = append(rows, s.TitleMuted.Render(line))
			}
		}
	}

	if len(p.ActivityLog) > 0 {
		rows = append(rows, "", s.Title.Render("Activity"))
		for _, e := range p.ActivityLog {
			rows = append(rows, s.TitleMuted.Render(fmt.Sprintf("%s  %s", e.Date.Format("2006-01-02"), e.Message)))
		}
	}

	rows = append(rows, "", s.Help.Render(
		s.HelpKey.Render("n")+" part • "+s.HelpKey.Render("d")+" del part • "+
			s.HelpKey.Render("t")+" todo • "+s.HelpKey.Render("space")+" toggle • "+
			s.HelpKey.Render("x")+" del todo • "+s.HelpKey.Render("esc")+" back"))

	content := s.List.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	return styles.CenterView(lipgloss.Place(contentWidth, v.ctx.Height, lipgloss.Left, lipgloss.Top, content),
		v.ctx.Width, v.ctx.Height)
}

func (v *ProjectsView) renderTodoForm() string {
	s := v.ctx.Styles
	contentWidth := styles.ContentWidth(v.ctx.Width)
	form := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("New Todo"),
		"",
		s.InputFocused.Width(clamp(contentWidth-6, 20, 50)).Render(v.newTodo.View()),
		"",
		s.TitleMuted.Render("Enter: save • Esc: cancel"),
	)
	return lipgloss.Place(contentWidth, v.ctx.Height,
		lipgloss.Center, lipgloss.Center, form)
}

func (v *ProjectsView) renderDeleteConfirm() string {
	s := v.ctx.Styles
	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(s.Theme.Error).Render("Delete Project?"),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			s.ButtonPrimary.Render(" Y - Yes "),
			"  ",
			s.Button.Render(" N - No "),
		),
	)
	return lipgloss.Place(styles.ContentWidth(v.ctx.Width), v.ctx.Height,
		lipgloss.Center, lipgloss.Center, content)
}

func (v *ProjectsView) renderHelp() string {
	s := v.ctx.Styles
	return s.Help.Render(
		fmt.Sprintf("%s detail • %s new • %s del • %s quit",
			s.HelpKey.Render("↵"),
			s.HelpKey.Render("n"),
			s.HelpKey.Render("d"),
			s.HelpKey.Render("q"),
		),
	)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
