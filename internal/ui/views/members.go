package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kmckee/teamdash/internal/actions"
	"github.com/kmckee/teamdash/internal/models"
	"github.com/kmckee/teamdash/internal/ui/styles"
)

var memberRoles = []models.Role{
	models.RoleManager,
	models.RoleTeamLead,
	models.RoleMember,
}

// MembersView lists people and their personal todo lists.
type MembersView struct {
	ctx    *Context
	cursor int

	// Create form
	creating  bool
	newName   textinput.Model
	newEmail  textinput.Model
	roleIdx   int
	focusIdx  int // 0=name, 1=email, 2=role, 3=confirm
	fieldErrs actions.FieldErrors

	// Detail pane with personal todos
	viewing    bool
	todoCursor int
	addingTodo bool
	newTodo    textinput.Model

	confirmingDelete bool
	deleteTargetID   int64
}

func NewMembersView(ctx *Context) *MembersView {
	newName := textinput.New()
	newName.Placeholder = "Full name"
	newName.CharLimit = 100

	newEmail := textinput.New()
	newEmail.Placeholder = "Email (optional)"
	newEmail.CharLimit = 100

	newTodo := textinput.New()
	newTodo.Placeholder = "Todo text"
	newTodo.CharLimit = 200

	return &MembersView{ctx: ctx, newName: newName, newEmail: newEmail, newTodo: newTodo}
}

func (v *MembersView) Init() tea.Cmd { return nil }

func (v *MembersView) Editing() bool {
	return v.creating || v.confirmingDelete || v.addingTodo
}

func (v *MembersView) members() []models.Member {
	return v.ctx.Store.Snapshot().Members
}

func (v *MembersView) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	switch {
	case v.confirmingDelete:
		return v.updateConfirmDelete(keyMsg)
	case v.creating:
		return v.updateCreating(keyMsg)
	case v.addingTodo:
		return v.updateAddingTodo(keyMsg)
	case v.viewing:
		return v.updateViewing(keyMsg)
	}

	members := v.members()
	k := v.ctx.Keys
	switch {
	case key.Matches(keyMsg, k.Up):
		v.cursor = clamp(v.cursor-1, 0, max(len(members)-1, 0))
	case key.Matches(keyMsg, k.Down):
		v.cursor = clamp(v.cursor+1, 0, max(len(members)-1, 0))
	case key.Matches(keyMsg, k.New):
		v.creating = true
		v.focusIdx = 0
		v.roleIdx = 2 // plain member is the common case
		v.fieldErrs = nil
		v.newName.Reset()
		v.newEmail.Reset()
		v.newName.Focus()
		v.newEmail.Blur()
		return textinput.Blink
	case key.Matches(keyMsg, k.Enter):
		if len(members) > 0 {
			v.viewing = true
			v.todoCursor = 0
		}
	case key.Matches(keyMsg, k.Delete):
		if v.cursor < len(members) {
			v.confirmingDelete = true
			v.deleteTargetID = members[v.cursor].ID
		}
	}
	return nil
}

func (v *MembersView) updateConfirmDelete(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "Y":
		id := v.deleteTargetID
		v.confirmingDelete = false
		v.viewing = false
		return actionCmd(func() error { return v.ctx.Actions.DeleteMember(id) })
	case "n", "N", "esc":
		v.confirmingDelete = false
	}
	return nil
}

func (v *MembersView) updateCreating(msg tea.KeyMsg) tea.Cmd {
	k := v.ctx.Keys
	switch {
	case key.Matches(msg, k.Back):
		v.creating = false
		return nil

	case key.Matches(msg, k.Tab), msg.String() == "shift+tab":
		dir := 1
		if msg.String() == "shift+tab" {
			dir = 3
		}
		v.focusIdx = (v.focusIdx + dir) % 4
		v.syncFocus()
		return nil

	case msg.String() == "left", msg.String() == "right":
		if v.focusIdx == 2 {
			dir := 1
			if msg.String() == "left" {
				dir = -1
			}
			v.roleIdx = (v.roleIdx + dir + len(memberRoles)) % len(memberRoles)
			return nil
		}

	case key.Matches(msg, k.Enter):
		if v.focusIdx < 3 {
			v.focusIdx++
			v.syncFocus()
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
		v.newEmail, cmd = v.newEmail.Update(msg)
	}
	return cmd
}

func (v *MembersView) syncFocus() {
	v.newName.Blur()
	v.newEmail.Blur()
	switch v.focusIdx {
	case 0:
		v.newName.Focus()
	case 1:
		v.newEmail.Focus()
	}
}

func (v *MembersView) submitCreate() tea.Cmd {
	in := actions.MemberInput{
		Name:  strings.TrimSpace(v.newName.Value()),
		Email: strings.TrimSpace(v.newEmail.Value()),
		Role:  memberRoles[v.roleIdx],
	}
	if errs := in.Validate(); errs != nil {
		v.fieldErrs = errs
		return nil
	}
	v.creating = false
	return actionCmd(func() error { return v.ctx.Actions.CreateMember(in) })
}

func (v *MembersView) updateAddingTodo(msg tea.KeyMsg) tea.Cmd {
	k := v.ctx.Keys
	switch {
	case key.Matches(msg, k.Back):
		v.addingTodo = false
		return nil
	case key.Matches(msg, k.Enter):
		members := v.members()
		text := strings.TrimSpace(v.newTodo.Value())
		v.addingTodo = false
		if text == "" || v.cursor >= len(members) {
			return nil
		}
		memberID := members[v.cursor].ID
		return actionCmd(func() error { return v.ctx.Actions.AddPersonalTodo(memberID, text) })
	}
	var cmd tea.Cmd
	v.newTodo, cmd = v.newTodo.Update(msg)
	return cmd
}

func (v *MembersView) updateViewing(msg tea.KeyMsg) tea.Cmd {
	members := v.members()
	if v.cursor >= len(members) {
		v.viewing = false
		return nil
	}
	m := members[v.cursor]

	k := v.ctx.Keys
	switch {
	case key.Matches(msg, k.Back):
		v.viewing = false
	case key.Matches(msg, k.Up):
		v.todoCursor = clamp(v.todoCursor-1, 0, max(len(m.PersonalTodos)-1, 0))
	case key.Matches(msg, k.Down):
		v.todoCursor = clamp(v.todoCursor+1, 0, max(len(m.PersonalTodos)-1, 0))
	case key.Matches(msg, k.New):
		v.addingTodo = true
		v.newTodo.Reset()
		v.newTodo.Focus()
		return textinput.Blink
	case msg.String() == " ", key.Matches(msg, k.Enter):
		if v.todoCursor < len(m.PersonalTodos) {
			memberID, todo := m.ID, m.PersonalTodos[v.todoCursor]
			return actionCmd(func() error { return v.ctx.Actions.TogglePersonalTodo(memberID, todo) })
		}
	case key.Matches(msg, k.Delete):
		if v.todoCursor < len(m.PersonalTodos) {
			memberID, todoID := m.ID, m.PersonalTodos[v.todoCursor].ID
			return actionCmd(func() error { return v.ctx.Actions.DeletePersonalTodo(memberID, todoID) })
		}
	}
	return nil
}

func (v *MembersView) View() string {
	s := v.ctx.Styles
	snap := v.ctx.Store.Snapshot()

	switch {
	case v.confirmingDelete:
		return v.renderDeleteConfirm()
	case v.creating:
		return v.renderCreateForm()
	case v.addingTodo:
		return v.renderTodoForm()
	case v.viewing:
		return v.renderDetail()
	}

	if len(snap.Members) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Center,
			s.Title.Render("No Members"),
			"",
			s.TitleMuted.Render("Press 'n' to add a member"),
		)
		return lipgloss.Place(styles.ContentWidth(v.ctx.Width), v.ctx.Height,
			lipgloss.Center, lipgloss.Center, content)
	}

	var rows []string
	for i, m := range snap.Members {
		team := "-"
		if m.TeamID != nil {
			if t, ok := snap.TeamByID(*m.TeamID); ok {
				team = t.Name
			}
		}
		line := fmt.Sprintf("%-20s %-10s %-18s %2d tasks",
			truncate(m.Name, 20), m.Role, truncate(team, 18), len(m.TaskIDs))
		if i == v.cursor {
			rows = append(rows, s.ListSelected.Render(line))
		} else {
			rows = append(rows, s.ListItem.Render(line))
		}
	}

	help := s.Help.Render(
		s.HelpKey.Render("↵") + " todos • " + s.HelpKey.Render("n") + " new • " + s.HelpKey.Render("d") + " del")
	content := s.List.Render(lipgloss.JoinVertical(lipgloss.Left, rows...)) + "\n" + help
	return styles.CenterView(content, v.ctx.Width, v.ctx.Height)
}

func (v *MembersView) renderCreateForm() string {
	s := v.ctx.Styles
	contentWidth := styles.ContentWidth(v.ctx.Width)
	inputWidth := clamp(contentWidth-6, 20, 50)

	nameStyle, emailStyle := s.Input, s.Input
	switch v.focusIdx {
	case 0:
		nameStyle = s.InputFocused
	case 1:
		emailStyle = s.InputFocused
	}
	if v.fieldErrs["name"] != "" {
		nameStyle = s.InputError
	}

	roleStyle := s.Button
	if v.focusIdx == 2 {
		roleStyle = s.ButtonFocused
	}
	btnStyle := s.Button
	if v.focusIdx == 3 {
		btnStyle = s.ButtonFocused
	}

	parts := []string{
		s.Title.Render("New Member"),
		"",
		"Name:",
		nameStyle.Width(inputWidth).Render(v.newName.View()),
	}
	if msg := v.fieldErrs["name"]; msg != "" {
		parts = append(parts, s.FieldError.Render(msg))
	}
	parts = append(parts,
		"",
		"Email:",
		emailStyle.Width(inputWidth).Render(v.newEmail.View()),
		"",
		"Role: "+roleStyle.Render(" "+string(memberRoles[v.roleIdx])+" "),
		"",
		btnStyle.Render(" Create "),
		"",
		s.TitleMuted.Render("Tab: next • ←/→: role • Ctrl+S: save • Esc: cancel"),
	)

	form := lipgloss.JoinVertical(lipgloss.Left, parts...)
	return lipgloss.Place(contentWidth, v.ctx.Height,
		lipgloss.Center, lipgloss.Center, form)
}

func (v *MembersView) renderTodoForm() string {
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

func (v *MembersView) renderDetail() string {
	s := v.ctx.Styles
	members := v.members()
	if v.cursor >= len(members) {
		return ""
	}
	m := members[v.cursor]

	var rows []string
	rows = append(rows,
		s.Title.Render(m.Name)+"  "+s.TitleMuted.Render(string(m.Role)),
		"",
	)
	if len(m.PersonalTodos) == 0 {
		rows = append(rows, s.TitleMuted.Render("No personal todos"))
	}
	for i, todo := range m.PersonalTodos {
		check := "[ ]"
		if todo.Completed {
			check = "[x]"
		}
		line := check + " " + todo.Text
		if i == v.todoCursor {
			rows = append(rows, s.ListSelected.Render(line))
		} else {
			rows = append(rows, s.ListItem.Render(line))
		}
	}
	rows = append(rows, "", s.Help.Render(
		s.HelpKey.Render("n")+" add • "+s.HelpKey.Render("space")+" toggle • "+
			s.HelpKey.Render("d")+" del • "+s.HelpKey.Render("esc")+" back"))

	content := s.List.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	return styles.CenterView(content, v.ctx.Width, v.ctx.Height)
}

func (v *MembersView) renderDeleteConfirm() string {
	s := v.ctx.Styles
	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(s.Theme.Error).Render("Delete Member?"),
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
