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

// TeamsView lists teams and manages rosters. The roster pane moves
// members on and off a team, which is the only way membership changes.
type TeamsView struct {
	ctx    *Context
	cursor int

	// Create form
	creating  bool
	newName   textinput.Model
	newDate   textinput.Model
	leadIdx   int
	focusIdx  int // 0=name, 1=deadline, 2=lead, 3=confirm
	fieldErrs actions.FieldErrors

	// Roster pane
	viewing      bool
	rosterCursor int
	picking      bool // choosing a member to add
	pickCursor   int

	confirmingDelete bool
	deleteTargetID   int64
}

func NewTeamsView(ctx *Context) *TeamsView {
	newName := textinput.New()
	newName.Placeholder = "Team name"
	newName.CharLimit = 100

	newDate := textinput.New()
	newDate.Placeholder = "Deadline (YYYY-MM-DD)"
	newDate.CharLimit = 10

	return &TeamsView{ctx: ctx, newName: newName, newDate: newDate}
}

func (v *TeamsView) Init() tea.Cmd { return nil }

func (v *TeamsView) Editing() bool {
	return v.creating || v.confirmingDelete || v.picking
}

func (v *TeamsView) teams() []models.Team {
	return v.ctx.Store.Snapshot().Teams
}

// unassigned returns members not yet on any team, the candidates for
// the roster picker.
func (v *TeamsView) unassigned() []models.Member {
	var out []models.Member
	for _, m := range v.ctx.Store.Snapshot().Members {
		if m.TeamID == nil {
			out = append(out, m)
		}
	}
	return out
}

func (v *TeamsView) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	switch {
	case v.confirmingDelete:
		return v.updateConfirmDelete(keyMsg)
	case v.creating:
		return v.updateCreating(keyMsg)
	case v.picking:
		return v.updatePicking(keyMsg)
	case v.viewing:
		return v.updateViewing(keyMsg)
	}

	teams := v.teams()
	k := v.ctx.Keys
	switch {
	case key.Matches(keyMsg, k.Up):
		v.cursor = clamp(v.cursor-1, 0, max(len(teams)-1, 0))
	case key.Matches(keyMsg, k.Down):
		v.cursor = clamp(v.cursor+1, 0, max(len(teams)-1, 0))
	case key.Matches(keyMsg, k.New):
		v.startCreate()
		return textinput.Blink
	case key.Matches(keyMsg, k.Enter):
		if len(teams) > 0 {
			v.viewing = true
			v.rosterCursor = 0
		}
	case key.Matches(keyMsg, k.Delete):
		if v.cursor < len(teams) {
			v.confirmingDelete = true
			v.deleteTargetID = teams[v.cursor].ID
		}
	}
	return nil
}

func (v *TeamsView) startCreate() {
	v.creating = true
	v.focusIdx = 0
	v.leadIdx = 0
	v.fieldErrs = nil
	v.newName.Reset()
	v.newDate.Reset()
	v.newName.Focus()
	v.newDate.Blur()
}

func (v *TeamsView) updateConfirmDelete(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "Y":
		id := v.deleteTargetID
		v.confirmingDelete = false
		v.viewing = false
		return actionCmd(func() error { return v.ctx.Actions.DeleteTeam(id) })
	case "n", "N", "esc":
		v.confirmingDelete = false
	}
	return nil
}

func (v *TeamsView) updateCreating(msg tea.KeyMsg) tea.Cmd {
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
		v.newName.Blur()
		v.newDate.Blur()
		switch v.focusIdx {
		case 0:
			v.newName.Focus()
		case 1:
			v.newDate.Focus()
		}
		return nil

	case msg.String() == "left", msg.String() == "right":
		if v.focusIdx == 2 {
			members := v.ctx.Store.Snapshot().Members
			dir := 1
			if msg.String() == "left" {
				dir = -1
			}
			v.leadIdx = clamp(v.leadIdx+dir, 0, max(len(members)-1, 0))
			return nil
		}

	case key.Matches(msg, k.Enter):
		if v.focusIdx < 3 {
			v.focusIdx++
			v.newName.Blur()
			v.newDate.Blur()
			switch v.focusIdx {
			case 0:
				v.newName.Focus()
			case 1:
				v.newDate.Focus()
			}
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
		v.newDate, cmd = v.newDate.Update(msg)
	}
	return cmd
}

func (v *TeamsView) submitCreate() tea.Cmd {
	in := actions.TeamInput{Name: strings.TrimSpace(v.newName.Value())}
	if deadline, ok := parseDate(strings.TrimSpace(v.newDate.Value())); ok {
		in.Deadline = deadline
	}
	if members := v.ctx.Store.Snapshot().Members; v.leadIdx < len(members) {
		in.LeadID = members[v.leadIdx].ID
	}
	if errs := in.Validate(); errs != nil {
		v.fieldErrs = errs
		return nil
	}
	v.creating = false
	return actionCmd(func() error { return v.ctx.Actions.CreateTeam(in) })
}

func (v *TeamsView) updatePicking(msg tea.KeyMsg) tea.Cmd {
	candidates := v.unassigned()
	k := v.ctx.Keys
	switch {
	case key.Matches(msg, k.Back):
		v.picking = false
	case key.Matches(msg, k.Up):
		v.pickCursor = clamp(v.pickCursor-1, 0, max(len(candidates)-1, 0))
	case key.Matches(msg, k.Down):
		v.pickCursor = clamp(v.pickCursor+1, 0, max(len(candidates)-1, 0))
	case key.Matches(msg, k.Enter):
		teams := v.teams()
		if v.pickCursor < len(candidates) && v.cursor < len(teams) {
			teamID := teams[v.cursor].ID
			memberID := candidates[v.pickCursor].ID
			v.picking = false
			return actionCmd(func() error { return v.ctx.Actions.AddTeamMember(teamID, memberID) })
		}
		v.picking = false
	}
	return nil
}

func (v *TeamsView) updateViewing(msg tea.KeyMsg) tea.Cmd {
	teams := v.teams()
	if v.cursor >= len(teams) {
		v.viewing = false
		return nil
	}
	t := teams[v.cursor]

	k := v.ctx.Keys
	switch {
	case key.Matches(msg, k.Back):
		v.viewing = false
	case key.Matches(msg, k.Up):
		v.rosterCursor = clamp(v.rosterCursor-1, 0, max(len(t.MemberIDs)-1, 0))
	case key.Matches(msg, k.Down):
		v.rosterCursor = clamp(v.rosterCursor+1, 0, max(len(t.MemberIDs)-1, 0))
	case key.Matches(msg, k.New):
		v.picking = true
		v.pickCursor = 0
	case key.Matches(msg, k.Delete):
		if v.rosterCursor < len(t.MemberIDs) {
			memberID := t.MemberIDs[v.rosterCursor]
			return actionCmd(func() error { return v.ctx.Actions.RemoveTeamMember(memberID) })
		}
	}
	return nil
}

func (v *TeamsView) View() string {
	s := v.ctx.Styles
	snap := v.ctx.Store.Snapshot()

	switch {
	case v.confirmingDelete:
		return v.renderDeleteConfirm()
	case v.creating:
		return v.renderCreateForm()
	case v.picking:
		return v.renderPicker()
	case v.viewing:
		return v.renderRoster()
	}

	if len(snap.Teams) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Center,
			s.Title.Render("No Teams"),
			"",
			s.TitleMuted.Render("Press 'n' to create a team"),
		)
		return lipgloss.Place(styles.ContentWidth(v.ctx.Width), v.ctx.Height,
			lipgloss.Center, lipgloss.Center, content)
	}

	var rows []string
	for i, t := range snap.Teams {
		project := "-"
		if t.ProjectID != nil {
			if p, ok := snap.ProjectByID(*t.ProjectID); ok {
				project = p.Name
			}
		}
		line := fmt.Sprintf("%-24s lead %-16s %2d members  %s",
			truncate(t.Name, 24), truncate(t.Lead, 16), len(t.MemberIDs), truncate(project, 20))
		if i == v.cursor {
			rows = append(rows, s.ListSelected.Render(line))
		} else {
			rows = append(rows, s.ListItem.Render(line))
		}
	}

	help := s.Help.Render(
		s.HelpKey.Render("↵") + " roster • " + s.HelpKey.Render("n") + " new • " + s.HelpKey.Render("d") + " del")
	content := s.List.Render(lipgloss.JoinVertical(lipgloss.Left, rows...)) + "\n" + help
	return styles.CenterView(content, v.ctx.Width, v.ctx.Height)
}

func (v *TeamsView) renderCreateForm() string {
	s := v.ctx.Styles
	contentWidth := styles.ContentWidth(v.ctx.Width)
	inputWidth := clamp(contentWidth-6, 20, 50)

	nameStyle, dateStyle := s.Input, s.Input
	switch v.focusIdx {
	case 0:
		nameStyle = s.InputFocused
	case 1:
		dateStyle = s.InputFocused
	}
	if v.fieldErrs["name"] != "" {
		nameStyle = s.InputError
	}

	leadLabel := "-"
	if members := v.ctx.Store.Snapshot().Members; v.leadIdx < len(members) {
		leadLabel = members[v.leadIdx].Name
	}
	leadStyle := s.Button
	if v.focusIdx == 2 {
		leadStyle = s.ButtonFocused
	}
	btnStyle := s.Button
	if v.focusIdx == 3 {
		btnStyle = s.ButtonFocused
	}

	parts := []string{
		s.Title.Render("New Team"),
		"",
		"Name:",
		nameStyle.Width(inputWidth).Render(v.newName.View()),
	}
	if msg := v.fieldErrs["name"]; msg != "" {
		parts = append(parts, s.FieldError.Render(msg))
	}
	parts = append(parts,
		"",
		"Deadline:",
		dateStyle.Width(inputWidth).Render(v.newDate.View()),
		"",
		"Lead: "+leadStyle.Render(" "+leadLabel+" "),
	)
	if msg := v.fieldErrs["lead"]; msg != "" {
		parts = append(parts, s.FieldError.Render(msg))
	}
	parts = append(parts,
		"",
		btnStyle.Render(" Create "),
		"",
		s.TitleMuted.Render("Tab: next • ←/→: lead • Ctrl+S: save • Esc: cancel"),
	)

	form := lipgloss.JoinVertical(lipgloss.Left, parts...)
	return lipgloss.Place(contentWidth, v.ctx.Height,
		lipgloss.Center, lipgloss.Center, form)
}

func (v *TeamsView) renderPicker() string {
	s := v.ctx.Styles
	candidates := v.unassigned()

	var rows []string
	rows = append(rows, s.Title.Render("Add Member"), "")
	if len(candidates) == 0 {
		rows = append(rows, s.TitleMuted.Render("Everyone is already on a team"))
	}
	for i, m := range candidates {
		line := fmt.Sprintf("%-20s %s", truncate(m.Name, 20), m.Role)
		if i == v.pickCursor {
			rows = append(rows, s.ListSelected.Render(line))
		} else {
			rows = append(rows, s.ListItem.Render(line))
		}
	}
	rows = append(rows, "", s.TitleMuted.Render("Enter: add • Esc: cancel"))

	return lipgloss.Place(styles.ContentWidth(v.ctx.Width), v.ctx.Height,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (v *TeamsView) renderRoster() string {
	s := v.ctx.Styles
	snap := v.ctx.Store.Snapshot()
	teams := v.teams()
	if v.cursor >= len(teams) {
		return ""
	}
	t := teams[v.cursor]

	var rows []string
	rows = append(rows,
		s.Title.Render(t.Name),
		s.TitleMuted.Render(fmt.Sprintf("Lead: %s • Deadline: %s", t.Lead, fmtDate(t.Deadline))),
		"",
	)
	if len(t.MemberIDs) == 0 {
		rows = append(rows, s.TitleMuted.Render("No members yet"))
	}
	for i, id := range t.MemberIDs {
		name, role := fmt.Sprintf("#%d", id), ""
		if m, ok := snap.MemberByID(id); ok {
			name, role = m.Name, string(m.Role)
		}
		line := fmt.Sprintf("%-20s %s", truncate(name, 20), role)
		if i == v.rosterCursor {
			rows = append(rows, s.ListSelected.Render(line))
		} else {
			rows = append(rows, s.ListItem.Render(line))
		}
	}
	rows = append(rows, "", s.Help.Render(
		s.HelpKey.Render("n")+" add • "+s.HelpKey.Render("d")+" remove • "+s.HelpKey.Render("esc")+" back"))

	content := s.List.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	return styles.CenterView(content, v.ctx.Width, v.ctx.Height)
}

func (v *TeamsView) renderDeleteConfirm() string {
	s := v.ctx.Styles
	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(s.Theme.Error).Render("Delete Team?"),
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
