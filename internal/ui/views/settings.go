package views

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kmckee/teamdash/internal/i18n"
	"github.com/kmckee/teamdash/internal/models"
	"github.com/kmckee/teamdash/internal/ui/styles"
)

var settingThemes = []string{"dark", "light"}

var settingRoles = []models.Role{
	models.RoleManager,
	models.RoleTeamLead,
	models.RoleMember,
}

// SettingsView cycles the persisted preferences. Changes apply
// immediately and survive restarts via the settings table.
type SettingsView struct {
	ctx    *Context
	cursor int // 0=theme, 1=language, 2=role
}

func NewSettingsView(ctx *Context) *SettingsView {
	return &SettingsView{ctx: ctx}
}

func (v *SettingsView) Init() tea.Cmd { return nil }

func (v *SettingsView) Editing() bool { return false }

func (v *SettingsView) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	k := v.ctx.Keys
	switch {
	case key.Matches(keyMsg, k.Up):
		v.cursor = clamp(v.cursor-1, 0, 2)
	case key.Matches(keyMsg, k.Down):
		v.cursor = clamp(v.cursor+1, 0, 2)
	case keyMsg.String() == "left":
		v.cycle(-1)
	case keyMsg.String() == "right", key.Matches(keyMsg, k.Enter):
		v.cycle(1)
	}
	return nil
}

func (v *SettingsView) cycle(dir int) {
	snap := v.ctx.Store.Snapshot()
	switch v.cursor {
	case 0:
		v.ctx.Actions.SetTheme(next(settingThemes, snap.Theme, dir))
	case 1:
		v.ctx.Actions.SetLanguage(next(i18n.Languages(), snap.Language, dir))
	case 2:
		v.ctx.Actions.SetRole(next(settingRoles, snap.Role, dir))
	}
}

// next returns the element after (or before) current, wrapping around.
func next[T comparable](options []T, current T, dir int) T {
	for i, opt := range options {
		if opt == current {
			return options[(i+dir+len(options))%len(options)]
		}
	}
	return options[0]
}

func (v *SettingsView) View() string {
	s := v.ctx.Styles
	snap := v.ctx.Store.Snapshot()

	row := func(idx int, label, value string) string {
		line := label + "  " + s.BadgeOK.Render(" "+value+" ")
		if idx == v.cursor {
			return s.ListSelected.Render(line)
		}
		return s.ListItem.Render(line)
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render(v.ctx.Tr("Settings")),
		"",
		row(0, v.ctx.Tr("Theme"), snap.Theme),
		row(1, v.ctx.Tr("Language"), snap.Language),
		row(2, v.ctx.Tr("Role"), string(snap.Role)),
		"",
		s.TitleMuted.Render("←/→: change • ↑/↓: select"),
	)

	return lipgloss.Place(styles.ContentWidth(v.ctx.Width), v.ctx.Height,
		lipgloss.Center, lipgloss.Center, s.List.Render(content))
}
