package views

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kmckee/teamdash/internal/models"
	"github.com/kmckee/teamdash/internal/ui/styles"
)

// DashboardView summarizes the loaded collections.
type DashboardView struct {
	ctx *Context
}

func NewDashboardView(ctx *Context) *DashboardView {
	return &DashboardView{ctx: ctx}
}

func (v *DashboardView) Init() tea.Cmd          { return nil }
func (v *DashboardView) Update(tea.Msg) tea.Cmd { return nil }
func (v *DashboardView) Editing() bool          { return false }

func (v *DashboardView) View() string {
	s := v.ctx.Styles
	snap := v.ctx.Store.Snapshot()
	contentWidth := styles.ContentWidth(v.ctx.Width)

	if snap.Loading && len(snap.Projects) == 0 {
		return s.TitleMuted.Render(v.ctx.Tr("Loading..."))
	}

	active := 0
	for _, p := range snap.Projects {
		if p.Status == models.ProjectActive {
			active++
		}
	}
	open := 0
	for _, t := range snap.Tasks {
		if t.Status == models.TaskPending || t.Status == models.TaskInProgress {
			open++
		}
	}

	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		v.card(v.ctx.Tr("Projects"), fmt.Sprintf("%d (%d active)", len(snap.Projects), active)),
		v.card(v.ctx.Tr("Teams"), fmt.Sprintf("%d", len(snap.Teams))),
		v.card(v.ctx.Tr("Members"), fmt.Sprintf("%d", len(snap.Members))),
		v.card(v.ctx.Tr("Tasks"), fmt.Sprintf("%d (%d open)", len(snap.Tasks), open)),
	)

	var rows []string
	rows = append(rows, cards, "")
	for _, p := range snap.Projects {
		width := clamp(contentWidth-40, 10, 30)
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Center,
			s.ListItem.Width(26).Render(p.Name),
			s.ProgressBar(p.Progress, width),
			s.TitleMuted.Render(fmt.Sprintf(" %3d%%  %s", p.Progress, p.Status)),
		))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return styles.CenterView(s.List.Render(content), v.ctx.Width, v.ctx.Height)
}

func (v *DashboardView) card(title, value string) string {
	s := v.ctx.Styles
	return s.Popup.Render(lipgloss.JoinVertical(lipgloss.Center,
		s.TitleMuted.Render(title),
		s.Title.Render(value),
	))
}
