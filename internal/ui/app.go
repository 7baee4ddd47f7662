// Package ui assembles the terminal interface on top of the store and
// the action layer.
package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kmckee/teamdash/internal/actions"
	"github.com/kmckee/teamdash/internal/store"
	"github.com/kmckee/teamdash/internal/ui/keys"
	"github.com/kmckee/teamdash/internal/ui/styles"
	"github.com/kmckee/teamdash/internal/ui/views"
)

type tab int

const (
	tabDashboard tab = iota
	tabProjects
	tabTeams
	tabMembers
	tabTasks
	tabSettings
	tabCount
)

var tabNames = [tabCount]string{"Dashboard", "Projects", "Teams", "Members", "Tasks", "Settings"}

const toastLifetime = 4 * time.Second

// stateChangedMsg signals that the store snapshot moved and the
// screen needs a repaint.
type stateChangedMsg struct{}

// expireToastMsg removes a notification after its display window.
type expireToastMsg struct{ id int64 }

// App is the root bubbletea model. It owns tab switching, the status
// bar, toast display and the store watch loop; each tab view handles
// its own keys while focused.
type App struct {
	ctx     *views.Context
	tabs    [tabCount]views.View
	active  tab
	changes <-chan struct{}
	unwatch func()

	// ids already scheduled for expiry, so a repaint does not re-arm
	// timers for toasts still on screen
	expiring map[int64]bool

	showHelp bool
	quitting bool
}

// New builds the App around an initialized store and action layer.
func New(st *store.Store, acts *actions.Actions) *App {
	snap := st.Snapshot()
	ctx := &views.Context{
		Store:   st,
		Actions: acts,
		Styles:  styles.NewStyles(styles.ForPreference(snap.Theme)),
		Keys:    keys.DefaultKeyMap(),
	}

	changes, unwatch := st.Watch()

	a := &App{
		ctx:      ctx,
		changes:  changes,
		unwatch:  unwatch,
		expiring: make(map[int64]bool),
	}
	a.tabs = [tabCount]views.View{
		views.NewDashboardView(ctx),
		views.NewProjectsView(ctx),
		views.NewTeamsView(ctx),
		views.NewMembersView(ctx),
		views.NewTasksView(ctx),
		views.NewSettingsView(ctx),
	}
	return a
}

func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.waitForChange()}
	for _, v := range a.tabs {
		if cmd := v.Init(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return tea.Batch(cmds...)
}

// waitForChange blocks on the store watch channel and turns each
// signal into a repaint message.
func (a *App) waitForChange() tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-a.changes; !ok {
			return nil
		}
		return stateChangedMsg{}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.ctx.Width = msg.Width
		a.ctx.Height = msg.Height - 4 // title bar, tabs, status bar
		return a, nil

	case stateChangedMsg:
		snap := a.ctx.Store.Snapshot()
		if a.ctx.Styles.Theme.Name != styles.ForPreference(snap.Theme).Name {
			a.ctx.Styles = styles.NewStyles(styles.ForPreference(snap.Theme))
		}
		cmds := []tea.Cmd{a.waitForChange()}
		for _, n := range snap.Notifications {
			if !a.expiring[n.ID] {
				a.expiring[n.ID] = true
				id := n.ID
				cmds = append(cmds, tea.Tick(toastLifetime, func(time.Time) tea.Msg {
					return expireToastMsg{id: id}
				}))
			}
		}
		return a, tea.Batch(cmds...)

	case expireToastMsg:
		delete(a.expiring, msg.id)
		a.ctx.Store.Dispatch(store.RemoveNotification{ID: msg.id})
		return a, nil

	case tea.KeyMsg:
		k := a.ctx.Keys
		editing := a.tabs[a.active].Editing()

		if !editing {
			switch {
			case key.Matches(msg, k.Quit):
				a.quitting = true
				a.unwatch()
				return a, tea.Quit
			case key.Matches(msg, k.Help):
				a.showHelp = !a.showHelp
				return a, nil
			}
			if a.showHelp {
				a.showHelp = false
				return a, nil
			}
			switch msg.String() {
			case "1", "2", "3", "4", "5", "6":
				a.active = tab(msg.String()[0] - '1')
				return a, a.tabs[a.active].Init()
			}
		}

		return a, a.tabs[a.active].Update(msg)
	}

	return a, a.tabs[a.active].Update(msg)
}

func (a *App) View() string {
	if a.quitting {
		return ""
	}

	body := a.tabs[a.active].View()
	if a.showHelp {
		body = a.renderHelp()
	}

	out := lipgloss.JoinVertical(lipgloss.Left,
		a.renderTitleBar(),
		a.renderTabs(),
		body,
		a.renderStatusBar(),
	)

	if toast := a.renderToasts(); toast != "" {
		out += "\n" + toast
	}
	return out
}

func (a *App) renderTitleBar() string {
	s := a.ctx.Styles
	width := styles.ContentWidth(a.ctx.Width)
	return s.TitleBar.Width(width).Render(
		s.Title.Render("teamdash") + "  " + s.TitleMuted.Render("project dashboard"))
}

func (a *App) renderTabs() string {
	s := a.ctx.Styles
	rendered := make([]string, 0, tabCount)
	for i, name := range tabNames {
		label := fmt.Sprintf("%d %s", i+1, a.ctx.Tr(name))
		if tab(i) == a.active {
			rendered = append(rendered, s.TabActive.Render(label))
		} else {
			rendered = append(rendered, s.Tab.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (a *App) renderStatusBar() string {
	s := a.ctx.Styles
	snap := a.ctx.Store.Snapshot()

	conn := s.BadgeOK.Render(" live ")
	if !snap.Connected {
		conn = s.BadgeDanger.Render(" offline ")
	}
	status := fmt.Sprintf(" %s • %s", snap.Role, snap.Language)
	if snap.Loading {
		status += " • " + a.ctx.Tr("Loading...")
	}

	width := styles.ContentWidth(a.ctx.Width)
	return s.StatusBar.Width(width).Render(conn + status)
}

func (a *App) renderToasts() string {
	s := a.ctx.Styles
	snap := a.ctx.Store.Snapshot()
	if len(snap.Notifications) == 0 {
		return ""
	}

	lines := make([]string, 0, len(snap.Notifications))
	for _, n := range snap.Notifications {
		text := n.Title
		if n.Message != "" {
			text += ": " + n.Message
		}
		lines = append(lines, s.Toast(n.Severity).Render(text))
	}
	return lipgloss.JoinVertical(lipgloss.Right, lines...)
}

func (a *App) renderHelp() string {
	s := a.ctx.Styles
	k := a.ctx.Keys

	rows := []string{
		s.Title.Render(a.ctx.Tr("Help")),
		"",
	}
	for _, b := range []key.Binding{k.Up, k.Down, k.Enter, k.Back, k.New, k.Edit, k.Delete, k.Quit, k.Help} {
		rows = append(rows, fmt.Sprintf("%s  %s",
			s.HelpKey.Render(fmt.Sprintf("%-6s", b.Help().Key)), b.Help().Desc))
	}
	rows = append(rows, "", s.TitleMuted.Render("1-6: switch tab"))

	return lipgloss.Place(styles.ContentWidth(a.ctx.Width), a.ctx.Height,
		lipgloss.Center, lipgloss.Center,
		s.Popup.Render(lipgloss.JoinVertical(lipgloss.Left, rows...)))
}
