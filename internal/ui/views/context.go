package views

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kmckee/teamdash/internal/actions"
	"github.com/kmckee/teamdash/internal/i18n"
	"github.com/kmckee/teamdash/internal/store"
	"github.com/kmckee/teamdash/internal/ui/keys"
	"github.com/kmckee/teamdash/internal/ui/styles"
)

// Context is the shared environment the app hands to every view: the
// store for reading snapshots, the action layer for mutations, and
// the current styles and dimensions. The app mutates Styles, Width
// and Height in place; views only read them.
type Context struct {
	Store   *store.Store
	Actions *actions.Actions
	Styles  *styles.Styles
	Keys    keys.KeyMap
	Width   int
	Height  int
}

// Tr localizes key for the current language preference.
func (c *Context) Tr(key string) string {
	return i18n.Printer(c.Store.Snapshot().Language).Sprintf(key)
}

// View is the contract every tab view fulfills. Editing reports
// whether the view currently owns the keyboard (a form or confirm
// dialog is open), which suppresses the app's global bindings.
type View interface {
	Init() tea.Cmd
	Update(msg tea.Msg) tea.Cmd
	View() string
	Editing() bool
}

// actionCmd runs an action off the UI goroutine. Errors surface
// through the store as notifications, so the command result is
// discarded.
func actionCmd(fn func() error) tea.Cmd {
	return func() tea.Msg {
		fn() //nolint:errcheck // failures arrive as store notifications
		return nil
	}
}

// clamp returns val clamped between minVal and maxVal
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// parseDate parses the YYYY-MM-DD form input format.
func parseDate(s string) (time.Time, bool) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// fmtDate renders a date for list rows, or a dash when unset.
func fmtDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02")
}

// Swapped out in tests.
var timeNow = time.Now
