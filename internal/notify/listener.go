package notify

import (
	"log/slog"
	"sync"

	"github.com/kmckee/teamdash/internal/models"
	"github.com/kmckee/teamdash/internal/store"
)

// Source is the slice of the gateway the listener needs: one full
// list call per watched collection. *db.DB satisfies it.
type Source interface {
	ListProjects() ([]models.Project, error)
	ListTeams() ([]models.Team, error)
	ListMembers() ([]models.Member, error)
	ListTasks() ([]models.Task, error)
}

// Listener subscribes to change notifications for the projects,
// teams, users and tasks tables and answers each with a coarse
// refetch: the delta is discarded and the whole collection is listed
// again and dispatched wholesale. Correctness therefore depends only
// on the list calls, never on interpreting a change payload.
type Listener struct {
	src    Source
	store  *store.Store
	logger *slog.Logger

	mu     sync.Mutex
	unsubs []func()
}

// NewListener wires a listener to a bus, a gateway and a store.
func NewListener(bus *Bus, src Source, st *store.Store, logger *slog.Logger) *Listener {
	if logger == nil {
		logger = slog.Default()
	}
	l := &Listener{src: src, store: st, logger: logger}

	l.mu.Lock()
	for _, table := range []string{"projects", "teams", "users", "tasks"} {
		l.unsubs = append(l.unsubs, bus.Subscribe(table, l.onChange))
	}
	l.mu.Unlock()

	st.Dispatch(store.SetConnected{Connected: true})
	return l
}

// onChange refetches the affected collection in the background.
// Refetches are fire-and-forget and never de-duplicated; overlapping
// responses apply in arrival order.
func (l *Listener) onChange(table string) {
	go l.refetch(table)
}

func (l *Listener) refetch(table string) {
	var err error
	switch table {
	case "projects":
		var projects []models.Project
		if projects, err = l.src.ListProjects(); err == nil {
			l.store.Dispatch(store.SetProjects{Projects: projects})
		}
	case "teams":
		var teams []models.Team
		if teams, err = l.src.ListTeams(); err == nil {
			l.store.Dispatch(store.SetTeams{Teams: teams})
		}
	case "users":
		var members []models.Member
		if members, err = l.src.ListMembers(); err == nil {
			l.store.Dispatch(store.SetMembers{Members: members})
		}
	case "tasks":
		var tasks []models.Task
		if tasks, err = l.src.ListTasks(); err == nil {
			l.store.Dispatch(store.SetTasks{Tasks: tasks})
		}
	}
	if err != nil {
		l.logger.Error("refetch failed", slog.String("table", table), slog.Any("err", err))
		l.store.Dispatch(store.SetError{Err: err.Error()})
	}
}

// Close tears down the subscriptions and clears the connected flag.
// In-flight refetches are not cancelled; a late response dispatching
// after Close is harmless.
func (l *Listener) Close() {
	l.mu.Lock()
	unsubs := l.unsubs
	l.unsubs = nil
	l.mu.Unlock()

	for _, unsub := range unsubs {
		unsub()
	}
	l.store.Dispatch(store.SetConnected{Connected: false})
}
