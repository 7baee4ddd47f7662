package store

import (
	"sync"

	"github.com/google/uuid"
)

// Store serializes message dispatch over one snapshot. The snapshot is
// only ever replaced through Dispatch, never written directly, which
// keeps concurrent in-flight actions from corrupting view-visible
// state: messages apply strictly in dispatch order, each atomically.
type Store struct {
	mu       sync.Mutex
	state    State
	watchers map[string]chan struct{}
}

// New creates a Store holding the given initial snapshot.
func New(initial State) *Store {
	return &Store{
		state:    initial,
		watchers: make(map[string]chan struct{}),
	}
}

// Dispatch applies msg to the current snapshot and wakes watchers.
func (s *Store) Dispatch(msg Msg) {
	s.mu.Lock()
	s.state = Apply(s.state, msg)
	targets := make([]chan struct{}, 0, len(s.watchers))
	for _, ch := range s.watchers {
		targets = append(targets, ch)
	}
	s.mu.Unlock()

	// Coalescing signal: a watcher that has not drained yet needs no
	// second wakeup.
	for _, ch := range targets {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Snapshot returns the current state. The returned value is safe to
// read without coordination; reducers never mutate shared slices.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Watch registers a change signal channel. The channel coalesces
// bursts; receivers re-read Snapshot on every signal. The returned
// function unregisters the watcher.
func (s *Store) Watch() (<-chan struct{}, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token := uuid.NewString()
	ch := make(chan struct{}, 1)
	s.watchers[token] = ch

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.watchers, token)
	}
}
