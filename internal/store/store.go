// Package store holds the process-wide application state and fans out
// change notifications, mirroring the single reactive state object the
// views subscribe to.
package store

import (
	"sync"

	"github.com/kidandcat/vatrack/internal/model"
)

// State is the full application snapshot. Slices are shared, not deep
// copied; an update replaces whole keys.
type State struct {
	CurrentUser *model.User
	Tasks       []model.Task
	TimeLogs    []model.TimeLog
	Settings    model.Settings
	Filters     model.Filters
	CurrentView string
	ActiveTimer *model.ActiveTimer
}

type subscriber struct {
	id int
	fn func(State)
}

// Store serializes updates and notifies subscribers in registration order
// after every update. There is no batching: N updates mean N notifications.
type Store struct {
	mu     sync.Mutex
	state  State
	subs   []subscriber
	nextID int
}

func New() *Store {
	return &Store{
		state: State{
			Settings:    model.DefaultSettings(),
			Filters:     model.DefaultFilters(),
			CurrentView: "board",
		},
	}
}

// State returns the current snapshot.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Update is the single authoritative mutation entry point. The mutation
// runs under the lock, so readers never observe a half-applied update;
// subscribers are then invoked synchronously with the merged snapshot.
func (s *Store) Update(mutate func(*State)) {
	s.mu.Lock()
	mutate(&s.state)
	snap := s.state
	subs := make([]subscriber, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(snap)
	}
}

// Subscribe registers fn to run after every update. The returned disposer
// removes the subscription and is safe to call more than once.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// ResetFilters restores the default filter set: every status and priority
// accepted, assignee "all". Calling it twice is the same as calling it once.
func (s *Store) ResetFilters() {
	s.Update(func(st *State) {
		st.Filters = model.DefaultFilters()
	})
}
