package store

import (
	"testing"

	"github.com/kidandcat/vatrack/internal/model"
)

func TestDefaults(t *testing.T) {
	s := New()
	st := s.State()
	if st.CurrentView != "board" {
		t.Errorf("CurrentView = %q, want board", st.CurrentView)
	}
	if st.Filters.Assignee != model.AssigneeAll {
		t.Errorf("Filters.Assignee = %q, want all", st.Filters.Assignee)
	}
	if len(st.Filters.Status) != 0 || len(st.Filters.Priority) != 0 {
		t.Errorf("default filter sets should be empty, got %v / %v", st.Filters.Status, st.Filters.Priority)
	}
	if st.Settings != model.DefaultSettings() {
		t.Errorf("Settings = %+v, want defaults", st.Settings)
	}
}

func TestUpdateNotifiesWithMergedSnapshot(t *testing.T) {
	s := New()
	var got State
	s.Subscribe(func(st State) { got = st })

	s.Update(func(st *State) {
		st.CurrentView = "calendar"
		st.Tasks = []model.Task{{ID: "t1"}}
	})

	if got.CurrentView != "calendar" {
		t.Errorf("snapshot CurrentView = %q, want calendar", got.CurrentView)
	}
	if len(got.Tasks) != 1 {
		t.Fatalf("snapshot has %d tasks, want 1", len(got.Tasks))
	}
	// Untouched keys survive the merge.
	if got.Filters.Assignee != model.AssigneeAll {
		t.Errorf("merge dropped Filters, got %+v", got.Filters)
	}
}

func TestEveryUpdateNotifies(t *testing.T) {
	s := New()
	var count int
	s.Subscribe(func(State) { count++ })

	for i := 0; i < 5; i++ {
		s.Update(func(st *State) { st.CurrentView = "list" })
	}
	if count != 5 {
		t.Errorf("got %d notifications for 5 updates", count)
	}
}

func TestNotifyOrder(t *testing.T) {
	s := New()
	var order []int
	s.Subscribe(func(State) { order = append(order, 1) })
	s.Subscribe(func(State) { order = append(order, 2) })
	s.Subscribe(func(State) { order = append(order, 3) })

	s.Update(func(st *State) {})

	want := []int{1, 2, 3}
	if len(order) != len(want) {
		t.Fatalf("got %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("got %v, want %v", order, want)
		}
	}
}

func TestDisposerIsIdempotent(t *testing.T) {
	s := New()
	var a, b int
	cancelA := s.Subscribe(func(State) { a++ })
	s.Subscribe(func(State) { b++ })

	cancelA()
	cancelA()

	s.Update(func(st *State) {})
	if a != 0 {
		t.Errorf("cancelled subscriber ran %d times", a)
	}
	if b != 1 {
		t.Errorf("surviving subscriber ran %d times, want 1", b)
	}
}

func TestSubscriberAddedDuringNotifyDoesNotFireForSameUpdate(t *testing.T) {
	s := New()
	var late int
	s.Subscribe(func(State) {
		s.Subscribe(func(State) { late++ })
	})

	s.Update(func(st *State) {})
	if late != 0 {
		t.Errorf("late subscriber ran %d times for the update that registered it", late)
	}
}

func TestResetFilters(t *testing.T) {
	s := New()
	s.Update(func(st *State) {
		st.Filters.Assignee = "va"
		st.Filters.Status = []model.Status{model.StatusDone}
		st.Filters.Priority = []model.Priority{model.PriorityUrgent}
	})

	s.ResetFilters()
	s.ResetFilters()

	f := s.State().Filters
	if f.Assignee != model.AssigneeAll || len(f.Status) != 0 || len(f.Priority) != 0 {
		t.Errorf("filters not reset: %+v", f)
	}
}
