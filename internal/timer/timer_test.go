package timer

import (
	"testing"
	"time"

	"github.com/kidandcat/vatrack/internal/model"
)

type recordingSaver struct {
	saves []*model.ActiveTimer
}

func (s *recordingSaver) SaveActiveTimer(t *model.ActiveTimer) error {
	s.saves = append(s.saves, t)
	return nil
}

func TestStartReplacesWithoutLogging(t *testing.T) {
	c := NewController(nil)
	t0 := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	c.Start("task-a", t0)
	c.Start("task-b", t0.Add(30*time.Minute))

	active := c.Active()
	if active == nil || active.TaskID != "task-b" {
		t.Fatalf("active = %+v, want task-b", active)
	}
	// The replaced session's half hour is gone; only task-b's time counts.
	entry, ok := c.Pause("va", t0.Add(90*time.Minute))
	if !ok {
		t.Fatal("pause returned no log")
	}
	if entry.TaskID != "task-b" {
		t.Errorf("log TaskID = %q, want task-b", entry.TaskID)
	}
	if entry.DurationMinutes != 60 {
		t.Errorf("DurationMinutes = %d, want 60", entry.DurationMinutes)
	}
}

func TestPauseFinalizesAndClears(t *testing.T) {
	c := NewController(nil)
	t0 := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	c.Start("task-a", t0)
	c.LogLocation(40.5, -3.7)

	entry, ok := c.Pause("va", t0.Add(125*time.Minute))
	if !ok {
		t.Fatal("pause returned no log")
	}
	if entry.ID == "" {
		t.Error("log has no id")
	}
	if entry.UserID != "va" {
		t.Errorf("UserID = %q, want va", entry.UserID)
	}
	if entry.DurationMinutes != 125 {
		t.Errorf("DurationMinutes = %d, want 125", entry.DurationMinutes)
	}
	if entry.EndedAt == nil || !entry.EndedAt.Equal(t0.Add(125*time.Minute)) {
		t.Errorf("EndedAt = %v", entry.EndedAt)
	}
	if entry.LocationLat == nil || *entry.LocationLat != 40.5 {
		t.Errorf("LocationLat = %v, want 40.5", entry.LocationLat)
	}
	if entry.LocationLng == nil || *entry.LocationLng != -3.7 {
		t.Errorf("LocationLng = %v, want -3.7", entry.LocationLng)
	}
	if c.Active() != nil {
		t.Error("timer still active after pause")
	}
}

func TestPauseWithoutTimer(t *testing.T) {
	c := NewController(nil)
	if _, ok := c.Pause("va", time.Now()); ok {
		t.Error("pause with no active timer should report false")
	}
}

func TestLogLocationWithoutTimer(t *testing.T) {
	c := NewController(nil)
	if c.LogLocation(1, 2) {
		t.Error("LogLocation with no active timer should report false")
	}
}

func TestActiveReturnsCopy(t *testing.T) {
	c := NewController(nil)
	c.Start("task-a", time.Now())

	got := c.Active()
	got.TaskID = "mutated"

	if c.Active().TaskID != "task-a" {
		t.Error("Active leaked internal state")
	}
}

func TestSaverSeesEveryTransition(t *testing.T) {
	saver := &recordingSaver{}
	c := NewController(saver)
	t0 := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	c.Start("task-a", t0)
	c.LogLocation(1, 2)
	c.Pause("va", t0.Add(time.Minute))

	if len(saver.saves) != 3 {
		t.Fatalf("saver called %d times, want 3", len(saver.saves))
	}
	if saver.saves[0] == nil || saver.saves[0].TaskID != "task-a" {
		t.Errorf("first save = %+v", saver.saves[0])
	}
	if saver.saves[1].Location == nil {
		t.Errorf("second save missing location")
	}
	if saver.saves[2] != nil {
		t.Errorf("pause should persist nil, got %+v", saver.saves[2])
	}
}

func TestRestore(t *testing.T) {
	c := NewController(nil)
	snap := &model.ActiveTimer{TaskID: "task-a", StartedAt: time.Now().Add(-time.Hour)}
	c.Restore(snap)

	active := c.Active()
	if active == nil || active.TaskID != "task-a" {
		t.Fatalf("active = %+v", active)
	}

	c.Restore(nil)
	if c.Active() != nil {
		t.Error("Restore(nil) should clear the timer")
	}
}

func TestStopDisplayIsIdempotent(t *testing.T) {
	c := NewController(nil)
	stop := c.StartDisplay(func(int) {})
	stop()
	stop()
}

func TestStartDisplayReplacesPreviousOwner(t *testing.T) {
	c := NewController(nil)
	stop1 := c.StartDisplay(func(int) {})
	stop2 := c.StartDisplay(func(int) {})

	// The replaced owner's stop must not tear down the new display, and
	// running it after the replacement must not panic.
	stop1()
	stop2()
	stop1()
}

func TestElapsedMinutesClamp(t *testing.T) {
	a := model.ActiveTimer{StartedAt: time.Now().Add(time.Hour)}
	if got := a.ElapsedMinutes(time.Now()); got != 0 {
		t.Errorf("future start gives %d minutes, want 0", got)
	}
}
