// Package timer owns the single active time-tracking session and the
// once-per-second display refresh that shows it.
package timer

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kidandcat/vatrack/internal/model"
)

var (
	ErrGeolocationUnavailable = errors.New("geolocation unavailable")
	ErrGeolocationDenied      = errors.New("geolocation permission denied")
)

// Saver persists the active-timer snapshot so a restart resumes a running
// timer. Saving nil clears the snapshot.
type Saver interface {
	SaveActiveTimer(*model.ActiveTimer) error
}

// Controller enforces the at-most-one-active-timer invariant. Starting a
// timer while another runs replaces it; the replaced session is discarded,
// not logged.
type Controller struct {
	mu     sync.Mutex
	active *model.ActiveTimer
	saver  Saver

	display chan struct{}
}

func NewController(saver Saver) *Controller {
	return &Controller{saver: saver}
}

// Restore adopts a previously persisted snapshot, if any.
func (c *Controller) Restore(t *model.ActiveTimer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = t
}

// Active returns a copy of the running timer, or nil.
func (c *Controller) Active() *model.ActiveTimer {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == nil {
		return nil
	}
	t := *c.active
	return &t
}

// Start begins tracking taskID. Any timer already running is dropped
// without producing a time log; its minutes are only recorded on an
// explicit pause.
func (c *Controller) Start(taskID string, now time.Time) model.ActiveTimer {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = &model.ActiveTimer{TaskID: taskID, StartedAt: now}
	c.save()
	return *c.active
}

// Pause finalizes the running timer into a TimeLog and clears it. The
// second return is false when no timer was running.
func (c *Controller) Pause(userID string, now time.Time) (model.TimeLog, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == nil {
		return model.TimeLog{}, false
	}
	ended := now
	logEntry := model.TimeLog{
		ID:              uuid.NewString(),
		TaskID:          c.active.TaskID,
		UserID:          userID,
		StartedAt:       c.active.StartedAt,
		EndedAt:         &ended,
		DurationMinutes: c.active.ElapsedMinutes(now),
		CreatedAt:       now,
	}
	if c.active.Location != nil {
		lat, lng := c.active.Location.Lat, c.active.Location.Lng
		logEntry.LocationLat = &lat
		logEntry.LocationLng = &lng
	}
	c.active = nil
	c.save()
	return logEntry, true
}

// LogLocation attaches a position to the running timer. It is a no-op
// when no timer is running; geolocation failures surface to the caller as
// ErrGeolocationUnavailable or ErrGeolocationDenied and never abort the
// surrounding view.
func (c *Controller) LogLocation(lat, lng float64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == nil {
		return false
	}
	c.active.Location = &model.Location{Lat: lat, Lng: lng}
	c.save()
	return true
}

func (c *Controller) save() {
	if c.saver == nil {
		return
	}
	if err := c.saver.SaveActiveTimer(c.active); err != nil {
		log.Printf("error saving active timer snapshot: %v", err)
	}
}

// StartDisplay begins a once-per-second elapsed-time refresh, invoking fn
// with the running timer's elapsed minutes. At most one display exists:
// starting a new one cancels the previous owner first. The returned stop
// function is idempotent.
func (c *Controller) StartDisplay(fn func(elapsedMinutes int)) (stop func()) {
	c.mu.Lock()
	if c.display != nil {
		close(c.display)
	}
	done := make(chan struct{})
	c.display = done
	c.mu.Unlock()

	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case now := <-ticker.C:
				if active := c.Active(); active != nil {
					fn(active.ElapsedMinutes(now))
				}
			}
		}
	}()

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		// Only the current owner closes; a handle that was already
		// replaced by a newer display finds its channel closed.
		if c.display == done {
			c.display = nil
			close(done)
		}
	}
}
