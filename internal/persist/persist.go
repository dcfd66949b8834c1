// Package persist is the persistence boundary: tasks and time logs stored
// either in SQLite or, when no database is configured, as JSON documents
// in the local key-value store.
package persist

import (
	"errors"

	"github.com/kidandcat/vatrack/internal/model"
)

// ErrNotFound is returned when an update or delete names a missing record.
var ErrNotFound = errors.New("record not found")

// Filter narrows a task listing. Zero values pass everything.
type Filter struct {
	AssigneeID string
	Status     []model.Status
	Priority   []model.Priority
}

func (f Filter) match(t model.Task) bool {
	if f.AssigneeID != "" && t.AssigneeID != f.AssigneeID {
		return false
	}
	if len(f.Status) > 0 {
		found := false
		for _, s := range f.Status {
			if t.Status == s {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if len(f.Priority) > 0 {
		found := false
		for _, p := range f.Priority {
			if t.Priority == p {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Store is what the rest of the app sees. Every update either fully
// succeeds and returns the new record, or fails leaving state untouched.
type Store interface {
	ListTasks(f Filter) ([]model.Task, error)
	CreateTask(t model.Task) (model.Task, error)
	UpdateTask(id string, patch model.TaskPatch) (model.Task, error)
	DeleteTask(id string) error

	ListTimeLogs(taskID string) ([]model.TimeLog, error)
	CreateTimeLog(l model.TimeLog) (model.TimeLog, error)
	UpdateTimeLog(id string, patch model.TimeLogPatch) (model.TimeLog, error)

	Close() error
}
