package persist

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kidandcat/vatrack/internal/kvstore"
	"github.com/kidandcat/vatrack/internal/model"
)

// Local keeps tasks and time logs as JSON documents in the key-value
// store. It is the fallback path used when no database is configured.
type Local struct {
	mu sync.Mutex
	kv *kvstore.Store
}

func OpenLocal(kv *kvstore.Store) *Local {
	return &Local{kv: kv}
}

func (s *Local) Close() error { return nil }

func (s *Local) loadTasks() ([]model.Task, error) {
	var tasks []model.Task
	if _, err := s.kv.Get(kvstore.KeyTasks, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *Local) loadLogs() ([]model.TimeLog, error) {
	var logs []model.TimeLog
	if _, err := s.kv.Get(kvstore.KeyTimeLogs, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

func (s *Local) ListTasks(f Filter) ([]model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.loadTasks()
	if err != nil {
		return nil, err
	}
	var out []model.Task
	for _, t := range tasks {
		if f.match(t) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *Local) CreateTask(t model.Task) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.loadTasks()
	if err != nil {
		return model.Task{}, err
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now
	t.Normalize()
	tasks = append([]model.Task{t}, tasks...)
	if err := s.kv.Set(kvstore.KeyTasks, tasks); err != nil {
		return model.Task{}, err
	}
	return t, nil
}

func (s *Local) UpdateTask(id string, patch model.TaskPatch) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.loadTasks()
	if err != nil {
		return model.Task{}, err
	}
	for i := range tasks {
		if tasks[i].ID != id {
			continue
		}
		patch.Apply(&tasks[i], time.Now())
		if err := s.kv.Set(kvstore.KeyTasks, tasks); err != nil {
			return model.Task{}, err
		}
		return tasks[i], nil
	}
	return model.Task{}, ErrNotFound
}

func (s *Local) DeleteTask(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.loadTasks()
	if err != nil {
		return err
	}
	for i := range tasks {
		if tasks[i].ID == id {
			tasks = append(tasks[:i], tasks[i+1:]...)
			return s.kv.Set(kvstore.KeyTasks, tasks)
		}
	}
	return ErrNotFound
}

func (s *Local) ListTimeLogs(taskID string) ([]model.TimeLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	logs, err := s.loadLogs()
	if err != nil {
		return nil, err
	}
	if taskID == "" {
		return logs, nil
	}
	var out []model.TimeLog
	for _, l := range logs {
		if l.TaskID == taskID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *Local) CreateTimeLog(l model.TimeLog) (model.TimeLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	logs, err := s.loadLogs()
	if err != nil {
		return model.TimeLog{}, err
	}
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	l.CreatedAt = time.Now()
	if l.DurationMinutes < 0 {
		l.DurationMinutes = 0
	}
	logs = append([]model.TimeLog{l}, logs...)
	if err := s.kv.Set(kvstore.KeyTimeLogs, logs); err != nil {
		return model.TimeLog{}, err
	}
	return l, nil
}

func (s *Local) UpdateTimeLog(id string, patch model.TimeLogPatch) (model.TimeLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	logs, err := s.loadLogs()
	if err != nil {
		return model.TimeLog{}, err
	}
	for i := range logs {
		if logs[i].ID != id {
			continue
		}
		patch.Apply(&logs[i])
		if err := s.kv.Set(kvstore.KeyTimeLogs, logs); err != nil {
			return model.TimeLog{}, err
		}
		return logs[i], nil
	}
	return model.TimeLog{}, ErrNotFound
}
