package model

import (
	"encoding/json"
	"time"
)

// The persistence collaborator emits fields in either camelCase or
// snake_case depending on which path served the request. Decoding accepts
// both spellings and normalizes immediately; the rest of the code only
// ever sees the canonical snake_case set, which is what encoding emits.

func coalesce(m map[string]json.RawMessage, dst any, names ...string) error {
	for _, n := range names {
		raw, ok := m[n]
		if !ok || string(raw) == "null" {
			continue
		}
		return json.Unmarshal(raw, dst)
	}
	return nil
}

func (t *Task) UnmarshalJSON(data []byte) error {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	fields := []struct {
		dst   any
		names []string
	}{
		{&t.ID, []string{"id"}},
		{&t.Title, []string{"title"}},
		{&t.Status, []string{"status"}},
		{&t.Priority, []string{"priority"}},
		{&t.AssigneeID, []string{"assignee_id", "assigneeId"}},
		{&t.DueAt, []string{"due_at", "dueAt"}},
		{&t.EstHours, []string{"est_hours", "estHours"}},
		{&t.Notes, []string{"notes"}},
		{&t.CustomerName, []string{"customer_name", "customerName"}},
		{&t.CustomerPhone, []string{"customer_phone", "customerPhone"}},
		{&t.CustomerEmail, []string{"customer_email", "customerEmail"}},
		{&t.CreatedAt, []string{"created_at", "createdAt"}},
		{&t.UpdatedAt, []string{"updated_at", "updatedAt"}},
	}
	for _, f := range fields {
		if err := coalesce(m, f.dst, f.names...); err != nil {
			return err
		}
	}
	return nil
}

func (l *TimeLog) UnmarshalJSON(data []byte) error {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	fields := []struct {
		dst   any
		names []string
	}{
		{&l.ID, []string{"id"}},
		{&l.TaskID, []string{"task_id", "taskId"}},
		{&l.UserID, []string{"user_id", "userId"}},
		{&l.StartedAt, []string{"started_at", "startedAt"}},
		{&l.EndedAt, []string{"ended_at", "endedAt"}},
		{&l.DurationMinutes, []string{"duration_minutes", "durationMinutes"}},
		{&l.LocationLat, []string{"location_lat", "locationLat"}},
		{&l.LocationLng, []string{"location_lng", "locationLng"}},
		{&l.CreatedAt, []string{"created_at", "createdAt"}},
	}
	for _, f := range fields {
		if err := coalesce(m, f.dst, f.names...); err != nil {
			return err
		}
	}
	return nil
}

// TaskPatch is a partial task update. Nil fields are left untouched.
type TaskPatch struct {
	Title         *string
	Status        *Status
	Priority      *Priority
	AssigneeID    *string
	DueAt         *time.Time
	EstHours      *float64
	Notes         *string
	CustomerName  *string
	CustomerPhone *string
	CustomerEmail *string
}

func (p *TaskPatch) UnmarshalJSON(data []byte) error {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	fields := []struct {
		dst   any
		names []string
	}{
		{&p.Title, []string{"title"}},
		{&p.Status, []string{"status"}},
		{&p.Priority, []string{"priority"}},
		{&p.AssigneeID, []string{"assignee_id", "assigneeId"}},
		{&p.DueAt, []string{"due_at", "dueAt"}},
		{&p.EstHours, []string{"est_hours", "estHours"}},
		{&p.Notes, []string{"notes"}},
		{&p.CustomerName, []string{"customer_name", "customerName"}},
		{&p.CustomerPhone, []string{"customer_phone", "customerPhone"}},
		{&p.CustomerEmail, []string{"customer_email", "customerEmail"}},
	}
	for _, f := range fields {
		if err := coalesce(m, f.dst, f.names...); err != nil {
			return err
		}
	}
	return nil
}

// Apply copies the set fields onto the task and bumps UpdatedAt.
func (p TaskPatch) Apply(t *Task, now time.Time) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.AssigneeID != nil {
		t.AssigneeID = *p.AssigneeID
	}
	if p.DueAt != nil {
		due := *p.DueAt
		t.DueAt = &due
	}
	if p.EstHours != nil {
		est := *p.EstHours
		t.EstHours = &est
	}
	if p.Notes != nil {
		t.Notes = *p.Notes
	}
	if p.CustomerName != nil {
		t.CustomerName = *p.CustomerName
	}
	if p.CustomerPhone != nil {
		t.CustomerPhone = *p.CustomerPhone
	}
	if p.CustomerEmail != nil {
		t.CustomerEmail = *p.CustomerEmail
	}
	t.Normalize()
	t.UpdatedAt = now
}

// TouchesRestricted reports whether the patch edits fields a virtual
// assistant is not allowed to change on their own tasks.
func (p TaskPatch) TouchesRestricted() bool {
	return p.Title != nil || p.AssigneeID != nil
}

// TimeLogPatch is a partial time log update. Nil fields are left untouched.
type TimeLogPatch struct {
	EndedAt         *time.Time
	DurationMinutes *int
	LocationLat     *float64
	LocationLng     *float64
}

func (p *TimeLogPatch) UnmarshalJSON(data []byte) error {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	fields := []struct {
		dst   any
		names []string
	}{
		{&p.EndedAt, []string{"ended_at", "endedAt"}},
		{&p.DurationMinutes, []string{"duration_minutes", "durationMinutes"}},
		{&p.LocationLat, []string{"location_lat", "locationLat"}},
		{&p.LocationLng, []string{"location_lng", "locationLng"}},
	}
	for _, f := range fields {
		if err := coalesce(m, f.dst, f.names...); err != nil {
			return err
		}
	}
	return nil
}

func (p TimeLogPatch) Apply(l *TimeLog) {
	if p.EndedAt != nil {
		ended := *p.EndedAt
		l.EndedAt = &ended
	}
	if p.DurationMinutes != nil && *p.DurationMinutes >= 0 {
		l.DurationMinutes = *p.DurationMinutes
	}
	if p.LocationLat != nil {
		lat := *p.LocationLat
		l.LocationLat = &lat
	}
	if p.LocationLng != nil {
		lng := *p.LocationLng
		l.LocationLng = &lng
	}
}
