package model

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestTaskDecodeAcceptsBothCasings(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{
			"snake_case",
			`{"id":"t1","title":"Call supplier","status":"doing","priority":"high",
			 "assignee_id":"va","due_at":"2025-03-10T09:00:00Z","est_hours":2.5,
			 "customer_name":"Acme","created_at":"2025-03-01T08:00:00Z"}`,
		},
		{
			"camelCase",
			`{"id":"t1","title":"Call supplier","status":"doing","priority":"high",
			 "assigneeId":"va","dueAt":"2025-03-10T09:00:00Z","estHours":2.5,
			 "customerName":"Acme","createdAt":"2025-03-01T08:00:00Z"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var task Task
			if err := json.Unmarshal([]byte(tt.in), &task); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if task.AssigneeID != "va" {
				t.Errorf("AssigneeID = %q", task.AssigneeID)
			}
			if task.DueAt == nil || task.DueAt.Hour() != 9 {
				t.Errorf("DueAt = %v", task.DueAt)
			}
			if task.EstHours == nil || *task.EstHours != 2.5 {
				t.Errorf("EstHours = %v", task.EstHours)
			}
			if task.CustomerName != "Acme" {
				t.Errorf("CustomerName = %q", task.CustomerName)
			}
			if task.CreatedAt.IsZero() {
				t.Error("CreatedAt not decoded")
			}
		})
	}
}

func TestTaskEncodeEmitsSnakeCase(t *testing.T) {
	due := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	task := Task{ID: "t1", Title: "x", Status: StatusTodo, Priority: PriorityNormal,
		AssigneeID: "va", DueAt: &due}

	data, err := json.Marshal(task)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	if !strings.Contains(out, `"assignee_id"`) || !strings.Contains(out, `"due_at"`) {
		t.Errorf("encoded form not snake_case: %s", out)
	}
	if strings.Contains(out, "assigneeId") || strings.Contains(out, "dueAt") {
		t.Errorf("encoded form leaked camelCase: %s", out)
	}
}

func TestTimeLogDecodeAcceptsBothCasings(t *testing.T) {
	in := `{"id":"l1","taskId":"t1","user_id":"va","startedAt":"2025-03-10T09:00:00Z",
		"duration_minutes":45,"locationLat":40.4,"location_lng":-3.7}`
	var l TimeLog
	if err := json.Unmarshal([]byte(in), &l); err != nil {
		t.Fatal(err)
	}
	if l.TaskID != "t1" || l.UserID != "va" {
		t.Errorf("ids = %q/%q", l.TaskID, l.UserID)
	}
	if l.DurationMinutes != 45 {
		t.Errorf("DurationMinutes = %d", l.DurationMinutes)
	}
	if l.LocationLat == nil || *l.LocationLat != 40.4 {
		t.Errorf("LocationLat = %v", l.LocationLat)
	}
	if l.LocationLng == nil || *l.LocationLng != -3.7 {
		t.Errorf("LocationLng = %v", l.LocationLng)
	}
	if !l.Running() {
		t.Error("log without ended_at should be running")
	}
}

func TestTaskPatchDecodeAndApply(t *testing.T) {
	var patch TaskPatch
	in := `{"status":"done","dueAt":"2025-03-20T10:00:00Z","notes":"wrapped up"}`
	if err := json.Unmarshal([]byte(in), &patch); err != nil {
		t.Fatal(err)
	}
	if patch.Title != nil || patch.AssigneeID != nil {
		t.Errorf("unset fields decoded: %+v", patch)
	}

	task := Task{ID: "t1", Title: "keep", Status: StatusDoing, Priority: PriorityHigh}
	now := time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC)
	patch.Apply(&task, now)

	if task.Title != "keep" || task.Priority != PriorityHigh {
		t.Errorf("apply touched unset fields: %+v", task)
	}
	if task.Status != StatusDone || task.Notes != "wrapped up" {
		t.Errorf("apply missed set fields: %+v", task)
	}
	if !task.UpdatedAt.Equal(now) {
		t.Errorf("UpdatedAt = %v, want %v", task.UpdatedAt, now)
	}
}

func TestTaskPatchNullIsIgnored(t *testing.T) {
	var patch TaskPatch
	if err := json.Unmarshal([]byte(`{"title":null,"status":"done"}`), &patch); err != nil {
		t.Fatal(err)
	}
	if patch.Title != nil {
		t.Errorf("explicit null decoded as set: %v", *patch.Title)
	}
	if patch.Status == nil {
		t.Error("status not decoded")
	}
}

func TestTouchesRestricted(t *testing.T) {
	title := "new title"
	assignee := "admin"
	status := StatusDone
	tests := []struct {
		name  string
		patch TaskPatch
		want  bool
	}{
		{"title", TaskPatch{Title: &title}, true},
		{"assignee", TaskPatch{AssigneeID: &assignee}, true},
		{"status only", TaskPatch{Status: &status}, false},
		{"empty", TaskPatch{}, false},
	}
	for _, tt := range tests {
		if got := tt.patch.TouchesRestricted(); got != tt.want {
			t.Errorf("%s: TouchesRestricted = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	neg := -2.0
	task := Task{Status: "bogus", Priority: "", EstHours: &neg}
	task.Normalize()
	if task.Status != StatusTodo {
		t.Errorf("Status = %q, want todo", task.Status)
	}
	if task.Priority != PriorityNormal {
		t.Errorf("Priority = %q, want normal", task.Priority)
	}
	if task.EstHours != nil {
		t.Errorf("negative EstHours kept: %v", *task.EstHours)
	}
}

func TestTimeLogPatchApply(t *testing.T) {
	ended := time.Date(2025, 3, 10, 11, 0, 0, 0, time.UTC)
	minutes := 90
	neg := -5
	l := TimeLog{ID: "l1", DurationMinutes: 10}

	TimeLogPatch{EndedAt: &ended, DurationMinutes: &minutes}.Apply(&l)
	if l.EndedAt == nil || l.DurationMinutes != 90 {
		t.Errorf("apply missed fields: %+v", l)
	}

	TimeLogPatch{DurationMinutes: &neg}.Apply(&l)
	if l.DurationMinutes != 90 {
		t.Errorf("negative duration applied: %d", l.DurationMinutes)
	}
}
