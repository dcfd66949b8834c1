package ics

import (
	"strings"
	"testing"
	"time"

	"github.com/kidandcat/vatrack/internal/model"
)

func TestWrite(t *testing.T) {
	due := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	tasks := []model.Task{
		{ID: "t1", Title: "Call supplier", Status: model.StatusDoing,
			Priority: model.PriorityUrgent, DueAt: &due, Notes: "ask about invoice"},
		{ID: "t2", Title: "No due date", Status: model.StatusTodo, Priority: model.PriorityNormal},
	}

	var buf strings.Builder
	if err := Write(&buf, tasks, now); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	if !strings.HasPrefix(out, "BEGIN:VCALENDAR\r\n") {
		t.Errorf("missing calendar preamble: %q", out[:40])
	}
	if !strings.HasSuffix(out, "END:VCALENDAR\r\n") {
		t.Error("missing calendar terminator")
	}
	if got := strings.Count(out, "BEGIN:VEVENT"); got != 1 {
		t.Errorf("%d events, want 1 (no-due task must be skipped)", got)
	}
	if !strings.Contains(out, "UID:t1@vatrack") {
		t.Error("missing event UID")
	}
	if !strings.Contains(out, "DTSTART:20250310T093000Z") {
		t.Error("wrong DTSTART")
	}
	if !strings.Contains(out, "DTEND:20250310T103000Z") {
		t.Error("event should span one hour")
	}
	if !strings.Contains(out, "PRIORITY:1") {
		t.Error("urgent should map to priority 1")
	}
	if !strings.Contains(out, "STATUS:CONFIRMED") {
		t.Error("non-done task should be CONFIRMED")
	}
}

func TestWriteCompletedStatus(t *testing.T) {
	due := time.Now()
	tasks := []model.Task{
		{ID: "t1", Title: "done", Status: model.StatusDone, Priority: model.PriorityLow, DueAt: &due},
	}
	var buf strings.Builder
	if err := Write(&buf, tasks, time.Now()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "STATUS:COMPLETED") {
		t.Error("done task should be COMPLETED")
	}
	if !strings.Contains(buf.String(), "PRIORITY:7") {
		t.Error("low should map to priority 7")
	}
}

func TestEscaping(t *testing.T) {
	due := time.Now()
	tasks := []model.Task{
		{ID: "t1", Title: "a;b,c\nd", Status: model.StatusTodo, Priority: model.PriorityNormal, DueAt: &due},
	}
	var buf strings.Builder
	if err := Write(&buf, tasks, time.Now()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `SUMMARY:a\;b\,c\nd`) {
		t.Errorf("summary not escaped: %s", buf.String())
	}
}

func TestPriorityNumbers(t *testing.T) {
	tests := []struct {
		p    model.Priority
		want string
	}{
		{model.PriorityUrgent, "1"},
		{model.PriorityHigh, "2"},
		{model.PriorityNormal, "5"},
		{model.PriorityLow, "7"},
	}
	for _, tt := range tests {
		if got := priorityNumber(tt.p); got != tt.want {
			t.Errorf("priorityNumber(%s) = %s, want %s", tt.p, got, tt.want)
		}
	}
}
