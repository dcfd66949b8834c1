package view

import (
	"testing"
	"time"

	"github.com/kidandcat/vatrack/internal/model"
)

var (
	admin = &model.User{ID: "admin", Role: model.RoleAdmin}
	va    = &model.User{ID: "va", Role: model.RoleVA}
)

func sampleTasks() []model.Task {
	return []model.Task{
		{ID: "t1", Status: model.StatusTodo, Priority: model.PriorityHigh, AssigneeID: "va"},
		{ID: "t2", Status: model.StatusDoing, Priority: model.PriorityLow, AssigneeID: "admin"},
		{ID: "t3", Status: model.StatusDone, Priority: model.PriorityUrgent, AssigneeID: "va"},
		{ID: "t4", Status: model.StatusTodo, Priority: model.PriorityNormal},
	}
}

func ids(tasks []model.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func TestVisibleTasks(t *testing.T) {
	tests := []struct {
		name    string
		user    *model.User
		filters model.Filters
		want    []string
	}{
		{
			name:    "empty filter sets pass everything",
			user:    admin,
			filters: model.DefaultFilters(),
			want:    []string{"t1", "t2", "t3", "t4"},
		},
		{
			name:    "admin assignee filter",
			user:    admin,
			filters: model.Filters{Assignee: "va"},
			want:    []string{"t1", "t3"},
		},
		{
			name:    "va only sees own tasks",
			user:    va,
			filters: model.DefaultFilters(),
			want:    []string{"t1", "t3"},
		},
		{
			name:    "va scope is not overridable by the assignee filter",
			user:    va,
			filters: model.Filters{Assignee: "admin"},
			want:    []string{"t1", "t3"},
		},
		{
			name:    "status filter",
			user:    admin,
			filters: model.Filters{Assignee: model.AssigneeAll, Status: []model.Status{model.StatusTodo}},
			want:    []string{"t1", "t4"},
		},
		{
			name: "status and priority intersect",
			user: admin,
			filters: model.Filters{
				Assignee: model.AssigneeAll,
				Status:   []model.Status{model.StatusTodo, model.StatusDone},
				Priority: []model.Priority{model.PriorityUrgent},
			},
			want: []string{"t3"},
		},
		{
			name:    "no user behaves like admin scope",
			user:    nil,
			filters: model.Filters{Assignee: "admin"},
			want:    []string{"t2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(VisibleTasks(sampleTasks(), tt.user, tt.filters))
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestColumnsPartitionTasks(t *testing.T) {
	cols := Columns(sampleTasks())
	total := 0
	for _, s := range model.Statuses() {
		total += len(cols[s])
	}
	if total != len(sampleTasks()) {
		t.Errorf("columns hold %d tasks, want %d", total, len(sampleTasks()))
	}
	if len(cols[model.StatusTodo]) != 2 {
		t.Errorf("todo column has %d tasks, want 2", len(cols[model.StatusTodo]))
	}
}

func TestCalculateStats(t *testing.T) {
	now := time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC)
	yesterday := now.AddDate(0, 0, -1)
	logs := []model.TimeLog{
		{ID: "l1", TaskID: "t1", StartedAt: now.Add(-4 * time.Hour), DurationMinutes: 180},
		{ID: "l2", TaskID: "t1", StartedAt: now.Add(-1 * time.Hour), DurationMinutes: 120},
		{ID: "l3", TaskID: "t2", StartedAt: yesterday, DurationMinutes: 60},
	}
	settings := model.Settings{HourlyRate: 5, DailyGoal: 10}

	st := Calculate(sampleTasks(), logs, settings, now)

	if st.TotalTasks != 4 {
		t.Errorf("TotalTasks = %d, want 4", st.TotalTasks)
	}
	if st.CompletedTasks != 1 || st.InProgressTasks != 1 {
		t.Errorf("Completed/InProgress = %d/%d, want 1/1", st.CompletedTasks, st.InProgressTasks)
	}
	if st.TotalHours != 6 {
		t.Errorf("TotalHours = %v, want 6", st.TotalHours)
	}
	if st.TotalRevenue != 30 {
		t.Errorf("TotalRevenue = %v, want 30", st.TotalRevenue)
	}
	if st.TodayHours != 5 {
		t.Errorf("TodayHours = %v, want 5", st.TodayHours)
	}
	if st.DailyProgress != 50 {
		t.Errorf("DailyProgress = %v, want 50", st.DailyProgress)
	}
}

func TestStatsPartitionProperty(t *testing.T) {
	st := Calculate(sampleTasks(), nil, model.DefaultSettings(), time.Now())

	var byStatus, byPriority int
	for _, s := range model.Statuses() {
		if _, ok := st.ByStatus[s]; !ok {
			t.Errorf("ByStatus missing bucket %q", s)
		}
		byStatus += st.ByStatus[s]
	}
	for _, p := range model.Priorities() {
		if _, ok := st.ByPriority[p]; !ok {
			t.Errorf("ByPriority missing bucket %q", p)
		}
		byPriority += st.ByPriority[p]
	}
	if byStatus != st.TotalTasks || byPriority != st.TotalTasks {
		t.Errorf("partitions sum to %d/%d, want %d", byStatus, byPriority, st.TotalTasks)
	}
}

func TestCalculateEmptyInputs(t *testing.T) {
	st := Calculate(nil, nil, model.Settings{}, time.Now())
	if st.TotalTasks != 0 || st.TotalHours != 0 || st.DailyProgress != 0 {
		t.Errorf("empty inputs should give zero stats, got %+v", st)
	}
	if len(st.ByStatus) != 4 || len(st.ByPriority) != 4 {
		t.Errorf("buckets should still be initialized: %+v", st)
	}
}

func TestRecentLogs(t *testing.T) {
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	logs := []model.TimeLog{
		{ID: "old", StartedAt: base},
		{ID: "newest", StartedAt: base.Add(2 * time.Hour)},
		{ID: "mid", StartedAt: base.Add(time.Hour)},
	}

	got := RecentLogs(logs, 2)
	if len(got) != 2 || got[0].ID != "newest" || got[1].ID != "mid" {
		t.Errorf("RecentLogs = %v", ids2(got))
	}

	// Input order untouched.
	if logs[0].ID != "old" {
		t.Errorf("RecentLogs mutated its input")
	}
}

func ids2(logs []model.TimeLog) []string {
	out := make([]string, len(logs))
	for i, l := range logs {
		out[i] = l.ID
	}
	return out
}

func TestTaskTotalMinutes(t *testing.T) {
	logs := []model.TimeLog{
		{TaskID: "a", DurationMinutes: 30},
		{TaskID: "b", DurationMinutes: 45},
		{TaskID: "a", DurationMinutes: 15},
	}
	if got := TaskTotalMinutes(logs, "a"); got != 45 {
		t.Errorf("TaskTotalMinutes(a) = %d, want 45", got)
	}
	if got := TaskTotalMinutes(logs, "missing"); got != 0 {
		t.Errorf("TaskTotalMinutes(missing) = %d, want 0", got)
	}
}
