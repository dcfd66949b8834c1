// Package view derives the task subsets and aggregates every view renders
// from the raw task and time-log lists.
package view

import (
	"sort"
	"time"

	"github.com/kidandcat/vatrack/internal/model"
)

// VisibleTasks applies role scoping and the current filter set, preserving
// input order.
//
// Role scoping is not overridable: a virtual assistant only ever sees
// their own tasks, even when the assignee filter says "all". Admins get
// the assignee filter as-is. An empty status or priority set passes
// everything; that match-all convention is load-bearing and tested.
func VisibleTasks(tasks []model.Task, user *model.User, filters model.Filters) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if user != nil && user.Role == model.RoleVA {
			if t.AssigneeID != user.ID {
				continue
			}
		} else if filters.Assignee != "" && filters.Assignee != model.AssigneeAll {
			if t.AssigneeID != filters.Assignee {
				continue
			}
		}
		if len(filters.Status) > 0 && !containsStatus(filters.Status, t.Status) {
			continue
		}
		if len(filters.Priority) > 0 && !containsPriority(filters.Priority, t.Priority) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func containsStatus(set []model.Status, s model.Status) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

func containsPriority(set []model.Priority, p model.Priority) bool {
	for _, v := range set {
		if v == p {
			return true
		}
	}
	return false
}

// Columns groups tasks into board columns keyed by status, preserving
// input order within each column.
func Columns(tasks []model.Task) map[model.Status][]model.Task {
	cols := make(map[model.Status][]model.Task, 4)
	for _, s := range model.Statuses() {
		cols[s] = nil
	}
	for _, t := range tasks {
		cols[t.Status] = append(cols[t.Status], t)
	}
	return cols
}

// Stats are the dashboard aggregates. ByStatus and ByPriority each
// partition TotalTasks exactly.
type Stats struct {
	TotalTasks      int
	CompletedTasks  int
	InProgressTasks int
	ByStatus        map[model.Status]int
	ByPriority      map[model.Priority]int
	TotalHours      float64
	TotalRevenue    float64
	TodayHours      float64
	DailyProgress   float64
}

// Calculate computes dashboard statistics over the given tasks and logs.
// Today's progress counts logs whose start falls on the same calendar day
// as now, in now's location.
func Calculate(tasks []model.Task, logs []model.TimeLog, settings model.Settings, now time.Time) Stats {
	st := Stats{
		ByStatus:   make(map[model.Status]int, 4),
		ByPriority: make(map[model.Priority]int, 4),
	}
	for _, s := range model.Statuses() {
		st.ByStatus[s] = 0
	}
	for _, p := range model.Priorities() {
		st.ByPriority[p] = 0
	}

	st.TotalTasks = len(tasks)
	for _, t := range tasks {
		st.ByStatus[t.Status]++
		st.ByPriority[t.Priority]++
	}
	st.CompletedTasks = st.ByStatus[model.StatusDone]
	st.InProgressTasks = st.ByStatus[model.StatusDoing]

	var totalMinutes, todayMinutes int
	for _, l := range logs {
		totalMinutes += l.DurationMinutes
		if sameDay(l.StartedAt, now) {
			todayMinutes += l.DurationMinutes
		}
	}
	st.TotalHours = float64(totalMinutes) / 60
	st.TodayHours = float64(todayMinutes) / 60
	st.TotalRevenue = st.TotalHours * settings.HourlyRate
	if settings.DailyGoal > 0 {
		st.DailyProgress = st.TodayHours / settings.DailyGoal * 100
	}
	return st
}

func sameDay(a, b time.Time) bool {
	a = a.In(b.Location())
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// RecentLogs returns the latest n logs by start time, newest first.
func RecentLogs(logs []model.TimeLog, n int) []model.TimeLog {
	out := make([]model.TimeLog, len(logs))
	copy(out, logs)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartedAt.After(out[j].StartedAt)
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// TaskTotalMinutes sums the logged minutes for one task.
func TaskTotalMinutes(logs []model.TimeLog, taskID string) int {
	var total int
	for _, l := range logs {
		if l.TaskID == taskID {
			total += l.DurationMinutes
		}
	}
	return total
}
