package model

import "time"

type Status string

const (
	StatusTodo   Status = "todo"
	StatusDoing  Status = "doing"
	StatusReview Status = "review"
	StatusDone   Status = "done"
)

// Statuses returns every status in board-column order.
func Statuses() []Status {
	return []Status{StatusTodo, StatusDoing, StatusReview, StatusDone}
}

func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusDoing, StatusReview, StatusDone:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

func Priorities() []Priority {
	return []Priority{PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent}
}

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

type Role string

const (
	RoleAdmin Role = "admin"
	RoleVA    Role = "va"
)

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

type Task struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Status        Status     `json:"status"`
	Priority      Priority   `json:"priority"`
	AssigneeID    string     `json:"assignee_id,omitempty"`
	DueAt         *time.Time `json:"due_at,omitempty"`
	EstHours      *float64   `json:"est_hours,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	CustomerName  string     `json:"customer_name,omitempty"`
	CustomerPhone string     `json:"customer_phone,omitempty"`
	CustomerEmail string     `json:"customer_email,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Normalize fills defaults so status and priority are always one of the
// enumerated values.
func (t *Task) Normalize() {
	if !t.Status.Valid() {
		t.Status = StatusTodo
	}
	if !t.Priority.Valid() {
		t.Priority = PriorityNormal
	}
	if t.EstHours != nil && *t.EstHours < 0 {
		t.EstHours = nil
	}
}

type TimeLog struct {
	ID              string     `json:"id"`
	TaskID          string     `json:"task_id"`
	UserID          string     `json:"user_id"`
	StartedAt       time.Time  `json:"started_at"`
	EndedAt         *time.Time `json:"ended_at,omitempty"`
	DurationMinutes int        `json:"duration_minutes"`
	LocationLat     *float64   `json:"location_lat,omitempty"`
	LocationLng     *float64   `json:"location_lng,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// Running reports whether the log is still accruing time.
func (l TimeLog) Running() bool {
	return l.EndedAt == nil
}

type Settings struct {
	HourlyRate float64 `json:"hourly_rate"`
	DailyGoal  float64 `json:"daily_goal"`
}

func DefaultSettings() Settings {
	return Settings{HourlyRate: 5, DailyGoal: 10}
}

// AssigneeAll is the filter value that passes every assignee.
const AssigneeAll = "all"

// Filters is the transient, process-wide task filter set. An empty status
// or priority set passes everything; that is deliberate, not a default
// that slipped through.
type Filters struct {
	Assignee string     `json:"assignee"`
	Status   []Status   `json:"status"`
	Priority []Priority `json:"priority"`
}

func DefaultFilters() Filters {
	return Filters{Assignee: AssigneeAll}
}

// Location is a latitude/longitude pair captured while a timer runs.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ActiveTimer is the single in-progress time-tracking session. It exists
// only while a timer runs and is cleared on pause.
type ActiveTimer struct {
	TaskID    string    `json:"task_id"`
	StartedAt time.Time `json:"started_at"`
	Elapsed   int       `json:"elapsed"`
	Location  *Location `json:"location,omitempty"`
}

// ElapsedMinutes returns whole minutes accrued since the timer started.
func (a ActiveTimer) ElapsedMinutes(now time.Time) int {
	m := int(now.Sub(a.StartedAt).Minutes())
	if m < 0 {
		return 0
	}
	return m
}
