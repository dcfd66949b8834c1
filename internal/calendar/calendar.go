// Package calendar buckets tasks into month and week grids by due
// timestamp and drives period navigation for the calendar view.
package calendar

import (
	"fmt"
	"time"

	"github.com/kidandcat/vatrack/internal/model"
)

type Mode string

const (
	ModeMonth Mode = "month"
	ModeWeek  Mode = "week"
)

// Week view shows a fixed hour range, 06:00 through 20:00 inclusive.
const (
	FirstHour = 6
	LastHour  = 20
)

// MaxChipsPerDay caps how many tasks a month day cell shows before
// collapsing the rest into an overflow count.
const MaxChipsPerDay = 3

// Calendar is the mode × reference-date state machine. It has no terminal
// state; the view resets it whenever it is (re)displayed.
type Calendar struct {
	Mode Mode
	Ref  time.Time
}

func New(now time.Time) Calendar {
	return Calendar{Mode: ModeMonth, Ref: now}
}

// SetMode toggles the display mode without touching the reference date.
func (c *Calendar) SetMode(m Mode) {
	c.Mode = m
}

// Prev shifts the reference date back one period: a month in month mode,
// seven days in week mode.
func (c *Calendar) Prev() {
	if c.Mode == ModeWeek {
		c.Ref = c.Ref.AddDate(0, 0, -7)
		return
	}
	c.Ref = c.Ref.AddDate(0, -1, 0)
}

// Next shifts the reference date forward one period.
func (c *Calendar) Next() {
	if c.Mode == ModeWeek {
		c.Ref = c.Ref.AddDate(0, 0, 7)
		return
	}
	c.Ref = c.Ref.AddDate(0, 1, 0)
}

// Today resets the reference date to the current moment.
func (c *Calendar) Today(now time.Time) {
	c.Ref = now
}

// Title renders the header string for the current mode: "January 2025" in
// month mode, "Jan 2 - Jan 8, 2025" in week mode.
func (c Calendar) Title() string {
	if c.Mode == ModeWeek {
		start := StartOfWeek(c.Ref)
		end := start.AddDate(0, 0, 6)
		return fmt.Sprintf("%s - %s", start.Format("Jan 2"), end.Format("Jan 2, 2006"))
	}
	return c.Ref.Format("January 2006")
}

// StartOfWeek returns midnight of the most recent Sunday on or before t.
func StartOfWeek(t time.Time) time.Time {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return d.AddDate(0, 0, -int(d.Weekday()))
}

// DayCell is one cell of the month grid. Leading placeholder cells before
// the first of the month have Empty set and no date.
type DayCell struct {
	Date     time.Time
	Day      int
	Empty    bool
	Today    bool
	Tasks    []model.Task
	Overflow int
}

// MonthGrid lays out the calendar month containing ref: placeholder cells
// up to the weekday of the 1st (Sunday = 0), then one cell per day. A day
// cell holds every task whose due date, ignoring time of day, equals that
// day, truncated to MaxChipsPerDay with the remainder in Overflow.
func MonthGrid(ref time.Time, tasks []model.Task, now time.Time) []DayCell {
	loc := ref.Location()
	first := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, loc)
	daysInMonth := first.AddDate(0, 1, -1).Day()

	cells := make([]DayCell, 0, int(first.Weekday())+daysInMonth)
	for i := 0; i < int(first.Weekday()); i++ {
		cells = append(cells, DayCell{Empty: true})
	}
	for day := 1; day <= daysInMonth; day++ {
		date := time.Date(ref.Year(), ref.Month(), day, 0, 0, 0, 0, loc)
		cell := DayCell{Date: date, Day: day, Today: sameDate(date, now)}
		for _, t := range tasks {
			if t.DueAt == nil || !sameDate(t.DueAt.In(loc), date) {
				continue
			}
			if len(cell.Tasks) < MaxChipsPerDay {
				cell.Tasks = append(cell.Tasks, t)
			} else {
				cell.Overflow++
			}
		}
		cells = append(cells, cell)
	}
	return cells
}

// HourCell is one day × hour slot of the week grid. A task lands in the
// slot only when its due timestamp matches both the calendar date and the
// hour of day exactly.
type HourCell struct {
	Day   time.Time
	Hour  int
	Tasks []model.Task
}

// WeekRow is one hour row across the seven days of the week.
type WeekRow struct {
	Hour  int
	Cells [7]HourCell
}

// WeekGrid lays out the week containing ref as hour rows from FirstHour
// to LastHour.
func WeekGrid(ref time.Time, tasks []model.Task) []WeekRow {
	loc := ref.Location()
	start := StartOfWeek(ref)

	rows := make([]WeekRow, 0, LastHour-FirstHour+1)
	for hour := FirstHour; hour <= LastHour; hour++ {
		row := WeekRow{Hour: hour}
		for i := 0; i < 7; i++ {
			day := start.AddDate(0, 0, i)
			cell := HourCell{Day: day, Hour: hour}
			for _, t := range tasks {
				if t.DueAt == nil {
					continue
				}
				due := t.DueAt.In(loc)
				if sameDate(due, day) && due.Hour() == hour {
					cell.Tasks = append(cell.Tasks, t)
				}
			}
			row.Cells[i] = cell
		}
		rows = append(rows, row)
	}
	return rows
}

// WeekDays returns the seven day headers for the week containing ref.
func WeekDays(ref time.Time) [7]time.Time {
	start := StartOfWeek(ref)
	var days [7]time.Time
	for i := range days {
		days[i] = start.AddDate(0, 0, i)
	}
	return days
}

func sameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// CanReschedule reports whether user may drag the task to a new slot:
// admins always, otherwise only the task's assignee.
func CanReschedule(user *model.User, t model.Task) bool {
	if user == nil {
		return false
	}
	if user.Role == model.RoleAdmin {
		return true
	}
	return t.AssigneeID == user.ID
}

// ReschedulePatch builds the partial update a drop applies: the due
// timestamp and nothing else.
func ReschedulePatch(to time.Time) model.TaskPatch {
	return model.TaskPatch{DueAt: &to}
}
