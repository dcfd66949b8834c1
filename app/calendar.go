package main

import (
	"time"

	"github.com/maxence-charriere/go-app/v10/pkg/app"

	"github.com/kidandcat/vatrack/internal/calendar"
	"github.com/kidandcat/vatrack/internal/model"
	"github.com/kidandcat/vatrack/internal/store"
	"github.com/kidandcat/vatrack/internal/view"
)

var weekdayNames = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

func (c *TrackerView) renderCalendar(st store.State) app.UI {
	visible := view.VisibleTasks(st.Tasks, st.CurrentUser, st.Filters)

	var grid app.UI
	if c.cal.Mode == calendar.ModeWeek {
		grid = c.renderWeekGrid(st, visible)
	} else {
		grid = c.renderMonthGrid(st, visible)
	}

	modeBtn := func(m calendar.Mode, label string) app.UI {
		cls := "btn"
		if c.cal.Mode == m {
			cls += " active"
		}
		return app.Button().Class(cls).Text(label).
			OnClick(func(ctx app.Context, e app.Event) {
				c.cal.SetMode(m)
			})
	}

	return app.Div().Class("calendar").Body(
		app.Div().Class("calendar-toolbar").Body(
			app.Button().Class("btn").Text("‹").
				OnClick(func(ctx app.Context, e app.Event) {
					c.cal.Prev()
				}),
			app.Button().Class("btn").Text("Today").
				OnClick(func(ctx app.Context, e app.Event) {
					c.cal.Today(time.Now())
				}),
			app.Button().Class("btn").Text("›").
				OnClick(func(ctx app.Context, e app.Event) {
					c.cal.Next()
				}),
			app.H2().Class("calendar-title").Text(c.cal.Title()),
			app.Div().Class("calendar-modes").Body(
				modeBtn(calendar.ModeMonth, "Month"),
				modeBtn(calendar.ModeWeek, "Week"),
			),
		),
		grid,
	)
}

func (c *TrackerView) renderMonthGrid(st store.State, tasks []model.Task) app.UI {
	cells := calendar.MonthGrid(c.cal.Ref, tasks, time.Now())

	return app.Div().Class("month-grid").Body(
		app.Range(weekdayNames).Slice(func(i int) app.UI {
			return app.Div().Class("weekday-header").Text(weekdayNames[i])
		}),
		app.Range(cells).Slice(func(i int) app.UI {
			cell := cells[i]
			if cell.Empty {
				return app.Div().Class("day-cell empty")
			}
			cls := "day-cell"
			if cell.Today {
				cls += " today"
			}
			date := cell.Date
			return app.Div().Class(cls).
				OnDragOver(func(ctx app.Context, e app.Event) {
					e.PreventDefault()
				}).
				OnDrop(func(ctx app.Context, e app.Event) {
					e.PreventDefault()
					c.dropOnDay(ctx, st, date)
				}).
				Body(
					app.Div().Class("day-number").Textf("%d", cell.Day),
					app.Range(cell.Tasks).Slice(func(j int) app.UI {
						return c.renderCalendarChip(st, cell.Tasks[j])
					}),
					app.If(cell.Overflow > 0, func() app.UI {
						return app.Div().Class("overflow").Textf("+%d more", cell.Overflow)
					}),
				)
		}),
	)
}

func (c *TrackerView) renderWeekGrid(st store.State, tasks []model.Task) app.UI {
	rows := calendar.WeekGrid(c.cal.Ref, tasks)
	days := calendar.WeekDays(c.cal.Ref)

	return app.Div().Class("week-grid").Body(
		app.Div().Class("week-header").Body(
			app.Div().Class("hour-label"),
			app.Range(days[:]).Slice(func(i int) app.UI {
				return app.Div().Class("weekday-header").
					Text(days[i].Format("Mon 2"))
			}),
		),
		app.Range(rows).Slice(func(i int) app.UI {
			row := rows[i]
			return app.Div().Class("week-row").Body(
				app.Div().Class("hour-label").Textf("%02d:00", row.Hour),
				app.Range(row.Cells[:]).Slice(func(j int) app.UI {
					cell := row.Cells[j]
					return app.Div().Class("hour-cell").
						OnDragOver(func(ctx app.Context, e app.Event) {
							e.PreventDefault()
						}).
						OnDrop(func(ctx app.Context, e app.Event) {
							e.PreventDefault()
							c.dropOnHour(ctx, st, cell.Day, cell.Hour)
						}).
						Body(
							app.Range(cell.Tasks).Slice(func(k int) app.UI {
								return c.renderCalendarChip(st, cell.Tasks[k])
							}),
						)
				}),
			)
		}),
	)
}

func (c *TrackerView) renderCalendarChip(st store.State, t model.Task) app.UI {
	return app.Div().
		Class("calendar-chip priority-"+string(t.Priority)).
		Draggable(calendar.CanReschedule(st.CurrentUser, t)).
		OnDragStart(func(ctx app.Context, e app.Event) {
			c.dragTaskID = t.ID
		}).
		OnClick(func(ctx app.Context, e app.Event) {
			c.drawerTaskID = t.ID
		}).
		Text(t.Title)
}

// dropOnDay reschedules the dragged task onto a month day, keeping its
// time of day when it has one.
func (c *TrackerView) dropOnDay(ctx app.Context, st store.State, date time.Time) {
	t, ok := c.takeDraggedTask(st)
	if !ok {
		return
	}
	hour, min := 9, 0
	if t.DueAt != nil {
		due := t.DueAt.In(date.Location())
		hour, min = due.Hour(), due.Minute()
	}
	to := time.Date(date.Year(), date.Month(), date.Day(), hour, min, 0, 0, date.Location())
	c.reschedule(ctx, t, to)
}

// dropOnHour reschedules the dragged task into a week day × hour slot.
func (c *TrackerView) dropOnHour(ctx app.Context, st store.State, day time.Time, hour int) {
	t, ok := c.takeDraggedTask(st)
	if !ok {
		return
	}
	to := time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, day.Location())
	c.reschedule(ctx, t, to)
}

func (c *TrackerView) takeDraggedTask(st store.State) (model.Task, bool) {
	id := c.dragTaskID
	c.dragTaskID = ""
	if id == "" {
		return model.Task{}, false
	}
	for _, t := range st.Tasks {
		if t.ID == id {
			if !calendar.CanReschedule(st.CurrentUser, t) {
				return model.Task{}, false
			}
			return t, true
		}
	}
	return model.Task{}, false
}

func (c *TrackerView) reschedule(ctx app.Context, t model.Task, to time.Time) {
	c.saveTask(ctx, t.ID, map[string]any{
		"due_at": to.Format(time.RFC3339),
	})
}
