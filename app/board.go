package main

import (
	"github.com/maxence-charriere/go-app/v10/pkg/app"

	"github.com/kidandcat/vatrack/internal/model"
	"github.com/kidandcat/vatrack/internal/store"
	"github.com/kidandcat/vatrack/internal/view"
)

func (c *TrackerView) renderBoard(st store.State) app.UI {
	visible := view.VisibleTasks(st.Tasks, st.CurrentUser, st.Filters)
	cols := view.Columns(visible)

	return app.Div().Class("board").Body(
		app.Range(model.Statuses()).Slice(func(i int) app.UI {
			s := model.Statuses()[i]
			tasks := cols[s]
			return app.Div().Class("board-column").
				OnDragOver(func(ctx app.Context, e app.Event) {
					e.PreventDefault()
				}).
				OnDrop(func(ctx app.Context, e app.Event) {
					e.PreventDefault()
					c.dropOnStatus(ctx, s)
				}).
				Body(
					app.Div().Class("column-header").Body(
						app.Span().Text(statusLabel(s)),
						app.Span().Class("column-count").Textf("%d", len(tasks)),
					),
					app.Range(tasks).Slice(func(j int) app.UI {
						return c.renderTaskCard(st, tasks[j])
					}),
				)
		}),
	)
}

// dropOnStatus moves the dragged task into a board column.
func (c *TrackerView) dropOnStatus(ctx app.Context, s model.Status) {
	id := c.dragTaskID
	c.dragTaskID = ""
	if id == "" {
		return
	}
	c.saveTask(ctx, id, map[string]any{"status": s})
}

func (c *TrackerView) renderTaskCard(st store.State, t model.Task) app.UI {
	return app.Div().
		Class("task-card priority-"+string(t.Priority)).
		Draggable(true).
		OnDragStart(func(ctx app.Context, e app.Event) {
			c.dragTaskID = t.ID
		}).
		OnClick(func(ctx app.Context, e app.Event) {
			c.drawerTaskID = t.ID
		}).
		Body(
			app.Div().Class("task-title").Text(t.Title),
			app.Div().Class("task-meta").Body(
				app.Span().Class("priority-badge").Text(string(t.Priority)),
				app.If(t.DueAt != nil, func() app.UI {
					return app.Span().Class("due-date").Text(t.DueAt.Format("Jan 2"))
				}),
				app.If(t.AssigneeID != "", func() app.UI {
					return app.Span().Class("assignee").Text(c.userName(t.AssigneeID))
				}),
			),
		)
}

func (c *TrackerView) userName(id string) string {
	for _, u := range c.users {
		if u.ID == id {
			return u.Name
		}
	}
	return id
}

func (c *TrackerView) renderList(st store.State) app.UI {
	visible := view.VisibleTasks(st.Tasks, st.CurrentUser, st.Filters)

	return app.Div().Class("list-view").Body(
		app.Table().Body(
			app.THead().Body(
				app.Tr().Body(
					app.Th().Text("Title"),
					app.Th().Text("Status"),
					app.Th().Text("Priority"),
					app.Th().Text("Assignee"),
					app.Th().Text("Due"),
					app.Th().Text("Logged"),
				),
			),
			app.TBody().Body(
				app.Range(visible).Slice(func(i int) app.UI {
					t := visible[i]
					due := ""
					if t.DueAt != nil {
						due = t.DueAt.Format("Jan 2, 15:04")
					}
					return app.Tr().
						OnClick(func(ctx app.Context, e app.Event) {
							c.drawerTaskID = t.ID
						}).
						Body(
							app.Td().Text(t.Title),
							app.Td().Body(
								app.Span().Class("chip chip-status-"+string(t.Status)).
									Text(statusLabel(t.Status)),
							),
							app.Td().Body(
								app.Span().Class("chip chip-priority-"+string(t.Priority)).
									Text(string(t.Priority)),
							),
							app.Td().Text(c.userName(t.AssigneeID)),
							app.Td().Text(due),
							app.Td().Text(formatMinutes(view.TaskTotalMinutes(st.TimeLogs, t.ID))),
						)
				}),
			),
		),
	)
}
