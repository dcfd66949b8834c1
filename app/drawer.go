package main

import (
	"strconv"
	"strings"
	"time"

	"github.com/maxence-charriere/go-app/v10/pkg/app"
	"github.com/yuin/goldmark"

	"github.com/kidandcat/vatrack/internal/model"
	"github.com/kidandcat/vatrack/internal/store"
	"github.com/kidandcat/vatrack/internal/view"
)

func (c *TrackerView) renderDrawer(st store.State) app.UI {
	var task *model.Task
	for i := range st.Tasks {
		if st.Tasks[i].ID == c.drawerTaskID {
			task = &st.Tasks[i]
			break
		}
	}
	if task == nil {
		c.drawerTaskID = ""
		return app.Div()
	}
	t := *task

	isAdmin := st.CurrentUser.Role == model.RoleAdmin
	active := c.timers.Active()
	timerRunning := active != nil && active.TaskID == t.ID

	return app.Div().Class("drawer-overlay").
		OnClick(func(ctx app.Context, e app.Event) {
			c.drawerTaskID = ""
		}).
		Body(
			app.Div().Class("drawer").
				OnClick(func(ctx app.Context, e app.Event) {
					e.Call("stopPropagation")
				}).
				Body(
					app.Div().Class("drawer-header").Body(
						app.Input().
							Class("drawer-title").
							Value(t.Title).
							Disabled(!isAdmin).
							OnChange(func(ctx app.Context, e app.Event) {
								c.saveTask(ctx, t.ID, map[string]any{
									"title": ctx.JSSrc().Get("value").String(),
								})
							}),
						app.Button().Class("btn-close").Text("×").
							OnClick(func(ctx app.Context, e app.Event) {
								c.drawerTaskID = ""
							}),
					),

					c.renderTimerControls(t, timerRunning),

					app.Div().Class("drawer-fields").Body(
						app.Label().Text("Status"),
						app.Select().
							OnChange(func(ctx app.Context, e app.Event) {
								c.saveTask(ctx, t.ID, map[string]any{
									"status": ctx.JSSrc().Get("value").String(),
								})
							}).
							Body(
								app.Range(model.Statuses()).Slice(func(i int) app.UI {
									s := model.Statuses()[i]
									return app.Option().Value(string(s)).
										Text(statusLabel(s)).
										Selected(t.Status == s)
								}),
							),

						app.Label().Text("Priority"),
						app.Select().
							OnChange(func(ctx app.Context, e app.Event) {
								c.saveTask(ctx, t.ID, map[string]any{
									"priority": ctx.JSSrc().Get("value").String(),
								})
							}).
							Body(
								app.Range(model.Priorities()).Slice(func(i int) app.UI {
									p := model.Priorities()[i]
									return app.Option().Value(string(p)).
										Text(string(p)).
										Selected(t.Priority == p)
								}),
							),

						app.Label().Text("Assignee"),
						app.Select().
							Disabled(!isAdmin).
							OnChange(func(ctx app.Context, e app.Event) {
								c.saveTask(ctx, t.ID, map[string]any{
									"assignee_id": ctx.JSSrc().Get("value").String(),
								})
							}).
							Body(
								app.Option().Value("").Text("Unassigned").
									Selected(t.AssigneeID == ""),
								app.Range(c.users).Slice(func(i int) app.UI {
									u := c.users[i]
									return app.Option().Value(u.ID).Text(u.Name).
										Selected(t.AssigneeID == u.ID)
								}),
							),

						app.Label().Text("Due"),
						app.Input().
							Type("datetime-local").
							Value(formatDueInput(t.DueAt)).
							OnChange(func(ctx app.Context, e app.Event) {
								v := ctx.JSSrc().Get("value").String()
								due, err := time.ParseInLocation("2006-01-02T15:04", v, time.Local)
								if err != nil {
									return
								}
								c.saveTask(ctx, t.ID, map[string]any{
									"due_at": due.Format(time.RFC3339),
								})
							}),

						app.Label().Text("Estimated hours"),
						app.Input().
							Type("number").
							Min(0).
							Step(0.5).
							Value(formatEstInput(t.EstHours)).
							OnChange(func(ctx app.Context, e app.Event) {
								est, err := strconv.ParseFloat(ctx.JSSrc().Get("value").String(), 64)
								if err != nil {
									return
								}
								c.saveTask(ctx, t.ID, map[string]any{"est_hours": est})
							}),
					),

					c.renderNotes(t),
					c.renderCustomer(t),
					c.renderTaskLogs(st, t),

					app.If(isAdmin, func() app.UI {
						return app.Button().Class("btn-danger").Text("Delete task").
							OnClick(func(ctx app.Context, e app.Event) {
								c.deleteTask(ctx, t.ID)
							})
					}),
				),
		)
}

func (c *TrackerView) renderTimerControls(t model.Task, running bool) app.UI {
	if running {
		return app.Div().Class("drawer-timer running").Body(
			app.Span().Class("timer-elapsed").Text(formatMinutes(c.elapsed)),
			app.Button().Class("btn").Text("Pause").
				OnClick(func(ctx app.Context, e app.Event) {
					c.pauseTimer(ctx)
				}),
		)
	}
	return app.Div().Class("drawer-timer").Body(
		app.Button().Class("btn-primary").Text("Start timer").
			OnClick(func(ctx app.Context, e app.Event) {
				c.startTimer(ctx, t.ID)
			}),
	)
}

func (c *TrackerView) renderNotes(t model.Task) app.UI {
	var preview app.UI
	if t.Notes != "" {
		var buf strings.Builder
		if err := goldmark.Convert([]byte(t.Notes), &buf); err == nil {
			preview = app.Div().Class("notes-preview").Body(app.Raw("<div>" + buf.String() + "</div>"))
		}
	}

	return app.Div().Class("drawer-notes").Body(
		app.Label().Text("Notes"),
		app.Textarea().
			Text(t.Notes).
			OnChange(func(ctx app.Context, e app.Event) {
				c.saveTask(ctx, t.ID, map[string]any{
					"notes": ctx.JSSrc().Get("value").String(),
				})
			}),
		app.If(preview != nil, func() app.UI { return preview }),
	)
}

func (c *TrackerView) renderCustomer(t model.Task) app.UI {
	field := func(label, key, value string) app.UI {
		return app.Div().Class("customer-field").Body(
			app.Label().Text(label),
			app.Input().
				Value(value).
				OnChange(func(ctx app.Context, e app.Event) {
					c.saveTask(ctx, t.ID, map[string]any{
						key: ctx.JSSrc().Get("value").String(),
					})
				}),
		)
	}

	return app.Div().Class("drawer-customer").Body(
		app.H3().Text("Customer"),
		field("Name", "customer_name", t.CustomerName),
		field("Phone", "customer_phone", t.CustomerPhone),
		field("Email", "customer_email", t.CustomerEmail),
	)
}

func (c *TrackerView) renderTaskLogs(st store.State, t model.Task) app.UI {
	var logs []model.TimeLog
	for _, l := range st.TimeLogs {
		if l.TaskID == t.ID {
			logs = append(logs, l)
		}
	}

	return app.Div().Class("drawer-logs").Body(
		app.H3().Textf("Time logged: %s", formatMinutes(view.TaskTotalMinutes(st.TimeLogs, t.ID))),
		app.Range(logs).Slice(func(i int) app.UI {
			l := logs[i]
			return app.Div().Class("log-row").Body(
				app.Span().Text(l.StartedAt.Format("Jan 2, 15:04")),
				app.Span().Text(formatMinutes(l.DurationMinutes)),
			)
		}),
	)
}

func formatDueInput(due *time.Time) string {
	if due == nil {
		return ""
	}
	return due.In(time.Local).Format("2006-01-02T15:04")
}

func formatEstInput(est *float64) string {
	if est == nil {
		return ""
	}
	return strconv.FormatFloat(*est, 'f', -1, 64)
}
