package main

import (
	"fmt"
	"time"

	"github.com/maxence-charriere/go-app/v10/pkg/app"

	"github.com/kidandcat/vatrack/internal/model"
	"github.com/kidandcat/vatrack/internal/store"
	"github.com/kidandcat/vatrack/internal/view"
)

func (c *TrackerView) renderDashboard(st store.State) app.UI {
	visible := view.VisibleTasks(st.Tasks, st.CurrentUser, st.Filters)
	stats := view.Calculate(visible, st.TimeLogs, st.Settings, time.Now())
	recent := view.RecentLogs(st.TimeLogs, 10)

	card := func(label, value string) app.UI {
		return app.Div().Class("stat-card").Body(
			app.Div().Class("stat-value").Text(value),
			app.Div().Class("stat-label").Text(label),
		)
	}

	progress := stats.DailyProgress
	if progress > 100 {
		progress = 100
	}

	return app.Div().Class("dashboard").Body(
		app.Div().Class("stat-grid").Body(
			card("Total tasks", fmt.Sprintf("%d", stats.TotalTasks)),
			card("Completed", fmt.Sprintf("%d", stats.CompletedTasks)),
			card("In progress", fmt.Sprintf("%d", stats.InProgressTasks)),
			card("Hours logged", fmt.Sprintf("%.1f", stats.TotalHours)),
			card("Revenue", fmt.Sprintf("$%.2f", stats.TotalRevenue)),
			card("Today", fmt.Sprintf("%.1fh", stats.TodayHours)),
		),
		app.Div().Class("daily-goal").Body(
			app.H3().Textf("Daily goal: %.0f%%", stats.DailyProgress),
			app.Div().Class("progress-bar").Body(
				app.Div().Class("progress-fill").
					Style("width", fmt.Sprintf("%.0f%%", progress)),
			),
		),
		app.Div().Class("breakdowns").Body(
			c.renderStatusBreakdown(stats),
			c.renderPriorityBreakdown(stats),
		),
		app.Div().Class("recent-logs").Body(
			app.H3().Text("Recent activity"),
			app.If(len(recent) == 0, func() app.UI {
				return app.P().Class("empty").Text("No time logged yet.")
			}),
			app.Range(recent).Slice(func(i int) app.UI {
				l := recent[i]
				title := l.TaskID
				for _, t := range st.Tasks {
					if t.ID == l.TaskID {
						title = t.Title
						break
					}
				}
				return app.Div().Class("log-row").Body(
					app.Span().Class("log-task").Text(title),
					app.Span().Class("log-duration").Text(formatMinutes(l.DurationMinutes)),
					app.Span().Class("log-date").Text(l.StartedAt.Format("Jan 2, 15:04")),
					app.If(l.LocationLat != nil && l.LocationLng != nil, func() app.UI {
						return app.A().Class("log-location").
							Href(fmt.Sprintf("https://www.google.com/maps?q=%f,%f",
								*l.LocationLat, *l.LocationLng)).
							Target("_blank").
							Text("map")
					}),
				)
			}),
		),
	)
}

func (c *TrackerView) renderStatusBreakdown(stats view.Stats) app.UI {
	return app.Div().Class("breakdown").Body(
		app.H3().Text("By status"),
		app.Range(model.Statuses()).Slice(func(i int) app.UI {
			s := model.Statuses()[i]
			return app.Div().Class("breakdown-row").Body(
				app.Span().Text(statusLabel(s)),
				app.Span().Textf("%d", stats.ByStatus[s]),
			)
		}),
	)
}

func (c *TrackerView) renderPriorityBreakdown(stats view.Stats) app.UI {
	return app.Div().Class("breakdown").Body(
		app.H3().Text("By priority"),
		app.Range(model.Priorities()).Slice(func(i int) app.UI {
			p := model.Priorities()[i]
			return app.Div().Class("breakdown-row").Body(
				app.Span().Text(string(p)),
				app.Span().Textf("%d", stats.ByPriority[p]),
			)
		}),
	)
}
