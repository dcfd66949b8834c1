package main

import (
	"fmt"
	"time"

	"github.com/maxence-charriere/go-app/v10/pkg/app"

	"github.com/kidandcat/vatrack/internal/calendar"
	"github.com/kidandcat/vatrack/internal/model"
	"github.com/kidandcat/vatrack/internal/store"
	"github.com/kidandcat/vatrack/internal/timer"
)

const (
	viewBoard     = "board"
	viewList      = "list"
	viewDashboard = "dashboard"
	viewCalendar  = "calendar"
)

// TrackerView is the root component. All shared state lives in the store;
// the component keeps only transient UI state like form inputs and the
// open drawer.
type TrackerView struct {
	app.Compo

	state       *store.Store
	unsubscribe func()
	loaded      bool

	users []model.User

	// Login form
	loginEmail    string
	loginPassword string
	loginError    string

	// Calendar navigation
	cal        calendar.Calendar
	dragTaskID string

	// Task drawer
	drawerTaskID string

	// New task form
	showNewTask bool
	newTitle    string

	// Timer display. The controller mirrors the server's active timer so
	// the once-per-second refresh runs locally.
	timers      *timer.Controller
	stopDisplay func()
	elapsed     int
}

func (c *TrackerView) OnInit() {
	c.state = store.New()
	c.timers = timer.NewController(nil)
	c.cal = calendar.New(time.Now())
}

func (c *TrackerView) OnMount(ctx app.Context) {
	c.unsubscribe = c.state.Subscribe(func(store.State) {
		ctx.Dispatch(func(app.Context) {})
	})
	c.stopDisplay = c.timers.StartDisplay(func(minutes int) {
		ctx.Dispatch(func(app.Context) {
			c.elapsed = minutes
		})
	})
	c.loadSession(ctx)
}

func (c *TrackerView) OnDismount() {
	if c.unsubscribe != nil {
		c.unsubscribe()
	}
	if c.stopDisplay != nil {
		c.stopDisplay()
	}
}

func (c *TrackerView) loadSession(ctx app.Context) {
	ctx.Async(func() {
		var u model.User
		err := apiGet("/api/auth/me", &u)
		ctx.Dispatch(func(ctx app.Context) {
			c.loaded = true
			if err != nil {
				return
			}
			c.state.Update(func(st *store.State) {
				st.CurrentUser = &u
			})
			c.loadData(ctx)
		})
	})
}

func (c *TrackerView) loadData(ctx app.Context) {
	ctx.Async(func() {
		var tasks []model.Task
		if err := apiGet("/api/tasks", &tasks); err != nil {
			app.Log("error loading tasks:", err)
		}
		var logs []model.TimeLog
		if err := apiGet("/api/timelogs", &logs); err != nil {
			app.Log("error loading time logs:", err)
		}
		settings := model.DefaultSettings()
		if err := apiGet("/api/settings", &settings); err != nil {
			app.Log("error loading settings:", err)
		}
		var users []model.User
		if err := apiGet("/api/users", &users); err != nil {
			app.Log("error loading users:", err)
		}
		var active struct {
			Active *model.ActiveTimer `json:"active"`
		}
		if err := apiGet("/api/timer", &active); err != nil {
			app.Log("error loading timer:", err)
		}

		ctx.Dispatch(func(ctx app.Context) {
			c.users = users
			c.timers.Restore(active.Active)
			c.state.Update(func(st *store.State) {
				st.Tasks = tasks
				st.TimeLogs = logs
				st.Settings = settings
				st.ActiveTimer = active.Active
			})
		})
	})
}

func (c *TrackerView) login(ctx app.Context) {
	email, password := c.loginEmail, c.loginPassword
	ctx.Async(func() {
		var u model.User
		err := apiPost("/api/auth/login", map[string]string{
			"email":    email,
			"password": password,
		}, &u)
		ctx.Dispatch(func(ctx app.Context) {
			if err != nil {
				c.loginError = err.Error()
				return
			}
			c.loginError = ""
			c.loginPassword = ""
			c.state.Update(func(st *store.State) {
				st.CurrentUser = &u
			})
			c.loadData(ctx)
		})
	})
}

func (c *TrackerView) logout(ctx app.Context) {
	ctx.Async(func() {
		if err := apiPost("/api/auth/logout", nil, nil); err != nil {
			app.Log("error logging out:", err)
		}
		ctx.Dispatch(func(app.Context) {
			c.timers.Restore(nil)
			c.state.Update(func(st *store.State) {
				*st = store.State{
					Settings:    model.DefaultSettings(),
					Filters:     model.DefaultFilters(),
					CurrentView: viewBoard,
				}
			})
		})
	})
}

func (c *TrackerView) setView(name string) {
	if name == viewCalendar {
		c.cal = calendar.New(time.Now())
	}
	c.state.Update(func(st *store.State) {
		st.CurrentView = name
	})
}

// saveTask sends a partial update and swaps the returned task into the
// store.
func (c *TrackerView) saveTask(ctx app.Context, id string, patch map[string]any) {
	ctx.Async(func() {
		var updated model.Task
		if err := apiPut("/api/tasks/"+id, patch, &updated); err != nil {
			app.Log("error saving task:", err)
			return
		}
		ctx.Dispatch(func(app.Context) {
			c.state.Update(func(st *store.State) {
				for i := range st.Tasks {
					if st.Tasks[i].ID == id {
						st.Tasks[i] = updated
						return
					}
				}
			})
		})
	})
}

func (c *TrackerView) createTask(ctx app.Context) {
	title := c.newTitle
	if title == "" {
		return
	}
	c.showNewTask = false
	c.newTitle = ""
	ctx.Async(func() {
		var created model.Task
		if err := apiPost("/api/tasks", map[string]any{"title": title}, &created); err != nil {
			app.Log("error creating task:", err)
			return
		}
		ctx.Dispatch(func(app.Context) {
			c.state.Update(func(st *store.State) {
				st.Tasks = append([]model.Task{created}, st.Tasks...)
			})
		})
	})
}

func (c *TrackerView) deleteTask(ctx app.Context, id string) {
	c.drawerTaskID = ""
	ctx.Async(func() {
		if err := apiDelete("/api/tasks/" + id); err != nil {
			app.Log("error deleting task:", err)
			return
		}
		ctx.Dispatch(func(app.Context) {
			c.state.Update(func(st *store.State) {
				for i := range st.Tasks {
					if st.Tasks[i].ID == id {
						st.Tasks = append(st.Tasks[:i], st.Tasks[i+1:]...)
						return
					}
				}
			})
		})
	})
}

func (c *TrackerView) Render() app.UI {
	if !c.loaded {
		return app.Div().Class("loading-overlay").Body(
			app.Div().Class("loading-spinner"),
		)
	}

	st := c.state.State()
	if st.CurrentUser == nil {
		return c.renderLogin()
	}

	var main app.UI
	switch st.CurrentView {
	case viewList:
		main = c.renderList(st)
	case viewDashboard:
		main = c.renderDashboard(st)
	case viewCalendar:
		main = c.renderCalendar(st)
	default:
		main = c.renderBoard(st)
	}

	return app.Div().Class("tracker").Body(
		c.renderSidebar(st),
		app.Div().Class("main").Body(
			c.renderHeader(st),
			main,
		),
		app.If(c.drawerTaskID != "", func() app.UI {
			return c.renderDrawer(st)
		}),
	)
}

func (c *TrackerView) renderLogin() app.UI {
	return app.Div().Class("login-page").Body(
		app.Form().Class("login-card").OnSubmit(func(ctx app.Context, e app.Event) {
			e.PreventDefault()
			c.login(ctx)
		}).Body(
			app.H1().Text("VA Tracker"),
			app.Input().
				Type("email").
				Placeholder("Email").
				Value(c.loginEmail).
				OnInput(func(ctx app.Context, e app.Event) {
					c.loginEmail = ctx.JSSrc().Get("value").String()
				}),
			app.Input().
				Type("password").
				Placeholder("Password").
				Value(c.loginPassword).
				OnInput(func(ctx app.Context, e app.Event) {
					c.loginPassword = ctx.JSSrc().Get("value").String()
				}),
			app.If(c.loginError != "", func() app.UI {
				return app.P().Class("login-error").Text(c.loginError)
			}),
			app.Button().Type("submit").Text("Sign in"),
		),
	)
}

func (c *TrackerView) renderHeader(st store.State) app.UI {
	return app.Header().Class("header").Body(
		app.H1().Text("VA Tracker"),
		c.renderTimerBanner(st),
		app.Div().Class("header-actions").Body(
			app.If(st.CurrentUser.Role == model.RoleAdmin, func() app.UI {
				return app.Button().Class("btn-primary").Text("+ New task").
					OnClick(func(ctx app.Context, e app.Event) {
						c.showNewTask = !c.showNewTask
					})
			}),
			app.A().Class("btn").Href("/api/export.ics").Text("Export"),
			app.Button().Class("btn").Text("Log out").
				OnClick(func(ctx app.Context, e app.Event) {
					c.logout(ctx)
				}),
		),
		app.If(c.showNewTask, func() app.UI {
			return app.Form().Class("new-task-form").OnSubmit(func(ctx app.Context, e app.Event) {
				e.PreventDefault()
				c.createTask(ctx)
			}).Body(
				app.Input().
					Placeholder("Task title").
					Value(c.newTitle).
					AutoFocus(true).
					OnInput(func(ctx app.Context, e app.Event) {
						c.newTitle = ctx.JSSrc().Get("value").String()
					}),
				app.Button().Type("submit").Text("Create"),
			)
		}),
	)
}

func (c *TrackerView) renderSidebar(st store.State) app.UI {
	navBtn := func(name, label string) app.UI {
		cls := "nav-btn"
		if st.CurrentView == name {
			cls += " active"
		}
		return app.Button().Class(cls).Text(label).
			OnClick(func(ctx app.Context, e app.Event) {
				c.setView(name)
			})
	}

	return app.Aside().Class("sidebar").Body(
		app.Nav().Body(
			navBtn(viewBoard, "Board"),
			navBtn(viewList, "List"),
			navBtn(viewDashboard, "Dashboard"),
			navBtn(viewCalendar, "Calendar"),
		),
		c.renderFilters(st),
		app.If(st.CurrentUser.Role == model.RoleAdmin, func() app.UI {
			return c.renderSettings(st)
		}),
		app.Div().Class("sidebar-user").Body(
			app.Span().Text(st.CurrentUser.Name),
			app.Span().Class("role-badge").Text(string(st.CurrentUser.Role)),
		),
	)
}

func (c *TrackerView) renderFilters(st store.State) app.UI {
	toggleStatus := func(s model.Status) {
		c.state.Update(func(state *store.State) {
			state.Filters.Status = toggleInSet(state.Filters.Status, s)
		})
	}
	togglePriority := func(p model.Priority) {
		c.state.Update(func(state *store.State) {
			state.Filters.Priority = toggleInSet(state.Filters.Priority, p)
		})
	}

	return app.Div().Class("filters").Body(
		app.H3().Text("Filters"),
		app.If(st.CurrentUser.Role == model.RoleAdmin, func() app.UI {
			return app.Select().
				OnChange(func(ctx app.Context, e app.Event) {
					v := ctx.JSSrc().Get("value").String()
					c.state.Update(func(state *store.State) {
						state.Filters.Assignee = v
					})
				}).
				Body(
					app.Option().Value(model.AssigneeAll).Text("Everyone").
						Selected(st.Filters.Assignee == model.AssigneeAll),
					app.Range(c.users).Slice(func(i int) app.UI {
						u := c.users[i]
						return app.Option().Value(u.ID).Text(u.Name).
							Selected(st.Filters.Assignee == u.ID)
					}),
				)
		}),
		app.Div().Class("filter-group").Body(
			app.Range(model.Statuses()).Slice(func(i int) app.UI {
				s := model.Statuses()[i]
				cls := "chip chip-status-" + string(s)
				if containsStatus(st.Filters.Status, s) {
					cls += " active"
				}
				return app.Button().Class(cls).Text(statusLabel(s)).
					OnClick(func(ctx app.Context, e app.Event) {
						toggleStatus(s)
					})
			}),
		),
		app.Div().Class("filter-group").Body(
			app.Range(model.Priorities()).Slice(func(i int) app.UI {
				p := model.Priorities()[i]
				cls := "chip chip-priority-" + string(p)
				if containsPriority(st.Filters.Priority, p) {
					cls += " active"
				}
				return app.Button().Class(cls).Text(string(p)).
					OnClick(func(ctx app.Context, e app.Event) {
						togglePriority(p)
					})
			}),
		),
		app.Button().Class("btn-link").Text("Reset filters").
			OnClick(func(ctx app.Context, e app.Event) {
				c.state.ResetFilters()
			}),
	)
}

func (c *TrackerView) renderSettings(st store.State) app.UI {
	save := func(ctx app.Context, settings model.Settings) {
		ctx.Async(func() {
			var saved model.Settings
			if err := apiPut("/api/settings", settings, &saved); err != nil {
				app.Log("error saving settings:", err)
				return
			}
			ctx.Dispatch(func(app.Context) {
				c.state.Update(func(state *store.State) {
					state.Settings = saved
				})
			})
		})
	}

	return app.Div().Class("settings").Body(
		app.H3().Text("Settings"),
		app.Label().Text("Hourly rate ($)"),
		app.Input().
			Type("number").
			Min(1).
			Value(st.Settings.HourlyRate).
			OnChange(func(ctx app.Context, e app.Event) {
				s := st.Settings
				s.HourlyRate = ctx.JSSrc().Get("value").Float()
				save(ctx, s)
			}),
		app.Label().Text("Daily goal (hours)"),
		app.Input().
			Type("number").
			Min(1).
			Value(st.Settings.DailyGoal).
			OnChange(func(ctx app.Context, e app.Event) {
				s := st.Settings
				s.DailyGoal = ctx.JSSrc().Get("value").Float()
				save(ctx, s)
			}),
	)
}

func (c *TrackerView) renderTimerBanner(st store.State) app.UI {
	active := c.timers.Active()
	if active == nil {
		return app.Div().Class("timer-banner idle")
	}
	title := active.TaskID
	for _, t := range st.Tasks {
		if t.ID == active.TaskID {
			title = t.Title
			break
		}
	}
	return app.Div().Class("timer-banner running").Body(
		app.Span().Class("timer-task").Text(title),
		app.Span().Class("timer-elapsed").Text(formatMinutes(c.elapsed)),
		app.Button().Class("btn").Text("Pause").
			OnClick(func(ctx app.Context, e app.Event) {
				c.pauseTimer(ctx)
			}),
	)
}

func toggleInSet[T comparable](set []T, v T) []T {
	for i, x := range set {
		if x == v {
			return append(set[:i], set[i+1:]...)
		}
	}
	return append(set, v)
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

func statusLabel(s model.Status) string {
	switch s {
	case model.StatusTodo:
		return "To do"
	case model.StatusDoing:
		return "In progress"
	case model.StatusReview:
		return "Review"
	case model.StatusDone:
		return "Done"
	}
	return string(s)
}

func formatMinutes(minutes int) string {
	h := minutes / 60
	m := minutes % 60
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}
