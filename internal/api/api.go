// Package api exposes the JSON surface the single-page app talks to.
package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/kidandcat/vatrack/internal/identity"
	"github.com/kidandcat/vatrack/internal/ics"
	"github.com/kidandcat/vatrack/internal/kvstore"
	"github.com/kidandcat/vatrack/internal/model"
	"github.com/kidandcat/vatrack/internal/persist"
	"github.com/kidandcat/vatrack/internal/timer"
	"github.com/kidandcat/vatrack/internal/view"
)

type Server struct {
	store    persist.Store
	identity *identity.Service
	kv       *kvstore.Store
	timer    *timer.Controller
}

func NewServer(store persist.Store, id *identity.Service, kv *kvstore.Store, tc *timer.Controller) *Server {
	return &Server{store: store, identity: id, kv: kv, timer: tc}
}

func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	// Auth
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.HandleFunc("POST /api/auth/logout", s.handleLogout)
	mux.HandleFunc("GET /api/auth/me", s.handleMe)

	// Tasks
	mux.HandleFunc("GET /api/tasks", s.handleListTasks)
	mux.HandleFunc("POST /api/tasks", s.handleCreateTask)
	mux.HandleFunc("PUT /api/tasks/{id}", s.handleUpdateTask)
	mux.HandleFunc("DELETE /api/tasks/{id}", s.handleDeleteTask)

	// Time logs
	mux.HandleFunc("GET /api/timelogs", s.handleListTimeLogs)
	mux.HandleFunc("POST /api/timelogs", s.handleCreateTimeLog)
	mux.HandleFunc("PUT /api/timelogs/{id}", s.handleUpdateTimeLog)

	// Timer
	mux.HandleFunc("GET /api/timer", s.handleGetTimer)
	mux.HandleFunc("POST /api/timer/start", s.handleStartTimer)
	mux.HandleFunc("POST /api/timer/pause", s.handlePauseTimer)
	mux.HandleFunc("POST /api/timer/location", s.handleTimerLocation)

	// Settings, team, dashboard, export
	mux.HandleFunc("GET /api/settings", s.handleGetSettings)
	mux.HandleFunc("PUT /api/settings", s.handlePutSettings)
	mux.HandleFunc("GET /api/users", s.handleListUsers)
	mux.HandleFunc("GET /api/stats", s.handleStats)
	mux.HandleFunc("GET /api/export.ics", s.handleExportICS)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// requireUser resolves the session or writes a 401.
func (s *Server) requireUser(w http.ResponseWriter, r *http.Request) *model.User {
	u := s.identity.CurrentUser(r)
	if u == nil {
		writeError(w, http.StatusUnauthorized, "not logged in")
	}
	return u
}

// Tasks

func (s *Server) taskFilter(r *http.Request, u *model.User) persist.Filter {
	q := r.URL.Query()
	f := persist.Filter{AssigneeID: q.Get("assignee_id")}
	if f.AssigneeID == model.AssigneeAll {
		f.AssigneeID = ""
	}
	for _, v := range splitCSV(q.Get("status")) {
		f.Status = append(f.Status, model.Status(v))
	}
	for _, v := range splitCSV(q.Get("priority")) {
		f.Priority = append(f.Priority, model.Priority(v))
	}
	// Role scoping cannot be filtered away: a VA only ever sees their own
	// tasks, whatever the query string claims.
	if u.Role == model.RoleVA {
		f.AssigneeID = u.ID
	}
	return f
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	u := s.requireUser(w, r)
	if u == nil {
		return
	}
	tasks, err := s.store.ListTasks(s.taskFilter(r, u))
	if err != nil {
		log.Printf("error listing tasks: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	u := s.requireUser(w, r)
	if u == nil {
		return
	}
	if u.Role != model.RoleAdmin {
		writeError(w, http.StatusForbidden, "only admins create tasks")
		return
	}

	var t model.Task
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if strings.TrimSpace(t.Title) == "" {
		writeError(w, http.StatusBadRequest, "title required")
		return
	}

	created, err := s.store.CreateTask(t)
	if err != nil {
		log.Printf("error creating task: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	u := s.requireUser(w, r)
	if u == nil {
		return
	}
	id := r.PathValue("id")

	var patch model.TaskPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if u.Role != model.RoleAdmin {
		mine, err := s.ownsTask(u, id)
		if err != nil {
			log.Printf("error checking task owner: %v", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if !mine {
			writeError(w, http.StatusForbidden, "not your task")
			return
		}
		if patch.TouchesRestricted() {
			writeError(w, http.StatusForbidden, "field not editable for this role")
			return
		}
	}

	updated, err := s.store.UpdateTask(id, patch)
	if errors.Is(err, persist.ErrNotFound) {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	if err != nil {
		log.Printf("error updating task: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) ownsTask(u *model.User, taskID string) (bool, error) {
	tasks, err := s.store.ListTasks(persist.Filter{AssigneeID: u.ID})
	if err != nil {
		return false, err
	}
	for _, t := range tasks {
		if t.ID == taskID {
			return true, nil
		}
	}
	return false, nil
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	u := s.requireUser(w, r)
	if u == nil {
		return
	}
	if u.Role != model.RoleAdmin {
		writeError(w, http.StatusForbidden, "only admins delete tasks")
		return
	}

	err := s.store.DeleteTask(r.PathValue("id"))
	if errors.Is(err, persist.ErrNotFound) {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	if err != nil {
		log.Printf("error deleting task: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Time logs

func (s *Server) handleListTimeLogs(w http.ResponseWriter, r *http.Request) {
	if u := s.requireUser(w, r); u == nil {
		return
	}
	logs, err := s.store.ListTimeLogs(r.URL.Query().Get("task_id"))
	if err != nil {
		log.Printf("error listing time logs: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if logs == nil {
		logs = []model.TimeLog{}
	}
	writeJSON(w, http.StatusOK, logs)
}

func (s *Server) handleCreateTimeLog(w http.ResponseWriter, r *http.Request) {
	u := s.requireUser(w, r)
	if u == nil {
		return
	}

	var l model.TimeLog
	if err := json.NewDecoder(r.Body).Decode(&l); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if l.TaskID == "" {
		writeError(w, http.StatusBadRequest, "task_id required")
		return
	}
	if l.UserID == "" {
		l.UserID = u.ID
	}

	created, err := s.store.CreateTimeLog(l)
	if err != nil {
		log.Printf("error creating time log: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateTimeLog(w http.ResponseWriter, r *http.Request) {
	if u := s.requireUser(w, r); u == nil {
		return
	}

	var patch model.TimeLogPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	updated, err := s.store.UpdateTimeLog(r.PathValue("id"), patch)
	if errors.Is(err, persist.ErrNotFound) {
		writeError(w, http.StatusNotFound, "time log not found")
		return
	}
	if err != nil {
		log.Printf("error updating time log: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Settings

func (s *Server) loadSettings() model.Settings {
	settings := model.DefaultSettings()
	if _, err := s.kv.Get(kvstore.KeySettings, &settings); err != nil {
		log.Printf("error loading settings: %v", err)
	}
	return settings
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	if u := s.requireUser(w, r); u == nil {
		return
	}
	writeJSON(w, http.StatusOK, s.loadSettings())
}

func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	u := s.requireUser(w, r)
	if u == nil {
		return
	}
	if u.Role != model.RoleAdmin {
		writeError(w, http.StatusForbidden, "only admins change settings")
		return
	}

	var settings model.Settings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if settings.HourlyRate <= 0 || settings.DailyGoal <= 0 {
		writeError(w, http.StatusBadRequest, "hourly_rate and daily_goal must be positive")
		return
	}
	if err := s.kv.Set(kvstore.KeySettings, settings); err != nil {
		log.Printf("error saving settings: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// Team, dashboard, export

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	if u := s.requireUser(w, r); u == nil {
		return
	}
	writeJSON(w, http.StatusOK, s.identity.Users())
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	u := s.requireUser(w, r)
	if u == nil {
		return
	}
	tasks, err := s.store.ListTasks(s.taskFilter(r, u))
	if err != nil {
		log.Printf("error listing tasks: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	logs, err := s.store.ListTimeLogs("")
	if err != nil {
		log.Printf("error listing time logs: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	stats := view.Calculate(tasks, logs, s.loadSettings(), time.Now())
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleExportICS(w http.ResponseWriter, r *http.Request) {
	u := s.requireUser(w, r)
	if u == nil {
		return
	}
	tasks, err := s.store.ListTasks(s.taskFilter(r, u))
	if err != nil {
		log.Printf("error listing tasks: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="vatrack.ics"`)
	if err := ics.Write(w, tasks, time.Now()); err != nil {
		log.Printf("error writing ics: %v", err)
	}
}
