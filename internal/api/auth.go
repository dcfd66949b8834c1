package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/kidandcat/vatrack/internal/identity"
	"github.com/kidandcat/vatrack/internal/model"
)

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	token, user, err := s.identity.Login(req.Email, req.Password)
	if errors.Is(err, identity.ErrInvalidCredentials) {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if err != nil {
		log.Printf("error logging in: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	identity.SetSessionCookie(w, token)
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	identity.ClearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	u := s.requireUser(w, r)
	if u == nil {
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// Timer

func (s *Server) handleGetTimer(w http.ResponseWriter, r *http.Request) {
	if u := s.requireUser(w, r); u == nil {
		return
	}
	active := s.timer.Active()
	if active == nil {
		writeJSON(w, http.StatusOK, map[string]any{"active": nil})
		return
	}
	active.Elapsed = active.ElapsedMinutes(time.Now())
	writeJSON(w, http.StatusOK, map[string]any{"active": active})
}

func (s *Server) handleStartTimer(w http.ResponseWriter, r *http.Request) {
	u := s.requireUser(w, r)
	if u == nil {
		return
	}

	var req struct {
		TaskID string `json:"task_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.TaskID == "" {
		writeError(w, http.StatusBadRequest, "task_id required")
		return
	}

	if u.Role != model.RoleAdmin {
		mine, err := s.ownsTask(u, req.TaskID)
		if err != nil {
			log.Printf("error checking task owner: %v", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if !mine {
			writeError(w, http.StatusForbidden, "not your task")
			return
		}
	}

	active := s.timer.Start(req.TaskID, time.Now())
	writeJSON(w, http.StatusOK, active)
}

func (s *Server) handlePauseTimer(w http.ResponseWriter, r *http.Request) {
	u := s.requireUser(w, r)
	if u == nil {
		return
	}

	entry, ok := s.timer.Pause(u.ID, time.Now())
	if !ok {
		writeError(w, http.StatusConflict, "no timer running")
		return
	}

	created, err := s.store.CreateTimeLog(entry)
	if err != nil {
		log.Printf("error saving time log: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, created)
}

func (s *Server) handleTimerLocation(w http.ResponseWriter, r *http.Request) {
	if u := s.requireUser(w, r); u == nil {
		return
	}

	var loc model.Location
	if err := json.NewDecoder(r.Body).Decode(&loc); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if !s.timer.LogLocation(loc.Lat, loc.Lng) {
		writeError(w, http.StatusConflict, "no timer running")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
