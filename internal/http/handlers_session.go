package http

import (
	"fmt"
	"net/http"
	"time"

	"winner/internal/core"
)

type sessionListResponse struct {
	State          string           `json:"state"`
	ElapsedSeconds float64          `json:"elapsedSeconds"`
	Sessions       []sessionPayload `json:"sessions"`
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions := s.tracker.Sessions()
	out := make([]sessionPayload, 0, len(sessions))
	for _, ws := range sessions {
		out = append(out, toSessionPayload(ws))
	}
	writeJSON(w, http.StatusOK, sessionListResponse{
		State:          s.tracker.State().String(),
		ElapsedSeconds: s.tracker.Elapsed(),
		Sessions:       out,
	})
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.tracker.Start(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSessionPayload(session))
}

func (s *Server) handlePauseSession(w http.ResponseWriter, r *http.Request) {
	if err := s.tracker.Pause(); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleResumeSession(w http.ResponseWriter, r *http.Request) {
	if err := s.tracker.Resume(); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type stopSessionRequest struct {
	BreakMinutes float64 `json:"breakMinutes"`
}

func (s *Server) handleStopSession(w http.ResponseWriter, r *http.Request) {
	var req stopSessionRequest
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, err)
			return
		}
	}

	session, err := s.tracker.Stop(r.Context(), req.BreakMinutes)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionPayload(session))
}

type editSessionRequest struct {
	StartTime    string  `json:"startTime"`
	EndTime      string  `json:"endTime"`
	BreakMinutes float64 `json:"breakMinutes"`
}

func (s *Server) handleEditSession(w http.ResponseWriter, r *http.Request) {
	var req editSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	start, err := time.Parse(time.RFC3339Nano, req.StartTime)
	if err != nil {
		writeError(w, r, fmt.Errorf("%w: invalid startTime: %v", core.ErrValidation, err))
		return
	}
	finish, err := time.Parse(time.RFC3339Nano, req.EndTime)
	if err != nil {
		writeError(w, r, fmt.Errorf("%w: invalid endTime: %v", core.ErrValidation, err))
		return
	}

	session, err := s.tracker.EditSession(r.Context(), r.PathValue("id"), start, finish, req.BreakMinutes)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionPayload(session))
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.tracker.DeleteSession(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	current, err := s.settings.Load(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settingsPayload{
		HourlyRate:     current.HourlyRate,
		SavingsPercent: current.SavingsPercent,
	})
}

func (s *Server) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	var p settingsPayload
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, r, err)
		return
	}

	saved, err := s.settings.Save(r.Context(), core.UserSettings{
		HourlyRate:     p.HourlyRate,
		SavingsPercent: p.SavingsPercent,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settingsPayload{
		HourlyRate:     saved.HourlyRate,
		SavingsPercent: saved.SavingsPercent,
	})
}
