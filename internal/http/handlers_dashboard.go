package http

import (
	"net/http"
)

// handleDashboard reloads the working set and returns the full derived
// contract: today's earnings, amortized bills, suggested savings, safe to
// spend and the guidance messages.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	derived, err := s.app.Refresh(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, derived)
}
