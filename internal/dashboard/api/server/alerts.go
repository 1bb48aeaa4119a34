package server

import (
	"net/http"

	"github.com/Leopold1975/crypto_dashboard/internal/dashboard/services/alertservice"
)

// (GET /v1/alerts).
func (s *Server) listAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := s.alertService.ListAlerts(r.Context(), userID(r))
	if err != nil {
		s.writeError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, alerts)
}

// (POST /v1/alerts).
func (s *Server) createAlert(w http.ResponseWriter, r *http.Request) {
	var req alertservice.AlertRequest

	if err := decode(w, r, &req); err != nil {
		s.writeError(w, err)

		return
	}

	a, err := s.alertService.CreateAlert(r.Context(), userID(r), req)
	if err != nil {
		s.writeError(w, err)

		return
	}

	writeJSON(w, http.StatusCreated, a)
}

// (DELETE /v1/alerts/{alertID}).
func (s *Server) deleteAlert(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "alertID")
	if err != nil {
		s.writeError(w, err)

		return
	}

	if err := s.alertService.DeleteAlert(r.Context(), userID(r), id); err != nil {
		s.writeError(w, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// (GET /v1/alerts/check).
func (s *Server) checkAlerts(w http.ResponseWriter, r *http.Request) {
	fired, err := s.alertService.Check(r.Context(), userID(r))
	if err != nil {
		s.writeError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, fired)
}
