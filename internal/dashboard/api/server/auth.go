package server

import (
	"net/http"
	"time"

	"github.com/Leopold1975/crypto_dashboard/internal/dashboard/services/authservice"
)

// (POST /v1/auth/register).
func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req authservice.RegisterRequest

	if err := decode(w, r, &req); err != nil {
		s.writeError(w, err)

		return
	}

	u, err := s.authService.Register(r.Context(), req)
	if err != nil {
		s.writeError(w, err)

		return
	}

	writeJSON(w, http.StatusCreated, RegisterResponse{UserID: u.ID})
}

// (GET /v1/auth/verify).
func (s *Server) verify(w http.ResponseWriter, r *http.Request) {
	token, err := queryString(r, "token")
	if err != nil {
		s.writeError(w, err)

		return
	}

	if err := s.authService.Verify(r.Context(), token); err != nil {
		s.writeError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, StatusResponse{Status: "verified"})
}

// (POST /v1/auth/verify/resend).
func (s *Server) resendVerification(w http.ResponseWriter, r *http.Request) {
	var req authservice.ResendRequest

	if err := decode(w, r, &req); err != nil {
		s.writeError(w, err)

		return
	}

	if err := s.authService.ResendVerification(r.Context(), req); err != nil {
		s.writeError(w, err)

		return
	}

	w.WriteHeader(http.StatusAccepted)
}

// (POST /v1/auth/login).
func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req authservice.LoginRequest

	if err := decode(w, r, &req); err != nil {
		s.writeError(w, err)

		return
	}

	token, err := s.authService.Login(r.Context(), req)
	if err != nil {
		s.writeError(w, err)

		return
	}

	http.SetCookie(w, &http.Cookie{ //nolint:exhaustruct
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(s.authService.TTL()),
		HttpOnly: true,
		Secure:   s.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, AuthUserResponse{Token: token})
}

// (POST /v1/auth/logout).
func (s *Server) logout(w http.ResponseWriter, _ *http.Request) {
	http.SetCookie(w, &http.Cookie{ //nolint:exhaustruct
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	w.WriteHeader(http.StatusNoContent)
}

// (GET /v1/me).
func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	u, err := s.authService.Me(r.Context(), userID(r))
	if err != nil {
		s.writeError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, u)
}
