package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Leopold1975/crypto_dashboard/internal/dashboard/services/alertservice"
	"github.com/Leopold1975/crypto_dashboard/internal/dashboard/services/authservice"
	"github.com/Leopold1975/crypto_dashboard/internal/dashboard/services/feedservice"
	"github.com/Leopold1975/crypto_dashboard/internal/dashboard/services/marketservice"
	"github.com/Leopold1975/crypto_dashboard/internal/dashboard/services/noteservice"
	"github.com/Leopold1975/crypto_dashboard/internal/dashboard/services/portfolioservice"
	"github.com/Leopold1975/crypto_dashboard/internal/pkg/validate"
)

var (
	errUnauthorized = errors.New("authentication required")
	errRateLimited  = errors.New("too many requests")
)

type Error struct {
	Err string `json:"error"`
}

func (se Error) ToJSON() []byte {
	b, err := json.Marshal(se)
	if err != nil {
		se.Err = err.Error()

		b, err := json.Marshal(se)
		if err != nil {
			return []byte(`{"error": "marshal error"}`)
		}

		return b
	}

	return b
}

func handleError(w http.ResponseWriter, err error, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	e := Error{err.Error()}

	w.Write(e.ToJSON()) //nolint:errcheck
}

//nolint:gochecknoglobals
var statusByErr = []struct {
	code int
	errs []error
}{
	{http.StatusBadRequest, []error{validate.ErrInvalid, authservice.ErrInvalidToken}},
	{http.StatusUnauthorized, []error{errUnauthorized, authservice.ErrUnauthorized, authservice.ErrInvalidCredentials}},
	{http.StatusForbidden, []error{authservice.ErrNotVerified}},
	{http.StatusNotFound, []error{
		authservice.ErrNotFound,
		marketservice.ErrNotFound,
		noteservice.ErrNotFound,
		noteservice.ErrTagNotFound,
		portfolioservice.ErrNotFound,
		portfolioservice.ErrAssetNotFound,
		feedservice.ErrNotFound,
		feedservice.ErrCommentNotFound,
		alertservice.ErrNotFound,
	}},
	{http.StatusConflict, []error{authservice.ErrUserExists, noteservice.ErrTagExists, portfolioservice.ErrAlreadyExists}},
	{http.StatusTooManyRequests, []error{errRateLimited}},
	{http.StatusBadGateway, []error{marketservice.ErrUpstream}},
	{http.StatusServiceUnavailable, []error{marketservice.ErrUnavailable}},
}

func statusOf(err error) int {
	for _, s := range statusByErr {
		for _, target := range s.errs {
			if errors.Is(err, target) {
				return s.code
			}
		}
	}

	return http.StatusInternalServerError
}

// writeError answers with the status that matches err. Internal errors are
// logged and replaced with a generic message.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := statusOf(err)
	if code == http.StatusInternalServerError {
		s.lg.Errorf("internal error: %s", err)
		handleError(w, errors.New(http.StatusText(code)), code) //nolint:goerr113

		return
	}

	handleError(w, err, code)
}
