package server

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Leopold1975/crypto_dashboard/pkg/logger"
	"github.com/stretchr/testify/require"
)

type lineLogger struct {
	logger.Logger
	lines []string
}

func (l *lineLogger) Infof(template string, args ...interface{}) {
	l.lines = append(l.lines, fmt.Sprintf(template, args...))
}

func TestLoggingMiddleware(t *testing.T) {
	lg := &lineLogger{Logger: logger.NewNop()}

	h := loggingMiddleware(lg)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/notes?q=btc", nil))

	require.Equal(t, http.StatusTeapot, rec.Code)
	require.Len(t, lg.lines, 1)
	require.Contains(t, lg.lines[0], "METHOD GET URI /v1/notes?q=btc HTTP/1.1")
	require.Contains(t, lg.lines[0], "STATUS 418")
}
