package feargreed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Leopold1975/crypto_dashboard/internal/pkg/httptools"
	"github.com/stretchr/testify/require"
)

func TestIndex(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/fng/", r.URL.Path)
		require.Equal(t, "2", r.URL.Query().Get("limit"))

		w.Write([]byte(`{"name":"Fear and Greed Index","data":[
			{"value":"72","value_classification":"Greed","timestamp":"1717027200"},
			{"value":"65","value_classification":"Greed","timestamp":"1716940800"}]}`)) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, httptools.NewClient(time.Second))

	idx, err := c.Index(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, idx, 2)
	require.Equal(t, int64(72), idx[0].Value)
	require.Equal(t, "Greed", idx[0].Classification)
	require.Equal(t, time.Unix(1717027200, 0).UTC(), idx[0].Timestamp)
}

func TestIndexBadValue(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"data":[{"value":"high","timestamp":"1717027200"}]}`)) //nolint:errcheck
	}))
	defer srv.Close()

	_, err := New(srv.URL, httptools.NewClient(time.Second)).Index(context.Background(), 1)
	require.Error(t, err)
}
