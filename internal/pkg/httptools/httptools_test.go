package httptools

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestGetJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			require.Equal(t, "k", r.Header.Get("X-Key"))
			w.Write([]byte(`{"data":{"price":1.5}}`)) //nolint:errcheck
		case "/missing":
			w.WriteHeader(http.StatusNotFound)
		case "/bad":
			w.Write([]byte(`{"data":`)) //nolint:errcheck
		default:
			w.WriteHeader(http.StatusTooManyRequests)
		}
	}))
	defer srv.Close()

	client := NewClient(time.Second)
	ctx := context.Background()

	res, err := GetJSON(ctx, client, "test", srv.URL+"/ok", http.Header{"X-Key": []string{"k"}})
	require.NoError(t, err)
	require.InDelta(t, 1.5, res.Get("data.price").Float(), 0.0001)

	_, err = GetJSON(ctx, client, "test", srv.URL+"/bad", nil)
	require.ErrorIs(t, err, ErrInvalidJSON)

	_, err = GetJSON(ctx, client, "test", srv.URL+"/limited", nil)
	require.ErrorIs(t, err, ErrUpstream)

	_, err = GetJSON(ctx, client, "test", srv.URL+"/missing", nil)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDecimal(t *testing.T) {
	res := gjson.Parse(`{"a":0.000012345678901234,"b":"1","c":1.5e-7}`)

	require.Equal(t, "0.000012345678901234", Decimal(res.Get("a")).String())
	require.True(t, Decimal(res.Get("b")).IsZero())
	require.Equal(t, "0.00000015", Decimal(res.Get("c")).String())
	require.True(t, Decimal(res.Get("missing")).IsZero())
}
