package coinmarketcap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Leopold1975/crypto_dashboard/internal/pkg/httptools"
	"github.com/stretchr/testify/require"
)

const (
	globalJSON = `{"status":{"error_code":0},"data":{"active_cryptocurrencies":9876,"btc_dominance":54.1,
		"eth_dominance":17.2,"last_updated":"2024-05-30T12:00:00.000Z",
		"quote":{"USD":{"total_market_cap":2500000000000,"total_volume_24h":90000000000}}}}`
	listingsJSON = `{"status":{"error_code":0},"data":[{"id":1,"name":"Bitcoin","symbol":"BTC","slug":"bitcoin",
		"cmc_rank":1,"quote":{"USD":{"price":67012.51,"market_cap":1320000000000,"volume_24h":21000000000,
		"percent_change_24h":-1.2}}}]}`
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-CMC_PRO_API_KEY") != "key" || r.URL.Query().Get("convert") != "USD" {
			w.WriteHeader(http.StatusUnauthorized)

			return
		}

		switch r.URL.Path {
		case "/v1/global-metrics/quotes/latest":
			w.Write([]byte(globalJSON)) //nolint:errcheck
		case "/v1/cryptocurrency/listings/latest":
			w.Write([]byte(listingsJSON)) //nolint:errcheck
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)

	return srv
}

func TestGlobal(t *testing.T) {
	srv := newServer(t)
	c := New(srv.URL, "key", httptools.NewClient(time.Second))

	gm, err := c.Global(context.Background(), "usd")
	require.NoError(t, err)
	require.Equal(t, int64(9876), gm.ActiveCryptocurrencies)
	require.InDelta(t, 54.1, gm.BTCDominance, 0.0001)
	require.InDelta(t, 2.5e12, gm.TotalMarketCap, 1)
	require.Equal(t, time.Date(2024, 5, 30, 12, 0, 0, 0, time.UTC), gm.LastUpdated.UTC())
}

func TestListings(t *testing.T) {
	srv := newServer(t)
	c := New(srv.URL, "key", httptools.NewClient(time.Second))

	ls, err := c.Listings(context.Background(), 10, "usd")
	require.NoError(t, err)
	require.Len(t, ls, 1)
	require.Equal(t, "BTC", ls[0].Symbol)
	require.Equal(t, "67012.51", ls[0].Price.String())
}

func TestNoAPIKey(t *testing.T) {
	c := New("http://unused", "", httptools.NewClient(time.Second))

	_, err := c.Global(context.Background(), "usd")
	require.ErrorIs(t, err, ErrNoAPIKey)
}
