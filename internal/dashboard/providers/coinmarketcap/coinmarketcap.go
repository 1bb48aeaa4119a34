// Package coinmarketcap reads global metrics and listings from the
// CoinMarketCap pro API.
package coinmarketcap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Leopold1975/crypto_dashboard/internal/dashboard/domain/models"
	"github.com/Leopold1975/crypto_dashboard/internal/pkg/httptools"
	"github.com/tidwall/gjson"
)

const provider = "coinmarketcap"

var ErrNoAPIKey = errors.New("coinmarketcap api key is not configured")

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func New(baseURL, apiKey string, client *http.Client) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    client,
	}
}

func (c *Client) get(ctx context.Context, path string, q url.Values) (gjson.Result, error) {
	if c.apiKey == "" {
		return gjson.Result{}, ErrNoAPIKey
	}

	header := http.Header{}
	header.Set("X-CMC_PRO_API_KEY", c.apiKey)

	return httptools.GetJSON(ctx, c.http, provider, c.baseURL+path+"?"+q.Encode(), header) //nolint:wrapcheck
}

func (c *Client) Global(ctx context.Context, currency string) (models.GlobalMetrics, error) {
	currency = strings.ToUpper(currency)

	q := url.Values{}
	q.Set("convert", currency)

	res, err := c.get(ctx, "/v1/global-metrics/quotes/latest", q)
	if err != nil {
		return models.GlobalMetrics{}, fmt.Errorf("get global metrics error: %w", err)
	}

	data := res.Get("data")
	quote := data.Get("quote." + currency)

	gm := models.GlobalMetrics{
		TotalMarketCap:         quote.Get("total_market_cap").Float(),
		TotalVolume24h:         quote.Get("total_volume_24h").Float(),
		BTCDominance:           data.Get("btc_dominance").Float(),
		ETHDominance:           data.Get("eth_dominance").Float(),
		ActiveCryptocurrencies: data.Get("active_cryptocurrencies").Int(),
	}

	if ts, err := time.Parse(time.RFC3339, data.Get("last_updated").String()); err == nil {
		gm.LastUpdated = ts
	}

	return gm, nil
}

func (c *Client) Listings(ctx context.Context, limit int, currency string) ([]models.Listing, error) {
	currency = strings.ToUpper(currency)

	q := url.Values{}
	q.Set("start", "1")
	q.Set("limit", strconv.Itoa(limit))
	q.Set("convert", currency)

	res, err := c.get(ctx, "/v1/cryptocurrency/listings/latest", q)
	if err != nil {
		return nil, fmt.Errorf("get listings error: %w", err)
	}

	data := res.Get("data").Array()
	listings := make([]models.Listing, 0, len(data))

	for _, v := range data {
		quote := v.Get("quote." + currency)

		listings = append(listings, models.Listing{
			ID:               v.Get("id").Int(),
			Name:             v.Get("name").String(),
			Symbol:           v.Get("symbol").String(),
			Slug:             v.Get("slug").String(),
			CMCRank:          v.Get("cmc_rank").Int(),
			Price:            httptools.Decimal(quote.Get("price")),
			MarketCap:        quote.Get("market_cap").Float(),
			Volume24h:        quote.Get("volume_24h").Float(),
			PercentChange24h: quote.Get("percent_change_24h").Float(),
		})
	}

	return listings, nil
}
