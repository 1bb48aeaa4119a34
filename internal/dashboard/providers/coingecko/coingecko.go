// Package coingecko reads market data from the CoinGecko v3 API.
package coingecko

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Leopold1975/crypto_dashboard/internal/dashboard/domain/models"
	"github.com/Leopold1975/crypto_dashboard/internal/pkg/httptools"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

const provider = "coingecko"

type Client struct {
	baseURL string
	header  http.Header
	http    *http.Client
}

func New(baseURL, apiKey string, client *http.Client) *Client {
	header := http.Header{}
	if apiKey != "" {
		header.Set("x-cg-demo-api-key", apiKey)
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		header:  header,
		http:    client,
	}
}

type MarketsRequest struct {
	Currency string
	Page     int
	PerPage  int
}

func (c *Client) get(ctx context.Context, path string, q url.Values) (gjson.Result, error) {
	addr := c.baseURL + path
	if len(q) != 0 {
		addr += "?" + q.Encode()
	}

	return httptools.GetJSON(ctx, c.http, provider, addr, c.header) //nolint:wrapcheck
}

// Markets lists coins ordered by market cap.
func (c *Client) Markets(ctx context.Context, req MarketsRequest) ([]models.Coin, error) {
	q := url.Values{}
	q.Set("vs_currency", req.Currency)
	q.Set("order", "market_cap_desc")
	q.Set("per_page", strconv.Itoa(req.PerPage))
	q.Set("page", strconv.Itoa(req.Page))
	q.Set("sparkline", "false")

	res, err := c.get(ctx, "/coins/markets", q)
	if err != nil {
		return nil, fmt.Errorf("get markets error: %w", err)
	}

	coins := make([]models.Coin, 0, req.PerPage)

	res.ForEach(func(_, v gjson.Result) bool {
		coins = append(coins, models.Coin{
			ID:                       v.Get("id").String(),
			Symbol:                   v.Get("symbol").String(),
			Name:                     v.Get("name").String(),
			Image:                    v.Get("image").String(),
			CurrentPrice:             httptools.Decimal(v.Get("current_price")),
			MarketCap:                v.Get("market_cap").Float(),
			MarketCapRank:            v.Get("market_cap_rank").Int(),
			PriceChangePercentage24h: v.Get("price_change_percentage_24h").Float(),
			TotalVolume:              v.Get("total_volume").Float(),
		})

		return true
	})

	return coins, nil
}

func (c *Client) Coin(ctx context.Context, id, currency string) (models.CoinDetails, error) {
	q := url.Values{}
	q.Set("localization", "false")
	q.Set("tickers", "false")
	q.Set("community_data", "false")
	q.Set("developer_data", "false")

	res, err := c.get(ctx, "/coins/"+url.PathEscape(id), q)
	if err != nil {
		return models.CoinDetails{}, fmt.Errorf("get coin error: %w", err)
	}

	md := res.Get("market_data")

	return models.CoinDetails{
		ID:                       res.Get("id").String(),
		Symbol:                   res.Get("symbol").String(),
		Name:                     res.Get("name").String(),
		Description:              res.Get("description.en").String(),
		Image:                    res.Get("image.large").String(),
		CurrentPrice:             httptools.Decimal(md.Get("current_price." + currency)),
		MarketCap:                md.Get("market_cap." + currency).Float(),
		High24h:                  httptools.Decimal(md.Get("high_24h." + currency)),
		Low24h:                   httptools.Decimal(md.Get("low_24h." + currency)),
		PriceChangePercentage24h: md.Get("price_change_percentage_24h").Float(),
		CirculatingSupply:        md.Get("circulating_supply").Float(),
		TotalSupply:              md.Get("total_supply").Float(),
	}, nil
}

// Chart returns the price history of the last days days.
func (c *Client) Chart(ctx context.Context, id, currency, days string) ([]models.PricePoint, error) {
	q := url.Values{}
	q.Set("vs_currency", currency)
	q.Set("days", days)

	res, err := c.get(ctx, "/coins/"+url.PathEscape(id)+"/market_chart", q)
	if err != nil {
		return nil, fmt.Errorf("get chart error: %w", err)
	}

	prices := res.Get("prices").Array()
	points := make([]models.PricePoint, 0, len(prices))

	for _, p := range prices {
		pair := p.Array()
		if len(pair) != 2 { //nolint:gomnd
			continue
		}

		points = append(points, models.PricePoint{
			Timestamp: time.UnixMilli(pair[0].Int()).UTC(),
			Price:     httptools.Decimal(pair[1]),
		})
	}

	return points, nil
}

func (c *Client) Trending(ctx context.Context) ([]models.TrendingCoin, error) {
	res, err := c.get(ctx, "/search/trending", nil)
	if err != nil {
		return nil, fmt.Errorf("get trending error: %w", err)
	}

	items := res.Get("coins.#.item").Array()
	coins := make([]models.TrendingCoin, 0, len(items))

	for _, it := range items {
		coins = append(coins, models.TrendingCoin{
			ID:            it.Get("id").String(),
			Name:          it.Get("name").String(),
			Symbol:        it.Get("symbol").String(),
			MarketCapRank: it.Get("market_cap_rank").Int(),
			Thumb:         it.Get("thumb").String(),
		})
	}

	return coins, nil
}

// Prices returns the current price of each coin id. Unknown ids are absent
// from the result.
func (c *Client) Prices(ctx context.Context, ids []string, currency string) (map[string]decimal.Decimal, error) {
	prices := make(map[string]decimal.Decimal, len(ids))
	if len(ids) == 0 {
		return prices, nil
	}

	q := url.Values{}
	q.Set("ids", strings.Join(ids, ","))
	q.Set("vs_currencies", currency)

	res, err := c.get(ctx, "/simple/price", q)
	if err != nil {
		return nil, fmt.Errorf("get prices error: %w", err)
	}

	res.ForEach(func(k, v gjson.Result) bool {
		p := v.Get(currency)
		if p.Exists() {
			prices[k.String()] = httptools.Decimal(p)
		}

		return true
	})

	return prices, nil
}
