package coingecko

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Leopold1975/crypto_dashboard/internal/pkg/httptools"
	"github.com/stretchr/testify/suite"
)

const (
	marketsJSON = `[
		{"id":"bitcoin","symbol":"btc","name":"Bitcoin","image":"https://img/btc.png","current_price":67012.5,
		 "market_cap":1320000000000,"market_cap_rank":1,"price_change_percentage_24h":-1.25,"total_volume":21000000000},
		{"id":"ethereum","symbol":"eth","name":"Ethereum","image":"https://img/eth.png","current_price":3500.12,
		 "market_cap":420000000000,"market_cap_rank":2,"price_change_percentage_24h":2.5,"total_volume":11000000000}
	]`
	coinJSON = `{"id":"bitcoin","symbol":"btc","name":"Bitcoin","description":{"en":"Digital gold"},
		"image":{"large":"https://img/btc-large.png"},
		"market_data":{"current_price":{"usd":67012.5,"eur":62000},"market_cap":{"usd":1320000000000},
		"high_24h":{"usd":68000},"low_24h":{"usd":66000},"price_change_percentage_24h":-1.25,
		"circulating_supply":19700000,"total_supply":21000000}}`
	chartJSON    = `{"prices":[[1714521600000,60000.1],[1714525200000,60100.2],[1]],"market_caps":[],"total_volumes":[]}`
	trendingJSON = `{"coins":[{"item":{"id":"pepe","name":"Pepe","symbol":"PEPE","market_cap_rank":30,"thumb":"https://img/pepe.png"}}]}`
	pricesJSON   = `{"bitcoin":{"usd":67012.5},"ethereum":{"usd":3500.12}}`
)

type CoinGeckoSuite struct {
	suite.Suite
	srv    *httptest.Server
	client *Client
}

func (s *CoinGeckoSuite) SetupSuite() {
	s.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-cg-demo-api-key") != "key" {
			w.WriteHeader(http.StatusUnauthorized)

			return
		}

		var body string

		switch r.URL.Path {
		case "/coins/markets":
			if r.URL.Query().Get("vs_currency") != "usd" || r.URL.Query().Get("per_page") != "2" {
				w.WriteHeader(http.StatusBadRequest)

				return
			}

			body = marketsJSON
		case "/coins/bitcoin":
			body = coinJSON
		case "/coins/bitcoin/market_chart":
			body = chartJSON
		case "/search/trending":
			body = trendingJSON
		case "/simple/price":
			body = pricesJSON
		default:
			w.WriteHeader(http.StatusNotFound)

			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body)) //nolint:errcheck
	}))

	s.client = New(s.srv.URL+"/", "key", httptools.NewClient(time.Second))
}

func (s *CoinGeckoSuite) TearDownSuite() {
	s.srv.Close()
}

func (s *CoinGeckoSuite) TestMarkets() {
	coins, err := s.client.Markets(context.Background(), MarketsRequest{Currency: "usd", Page: 1, PerPage: 2})
	s.Require().NoError(err)
	s.Require().Len(coins, 2)
	s.Require().Equal("bitcoin", coins[0].ID)
	s.Require().Equal("67012.5", coins[0].CurrentPrice.String())
	s.Require().Equal(int64(2), coins[1].MarketCapRank)
	s.Require().InDelta(2.5, coins[1].PriceChangePercentage24h, 0.0001)
}

func (s *CoinGeckoSuite) TestCoin() {
	coin, err := s.client.Coin(context.Background(), "bitcoin", "usd")
	s.Require().NoError(err)
	s.Require().Equal("Digital gold", coin.Description)
	s.Require().Equal("https://img/btc-large.png", coin.Image)
	s.Require().Equal("67012.5", coin.CurrentPrice.String())
	s.Require().Equal("68000", coin.High24h.String())

	_, err = s.client.Coin(context.Background(), "nope", "usd")
	s.Require().ErrorIs(err, httptools.ErrNotFound)
}

func (s *CoinGeckoSuite) TestChart() {
	points, err := s.client.Chart(context.Background(), "bitcoin", "usd", "7")
	s.Require().NoError(err)
	s.Require().Len(points, 2)
	s.Require().Equal(time.UnixMilli(1714521600000).UTC(), points[0].Timestamp)
	s.Require().Equal("60100.2", points[1].Price.String())
}

func (s *CoinGeckoSuite) TestTrending() {
	coins, err := s.client.Trending(context.Background())
	s.Require().NoError(err)
	s.Require().Len(coins, 1)
	s.Require().Equal("pepe", coins[0].ID)
	s.Require().Equal(int64(30), coins[0].MarketCapRank)
}

func (s *CoinGeckoSuite) TestPrices() {
	prices, err := s.client.Prices(context.Background(), []string{"bitcoin", "ethereum", "unknown"}, "usd")
	s.Require().NoError(err)
	s.Require().Len(prices, 2)
	s.Require().Equal("3500.12", prices["ethereum"].String())

	empty, err := s.client.Prices(context.Background(), nil, "usd")
	s.Require().NoError(err)
	s.Require().Empty(empty)
}

func (s *CoinGeckoSuite) TestUnauthorized() {
	c := New(s.srv.URL, "", httptools.NewClient(time.Second))

	_, err := c.Trending(context.Background())
	s.Require().ErrorIs(err, httptools.ErrUpstream)
}

func TestCoinGeckoSuite(t *testing.T) {
	suite.Run(t, new(CoinGeckoSuite))
}
