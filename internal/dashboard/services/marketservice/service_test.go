package marketservice

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/Leopold1975/crypto_dashboard/internal/dashboard/domain/models"
	"github.com/Leopold1975/crypto_dashboard/internal/dashboard/providers/coingecko"
	"github.com/Leopold1975/crypto_dashboard/internal/dashboard/providers/coinmarketcap"
	"github.com/Leopold1975/crypto_dashboard/internal/dashboard/repository/marketcache"
	"github.com/Leopold1975/crypto_dashboard/internal/pkg/httptools"
	"github.com/Leopold1975/crypto_dashboard/internal/pkg/validate"
	"github.com/Leopold1975/crypto_dashboard/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type fakeGecko struct {
	calls   int
	markets []models.Coin
	err     error
	lastReq coingecko.MarketsRequest
	prices  map[string]decimal.Decimal
	ids     []string
}

func (f *fakeGecko) Markets(_ context.Context, req coingecko.MarketsRequest) ([]models.Coin, error) {
	f.calls++
	f.lastReq = req

	return f.markets, f.err
}

func (f *fakeGecko) Coin(_ context.Context, id, _ string) (models.CoinDetails, error) {
	f.calls++

	return models.CoinDetails{ID: id}, f.err
}

func (f *fakeGecko) Chart(context.Context, string, string, string) ([]models.PricePoint, error) {
	f.calls++

	return nil, f.err
}

func (f *fakeGecko) Trending(context.Context) ([]models.TrendingCoin, error) {
	f.calls++

	return []models.TrendingCoin{{ID: "pepe"}}, f.err
}

func (f *fakeGecko) Prices(_ context.Context, ids []string, _ string) (map[string]decimal.Decimal, error) {
	f.calls++
	f.ids = ids

	return f.prices, f.err
}

type fakeCMC struct{}

func (fakeCMC) Global(context.Context, string) (models.GlobalMetrics, error) {
	return models.GlobalMetrics{}, fmt.Errorf("global: %w", coinmarketcap.ErrNoAPIKey)
}

func (fakeCMC) Listings(_ context.Context, limit int, _ string) ([]models.Listing, error) {
	return make([]models.Listing, limit), nil
}

type fakeFNG struct{}

func (fakeFNG) Index(_ context.Context, limit int) ([]models.FearGreed, error) {
	return make([]models.FearGreed, limit), nil
}

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (m *memCache) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.data[key]
	if !ok {
		return nil, marketcache.ErrMiss
	}

	return b, nil
}

func (m *memCache) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[key] = value

	return nil
}

type MarketServiceSuite struct {
	suite.Suite
	gecko *fakeGecko
	cache *memCache
	ms    *MarketService
}

func TestMarketService(t *testing.T) {
	suite.Run(t, new(MarketServiceSuite))
}

func (s *MarketServiceSuite) SetupTest() {
	s.gecko = &fakeGecko{
		markets: []models.Coin{{ID: "bitcoin", CurrentPrice: decimal.RequireFromString("64000.5")}},
		prices:  map[string]decimal.Decimal{"bitcoin": decimal.NewFromInt(1)},
	}
	s.cache = &memCache{data: map[string][]byte{}}
	s.ms = New(s.gecko, fakeCMC{}, fakeFNG{}, s.cache, "USD", logger.NewNop())
}

func (s *MarketServiceSuite) TestCoinsCached() {
	ctx := context.Background()

	coins, err := s.ms.Coins(ctx, CoinsRequest{})
	s.Require().NoError(err)
	s.Require().Len(coins, 1)
	s.Require().Equal(coingecko.MarketsRequest{Currency: "usd", Page: 1, PerPage: 50}, s.gecko.lastReq)

	again, err := s.ms.Coins(ctx, CoinsRequest{Currency: "usd", Page: 1, PerPage: 50})
	s.Require().NoError(err)
	s.Require().Equal(1, s.gecko.calls)
	s.Require().True(coins[0].CurrentPrice.Equal(again[0].CurrentPrice))
	s.Require().Contains(s.cache.data, "coins:usd:1:50")
}

func (s *MarketServiceSuite) TestCoinsValidation() {
	_, err := s.ms.Coins(context.Background(), CoinsRequest{PerPage: 1000})
	s.Require().ErrorIs(err, validate.ErrInvalid)

	_, err = s.ms.Coins(context.Background(), CoinsRequest{Currency: "u$d"})
	s.Require().ErrorIs(err, validate.ErrInvalid)
	s.Require().Zero(s.gecko.calls)
}

func (s *MarketServiceSuite) TestUpstreamErrors() {
	s.gecko.err = fmt.Errorf("boom: %w", httptools.ErrUpstream)

	_, err := s.ms.Trending(context.Background())
	s.Require().ErrorIs(err, ErrUpstream)
	s.Require().Empty(s.cache.data)

	s.gecko.err = fmt.Errorf("gone: %w", httptools.ErrNotFound)

	_, err = s.ms.Coin(context.Background(), "nope", "")
	s.Require().ErrorIs(err, ErrNotFound)

	_, err = s.ms.Global(context.Background(), "")
	s.Require().ErrorIs(err, ErrUnavailable)
}

func (s *MarketServiceSuite) TestCoinRejectsPathLikeID() {
	_, err := s.ms.Coin(context.Background(), "../admin", "")
	s.Require().ErrorIs(err, validate.ErrInvalid)
}

func (s *MarketServiceSuite) TestCurrencyValidated() {
	ctx := context.Background()

	_, err := s.ms.Coin(ctx, "bitcoin", "usd.x")
	s.Require().ErrorIs(err, validate.ErrInvalid)

	_, err = s.ms.Global(ctx, "usd.x")
	s.Require().ErrorIs(err, validate.ErrInvalid)

	_, err = s.ms.Listings(ctx, 10, "usd.x")
	s.Require().ErrorIs(err, validate.ErrInvalid)

	s.Require().Zero(s.gecko.calls)
	s.Require().Empty(s.cache.data)

	c, err := s.ms.Coin(ctx, "bitcoin", "EUR")
	s.Require().NoError(err)
	s.Require().Equal("bitcoin", c.ID)
	s.Require().Contains(s.cache.data, "coin:bitcoin:eur")
}

func (s *MarketServiceSuite) TestChartDays() {
	_, err := s.ms.Chart(context.Background(), ChartRequest{CoinID: "bitcoin", Days: "2"})
	s.Require().ErrorIs(err, validate.ErrInvalid)

	_, err = s.ms.Chart(context.Background(), ChartRequest{CoinID: "bitcoin"})
	s.Require().NoError(err)
	s.Require().Contains(s.cache.data, "chart:bitcoin:usd:7")
}

func (s *MarketServiceSuite) TestPricesNormalizesIDs() {
	_, err := s.ms.Prices(context.Background(), PricesRequest{CoinIDs: []string{"solana", " Bitcoin", "solana"}})
	s.Require().NoError(err)
	s.Require().Equal([]string{"bitcoin", "solana"}, s.gecko.ids)
	s.Require().Contains(s.cache.data, "prices:usd:bitcoin,solana")

	_, err = s.ms.Prices(context.Background(), PricesRequest{})
	s.Require().ErrorIs(err, validate.ErrInvalid)
}

func (s *MarketServiceSuite) TestLimits() {
	l, err := s.ms.Listings(context.Background(), 0, "")
	s.Require().NoError(err)
	s.Require().Len(l, 100)

	_, err = s.ms.Listings(context.Background(), 501, "")
	s.Require().ErrorIs(err, validate.ErrInvalid)

	f, err := s.ms.FearGreed(context.Background(), 0)
	s.Require().NoError(err)
	s.Require().Len(f, 1)

	_, err = s.ms.FearGreed(context.Background(), -1)
	s.Require().True(errors.Is(err, validate.ErrInvalid))
}
