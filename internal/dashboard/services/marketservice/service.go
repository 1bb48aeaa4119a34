package marketservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/Leopold1975/crypto_dashboard/internal/dashboard/domain/models"
	"github.com/Leopold1975/crypto_dashboard/internal/dashboard/providers/coingecko"
	"github.com/Leopold1975/crypto_dashboard/internal/dashboard/providers/coinmarketcap"
	"github.com/Leopold1975/crypto_dashboard/internal/dashboard/repository/marketcache"
	"github.com/Leopold1975/crypto_dashboard/internal/pkg/httptools"
	"github.com/Leopold1975/crypto_dashboard/internal/pkg/metrics"
	"github.com/Leopold1975/crypto_dashboard/internal/pkg/validate"
	"github.com/Leopold1975/crypto_dashboard/pkg/logger"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound    = errors.New("coin not found")
	ErrUpstream    = errors.New("market data provider error")
	ErrUnavailable = errors.New("market data provider is not configured")
)

const (
	defaultPerPage  = 50
	defaultDays     = "7"
	defaultListings = 100
	maxListings     = 500
	defaultFNG      = 1
	maxFNG          = 365

	// MaxPriceIDs is how many coins one Prices call accepts.
	MaxPriceIDs = 250
)

type CoinGecko interface {
	Markets(context.Context, coingecko.MarketsRequest) ([]models.Coin, error)
	Coin(ctx context.Context, id, currency string) (models.CoinDetails, error)
	Chart(ctx context.Context, id, currency, days string) ([]models.PricePoint, error)
	Trending(context.Context) ([]models.TrendingCoin, error)
	Prices(ctx context.Context, ids []string, currency string) (map[string]decimal.Decimal, error)
}

type CoinMarketCap interface {
	Global(ctx context.Context, currency string) (models.GlobalMetrics, error)
	Listings(ctx context.Context, limit int, currency string) ([]models.Listing, error)
}

type FearGreed interface {
	Index(ctx context.Context, limit int) ([]models.FearGreed, error)
}

type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

type MarketService struct {
	cg       CoinGecko
	cmc      CoinMarketCap
	fng      FearGreed
	cache    Cache
	currency string
	lg       logger.Logger
}

func New(cg CoinGecko, cmc CoinMarketCap, fng FearGreed, cache Cache,
	defaultCurrency string, lg logger.Logger,
) *MarketService {
	return &MarketService{
		cg:       cg,
		cmc:      cmc,
		fng:      fng,
		cache:    cache,
		currency: strings.ToLower(defaultCurrency),
		lg:       lg,
	}
}

// cached serves key from the cache, or calls fetch and stores its result.
// Cache failures are logged and never fail the request.
func cached[T any](ctx context.Context, ms *MarketService, key string, fetch func() (T, error)) (T, error) {
	b, err := ms.cache.Get(ctx, key)
	if err == nil {
		var v T
		if err = json.Unmarshal(b, &v); err == nil {
			metrics.RecordCache(true)

			return v, nil
		}

		ms.lg.Warnf("decode cached %s error: %s", key, err)
	} else if !errors.Is(err, marketcache.ErrMiss) {
		ms.lg.Errorf("get market cache error: %s", err)
	}

	metrics.RecordCache(false)

	v, err := fetch()
	if err != nil {
		return v, mapErr(err)
	}

	b, err = json.Marshal(v)
	if err != nil {
		ms.lg.Errorf("encode %s error: %s", key, err)

		return v, nil
	}

	if err := ms.cache.Set(ctx, key, b); err != nil {
		ms.lg.Errorf("set market cache error: %s", err)
	}

	return v, nil
}

func mapErr(err error) error {
	switch {
	case errors.Is(err, httptools.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, coinmarketcap.ErrNoAPIKey):
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	case errors.Is(err, httptools.ErrUpstream):
		return fmt.Errorf("%w: %w", ErrUpstream, err)
	default:
		return fmt.Errorf("%w: %w", ErrUpstream, err)
	}
}

func (ms *MarketService) currencyOr(c string) string {
	if c == "" {
		return ms.currency
	}

	return strings.ToLower(c)
}

// checkCurrency validates a currency taken outside of a request struct.
func (ms *MarketService) checkCurrency(c string) (string, error) {
	if err := validate.Struct(currencyRequest{Currency: c}); err != nil {
		return "", err //nolint:wrapcheck
	}

	return ms.currencyOr(c), nil
}

func (ms *MarketService) Coins(ctx context.Context, req CoinsRequest) ([]models.Coin, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err //nolint:wrapcheck
	}

	cgReq := coingecko.MarketsRequest{
		Currency: ms.currencyOr(req.Currency),
		Page:     req.Page,
		PerPage:  req.PerPage,
	}

	if cgReq.Page == 0 {
		cgReq.Page = 1
	}

	if cgReq.PerPage == 0 {
		cgReq.PerPage = defaultPerPage
	}

	key := fmt.Sprintf("coins:%s:%d:%d", cgReq.Currency, cgReq.Page, cgReq.PerPage)

	return cached(ctx, ms, key, func() ([]models.Coin, error) {
		return ms.cg.Markets(ctx, cgReq) //nolint:wrapcheck
	})
}

func (ms *MarketService) Coin(ctx context.Context, id, currency string) (models.CoinDetails, error) {
	if id == "" || url.PathEscape(id) != id {
		return models.CoinDetails{}, validate.Errorf("invalid coin id %q", id)
	}

	currency, err := ms.checkCurrency(currency)
	if err != nil {
		return models.CoinDetails{}, err
	}

	return cached(ctx, ms, "coin:"+id+":"+currency, func() (models.CoinDetails, error) {
		return ms.cg.Coin(ctx, id, currency) //nolint:wrapcheck
	})
}

func (ms *MarketService) Chart(ctx context.Context, req ChartRequest) ([]models.PricePoint, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err //nolint:wrapcheck
	}

	if url.PathEscape(req.CoinID) != req.CoinID {
		return nil, validate.Errorf("invalid coin id %q", req.CoinID)
	}

	currency := ms.currencyOr(req.Currency)

	days := req.Days
	if days == "" {
		days = defaultDays
	}

	key := fmt.Sprintf("chart:%s:%s:%s", req.CoinID, currency, days)

	return cached(ctx, ms, key, func() ([]models.PricePoint, error) {
		return ms.cg.Chart(ctx, req.CoinID, currency, days) //nolint:wrapcheck
	})
}

func (ms *MarketService) Trending(ctx context.Context) ([]models.TrendingCoin, error) {
	return cached(ctx, ms, "trending", func() ([]models.TrendingCoin, error) {
		return ms.cg.Trending(ctx) //nolint:wrapcheck
	})
}

// Prices returns the current price of every requested coin that the
// provider knows about.
func (ms *MarketService) Prices(ctx context.Context, req PricesRequest) (map[string]decimal.Decimal, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err //nolint:wrapcheck
	}

	ids := make([]string, 0, len(req.CoinIDs))
	seen := make(map[string]struct{}, len(req.CoinIDs))

	for _, id := range req.CoinIDs {
		id = strings.ToLower(strings.TrimSpace(id))
		if _, ok := seen[id]; ok || id == "" {
			continue
		}

		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	sort.Strings(ids)

	currency := ms.currencyOr(req.Currency)
	key := "prices:" + currency + ":" + strings.Join(ids, ",")

	return cached(ctx, ms, key, func() (map[string]decimal.Decimal, error) {
		return ms.cg.Prices(ctx, ids, currency) //nolint:wrapcheck
	})
}

func (ms *MarketService) Global(ctx context.Context, currency string) (models.GlobalMetrics, error) {
	currency, err := ms.checkCurrency(currency)
	if err != nil {
		return models.GlobalMetrics{}, err
	}

	return cached(ctx, ms, "global:"+currency, func() (models.GlobalMetrics, error) {
		return ms.cmc.Global(ctx, currency) //nolint:wrapcheck
	})
}

func (ms *MarketService) Listings(ctx context.Context, limit int, currency string) ([]models.Listing, error) {
	if limit < 0 || limit > maxListings {
		return nil, validate.Errorf("limit must be between 1 and %d", maxListings)
	}

	if limit == 0 {
		limit = defaultListings
	}

	currency, err := ms.checkCurrency(currency)
	if err != nil {
		return nil, err
	}

	key := "listings:" + currency + ":" + strconv.Itoa(limit)

	return cached(ctx, ms, key, func() ([]models.Listing, error) {
		return ms.cmc.Listings(ctx, limit, currency) //nolint:wrapcheck
	})
}

func (ms *MarketService) FearGreed(ctx context.Context, limit int) ([]models.FearGreed, error) {
	if limit < 0 || limit > maxFNG {
		return nil, validate.Errorf("limit must be between 1 and %d", maxFNG)
	}

	if limit == 0 {
		limit = defaultFNG
	}

	return cached(ctx, ms, "feargreed:"+strconv.Itoa(limit), func() ([]models.FearGreed, error) {
		return ms.fng.Index(ctx, limit) //nolint:wrapcheck
	})
}
