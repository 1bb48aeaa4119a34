package portfolioservice

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Leopold1975/crypto_dashboard/internal/dashboard/domain/models"
	repo "github.com/Leopold1975/crypto_dashboard/internal/dashboard/repository/portfoliorepo"
	"github.com/Leopold1975/crypto_dashboard/internal/dashboard/services/marketservice"
	"github.com/Leopold1975/crypto_dashboard/internal/pkg/validate"
	"github.com/Leopold1975/crypto_dashboard/pkg/logger"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound      = errors.New("portfolio not found")
	ErrAlreadyExists = errors.New("portfolio with this name already exists")
	ErrAssetNotFound = errors.New("asset not found")
)

type Repository interface {
	CreatePortfolio(context.Context, models.Portfolio) (models.Portfolio, error)
	ListPortfolios(ctx context.Context, userID int64) ([]models.Portfolio, error)
	GetPortfolio(ctx context.Context, userID, portfolioID int64) (models.Portfolio, error)
	UpdatePortfolio(context.Context, models.Portfolio) error
	DeletePortfolio(ctx context.Context, userID, portfolioID int64) error
	ListAssets(ctx context.Context, userID, portfolioID int64) ([]models.Asset, error)
	CreateAsset(ctx context.Context, userID int64, a models.Asset) (models.Asset, error)
	UpdateAsset(ctx context.Context, userID int64, a models.Asset) (models.Asset, error)
	GetAsset(ctx context.Context, userID, portfolioID, assetID int64) (models.Asset, error)
	DeleteAsset(ctx context.Context, userID, portfolioID, assetID int64) error
}

type PriceSource interface {
	Prices(context.Context, marketservice.PricesRequest) (map[string]decimal.Decimal, error)
}

type PortfolioService struct {
	portfolioRepo Repository
	prices        PriceSource
	currency      string
	lg            logger.Logger
}

func New(portfolioRepo Repository, prices PriceSource, defaultCurrency string, lg logger.Logger) *PortfolioService {
	return &PortfolioService{
		portfolioRepo: portfolioRepo,
		prices:        prices,
		currency:      strings.ToLower(defaultCurrency),
		lg:            lg,
	}
}

func mapErr(err error, op string) error {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repo.ErrAlreadyExists):
		return ErrAlreadyExists
	case errors.Is(err, repo.ErrAssetNotFound):
		return ErrAssetNotFound
	default:
		return fmt.Errorf("%s error: %w", op, err)
	}
}

func (ps *PortfolioService) CreatePortfolio(ctx context.Context, userID int64, req PortfolioRequest) (models.Portfolio, error) {
	req.Name = strings.TrimSpace(req.Name)

	if err := validate.Struct(req); err != nil {
		return models.Portfolio{}, err //nolint:wrapcheck
	}

	p, err := ps.portfolioRepo.CreatePortfolio(ctx, models.Portfolio{UserID: userID, Name: req.Name}) //nolint:exhaustruct
	if err != nil {
		return models.Portfolio{}, mapErr(err, "create portfolio")
	}

	return p, nil
}

func (ps *PortfolioService) ListPortfolios(ctx context.Context, userID int64) ([]models.Portfolio, error) {
	portfolios, err := ps.portfolioRepo.ListPortfolios(ctx, userID)
	if err != nil {
		return nil, mapErr(err, "list portfolios")
	}

	return portfolios, nil
}

// GetPortfolio returns the portfolio with its assets.
func (ps *PortfolioService) GetPortfolio(ctx context.Context, userID, portfolioID int64) (models.Portfolio, error) {
	p, err := ps.portfolioRepo.GetPortfolio(ctx, userID, portfolioID)
	if err != nil {
		return models.Portfolio{}, mapErr(err, "get portfolio")
	}

	return p, nil
}

func (ps *PortfolioService) RenamePortfolio(ctx context.Context,
	userID, portfolioID int64, req PortfolioRequest,
) (models.Portfolio, error) {
	req.Name = strings.TrimSpace(req.Name)

	if err := validate.Struct(req); err != nil {
		return models.Portfolio{}, err //nolint:wrapcheck
	}

	p := models.Portfolio{ID: portfolioID, UserID: userID, Name: req.Name} //nolint:exhaustruct

	if err := ps.portfolioRepo.UpdatePortfolio(ctx, p); err != nil {
		return models.Portfolio{}, mapErr(err, "update portfolio")
	}

	return ps.GetPortfolio(ctx, userID, portfolioID)
}

func (ps *PortfolioService) DeletePortfolio(ctx context.Context, userID, portfolioID int64) error {
	if err := ps.portfolioRepo.DeletePortfolio(ctx, userID, portfolioID); err != nil {
		return mapErr(err, "delete portfolio")
	}

	return nil
}

func (ps *PortfolioService) ListAssets(ctx context.Context, userID, portfolioID int64) ([]models.Asset, error) {
	assets, err := ps.portfolioRepo.ListAssets(ctx, userID, portfolioID)
	if err != nil {
		return nil, mapErr(err, "list assets")
	}

	return assets, nil
}

func checkQuantities(amount, buyPrice decimal.Decimal) error {
	if !amount.IsPositive() {
		return validate.Errorf("amount must be positive")
	}

	if buyPrice.IsNegative() {
		return validate.Errorf("buy_price must not be negative")
	}

	return nil
}

func (ps *PortfolioService) AddAsset(ctx context.Context,
	userID, portfolioID int64, req AssetRequest,
) (models.Asset, error) {
	req.CoinID = strings.ToLower(strings.TrimSpace(req.CoinID))
	req.Symbol = strings.ToUpper(strings.TrimSpace(req.Symbol))

	if err := validate.Struct(req); err != nil {
		return models.Asset{}, err //nolint:wrapcheck
	}

	if err := checkQuantities(req.Amount, req.BuyPrice); err != nil {
		return models.Asset{}, err
	}

	a := models.Asset{ //nolint:exhaustruct
		PortfolioID: portfolioID,
		CoinID:      req.CoinID,
		Symbol:      req.Symbol,
		Amount:      req.Amount,
		BuyPrice:    req.BuyPrice,
	}

	a, err := ps.portfolioRepo.CreateAsset(ctx, userID, a)
	if err != nil {
		return models.Asset{}, mapErr(err, "create asset")
	}

	return a, nil
}

func (ps *PortfolioService) UpdateAsset(ctx context.Context,
	userID, portfolioID, assetID int64, req UpdateAssetRequest,
) (models.Asset, error) {
	a, err := ps.portfolioRepo.GetAsset(ctx, userID, portfolioID, assetID)
	if err != nil {
		return models.Asset{}, mapErr(err, "get asset")
	}

	if req.Amount != nil {
		a.Amount = *req.Amount
	}

	if req.BuyPrice != nil {
		a.BuyPrice = *req.BuyPrice
	}

	if err := checkQuantities(a.Amount, a.BuyPrice); err != nil {
		return models.Asset{}, err
	}

	a, err = ps.portfolioRepo.UpdateAsset(ctx, userID, a)
	if err != nil {
		return models.Asset{}, mapErr(err, "update asset")
	}

	return a, nil
}

func (ps *PortfolioService) DeleteAsset(ctx context.Context, userID, portfolioID, assetID int64) error {
	if err := ps.portfolioRepo.DeleteAsset(ctx, userID, portfolioID, assetID); err != nil {
		return mapErr(err, "delete asset")
	}

	return nil
}

// Summary values the portfolio at current market prices.
func (ps *PortfolioService) Summary(ctx context.Context, userID, portfolioID int64, currency string) (Summary, error) {
	currency = strings.ToLower(strings.TrimSpace(currency))
	if currency == "" {
		currency = ps.currency
	}

	p, err := ps.GetPortfolio(ctx, userID, portfolioID)
	if err != nil {
		return Summary{}, err
	}

	prices := map[string]decimal.Decimal{}

	if len(p.Assets) != 0 {
		prices, err = ps.fetchPrices(ctx, p.Assets, currency)
		if err != nil {
			return Summary{}, err
		}
	}

	return summarize(p, prices, currency), nil
}

// fetchPrices asks for each distinct coin once, at most MaxPriceIDs per call.
func (ps *PortfolioService) fetchPrices(ctx context.Context, assets []models.Asset,
	currency string,
) (map[string]decimal.Decimal, error) {
	seen := make(map[string]struct{}, len(assets))
	ids := make([]string, 0, len(assets))

	for _, a := range assets {
		if _, ok := seen[a.CoinID]; ok {
			continue
		}

		seen[a.CoinID] = struct{}{}
		ids = append(ids, a.CoinID)
	}

	sort.Strings(ids)

	prices := make(map[string]decimal.Decimal, len(ids))

	for start := 0; start < len(ids); start += marketservice.MaxPriceIDs {
		end := min(start+marketservice.MaxPriceIDs, len(ids))

		batch, err := ps.prices.Prices(ctx, marketservice.PricesRequest{CoinIDs: ids[start:end], Currency: currency})
		if err != nil {
			return nil, fmt.Errorf("get prices error: %w", err)
		}

		for id, p := range batch {
			prices[id] = p
		}
	}

	return prices, nil
}
