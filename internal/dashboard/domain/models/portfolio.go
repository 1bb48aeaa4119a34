package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Portfolio struct {
	ID        int64     `json:"portfolio_id"` //nolint:tagliatelle
	UserID    int64     `json:"-"`
	Name      string    `json:"name"`
	Assets    []Asset   `json:"assets,omitempty"`
	CreatedAt time.Time `json:"created_at"` //nolint:tagliatelle
}

type Asset struct {
	ID          int64           `json:"asset_id"`     //nolint:tagliatelle
	PortfolioID int64           `json:"portfolio_id"` //nolint:tagliatelle
	CoinID      string          `json:"coin_id"`      //nolint:tagliatelle
	Symbol      string          `json:"symbol"`
	Amount      decimal.Decimal `json:"amount"`
	BuyPrice    decimal.Decimal `json:"buy_price"`  //nolint:tagliatelle
	CreatedAt   time.Time       `json:"created_at"` //nolint:tagliatelle
	UpdatedAt   time.Time       `json:"updated_at"` //nolint:tagliatelle
}

// Cost is what was paid for the position.
func (a Asset) Cost() decimal.Decimal {
	return a.Amount.Mul(a.BuyPrice)
}
