package portfolioservice

import "github.com/shopspring/decimal"

type PortfolioRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type AssetRequest struct {
	CoinID   string          `json:"coin_id"   validate:"required,max=100"` //nolint:tagliatelle
	Symbol   string          `json:"symbol"    validate:"required,max=20"`
	Amount   decimal.Decimal `json:"amount"`
	BuyPrice decimal.Decimal `json:"buy_price"` //nolint:tagliatelle
}

// UpdateAssetRequest changes only the fields that are set.
type UpdateAssetRequest struct {
	Amount   *decimal.Decimal `json:"amount"`
	BuyPrice *decimal.Decimal `json:"buy_price"` //nolint:tagliatelle
}
