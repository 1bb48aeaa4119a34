package alertservice

import (
	"github.com/Leopold1975/crypto_dashboard/internal/dashboard/domain/models"
	"github.com/shopspring/decimal"
)

type AlertRequest struct {
	CoinID      string                `json:"coin_id"      validate:"required,max=100"` //nolint:tagliatelle
	TargetPrice decimal.Decimal       `json:"target_price"`                             //nolint:tagliatelle
	Condition   models.AlertCondition `json:"condition"    validate:"required,oneof=above below"`
}

// TriggeredAlert is an alert that fired together with the price that fired it.
type TriggeredAlert struct {
	models.PriceAlert
	Price decimal.Decimal `json:"price"`
}
