package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type AlertCondition string

const (
	ConditionAbove AlertCondition = "above"
	ConditionBelow AlertCondition = "below"
)

func (c AlertCondition) Valid() bool {
	return c == ConditionAbove || c == ConditionBelow
}

type PriceAlert struct {
	ID          int64           `json:"alert_id"` //nolint:tagliatelle
	UserID      int64           `json:"-"`
	CoinID      string          `json:"coin_id"`      //nolint:tagliatelle
	TargetPrice decimal.Decimal `json:"target_price"` //nolint:tagliatelle
	Condition   AlertCondition  `json:"condition"`
	Triggered   bool            `json:"triggered"`
	TriggeredAt *time.Time      `json:"triggered_at,omitempty"` //nolint:tagliatelle
	CreatedAt   time.Time       `json:"created_at"`             //nolint:tagliatelle
}

// Reached reports whether price satisfies the alert condition.
func (a PriceAlert) Reached(price decimal.Decimal) bool {
	switch a.Condition {
	case ConditionAbove:
		return price.GreaterThanOrEqual(a.TargetPrice)
	case ConditionBelow:
		return price.LessThanOrEqual(a.TargetPrice)
	default:
		return false
	}
}
