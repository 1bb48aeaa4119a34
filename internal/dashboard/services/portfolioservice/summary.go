package portfolioservice

import (
	"strings"

	"github.com/Leopold1975/crypto_dashboard/internal/dashboard/domain/models"
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

const percentPlaces = 2

type AssetSummary struct {
	models.Asset
	Priced     bool            `json:"priced"`
	Price      decimal.Decimal `json:"price"`
	Value      decimal.Decimal `json:"value"`
	Cost       decimal.Decimal `json:"cost"`
	PnL        decimal.Decimal `json:"pnl"`
	PnLPercent decimal.Decimal `json:"pnl_percent"` //nolint:tagliatelle
}

type Display struct {
	TotalValue string `json:"total_value"` //nolint:tagliatelle
	TotalCost  string `json:"total_cost"`  //nolint:tagliatelle
	PnL        string `json:"pnl"`
}

type Summary struct {
	PortfolioID int64           `json:"portfolio_id"` //nolint:tagliatelle
	Name        string          `json:"name"`
	Currency    string          `json:"currency"`
	Assets      []AssetSummary  `json:"assets"`
	Unpriced    []string        `json:"unpriced"`
	TotalValue  decimal.Decimal `json:"total_value"` //nolint:tagliatelle
	TotalCost   decimal.Decimal `json:"total_cost"`  //nolint:tagliatelle
	PnL         decimal.Decimal `json:"pnl"`
	PnLPercent  decimal.Decimal `json:"pnl_percent"` //nolint:tagliatelle
	Display     Display         `json:"display"`
}

// summarize values every asset at prices. Assets without a price are listed
// in Unpriced and left out of the totals.
func summarize(p models.Portfolio, prices map[string]decimal.Decimal, currency string) Summary {
	s := Summary{
		PortfolioID: p.ID,
		Name:        p.Name,
		Currency:    currency,
		Assets:      make([]AssetSummary, 0, len(p.Assets)),
		Unpriced:    []string{},
		TotalValue:  decimal.Zero,
		TotalCost:   decimal.Zero,
	}

	for _, a := range p.Assets {
		as := AssetSummary{Asset: a, Cost: a.Cost()} //nolint:exhaustruct

		price, ok := prices[a.CoinID]
		if !ok {
			s.Unpriced = append(s.Unpriced, a.CoinID)
			s.Assets = append(s.Assets, as)

			continue
		}

		as.Priced = true
		as.Price = price
		as.Value = a.Amount.Mul(price)
		as.PnL = as.Value.Sub(as.Cost)
		as.PnLPercent = percent(as.PnL, as.Cost)

		s.TotalValue = s.TotalValue.Add(as.Value)
		s.TotalCost = s.TotalCost.Add(as.Cost)
		s.Assets = append(s.Assets, as)
	}

	s.PnL = s.TotalValue.Sub(s.TotalCost)
	s.PnLPercent = percent(s.PnL, s.TotalCost)
	s.Display = Display{
		TotalValue: display(s.TotalValue, currency),
		TotalCost:  display(s.TotalCost, currency),
		PnL:        display(s.PnL, currency),
	}

	return s
}

func percent(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}

	return part.Div(whole).Mul(decimal.NewFromInt(100)).Round(percentPlaces) //nolint:gomnd
}

// display formats d for humans. Currencies unknown to go-money, crypto quote
// currencies among them, fall back to a plain amount with the code.
func display(d decimal.Decimal, currency string) string {
	code := strings.ToUpper(currency)

	cur := money.GetCurrency(code)
	if cur == nil {
		return d.StringFixed(percentPlaces) + " " + code
	}

	minor := d.Shift(int32(cur.Fraction)).Round(0).IntPart()

	return money.New(minor, code).Display()
}
