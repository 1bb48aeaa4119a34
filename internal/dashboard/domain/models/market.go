package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Coin struct {
	ID                       string          `json:"id"`
	Symbol                   string          `json:"symbol"`
	Name                     string          `json:"name"`
	Image                    string          `json:"image"`
	CurrentPrice             decimal.Decimal `json:"current_price"`                //nolint:tagliatelle
	MarketCap                float64         `json:"market_cap"`                   //nolint:tagliatelle
	MarketCapRank            int64           `json:"market_cap_rank"`              //nolint:tagliatelle
	PriceChangePercentage24h float64         `json:"price_change_percentage_24h"` //nolint:tagliatelle
	TotalVolume              float64         `json:"total_volume"`                 //nolint:tagliatelle
}

type CoinDetails struct {
	ID                       string          `json:"id"`
	Symbol                   string          `json:"symbol"`
	Name                     string          `json:"name"`
	Description              string          `json:"description"`
	Image                    string          `json:"image"`
	CurrentPrice             decimal.Decimal `json:"current_price"`                //nolint:tagliatelle
	MarketCap                float64         `json:"market_cap"`                   //nolint:tagliatelle
	High24h                  decimal.Decimal `json:"high_24h"`                     //nolint:tagliatelle
	Low24h                   decimal.Decimal `json:"low_24h"`                      //nolint:tagliatelle
	PriceChangePercentage24h float64         `json:"price_change_percentage_24h"` //nolint:tagliatelle
	CirculatingSupply        float64         `json:"circulating_supply"`           //nolint:tagliatelle
	TotalSupply              float64         `json:"total_supply"`                 //nolint:tagliatelle
}

type PricePoint struct {
	Timestamp time.Time       `json:"timestamp"`
	Price     decimal.Decimal `json:"price"`
}

type TrendingCoin struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Symbol        string `json:"symbol"`
	MarketCapRank int64  `json:"market_cap_rank"` //nolint:tagliatelle
	Thumb         string `json:"thumb"`
}

type GlobalMetrics struct {
	TotalMarketCap         float64   `json:"total_market_cap"`        //nolint:tagliatelle
	TotalVolume24h         float64   `json:"total_volume_24h"`        //nolint:tagliatelle
	BTCDominance           float64   `json:"btc_dominance"`           //nolint:tagliatelle
	ETHDominance           float64   `json:"eth_dominance"`           //nolint:tagliatelle
	ActiveCryptocurrencies int64     `json:"active_cryptocurrencies"` //nolint:tagliatelle
	LastUpdated            time.Time `json:"last_updated"`            //nolint:tagliatelle
}

type Listing struct {
	ID               int64           `json:"id"`
	Name             string          `json:"name"`
	Symbol           string          `json:"symbol"`
	Slug             string          `json:"slug"`
	CMCRank          int64           `json:"cmc_rank"` //nolint:tagliatelle
	Price            decimal.Decimal `json:"price"`
	MarketCap        float64         `json:"market_cap"`         //nolint:tagliatelle
	Volume24h        float64         `json:"volume_24h"`         //nolint:tagliatelle
	PercentChange24h float64         `json:"percent_change_24h"` //nolint:tagliatelle
}

type FearGreed struct {
	Value          int64     `json:"value"`
	Classification string    `json:"classification"`
	Timestamp      time.Time `json:"timestamp"`
}
