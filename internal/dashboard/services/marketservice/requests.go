package marketservice

type currencyRequest struct {
	Currency string `validate:"omitempty,alpha,min=3,max=5"`
}

type CoinsRequest struct {
	Currency string `validate:"omitempty,alpha,min=3,max=5"`
	Page     int    `validate:"min=0"`
	PerPage  int    `validate:"min=0,max=250"`
}

type ChartRequest struct {
	CoinID   string `validate:"required,max=100"`
	Currency string `validate:"omitempty,alpha,min=3,max=5"`
	Days     string `validate:"omitempty,oneof=1 7 14 30 90 180 365 max"`
}

type PricesRequest struct {
	CoinIDs  []string `validate:"required,min=1,max=250,dive,required,max=100"`
	Currency string   `validate:"omitempty,alpha,min=3,max=5"`
}
