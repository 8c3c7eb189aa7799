package dto

// TariffTierResponse is one row of the public tariff table.
type TariffTierResponse struct {
	MaxHours float64 `json:"max_hours"`
	Rate     int     `json:"rate"`
}

type TariffTableResponse struct {
	Tiers       []TariffTierResponse `json:"tiers"`
	DefaultRate int                  `json:"default_rate"`
	Currency    string               `json:"currency"`
}

// QuoteRequest asks for the price of a prospective interval.
type QuoteRequest struct {
	Start string `json:"start"` // RFC3339
	End   string `json:"end"`   // RFC3339
}

type QuoteResponse struct {
	Hours      float64 `json:"hours"`
	Rate       int     `json:"rate"`
	TotalPrice int     `json:"total_price"`
}
