package models

type MarketStateType string

const (
	MarketLowVolatility MarketStateType = "low_volatility"
	MarketNormal        MarketStateType = "normal"
)

// MarketState is the tradability verdict for one series.
type MarketState struct {
	Type        MarketStateType `json:"type"`
	Tradable    bool            `json:"tradable"`
	Description string          `json:"description,omitempty"`

	ATRPct     float64 `json:"atr_pct"`
	PriceRange float64 `json:"price_range"`
	RelVol     float64 `json:"rel_vol"`
}
