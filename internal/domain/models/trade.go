package models

import "time"

// SignalStatus classifies a generate-signal outcome.
type SignalStatus string

const (
	StatusTradeSignal      SignalStatus = "trade_signal"
	StatusWeakSignal       SignalStatus = "weak_signal"
	StatusNoTrade          SignalStatus = "no_trade"
	StatusInsufficientData SignalStatus = "insufficient_data"
	StatusError            SignalStatus = "error"
)

// SignalOutcome is the result of analysing one symbol.
type SignalOutcome struct {
	Symbol         string               `json:"symbol"`
	Status         SignalStatus         `json:"status"`
	Reason         string               `json:"reason,omitempty"`
	Interval       string               `json:"interval"`
	Candles        int                  `json:"candles"`
	LastPrice      float64              `json:"last_price,omitempty"`
	AsOf           time.Time            `json:"as_of,omitempty"`
	Recommendation *TradeRecommendation `json:"recommendation,omitempty"`
	Strategies     *StrategyRun         `json:"strategies,omitempty"`
}

// ScanResult partitions a multi-symbol scan.
type ScanResult struct {
	ScanID  string            `json:"scan_id"`
	Found   []SignalOutcome   `json:"signals"`
	NoSetup []SignalOutcome   `json:"no_setup"`
	Errors  map[string]string `json:"errors"`
	Took    time.Duration     `json:"-"`
}

// TradeCheck is the outcome of validating a user-supplied trade plan.
type TradeCheck struct {
	Symbol       string  `json:"symbol"`
	Entry        float64 `json:"entry"`
	StopLoss     float64 `json:"stop_loss"`
	TakeProfit   float64 `json:"take_profit"`
	Risk         float64 `json:"risk"`
	Reward       float64 `json:"reward"`
	RiskReward   float64 `json:"rr"`
	RiskPct      float64 `json:"risk_pct"`
	RewardPct    float64 `json:"reward_pct"`
	CurrentPrice float64 `json:"current_price,omitempty"`
}

// SignalEvent is what gets published for every trade_signal outcome.
type SignalEvent struct {
	ID             string              `json:"id"`
	Symbol         string              `json:"symbol"`
	Status         SignalStatus        `json:"status"`
	Interval       string              `json:"interval"`
	GeneratedAt    time.Time           `json:"generated_at"`
	Recommendation TradeRecommendation `json:"recommendation"`
}

// PositionSize is a suggested order quantity for a risk budget.
type PositionSize struct {
	Quantity     int64   `json:"quantity"`
	RiskAmount   float64 `json:"risk_amount"`
	RiskPerShare float64 `json:"risk_per_share"`
	Capital      float64 `json:"capital_required"`
	Capped       bool    `json:"capped"`
}

// DCAOrder is one fill of a dollar-cost-averaged position.
type DCAOrder struct {
	Price    float64 `json:"price"`
	Quantity int64   `json:"quantity"`
}

// DCASummary aggregates DCA fills.
type DCASummary struct {
	AveragePrice  float64 `json:"average_price"`
	TotalQuantity int64   `json:"total_quantity"`
	TotalCost     float64 `json:"total_cost"`
}
