package models

type Action string

const (
	ActionBuy     Action = "buy"
	ActionNoTrade Action = "no_trade"
	ActionWatch   Action = "watch"
)

type Bias string

const (
	BiasBullish Bias = "bullish"
	BiasNeutral Bias = "neutral"
	BiasLong    Bias = "long"
)

// TradeRecommendation is the builder's verdict. Price fields are nil unless
// Action is buy.
type TradeRecommendation struct {
	Action     Action     `json:"action"`
	Bias       Bias       `json:"bias"`
	Entry      *float64   `json:"entry,omitempty"`
	StopLoss   *float64   `json:"stop_loss,omitempty"`
	TakeProfit *float64   `json:"take_profit,omitempty"`
	RiskReward *float64   `json:"rr,omitempty"`
	SharkScore int        `json:"shark_score"`
	Confidence float64    `json:"confidence"`
	Reason     string     `json:"reason,omitempty"`
	Reasons    []string   `json:"reasons"`
	Note       string     `json:"note,omitempty"`
	Debug      ScoreDebug `json:"debug"`
}

// ScoreDebug holds the sub-scores that made up SharkScore.
type ScoreDebug struct {
	Trend      *TrendDebug `json:"trend,omitempty"`
	Drift      *DriftDebug `json:"drift,omitempty"`
	SMC        *SetupDebug `json:"smc,omitempty"`
	OrderBlock *SetupDebug `json:"order_block,omitempty"`
	Wyckoff    *SetupDebug `json:"wyckoff,omitempty"`
	RR         *RRDebug    `json:"rr,omitempty"`
}

type TrendDebug struct {
	EMA10 float64 `json:"ema10"`
	EMA21 float64 `json:"ema21"`
	ATR   float64 `json:"atr"`
	RSI   float64 `json:"rsi,omitempty"`
	Score int     `json:"score"`
}

type DriftDebug struct {
	Change float64 `json:"change"`
	Range  float64 `json:"range"`
	Ratio  float64 `json:"ratio"`
	Score  int     `json:"score"`
}

type SetupDebug struct {
	Count int     `json:"count"`
	Entry float64 `json:"entry,omitempty"`
	Score int     `json:"score"`
}

type RRDebug struct {
	Value float64 `json:"value"`
	Min   float64 `json:"min"`
	Score int     `json:"score"`
}

// OverviewSignal is the engine's advisory summary across detectors.
type OverviewSignal struct {
	Bias       Bias    `json:"bias"`
	Action     Action  `json:"action"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason,omitempty"`
	ValidFor   string  `json:"valid_for,omitempty"`
}

// Suggestion is returned when the series is too quiet to analyse.
type Suggestion struct {
	TryTimeframes []string `json:"try_timeframes"`
	Reason        string   `json:"reason"`
}

// StrategyRun is the strategy engine's output.
type StrategyRun struct {
	MarketState MarketState       `json:"market_state"`
	Signal      OverviewSignal    `json:"signal"`
	Signals     SignalsByStrategy `json:"signals"`
	Suggestion  *Suggestion       `json:"suggestion,omitempty"`
}
