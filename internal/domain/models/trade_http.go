package models

// Requests for trade HTTP endpoints. Bound from query params, defaulted with
// creasty/defaults and validated with go-playground/validator.

type TradeSignalRequest struct {
	Symbol     string  `query:"symbol" json:"symbol" validate:"required,alphanum,max=10"`
	Strategies string  `query:"strategies" json:"strategies" default:"order_block,smc,wyckoff"`
	RRMin      float64 `query:"rr_min" json:"rr_min" default:"2" validate:"gt=0,lte=20"`
	Timeframe  string  `query:"timeframe" json:"timeframe" default:"1m" validate:"oneof=1m 5m 15m"`
	Minutes    int     `query:"minutes" json:"minutes" validate:"gte=0,lte=43200"`
}

type ScanRequest struct {
	Symbols    string  `query:"symbols" json:"symbols" validate:"required"`
	Strategies string  `query:"strategies" json:"strategies" default:"order_block,smc,wyckoff"`
	RRMin      float64 `query:"rr_min" json:"rr_min" default:"2" validate:"gt=0,lte=20"`
	Timeframe  string  `query:"timeframe" json:"timeframe" default:"1m" validate:"oneof=1m 5m 15m"`
	Minutes    int     `query:"minutes" json:"minutes" validate:"gte=0,lte=43200"`
}

type ValidateTradeRequest struct {
	Symbol     string  `query:"symbol" json:"symbol" validate:"required,alphanum,max=10"`
	Entry      float64 `query:"entry" json:"entry" validate:"gt=0"`
	StopLoss   float64 `query:"sl" json:"sl" validate:"gt=0"`
	TakeProfit float64 `query:"tp" json:"tp" validate:"gt=0"`
}

type LastMinutesRequest struct {
	Symbol     string `query:"symbol" json:"symbol" validate:"required,alphanum,max=10"`
	Minutes    int    `query:"minutes" json:"minutes" default:"120" validate:"gte=1,lte=43200"`
	Limit      int    `query:"limit" json:"limit" default:"1000" validate:"gte=1,lte=10000"`
	Interval   string `query:"interval" json:"interval" default:"1m"`
	Strategies string `query:"strategies" json:"strategies"`
}

type HistoryRequest struct {
	Symbol     string `query:"symbol" json:"symbol" validate:"required,alphanum,max=10"`
	Start      string `query:"start" json:"start" validate:"required"`
	End        string `query:"end" json:"end"`
	Interval   string `query:"interval" json:"interval" default:"1d"`
	Strategies string `query:"strategies" json:"strategies"`
}

type PositionSizeRequest struct {
	Balance     float64 `query:"balance" json:"balance" validate:"gt=0"`
	RiskPct     float64 `query:"risk_pct" json:"risk_pct" default:"1" validate:"gt=0,lte=100"`
	Entry       float64 `query:"entry" json:"entry" validate:"gt=0"`
	StopLoss    float64 `query:"sl" json:"sl" validate:"gt=0"`
	LotSize     int64   `query:"lot" json:"lot" default:"100" validate:"gte=1"`
	MaxQuantity int64   `query:"max_qty" json:"max_qty" validate:"gte=0"`
}

type DCARequest struct {
	Orders []DCAOrder `json:"orders" validate:"required,min=1,max=100"`
}
