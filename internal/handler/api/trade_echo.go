package api

import (
	"errors"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"SharkScan/internal/domain/models"
	domrepo "SharkScan/internal/domain/repository"
	"SharkScan/internal/service/ratelimit"
	"SharkScan/internal/services/engine"
	"SharkScan/internal/services/sizing"
	"SharkScan/internal/services/strategy"
	"SharkScan/internal/usecase"
	xhttp "SharkScan/pkg/http"
	xlogger "SharkScan/pkg/logger"
	"SharkScan/pkg/util"
)

// TradeEchoHandler exposes the signal pipeline over HTTP.
type TradeEchoHandler struct {
	logger  *xlogger.Logger
	trade   *usecase.TradeService
	candles *usecase.CandlesUseCase
	limiter *ratelimit.Limiter
	maxScan int
}

func NewTradeEchoHandler(
	logger *xlogger.Logger,
	trade *usecase.TradeService,
	candles *usecase.CandlesUseCase,
	limiter *ratelimit.Limiter,
	maxScan int,
) *TradeEchoHandler {
	return &TradeEchoHandler{logger: logger, trade: trade, candles: candles, limiter: limiter, maxScan: maxScan}
}

func (h *TradeEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Health)

	g := e.Group("/api/v1")
	g.GET("/strategies", h.Strategies)
	g.GET("/trade/signal", h.Signal)
	g.GET("/trade/scan", h.Scan, h.rateLimited)
	g.GET("/trade/validate", h.Validate)
	g.GET("/stock/last", h.LastMinutes)
	g.GET("/stock/history", h.History)
	g.GET("/position/size", h.PositionSize)
	g.POST("/position/dca", h.DCA)
}

func (h *TradeEchoHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"status":      "ok",
		"time":        util.NowVN(),
		"market_open": util.IsMarketOpen(time.Now()),
	})
}

func (h *TradeEchoHandler) Strategies(c echo.Context) error {
	names := strategy.Names()
	return xhttp.ListResponse(c, names)
}

func (h *TradeEchoHandler) Signal(c echo.Context) error {
	req := &models.TradeSignalRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	sel, err := engine.ParseSelection(req.Strategies)
	if err != nil {
		return xhttp.AppErrorResponse(c, xhttp.FieldError("strategies", err.Error()))
	}

	preset := usecase.PresetFor(req.Timeframe)
	minutes := req.Minutes
	if minutes == 0 {
		minutes = preset.Minutes
	}
	out, err := h.trade.GenerateSignal(c.Request().Context(), usecase.GenerateSignalParams{
		Symbol:    req.Symbol,
		Selection: sel,
		RRMin:     req.RRMin,
		Minutes:   minutes,
		Limit:     preset.Limit,
		Interval:  preset.Interval,
	})
	if err != nil {
		return h.fail(c, "trade signal", err)
	}
	return xhttp.SuccessResponse(c, out)
}

func (h *TradeEchoHandler) Scan(c echo.Context) error {
	req := &models.ScanRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	sel, err := engine.ParseSelection(req.Strategies)
	if err != nil {
		return xhttp.AppErrorResponse(c, xhttp.FieldError("strategies", err.Error()))
	}

	preset := usecase.PresetFor(req.Timeframe)
	minutes := req.Minutes
	if minutes == 0 {
		minutes = preset.Minutes
	}
	res, err := h.trade.ScanSymbols(c.Request().Context(), usecase.ScanParams{
		Symbols:   strings.Split(req.Symbols, ","),
		Selection: sel,
		RRMin:     req.RRMin,
		Minutes:   minutes,
		Limit:     preset.Limit,
		Interval:  preset.Interval,
	})
	if err != nil {
		return h.fail(c, "trade scan", err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *TradeEchoHandler) Validate(c echo.Context) error {
	req := &models.ValidateTradeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	check, err := h.trade.ValidateTrade(c.Request().Context(), req.Symbol, req.Entry, req.StopLoss, req.TakeProfit)
	if err != nil {
		return h.fail(c, "trade validate", err)
	}
	return xhttp.SuccessResponse(c, check)
}

func (h *TradeEchoHandler) LastMinutes(c echo.Context) error {
	req := &models.LastMinutesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	iv, err := domrepo.ParseInterval(req.Interval)
	if err != nil {
		return xhttp.AppErrorResponse(c, xhttp.FieldError("interval", err.Error()))
	}
	var sel []string
	if req.Strategies != "" {
		sel = strings.Split(req.Strategies, ",")
	}

	res, err := h.candles.LastMinutes(c.Request().Context(), usecase.LastMinutesParams{
		Symbol:    req.Symbol,
		Minutes:   req.Minutes,
		Limit:     req.Limit,
		Interval:  iv,
		Selection: engine.SelectionFromNames(sel),
	})
	if err != nil {
		return h.fail(c, "stock last", err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *TradeEchoHandler) History(c echo.Context) error {
	req := &models.HistoryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	iv, err := domrepo.ParseInterval(req.Interval)
	if err != nil {
		return xhttp.AppErrorResponse(c, xhttp.FieldError("interval", err.Error()))
	}
	start, ok := util.ParseTime(req.Start)
	if !ok {
		return xhttp.AppErrorResponse(c, xhttp.FieldError("start", "start must be a date or RFC3339 time"))
	}
	var end time.Time
	if req.End != "" {
		if end, ok = util.ParseTime(req.End); !ok {
			return xhttp.AppErrorResponse(c, xhttp.FieldError("end", "end must be a date or RFC3339 time"))
		}
	}
	var sel []string
	if req.Strategies != "" {
		sel = strings.Split(req.Strategies, ",")
	}

	res, err := h.candles.History(c.Request().Context(), usecase.HistoryParams{
		Symbol:    req.Symbol,
		Start:     start,
		End:       end,
		Interval:  iv,
		Selection: engine.SelectionFromNames(sel),
	})
	if err != nil {
		return h.fail(c, "stock history", err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *TradeEchoHandler) PositionSize(c echo.Context) error {
	req := &models.PositionSizeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	size, err := sizing.SuggestQuantity(sizing.SizeParams{
		Balance:     req.Balance,
		RiskPct:     req.RiskPct,
		Entry:       req.Entry,
		StopLoss:    req.StopLoss,
		LotSize:     req.LotSize,
		MaxQuantity: req.MaxQuantity,
	})
	if err != nil {
		return h.fail(c, "position size", err)
	}
	return xhttp.SuccessResponse(c, size)
}

func (h *TradeEchoHandler) DCA(c echo.Context) error {
	req := &models.DCARequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	summary, err := sizing.DCA(req.Orders)
	if err != nil {
		return h.fail(c, "position dca", err)
	}
	return xhttp.SuccessResponse(c, summary)
}

func (h *TradeEchoHandler) rateLimited(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if h.limiter != nil && !h.limiter.Allow(c.RealIP()) {
			return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("scan rate limit exceeded, retry shortly"))
		}
		return next(c)
	}
}

// fail maps usecase errors onto the response envelope.
func (h *TradeEchoHandler) fail(c echo.Context, op string, err error) error {
	var appErr *xhttp.AppError
	switch {
	case errors.Is(err, usecase.ErrTooManySymbols):
		appErr = xhttp.FieldError("symbols", err.Error()).WithParam("max", h.maxScan)
	case errors.Is(err, usecase.ErrNoSymbols):
		appErr = xhttp.FieldError("symbols", err.Error())
	case errors.Is(err, usecase.ErrInvalidSymbol):
		appErr = xhttp.FieldError("symbol", err.Error())
	case errors.Is(err, usecase.ErrInvalidRange):
		appErr = xhttp.FieldError("start", err.Error())
	case errors.Is(err, usecase.ErrInvalidTrade), errors.Is(err, sizing.ErrInvalidInput):
		appErr = xhttp.UnprocessableError(err.Error())
	case errors.Is(err, usecase.ErrMarketClosed):
		appErr = xhttp.UnprocessableError("market is closed (trading hours 09:00-15:00 ICT, Mon-Fri)")
	default:
		h.logger.Error(op+" failed", xlogger.String("path", c.Path()), xlogger.Error(err))
		appErr = xhttp.UpstreamError("market data unavailable").WithError(err)
	}
	return xhttp.AppErrorResponse(c, appErr)
}
