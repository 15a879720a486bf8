// Package sizing suggests order quantities for a risk budget and summarizes DCA fills.
package sizing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"SharkScan/internal/domain/models"
)

var ErrInvalidInput = errors.New("invalid sizing input")

// DefaultLot is the HOSE board lot.
const DefaultLot = 100

type SizeParams struct {
	Balance     float64
	RiskPct     float64
	Entry       float64
	StopLoss    float64
	LotSize     int64
	MaxQuantity int64
}

// SuggestQuantity risks RiskPct of Balance between Entry and StopLoss and
// rounds down to whole lots. MaxQuantity > 0 caps the result.
func SuggestQuantity(p SizeParams) (models.PositionSize, error) {
	if p.Balance <= 0 || p.RiskPct <= 0 || p.RiskPct > 100 || p.Entry <= 0 {
		return models.PositionSize{}, fmt.Errorf("%w: balance, risk_pct and entry must be positive", ErrInvalidInput)
	}
	if p.LotSize <= 0 {
		p.LotSize = DefaultLot
	}

	entry := decimal.NewFromFloat(p.Entry)
	perShare := entry.Sub(decimal.NewFromFloat(p.StopLoss)).Abs()
	if perShare.IsZero() {
		return models.PositionSize{}, fmt.Errorf("%w: entry equals stop loss", ErrInvalidInput)
	}
	riskAmount := decimal.NewFromFloat(p.Balance).Mul(decimal.NewFromFloat(p.RiskPct)).Div(decimal.NewFromInt(100))

	lot := decimal.NewFromInt(p.LotSize)
	qty := riskAmount.Div(perShare).Div(lot).Floor().Mul(lot).IntPart()

	out := models.PositionSize{
		RiskAmount:   riskAmount.Round(2).InexactFloat64(),
		RiskPerShare: perShare.InexactFloat64(),
	}
	if p.MaxQuantity > 0 && qty > p.MaxQuantity {
		qty = p.MaxQuantity - p.MaxQuantity%p.LotSize
		out.Capped = true
	}
	out.Quantity = qty
	out.Capital = entry.Mul(decimal.NewFromInt(qty)).Round(2).InexactFloat64()
	return out, nil
}

// DCA averages a series of buy fills.
func DCA(orders []models.DCAOrder) (models.DCASummary, error) {
	if len(orders) == 0 {
		return models.DCASummary{}, fmt.Errorf("%w: no orders", ErrInvalidInput)
	}
	cost := decimal.Zero
	var qty int64
	for i, o := range orders {
		if o.Price <= 0 || o.Quantity <= 0 {
			return models.DCASummary{}, fmt.Errorf("%w: order %d needs positive price and quantity", ErrInvalidInput, i)
		}
		cost = cost.Add(decimal.NewFromFloat(o.Price).Mul(decimal.NewFromInt(o.Quantity)))
		qty += o.Quantity
	}
	return models.DCASummary{
		AveragePrice:  cost.Div(decimal.NewFromInt(qty)).Round(2).InexactFloat64(),
		TotalQuantity: qty,
		TotalCost:     cost.Round(2).InexactFloat64(),
	}, nil
}
