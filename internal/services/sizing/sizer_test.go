package sizing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SharkScan/internal/domain/models"
)

func TestSuggestQuantity(t *testing.T) {
	got, err := SuggestQuantity(SizeParams{Balance: 100_000_000, RiskPct: 1, Entry: 22_000, StopLoss: 21_400})
	require.NoError(t, err)
	// 1,000,000 / 600 = 1666 shares -> 1600 in lots of 100
	assert.Equal(t, int64(1600), got.Quantity)
	assert.Equal(t, 1_000_000.0, got.RiskAmount)
	assert.Equal(t, 600.0, got.RiskPerShare)
	assert.Equal(t, 35_200_000.0, got.Capital)
	assert.False(t, got.Capped)
}

func TestSuggestQuantityCapped(t *testing.T) {
	got, err := SuggestQuantity(SizeParams{Balance: 100_000_000, RiskPct: 1, Entry: 22_000, StopLoss: 21_400, MaxQuantity: 1250})
	require.NoError(t, err)
	assert.Equal(t, int64(1200), got.Quantity)
	assert.True(t, got.Capped)
}

func TestSuggestQuantityInvalid(t *testing.T) {
	_, err := SuggestQuantity(SizeParams{Balance: 0, RiskPct: 1, Entry: 10, StopLoss: 9})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = SuggestQuantity(SizeParams{Balance: 1000, RiskPct: 1, Entry: 10, StopLoss: 10})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDCA(t *testing.T) {
	got, err := DCA([]models.DCAOrder{{Price: 22, Quantity: 100}, {Price: 20, Quantity: 300}})
	require.NoError(t, err)
	assert.Equal(t, 20.5, got.AveragePrice)
	assert.Equal(t, int64(400), got.TotalQuantity)
	assert.Equal(t, 8200.0, got.TotalCost)

	_, err = DCA(nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
