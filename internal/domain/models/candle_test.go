package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var vn = time.FixedZone("Asia/Ho_Chi_Minh", 7*3600)

func candleAt(min int, price float64) Candle {
	return Candle{
		Time:   time.Date(2024, 10, 10, 9, 0, 0, 0, vn).Add(time.Duration(min) * time.Minute),
		Open:   price,
		High:   price + 0.1,
		Low:    price - 0.1,
		Close:  price,
		Volume: 1000,
	}
}

func TestSeriesValidate(t *testing.T) {
	var empty Series
	assert.ErrorIs(t, empty.Validate(1), ErrEmptySeries)

	short := Series{candleAt(0, 10), candleAt(1, 10)}
	assert.ErrorIs(t, short.Validate(3), ErrInsufficientData)

	bad := Series{candleAt(0, 10), candleAt(1, 10)}
	bad[1].High = 9
	assert.ErrorIs(t, bad.Validate(1), ErrInvalidCandle)

	dup := Series{candleAt(0, 10), candleAt(0, 10)}
	assert.ErrorIs(t, dup.Validate(1), ErrUnorderedSeries)

	neg := Series{candleAt(0, 10)}
	neg[0].Volume = -1
	assert.ErrorIs(t, neg.Validate(1), ErrInvalidCandle)

	ok := Series{candleAt(0, 10), candleAt(1, 10.2), candleAt(2, 10.1)}
	assert.NoError(t, ok.Validate(3))
}

func TestNormalizeSeries(t *testing.T) {
	first := candleAt(1, 10)
	replaced := candleAt(1, 11)
	broken := candleAt(3, 10)
	broken.Low = 20

	in := []Candle{candleAt(2, 12), first, candleAt(0, 9), replaced, broken}
	in[0].Time = in[0].Time.UTC()

	got := NormalizeSeries(in, vn)
	require.Len(t, got, 3)
	assert.NoError(t, got.Validate(3))
	assert.Equal(t, 11.0, got[1].Close, "duplicate timestamp keeps the last record")
	assert.Equal(t, vn, got[2].Time.Location())
	assert.Equal(t, 12.0, in[0].Close, "input must not be modified")
}

func TestSeriesSinceAndTail(t *testing.T) {
	var s Series
	for i := 0; i < 10; i++ {
		s = append(s, candleAt(i, 10))
	}
	assert.Len(t, s.Since(3*time.Minute), 4)
	assert.Len(t, s.Since(0), 10)
	assert.Len(t, s.Tail(4), 4)
	assert.Len(t, s.Tail(40), 10)
}

func TestResample(t *testing.T) {
	var s Series
	for i := 0; i < 10; i++ {
		s = append(s, candleAt(i, 10+float64(i)))
	}
	got := Resample(s, 5*time.Minute)
	require.Len(t, got, 2)
	assert.Equal(t, 10.0, got[0].Open)
	assert.Equal(t, 14.0, got[0].Close)
	assert.InDelta(t, 14.1, got[0].High, 1e-9)
	assert.InDelta(t, 9.9, got[0].Low, 1e-9)
	assert.Equal(t, int64(5000), got[0].Volume)
	assert.Equal(t, 9, got[1].Time.Hour())
	assert.Equal(t, 5, got[1].Time.Minute())

	daily := Resample(s, 24*time.Hour)
	require.Len(t, daily, 1)
	assert.Equal(t, 0, daily[0].Time.Hour())
}

func TestDecodeRecords(t *testing.T) {
	rows := []Record{
		{"time": "2024-10-10 09:15:00", "open": 22.0, "high": "22.5", "low": 21.9, "close": 22.3, "volume": 1200.0},
		{"Time": float64(1728526560), "Price": 22.4, "Volume": 300.0},
	}
	got, err := DecodeRecords(rows)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 22.5, got[0].High)
	assert.Equal(t, int64(1200), got[0].Volume)
	assert.Equal(t, 22.4, got[1].Open)
	assert.Equal(t, 22.4, got[1].Low)

	_, err = DecodeRecords([]Record{{"time": "2024-10-10", "close": 1.0}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingColumns))
	assert.Contains(t, err.Error(), "volume")
}
