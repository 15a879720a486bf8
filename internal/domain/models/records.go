package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"SharkScan/pkg/util"
)

// Record is one raw row as returned by an upstream quote endpoint.
type Record map[string]interface{}

// DecodeRecords turns raw rows into candles. Rows must carry every
// RequiredColumns field, or be tick rows (time, price, volume), which are
// lifted into flat candles.
func DecodeRecords(rows []Record) ([]Candle, error) {
	out := make([]Candle, 0, len(rows))
	for i, row := range rows {
		c, err := decodeRecord(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out = append(out, c)
	}
	return out, nil
}

func decodeRecord(row Record) (Candle, error) {
	lower := make(map[string]interface{}, len(row))
	for k, v := range row {
		lower[strings.ToLower(k)] = v
	}

	if _, ok := lower["close"]; !ok {
		if price, ok := lower["price"]; ok {
			lower["open"], lower["high"], lower["low"], lower["close"] = price, price, price, price
		}
	}

	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := lower[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return Candle{}, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	ts, err := toTime(lower["time"])
	if err != nil {
		return Candle{}, err
	}
	var c Candle
	c.Time = ts
	fields := []struct {
		name string
		dst  *float64
	}{
		{"open", &c.Open}, {"high", &c.High}, {"low", &c.Low}, {"close", &c.Close},
	}
	for _, f := range fields {
		v, err := toFloat(lower[f.name])
		if err != nil {
			return Candle{}, fmt.Errorf("%s: %w", f.name, err)
		}
		*f.dst = v
	}
	vol, err := toFloat(lower["volume"])
	if err != nil {
		return Candle{}, fmt.Errorf("volume: %w", err)
	}
	c.Volume = int64(vol)
	return c, nil
}

func toFloat(v interface{}) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case json.Number:
		return x.Float64()
	case string:
		return strconv.ParseFloat(strings.TrimSpace(x), 64)
	default:
		return 0, fmt.Errorf("unsupported numeric value %v (%T)", v, v)
	}
}

// toTime accepts time.Time, unix seconds or milliseconds, and the string
// layouts util.ParseTime understands.
func toTime(v interface{}) (time.Time, error) {
	switch x := v.(type) {
	case time.Time:
		return x, nil
	case string:
		if t, ok := util.ParseTime(x); ok {
			return t, nil
		}
		return time.Time{}, fmt.Errorf("unparseable time %q", x)
	default:
		f, err := toFloat(v)
		if err != nil {
			return time.Time{}, fmt.Errorf("time: %w", err)
		}
		sec := int64(f)
		if sec > 1e12 {
			return time.UnixMilli(sec).In(util.VN), nil
		}
		return time.Unix(sec, 0).In(util.VN), nil
	}
}
