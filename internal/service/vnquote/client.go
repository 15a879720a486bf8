package vnquote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"SharkScan/internal/domain/models"
	domrepo "SharkScan/internal/domain/repository"
	xhttp "SharkScan/pkg/http"
	applogger "SharkScan/pkg/logger"
	"SharkScan/pkg/util"
)

const maxPageSize = 10000

// Provider reads quotes from a REST endpoint serving rows either as a bare
// array or wrapped in {"data": [...]}. Intraday rows may be ticks
// (time, price, volume); they are aggregated into candles.
//
//	GET {base}/stocks/{symbol}/intraday?page_size=N
//	GET {base}/stocks/{symbol}/history?start=YYYY-MM-DD&end=YYYY-MM-DD&interval=1d
type Provider struct {
	client *xhttp.Client
	l      *applogger.Logger
}

var _ domrepo.MarketDataProvider = (*Provider)(nil)

func New(client *xhttp.Client, l *applogger.Logger) *Provider {
	if l == nil {
		l = applogger.Nop()
	}
	return &Provider{client: client, l: l}
}

func (p *Provider) Intraday(ctx context.Context, symbol string, limit int, interval domrepo.Interval) ([]models.Candle, error) {
	if limit <= 0 {
		return nil, nil
	}
	pageSize := limit * int(interval.Duration()/time.Minute)
	if pageSize < limit {
		pageSize = limit
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	q := url.Values{"page_size": {strconv.Itoa(pageSize)}}
	candles, err := p.fetch(ctx, "intraday", symbol, q)
	if err != nil {
		return nil, err
	}
	return toSeries(candles, interval).Tail(limit), nil
}

func (p *Provider) History(ctx context.Context, symbol string, start, end time.Time, interval domrepo.Interval) ([]models.Candle, error) {
	q := url.Values{
		"start":    {util.ToVN(start).Format("2006-01-02")},
		"end":      {util.ToVN(end).Format("2006-01-02")},
		"interval": {interval.String()},
	}
	candles, err := p.fetch(ctx, "history", symbol, q)
	if err != nil {
		return nil, err
	}
	series := toSeries(candles, interval)
	// The endpoint works in whole days; trim to the exact range.
	out := series[:0]
	for _, c := range series {
		if !c.Time.Before(start) && !c.Time.After(end) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (p *Provider) fetch(ctx context.Context, op, symbol string, q url.Values) ([]models.Candle, error) {
	symbol = strings.ToUpper(symbol)
	path := fmt.Sprintf("/stocks/%s/%s", url.PathEscape(symbol), op)

	var raw json.RawMessage
	if err := p.client.GetJSON(ctx, path, q, &raw); err != nil {
		p.l.Error("vnquote fetch failed",
			applogger.String("op", op),
			applogger.String("symbol", symbol),
			applogger.Error(err),
		)
		return nil, fmt.Errorf("vnquote %s %s: %w", op, symbol, err)
	}

	rows, err := decodeRows(raw)
	if err != nil {
		return nil, fmt.Errorf("vnquote %s %s: %w", op, symbol, err)
	}
	candles, err := models.DecodeRecords(rows)
	if err != nil {
		return nil, fmt.Errorf("vnquote %s %s: %w", op, symbol, err)
	}
	return candles, nil
}

func decodeRows(raw json.RawMessage) ([]models.Record, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	dec := func(b []byte, dst interface{}) error {
		d := json.NewDecoder(bytes.NewReader(b))
		d.UseNumber()
		return d.Decode(dst)
	}

	var rows []models.Record
	if raw[0] == '[' {
		if err := dec(raw, &rows); err != nil {
			return nil, fmt.Errorf("decode rows: %w", err)
		}
		return rows, nil
	}

	var wrapped struct {
		Data []models.Record `json:"data"`
	}
	if err := dec(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("decode rows: %w", err)
	}
	return wrapped.Data, nil
}

// toSeries orders raw rows, aggregates them to interval and drops invalid
// candles. Ticks sharing a timestamp are all kept until aggregation.
func toSeries(candles []models.Candle, interval domrepo.Interval) models.Series {
	for i := range candles {
		candles[i].Time = util.ToVN(candles[i].Time)
	}
	sort.SliceStable(candles, func(i, j int) bool { return candles[i].Time.Before(candles[j].Time) })
	return models.NormalizeSeries(models.Resample(models.Series(candles), interval.Duration()), util.VN)
}
