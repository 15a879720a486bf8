package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"SharkScan/internal/domain/models"
	domrepo "SharkScan/internal/domain/repository"
	pkgch "SharkScan/pkg/clickhouse"
	applogger "SharkScan/pkg/logger"
	"SharkScan/pkg/util"
)

const (
	minuteTable = "candles_1m"
	dailyTable  = "candles_1d"
)

// CandleSchema creates the candle tables read by CHCandleStore. Rows are
// written by the ingestion job; this service only reads them.
func CandleSchema(database string) []string {
	tpl := `CREATE TABLE IF NOT EXISTS %s.%s (
    symbol LowCardinality(String),
    bucket DateTime64(3, 'Asia/Ho_Chi_Minh'),
    open   Float64,
    high   Float64,
    low    Float64,
    close  Float64,
    volume UInt64
) ENGINE = ReplacingMergeTree
ORDER BY (symbol, bucket)`
	return []string{
		fmt.Sprintf(tpl, database, minuteTable),
		fmt.Sprintf(tpl, database, dailyTable),
	}
}

// CHCandleStore implements MarketDataProvider over ClickHouse candle tables.
// Intraday intervals are resampled from 1m rows, daily reads candles_1d.
type CHCandleStore struct {
	db       *sql.DB
	database string
	l        *applogger.Logger
}

var _ domrepo.MarketDataProvider = (*CHCandleStore)(nil)

func NewCHCandleStore(ch *pkgch.Client, l *applogger.Logger) *CHCandleStore {
	if l == nil {
		l = applogger.Nop()
	}
	return &CHCandleStore{db: ch.DB(), database: ch.Database(), l: l}
}

// Intraday returns the latest limit candles at the given interval.
func (s *CHCandleStore) Intraday(ctx context.Context, symbol string, limit int, interval domrepo.Interval) ([]models.Candle, error) {
	if limit <= 0 {
		return nil, nil
	}
	table, factor := s.source(interval)
	const qtpl = `
        SELECT bucket, open, high, low, close, volume
        FROM %s
        WHERE symbol = ?
        ORDER BY bucket DESC
        LIMIT ?
    `
	rows, err := s.query(ctx, "intraday", symbol, fmt.Sprintf(qtpl, table), symbol, limit*factor)
	if err != nil {
		return nil, err
	}
	reverse(rows)
	return models.Resample(models.Series(rows), interval.Duration()).Tail(limit), nil
}

// History returns candles between start and end inclusive.
func (s *CHCandleStore) History(ctx context.Context, symbol string, start, end time.Time, interval domrepo.Interval) ([]models.Candle, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("history: end %s before start %s", end.Format(time.RFC3339), start.Format(time.RFC3339))
	}
	table, _ := s.source(interval)
	const qtpl = `
        SELECT bucket, open, high, low, close, volume
        FROM %s
        WHERE symbol = ? AND bucket >= ? AND bucket <= ?
        ORDER BY bucket ASC
    `
	rows, err := s.query(ctx, "history", symbol, fmt.Sprintf(qtpl, table), symbol, start, end)
	if err != nil {
		return nil, err
	}
	return models.Resample(models.Series(rows), interval.Duration()), nil
}

// source picks the table and how many source rows make one output candle.
func (s *CHCandleStore) source(interval domrepo.Interval) (string, int) {
	if !interval.Intraday() {
		return s.database + "." + dailyTable, 1
	}
	factor := int(interval.Duration() / time.Minute)
	if factor < 1 {
		factor = 1
	}
	return s.database + "." + minuteTable, factor
}

func (s *CHCandleStore) query(ctx context.Context, op, symbol, q string, args ...interface{}) ([]models.Candle, error) {
	start := time.Now()
	symbol = strings.ToUpper(symbol)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		s.l.Error("clickhouse candle query error",
			applogger.String("op", op),
			applogger.String("symbol", symbol),
			applogger.Error(err),
		)
		return nil, fmt.Errorf("%s candles: %w", op, err)
	}
	defer rows.Close()

	out := make([]models.Candle, 0, 512)
	for rows.Next() {
		var (
			c   models.Candle
			vol uint64
		)
		if err := rows.Scan(&c.Time, &c.Open, &c.High, &c.Low, &c.Close, &vol); err != nil {
			s.l.Error("clickhouse candle scan error",
				applogger.String("op", op),
				applogger.String("symbol", symbol),
				applogger.Error(err),
			)
			return nil, fmt.Errorf("scan candle: %w", err)
		}
		c.Volume = int64(vol)
		c.Time = util.ToVN(c.Time)
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate candles: %w", err)
	}

	s.l.Debug("clickhouse candles loaded",
		applogger.String("op", op),
		applogger.String("symbol", symbol),
		applogger.Int("rows", len(out)),
		applogger.Duration("took_ms", time.Since(start)),
	)
	return out, nil
}

func reverse(cs []models.Candle) {
	for i, j := 0, len(cs)-1; i < j; i, j = i+1, j-1 {
		cs[i], cs[j] = cs[j], cs[i]
	}
}
