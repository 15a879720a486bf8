package repository

import (
	"context"
	"time"

	"SharkScan/internal/domain/models"
)

// MarketDataProvider is the upstream candle source. An empty result with a
// nil error means "no data" and is not a failure.
type MarketDataProvider interface {
	Intraday(ctx context.Context, symbol string, limit int, interval Interval) ([]models.Candle, error)
	History(ctx context.Context, symbol string, start, end time.Time, interval Interval) ([]models.Candle, error)
}

// SignalPublisher fans trade signals out to downstream consumers.
type SignalPublisher interface {
	PublishSignal(ctx context.Context, ev *models.SignalEvent) error
	Close() error
}

// Metrics records pipeline observations.
type Metrics interface {
	RecordSignal(status string)
	RecordDetectorError(strategy string)
	RecordProviderError(provider string)
	RecordLatency(stage string, seconds float64)
}
