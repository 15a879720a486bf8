package di

import (
	"context"
	"fmt"
	"time"

	"github.com/google/wire"

	domrepo "SharkScan/internal/domain/repository"
	"SharkScan/internal/handler/api"
	internalrepo "SharkScan/internal/repository"
	"SharkScan/internal/service/ratelimit"
	"SharkScan/internal/service/vnquote"
	"SharkScan/internal/services/builder"
	"SharkScan/internal/services/engine"
	"SharkScan/internal/usecase"
	"SharkScan/pkg/cache"
	pkgch "SharkScan/pkg/clickhouse"
	"SharkScan/pkg/config"
	xhttp "SharkScan/pkg/http"
	pkgkafka "SharkScan/pkg/kafka"
	applogger "SharkScan/pkg/logger"
	"SharkScan/pkg/metrics"
	"SharkScan/pkg/server"
)

// PipelineSet builds everything below the HTTP layer.
var PipelineSet = wire.NewSet(
	ProvideLogger,
	ProvideMetrics,
	ProvideCacheStore,
	ProvideMarketData,
	ProvideSignalPublisher,
	ProvideEngine,
	ProvideBuilder,
	ProvideTradeService,
)

// AppSet adds the HTTP surface on top of PipelineSet.
var AppSet = wire.NewSet(
	PipelineSet,
	ProvideCandlesUseCase,
	ProvideRateLimiter,
	ProvideTradeHandler,
	ProvideHTTPServer,
	server.New,
)

func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics returns the Prometheus recorder, or nil when metrics are off.
func ProvideMetrics(cfg *config.Config) domrepo.Metrics {
	if !cfg.Metrics.Enabled {
		return nil
	}
	return metrics.New()
}

// ProvideCacheStore returns nil when caching is disabled.
func ProvideCacheStore(cfg *config.Config) (cache.Store, func(), error) {
	if !cfg.Cache.Enabled {
		return nil, func() {}, nil
	}

	var (
		store cache.Store
		err   error
	)
	switch cfg.Cache.Backend {
	case config.CacheRedis:
		r := cfg.Cache.Redis
		store, err = cache.NewRedisCache(
			cache.WithRedisHost(r.Host),
			cache.WithRedisPort(r.Port),
			cache.WithRedisPassword(r.Password),
			cache.WithRedisDB(r.DB),
			cache.WithRedisPrefix(r.Prefix),
			cache.WithRedisPool(r.PoolSize, r.MinIdle, 30*time.Second),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("redis cache: %w", err)
		}
	default:
		store = cache.NewMemoryCache(
			cache.WithMemoryMaxSize(cfg.Cache.MemoryMaxSize),
			cache.WithMemoryDefaultTTL(cfg.Cache.HistoryTTL),
		)
	}
	return store, func() { _ = store.Close() }, nil
}

// ProvideMarketData builds the configured candle source and wraps it in the
// cache when one is available.
func ProvideMarketData(cfg *config.Config, l *applogger.Logger, store cache.Store) (domrepo.MarketDataProvider, func(), error) {
	var (
		provider domrepo.MarketDataProvider
		cleanup  = func() {}
	)

	switch cfg.Provider.Type {
	case config.ProviderClickHouse:
		ch, err := provideClickHouse(cfg)
		if err != nil {
			return nil, nil, err
		}
		provider = internalrepo.NewCHCandleStore(ch, l)
		cleanup = func() {
			if err := ch.Close(); err != nil {
				l.Warn("clickhouse close error", applogger.Error(err))
			}
		}
	default:
		opts := []xhttp.ClientOption{
			xhttp.WithBaseURL(cfg.Provider.BaseURL),
			xhttp.WithTimeout(cfg.Provider.Timeout),
			xhttp.WithRetry(cfg.Provider.Retries, cfg.Provider.RetryDelay),
		}
		if cfg.Provider.APIKey != "" {
			opts = append(opts, xhttp.WithHeader("Authorization", "Bearer "+cfg.Provider.APIKey))
		}
		provider = vnquote.New(xhttp.NewClient(opts...), l)
	}

	if store != nil {
		provider = internalrepo.NewCachedProvider(provider, store,
			internalrepo.WithIntradayTTL(cfg.Cache.IntradayTTL),
			internalrepo.WithHistoryTTL(cfg.Cache.HistoryTTL),
			internalrepo.WithCacheLogger(l),
		)
	}
	return provider, cleanup, nil
}

func provideClickHouse(cfg *config.Config) (*pkgch.Client, error) {
	c := cfg.ClickHouse
	client, err := pkgch.NewClient(
		pkgch.WithHost(c.Host),
		pkgch.WithPort(c.Port),
		pkgch.WithDatabase(c.Database),
		pkgch.WithCredentials(c.User, c.Password),
		pkgch.WithHTTP(c.UseHTTP),
		pkgch.WithTimeouts(c.DialTimeout, c.ReadTimeout),
		pkgch.WithMaxExecutionTime(c.MaxExecutionTime),
		pkgch.WithMaxConnections(c.MaxOpenConns, c.MaxIdleConns),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	if !c.InitSchema {
		return client, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	stmts := append([]string{"CREATE DATABASE IF NOT EXISTS " + c.Database}, internalrepo.CandleSchema(c.Database)...)
	if err := client.InitSchema(ctx, stmts); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return client, nil
}

// ProvideSignalPublisher returns nil when Kafka is disabled.
func ProvideSignalPublisher(cfg *config.Config, l *applogger.Logger) (domrepo.SignalPublisher, func(), error) {
	if !cfg.Kafka.Enabled {
		return nil, func() {}, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithTopic(cfg.Kafka.Topic),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithMaxAttempts(cfg.Kafka.MaxAttempts),
		pkgkafka.WithBatching(cfg.Kafka.BatchSize, cfg.Kafka.BatchTimeout),
		pkgkafka.WithWriteTimeout(cfg.Kafka.WriteTimeout),
		pkgkafka.WithAsync(cfg.Kafka.Async),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("kafka producer: %w", err)
	}
	pub := internalrepo.NewKafkaSignalPublisher(producer)
	return pub, func() {
		if err := pub.Close(); err != nil {
			l.Warn("kafka producer close error", applogger.Error(err))
		}
	}, nil
}

func ProvideEngine(l *applogger.Logger, m domrepo.Metrics) *engine.Engine {
	opts := []engine.Option{engine.WithLogger(l)}
	if m != nil {
		opts = append(opts, engine.WithMetrics(m))
	}
	return engine.New(opts...)
}

func ProvideBuilder(cfg *config.Config) *builder.TradeSignalBuilder {
	return builder.New(
		builder.WithRRMin(cfg.Trade.RRMin),
		builder.WithSharkMinScore(cfg.Trade.SharkMinScore),
	)
}

func ProvideTradeService(
	cfg *config.Config,
	l *applogger.Logger,
	m domrepo.Metrics,
	provider domrepo.MarketDataProvider,
	eng *engine.Engine,
	b *builder.TradeSignalBuilder,
	pub domrepo.SignalPublisher,
) *usecase.TradeService {
	t := cfg.Trade
	opts := []usecase.TradeServiceOption{usecase.WithTradeLogger(l)}
	if m != nil {
		opts = append(opts, usecase.WithTradeMetrics(m))
	}
	if pub != nil {
		opts = append(opts, usecase.WithPublisher(pub))
	}
	return usecase.NewTradeService(provider, eng, b, usecase.TradeConfig{
		SharkMinScore:     t.SharkMinScore,
		MinCandles:        t.MinCandles,
		MaxScanSymbols:    t.MaxScanSymbols,
		ScanConcurrency:   t.ScanConcurrency,
		DefaultMinutes:    t.DefaultMinutes,
		DefaultLimit:      t.DefaultLimit,
		RequireMarketOpen: t.RequireMarketOpen,
	}, opts...)
}

func ProvideCandlesUseCase(provider domrepo.MarketDataProvider, eng *engine.Engine) *usecase.CandlesUseCase {
	return usecase.NewCandlesUseCase(provider, eng)
}

func ProvideRateLimiter(cfg *config.Config) *ratelimit.Limiter {
	return ratelimit.New(cfg.Server.ScanRatePerSec, cfg.Server.ScanBurst)
}

func ProvideTradeHandler(
	cfg *config.Config,
	l *applogger.Logger,
	trade *usecase.TradeService,
	candles *usecase.CandlesUseCase,
	limiter *ratelimit.Limiter,
) *api.TradeEchoHandler {
	return api.NewTradeEchoHandler(l, trade, candles, limiter, cfg.Trade.MaxScanSymbols)
}

func ProvideHTTPServer(cfg *config.Config, l *applogger.Logger, h *api.TradeEchoHandler) *xhttp.Server {
	s := cfg.Server
	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}
	return xhttp.NewServer(l, h,
		xhttp.WithHost(s.Host),
		xhttp.WithPort(s.Port),
		xhttp.WithTimeouts(s.ReadTimeout, s.WriteTimeout, s.ShutdownTimeout),
		xhttp.WithSlowThreshold(s.SlowThreshold),
		xhttp.WithCORS(s.CORS),
		xhttp.WithMetricsPath(metricsPath),
	)
}
