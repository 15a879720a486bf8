package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	ProviderVNQuote    = "vnquote"
	ProviderClickHouse = "clickhouse"

	CacheMemory = "memory"
	CacheRedis  = "redis"
)

type Config struct {
	Environment string `yaml:"environment" default:"development"`
	Server      struct {
		Host            string        `yaml:"host" default:"0.0.0.0"`
		Port            int           `yaml:"port" default:"8080"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"15s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"60s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
		SlowThreshold   time.Duration `yaml:"slow_threshold" default:"2s"`
		CORS            bool          `yaml:"cors" default:"true"`
		ScanRatePerSec  float64       `yaml:"scan_rate_per_sec" default:"0.5"`
		ScanBurst       int           `yaml:"scan_burst" default:"3"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled" default:"true"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`
	Log struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"json"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"log"`
	Provider struct {
		Type       string        `yaml:"type" default:"vnquote"`
		BaseURL    string        `yaml:"base_url"`
		APIKey     string        `yaml:"api_key"`
		Timeout    time.Duration `yaml:"timeout" default:"15s"`
		Retries    int           `yaml:"retries" default:"2"`
		RetryDelay time.Duration `yaml:"retry_delay" default:"500ms"`
	} `yaml:"provider"`
	Cache struct {
		Enabled       bool          `yaml:"enabled" default:"true"`
		Backend       string        `yaml:"backend" default:"memory"`
		IntradayTTL   time.Duration `yaml:"intraday_ttl" default:"30s"`
		HistoryTTL    time.Duration `yaml:"history_ttl" default:"10m"`
		MemoryMaxSize int           `yaml:"memory_max_size" default:"1000"`
		Redis         struct {
			Host     string `yaml:"host" default:"localhost"`
			Port     int    `yaml:"port" default:"6379"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix" default:"sharkscan"`
			PoolSize int    `yaml:"pool_size" default:"10"`
			MinIdle  int    `yaml:"min_idle_conns" default:"2"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	ClickHouse struct {
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port" default:"9000"`
		Database         string        `yaml:"database" default:"market"`
		User             string        `yaml:"user" default:"default"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		DialTimeout      time.Duration `yaml:"dial_timeout" default:"5s"`
		ReadTimeout      time.Duration `yaml:"read_timeout" default:"10s"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time" default:"30s"`
		MaxOpenConns     int           `yaml:"max_open_conns" default:"10"`
		MaxIdleConns     int           `yaml:"max_idle_conns" default:"5"`
		InitSchema       bool          `yaml:"init_schema"`
	} `yaml:"clickhouse"`
	Kafka struct {
		Enabled      bool          `yaml:"enabled"`
		Brokers      []string      `yaml:"brokers"`
		Topic        string        `yaml:"topic" default:"sharkscan.signals"`
		RequiredAcks int           `yaml:"required_acks" default:"-1"`
		Compression  string        `yaml:"compression" default:"snappy"`
		MaxAttempts  int           `yaml:"max_attempts" default:"3"`
		BatchSize    int           `yaml:"batch_size" default:"50"`
		BatchTimeout time.Duration `yaml:"batch_timeout" default:"200ms"`
		WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
		Async        bool          `yaml:"async"`
	} `yaml:"kafka"`
	Trade struct {
		RRMin             float64 `yaml:"rr_min" default:"2"`
		SharkMinScore     int     `yaml:"shark_min_score" default:"70"`
		MinCandles        int     `yaml:"min_candles" default:"20"`
		MaxScanSymbols    int     `yaml:"max_scan_symbols" default:"10"`
		ScanConcurrency   int     `yaml:"scan_concurrency" default:"4"`
		DefaultMinutes    int     `yaml:"default_minutes" default:"120"`
		DefaultLimit      int     `yaml:"default_limit" default:"1000"`
		RequireMarketOpen bool    `yaml:"require_market_open"`
	} `yaml:"trade"`
}

// Load applies defaults, then the YAML file at path if one is given.
func Load(path string) (*Config, error) {
	c, err := read(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// LoadWithEnv loads an optional .env file, the YAML config, then applies
// SHARK_* environment overrides before validating.
func LoadWithEnv(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	c, err := read(path)
	if err != nil {
		return nil, err
	}
	if err := c.applyEnv(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func read(path string) (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("config defaults: %w", err)
	}
	if path == "" {
		return &c, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &c, nil
}

func (c *Config) applyEnv() error {
	str := map[string]*string{
		"SHARK_ENV":                 &c.Environment,
		"SHARK_LOG_LEVEL":           &c.Log.Level,
		"SHARK_LOG_FORMAT":          &c.Log.Format,
		"SHARK_PROVIDER_TYPE":       &c.Provider.Type,
		"SHARK_PROVIDER_BASE_URL":   &c.Provider.BaseURL,
		"SHARK_PROVIDER_API_KEY":    &c.Provider.APIKey,
		"SHARK_CACHE_BACKEND":       &c.Cache.Backend,
		"SHARK_REDIS_HOST":          &c.Cache.Redis.Host,
		"SHARK_REDIS_PASSWORD":      &c.Cache.Redis.Password,
		"SHARK_CLICKHOUSE_HOST":     &c.ClickHouse.Host,
		"SHARK_CLICKHOUSE_USER":     &c.ClickHouse.User,
		"SHARK_CLICKHOUSE_PASSWORD": &c.ClickHouse.Password,
		"SHARK_KAFKA_TOPIC":         &c.Kafka.Topic,
	}
	for key, dst := range str {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	if v := os.Getenv("SHARK_SERVER_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SHARK_SERVER_PORT: %w", err)
		}
		c.Server.Port = port
	}
	if v := os.Getenv("SHARK_RR_MIN"); v != "" {
		rr, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("SHARK_RR_MIN: %w", err)
		}
		c.Trade.RRMin = rr
	}
	if v := os.Getenv("SHARK_KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
		c.Kafka.Enabled = true
	}
	return nil
}

// Validate checks the configuration is usable.
func (c *Config) Validate() error {
	switch c.Provider.Type {
	case ProviderVNQuote:
		if c.Provider.BaseURL == "" {
			return fmt.Errorf("provider.base_url is required for %s", ProviderVNQuote)
		}
	case ProviderClickHouse:
		if c.ClickHouse.Host == "" {
			return fmt.Errorf("clickhouse.host is required for provider %s", ProviderClickHouse)
		}
	default:
		return fmt.Errorf("provider.type must be '%s' or '%s', got '%s'", ProviderVNQuote, ProviderClickHouse, c.Provider.Type)
	}
	if c.Cache.Enabled && c.Cache.Backend != CacheMemory && c.Cache.Backend != CacheRedis {
		return fmt.Errorf("cache.backend must be '%s' or '%s', got '%s'", CacheMemory, CacheRedis, c.Cache.Backend)
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	if c.Trade.RRMin <= 0 {
		return fmt.Errorf("trade.rr_min must be > 0")
	}
	if c.Trade.MaxScanSymbols < 1 || c.Trade.MaxScanSymbols > 10 {
		return fmt.Errorf("trade.max_scan_symbols must be in 1..10, got %d", c.Trade.MaxScanSymbols)
	}
	if c.Trade.ScanConcurrency < 1 {
		return fmt.Errorf("trade.scan_concurrency must be >= 1")
	}
	return nil
}
