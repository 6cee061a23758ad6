package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/creasty/defaults"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment" default:"development"`
	Server      struct {
		Host            string        `yaml:"host" default:"0.0.0.0"`
		Port            int           `yaml:"port" default:"8080"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"30s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
		SlowRequest     time.Duration `yaml:"slow_request" default:"500ms"`
		CORS            bool          `yaml:"cors"`
		ChartRate       float64       `yaml:"chart_rate" default:"5"`
		ChartBurst      int           `yaml:"chart_burst" default:"10"`
	} `yaml:"server"`
	Log struct {
		Level      string `yaml:"level" default:"info"`
		Format     string `yaml:"format" default:"console"`
		Output     string `yaml:"output" default:"stdout"`
		MaxSizeMB  int    `yaml:"max_size_mb" default:"100"`
		MaxBackups int    `yaml:"max_backups" default:"3"`
		MaxAgeDays int    `yaml:"max_age_days" default:"28"`
	} `yaml:"log"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`
	Data struct {
		Root         string `yaml:"root" default:"."`
		PricesSource string `yaml:"prices_source" default:"csv"`
		Paths        struct {
			Prices      string `yaml:"prices" default:"data/extracted/steel_prices_synthetic_with_external.csv"`
			WalkForward string `yaml:"walk_forward" default:"data/validation/walk_forward_results.csv"`
			MultiStep1  string `yaml:"multi_step_1d" default:"data/validation/multi_step_1day_results.csv"`
			MultiStep7  string `yaml:"multi_step_7d" default:"data/validation/multi_step_7day_results.csv"`
			MultiStep30 string `yaml:"multi_step_30d" default:"data/validation/multi_step_30day_results.csv"`
			Summary     string `yaml:"summary" default:"data/validation/multi_step_summary.csv"`
		} `yaml:"paths"`
	} `yaml:"data"`
	Dashboard struct {
		PrimarySymbol   string          `yaml:"primary_symbol" default:"rebar_uae_import"`
		DefaultSymbols  []string        `yaml:"default_symbols"`
		TrendWindow     int             `yaml:"trend_window" default:"90"`
		StatsWindow     int             `yaml:"stats_window" default:"30"`
		HistogramBins   int             `yaml:"histogram_bins" default:"20"`
		ForecastOffsets map[int]float64 `yaml:"forecast_offsets"` // horizon days -> placeholder offset
		About           struct {
			Title     string  `yaml:"title" default:"UAE Rebar Import Price Forecasting System"`
			Market    string  `yaml:"market" default:"UAE Rebar Import (CFR Jebel Ali)"`
			ModelName string  `yaml:"model_name" default:"Elastic Net Regression"`
			StoredR2  float64 `yaml:"stored_r2" default:"0.9984"`
			StoredMAE float64 `yaml:"stored_mae" default:"0.78"`
		} `yaml:"about"`
	} `yaml:"dashboard"`
	Cache struct {
		Backend         string        `yaml:"backend" default:"memory"`
		TTL             time.Duration `yaml:"ttl" default:"5m"`
		MemoryMaxSize   int           `yaml:"memory_max_size" default:"500"`
		CleanupInterval time.Duration `yaml:"cleanup_interval" default:"1m"`
	} `yaml:"cache"`
	Redis struct {
		Host         string        `yaml:"host" default:"localhost"`
		Port         int           `yaml:"port" default:"6379"`
		Password     string        `yaml:"password"`
		DB           int           `yaml:"db"`
		Prefix       string        `yaml:"prefix" default:"steeldash"`
		PoolSize     int           `yaml:"pool_size" default:"10"`
		MinIdleConns int           `yaml:"min_idle_conns" default:"2"`
		PoolTimeout  time.Duration `yaml:"pool_timeout" default:"4s"`
	} `yaml:"redis"`
	Events struct {
		Enabled bool   `yaml:"enabled"`
		Topic   string `yaml:"topic" default:"steeldash.page_views"`
	} `yaml:"events"`
	Kafka struct {
		Brokers      []string      `yaml:"brokers"`
		RequiredAcks int           `yaml:"required_acks" default:"1"`
		Compression  string        `yaml:"compression" default:"snappy"`
		BatchTimeout time.Duration `yaml:"batch_timeout" default:"1s"`
		WriteTimeout time.Duration `yaml:"write_timeout" default:"5s"`
		Async        bool          `yaml:"async"`
	} `yaml:"kafka"`
	ClickHouse struct {
		Host        string        `yaml:"host"`
		Port        int           `yaml:"port" default:"9000"`
		Database    string        `yaml:"database" default:"steeldash"`
		User        string        `yaml:"user" default:"default"`
		Password    string        `yaml:"password"`
		UseHTTP     bool          `yaml:"use_http"`
		PricesTable string        `yaml:"prices_table" default:"steel_prices"`
		DialTimeout time.Duration `yaml:"dial_timeout" default:"5s"`
		ReadTimeout time.Duration `yaml:"read_timeout" default:"30s"`
	} `yaml:"clickhouse"`
}

// envOverrides lists the settings that may be replaced from the environment.
// Unset variables leave the YAML value untouched.
type envOverrides struct {
	Environment  string   `envconfig:"ENVIRONMENT"`
	HTTPPort     int      `envconfig:"HTTP_PORT"`
	LogLevel     string   `envconfig:"LOG_LEVEL"`
	DataRoot     string   `envconfig:"DATA_ROOT"`
	PricesSource string   `envconfig:"PRICES_SOURCE"`
	CacheBackend string   `envconfig:"CACHE_BACKEND"`
	RedisHost    string   `envconfig:"REDIS_HOST"`
	RedisPass    string   `envconfig:"REDIS_PASSWORD"`
	KafkaBrokers []string `envconfig:"KAFKA_BROKERS"`
	EventsTopic  string   `envconfig:"EVENTS_TOPIC"`
	ClickHouse   string   `envconfig:"CLICKHOUSE_HOST"`
	CHPassword   string   `envconfig:"CLICKHOUSE_PASSWORD"`
}

// EnvPrefix is the prefix for all environment overrides, e.g. STEELDASH_DATA_ROOT.
const EnvPrefix = "STEELDASH"

var defaultSymbols = []string{"rebar_uae_import", "brent_crude_oil", "iron_ore_62fe_cfr_china"}

// Default returns a configuration populated only from struct defaults.
func Default() (*Config, error) {
	var c Config
	if err := c.applyDefaults(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := c.applyDefaults(); err != nil {
		return nil, err
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
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

func (c *Config) applyDefaults() error {
	if err := defaults.Set(c); err != nil {
		return fmt.Errorf("config defaults: %w", err)
	}
	if len(c.Dashboard.DefaultSymbols) == 0 {
		c.Dashboard.DefaultSymbols = append([]string(nil), defaultSymbols...)
	}
	return nil
}

func (c *Config) applyEnv() error {
	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return fmt.Errorf("config env: %w", err)
	}
	if env.Environment != "" {
		c.Environment = env.Environment
	}
	if env.HTTPPort != 0 {
		c.Server.Port = env.HTTPPort
	}
	if env.LogLevel != "" {
		c.Log.Level = env.LogLevel
	}
	if env.DataRoot != "" {
		c.Data.Root = env.DataRoot
	}
	if env.PricesSource != "" {
		c.Data.PricesSource = env.PricesSource
	}
	if env.CacheBackend != "" {
		c.Cache.Backend = env.CacheBackend
	}
	if env.RedisHost != "" {
		c.Redis.Host = env.RedisHost
	}
	if env.RedisPass != "" {
		c.Redis.Password = env.RedisPass
	}
	if len(env.KafkaBrokers) > 0 {
		c.Kafka.Brokers = env.KafkaBrokers
	}
	if env.EventsTopic != "" {
		c.Events.Topic = env.EventsTopic
	}
	if env.ClickHouse != "" {
		c.ClickHouse.Host = env.ClickHouse
	}
	if env.CHPassword != "" {
		c.ClickHouse.Password = env.CHPassword
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535, got %d", c.Server.Port)
	}
	switch c.Data.PricesSource {
	case "csv":
	case "clickhouse":
		if c.ClickHouse.Host == "" {
			return fmt.Errorf("clickhouse.host is required when data.prices_source is 'clickhouse'")
		}
	default:
		return fmt.Errorf("data.prices_source must be 'csv' or 'clickhouse', got '%s'", c.Data.PricesSource)
	}
	switch c.Cache.Backend {
	case "none", "memory", "redis", "layered":
	default:
		return fmt.Errorf("cache.backend must be one of none, memory, redis, layered, got '%s'", c.Cache.Backend)
	}
	if c.Events.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when events are enabled")
	}
	if c.Dashboard.PrimarySymbol == "" {
		return fmt.Errorf("dashboard.primary_symbol is required")
	}
	if c.Dashboard.HistogramBins <= 0 {
		return fmt.Errorf("dashboard.histogram_bins must be positive")
	}
	return nil
}

// ResolvePath joins a configured data path onto the data root.
// Absolute paths are returned unchanged.
func (c *Config) ResolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Data.Root, p)
}
