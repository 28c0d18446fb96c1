package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Attom  AttomConfig  `yaml:"attom" mapstructure:"attom"`
	Scan   ScanConfig   `yaml:"scan" mapstructure:"scan"`
	Equity EquityConfig `yaml:"equity" mapstructure:"equity"`
	Store  StoreConfig  `yaml:"store" mapstructure:"store"`
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// AttomConfig holds ATTOM Data API credentials and client tuning.
type AttomConfig struct {
	Key            string  `yaml:"key" mapstructure:"key"`
	BaseURL        string  `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSecs    int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RequestsPerSec float64 `yaml:"requests_per_sec" mapstructure:"requests_per_sec"`
}

// ScanConfig configures the multi-page scan orchestrator. Per-mode page
// budgets bound how deep a scan walks the provider's paged results.
type ScanConfig struct {
	PageSize      int `yaml:"page_size" mapstructure:"page_size"`
	PagesAbsentee int `yaml:"pages_absentee" mapstructure:"pages_absentee"`
	PagesEquity   int `yaml:"pages_equity" mapstructure:"pages_equity"`
	PagesDistress int `yaml:"pages_distress" mapstructure:"pages_distress"`
	PagesJustSold int `yaml:"pages_justsold" mapstructure:"pages_justsold"`
	PagesInvestor int `yaml:"pages_investor" mapstructure:"pages_investor"`
}

// EquityConfig holds equity-mode filter defaults.
type EquityConfig struct {
	MinYearsOwned int     `yaml:"min_years_owned" mapstructure:"min_years_owned"`
	MinValue      float64 `yaml:"min_value" mapstructure:"min_value"`
}

// StoreConfig configures the scan-history backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	Path        string `yaml:"path" mapstructure:"path"`
}

// ServerConfig configures the search HTTP server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("PROSPECT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("attom.key", "")
	v.SetDefault("attom.base_url", "https://api.gateway.attomdata.com/propertyapi/v1.0.0")
	v.SetDefault("attom.timeout_secs", 30)
	v.SetDefault("attom.requests_per_sec", 5)
	v.SetDefault("scan.page_size", 50)
	v.SetDefault("scan.pages_absentee", 4)
	v.SetDefault("scan.pages_equity", 4)
	v.SetDefault("scan.pages_distress", 5)
	v.SetDefault("scan.pages_justsold", 4)
	v.SetDefault("scan.pages_investor", 6)
	v.SetDefault("equity.min_years_owned", 10)
	v.SetDefault("equity.min_value", 0)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "")
	v.SetDefault("store.path", "prospect.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
