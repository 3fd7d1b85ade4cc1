package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
	Matcher  MatcherConfig  `yaml:"matcher" mapstructure:"matcher"`
	Analysis AnalysisConfig `yaml:"analysis" mapstructure:"analysis"`
	Taxonomy TaxonomyConfig `yaml:"taxonomy" mapstructure:"taxonomy"`
}

// StoreConfig configures the raw-count database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ServerConfig configures the analysis HTTP server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	RateLimitRPS   float64  `yaml:"rate_limit_rps" mapstructure:"rate_limit_rps"`
	RateLimitBurst int      `yaml:"rate_limit_burst" mapstructure:"rate_limit_burst"`
	CORSOrigins    []string `yaml:"cors_origins" mapstructure:"cors_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// MatcherConfig holds category matcher thresholds. The tier boundaries are
// empirically tuned, not semantically load-bearing.
type MatcherConfig struct {
	FloorThreshold    float64 `yaml:"floor_threshold" mapstructure:"floor_threshold"`
	PerfectThreshold  float64 `yaml:"perfect_threshold" mapstructure:"perfect_threshold"`
	VeryGoodThreshold float64 `yaml:"very_good_threshold" mapstructure:"very_good_threshold"`
	GoodThreshold     float64 `yaml:"good_threshold" mapstructure:"good_threshold"`
}

// AnalysisConfig configures the fan-out orchestrator.
type AnalysisConfig struct {
	TableTimeoutSecs int `yaml:"table_timeout_secs" mapstructure:"table_timeout_secs"`
	MaxConcurrent    int `yaml:"max_concurrent" mapstructure:"max_concurrent"`
}

// TableTimeout returns the per-table fetch timeout as a duration.
func (c AnalysisConfig) TableTimeout() time.Duration {
	return time.Duration(c.TableTimeoutSecs) * time.Second
}

// TaxonomyConfig points at an optional taxonomy override fixture.
type TaxonomyConfig struct {
	File string `yaml:"file" mapstructure:"file"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("DEMOGRAPHICS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "postgres")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_limit_rps", 20)
	v.SetDefault("server.rate_limit_burst", 40)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("matcher.floor_threshold", 0.15)
	v.SetDefault("matcher.perfect_threshold", 0.95)
	v.SetDefault("matcher.very_good_threshold", 0.8)
	v.SetDefault("matcher.good_threshold", 0.5)
	v.SetDefault("analysis.table_timeout_secs", 10)
	v.SetDefault("analysis.max_concurrent", 0) // 0 = fan-out size

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
