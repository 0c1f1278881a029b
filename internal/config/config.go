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
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Data      DataConfig      `yaml:"data" mapstructure:"data"`
	Analysis  AnalysisConfig  `yaml:"analysis" mapstructure:"analysis"`
	Logistics LogisticsConfig `yaml:"logistics" mapstructure:"logistics"`
	Report    ReportConfig    `yaml:"report" mapstructure:"report"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the snapshot database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// DataConfig configures dataset ingestion.
type DataConfig struct {
	Dir          string `yaml:"dir" mapstructure:"dir"`
	InventoryDir string `yaml:"inventory_dir" mapstructure:"inventory_dir"`
}

// AnalysisConfig configures the scoring and advice engines.
type AnalysisConfig struct {
	MaxConcurrentSellers int `yaml:"max_concurrent_sellers" mapstructure:"max_concurrent_sellers"`
	LowReviewScore       int `yaml:"low_review_score" mapstructure:"low_review_score"`
}

// LogisticsConfig configures the warehouse simulation.
type LogisticsConfig struct {
	MaxCustomerPoints int `yaml:"max_customer_points" mapstructure:"max_customer_points"`
}

// ReportConfig configures report output.
type ReportConfig struct {
	OutputDir string `yaml:"output_dir" mapstructure:"output_dir"`
}

// ServerConfig configures the HTTP API server.
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
	v.SetEnvPrefix("SELLER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "seller-insights.db")
	v.SetDefault("data.dir", "data")
	v.SetDefault("data.inventory_dir", "data/inventory")
	v.SetDefault("analysis.max_concurrent_sellers", 8)
	v.SetDefault("analysis.low_review_score", 2)
	v.SetDefault("logistics.max_customer_points", 500)
	v.SetDefault("report.output_dir", "reports")
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
