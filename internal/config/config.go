package config

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// DefaultUserAgent is the default User-Agent string sent with all catalog requests.
const DefaultUserAgent = "ShowSearch/1.0 (+https://github.com/Belphemur/ShowSearch)"

// DefaultCatalogBaseURL is the public TVmaze API root.
const DefaultCatalogBaseURL = "https://api.tvmaze.com"

// DefaultImageURL is used for shows the catalog has no artwork for.
const DefaultImageURL = "https://tinyurl.com/tv-missing"

type Config struct {
	ProxyConnectionString string `mapstructure:"proxy_connection_string"`
	CatalogBaseURL        string `mapstructure:"catalog_base_url"`
	DefaultImageURL       string `mapstructure:"default_image_url"`
	ClientTimeout         string `mapstructure:"client_timeout"` // Go duration string like "30s", "1h", etc.
	UserAgent             string `mapstructure:"user_agent"`
	Server                struct {
		Port    int    `mapstructure:"port"`
		Address string `mapstructure:"address"`
	} `mapstructure:"server"`
	LogLevel string `mapstructure:"log_level"`
	Cache    struct {
		Type  string `mapstructure:"type"` // "memory" or "redis"
		Size  int    `mapstructure:"size"` // Maximum number of session snapshots kept
		TTL   string `mapstructure:"ttl"`  // Go duration string like "1h", "24h", etc.
		Redis struct {
			Address  string `mapstructure:"address"`
			Password string `mapstructure:"password"`
			DB       int    `mapstructure:"db"`
		} `mapstructure:"redis"`
	} `mapstructure:"cache"`
	Metrics struct {
		Enabled bool `mapstructure:"enabled"`
		Port    int  `mapstructure:"port"`
	} `mapstructure:"metrics"`
	Sentry struct {
		DSN         string `mapstructure:"dsn"`
		Environment string `mapstructure:"environment"`
	} `mapstructure:"sentry"`
}

var (
	globalConfig *Config
	logger       zerolog.Logger
)

func init() {
	// Initialize zerolog with console writer for human-readable output
	logger = zerolog.New(zerolog.ConsoleWriter{
		Out:     os.Stdout,
		NoColor: false,
	}).With().Timestamp().Logger()

	config, err := LoadConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load config")
	}

	level := zerolog.InfoLevel
	if config.LogLevel != "" {
		if parsedLevel, err := zerolog.ParseLevel(config.LogLevel); err == nil {
			level = parsedLevel
		} else {
			logger.Warn().Str("invalid_level", config.LogLevel).Msg("Invalid log level, using default 'info'")
		}
	}

	zerolog.SetGlobalLevel(level)
	logger = logger.Level(level)

	logger.Info().Str("level", level.String()).Msg("Logging configured")
	globalConfig = config
	logger.Info().Msg("Configuration loaded successfully")
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Environment variable support
	viper.AutomaticEnv()
	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	_ = viper.BindEnv("log_level", "LOG_LEVEL")
	_ = viper.BindEnv("sentry.dsn", "SENTRY_DSN")

	viper.SetDefault("catalog_base_url", DefaultCatalogBaseURL)
	viper.SetDefault("default_image_url", DefaultImageURL)
	viper.SetDefault("client_timeout", "30s")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.address", "localhost")
	viper.SetDefault("cache.type", "memory")
	viper.SetDefault("cache.size", 1000)
	viper.SetDefault("cache.ttl", "1h")
	viper.SetDefault("metrics.port", 9090)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}
	if config.UserAgent == "" {
		config.UserAgent = DefaultUserAgent
	}
	if config.DefaultImageURL == "" {
		config.DefaultImageURL = DefaultImageURL
	}
	config.CatalogBaseURL = strings.TrimRight(config.CatalogBaseURL, "/")

	return &config, nil
}

func GetConfig() *Config {
	return globalConfig
}

func GetUserAgent() string {
	if globalConfig != nil && globalConfig.UserAgent != "" {
		return globalConfig.UserAgent
	}

	return DefaultUserAgent
}

func GetLogger() zerolog.Logger {
	return logger
}
