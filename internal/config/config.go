package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values. It is loaded exactly once at
// startup and handed to every component that needs it; business logic
// never reads the environment directly.
type Config struct {
	AppPort       string        `mapstructure:"APP_PORT"`
	DatabaseURL   string        `mapstructure:"DATABASE_URL"`
	JWTSecret     string        `mapstructure:"JWT_SECRET"`
	TokenTTL      time.Duration `mapstructure:"TOKEN_TTL"`
	ContentDir    string        `mapstructure:"CONTENT_DIR"`
	UploadDir     string        `mapstructure:"UPLOAD_DIR"`
	UploadBaseURL string        `mapstructure:"UPLOAD_BASE_URL"`
	LogLevel      string        `mapstructure:"LOG_LEVEL"`
}

// Load reads config.yaml (current dir or ./config) if present and applies
// environment overrides.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()

	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("TOKEN_TTL", "24h")
	v.SetDefault("CONTENT_DIR", "content/blog")
	v.SetDefault("UPLOAD_DIR", "public")
	v.SetDefault("UPLOAD_BASE_URL", "")
	v.SetDefault("LOG_LEVEL", "debug")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// HasDatabase reports whether the hosted store is configured. This is the
// single switch deciding which post store is active.
func (c *Config) HasDatabase() bool {
	return c.DatabaseURL != ""
}
