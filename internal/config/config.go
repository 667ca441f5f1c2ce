package config

import (
	"github.com/spf13/viper"
)

// Config stores all configuration for the application. It is built once
// at startup and read-only afterwards.
type Config struct {
	ServerPort    string `mapstructure:"SERVER_PORT"`
	PageTimeout   int    `mapstructure:"PAGE_TIMEOUT"`     // seconds, page fetch
	FetchTimeout  int    `mapstructure:"FETCH_TIMEOUT"`    // seconds, per image
	MaxImageBytes int64  `mapstructure:"MAX_IMAGE_BYTES"`  // payload ceiling per image
	FetchWorkers  int    `mapstructure:"FETCH_WORKERS"`    // bulk archive concurrency
	UserAgent     string `mapstructure:"USER_AGENT"`
	RenderJS      bool   `mapstructure:"RENDER_JS"`        // headless chrome page fetch
	RedisAddr     string `mapstructure:"REDIS_ADDR"`       // empty disables the proxy cache
	ProxyCacheTTL int    `mapstructure:"PROXY_CACHE_TTL"`  // seconds
	PostgresURL   string `mapstructure:"POSTGRES_URL"`     // empty disables fetch history
}

// Load reads configuration from file or environment variables.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	// Attempt to read the .env file, but don't fail if it's not present
	// This allows configuration purely through environment variables in production
	_ = viper.ReadInConfig()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("PAGE_TIMEOUT", 10)
	viper.SetDefault("FETCH_TIMEOUT", 10)
	viper.SetDefault("MAX_IMAGE_BYTES", 20*1024*1024)
	viper.SetDefault("FETCH_WORKERS", 8)
	viper.SetDefault("USER_AGENT",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/107.0.0.0 Safari/537.36")
	viper.SetDefault("RENDER_JS", false)
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("PROXY_CACHE_TTL", 300)
	viper.SetDefault("POSTGRES_URL", "")

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
