package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// ServerConfig holds all configuration for the ChatHub backend.
// Tags use mapstructure for Viper unmarshalling.
type ServerConfig struct {
	HTTPPort    string `mapstructure:"HTTP_PORT"`
	MongoURI    string `mapstructure:"MONGO_URI"`
	MongoDBName string `mapstructure:"MONGO_DB_NAME"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`
	LogPretty   bool   `mapstructure:"LOG_PRETTY"`

	// Identity provider token verification.
	TokenSecret   string `mapstructure:"TOKEN_SECRET"`
	TokenIssuer   string `mapstructure:"TOKEN_ISSUER"`
	TokenCacheTTL int    `mapstructure:"TOKEN_CACHE_TTL_SEC"`

	// Session store selection and policy.
	SessionStore          string `mapstructure:"SESSION_STORE"` // "mongo" or "redis"
	RedisAddr             string `mapstructure:"REDIS_ADDR"`
	RedisPassword         string `mapstructure:"REDIS_PASSWORD"`
	RedisDB               int    `mapstructure:"REDIS_DB"`
	SessionTTLMin         int    `mapstructure:"SESSION_TTL_MIN"`
	MaxConcurrentSessions int    `mapstructure:"MAX_CONCURRENT_SESSIONS"`

	// Security policy.
	AllowedIPs               []string `mapstructure:"ALLOWED_IPS"`
	RequireEmailVerification bool     `mapstructure:"REQUIRE_EMAIL_VERIFICATION"`
}

// LoadConfig reads configuration from file, environment variables, and defaults.
func LoadConfig() (*ServerConfig, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.AddConfigPath("/etc/chathub/")
	v.AddConfigPath("$HOME/.chathub")
	v.AddConfigPath(".")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017/chathub_dev")
	v.SetDefault("MONGO_DB_NAME", "chathub_dev")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_PRETTY", true)
	v.SetDefault("TOKEN_SECRET", "a_very_secret_token_key_change_me") // CHANGE IN PRODUCTION
	v.SetDefault("TOKEN_ISSUER", "https://id.chathub.dev")
	v.SetDefault("TOKEN_CACHE_TTL_SEC", 60)
	v.SetDefault("SESSION_STORE", "mongo")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("SESSION_TTL_MIN", 30)
	v.SetDefault("MAX_CONCURRENT_SESSIONS", 5)
	v.SetDefault("ALLOWED_IPS", []string{}) // empty list disables the allow-list check
	v.SetDefault("REQUIRE_EMAIL_VERIFICATION", true)

	if err := v.ReadInConfig(); err != nil {
		// ConfigFileNotFoundError is acceptable, means we use defaults/env vars.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg ServerConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	return &cfg, nil
}
