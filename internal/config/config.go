package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// envKeyReplacer maps nested keys to env names: http.addr → HTTP_ADDR.
var envKeyReplacer = strings.NewReplacer(".", "_")

// Config is the full runtime configuration. Every field can be set through
// the environment with the STOCKMASTER_ prefix, e.g. STOCKMASTER_HTTP_ADDR.
type Config struct {
	App struct {
		Env      string `mapstructure:"env"`      // "dev" or "prod"
		Timezone string `mapstructure:"timezone"` // reporting calendar-day boundaries
	} `mapstructure:"app"`

	HTTP struct {
		Addr           string `mapstructure:"addr"`
		AllowedOrigins string `mapstructure:"allowed_origins"` // comma-separated, empty disables CORS
	} `mapstructure:"http"`

	Postgres struct {
		DSN string `mapstructure:"dsn"`
	} `mapstructure:"postgres"`

	Auth struct {
		JWTSecret string `mapstructure:"jwt_secret"`
	} `mapstructure:"auth"`

	OpenAI struct {
		APIKey string `mapstructure:"api_key"`
		Model  string `mapstructure:"model"`
	} `mapstructure:"openai"`

	Metrics struct {
		Enabled bool `mapstructure:"enabled"`
	} `mapstructure:"metrics"`
}

// Load reads configuration from the optional file at path (any viper-supported
// format) and the environment. Environment variables win.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("STOCKMASTER")
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()

	v.SetDefault("app.env", "prod")
	v.SetDefault("app.timezone", "Asia/Kolkata")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.allowed_origins", "")
	// Empty defaults register the keys so AutomaticEnv can fill them.
	v.SetDefault("postgres.dsn", "")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.model", "")
	v.SetDefault("metrics.enabled", true)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if c.Postgres.DSN == "" {
		return Config{}, fmt.Errorf("postgres.dsn is required (STOCKMASTER_POSTGRES_DSN)")
	}
	if c.Auth.JWTSecret == "" {
		return Config{}, fmt.Errorf("auth.jwt_secret is required (STOCKMASTER_AUTH_JWT_SECRET)")
	}
	return c, nil
}

// Location resolves the configured reporting timezone.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return nil, fmt.Errorf("bad timezone %q: %w", c.App.Timezone, err)
	}
	return loc, nil
}
