// Package config loads the service configuration from configs/config.yml,
// an optional .env file and STATION_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "STATION"

type Config struct {
	Port string

	Log struct {
		Level  string
		Format string
	}

	DB struct {
		Driver string
		Path   string
		DSN    string
	}

	// SessionStore is "sqlite" (timer_sessions table in the main db) or "redis".
	SessionStore    string
	RedisURL        string
	RedisSessionTTL time.Duration

	Kafka struct {
		Brokers []string
		Topic   string
	}

	Auth struct {
		SigningKey string
		TokenTTL   time.Duration
	}

	TimerTick time.Duration

	Dashboard struct {
		Interval time.Duration
		Stations []string
	}

	ThresholdsTimezone string

	HTTP struct {
		ReadHeaderTimeout time.Duration
		WriteTimeout      time.Duration
		IdleTimeout       time.Duration
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.path", "app.db")
	v.SetDefault("db.dsn", "")
	v.SetDefault("session.store", "sqlite")
	v.SetDefault("redis.url", "redis://localhost:6379/0")
	v.SetDefault("redis.session_ttl", "24h")
	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topic", "station-alarms")
	v.SetDefault("auth.signing_key", "")
	v.SetDefault("auth.token_ttl", "12h")
	v.SetDefault("timer.tick", "1s")
	v.SetDefault("dashboard.interval", "5s")
	v.SetDefault("dashboard.stations", []string{})
	v.SetDefault("thresholds.timezone", "UTC")
	v.SetDefault("http.read_header_timeout", "10s")
	v.SetDefault("http.write_timeout", "30s")
	v.SetDefault("http.idle_timeout", "60s")
}

// Load reads the config file at path. A missing file is not an error; defaults
// and the environment still apply.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read config %s: %w", filepath.Base(path), err)
			}
		}
	}

	cfg := &Config{
		Port:               v.GetString("port"),
		SessionStore:       strings.ToLower(v.GetString("session.store")),
		RedisURL:           v.GetString("redis.url"),
		RedisSessionTTL:    v.GetDuration("redis.session_ttl"),
		TimerTick:          v.GetDuration("timer.tick"),
		ThresholdsTimezone: v.GetString("thresholds.timezone"),
	}
	cfg.Log.Level = v.GetString("log.level")
	cfg.Log.Format = v.GetString("log.format")
	cfg.DB.Driver = v.GetString("db.driver")
	cfg.DB.Path = v.GetString("db.path")
	cfg.DB.DSN = v.GetString("db.dsn")
	cfg.Kafka.Brokers = splitList(v.GetStringSlice("kafka.brokers"))
	cfg.Kafka.Topic = v.GetString("kafka.topic")
	cfg.Auth.SigningKey = v.GetString("auth.signing_key")
	cfg.Auth.TokenTTL = v.GetDuration("auth.token_ttl")
	cfg.Dashboard.Interval = v.GetDuration("dashboard.interval")
	cfg.Dashboard.Stations = splitList(v.GetStringSlice("dashboard.stations"))
	cfg.HTTP.ReadHeaderTimeout = v.GetDuration("http.read_header_timeout")
	cfg.HTTP.WriteTimeout = v.GetDuration("http.write_timeout")
	cfg.HTTP.IdleTimeout = v.GetDuration("http.idle_timeout")

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DSN is the connection string for the configured driver; sqlite takes a file path.
func (c *Config) DSN() string {
	switch strings.ToLower(c.DB.Driver) {
	case "", "sqlite", "sqlite3":
		return c.DB.Path
	default:
		return c.DB.DSN
	}
}

// Location resolves thresholds.timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.ThresholdsTimezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(c.ThresholdsTimezone)
}

func (c *Config) validate() error {
	switch c.SessionStore {
	case "sqlite", "redis":
	default:
		return fmt.Errorf("session.store must be sqlite or redis, got %q", c.SessionStore)
	}
	if c.TimerTick <= 0 {
		return fmt.Errorf("timer.tick must be positive")
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("thresholds.timezone: %w", err)
	}
	return nil
}

// splitList accepts both YAML lists and comma separated env values.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
