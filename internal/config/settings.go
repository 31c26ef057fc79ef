package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Settings holds the application configuration for the API server.
type Settings struct {
	Server ServerSettings `toml:"server"`
	Store  StoreSettings  `toml:"store"`
	Cache  CacheSettings  `toml:"cache"`
	Log    LogSettings    `toml:"log"`
}

// ServerSettings configures the HTTP listener.
type ServerSettings struct {
	Addr               string `toml:"addr"`
	ReadTimeoutSec     int    `toml:"read_timeout_seconds"`
	WriteTimeoutSec    int    `toml:"write_timeout_seconds"`
	IdleTimeoutSec     int    `toml:"idle_timeout_seconds"`
	ShutdownTimeoutSec int    `toml:"shutdown_timeout_seconds"`
	RateLimitPerMinute int    `toml:"rate_limit_per_minute"`
	RateLimitBurst     int    `toml:"rate_limit_burst"`
}

// StoreSettings selects the record store.
type StoreSettings struct {
	Driver string `toml:"driver"` // sqlite, postgres or memory
	DSN    string `toml:"dsn,omitempty"`
}

// CacheSettings selects the projection cache.
type CacheSettings struct {
	Backend       string `toml:"backend"` // memory, redis or none
	RedisAddr     string `toml:"redis_addr,omitempty"`
	RedisPassword string `toml:"redis_password,omitempty"`
	RedisDB       int    `toml:"redis_db"`
	TTLSeconds    int    `toml:"ttl_seconds"`
}

// LogSettings configures structured logging.
type LogSettings struct {
	Level  string `toml:"level"`  // debug, info, warn, error
	Format string `toml:"format"` // json or text
}

// Store drivers and cache backends.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"

	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

// DefaultSettings returns the default configuration.
func DefaultSettings() Settings {
	return Settings{
		Server: ServerSettings{
			Addr:               ":8080",
			ReadTimeoutSec:     10,
			WriteTimeoutSec:    10,
			IdleTimeoutSec:     60,
			ShutdownTimeoutSec: 30,
			RateLimitPerMinute: 120,
			RateLimitBurst:     20,
		},
		Store: StoreSettings{
			Driver: DriverSQLite,
			DSN:    "rpgo.db",
		},
		Cache: CacheSettings{
			Backend:    CacheMemory,
			RedisAddr:  "localhost:6379",
			TTLSeconds: 300,
		},
		Log: LogSettings{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadSettings reads a TOML settings file, falling back to defaults when
// path is empty or the file does not exist. Environment overrides are
// applied last.
func LoadSettings(path string) (Settings, error) {
	cfg := DefaultSettings()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parsing settings %s: %w", path, err)
			}
		case os.IsNotExist(err):
		default:
			return cfg, fmt.Errorf("reading settings %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid settings: %w", err)
	}
	return cfg, nil
}

// SaveSettings writes settings to path as TOML.
func SaveSettings(path string, cfg Settings) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating settings file: %w", err)
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

func applyEnv(cfg *Settings) {
	cfg.Server.Addr = getEnv("RPGO_ADDR", cfg.Server.Addr)
	cfg.Server.RateLimitPerMinute = getEnvInt("RPGO_RATE_LIMIT_PER_MINUTE", cfg.Server.RateLimitPerMinute)
	cfg.Store.Driver = getEnv("RPGO_STORE_DRIVER", cfg.Store.Driver)
	cfg.Store.DSN = getEnv("RPGO_STORE_DSN", cfg.Store.DSN)
	cfg.Cache.Backend = getEnv("RPGO_CACHE_BACKEND", cfg.Cache.Backend)
	cfg.Cache.RedisAddr = getEnv("RPGO_REDIS_ADDR", cfg.Cache.RedisAddr)
	cfg.Cache.RedisPassword = getEnv("RPGO_REDIS_PASSWORD", cfg.Cache.RedisPassword)
	cfg.Cache.RedisDB = getEnvInt("RPGO_REDIS_DB", cfg.Cache.RedisDB)
	cfg.Log.Level = getEnv("RPGO_LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv("RPGO_LOG_FORMAT", cfg.Log.Format)
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists && val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val, exists := os.LookupEnv(key); exists {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

// Validate checks that every selector names a known implementation.
func (s Settings) Validate() error {
	switch s.Store.Driver {
	case DriverSQLite, DriverPostgres:
		if s.Store.DSN == "" {
			return fmt.Errorf("store dsn is required for driver %s", s.Store.Driver)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown store driver %q", s.Store.Driver)
	}

	switch s.Cache.Backend {
	case CacheMemory, CacheNone:
	case CacheRedis:
		if s.Cache.RedisAddr == "" {
			return fmt.Errorf("redis_addr is required for the redis cache")
		}
	default:
		return fmt.Errorf("unknown cache backend %q", s.Cache.Backend)
	}

	if _, err := parseLevel(s.Log.Level); err != nil {
		return err
	}
	if s.Log.Format != "json" && s.Log.Format != "text" {
		return fmt.Errorf("unknown log format %q", s.Log.Format)
	}
	if s.Server.RateLimitPerMinute < 0 || s.Server.RateLimitBurst < 0 {
		return fmt.Errorf("rate limits cannot be negative")
	}
	return nil
}

// CacheTTL returns the cache entry lifetime.
func (c CacheSettings) CacheTTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// Timeouts returns read, write, idle and shutdown timeouts.
func (s ServerSettings) Timeouts() (read, write, idle, shutdown time.Duration) {
	return time.Duration(s.ReadTimeoutSec) * time.Second,
		time.Duration(s.WriteTimeoutSec) * time.Second,
		time.Duration(s.IdleTimeoutSec) * time.Second,
		time.Duration(s.ShutdownTimeoutSec) * time.Second
}

// NewLogger builds a slog logger writing to w at the configured level.
func (l LogSettings) NewLogger(w io.Writer) *slog.Logger {
	level, err := parseLevel(l.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if l.Format == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}
