package config

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettings_Defaults(t *testing.T) {
	cfg, err := LoadSettings(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), cfg)

	cfg, err = LoadSettings("")
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), cfg)
}

func TestLoadSettings_File(t *testing.T) {
	content := `
[server]
addr = ":9090"
rate_limit_per_minute = 30

[store]
driver = "postgres"
dsn = "postgres://rpgo@localhost/rpgo?sslmode=disable"

[cache]
backend = "redis"
redis_addr = "cache:6379"
ttl_seconds = 60

[log]
level = "debug"
format = "text"
`
	cfg, err := LoadSettings(writeTemp(t, content))
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 30, cfg.Server.RateLimitPerMinute)
	assert.Equal(t, 20, cfg.Server.RateLimitBurst, "unset keys keep defaults")
	assert.Equal(t, DriverPostgres, cfg.Store.Driver)
	assert.Equal(t, CacheRedis, cfg.Cache.Backend)
	assert.Equal(t, time.Minute, cfg.Cache.CacheTTL())
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadSettings_EnvOverrides(t *testing.T) {
	t.Setenv("RPGO_ADDR", ":7070")
	t.Setenv("RPGO_STORE_DRIVER", "memory")
	t.Setenv("RPGO_CACHE_BACKEND", "none")
	t.Setenv("RPGO_REDIS_DB", "not-a-number")

	cfg, err := LoadSettings("")
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, DriverMemory, cfg.Store.Driver)
	assert.Equal(t, CacheNone, cfg.Cache.Backend)
	assert.Equal(t, 0, cfg.Cache.RedisDB)
}

func TestLoadSettings_Invalid(t *testing.T) {
	_, err := LoadSettings(writeTemp(t, "[store\ndriver = 1"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing settings")

	_, err = LoadSettings(writeTemp(t, "[store]\ndriver = \"mongo\"\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown store driver")
}

func TestSettings_Validate(t *testing.T) {
	testCases := []struct {
		name    string
		modify  func(s *Settings)
		wantErr string
	}{
		{"defaults", func(s *Settings) {}, ""},
		{"sqlite without dsn", func(s *Settings) { s.Store.DSN = "" }, "dsn is required"},
		{"memory without dsn", func(s *Settings) { s.Store.Driver = DriverMemory; s.Store.DSN = "" }, ""},
		{"redis without addr", func(s *Settings) { s.Cache.Backend = CacheRedis; s.Cache.RedisAddr = "" }, "redis_addr"},
		{"unknown cache", func(s *Settings) { s.Cache.Backend = "memcached" }, "unknown cache backend"},
		{"unknown level", func(s *Settings) { s.Log.Level = "loud" }, "unknown log level"},
		{"unknown format", func(s *Settings) { s.Log.Format = "xml" }, "unknown log format"},
		{"negative rate", func(s *Settings) { s.Server.RateLimitPerMinute = -1 }, "cannot be negative"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := DefaultSettings()
			tc.modify(&s)
			err := s.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestSaveSettings_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rpgo.toml")
	cfg := DefaultSettings()
	cfg.Server.Addr = ":6060"
	cfg.Cache.Backend = CacheNone

	require.NoError(t, SaveSettings(path, cfg))

	loaded, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLogSettings_NewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := LogSettings{Level: "warn", Format: "json"}.NewLogger(&buf)

	logger.Info("dropped")
	logger.Warn("kept", "user", "a@example.com")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "kept", entry["msg"])
	assert.Equal(t, "a@example.com", entry["user"])
}

func TestServerSettings_Timeouts(t *testing.T) {
	read, write, idle, shutdown := DefaultSettings().Server.Timeouts()
	assert.Equal(t, 10*time.Second, read)
	assert.Equal(t, 10*time.Second, write)
	assert.Equal(t, time.Minute, idle)
	assert.Equal(t, 30*time.Second, shutdown)
}
