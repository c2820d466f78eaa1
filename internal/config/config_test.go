package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(origDir) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	// No config.yaml in a fresh temp dir.
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "vesta", cfg.Store.Schemas.Projects)
	assert.Equal(t, "designer_hub", cfg.Store.Schemas.Submissions)
	assert.Equal(t, int32(10), cfg.Store.Pool.MaxConns)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, []string{"https://vestahome.design"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 720, cfg.Server.SessionTTLMins)
	assert.Equal(t, "sb-access-token", cfg.Auth.CookieName)
	assert.Equal(t, "google", cfg.Auth.Provider)
	assert.Equal(t, "https://api.postmarkapp.com", cfg.Postmark.BaseURL)
	assert.Equal(t, "outbound", cfg.Postmark.MessageStream)
	assert.Equal(t, "project-closings@vestahome.com", cfg.Postmark.Operations)
	assert.Equal(t, 1, cfg.Postmark.RetryAttempts)
	assert.False(t, cfg.Notion.Enabled())
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
store:
  driver: sqlite
  database_url: hub.db
  submissions_schema: closings
log:
  level: debug
  format: console
server:
  port: 9090
  allowed_origins:
    - https://hub.vestahome.design
notion:
  token: ntn_token
  closings_db: db-1
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "hub.db", cfg.Store.DatabaseURL)
	assert.Equal(t, "closings", cfg.Store.Schemas.Submissions)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, []string{"https://hub.vestahome.design"}, cfg.Server.AllowedOrigins)
	assert.True(t, cfg.Notion.Enabled())
	// Defaults still apply for unset values
	assert.Equal(t, "vesta", cfg.Store.Schemas.Projects)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
store:
  driver: sqlite
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	t.Setenv("HUB_STORE_DRIVER", "postgres")
	t.Setenv("HUB_LOG_LEVEL", "warn")
	t.Setenv("HUB_POSTMARK_SERVER_TOKEN", "pm-token")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "pm-token", cfg.Postmark.ServerToken)
}

func TestLoadMalformedFile(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("store: [unterminated"), 0o644))

	_, err := Load()
	assert.Error(t, err)
}

func TestServerLocation(t *testing.T) {
	assert.Equal(t, time.UTC, ServerConfig{}.Location())
	assert.Equal(t, time.UTC, ServerConfig{Timezone: "Not/AZone"}.Location())
	assert.Equal(t, "America/New_York", ServerConfig{Timezone: "America/New_York"}.Location().String())
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	assert.NotNil(t, zap.L())

	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))
	assert.NotNil(t, zap.L())

	assert.Error(t, InitLogger(LogConfig{Level: "invalid", Format: "json"}))
}

func validServe() *Config {
	cfg := &Config{}
	cfg.Store.Driver = "postgres"
	cfg.Store.DatabaseURL = "postgres://localhost/hub"
	cfg.Auth.SupabaseURL = "https://abc.supabase.co"
	cfg.Auth.AnonKey = "anon"
	cfg.Server.Port = 8080
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mode    string
		mutate  func(c *Config)
		wantErr []string
	}{
		{name: "serve ok", mode: "serve"},
		{
			name:    "serve missing auth",
			mode:    "serve",
			mutate:  func(c *Config) { c.Auth = AuthConfig{} },
			wantErr: []string{"auth.supabase_url is required", "auth.anon_key is required"},
		},
		{
			name:    "serve bad port",
			mode:    "serve",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: []string{"server.port must be > 0"},
		},
		{
			name:    "unknown driver",
			mode:    "migrate",
			mutate:  func(c *Config) { c.Store.Driver = "mysql" },
			wantErr: []string{"store.driver must be postgres or sqlite"},
		},
		{
			name:    "missing database url",
			mode:    "submissions",
			mutate:  func(c *Config) { c.Store.DatabaseURL = "" },
			wantErr: []string{"store.database_url is required"},
		},
		{
			name:    "receipt needs postmark",
			mode:    "receipt",
			wantErr: []string{"postmark.server_token is required", "postmark.from is required"},
		},
		{
			name: "receipt ok",
			mode: "receipt",
			mutate: func(c *Config) {
				c.Postmark.ServerToken = "pm"
				c.Postmark.From = "noreply@vestahome.com"
			},
		},
		{name: "unknown mode", mode: "nope", wantErr: []string{"unknown mode"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validServe()
			if tt.mutate != nil {
				tt.mutate(cfg)
			}
			err := cfg.Validate(tt.mode)
			if len(tt.wantErr) == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			for _, want := range tt.wantErr {
				assert.Contains(t, err.Error(), want)
			}
		})
	}
}
