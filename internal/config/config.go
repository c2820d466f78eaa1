package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/vestahome/designer-hub/internal/store"
)

// Config holds the full application configuration.
type Config struct {
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Auth      AuthConfig      `yaml:"auth" mapstructure:"auth"`
	Postmark  PostmarkConfig  `yaml:"postmark" mapstructure:"postmark"`
	Notion    NotionConfig    `yaml:"notion" mapstructure:"notion"`
	Directory DirectoryConfig `yaml:"directory" mapstructure:"directory"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string           `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string           `yaml:"database_url" mapstructure:"database_url"`
	Schemas     store.Schemas    `yaml:",inline" mapstructure:",squash"`
	Pool        store.PoolConfig `yaml:"pool" mapstructure:"pool"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	SiteURL        string   `yaml:"site_url" mapstructure:"site_url"`
	Timezone       string   `yaml:"timezone" mapstructure:"timezone"`
	SessionTTLMins int      `yaml:"session_ttl_mins" mapstructure:"session_ttl_mins"`
	LookupTimeout  int      `yaml:"lookup_timeout_secs" mapstructure:"lookup_timeout_secs"`
}

// Location resolves Timezone, falling back to UTC.
func (s ServerConfig) Location() *time.Location {
	if s.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		zap.L().Warn("config: unknown timezone, using UTC", zap.String("timezone", s.Timezone))
		return time.UTC
	}
	return loc
}

// AuthConfig holds identity provider settings.
type AuthConfig struct {
	SupabaseURL string `yaml:"supabase_url" mapstructure:"supabase_url"`
	AnonKey     string `yaml:"anon_key" mapstructure:"anon_key"`
	CookieName  string `yaml:"cookie_name" mapstructure:"cookie_name"`
	Provider    string `yaml:"provider" mapstructure:"provider"`
}

// PostmarkConfig holds transactional email settings.
type PostmarkConfig struct {
	ServerToken   string  `yaml:"server_token" mapstructure:"server_token"`
	BaseURL       string  `yaml:"base_url" mapstructure:"base_url"`
	From          string  `yaml:"from" mapstructure:"from"`
	MessageStream string  `yaml:"message_stream" mapstructure:"message_stream"`
	Operations    string  `yaml:"operations_address" mapstructure:"operations_address"`
	RetryAttempts int     `yaml:"retry_attempts" mapstructure:"retry_attempts"`
	RateLimit     float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// NotionConfig holds the optional submission ledger settings.
type NotionConfig struct {
	Token      string `yaml:"token" mapstructure:"token"`
	ClosingsDB string `yaml:"closings_db" mapstructure:"closings_db"`
}

// Enabled reports whether the ledger should be wired.
func (n NotionConfig) Enabled() bool {
	return n.Token != "" && n.ClosingsDB != ""
}

// DirectoryConfig configures project directory imports.
type DirectoryConfig struct {
	Source    string `yaml:"source" mapstructure:"source"`
	Sheet     string `yaml:"sheet" mapstructure:"sheet"`
	Charset   string `yaml:"charset" mapstructure:"charset"`
	Delimiter string `yaml:"delimiter" mapstructure:"delimiter"`
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
	v.SetEnvPrefix("HUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "postgres")
	v.SetDefault("store.database_url", "")
	v.SetDefault("store.projects_schema", store.DefaultProjectsSchema)
	v.SetDefault("store.submissions_schema", store.DefaultSubmissionsSchema)
	v.SetDefault("store.pool.max_conns", 10)
	v.SetDefault("store.pool.min_conns", 2)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{})
	v.SetDefault("server.site_url", "https://vestahome.design")
	v.SetDefault("server.timezone", "America/Los_Angeles")
	v.SetDefault("server.session_ttl_mins", 720)
	v.SetDefault("server.lookup_timeout_secs", 5)
	v.SetDefault("auth.supabase_url", "")
	v.SetDefault("auth.anon_key", "")
	v.SetDefault("auth.cookie_name", "sb-access-token")
	v.SetDefault("auth.provider", "google")
	v.SetDefault("postmark.server_token", "")
	v.SetDefault("postmark.base_url", "https://api.postmarkapp.com")
	v.SetDefault("postmark.from", "Vesta Home <noreply@vestahome.com>")
	v.SetDefault("postmark.message_stream", "outbound")
	v.SetDefault("postmark.operations_address", "project-closings@vestahome.com")
	v.SetDefault("postmark.retry_attempts", 1)
	v.SetDefault("postmark.rate_limit", 0)
	v.SetDefault("notion.token", "")
	v.SetDefault("notion.closings_db", "")
	v.SetDefault("directory.source", "")
	v.SetDefault("directory.charset", "utf-8")
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
	// The front-end sends the auth cookie, so the default must name it.
	if len(cfg.Server.AllowedOrigins) == 0 && cfg.Server.SiteURL != "" {
		cfg.Server.AllowedOrigins = []string{strings.TrimRight(cfg.Server.SiteURL, "/")}
	}

	return &cfg, nil
}

// Validate checks the settings a command needs. Modes: serve, migrate,
// submissions, projects, receipt.
func (c *Config) Validate(mode string) error {
	var errs []string
	require := func(v, key string) {
		if strings.TrimSpace(v) == "" {
			errs = append(errs, key+" is required")
		}
	}
	storeChecks := func() {
		switch c.Store.Driver {
		case "postgres", "sqlite":
			require(c.Store.DatabaseURL, "store.database_url")
		default:
			errs = append(errs, fmt.Sprintf("store.driver must be postgres or sqlite, got %q", c.Store.Driver))
		}
	}

	switch mode {
	case "serve":
		storeChecks()
		require(c.Auth.SupabaseURL, "auth.supabase_url")
		require(c.Auth.AnonKey, "auth.anon_key")
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, "server.port must be > 0 and <= 65535")
		}
		if c.Postmark.RetryAttempts < 0 {
			errs = append(errs, "postmark.retry_attempts must be >= 0")
		}
	case "migrate", "submissions", "projects":
		storeChecks()
	case "receipt":
		require(c.Postmark.ServerToken, "postmark.server_token")
		require(c.Postmark.From, "postmark.from")
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
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
