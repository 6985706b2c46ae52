package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Connect    ConnectConfig    `yaml:"connect"`
	Database   DatabaseConfig   `yaml:"database"`
	Push       PushConfig       `yaml:"push"`
	WorkerPool WorkerPoolConfig `yaml:"worker_pool"`
	OAuth      OAuthConfig      `yaml:"oauth"`
}

// WorkerPoolConfig holds the configuration for the notification worker pool.
type WorkerPoolConfig struct {
	Size int `yaml:"size"`
}

// PushConfig holds the VAPID keys for web push notifications. Push is
// disabled when either key is empty.
type PushConfig struct {
	PublicKey  string `yaml:"vapid_public_key"`
	PrivateKey string `yaml:"vapid_private_key"`
	Subject    string `yaml:"subject"`
	TTL        int    `yaml:"ttl"`
}

// Enabled reports whether both VAPID keys are configured.
func (p PushConfig) Enabled() bool {
	return p.PublicKey != "" && p.PrivateKey != ""
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int           `yaml:"port"`
	RateLimitPerSec float64       `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int           `yaml:"rate_limit_burst"`
	CacheTTLSeconds int           `yaml:"cache_ttl_seconds"`
	CacheTTL        time.Duration `yaml:"-"`
}

// ConnectConfig holds the terminal connection and analytics settings.
type ConnectConfig struct {
	FixturePath          string        `yaml:"fixture_path"`
	WatchFixture         bool          `yaml:"watch_fixture"`
	StorageKey           string        `yaml:"storage_key"`
	ConnectTimeoutMillis int           `yaml:"connect_timeout_ms"`
	ConnectTimeout       time.Duration `yaml:"-"`
	ConnectTicks         int           `yaml:"connect_ticks"`
	RefreshDelayMillis   int           `yaml:"refresh_delay_ms"`
	RefreshDelay         time.Duration `yaml:"-"`
	SingleTerminal       *bool         `yaml:"single_terminal"`
	Locale               string        `yaml:"locale"`
	Currency             string        `yaml:"currency"`
	SyncIntervalSeconds  int           `yaml:"sync_interval_seconds"`
	SyncInterval         time.Duration `yaml:"-"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	Driver                 string `yaml:"driver"`
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
	LogLevel               string `yaml:"log_level"`
}

// OAuthConfig holds the POS provider OAuth applications.
type OAuthConfig struct {
	HTTPProxy       string         `yaml:"http_proxy"`
	TimeoutSeconds  int            `yaml:"timeout_seconds"`
	StateTTLMinutes int            `yaml:"state_ttl_minutes"`
	SumUp           ProviderConfig `yaml:"sumup"`
	Square          ProviderConfig `yaml:"square"`
}

// ProviderConfig is one OAuth application registration.
type ProviderConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	RedirectURL  string `yaml:"redirect_url"`
	Scope        string `yaml:"scope"`
	BaseURL      string `yaml:"base_url"`
	AuthURL      string `yaml:"auth_url"`
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	cfg.ApplyDefaults()
	return &cfg, nil
}

// ApplyDefaults fills every unset field with its default value.
func (cfg *Config) ApplyDefaults() {
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 300
	}
	cfg.Server.CacheTTL = time.Duration(cfg.Server.CacheTTLSeconds) * time.Second

	if cfg.Connect.StorageKey == "" {
		cfg.Connect.StorageKey = "connectedTerminals"
	}
	if cfg.Connect.ConnectTimeoutMillis <= 0 {
		cfg.Connect.ConnectTimeoutMillis = 3000
	}
	cfg.Connect.ConnectTimeout = time.Duration(cfg.Connect.ConnectTimeoutMillis) * time.Millisecond
	if cfg.Connect.ConnectTicks <= 0 {
		cfg.Connect.ConnectTicks = 30
	}
	if cfg.Connect.RefreshDelayMillis <= 0 {
		cfg.Connect.RefreshDelayMillis = 1000
	}
	cfg.Connect.RefreshDelay = time.Duration(cfg.Connect.RefreshDelayMillis) * time.Millisecond
	if cfg.Connect.SingleTerminal == nil {
		single := true
		cfg.Connect.SingleTerminal = &single
	}
	if cfg.Connect.Locale == "" {
		cfg.Connect.Locale = "en-GB"
	}
	if cfg.Connect.Currency == "" {
		cfg.Connect.Currency = "GBP"
	}
	if cfg.Connect.SyncIntervalSeconds < 0 {
		cfg.Connect.SyncIntervalSeconds = 0
	}
	cfg.Connect.SyncInterval = time.Duration(cfg.Connect.SyncIntervalSeconds) * time.Second

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Database.DSN == "" && cfg.Database.Driver == "sqlite" {
		cfg.Database.DSN = "tapid.db"
	}

	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 3600
	}

	if cfg.WorkerPool.Size <= 0 {
		log.Printf("worker_pool.size is not set or invalid; defaulting to 1")
		cfg.WorkerPool.Size = 1
	}

	if cfg.OAuth.TimeoutSeconds <= 0 {
		cfg.OAuth.TimeoutSeconds = 30
	}
	if cfg.OAuth.StateTTLMinutes <= 0 {
		cfg.OAuth.StateTTLMinutes = 10
	}
}
