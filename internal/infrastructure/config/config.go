package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Log      LogConfig
	Amazon   AmazonConfig
	Sync     SyncConfig
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
}

// AmazonConfig holds Selling Partner API credentials and marketplace scope
type AmazonConfig struct {
	SellerID        string
	ClientID        string
	ClientSecret    string
	RefreshToken    string
	MainMarketplace string
	Marketplaces    []string
	TimeoutSeconds  int
	// InsecureUpload disables TLS certificate verification on document
	// upload and download requests. Development only.
	InsecureUpload bool
}

// SyncConfig holds synchronization engine settings
type SyncConfig struct {
	SyncJobID     string        // stable identity of this sync job, used to key watermarks
	Interval      time.Duration // how often the scheduler starts a full sync round
	PassTimeout   time.Duration // per-pass deadline
	PollInterval  time.Duration // async job status poll interval
	BurstSize     int           // remote calls before a cooldown
	BurstCooldown time.Duration
	Lookback      time.Duration // order import window when no watermark exists (0 = one calendar month)
	SafetyMargin  time.Duration // subtracted from now when closing an import window
	ScratchDir    string        // working directory for staged report and feed documents
	DefaultLocale string        // locale assigned to imported orders
	LanguageID    int           // language assigned to imported orders
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with SHOPSYNC_ prefix (e.g., SHOPSYNC_DATABASE_PASSWORD)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	// Set config file settings
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	// Enable environment variable override
	v.SetEnvPrefix("SHOPSYNC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Build config struct
	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Amazon: AmazonConfig{
			SellerID:        v.GetString("amazon.seller_id"),
			ClientID:        v.GetString("amazon.client_id"),
			ClientSecret:    v.GetString("amazon.client_secret"),
			RefreshToken:    v.GetString("amazon.refresh_token"),
			MainMarketplace: v.GetString("amazon.main_marketplace"),
			Marketplaces:    v.GetStringSlice("amazon.marketplaces"),
			TimeoutSeconds:  v.GetInt("amazon.timeout_seconds"),
			InsecureUpload:  v.GetBool("amazon.insecure_upload"),
		},
		Sync: SyncConfig{
			SyncJobID:     v.GetString("sync.job_id"),
			Interval:      v.GetDuration("sync.interval"),
			PassTimeout:   v.GetDuration("sync.pass_timeout"),
			PollInterval:  v.GetDuration("sync.poll_interval"),
			BurstSize:     v.GetInt("sync.burst_size"),
			BurstCooldown: v.GetDuration("sync.burst_cooldown"),
			Lookback:      v.GetDuration("sync.lookback"),
			SafetyMargin:  v.GetDuration("sync.safety_margin"),
			ScratchDir:    v.GetString("sync.scratch_dir"),
			DefaultLocale: v.GetString("sync.default_locale"),
			LanguageID:    v.GetInt("sync.language_id"),
		},
	}

	// Apply defaults for empty values
	applyDefaults(cfg)

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "shopsync"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "shopsync"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 30
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.Amazon.TimeoutSeconds == 0 {
		cfg.Amazon.TimeoutSeconds = 30
	}
	if cfg.Sync.Interval == 0 {
		cfg.Sync.Interval = time.Hour
	}
	if cfg.Sync.PassTimeout == 0 {
		cfg.Sync.PassTimeout = 4 * time.Hour
	}
	if cfg.Sync.PollInterval == 0 {
		cfg.Sync.PollInterval = 5 * time.Second
	}
	if cfg.Sync.BurstSize == 0 {
		cfg.Sync.BurstSize = 20
	}
	if cfg.Sync.BurstCooldown == 0 {
		cfg.Sync.BurstCooldown = time.Hour
	}
	if cfg.Sync.SafetyMargin == 0 {
		cfg.Sync.SafetyMargin = time.Minute
	}
	// Lookback keeps its zero value: the orchestrator falls back to one
	// calendar month when no duration is configured.
	if cfg.Sync.ScratchDir == "" {
		cfg.Sync.ScratchDir = "/tmp/shopsync"
	}
	if cfg.Sync.DefaultLocale == "" {
		cfg.Sync.DefaultLocale = "de-DE"
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	// Validate connection pool settings
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}

	if c.Sync.PollInterval < time.Second {
		return fmt.Errorf("sync.poll_interval must be at least 1s")
	}
	if c.Sync.BurstSize <= 0 {
		return fmt.Errorf("sync.burst_size must be positive")
	}

	// Production-specific validations
	if c.App.Env == "production" {
		if c.Database.Password == "" {
			return fmt.Errorf("database.password is required in production")
		}
		if c.Database.SSLMode == "disable" {
			return fmt.Errorf("database.sslmode cannot be 'disable' in production")
		}
		if c.Amazon.SellerID == "" {
			return fmt.Errorf("amazon.seller_id is required in production")
		}
		if c.Amazon.ClientID == "" || c.Amazon.ClientSecret == "" {
			return fmt.Errorf("amazon.client_id and amazon.client_secret are required in production")
		}
		if c.Amazon.RefreshToken == "" {
			return fmt.Errorf("amazon.refresh_token is required in production")
		}
		// Document transfers carry order and inventory data
		if c.Amazon.InsecureUpload {
			return fmt.Errorf("amazon.insecure_upload must be false in production")
		}
	}

	return nil
}

// DSN returns the database connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
