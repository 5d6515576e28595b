package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for labelscan-engine.
// Configuration can come from YAML file (config.yaml) or environment
// variables; environment variables always override YAML values. Secrets
// (API keys, database passwords) must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8080"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// KB configuration
	KB KBConfig `yaml:"kb"`

	// Oracle is the external LLM classifier consulted for phrases the KB
	// cannot match.
	Oracle OracleConfig `yaml:"oracle"`

	// ChildPolicy tunes child-safety aggregation.
	ChildPolicy ChildPolicyConfig `yaml:"child_policy"`

	// Product is the barcode lookup service.
	Product ProductConfig `yaml:"product"`

	// Database configuration for the optional scan history store.
	Database DatabaseConfig `yaml:"database"`
}

// KBConfig holds knowledge base settings.
type KBConfig struct {
	// Path overrides the embedded dataset with an external KB file.
	Path string `yaml:"path" env:"KB_PATH" env-default:""`
}

// OracleConfig holds settings for the fallback classifier endpoint.
type OracleConfig struct {
	Endpoint string `yaml:"endpoint" env:"ORACLE_ENDPOINT" env-default:""`
	Model    string `yaml:"model" env:"ORACLE_MODEL" env-default:""`
	APIKey   string `yaml:"-" env:"ORACLE_API_KEY"` // Secret - not in YAML

	// TimeoutSeconds bounds a single phrase's classifier call.
	TimeoutSeconds int `yaml:"timeout_seconds" env:"ORACLE_TIMEOUT_SECONDS" env-default:"10"`

	// MaxConcurrent bounds simultaneous classifier calls per process.
	MaxConcurrent int `yaml:"max_concurrent" env:"ORACLE_MAX_CONCURRENT" env-default:"8"`
}

// IsAvailable returns true if the classifier oracle is configured.
func (c *OracleConfig) IsAvailable() bool {
	return c.Endpoint != "" && c.Model != ""
}

// Timeout returns the per-phrase deadline as a duration.
func (c *OracleConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ChildPolicyConfig holds the child-safety aggregation policy.
type ChildPolicyConfig struct {
	// LimitIsUnsafe treats child_risk "limit" as unsafe in the overall
	// child-safety flag, not just "avoid".
	LimitIsUnsafe bool `yaml:"limit_is_unsafe" env:"CHILD_POLICY_LIMIT_IS_UNSAFE" env-default:"false"`
}

// ProductConfig holds settings for the barcode product lookup service.
type ProductConfig struct {
	BaseURL        string `yaml:"base_url" env:"PRODUCT_BASE_URL" env-default:"https://world.openfoodfacts.org"`
	TimeoutSeconds int    `yaml:"timeout_seconds" env:"PRODUCT_TIMEOUT_SECONDS" env-default:"15"`
}

// Timeout returns the lookup deadline as a duration.
func (c *ProductConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// DatabaseConfig holds PostgreSQL configuration for the scan history
// store. Leaving Host empty disables persistence entirely.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:""`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"labelscan"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"labelscan_engine"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"10"`

	// MigrationsPath points at the schema migration directory.
	MigrationsPath string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"migrations"`
}

// Enabled reports whether scan history persistence is configured.
func (c *DatabaseConfig) Enabled() bool {
	return c.Host != ""
}

// ConnectionString returns a PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// Load reads configuration from config.yaml with environment variable
// overrides. The version parameter is injected at build time and set on
// the returned Config.
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
		return nil, fmt.Errorf("failed to read config.yaml: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// validate rejects configurations the engine cannot run with.
func (c *Config) validate() error {
	if c.Oracle.TimeoutSeconds <= 0 {
		return fmt.Errorf("oracle timeout_seconds must be positive, got %d", c.Oracle.TimeoutSeconds)
	}
	if c.Oracle.MaxConcurrent <= 0 {
		return fmt.Errorf("oracle max_concurrent must be positive, got %d", c.Oracle.MaxConcurrent)
	}
	if c.Oracle.Endpoint != "" && c.Oracle.Model == "" {
		return fmt.Errorf("oracle endpoint is set but model is empty")
	}
	if c.Database.Enabled() && c.Database.MigrationsPath == "" {
		return fmt.Errorf("database is configured but migrations_path is empty")
	}
	return nil
}
