// internal/common/config/config.go
package config

import (
	"fmt"
	"path/filepath"
)

// Config is the main application configuration struct.
type Config struct {
	App        AppConfig               `mapstructure:"app"`
	Camunda    CamundaConfig           `mapstructure:"camunda"`
	Database   DatabaseConfig          `mapstructure:"database"`
	Artifacts  ArtifactsConfig         `mapstructure:"artifacts"`
	Estimation EstimationConfig        `mapstructure:"estimation"`
	Workers    map[string]WorkerConfig `mapstructure:"workers"`
	Logging    LoggingConfig           `mapstructure:"logging"`
	Server     ServerConfig            `mapstructure:"server"`
	Registry   RegistryConfig          `mapstructure:"registry"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

// --- Estimation ---

const (
	CatalogSourceFile     = "file"
	CatalogSourcePostgres = "postgres"
)

// ArtifactsConfig locates the model bundle. Individual file settings win over
// the default layout under Dir.
type ArtifactsConfig struct {
	Dir           string `mapstructure:"dir"`
	Model         string `mapstructure:"model"`
	YearScaler    string `mapstructure:"year_scaler"`
	MileageScaler string `mapstructure:"mileage_scaler"`
	BrandEncoder  string `mapstructure:"brand_encoder"`
	ModelEncoder  string `mapstructure:"model_encoder"`
	PriceScaler   string `mapstructure:"price_scaler"`
	Catalog       string `mapstructure:"catalog"`
	CatalogSource string `mapstructure:"catalog_source"` // file | postgres
	CatalogTable  string `mapstructure:"catalog_table"`
}

// FilePath returns the configured path for name, or name under Dir.
func (a ArtifactsConfig) FilePath(override, name string) string {
	if override != "" {
		return override
	}
	return filepath.Join(a.Dir, name)
}

type EstimationConfig struct {
	MinYear    int         `mapstructure:"min_year"`
	MaxYear    int         `mapstructure:"max_year"`
	MaxMileage int         `mapstructure:"max_mileage"`
	PriceUnit  string      `mapstructure:"price_unit"`
	Cache      CacheConfig `mapstructure:"cache"`
}

type CacheConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	TTL       int    `mapstructure:"ttl"` // milliseconds
	KeyPrefix string `mapstructure:"key_prefix"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// ServerConfig is the health/metrics listener.
type ServerConfig struct {
	Address string `mapstructure:"address"`
}

type RegistryConfig struct {
	Path string `mapstructure:"path"`
}
