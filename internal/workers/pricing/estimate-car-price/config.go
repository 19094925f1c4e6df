package estimatecarprice

import (
	"fmt"
	"time"
)

type Config struct {
	Enabled       bool          `mapstructure:"enabled"`
	MaxJobsActive int           `mapstructure:"max_jobs_active"`
	Timeout       time.Duration `mapstructure:"timeout"`

	MinYear    int    `mapstructure:"min_year"`
	MaxYear    int    `mapstructure:"max_year"`
	MaxMileage int    `mapstructure:"max_mileage"`
	PriceUnit  string `mapstructure:"price_unit"`

	CacheEnabled   bool          `mapstructure:"cache_enabled"`
	CacheTTL       time.Duration `mapstructure:"cache_ttl"`
	CacheKeyPrefix string        `mapstructure:"cache_key_prefix"`
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:        true,
		MaxJobsActive:  5,
		Timeout:        30 * time.Second,
		MinYear:        1970,
		MaxYear:        2025,
		MaxMileage:     600000,
		PriceUnit:      "MILLIONS",
		CacheTTL:       time.Hour,
		CacheKeyPrefix: "carprice:estimate",
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxJobsActive <= 0 {
		return fmt.Errorf("max_jobs_active must be positive")
	}
	if c.MinYear > c.MaxYear {
		return fmt.Errorf("min_year %d is after max_year %d", c.MinYear, c.MaxYear)
	}
	if c.MaxMileage < 0 {
		return fmt.Errorf("max_mileage must not be negative")
	}
	if c.PriceUnit == "" {
		return fmt.Errorf("price_unit is required")
	}
	if c.CacheEnabled && c.CacheTTL <= 0 {
		return fmt.Errorf("cache_ttl must be positive when the cache is enabled")
	}
	return nil
}
