// Package config loads the application configuration file.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
	"github.com/username/urlaubsplaner/internal/holiday"
)

// Config represents application configuration
type Config struct {
	Planner    PlannerConfig    `mapstructure:"planner"`
	HolidayAPI HolidayAPIConfig `mapstructure:"holiday_api"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// PlannerConfig holds the planning defaults used until a plan file says
// otherwise
type PlannerConfig struct {
	FederalState     string `mapstructure:"federal_state"`
	TotalEntitlement int    `mapstructure:"total_entitlement"`
	Year             int    `mapstructure:"year"` // 0 means the current year
}

// HolidayAPIConfig represents the school holiday API configuration
type HolidayAPIConfig struct {
	BaseURL  string `mapstructure:"base_url"`
	Language string `mapstructure:"language"`
	Timeout  string `mapstructure:"timeout"`
	CacheTTL string `mapstructure:"cache_ttl"`
}

// StorageConfig represents file locations and save behavior
type StorageConfig struct {
	PlanFile     string `mapstructure:"plan_file"`
	CacheFile    string `mapstructure:"cache_file"`
	SaveDebounce string `mapstructure:"save_debounce"`
}

// LoggingConfig represents log output configuration
type LoggingConfig struct {
	LogFile  string `mapstructure:"log_file"`
	LogLevel string `mapstructure:"log_level"`
}

// Load loads configuration from file. An absent file is fine: defaults
// cover everything.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.urlaubsplaner")
		v.AddConfigPath("/etc/urlaubsplaner")
	}

	v.SetDefault("planner.federal_state", "HE")
	v.SetDefault("planner.total_entitlement", 30)
	v.SetDefault("holiday_api.base_url", "https://openholidaysapi.org")
	v.SetDefault("holiday_api.language", "DE")
	v.SetDefault("storage.plan_file", "urlaubsplan.json")
	v.SetDefault("storage.cache_file", "ferien_cache.json")

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if !holiday.Region(c.Planner.FederalState).Valid() {
		return fmt.Errorf("planner.federal_state must be a German state code, got '%s'", c.Planner.FederalState)
	}
	if c.Planner.TotalEntitlement <= 0 {
		return fmt.Errorf("planner.total_entitlement must be positive")
	}
	if c.HolidayAPI.BaseURL == "" {
		return fmt.Errorf("holiday_api.base_url is required")
	}
	if c.Storage.PlanFile == "" {
		return fmt.Errorf("storage.plan_file is required")
	}
	return nil
}

// GetYear returns the configured planning year, defaulting to the current one
func (c *PlannerConfig) GetYear() int {
	if c.Year != 0 {
		return c.Year
	}
	return time.Now().Year()
}

// GetTimeout returns the holiday API request timeout
func (c *HolidayAPIConfig) GetTimeout() time.Duration {
	if c.Timeout == "" {
		return 10 * time.Second
	}
	duration, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 10 * time.Second
	}
	return duration
}

// GetCacheTTL returns how long cached school holidays stay fresh
func (c *HolidayAPIConfig) GetCacheTTL() time.Duration {
	if c.CacheTTL == "" {
		return 30 * 24 * time.Hour
	}
	duration, err := time.ParseDuration(c.CacheTTL)
	if err != nil {
		return 30 * 24 * time.Hour
	}
	return duration
}

// GetSaveDebounce returns the quiet period before plan changes hit disk
func (c *StorageConfig) GetSaveDebounce() time.Duration {
	if c.SaveDebounce == "" {
		return 800 * time.Millisecond
	}
	duration, err := time.ParseDuration(c.SaveDebounce)
	if err != nil {
		return 800 * time.Millisecond
	}
	return duration
}
