package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server  ServerConfig
	USDA    USDAConfig
	Cache   CacheConfig
	Data    DataConfig
	Targets TargetsConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// USDAConfig holds USDA FoodData Central API configuration
type USDAConfig struct {
	APIKey         string `mapstructure:"api_key"`
	BaseURL        string `mapstructure:"base_url"`
	SearchPageSize int    `mapstructure:"search_page_size"`
	Debug          bool   `mapstructure:"debug"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// DataConfig locates the local data files and the history database.
type DataConfig struct {
	UnitRegistryPath string `mapstructure:"unit_registry_path"`
	PortionRefPath   string `mapstructure:"portion_ref_path"`
	HistoryDBPath    string `mapstructure:"history_db_path"`
}

// TargetsConfig holds the daily nutrient targets progress is measured
// against. Zero disables tracking for that nutrient.
type TargetsConfig struct {
	SodiumMg    float64 `mapstructure:"sodium_mg"`
	PotassiumMg float64 `mapstructure:"potassium_mg"`
	ProteinG    float64 `mapstructure:"protein_g"`
	Calories    float64 `mapstructure:"calories"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/renaltrack/")

	v.SetEnvPrefix("RENALTRACK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional; env vars and defaults suffice.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	// Empty default keeps the key visible to Unmarshal when the value
	// arrives only via environment variable.
	v.SetDefault("usda.api_key", "")
	v.SetDefault("usda.base_url", "https://api.nal.usda.gov/fdc")
	v.SetDefault("usda.search_page_size", 25)
	v.SetDefault("usda.debug", false)

	v.SetDefault("cache.ttl", "720h") // 30 days

	v.SetDefault("data.unit_registry_path", "./data/unit_registry.json")
	v.SetDefault("data.portion_ref_path", "./data/portion_reference.csv")
	v.SetDefault("data.history_db_path", "./data/history.db")

	// Renal-diet defaults; overridable per deployment.
	v.SetDefault("targets.sodium_mg", 2000)
	v.SetDefault("targets.potassium_mg", 2500)
	v.SetDefault("targets.protein_g", 60)
	v.SetDefault("targets.calories", 2200)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.USDA.APIKey == "" {
		return fmt.Errorf("USDA API key is required (set RENALTRACK_USDA_API_KEY)")
	}
	if config.USDA.SearchPageSize <= 0 {
		return fmt.Errorf("search page size must be positive, got: %d", config.USDA.SearchPageSize)
	}
	if config.Cache.TTL < 0 {
		return fmt.Errorf("cache TTL must not be negative, got: %s", config.Cache.TTL)
	}
	return nil
}
