// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	loadEnvFile()

	// Base config
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../../configs")
	viper.AddConfigPath(".")

	// Enable ENV override like PRICING_SERVICE_URL
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	// Environment-specific overlay, ignored if not found
	envConfigFile := fmt.Sprintf("config.%s", env)
	viper.SetConfigName(envConfigFile)
	_ = viper.MergeInConfig()

	expandEnvVars(viper.GetViper())

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if cfg.Database.Elasticsearch.URL == "" && len(cfg.Database.Elasticsearch.Addresses) > 0 {
		cfg.Database.Elasticsearch.URL = cfg.Database.Elasticsearch.Addresses[0]
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadEnvFile tries .env from the usual run locations before falling back
// to the system environment.
func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// Find project root by looking for go.mod
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// expandEnvVars resolves ${VAR} placeholders left in yaml values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		val := v.Get(key)

		if strVal, ok := val.(string); ok {
			if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
				expanded := os.ExpandEnv(strVal)
				if expanded != strVal && expanded != "" {
					v.Set(key, expanded)
				}
			}
		}
	}
}

// overrideEmptyConfig applies the flat env variable names the deploy
// environment exposes when the yaml left a value empty.
func overrideEmptyConfig(cfg *Config) {
	if cfg.Services.Pricing.BaseURL == "" {
		if val := os.Getenv("PRICE_SERVICE_URL"); val != "" {
			cfg.Services.Pricing.BaseURL = val
		}
	}
	if cfg.Services.Inventory.BaseURL == "" {
		if val := os.Getenv("INVENTORY_SERVICE_URL"); val != "" {
			cfg.Services.Inventory.BaseURL = val
		}
	}
	if cfg.Services.Promotions.BaseURL == "" {
		if val := os.Getenv("PROMOTIONS_SERVICE_URL"); val != "" {
			cfg.Services.Promotions.BaseURL = val
		}
	}
	if cfg.Services.Notifications.BaseURL == "" {
		if val := os.Getenv("NOTIFICATION_SERVICE_URL"); val != "" {
			cfg.Services.Notifications.BaseURL = val
		}
	}
	if cfg.Services.Analytics.BaseURL == "" {
		if val := os.Getenv("ANALYTICS_SERVICE_URL"); val != "" {
			cfg.Services.Analytics.BaseURL = val
		}
	}

	if cfg.Auth.APIKey == "" {
		if val := os.Getenv("API_GATEWAY_API_KEY"); val != "" {
			cfg.Auth.APIKey = val
		}
	}
	if cfg.Server.AllowedOrigins == "" {
		if val := os.Getenv("ALLOWED_ORIGINS"); val != "" {
			cfg.Server.AllowedOrigins = val
		}
	}

	// Database overrides
	if cfg.Database.Postgres.User == "" {
		if val := os.Getenv("DB_USER"); val != "" {
			cfg.Database.Postgres.User = val
		}
	}
	if cfg.Database.Postgres.Password == "" {
		if val := os.Getenv("DB_PASSWORD"); val != "" {
			cfg.Database.Postgres.Password = val
		}
	}
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	viper.SetConfigFile(path)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	expandEnvVars(viper.GetViper())

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "api-gateway"
	}

	// Server defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 10000
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 30000
	}
	if cfg.Server.AllowedOrigins == "" {
		cfg.Server.AllowedOrigins = "*"
	}

	// Gateway defaults: overall deadline matches the historical 20s client timeout.
	if cfg.Gateway.OverallDeadline == 0 {
		cfg.Gateway.OverallDeadline = 20000
	}
	if cfg.Gateway.CacheTTL == 0 {
		cfg.Gateway.CacheTTL = 30
	}

	// Downstream defaults
	applyServiceDefaults(&cfg.Services.Pricing, "http://localhost:8001")
	applyServiceDefaults(&cfg.Services.Inventory, "http://localhost:8004")
	applyServiceDefaults(&cfg.Services.Promotions, "http://localhost:8005")
	applyServiceDefaults(&cfg.Services.Notifications, "http://localhost:8002")
	applyServiceDefaults(&cfg.Services.Analytics, "http://localhost:8003")

	if cfg.Auth.Keystore.CacheTTL == 0 {
		cfg.Auth.Keystore.CacheTTL = 300
	}

	// Database defaults
	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 25
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 5
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}

	// Elasticsearch URL fallback
	if cfg.Database.Elasticsearch.URL == "" && len(cfg.Database.Elasticsearch.Addresses) > 0 {
		cfg.Database.Elasticsearch.URL = cfg.Database.Elasticsearch.Addresses[0]
	}

	// Integration defaults
	if cfg.Integrations.NotificationProvider == "" {
		cfg.Integrations.NotificationProvider = "service"
	}
	if cfg.Integrations.AnalyticsMode == "" {
		cfg.Integrations.AnalyticsMode = "service"
	}
	if cfg.Integrations.OrdersIndex == "" {
		cfg.Integrations.OrdersIndex = "orders"
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}
}

func applyServiceDefaults(svc *ServiceConfig, baseURL string) {
	if svc.BaseURL == "" {
		svc.BaseURL = baseURL
	}
	if svc.Timeout == 0 {
		svc.Timeout = 5000
	}
}

// validateConfig validates critical configuration fields
func validateConfig(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in (0, 65535]")
	}

	if cfg.Services.Pricing.BaseURL == "" {
		return fmt.Errorf("services.pricing.base_url is required")
	}
	if cfg.Services.Inventory.BaseURL == "" {
		return fmt.Errorf("services.inventory.base_url is required")
	}

	if cfg.Gateway.OverallDeadline <= 0 {
		return fmt.Errorf("gateway.overall_deadline must be positive")
	}

	if cfg.Gateway.CacheEnabled && cfg.Database.Redis.Address == "" {
		return fmt.Errorf("database.redis.address is required when gateway.cache_enabled is set")
	}
	if cfg.Auth.Keystore.Enabled {
		if cfg.Database.Postgres.Host == "" {
			return fmt.Errorf("database.postgres.host is required when auth.keystore.enabled is set")
		}
		if cfg.Database.Postgres.Database == "" {
			return fmt.Errorf("database.postgres.database is required when auth.keystore.enabled is set")
		}
		if cfg.Database.Postgres.User == "" {
			return fmt.Errorf("database.postgres.user is required when auth.keystore.enabled is set")
		}
	}
	if cfg.Integrations.AnalyticsMode == "direct" &&
		len(cfg.Database.Elasticsearch.Addresses) == 0 && cfg.Database.Elasticsearch.URL == "" {
		return fmt.Errorf("database.elasticsearch.addresses or url is required in direct analytics mode")
	}

	switch cfg.Integrations.NotificationProvider {
	case "service", "ses", "sns":
	default:
		return fmt.Errorf("integrations.notification_provider must be service, ses or sns")
	}
	switch cfg.Integrations.AnalyticsMode {
	case "service", "direct":
	default:
		return fmt.Errorf("integrations.analytics_mode must be service or direct")
	}

	return nil
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
