// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App          AppConfig         `mapstructure:"app"`
	Server       ServerConfig      `mapstructure:"server"`
	Gateway      GatewayConfig     `mapstructure:"gateway"`
	Services     ServicesConfig    `mapstructure:"services"`
	Auth         AuthConfig        `mapstructure:"auth"`
	Database     DatabaseConfig    `mapstructure:"database"`
	Integrations IntegrationConfig `mapstructure:"integrations"`
	Logging      LoggingConfig     `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// ServerConfig holds the inbound HTTP listener settings.
type ServerConfig struct {
	Port           int    `mapstructure:"port"`
	ReadTimeout    int    `mapstructure:"read_timeout"`  // milliseconds
	WriteTimeout   int    `mapstructure:"write_timeout"` // milliseconds
	AllowedOrigins string `mapstructure:"allowed_origins"`
}

// GatewayConfig holds the composition coordinator settings.
type GatewayConfig struct {
	OverallDeadline int  `mapstructure:"overall_deadline"` // milliseconds, bounds one composed request
	CacheEnabled    bool `mapstructure:"cache_enabled"`
	CacheTTL        int  `mapstructure:"cache_ttl"` // seconds
}

// ServiceConfig holds the settings for one downstream service.
type ServiceConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Timeout int    `mapstructure:"timeout"` // milliseconds, per-call
}

// ServicesConfig enumerates every downstream the gateway calls.
type ServicesConfig struct {
	Pricing       ServiceConfig `mapstructure:"pricing"`
	Inventory     ServiceConfig `mapstructure:"inventory"`
	Promotions    ServiceConfig `mapstructure:"promotions"`
	Notifications ServiceConfig `mapstructure:"notifications"`
	Analytics     ServiceConfig `mapstructure:"analytics"`
}

// AuthConfig holds the API key settings for the protected routes.
type AuthConfig struct {
	APIKey   string `mapstructure:"api_key"` // static key, optional
	Keystore struct {
		Enabled  bool `mapstructure:"enabled"`
		CacheTTL int  `mapstructure:"cache_ttl"` // seconds, redis-side
	} `mapstructure:"keystore"`
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
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

type ElasticsearchConfig struct {
	Addresses  []string `mapstructure:"addresses"`
	Username   string   `mapstructure:"username"`
	Password   string   `mapstructure:"password"`
	SSLEnabled bool     `mapstructure:"ssl_enabled"`
	URL        string   `mapstructure:"url"` // Single URL for backwards compatibility
}

// GetURL returns the first address or the URL field
func (e ElasticsearchConfig) GetURL() string {
	if e.URL != "" {
		return e.URL
	}
	if len(e.Addresses) > 0 {
		return e.Addresses[0]
	}
	return ""
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// IntegrationConfig holds settings for direct delivery providers.
type IntegrationConfig struct {
	AWS struct {
		Region string `mapstructure:"region"`
		SES    struct {
			Enabled   bool   `mapstructure:"enabled"`
			FromEmail string `mapstructure:"from_email"`
		} `mapstructure:"ses"`
		SNS struct {
			Enabled            bool   `mapstructure:"enabled"`
			TopicARN           string `mapstructure:"topic_arn"`
			DefaultSMSSenderID string `mapstructure:"default_sms_sender_id"`
		} `mapstructure:"sns"`
	} `mapstructure:"aws"`

	// NotificationProvider selects how /proxy/notifications/send delivers:
	// "service" proxies to the notifications service, "ses"/"sns" deliver directly.
	NotificationProvider string `mapstructure:"notification_provider"`

	// AnalyticsMode selects how /proxy/analytics/sales-summary is served:
	// "service" proxies to the analytics service, "direct" aggregates from Elasticsearch.
	AnalyticsMode string `mapstructure:"analytics_mode"`
	OrdersIndex   string `mapstructure:"orders_index"`

	// JaegerEndpoint enables trace export when set, e.g. http://localhost:14268/api/traces.
	JaegerEndpoint string `mapstructure:"jaeger_endpoint"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
