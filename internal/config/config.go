package config

import "time"

// Config holds all application configuration.
// Each service process reads only the groups it needs.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	Gateway  GatewayConfig  `mapstructure:"gateway" validate:"required"`
	Product  ProductConfig  `mapstructure:"product" validate:"required"`
	Media    MediaConfig    `mapstructure:"media" validate:"required"`
	NATS     NATSConfig     `mapstructure:"nats"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel        string        `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// DatabaseConfig contains database settings. The gateway runs without one.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"omitempty,url"`
}

// AuthConfig contains token and password hashing settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0,lt=44641"`
	BCryptCost           int    `mapstructure:"bcrypt_cost" validate:"gte=4,lte=31"`
}

// GatewayConfig holds the upstream service addresses and rate limit policy.
type GatewayConfig struct {
	ProductServiceURL string        `mapstructure:"product_service_url" validate:"required,url"`
	UserServiceURL    string        `mapstructure:"user_service_url" validate:"required,url"`
	MediaServiceURL   string        `mapstructure:"media_service_url" validate:"required,url"`
	RateLimit         int           `mapstructure:"rate_limit" validate:"gte=0"`
	RateLimitWindow   time.Duration `mapstructure:"rate_limit_window" validate:"gt=0"`
}

// ProductConfig holds product service settings.
type ProductConfig struct {
	EventStream    string `mapstructure:"event_stream" validate:"required"`
	DeletedSubject string `mapstructure:"deleted_subject" validate:"required"`
	EventQueueSize int    `mapstructure:"event_queue_size" validate:"gt=0"`
	EventWorkers   int    `mapstructure:"event_workers" validate:"gt=0"`
}

// MediaConfig holds media service settings.
type MediaConfig struct {
	PublicBaseURL    string `mapstructure:"public_base_url" validate:"required,url"`
	Bucket           string `mapstructure:"bucket" validate:"required"`
	MaxFileSize      int64  `mapstructure:"max_file_size" validate:"gt=0"`
	MaxProductImages int    `mapstructure:"max_product_images" validate:"gt=0"`
}

// NATSConfig points at the NATS server used for events and object storage.
// An empty URL disables event publishing in the product service.
type NATSConfig struct {
	URL string `mapstructure:"url" validate:"omitempty,url"`
}

// RedisConfig configures the gateway rate limiter. An empty Addr disables it.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db" validate:"gte=0"`
}
