package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. BUYONE_SERVER_PORT.
const EnvPrefix = "BUYONE"

// keys without defaults still need explicit env bindings for Unmarshal to see them.
var boundKeys = []string{
	"database.url",
	"auth.jwt_secret",
	"nats.url",
	"redis.addr",
	"redis.password",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("auth.token_lifetime_minutes", 60)
	v.SetDefault("auth.bcrypt_cost", 10)

	v.SetDefault("gateway.product_service_url", "http://localhost:8081")
	v.SetDefault("gateway.user_service_url", "http://localhost:8082")
	v.SetDefault("gateway.media_service_url", "http://localhost:8083")
	v.SetDefault("gateway.rate_limit", 100)
	v.SetDefault("gateway.rate_limit_window", time.Minute)

	v.SetDefault("product.event_stream", "PRODUCTS")
	v.SetDefault("product.deleted_subject", "product.deleted")
	v.SetDefault("product.event_queue_size", 256)
	v.SetDefault("product.event_workers", 2)

	v.SetDefault("media.public_base_url", "http://localhost:8080/media/files")
	v.SetDefault("media.bucket", "media")
	v.SetDefault("media.max_file_size", 2*1024*1024)
	v.SetDefault("media.max_product_images", 5)

	v.SetDefault("redis.db", 0)
}

// Load reads configuration from a .env file (if present), an optional
// config.yaml in the working directory, and BUYONE_ environment variables.
// Environment variables take precedence over file values.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env file: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range boundKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}
