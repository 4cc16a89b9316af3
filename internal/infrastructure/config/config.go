package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`
	AssetDir  string `env:"ASSET_DIR, default=./data/assets"`

	Mongo   MongoConfig
	Redis   RedisConfig
	Booking BookingConfig
	Lockout LockoutConfig
	Notify  NotifyConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=misitiofacil"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// BookingConfig carries the business and catalog limits enforced by the
// service layer.
type BookingConfig struct {
	MaxBusinessesPerOwner  int `env:"MAX_BUSINESSES_PER_OWNER,  default=1"`
	MaxServicesPerBusiness int `env:"MAX_SERVICES_PER_BUSINESS, default=20"`
	MinDurationMinutes     int `env:"MIN_DURATION_MINUTES,      default=15"`
	MaxDurationMinutes     int `env:"MAX_DURATION_MINUTES,      default=480"`
	SlugMaxAttempts        int `env:"SLUG_MAX_ATTEMPTS,         default=5"`
}

// LockoutConfig tunes the Redis-backed login throttle.
type LockoutConfig struct {
	MaxAttempts int           `env:"LOCKOUT_MAX_ATTEMPTS, default=5"`
	Window      time.Duration `env:"LOCKOUT_WINDOW,       default=15m"`
	Duration    time.Duration `env:"LOCKOUT_DURATION,     default=15m"`
}

// NotifyConfig tunes the notification dispatcher.
type NotifyConfig struct {
	Workers int `env:"NOTIFY_WORKERS, default=4"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
