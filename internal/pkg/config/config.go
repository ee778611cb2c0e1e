package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Mongo    MongoConfig
	Redis    RedisConfig
	Geocoder GeocoderConfig
	Dispatch DispatchConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=dispatch_system"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type GeocoderConfig struct {
	BaseURL string        `env:"GEOCODER_URL,     default=https://geocode-maps.yandex.ru/1.x"`
	APIKey  string        `env:"GEOCODER_APIKEY"`
	Timeout time.Duration `env:"GEOCODER_TIMEOUT, default=5s"`
}

type DispatchConfig struct {
	// GeocodeConcurrency bounds simultaneous geocoding lookups per batch run,
	// to stay inside provider rate limits.
	GeocodeConcurrency int `env:"GEOCODE_CONCURRENCY, default=4"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
