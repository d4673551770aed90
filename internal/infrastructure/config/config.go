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

	// DataDir holds the local fallback store and file-backed key-value data.
	DataDir string `env:"DATA_DIR, default=./data"`

	AdminUsername string `env:"ADMIN_USERNAME, default=admin"`
	AdminPassword string `env:"ADMIN_PASSWORD, default=admin123"`

	RefreshInterval time.Duration `env:"REFRESH_INTERVAL, default=15s"`
	PageSize        int           `env:"PAGE_SIZE,        default=6"`
	QRSize          int           `env:"QR_SIZE,          default=200"`

	Mongo MongoConfig
	Redis RedisConfig
}

// MongoConfig selects the remote backend. An empty URI means the portal runs
// entirely on the local fallback store.
type MongoConfig struct {
	URI      string `env:"MONGO_URI"`
	Database string `env:"MONGO_DB, default=campus_events"`
}

// RedisConfig selects the shared key-value backend. An empty Addr falls back
// to the file-backed store under DataDir.
type RedisConfig struct {
	Addr string `env:"REDIS_ADDR"`
	DB   int    `env:"REDIS_DB, default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
