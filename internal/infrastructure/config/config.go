package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Snapshot backends selectable with SNAPSHOT_BACKEND.
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
	BackendMemory = "memory"
)

type Config struct {
	APIURL         string        `env:"FARM_API_URL,         default=http://localhost:5000/api"`
	RequestTimeout time.Duration `env:"FARM_REQUEST_TIMEOUT, default=15s"`
	LogLevel       string        `env:"LOG_LEVEL,            default=info"`
	LogPretty      bool          `env:"LOG_PRETTY,           default=false"`
	DebugAddr      string        `env:"DEBUG_ADDR,           default=127.0.0.1:9090"`

	Snapshot SnapshotConfig
	Mongo    MongoConfig
	Redis    RedisConfig
}

type SnapshotConfig struct {
	Backend string `env:"SNAPSHOT_BACKEND, default=file"`
	// Path is the directory of the file backend. Empty means the user config dir.
	Path string `env:"SNAPSHOT_PATH"`
	// Key optionally seals snapshots; base64 of 32 bytes.
	Key string `env:"SNAPSHOT_KEY"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=smart_farming"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from the process environment.
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom reads configuration from l, e.g. envconfig.MapLookuper in tests.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Snapshot.Backend {
	case BackendFile, BackendRedis, BackendMongo, BackendMemory:
	default:
		return fmt.Errorf("load config: unknown SNAPSHOT_BACKEND %q", c.Snapshot.Backend)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("load config: FARM_REQUEST_TIMEOUT must be positive")
	}
	return nil
}

// SnapshotDir resolves the file backend directory.
func (c *Config) SnapshotDir() string {
	if c.Snapshot.Path != "" {
		return c.Snapshot.Path
	}
	base, err := os.UserConfigDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, "farmctl")
}
