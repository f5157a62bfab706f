package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Store drivers accepted by STORE_DRIVER.
const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
	DriverMongo  = "mongo"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`
	JWTSecret string `env:"JWT_SECRET"`

	Session SessionConfig
	Audit   AuditConfig
	Mongo   MongoConfig
	Redis   RedisConfig
}

type SessionConfig struct {
	StoreDriver       string        `env:"STORE_DRIVER,        default=memory"`
	StoreKeyTTL       time.Duration `env:"STORE_KEY_TTL,       default=720h"`
	TokenTTL          time.Duration `env:"TOKEN_TTL,           default=24h"`
	ClientIdleTimeout time.Duration `env:"CLIENT_IDLE_TIMEOUT, default=30m"`
	MaxClients        int           `env:"CLIENT_MAX,          default=10000"`
	LoginPath         string        `env:"LOGIN_PATH,          default=/login"`
	HomePath          string        `env:"HOME_PATH,           default=/"`
	BcryptCost        int           `env:"BCRYPT_COST,         default=10"`
}

type AuditConfig struct {
	Enabled bool `env:"AUDIT_ENABLED, default=false"`
	Workers int  `env:"AUDIT_WORKERS, default=4"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=procurecontract"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// IsDevelopment reports whether the service runs with development defaults.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// NeedsMongo reports whether any component is backed by MongoDB.
func (c *Config) NeedsMongo() bool {
	return c.Session.StoreDriver == DriverMongo || c.Audit.Enabled
}

// Validate checks cross-field constraints envconfig cannot express.
func (c *Config) Validate() error {
	switch c.Session.StoreDriver {
	case DriverMemory, DriverRedis, DriverMongo:
	default:
		return fmt.Errorf("config: unknown STORE_DRIVER %q", c.Session.StoreDriver)
	}
	if c.Session.TokenTTL <= 0 {
		return fmt.Errorf("config: TOKEN_TTL must be positive")
	}
	if c.Session.ClientIdleTimeout <= 0 {
		return fmt.Errorf("config: CLIENT_IDLE_TIMEOUT must be positive")
	}
	if c.Session.MaxClients <= 0 {
		return fmt.Errorf("config: CLIENT_MAX must be positive")
	}
	return nil
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := load(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(err.Error())
	}
	return cfg
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
