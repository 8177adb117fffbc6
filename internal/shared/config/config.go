package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Store drivers accepted by store.driver.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Store    StoreConfig    `mapstructure:"store"`
	DB       DBConfig       `mapstructure:"db"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Notifier NotifierConfig `mapstructure:"notifier"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type StoreConfig struct {
	Driver string `mapstructure:"driver"`
	// SeedDemoAuction creates one open auction at startup when the memory driver is used.
	SeedDemoAuction bool `mapstructure:"seed_demo_auction"`
}

type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxConns int32  `mapstructure:"max_conns"`
}

type RedisConfig struct {
	Addr          string `mapstructure:"addr"`
	Password      string `mapstructure:"password"`
	DB            int    `mapstructure:"db"`
	KeyPrefix     string `mapstructure:"key_prefix"`
	OutbidChannel string `mapstructure:"outbid_channel"`
}

type NotifierConfig struct {
	QueueSize int           `mapstructure:"queue_size"`
	Workers   int           `mapstructure:"workers"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// flagKeys maps command line flags to config keys
var flagKeys = map[string]string{
	"addr":              "server.addr",
	"store":             "store.driver",
	"seed-demo-auction": "store.seed_demo_auction",
	"redis-addr":        "redis.addr",
	"log-level":         "log.level",
}

// Flags declares the command line overrides accepted by Load.
func Flags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("bidcoordinator", pflag.ContinueOnError)
	fs.String("addr", ":9000", "HTTP listen address")
	fs.String("store", DriverMemory, "store driver: memory, postgres or redis")
	fs.Bool("seed-demo-auction", true, "open a demo auction at startup")
	fs.String("redis-addr", "", "redis address, enables the outbid pub/sub channel")
	fs.String("log-level", "info", "debug, info, warn or error")
	return fs
}

// Load reads .env (if present), then defaults, environment variables and flags that were set.
// flags may be nil.
func Load(flags *pflag.FlagSet) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()

	v.SetDefault("server.addr", ":9000")
	v.SetDefault("server.shutdown_timeout", 5*time.Second)
	v.SetDefault("store.driver", DriverMemory)
	v.SetDefault("store.seed_demo_auction", true)
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", "5432")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.name", "auctions")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_conns", 10)
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key_prefix", "bidcoord:")
	v.SetDefault("redis.outbid_channel", "auction_outbid")
	v.SetDefault("notifier.queue_size", 1024)
	v.SetDefault("notifier.workers", 4)
	v.SetDefault("notifier.timeout", 3*time.Second)
	v.SetDefault("log.level", "info")

	bindings := map[string]string{
		"server.addr":             "SERVER_ADDR",
		"server.shutdown_timeout": "SERVER_SHUTDOWN_TIMEOUT",
		"store.driver":            "STORE_DRIVER",
		"store.seed_demo_auction": "STORE_SEED_DEMO_AUCTION",
		"db.host":                 "DB_HOST",
		"db.port":                 "DB_PORT",
		"db.user":                 "DB_USER",
		"db.password":             "DB_PASSWORD",
		"db.name":                 "DB_NAME",
		"db.sslmode":              "DB_SSLMODE",
		"db.max_conns":            "DB_MAX_CONNS",
		"redis.addr":              "REDIS_ADDR",
		"redis.password":          "REDIS_PASSWORD",
		"redis.db":                "REDIS_DB",
		"redis.key_prefix":        "REDIS_KEY_PREFIX",
		"redis.outbid_channel":    "REDIS_OUTBID_CHANNEL",
		"notifier.queue_size":     "NOTIFIER_QUEUE_SIZE",
		"notifier.workers":        "NOTIFIER_WORKERS",
		"notifier.timeout":        "NOTIFIER_TIMEOUT",
		"log.level":               "LOG_LEVEL",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("config: bind %s: %w", env, err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil || !f.Changed {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("config: bind flag %s: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values viper cannot check on its own.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverMemory, DriverPostgres:
	case DriverRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("config: store driver %q requires REDIS_ADDR", c.Store.Driver)
		}
	default:
		return fmt.Errorf("config: unknown store driver %q", c.Store.Driver)
	}
	if c.Notifier.Workers < 1 {
		return fmt.Errorf("config: notifier workers must be positive, got %d", c.Notifier.Workers)
	}
	if c.Notifier.QueueSize < 1 {
		return fmt.Errorf("config: notifier queue size must be positive, got %d", c.Notifier.QueueSize)
	}
	return nil
}

// PostgresDSN builds the connection url used by pgx and golang-migrate.
func (c DBConfig) PostgresDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode,
	)
}
