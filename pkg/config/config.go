package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. SUPPLYDESK_SERVER_ADDR
const EnvPrefix = "SUPPLYDESK"

// Config holds the service configuration
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Forecast ForecastConfig `mapstructure:"forecast"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Events   EventsConfig   `mapstructure:"events"`
}

type AppConfig struct {
	Name      string `mapstructure:"name"`
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

type ServerConfig struct {
	Addr         string        `mapstructure:"addr"`
	RateLimit    float64       `mapstructure:"rate_limit"`
	Burst        int           `mapstructure:"burst"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type ForecastConfig struct {
	Horizon int `mapstructure:"horizon"`
}

type CacheConfig struct {
	Backend    string        `mapstructure:"backend"`
	MaxEntries int           `mapstructure:"max_entries"`
	TTL        time.Duration `mapstructure:"ttl"`
	Redis      RedisConfig   `mapstructure:"redis"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type EventsConfig struct {
	Backend    string `mapstructure:"backend"`
	SQLitePath string `mapstructure:"sqlite_path"`
}

// Cache backends
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

// Event store backends
const (
	EventsMemory = "memory"
	EventsSQLite = "sqlite"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "supplydesk")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.log_format", "console")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.rate_limit", 50.0)
	v.SetDefault("server.burst", 100)
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)

	v.SetDefault("forecast.horizon", 40)

	v.SetDefault("cache.backend", CacheMemory)
	v.SetDefault("cache.max_entries", 1024)
	v.SetDefault("cache.ttl", 10*time.Minute)
	v.SetDefault("cache.redis.addr", "localhost:6379")
	v.SetDefault("cache.redis.password", "")
	v.SetDefault("cache.redis.db", 0)

	v.SetDefault("events.backend", EventsMemory)
	v.SetDefault("events.sqlite_path", "data/supplydesk-events.db")
}

// Load reads configuration from defaults, an optional YAML file and SUPPLYDESK_*
// environment variables, in increasing order of precedence. Variables found in
// the given .env files are exported first; missing .env files are ignored.
func Load(configPath string, envFiles ...string) (*Config, error) {
	if err := loadEnvFiles(envFiles...); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config failed: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config failed: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the built-in configuration
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	// Defaults always decode.
	_ = v.Unmarshal(&cfg)
	return &cfg
}

func loadEnvFiles(files ...string) error {
	for _, file := range files {
		if err := godotenv.Load(file); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load env file %s: %w", file, err)
		}
	}
	return nil
}

// Validate checks configuration completeness
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server addr is required")
	}
	if c.Server.RateLimit <= 0 {
		return fmt.Errorf("server rate_limit must be positive, got %v", c.Server.RateLimit)
	}
	if c.Server.Burst < 1 {
		return fmt.Errorf("server burst must be positive, got %d", c.Server.Burst)
	}
	if c.Forecast.Horizon < 1 {
		return fmt.Errorf("forecast horizon must be positive, got %d", c.Forecast.Horizon)
	}

	switch c.Cache.Backend {
	case CacheMemory:
		if c.Cache.MaxEntries < 1 {
			return fmt.Errorf("cache max_entries must be positive, got %d", c.Cache.MaxEntries)
		}
	case CacheRedis:
		if c.Cache.Redis.Addr == "" {
			return fmt.Errorf("cache redis addr is required")
		}
	case CacheNone:
	default:
		return fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache ttl cannot be negative, got %v", c.Cache.TTL)
	}

	switch c.Events.Backend {
	case EventsMemory:
	case EventsSQLite:
		if c.Events.SQLitePath == "" {
			return fmt.Errorf("events sqlite_path is required")
		}
	default:
		return fmt.Errorf("unknown events backend %q", c.Events.Backend)
	}
	return nil
}
