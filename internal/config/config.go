package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/mcoot/sosgame/internal/api"
	redisstorage "github.com/mcoot/sosgame/internal/storage/redis"
	"github.com/mcoot/sosgame/internal/transport/ws"
)

// Storage backends
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// Config is the server configuration. Values come from an optional YAML file
// and are overridden by SOS_* environment variables.
type Config struct {
	LogLevel string  `yaml:"log-level" env:"SOS_LOG_LEVEL" env-default:"info"`
	HTTP     HTTP    `yaml:"http"`
	Storage  Storage `yaml:"storage"`
	Redis    Redis   `yaml:"redis"`
	WS       WS      `yaml:"ws"`
}

type HTTP struct {
	Host            string        `yaml:"host" env:"SOS_HTTP_HOST" env-default:""`
	Port            int           `yaml:"port" env:"SOS_HTTP_PORT" env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read-timeout" env:"SOS_HTTP_READ_TIMEOUT" env-default:"15s"`
	WriteTimeout    time.Duration `yaml:"write-timeout" env:"SOS_HTTP_WRITE_TIMEOUT" env-default:"15s"`
	ShutdownTimeout time.Duration `yaml:"shutdown-timeout" env:"SOS_HTTP_SHUTDOWN_TIMEOUT" env-default:"30s"`
}

type Storage struct {
	Type string `yaml:"type" env:"SOS_STORAGE_TYPE" env-default:"memory"`
}

type Redis struct {
	URL          string        `yaml:"url" env:"SOS_REDIS_URL"`
	PoolSize     int           `yaml:"pool-size" env:"SOS_REDIS_POOL_SIZE" env-default:"10"`
	MinIdleConns int           `yaml:"min-idle-conns" env:"SOS_REDIS_MIN_IDLE_CONNS" env-default:"2"`
	MatchTTL     time.Duration `yaml:"match-ttl" env:"SOS_REDIS_MATCH_TTL" env-default:"0s"`
}

type WS struct {
	SendBuffer     int           `yaml:"send-buffer" env:"SOS_WS_SEND_BUFFER" env-default:"256"`
	PongWait       time.Duration `yaml:"pong-wait" env:"SOS_WS_PONG_WAIT" env-default:"60s"`
	WriteWait      time.Duration `yaml:"write-wait" env:"SOS_WS_WRITE_WAIT" env-default:"10s"`
	MaxMessageSize int64         `yaml:"max-message-size" env:"SOS_WS_MAX_MESSAGE_SIZE" env-default:"4096"`
	AllowedOrigins []string      `yaml:"allowed-origins" env:"SOS_WS_ALLOWED_ORIGINS" env-separator:","`
}

// Load reads configuration from path, or from the environment alone when
// path is empty
func Load(path string) (*Config, error) {
	cfg := &Config{}

	var err error
	if path != "" {
		err = cleanenv.ReadConfig(path, cfg)
	} else {
		err = cleanenv.ReadEnv(cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that cleanenv cannot
func (c *Config) Validate() error {
	var errs []error

	switch c.Storage.Type {
	case StorageTypeMemory:
	case StorageTypeRedis:
		if c.Redis.URL == "" {
			errs = append(errs, errors.New("redis.url is required when storage.type is redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage.type %q: must be memory or redis", c.Storage.Type))
	}

	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		errs = append(errs, fmt.Errorf("http.port %d out of range", c.HTTP.Port))
	}
	if c.WS.SendBuffer <= 0 {
		errs = append(errs, errors.New("ws.send-buffer must be positive"))
	}
	if c.WS.PongWait <= 0 || c.WS.WriteWait <= 0 {
		errs = append(errs, errors.New("ws.pong-wait and ws.write-wait must be positive"))
	}

	return errors.Join(errs...)
}

// SlogLevel parses LogLevel
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log-level %q", c.LogLevel)
	}
	return level, nil
}

// ServerConfig converts the HTTP section
func (c *Config) ServerConfig() api.ServerConfig {
	return api.ServerConfig{
		Host:            c.HTTP.Host,
		Port:            c.HTTP.Port,
		ReadTimeout:     c.HTTP.ReadTimeout,
		WriteTimeout:    c.HTTP.WriteTimeout,
		ShutdownTimeout: c.HTTP.ShutdownTimeout,
	}
}

// RedisConfig converts the redis section
func (c *Config) RedisConfig() redisstorage.Config {
	return redisstorage.Config{
		URL:          c.Redis.URL,
		PoolSize:     c.Redis.PoolSize,
		MinIdleConns: c.Redis.MinIdleConns,
		MatchTTL:     c.Redis.MatchTTL,
	}
}

// WSConfig converts the ws section
func (c *Config) WSConfig() ws.Config {
	return ws.Config{
		SendBuffer:     c.WS.SendBuffer,
		PongWait:       c.WS.PongWait,
		WriteWait:      c.WS.WriteWait,
		AllowedOrigins: c.WS.AllowedOrigins,
		MaxMessageSize: c.WS.MaxMessageSize,
	}
}
