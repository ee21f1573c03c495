package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	ServerAddress     string        `mapstructure:"server_address"`
	PostgresConn      string        `mapstructure:"postgres_conn"`
	DBConnectAttempts int           `mapstructure:"db_connect_attempts"`
	PageSize          int           `mapstructure:"page_size"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
	Log               LogConfig     `mapstructure:"log"`
	JWT               JWTConfig     `mapstructure:"jwt"`
	Redis             RedisConfig   `mapstructure:"redis"`
	Worker            WorkerConfig  `mapstructure:"worker"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type JWTConfig struct {
	Secret    string        `mapstructure:"secret"`
	ExpiresIn time.Duration `mapstructure:"expires_in"`
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

type WorkerConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server_address", "0.0.0.0:8080")
	v.SetDefault("postgres_conn", "")
	v.SetDefault("db_connect_attempts", 5)
	v.SetDefault("page_size", 8)
	v.SetDefault("shutdown_timeout", 10*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expires_in", 24*time.Hour)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.cache_ttl", 10*time.Minute)
	v.SetDefault("worker.concurrency", 10)
}

// NewConfig reads .env (if present), an optional config.toml and the
// environment. Environment variables win; nested keys use underscores, e.g.
// JWT_SECRET or REDIS_ADDR.
func NewConfig() (*Config, error) {
	_ = godotenv.Load()

	configName := "config"
	if name := os.Getenv("CONFIG_NAME"); name != "" {
		configName = name
	}

	v := viper.New()
	v.SetConfigName(configName)
	v.SetConfigType("toml")
	v.AddConfigPath("config")
	v.AddConfigPath(".")

	cfg, err := load(v)
	if err != nil {
		return nil, err
	}

	log.Info("config parsed")
	return cfg, nil
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.PostgresConn == "" {
		return errors.New("config: POSTGRES_CONN is required")
	}
	if c.JWT.Secret == "" {
		return errors.New("config: JWT_SECRET is required")
	}
	if c.PageSize < 1 {
		return fmt.Errorf("config: page_size must be positive, got %d", c.PageSize)
	}
	return nil
}
