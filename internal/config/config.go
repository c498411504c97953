package config

import (
	"fmt"
	"strings"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	StorageMySQL  = "mysql"
	StorageMemory = "memory"

	StrategyHardLock = "hard_lock"
	StrategyStamina  = "stamina"
)

type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Redis        RedisConfig        `mapstructure:"redis"`
	Catalog      CatalogConfig      `mapstructure:"catalog"`
	Monetization MonetizationConfig `mapstructure:"monetization"`
	Scheduler    SchedulerConfig    `mapstructure:"scheduler"`
	Storage      StorageConfig      `mapstructure:"storage"`
}

type ServerConfig struct {
	Port int        `mapstructure:"port" validate:"min=1,max=65535"`
	CORS CORSConfig `mapstructure:"cors"`
	// UserHeader carries the authenticated user id set by the upstream proxy.
	UserHeader    string `mapstructure:"user_header" validate:"required"`
	SessionCookie string `mapstructure:"session_cookie" validate:"required"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type DatabaseConfig struct {
	Host            string            `mapstructure:"host"`
	Port            int               `mapstructure:"port"`
	Database        string            `mapstructure:"database"`
	Username        string            `mapstructure:"username"`
	Password        string            `mapstructure:"password"`
	TLS             bool              `mapstructure:"tls"`
	Params          map[string]string `mapstructure:"params"`
	MaxOpenConns    int               `mapstructure:"max_open_conns"`
	MaxIdleConns    int               `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int               `mapstructure:"conn_max_lifetime_seconds"`
	ConnectAttempts uint              `mapstructure:"connect_attempts" validate:"min=1"`
}

type RedisConfig struct {
	// Addr enables the Redis session store. The in-memory store is used when it is empty.
	Addr       string        `mapstructure:"addr" validate:"omitempty,hostname_port"`
	Password   string        `mapstructure:"password"`
	DB         int           `mapstructure:"db" validate:"min=0"`
	SessionTTL time.Duration `mapstructure:"session_ttl"`
}

type CatalogConfig struct {
	File           string        `mapstructure:"file" validate:"omitempty,catalog_file"`
	ReloadInterval time.Duration `mapstructure:"reload_interval" validate:"reload_interval"`
}

type MonetizationConfig struct {
	Strategy      string `mapstructure:"strategy" validate:"oneof=hard_lock stamina"`
	FreeItemLimit int    `mapstructure:"free_item_limit" validate:"min=0"`
	DailyMoves    int    `mapstructure:"daily_moves" validate:"min=1"`
}

type SchedulerConfig struct {
	// RandomSeed makes selection reproducible. Zero seeds from the clock.
	RandomSeed uint64 `mapstructure:"random_seed"`
}

type StorageConfig struct {
	Driver string `mapstructure:"driver" validate:"oneof=mysql memory"`
}

type ConfigLoader struct {
	viper      *viper.Viper
	validator  *validator.Validate
	translator ut.Translator
}

func NewConfigLoader(configFile string) (*ConfigLoader, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/openings")
	}

	return &ConfigLoader{
		viper:      v,
		validator:  validate,
		translator: trans,
	}, nil
}

func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.user_header", "X-User-ID")
	v.SetDefault("server.session_cookie", "openings_session")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.database", "openings")
	v.SetDefault("database.username", "user")
	v.SetDefault("database.connect_attempts", 5)
	v.SetDefault("redis.session_ttl", "24h")
	v.SetDefault("catalog.reload_interval", "0s")
	v.SetDefault("monetization.strategy", StrategyHardLock)
	v.SetDefault("monetization.free_item_limit", 5)
	v.SetDefault("monetization.daily_moves", 20)
	v.SetDefault("storage.driver", StorageMySQL)

	if err := v.BindEnv("database.password", "DB_PASSWORD"); err != nil {
		return nil, fmt.Errorf("failed to bind DB_PASSWORD environment variable: %w", err)
	}
	if err := v.BindEnv("redis.password", "REDIS_PASSWORD"); err != nil {
		return nil, fmt.Errorf("failed to bind REDIS_PASSWORD environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := loader.validator.Struct(cfg); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMsgs []string
		for _, e := range validationErrors {
			errorMsgs = append(errorMsgs, e.Translate(loader.translator))
		}
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errorMsgs, ", "))
	}

	return &cfg, nil
}

// Load reads the configuration from configFile, or from the default search paths when it is empty.
func Load(configFile string) (*Config, error) {
	loader, err := NewConfigLoader(configFile)
	if err != nil {
		return nil, err
	}
	return loader.Load()
}
