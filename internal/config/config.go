package config

import (
	"errors"
	"os"
	"time"

	"github.com/spf13/viper"
)

var ErrMissingJWTSecret = errors.New("JWT_SECRET is required")

type Config struct {
	App   AppConfig
	DB    DBConfig
	Redis RedisConfig
	Auth  AuthConfig
	Stats StatsConfig
}

type AppConfig struct {
	Port string
	Env  string
	// BaseURL overrides the scheme+host taken from the request when
	// composing short links, e.g. "https://sho.rt".
	BaseURL string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	MaxConns int32
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	// DB selects the logical Redis database used for the link cache.
	DB       int
	// PoolSize of 0 keeps the go-redis default.
	PoolSize int
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

type StatsConfig struct {
	// OwnerOnly restricts statistics to the user who created the link.
	OwnerOnly bool
}

// IsDevelopment reports whether the service runs with development logging.
func (c AppConfig) IsDevelopment() bool {
	return c.Env == "development"
}

func Load() (*Config, error) {
	return LoadFile(".env")
}

// LoadFile reads an optional env-style file and overlays environment variables.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	var cfg Config
	cfg.App.Port = v.GetString("APP_PORT")
	cfg.App.Env = v.GetString("APP_ENV")
	cfg.App.BaseURL = v.GetString("APP_BASE_URL")
	cfg.DB.Host = v.GetString("DB_HOST")
	cfg.DB.Port = v.GetString("DB_PORT")
	cfg.DB.User = v.GetString("DB_USER")
	cfg.DB.Password = v.GetString("DB_PASSWORD")
	cfg.DB.Name = v.GetString("DB_NAME")
	cfg.DB.MaxConns = v.GetInt32("DB_MAX_CONNS")
	cfg.Redis.Host = v.GetString("REDIS_HOST")
	cfg.Redis.Port = v.GetString("REDIS_PORT")
	cfg.Redis.Password = v.GetString("REDIS_PASSWORD")
	cfg.Redis.DB = v.GetInt("REDIS_DB")
	cfg.Redis.PoolSize = v.GetInt("REDIS_POOL_SIZE")

	cfg.Auth.JWTSecret = v.GetString("JWT_SECRET")
	if cfg.Auth.JWTSecret == "" {
		return nil, ErrMissingJWTSecret
	}
	cfg.Auth.TokenTTL = v.GetDuration("TOKEN_TTL")
	if cfg.Auth.TokenTTL <= 0 {
		cfg.Auth.TokenTTL = 24 * time.Hour
	}

	cfg.Stats.OwnerOnly = v.GetBool("STATS_OWNER_ONLY")

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_MAX_CONNS", 25)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_POOL_SIZE", 100)
	v.SetDefault("TOKEN_TTL", "24h")
	v.SetDefault("STATS_OWNER_ONLY", false)
}
