package repository

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/SergeiKhy/shorturl-service/internal/config"
	"github.com/redis/go-redis/v9"
)

const (
	redisConnectTimeout = 5 * time.Second
	// Таймаут чтения и записи кэша
	redisOpTimeout      = 500 * time.Millisecond
)

// RedisDB holds the client backing the link cache.
type RedisDB struct {
	Client *redis.Client
}

func NewRedisClient(cfg config.RedisConfig) (*RedisDB, error) {
	opts := &redis.Options{
		Addr:         net.JoinHostPort(cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  redisConnectTimeout,
		ReadTimeout:  redisOpTimeout,
		WriteTimeout: redisOpTimeout,
	}
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
		opts.MinIdleConns = cfg.PoolSize / 10
	}

	db := &RedisDB{Client: redis.NewClient(opts)}

	ctx, cancel := context.WithTimeout(context.Background(), redisConnectTimeout)
	defer cancel()

	if err := db.Ping(ctx); err != nil {
		db.Client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s (db %d): %w", opts.Addr, cfg.DB, err)
	}

	return db, nil
}

func (db *RedisDB) Ping(ctx context.Context) error {
	return db.Client.Ping(ctx).Err()
}

func (db *RedisDB) Close() error {
	return db.Client.Close()
}
