package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/ikkim/storefront-account/config"
	"github.com/ikkim/storefront-account/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// Session reads and writes sit on the request path.
const (
	dialTimeout     = 2 * time.Second
	ioTimeout       = 500 * time.Millisecond
	pingTimeout     = 5 * time.Second
	minIdleConns    = 2
	defaultPoolSize = 10
)

var client *redis.Client

// NewClient builds a session-store client from cfg and verifies it answers.
func NewClient(cfg *config.RedisConfig) (*redis.Client, error) {
	poolSize := cfg.PoolSize
	if poolSize <= 0 {
		poolSize = defaultPoolSize
	}

	c := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     poolSize,
		MinIdleConns: minIdleConns,
		DialTimeout:  dialTimeout,
		ReadTimeout:  ioTimeout,
		WriteTimeout: ioTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Addr(), err)
	}
	return c, nil
}

// Init connects the process-wide session store client.
func Init(cfg *config.RedisConfig) error {
	logger.Info("Connecting session store", map[string]interface{}{
		"addr":      cfg.Addr(),
		"db":        cfg.DB,
		"pool_size": cfg.PoolSize,
	})

	c, err := NewClient(cfg)
	if err != nil {
		logger.Error("Session store unreachable", err, map[string]interface{}{
			"addr": cfg.Addr(),
		})
		return err
	}
	client = c

	logger.Info("Session store connected", nil)
	return nil
}

func GetClient() *redis.Client {
	return client
}

func Close() error {
	if client == nil {
		return nil
	}
	logger.Info("Closing session store connection", nil)
	err := client.Close()
	client = nil
	return err
}
