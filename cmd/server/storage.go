package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Lixing-Zhang/eshopper/internal/cart"
	"github.com/Lixing-Zhang/eshopper/internal/config"
	"github.com/redis/go-redis/v9"
)

// openStorage builds the cart mirror selected by CART_STORAGE. The returned
// close function releases any connection it holds.
func openStorage(ctx context.Context, cfg config.CartConfig, log *slog.Logger) (cart.Storage, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Storage {
	case config.StorageMemory:
		log.Warn("cart storage is in memory; the cart will not survive a restart")
		return cart.NewMemoryStorage(), noop, nil

	case config.StorageRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("connect to redis at %s: %w", cfg.Redis.Addr, err)
		}
		log.Info("cart storage connected to redis", "addr", cfg.Redis.Addr, "db", cfg.Redis.DB)
		return cart.NewRedisStorage(client, cfg.Redis.KeyPrefix), client.Close, nil

	case config.StorageFile:
		files, err := cart.NewFileStorage(cfg.Dir)
		if err != nil {
			return nil, nil, err
		}
		log.Info("cart storage on disk", "dir", cfg.Dir)
		return files, noop, nil

	default:
		return nil, nil, fmt.Errorf("unknown cart storage %q", cfg.Storage)
	}
}
