package database

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"

	"taskboard/configs"
)

func RedisAddr(cfg configs.Config) string {
	return fmt.Sprintf("%s:%d", cfg.RedisHost, cfg.RedisPort)
}

func ConnectRedis(ctx context.Context, addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("could not connect to Redis: %w", err)
	}
	return client, nil
}
