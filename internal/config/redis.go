package config

import (
	"context"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RedisClient stays nil when REDIS_ADDR is empty.
var RedisClient *redis.Client

// InitRedis connects to Redis and verifies the connection with PING.
func InitRedis() {
	if App.RedisAddr == "" {
		return
	}
	RedisClient = redis.NewClient(&redis.Options{
		Addr:     App.RedisAddr,
		Password: App.RedisPassword,
		DB:       App.RedisDB,
	})

	s, err := RedisClient.Ping(context.Background()).Result()
	if err != nil {
		Logger.Fatal("Error connecting to Redis", zap.Error(err))
	}
	Logger.Info("Connected to Redis", zap.String("ping", s))
}

// CloseRedis closes the client if one was opened.
func CloseRedis() error {
	if RedisClient == nil {
		return nil
	}
	return RedisClient.Close()
}
