package storage

import (
	"context"

	"sqldrill/internal/platform/config"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

var RDB *redis.Client

// ConnectRedis opens the key-value store that holds user accounts and custom
// problem sets.
func ConnectRedis() {
	RDB = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisDB,
	})

	ctx := context.Background()
	if _, err := RDB.Ping(ctx).Result(); err != nil {
		logrus.Fatalf("Could not connect to Redis: %v", err)
	}
	logrus.Info("Successfully connected to Redis")
}

func CloseRedis() {
	if RDB != nil {
		RDB.Close()
		logrus.Info("Redis connection closed")
	}
}
