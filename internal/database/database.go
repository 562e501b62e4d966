package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/themessagevault/vault-backend/internal/config"
	"github.com/themessagevault/vault-backend/internal/models"
)

var (
	DB    *gorm.DB
	Redis *redis.Client
)

func Connect(cfg *config.Config) error {
	var err error
	DB, err = gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	slog.Info("database connected")
	return nil
}

// ConnectRedis opens the Redis client used for vault counters and verifies
// it answers.
func ConnectRedis(ctx context.Context, cfg *config.Config) error {
	Redis = redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := Redis.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}

	slog.Info("redis connected", "addr", cfg.RedisAddr)
	return nil
}

// Migrate runs AutoMigrate for every vault model.
func Migrate() error {
	return DB.AutoMigrate(
		&models.Message{},
		&models.MessageHeart{},
		&models.Candle{},
		&models.CandleSupport{},
		&models.Supporter{},
		&models.SystemLog{},
	)
}

// Ping checks both stores and reports each one's status.
func Ping(ctx context.Context) (db, cache error) {
	sqlDB, err := DB.DB()
	if err != nil {
		db = err
	} else {
		db = sqlDB.PingContext(ctx)
	}
	if Redis == nil {
		cache = fmt.Errorf("redis not connected")
	} else {
		cache = Redis.Ping(ctx).Err()
	}
	return db, cache
}

// Close releases both connections.
func Close() {
	if sqlDB, err := DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}
	if Redis != nil {
		if err := Redis.Close(); err != nil {
			slog.Error("redis close error", "error", err)
		}
	}
}
