package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Reainz/Snapflow-sub000/internal/config"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	DB    *gorm.DB
	Redis *redis.Client
)

// Connect opens the Postgres and Redis connections the service depends on.
// Postgres is retried because the database container usually comes up after
// the API in a fresh deployment; Redis is required for the rollback
// idempotency guard and notification fan-out, so a dead Redis is fatal too.
func Connect(cfg *config.Config) error {
	if err := connectPostgres(cfg); err != nil {
		return err
	}
	return connectRedis(cfg)
}

func connectPostgres(cfg *config.Config) error {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
	)

	gormCfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		// Quota buckets and retention deadlines are computed in UTC; keep
		// GORM's timestamps on the same clock
		NowFunc: func() time.Time { return time.Now().UTC() },
	}

	var err error
	for attempt := 1; attempt <= cfg.DBConnectRetries; attempt++ {
		DB, err = gorm.Open(postgres.Open(dsn), gormCfg)
		if err == nil {
			break
		}
		log.Printf("Database connection attempt %d/%d failed: %v. Retrying in 2 seconds...", attempt, cfg.DBConnectRetries, err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return fmt.Errorf("failed to connect to database after %d attempts: %w", cfg.DBConnectRetries, err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	// Every quota check holds a row lock for the length of its transaction,
	// so the pool ceiling bounds how many concurrent checks can be in flight
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Println("Database connected successfully")
	return nil
}

func connectRedis(cfg *config.Config) error {
	Redis = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := Redis.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Println("Redis connected successfully")
	return nil
}

func Close() {
	if sqlDB, err := DB.DB(); err == nil {
		sqlDB.Close()
	}
	if Redis != nil {
		Redis.Close()
	}
}
