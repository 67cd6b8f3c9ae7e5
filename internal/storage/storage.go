package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"univ_schedule/internal/config"
	"univ_schedule/internal/logging"
	"univ_schedule/internal/models"

	"github.com/go-redis/redis/v8"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var (
	DB          *gorm.DB
	RedisClient *redis.Client
)

// ConnectDatabase открывает соединение с Postgres и сохраняет его в storage.DB.
func ConnectDatabase(cfg config.DBConfig, log *slog.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logging.NewGormLogger(log),
	})
	if err != nil {
		return nil, fmt.Errorf("подключение к базе данных: %w", err)
	}

	DB = db
	log.Info("Подключение к базе данных успешно", "host", cfg.Host, "db", cfg.Name)
	return db, nil
}

// Migrate создаёт и обновляет таблицы расписания.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(models.All()...)
}

// TxOptions задаёт уровень изоляции транзакций движка; LevelDefault - настройки драйвера.
func TxOptions(level sql.IsolationLevel) *sql.TxOptions {
	if level == sql.LevelDefault {
		return nil
	}
	return &sql.TxOptions{Isolation: level}
}

// InitRedis подключается к Redis. Пустой адрес отключает Redis: возвращается nil.
func InitRedis(ctx context.Context, addr string, log *slog.Logger) *redis.Client {
	if addr == "" {
		log.Warn("REDIS_ADDR не задан, события рассылаются без Redis")
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		log.Error("Не удалось подключиться к Redis", "addr", addr, "error", err)
		_ = client.Close()
		return nil
	}
	RedisClient = client
	log.Info("Подключение к Redis успешно", "addr", addr)
	return client
}
