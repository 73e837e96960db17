package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"

	_ "inspection-ingest/migrations/postgres" // миграции
)

// ConnectDB открывает пул и, если нужно, накатывает миграции.
func ConnectDB(ctx context.Context, dsn string, migrate bool, logger *zap.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("некорректный DATABASE_URL: %w", err)
	}
	poolConfig.MaxConns = 25
	poolConfig.MaxConnIdleTime = 5 * time.Minute

	dbpool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания пула соединений к БД: %w", err)
	}

	if err := dbpool.Ping(ctx); err != nil {
		dbpool.Close()
		return nil, fmt.Errorf("не удалось пинговать БД: %w", err)
	}
	logger.Info("✅ Подключено к PostgreSQL")

	if migrate {
		if err := runMigrations(poolConfig, logger); err != nil {
			dbpool.Close()
			return nil, err
		}
	}

	return dbpool, nil
}

func runMigrations(poolConfig *pgxpool.Config, logger *zap.Logger) error {
	db := stdlib.OpenDB(*poolConfig.ConnConfig)
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose: %w", err)
	}
	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("миграции не применены: %w", err)
	}

	logger.Info("миграции применены")
	return nil
}
