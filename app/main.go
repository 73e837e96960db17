// Файл: main.go

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"inspection-ingest/internal/integrations"
	"inspection-ingest/internal/integrations/datascope"
	"inspection-ingest/internal/integrations/mock"
	"inspection-ingest/internal/repositories"
	"inspection-ingest/internal/routes"
	"inspection-ingest/pkg/config"
	"inspection-ingest/pkg/database/postgresql"
	apperrors "inspection-ingest/pkg/errors"
	applogger "inspection-ingest/pkg/logger"
	appmiddleware "inspection-ingest/pkg/middleware"
	"inspection-ingest/pkg/utils"
	"inspection-ingest/pkg/validation"
)

func main() {
	// 1. Конфиг и логгер
	cfg := config.New()
	logger := applogger.NewLogger(cfg.Log.Level, cfg.Log.File)
	defer logger.Sync()

	e := echo.New()
	e.HideBanner = true

	// 2. Middleware
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		DisableStackAll: true,
		StackSize:       1 << 10,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("!!! ОБНАРУЖЕНА ПАНИКА (PANIC) !!!",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
				zap.String("stack", string(stack)),
			)
			if !c.Response().Committed {
				httpErr := apperrors.NewHttpError(http.StatusInternalServerError, "Внутренняя ошибка сервера", err, nil)
				_ = utils.ErrorResponse(c, httpErr, logger)
			}
			return err
		},
	}))

	e.Use(appmiddleware.RequestLogger(logger.Named("http")))

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		ExposeHeaders: []string{echo.HeaderContentDisposition},
	}))

	e.Validator = validation.New()

	// 3. PostgreSQL
	ctx := context.Background()
	dbConn, err := postgresql.ConnectDB(ctx, cfg.Postgres.DSN, cfg.Postgres.MigrationsEnabled, logger)
	if err != nil {
		logger.Fatal("не удалось подключиться к PostgreSQL", zap.Error(err))
	}
	defer dbConn.Close()

	// 4. Redis - необязателен, без него кеш справочников не используется
	cacheRepo := repositories.NewNoopCacheRepository()
	if cfg.Redis.Address != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       0,
		})
		if _, err := redisClient.Ping(ctx).Result(); err != nil {
			logger.Warn("Redis недоступен, кеш справочников отключен", zap.Error(err), zap.String("address", cfg.Redis.Address))
		} else {
			cacheRepo = repositories.NewRedisCacheRepository(redisClient, "inspection-ingest:")
			defer redisClient.Close()
		}
	}

	// 5. Провайдеры справочников
	registry := integrations.NewRegistry()
	providers := []integrations.CatalogProvider{
		datascope.New(datascope.Options{
			BaseURL:   cfg.Catalog.BaseURL,
			APIKey:    cfg.Catalog.APIKey,
			Timeout:   cfg.Catalog.Timeout,
			RateLimit: cfg.Catalog.RateLimit,
		}, logger),
		mock.NewMockProvider(),
	}
	for _, p := range providers {
		if err := registry.Register(p); err != nil {
			logger.Fatal("ошибка регистрации провайдера справочников", zap.Error(err))
		}
	}
	if err := registry.SetActive(cfg.Catalog.Provider); err != nil {
		logger.Warn("неизвестный CATALOG_PROVIDER", zap.String("provider", cfg.Catalog.Provider), zap.Error(err))
	}

	// 6. Маршруты
	routes.InitRouter(e, dbConn, cacheRepo, registry, &routes.Loggers{
		Main:    logger,
		Ingest:  logger.Named("ingest"),
		Catalog: logger.Named("catalog"),
	}, cfg)

	// 7. Запуск и остановка по сигналу
	go func() {
		logger.Info("🚀 Сервер запущен", zap.String("port", cfg.Server.Port))
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Ошибка запуска сервера", zap.Error(err))
		}
	}()

	stop, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	<-stop.Done()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("ошибка при остановке сервера", zap.Error(err))
	}
	logger.Info("сервер остановлен")
}
