package routes

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inspection-ingest/internal/controllers"
	"inspection-ingest/internal/ingest"
	"inspection-ingest/internal/integrations"
	"inspection-ingest/internal/repositories"
	"inspection-ingest/internal/services"
	"inspection-ingest/pkg/config"
	appmiddleware "inspection-ingest/pkg/middleware"
)

type Loggers struct {
	Main    *zap.Logger
	Ingest  *zap.Logger
	Catalog *zap.Logger
}

type Controllers struct {
	Equipment *controllers.EquipmentController
	Ingest    *controllers.IngestController
	Catalog   *controllers.CatalogController
}

func InitRouter(
	e *echo.Echo,
	dbConn *pgxpool.Pool,
	cacheRepo repositories.CacheRepositoryInterface,
	registry integrations.RegistryInterface,
	loggers *Loggers,
	cfg *config.Config,
) {
	loggers.Main.Info("InitRouter: Начало создания маршрутов")

	// --- 1. РЕПОЗИТОРИИ ---
	equipmentRepo := repositories.NewEquipmentRepository(dbConn, loggers.Main)

	// --- 2. СЕРВИСЫ ---
	provider, err := registry.GetActive()
	if err != nil {
		loggers.Catalog.Warn("провайдер справочников не выбран, синхронизация отключена", zap.Error(err))
	}
	catalogSync := services.NewCatalogSyncService(provider, cacheRepo, services.CatalogSyncOptions{
		Enabled:   cfg.Catalog.Enabled() && provider != nil,
		CallDelay: cfg.Catalog.CallDelay,
		CacheTTL:  cfg.Catalog.CacheTTL,
	}, loggers.Catalog)
	if !catalogSync.Enabled() {
		loggers.Catalog.Warn("DATASCOPE_API_KEY не задан, значения Otro и теги не будут добавляться в справочники")
	}

	tags := ingest.NewTagResolver(time.Now)
	equipmentService := services.NewEquipmentService(equipmentRepo, loggers.Main)
	ingestService := services.NewIngestService(
		ingest.NewNormalizer(tags),
		tags,
		equipmentService,
		catalogSync,
		cfg.Catalog.SyncWorkers,
		loggers.Ingest,
	)

	// --- 3. КОНТРОЛЛЕРЫ И МАРШРУТЫ ---
	RegisterRoutes(e, &Controllers{
		Equipment: controllers.NewEquipmentController(equipmentService, loggers.Main),
		Ingest:    controllers.NewIngestController(ingestService, loggers.Ingest),
		Catalog:   controllers.NewCatalogController(ingestService, loggers.Catalog),
	}, cfg.Server.IngestAPIKey, loggers.Main)

	loggers.Main.Info("InitRouter: Все маршруты успешно созданы")
}

func RegisterRoutes(e *echo.Echo, ctrls *Controllers, apiKey string, logger *zap.Logger) {
	api := e.Group("/api")
	api.GET("/health", controllers.Health)

	guard := apiKeyGuard(apiKey, logger)

	runIngestRouter(e, api, ctrls.Ingest, guard)
	runEquipmentRouter(api, ctrls.Equipment)
	runCatalogRouter(api, ctrls.Catalog, guard)
}

// apiKeyGuard - ключ передается как "Authorization: Bearer <key>".
func apiKeyGuard(apiKey string, logger *zap.Logger) []echo.MiddlewareFunc {
	if apiKey == "" {
		logger.Warn("INGEST_API_KEY не установлен! Эндпоинты приема не защищены.")
		return nil
	}
	return []echo.MiddlewareFunc{appmiddleware.APIKeyAuth(apiKey, logger)}
}
