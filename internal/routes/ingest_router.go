package routes

import (
	"github.com/labstack/echo/v4"

	"inspection-ingest/internal/controllers"
)

// Выгрузчик таблицы исторически шлет пакеты на /batch, новый путь - /api/equipment/batch.
func runIngestRouter(e *echo.Echo, api *echo.Group, ingestCtrl *controllers.IngestController, guard []echo.MiddlewareFunc) {
	e.POST("/batch", ingestCtrl.ProcessBatch, guard...)
	api.POST("/equipment/batch", ingestCtrl.ProcessBatch, guard...)
	api.POST("/equipment/import", ingestCtrl.ImportWorkbook, guard...)
}
