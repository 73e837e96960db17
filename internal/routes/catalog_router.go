package routes

import (
	"github.com/labstack/echo/v4"

	"inspection-ingest/internal/controllers"
)

func runCatalogRouter(api *echo.Group, catalogCtrl *controllers.CatalogController, guard []echo.MiddlewareFunc) {
	catalogGroup := api.Group("/catalog", guard...)
	catalogGroup.POST("/sync", catalogCtrl.SyncValues)
}
