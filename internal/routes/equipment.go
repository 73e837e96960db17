package routes

import (
	"github.com/labstack/echo/v4"

	"inspection-ingest/internal/controllers"
)

func runEquipmentRouter(api *echo.Group, equipmentCtrl *controllers.EquipmentController) {
	equipment := api.Group("/equipment")
	equipment.GET("", equipmentCtrl.GetEquipments)
	equipment.GET("/:id", equipmentCtrl.FindEquipment)
}
