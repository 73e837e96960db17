package controllers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"inspection-ingest/internal/dto"
)

func Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, dto.HealthDTO{
		Status:    "OK",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
