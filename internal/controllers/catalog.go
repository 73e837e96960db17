package controllers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inspection-ingest/internal/dto"
	"inspection-ingest/internal/services"
	apperrors "inspection-ingest/pkg/errors"
)

type CatalogController struct {
	ingestService services.IngestServiceInterface
	logger        *zap.Logger
}

func NewCatalogController(service services.IngestServiceInterface, logger *zap.Logger) *CatalogController {
	return &CatalogController{
		ingestService: service,
		logger:        logger.Named("catalog_controller"),
	}
}

// SyncValues - ручной прогон синхронизации справочников по testData.
func (c *CatalogController) SyncValues(ctx echo.Context) error {
	var req dto.CatalogSyncBatchDTO

	if err := ctx.Bind(&req); err != nil {
		c.logger.Warn("SyncValues: не удалось распознать тело запроса", zap.Error(err))
		return ctx.JSON(http.StatusBadRequest, dto.BatchErrorDTO{Error: msgTestDataNotArray})
	}
	if err := ctx.Validate(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, dto.BatchErrorDTO{Error: msgTestDataNotArray})
	}

	res, err := c.ingestService.SyncValues(ctx.Request().Context(), req.TestData)
	if err != nil {
		if errors.Is(err, apperrors.ErrCatalogDisabled) {
			return ctx.JSON(apperrors.StatusCode(err), dto.BatchErrorDTO{Error: err.Error()})
		}
		if errors.Is(err, apperrors.ErrCatalogUnavailable) {
			c.logger.Warn("SyncValues: сервис справочников недоступен", zap.Error(err))
			return ctx.JSON(apperrors.StatusCode(err), dto.BatchErrorDTO{
				Error:   apperrors.ErrCatalogUnavailable.Error(),
				Details: err.Error(),
			})
		}
		c.logger.Error("SyncValues: ошибка синхронизации", zap.Error(err))
		return ctx.JSON(http.StatusInternalServerError, dto.BatchErrorDTO{Error: msgInternalError, Details: err.Error()})
	}

	return ctx.JSON(http.StatusOK, res)
}
