package controllers

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inspection-ingest/internal/dto"
	"inspection-ingest/internal/services"
	apperrors "inspection-ingest/pkg/errors"
	"inspection-ingest/pkg/types"
	"inspection-ingest/pkg/utils"
)

// Верхняя граница выгрузки в Excel.
const exportLimit = 100000

type EquipmentController struct {
	equipmentService services.EquipmentServiceInterface
	logger           *zap.Logger
}

func NewEquipmentController(
	service services.EquipmentServiceInterface,
	logger *zap.Logger,
) *EquipmentController {
	return &EquipmentController{
		equipmentService: service,
		logger:           logger.Named("equipment_controller"),
	}
}

func (c *EquipmentController) GetEquipments(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	format := strings.ToLower(ctx.QueryParam("format"))
	if format == "xlsx" {
		filter.Page = 1
		filter.Offset = 0
		filter.Limit = exportLimit
	}

	list, total, err := c.equipmentService.GetEquipments(ctx.Request().Context(), filter)
	if err != nil {
		c.logger.Error("GetEquipments: ошибка при получении списка оборудования", zap.Error(err))
		return utils.ErrorResponse(
			ctx,
			apperrors.NewHttpError(
				http.StatusInternalServerError,
				"Не удалось получить список оборудования",
				err,
				nil,
			),
			c.logger,
		)
	}

	if format == "xlsx" {
		return respondWithXLSX(ctx, list)
	}

	return utils.SuccessResponse(ctx, dto.EquipmentListDTO{
		List:       list,
		Pagination: paginate(filter, total),
	}, "Список оборудования успешно получен", http.StatusOK)
}

func (c *EquipmentController) FindEquipment(ctx echo.Context) error {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		c.logger.Warn("FindEquipment: некорректный ID оборудования", zap.String("id", ctx.Param("id")), zap.Error(err))
		return utils.ErrorResponse(
			ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "Некорректный ID оборудования", err, nil),
			c.logger,
		)
	}

	res, err := c.equipmentService.FindEquipment(ctx.Request().Context(), id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return utils.ErrorResponse(
				ctx,
				apperrors.NewHttpError(http.StatusNotFound, "Оборудование не найдено", err, nil),
				c.logger,
			)
		}
		c.logger.Error("FindEquipment: ошибка при поиске оборудования", zap.Uint64("id", id), zap.Error(err))
		return utils.ErrorResponse(
			ctx,
			apperrors.NewHttpError(http.StatusInternalServerError, "Не удалось получить оборудование", err, nil),
			c.logger,
		)
	}

	return utils.SuccessResponse(ctx, res, "Оборудование успешно получено", http.StatusOK)
}

func paginate(filter types.Filter, total uint64) types.Pagination {
	p := types.Pagination{TotalCount: total, Page: filter.Page, Limit: filter.Limit}
	if filter.Limit > 0 {
		p.TotalPages = int(math.Ceil(float64(total) / float64(filter.Limit)))
	}
	return p
}
