package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inspection-ingest/internal/dto"
	"inspection-ingest/internal/ingest"
	"inspection-ingest/internal/services"
	"inspection-ingest/pkg/utils"
)

const (
	msgRowsNotArray     = "Invalid request: rows must be an array"
	msgRowsEmpty        = "Invalid request: rows must be a non-empty array"
	msgInternalError    = "Internal server error"
	msgTestDataNotArray = "testData must be a non-empty array"
	msgFileMissing      = "Invalid request: file is required"
	msgWorkbookEmpty    = "Invalid request: workbook has no data rows"

	workbookUploadContext = "inspection_workbook"
)

// IngestController принимает пакеты строк из таблицы инспекций.
// Ответы в формате, который ждет клиент-выгрузчик, без обертки HTTPResponse.
type IngestController struct {
	ingestService services.IngestServiceInterface
	logger        *zap.Logger
}

func NewIngestController(service services.IngestServiceInterface, logger *zap.Logger) *IngestController {
	return &IngestController{
		ingestService: service,
		logger:        logger.Named("ingest_controller"),
	}
}

func (c *IngestController) ProcessBatch(ctx echo.Context) error {
	var req dto.BatchRequestDTO

	if err := ctx.Bind(&req); err != nil {
		c.logger.Warn("ProcessBatch: не удалось распознать тело запроса", zap.Error(err))
		return ctx.JSON(http.StatusBadRequest, dto.BatchErrorDTO{Error: msgRowsNotArray})
	}
	if err := ctx.Validate(&req); err != nil {
		c.logger.Warn("ProcessBatch: пакет не прошел валидацию", zap.Error(err))
		return ctx.JSON(http.StatusBadRequest, dto.BatchErrorDTO{Error: msgRowsEmpty})
	}

	resp, err := c.ingestService.ProcessBatch(ctx.Request().Context(), req)
	if err != nil {
		c.logger.Error("ProcessBatch: пакет не обработан", zap.Error(err))
		return ctx.JSON(http.StatusInternalServerError, dto.BatchErrorDTO{
			Error:   msgInternalError,
			Details: err.Error(),
		})
	}

	return ctx.JSON(http.StatusOK, resp)
}

// ImportWorkbook принимает xlsx-выгрузку формы (multipart, поле "file",
// необязательное поле "sheet") и обрабатывает ее как обычный пакет.
func (c *IngestController) ImportWorkbook(ctx echo.Context) error {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, dto.BatchErrorDTO{Error: msgFileMissing})
	}

	src, err := fileHeader.Open()
	if err != nil {
		c.logger.Error("ImportWorkbook: не удалось открыть файл", zap.Error(err))
		return ctx.JSON(http.StatusInternalServerError, dto.BatchErrorDTO{Error: msgInternalError, Details: err.Error()})
	}
	defer src.Close()

	if err := utils.ValidateFile(fileHeader, src, workbookUploadContext); err != nil {
		return ctx.JSON(http.StatusBadRequest, dto.BatchErrorDTO{Error: err.Error()})
	}

	req, err := ingest.ReadWorkbook(src, ctx.FormValue("sheet"))
	if err != nil {
		c.logger.Warn("ImportWorkbook: файл не распознан", zap.String("file", fileHeader.Filename), zap.Error(err))
		return ctx.JSON(http.StatusBadRequest, dto.BatchErrorDTO{Error: err.Error()})
	}
	if len(req.Rows) == 0 {
		return ctx.JSON(http.StatusBadRequest, dto.BatchErrorDTO{Error: msgWorkbookEmpty})
	}

	resp, err := c.ingestService.ProcessBatch(ctx.Request().Context(), *req)
	if err != nil {
		c.logger.Error("ImportWorkbook: пакет не обработан", zap.Error(err))
		return ctx.JSON(http.StatusInternalServerError, dto.BatchErrorDTO{
			Error:   msgInternalError,
			Details: err.Error(),
		})
	}

	return ctx.JSON(http.StatusOK, resp)
}
