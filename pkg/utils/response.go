package utils

import (
	"errors"
	"net/http"

	apperrors "inspection-ingest/pkg/errors"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type HTTPResponse struct {
	Status  bool        `json:"status"`
	Body    interface{} `json:"body,omitempty"`
	Message string      `json:"message"`
}

func SuccessResponse(ctx echo.Context, body interface{}, message string, code int) error {
	return ctx.JSON(code, &HTTPResponse{
		Status:  true,
		Body:    body,
		Message: message,
	})
}

// ErrorResponse отдает клиенту только сообщение HttpError, причина уходит в лог.
func ErrorResponse(ctx echo.Context, err error, logger *zap.Logger) error {
	code := http.StatusInternalServerError
	message := err.Error()

	var httpErr *apperrors.HttpError
	if errors.As(err, &httpErr) {
		code = httpErr.Code
		message = httpErr.Message
		if code >= http.StatusInternalServerError && logger != nil {
			logger.Error("ошибка обработки запроса",
				zap.String("uri", ctx.Request().RequestURI),
				zap.Int("code", code),
				zap.Error(httpErr.Err),
			)
		}
	} else {
		code = apperrors.StatusCode(err)
	}

	return ctx.JSON(code, &HTTPResponse{
		Status:  false,
		Body:    struct{}{},
		Message: message,
	})
}
