package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "inspection-ingest/pkg/errors"
	"inspection-ingest/pkg/utils"
)

// APIKeyAuth пропускает запрос, только если в заголовке пришел
// "Authorization: Bearer <apiKey>".
func APIKeyAuth(apiKey string, logger *zap.Logger) echo.MiddlewareFunc {
	expected := []byte(apiKey)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				logger.Warn("APIKeyAuth: Пустой заголовок Authorization", zap.String("uri", c.Request().RequestURI))
				return utils.ErrorResponse(c, apperrors.ErrUnauthorized, logger)
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				logger.Warn("APIKeyAuth: Неверный формат заголовка Authorization")
				return utils.ErrorResponse(c, apperrors.ErrUnauthorized, logger)
			}

			if subtle.ConstantTimeCompare([]byte(strings.TrimSpace(parts[1])), expected) != 1 {
				logger.Warn("APIKeyAuth: Неверный ключ", zap.String("remote_ip", c.RealIP()))
				return utils.ErrorResponse(c, apperrors.ErrUnauthorized, logger)
			}

			return next(c)
		}
	}
}
