package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

var (
	ErrUnauthorized = fmt.Errorf("неавторизован")

	// Хранилище
	ErrStoreUnavailable = fmt.Errorf("хранилище недоступно")

	// Справочники
	ErrCatalogDisabled    = fmt.Errorf("синхронизация справочников отключена")
	ErrProviderNotFound   = fmt.Errorf("провайдер справочников не найден")
	ErrCatalogUnavailable = fmt.Errorf("сервис справочников недоступен")

	// Общие
	ErrNotFound = fmt.Errorf("запись не найдена")
)

// HttpError - ошибка с HTTP-кодом и сообщением для клиента.
// Err хранит исходную причину и в ответ не попадает.
type HttpError struct {
	Code    int
	Message string
	Err     error
	Details map[string]interface{}
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error, details map[string]interface{}) *HttpError {
	if message == "" {
		message = http.StatusText(code)
	}
	return &HttpError{Code: code, Message: message, Err: err, Details: details}
}

// StatusCode переводит доменную ошибку в HTTP-код.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case is(err, ErrNotFound), is(err, ErrProviderNotFound):
		return http.StatusNotFound
	case is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case is(err, ErrCatalogUnavailable), is(err, ErrCatalogDisabled):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func is(err, target error) bool { return stderrors.Is(err, target) }
