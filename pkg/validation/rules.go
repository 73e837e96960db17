package validation

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// registerRules регистрирует теги, которые мы используем в struct tags
func registerRules(v *validator.Validate) error {
	if err := v.RegisterValidation("notblank", isNotBlank); err != nil {
		return err
	}
	if err := v.RegisterValidation("list_id", isListID); err != nil {
		return err
	}
	return nil
}

// isNotBlank - строка не пустая после trim. Для не-строк правило не применяется.
func isNotBlank(fl validator.FieldLevel) bool {
	field := fl.Field()
	if s, ok := field.Interface().(string); ok {
		return strings.TrimSpace(s) != ""
	}
	return true
}

// isListID - идентификатор справочника DataScope: латиница, цифры и "_".
func isListID(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
		default:
			return false
		}
	}
	return true
}
