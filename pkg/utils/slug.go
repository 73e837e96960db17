package utils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var nonCodeChars = regexp.MustCompile(`[^a-z0-9]+`)

const catalogCodeMaxLen = 20

// GenerateCodeFromName создает системный код из названия.
// "Juan Pérez!" -> "juan_p_rez"
func GenerateCodeFromName(name string) string {
	res := strings.ToLower(strings.TrimSpace(name))
	res = nonCodeChars.ReplaceAllString(res, "_")
	return strings.Trim(res, "_")
}

// GenerateCatalogCode - код элемента справочника: slug не длиннее 20 символов
// плюс "_" и последние 4 цифры unix-времени в миллисекундах.
func GenerateCatalogCode(value string, now time.Time) string {
	base := GenerateCodeFromName(value)
	if len(base) > catalogCodeMaxLen {
		base = strings.TrimRight(base[:catalogCodeMaxLen], "_")
	}
	return fmt.Sprintf("%s_%04d", base, now.UnixMilli()%10000)
}
