package validation

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/aarondl/null/v8"
)

// Форматы дат, которые присылает таблица. Форматы без зоны читаются как UTC.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006",
}

// Границы дат, которые переживают сериализацию в JSON (годы 0..9999).
var (
	minDate = time.Date(0, 1, 1, 0, 0, 0, 0, time.UTC)
	maxDate = time.Date(9999, 12, 31, 23, 59, 59, 999999999, time.UTC)
)

func dateInRange(t time.Time) bool {
	return !t.Before(minDate) && !t.After(maxDate)
}

// ValidateDate приводит строку или unix-миллисекунды к дате.
// Даты вне 0..9999 года дают null.
func ValidateDate(value interface{}) null.Time {
	if f, ok := numeric(value); ok {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return null.Time{}
		}
		if f < float64(minDate.UnixMilli()) || f > float64(maxDate.UnixMilli()) {
			return null.Time{}
		}
		return null.TimeFrom(time.UnixMilli(int64(f)).UTC())
	}

	s, ok := value.(string)
	if !ok {
		return null.Time{}
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return null.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			if !dateInRange(t.UTC()) {
				return null.Time{}
			}
			return null.TimeFrom(t)
		}
	}
	return null.Time{}
}

// ValidateInteger отбрасывает дробную часть: "12.9" -> 12.
// Колонки целых в базе INTEGER, поэтому все вне int32 дает null.
func ValidateInteger(value interface{}) null.Int {
	f, ok := toFloat(value)
	if !ok {
		return null.Int{}
	}
	f = math.Trunc(f)
	if f > math.MaxInt32 || f < math.MinInt32 {
		return null.Int{}
	}
	return null.IntFrom(int(f))
}

func ValidateNumber(value interface{}) null.Float64 {
	f, ok := toFloat(value)
	if !ok {
		return null.Float64{}
	}
	return null.Float64From(f)
}

// ValidateString принимает только строки; пустые и из пробелов дают null.
func ValidateString(value interface{}) null.String {
	s, ok := value.(string)
	if !ok {
		return null.String{}
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return null.String{}
	}
	return null.StringFrom(s)
}

// ValidateText как ValidateString, но числа превращает в текст (form_id и коды).
func ValidateText(value interface{}) null.String {
	if f, ok := numeric(value); ok {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return null.String{}
		}
		return null.StringFrom(strconv.FormatFloat(f, 'f', -1, 64))
	}
	return ValidateString(value)
}

// toFloat разбирает число или строку с числом, только конечные значения.
func toFloat(value interface{}) (float64, bool) {
	f, ok := numeric(value)
	if !ok {
		s, isStr := value.(string)
		if !isStr {
			return 0, false
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func numeric(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}
