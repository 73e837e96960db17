package ingest

import (
	"fmt"
	"strings"
	"time"

	"inspection-ingest/pkg/validation"
)

const SyntheticTagPrefix = "AUTO-"

// TagComponents - части, из которых собирается тег "area-type-number".
type TagComponents struct {
	Area   string
	Type   string
	Number string
}

func (c TagComponents) Complete() bool {
	return c.Area != "" && c.Type != "" && c.Number != ""
}

func (c TagComponents) String() string {
	return c.Area + "-" + c.Type + "-" + c.Number
}

type ResolvedTag struct {
	Tag        string
	Synthetic  bool
	Components TagComponents
}

type TagResolver struct {
	now func() time.Time
}

func NewTagResolver(now func() time.Time) *TagResolver {
	if now == nil {
		now = time.Now
	}
	return &TagResolver{now: now}
}

// Resolve всегда возвращает непустой тег. Порядок: алиасы колонки тега,
// тег из конверта строки, сборка из компонентов (перекрывает оба), AUTO-.
func (r *TagResolver) Resolve(data map[string]interface{}, envelopeTag *string, rowNumber int) ResolvedTag {
	components := TagComponents{
		Area:   firstText(data, AreaAliases),
		Type:   firstText(data, TypeAliases),
		Number: firstText(data, NumberAliases),
	}

	tag := firstText(data, TagAliases)
	if tag == "" && envelopeTag != nil {
		tag = strings.TrimSpace(*envelopeTag)
	}
	if components.Complete() {
		tag = components.String()
	}

	if tag == "" {
		suffix := int64(rowNumber)
		if rowNumber == 0 {
			suffix = r.now().UnixMilli()
		}
		return ResolvedTag{
			Tag:        fmt.Sprintf("%s%d", SyntheticTagPrefix, suffix),
			Synthetic:  true,
			Components: components,
		}
	}

	return ResolvedTag{Tag: tag, Components: components}
}

// IsSyntheticTag - тег сгенерирован сервером и не должен уходить в справочник.
func IsSyntheticTag(tag string) bool {
	return strings.HasPrefix(tag, SyntheticTagPrefix)
}

// firstText - первое непустое значение среди колонок; числа приводятся к тексту.
func firstText(data map[string]interface{}, keys []string) string {
	for _, key := range keys {
		if v := validation.ValidateText(data[key]); v.Valid {
			return v.String
		}
	}
	return ""
}
