package ingest

import (
	"errors"
	"fmt"

	"github.com/aarondl/null/v8"
	"github.com/go-playground/validator/v10"

	"inspection-ingest/internal/dto"
	"inspection-ingest/internal/entities"
	"inspection-ingest/pkg/validation"
)

const ReasonMissingTag = "missing required field: tag"

// Draft - нормализованная строка, готовая к записи.
type Draft struct {
	RowNumber int
	Record    entities.Equipment
	Tag       ResolvedTag
	Raw       map[string]interface{}
}

// RowError - строка отклонена до записи.
type RowError struct {
	RowNumber int
	Reason    string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.RowNumber, e.Reason)
}

type fieldValue struct {
	time null.Time
	str  null.String
	num  null.Float64
	int  null.Int
}

func (v fieldValue) valid(kind FieldKind) bool {
	switch kind {
	case KindDate:
		return v.time.Valid
	case KindInteger:
		return v.int.Valid
	case KindNumber:
		return v.num.Valid
	default:
		return v.str.Valid
	}
}

var setters = map[string]func(e *entities.Equipment, v fieldValue){
	"created":                func(e *entities.Equipment, v fieldValue) { e.Created = v.time },
	"sent":                   func(e *entities.Equipment, v fieldValue) { e.Sent = v.time },
	"form_id":                func(e *entities.Equipment, v fieldValue) { e.FormID = v.str },
	"form_name":              func(e *entities.Equipment, v fieldValue) { e.FormName = v.str },
	"user_name":              func(e *entities.Equipment, v fieldValue) { e.UserName = v.str },
	"assigned_date":          func(e *entities.Equipment, v fieldValue) { e.AssignedDate = v.time },
	"assigned_time":          func(e *entities.Equipment, v fieldValue) { e.AssignedTime = v.str },
	"assigned_location":      func(e *entities.Equipment, v fieldValue) { e.AssignedLocation = v.str },
	"assigned_location_code": func(e *entities.Equipment, v fieldValue) { e.AssignedLocationCode = v.str },
	"first_answer":           func(e *entities.Equipment, v fieldValue) { e.FirstAnswer = v.time },
	"last_answer":            func(e *entities.Equipment, v fieldValue) { e.LastAnswer = v.time },
	"minutes_to_perform":     func(e *entities.Equipment, v fieldValue) { e.MinutesToPerform = v.int },
	"latitude":               func(e *entities.Equipment, v fieldValue) { e.Latitude = v.num },
	"longitude":              func(e *entities.Equipment, v fieldValue) { e.Longitude = v.num },
	"zona_cliente":           func(e *entities.Equipment, v fieldValue) { e.ZonaCliente = v.str },
	"ejecutado_por":          func(e *entities.Equipment, v fieldValue) { e.EjecutadoPor = v.str },
	"tipo_equipo":            func(e *entities.Equipment, v fieldValue) { e.TipoEquipo = v.str },
	"marca_modelo":           func(e *entities.Equipment, v fieldValue) { e.MarcaModelo = v.str },
	"otro_cliente":           func(e *entities.Equipment, v fieldValue) { e.OtroCliente = v.str },
	"servicio":               func(e *entities.Equipment, v fieldValue) { e.Servicio = v.str },
}

// TagSource - источник канонического тега строки.
type TagSource interface {
	Resolve(data map[string]interface{}, envelopeTag *string, rowNumber int) ResolvedTag
}

// Поля, которые обнуляются, если не прошли проверку диапазона из тегов validate.
var rangeResetters = map[string]func(e *entities.Equipment){
	"Latitude":  func(e *entities.Equipment) { e.Latitude = null.Float64{} },
	"Longitude": func(e *entities.Equipment) { e.Longitude = null.Float64{} },
}

type Normalizer struct {
	tags      TagSource
	aliases   []FieldAlias
	validator *validation.CustomValidator
}

func NewNormalizer(tags TagSource) *Normalizer {
	return &Normalizer{tags: tags, aliases: FieldAliases, validator: validation.New()}
}

// Normalize не падает из-за необязательных полей: невалидное значение
// превращается в null. Единственная причина отказа - пустой тег.
func (n *Normalizer) Normalize(row dto.BatchRowDTO) (*Draft, error) {
	data := row.Data
	if data == nil {
		data = map[string]interface{}{}
	}

	tag := n.tags.Resolve(data, row.Tag, row.RowNumber)
	if tag.Tag == "" {
		return nil, &RowError{RowNumber: row.RowNumber, Reason: ReasonMissingTag}
	}

	record := entities.Equipment{Tag: tag.Tag}
	for _, alias := range n.aliases {
		set, ok := setters[alias.Column]
		if !ok {
			continue
		}
		set(&record, pick(data, alias))
	}
	n.resetOutOfRange(&record)

	return &Draft{
		RowNumber: row.RowNumber,
		Record:    record,
		Tag:       tag,
		Raw:       data,
	}, nil
}

func pick(data map[string]interface{}, alias FieldAlias) fieldValue {
	for _, key := range alias.Aliases {
		raw, ok := data[key]
		if !ok {
			continue
		}
		v := convert(raw, alias.Kind)
		if v.valid(alias.Kind) {
			return v
		}
	}
	return fieldValue{}
}

func convert(raw interface{}, kind FieldKind) fieldValue {
	switch kind {
	case KindDate:
		return fieldValue{time: validation.ValidateDate(raw)}
	case KindInteger:
		return fieldValue{int: validation.ValidateInteger(raw)}
	case KindNumber:
		return fieldValue{num: validation.ValidateNumber(raw)}
	case KindText:
		return fieldValue{str: validation.ValidateText(raw)}
	default:
		return fieldValue{str: validation.ValidateString(raw)}
	}
}

// resetOutOfRange обнуляет значения вне допустимого диапазона, строку не отклоняет.
func (n *Normalizer) resetOutOfRange(record *entities.Equipment) {
	err := n.validator.Validate(record)
	if err == nil {
		return
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return
	}
	for _, fe := range verrs {
		if reset, ok := rangeResetters[fe.StructField()]; ok {
			reset(record)
		}
	}
}
