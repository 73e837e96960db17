package entities

import (
	"github.com/aarondl/null/v8"

	"inspection-ingest/pkg/types"
)

// Equipment - одна инспекция оборудования (таблица equipment_records).
// Ключ уникальности: (Tag, AssignedDate), null-дата совпадает только с null.
type Equipment struct {
	ID uint64 `json:"id" db:"id"`

	Created  null.Time   `json:"created" db:"created"`
	Sent     null.Time   `json:"sent" db:"sent"`
	FormID   null.String `json:"form_id" db:"form_id"`
	FormName null.String `json:"form_name" db:"form_name"`
	UserName null.String `json:"user_name" db:"user_name"`

	AssignedDate         null.Time   `json:"assigned_date" db:"assigned_date"`
	AssignedTime         null.String `json:"assigned_time" db:"assigned_time"`
	AssignedLocation     null.String `json:"assigned_location" db:"assigned_location"`
	AssignedLocationCode null.String `json:"assigned_location_code" db:"assigned_location_code"`

	FirstAnswer      null.Time    `json:"first_answer" db:"first_answer"`
	LastAnswer       null.Time    `json:"last_answer" db:"last_answer"`
	MinutesToPerform null.Int     `json:"minutes_to_perform" db:"minutes_to_perform"`
	Latitude         null.Float64 `json:"latitude" db:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude        null.Float64 `json:"longitude" db:"longitude" validate:"omitempty,gte=-180,lte=180"`

	ZonaCliente  null.String `json:"zona_cliente" db:"zona_cliente"`
	EjecutadoPor null.String `json:"ejecutado_por" db:"ejecutado_por"`
	TipoEquipo   null.String `json:"tipo_equipo" db:"tipo_equipo"`
	Tag          string      `json:"numero_equipo_tag" db:"numero_equipo_tag"`
	MarcaModelo  null.String `json:"marca_modelo" db:"marca_modelo"`
	OtroCliente  null.String `json:"otro_cliente" db:"otro_cliente"`
	Servicio     null.String `json:"servicio" db:"servicio"`

	types.BaseEntity // CreatedAt, UpdatedAt
}
