package dto

import (
	"inspection-ingest/internal/entities"
	"inspection-ingest/pkg/types"
)

type EquipmentListDTO struct {
	List       []entities.Equipment `json:"list"`
	Pagination types.Pagination     `json:"pagination"`
}

type HealthDTO struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}
