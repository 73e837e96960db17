package dto

// BatchRowDTO - одна строка таблицы. Data - произвольные пары "колонка: значение".
type BatchRowDTO struct {
	RowNumber int                    `json:"rowNumber"`
	Tag       *string                `json:"tag,omitempty"`
	Data      map[string]interface{} `json:"data"`
}

type BatchRequestDTO struct {
	Sheet string        `json:"sheet,omitempty"`
	Rows  []BatchRowDTO `json:"rows" validate:"required,min=1"`
}

// RowResultDTO - итог по строке. Для неудачной строки заполнен только Error.
type RowResultDTO struct {
	RowNumber   int                    `json:"rowNumber"`
	ID          uint64                 `json:"id,omitempty"`
	Action      string                 `json:"action,omitempty"`
	Tag         string                 `json:"tag,omitempty"`
	Data        interface{}            `json:"data,omitempty"`
	Error       string                 `json:"error,omitempty"`
	CatalogSync *CatalogSyncSummaryDTO `json:"catalogSync,omitempty"`
}

type RowErrorDTO struct {
	RowNumber int    `json:"rowNumber"`
	Error     string `json:"error"`
}

type BatchResponseDTO struct {
	Success      bool           `json:"success"`
	Message      string         `json:"message"`
	Processed    int            `json:"processed"`
	Errors       int            `json:"errors"`
	Results      []RowResultDTO `json:"results"`
	ErrorDetails []RowErrorDTO  `json:"errorDetails"`
}

// BatchErrorDTO - тело ответа 400/500 для приема пакета.
type BatchErrorDTO struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

const (
	ActionCreated = "created"
	ActionUpdated = "updated"
)
