package dto

// CatalogSyncRequestDTO - значение, которое нужно проверить и при необходимости
// добавить в справочник. Не сохраняется.
type CatalogSyncRequestDTO struct {
	ListID        string
	Value         string
	FieldName     string
	OverrideField string
	Description   string
	Attribute1    string
	Attribute2    string
	RowData       map[string]interface{}
}

// CatalogSyncSummaryDTO - итог синхронизации справочников по одной строке.
type CatalogSyncSummaryDTO struct {
	Attempted int      `json:"attempted"`
	Succeeded int      `json:"succeeded"`
	Errors    []string `json:"errors"`
	TagAdded  bool     `json:"tagAdded"`
}

// Merge складывает итоги нескольких строк.
func (s *CatalogSyncSummaryDTO) Merge(other CatalogSyncSummaryDTO) {
	s.Attempted += other.Attempted
	s.Succeeded += other.Succeeded
	s.Errors = append(s.Errors, other.Errors...)
	s.TagAdded = s.TagAdded || other.TagAdded
}

// CatalogSyncBatchDTO - тело POST /api/catalog/sync.
type CatalogSyncBatchDTO struct {
	TestData []map[string]interface{} `json:"testData" validate:"required,min=1"`
}

type CatalogSyncBatchResultDTO struct {
	Processed  int      `json:"processed"`
	Successful int      `json:"successful"`
	Errors     []string `json:"errors"`
}
