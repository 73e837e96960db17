package integrations

import (
	"context"

	"inspection-ingest/internal/integrations/dto"
)

// CatalogProvider - внешний сервис справочников (списков для выпадающих полей форм).
type CatalogProvider interface {
	Name() string
	ListObjects(ctx context.Context, listID string) ([]dto.CatalogItem, error)
	CreateObject(ctx context.Context, listID string, item dto.CatalogItem) error
}
