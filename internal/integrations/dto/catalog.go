// Файл: internal/integrations/dto/catalog.go
package dto

// CatalogItem - элемент справочника во внутреннем представлении,
// не зависит от конкретного провайдера.
type CatalogItem struct {
	ExternalID  string
	Name        string
	Description string
	Code        string
	Attribute1  string
	Attribute2  string
}
