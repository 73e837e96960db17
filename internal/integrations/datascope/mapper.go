package datascope

import (
	"strings"

	internalDTO "inspection-ingest/internal/integrations/dto"
)

func mapObjectToInternal(ext ListObjectDTO) internalDTO.CatalogItem {
	// id приходит то числом, то строкой
	id := strings.Trim(string(ext.ID), `"`)
	if id == "null" {
		id = ""
	}
	return internalDTO.CatalogItem{
		ExternalID:  id,
		Name:        ext.Name,
		Description: ext.Description,
		Code:        ext.Code,
		Attribute1:  ext.Attribute1,
		Attribute2:  ext.Attribute2,
	}
}

func mapItemToExternal(item internalDTO.CatalogItem) ListObjectDTO {
	return ListObjectDTO{
		Name:        item.Name,
		Description: item.Description,
		Code:        item.Code,
		Attribute1:  item.Attribute1,
		Attribute2:  item.Attribute2,
	}
}
