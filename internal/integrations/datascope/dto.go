package datascope

import "encoding/json"

// ListObjectDTO - элемент справочника в формате DataScope.
type ListObjectDTO struct {
	ID          json.RawMessage `json:"id,omitempty"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Code        string          `json:"code,omitempty"`
	Attribute1  string          `json:"attribute1,omitempty"`
	Attribute2  string          `json:"attribute2,omitempty"`
}

// CreateListObjectRequest - тело POST /metadata_object.
type CreateListObjectRequest struct {
	ListObject ListObjectDTO `json:"list_object"`
}
