package datascope

import (
	"errors"
	"net/http"
)

var ErrMissingAPIKey = errors.New("не задан API-ключ DataScope")

// authorize - DataScope принимает ключ как есть, без схемы "Bearer".
func (p *Provider) authorize(req *http.Request) error {
	if p.apiKey == "" {
		return ErrMissingAPIKey
	}
	req.Header.Set("Authorization", p.apiKey)
	return nil
}
