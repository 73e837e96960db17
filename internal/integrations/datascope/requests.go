package datascope

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// StatusError - DataScope ответил не 2xx.
type StatusError struct {
	Endpoint string
	Status   string
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("DataScope %s вернул статус %s: %s", e.Endpoint, e.Status, e.Body)
	}
	return fmt.Sprintf("DataScope %s вернул статус %s", e.Endpoint, e.Status)
}

const maxErrorBody = 512

func (p *Provider) doRequest(ctx context.Context, method, endpoint string, query url.Values, payload interface{}) ([]byte, error) {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("ожидание лимита запросов: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("ошибка сериализации тела запроса: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	fullURL := p.baseURL + endpoint
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания %s-запроса: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if err := p.authorize(req); err != nil {
		return nil, err
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения %s-запроса для '%s': %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{
			Endpoint: endpoint,
			Status:   resp.Status,
			Code:     resp.StatusCode,
			Body:     string(bodyBytes),
		}
	}

	return io.ReadAll(resp.Body)
}
