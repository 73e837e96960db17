package datascope

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"inspection-ingest/internal/integrations"
	internalDTO "inspection-ingest/internal/integrations/dto"
)

const (
	listEndpoint   = "/metadata_objects"
	createEndpoint = "/metadata_object"
)

type Options struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	// RateLimit - запросов в секунду на весь процесс, 0 - без ограничения.
	RateLimit float64
}

// Provider - клиент справочников DataScope.
type Provider struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	timeout    time.Duration
	limiter    *rate.Limiter
	logger     *zap.Logger
}

func New(opts Options, logger *zap.Logger) integrations.CatalogProvider {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}

	return &Provider{
		httpClient: &http.Client{Timeout: timeout + 5*time.Second},
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		apiKey:     opts.APIKey,
		timeout:    timeout,
		limiter:    limiter,
		logger:     logger.Named("datascope_provider"),
	}
}

func (p *Provider) Name() string {
	return "datascope"
}

func (p *Provider) ListObjects(ctx context.Context, listID string) ([]internalDTO.CatalogItem, error) {
	rawData, err := p.doRequest(ctx, http.MethodGet, listEndpoint, url.Values{"metadata_type": {listID}}, nil)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения справочника %s: %w", listID, err)
	}

	var external []ListObjectDTO
	if err := json.Unmarshal(rawData, &external); err != nil {
		return nil, fmt.Errorf("ошибка парсинга JSON справочника %s: %w", listID, err)
	}
	p.logger.Debug("Успешно получено и распарсено",
		zap.String("list_id", listID),
		zap.Int("count", len(external)),
	)

	items := make([]internalDTO.CatalogItem, 0, len(external))
	for _, obj := range external {
		items = append(items, mapObjectToInternal(obj))
	}
	return items, nil
}

func (p *Provider) CreateObject(ctx context.Context, listID string, item internalDTO.CatalogItem) error {
	payload := CreateListObjectRequest{ListObject: mapItemToExternal(item)}

	if _, err := p.doRequest(ctx, http.MethodPost, createEndpoint, url.Values{"metadata_type": {listID}}, payload); err != nil {
		return err
	}
	p.logger.Info("Элемент добавлен в справочник",
		zap.String("list_id", listID),
		zap.String("name", item.Name),
		zap.String("code", item.Code),
	)
	return nil
}
