package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"inspection-ingest/internal/dto"
	"inspection-ingest/internal/ingest"
	"inspection-ingest/internal/integrations"
	integrationDTO "inspection-ingest/internal/integrations/dto"
	"inspection-ingest/internal/repositories"
	"inspection-ingest/pkg/utils"
	"inspection-ingest/pkg/validation"
)

// OtherSentinel - значение выпадающего списка "другое": настоящее значение
// пользователь пишет в отдельную колонку.
const OtherSentinel = "Otro"

const (
	ListEjecutadoPor = "Ejecutadorpor_9519a06c"
	ListTipoEquipo   = "L27_1a17"
	ListTags         = "L64_4829"
)

// OtherFieldRule: если PrimaryField == "Otro", значение из OverrideField
// уходит в справочник ListID.
type OtherFieldRule struct {
	PrimaryField  string `validate:"notblank"`
	OverrideField string `validate:"notblank"`
	ListID        string `validate:"required,list_id"`
}

var DefaultOtherFieldRules = []OtherFieldRule{
	{PrimaryField: ingest.FieldEjecutado, OverrideField: "Otro - " + ingest.FieldEjecutado, ListID: ListEjecutadoPor},
	{PrimaryField: ingest.FieldTipoEquipo, OverrideField: "Otro - " + ingest.FieldTipoEquipo, ListID: ListTipoEquipo},
}

// RowSyncInput - данные успешно записанной строки для синхронизации.
type RowSyncInput struct {
	RowNumber int
	Data      map[string]interface{}
	Tag       ingest.ResolvedTag
}

// PostPersistHook вызывается для каждой строки после успешной записи.
// Результат не влияет на итог записи и не возвращает ошибок.
type PostPersistHook interface {
	AfterPersist(ctx context.Context, row RowSyncInput) dto.CatalogSyncSummaryDTO
}

type CatalogSyncServiceInterface interface {
	PostPersistHook
	Enabled() bool
	Detect(data map[string]interface{}, tag ingest.ResolvedTag) []dto.CatalogSyncRequestDTO
}

type CatalogSyncOptions struct {
	Enabled   bool
	CallDelay time.Duration
	CacheTTL  time.Duration
	Rules     []OtherFieldRule
}

type CatalogSyncService struct {
	provider integrations.CatalogProvider
	cache    repositories.CacheRepositoryInterface
	opts     CatalogSyncOptions
	logger   *zap.Logger

	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time
}

func NewCatalogSyncService(
	provider integrations.CatalogProvider,
	cache repositories.CacheRepositoryInterface,
	opts CatalogSyncOptions,
	logger *zap.Logger,
) *CatalogSyncService {
	logger = logger.Named("catalog_sync")
	if opts.Rules == nil {
		opts.Rules = DefaultOtherFieldRules
	}
	opts.Rules = validRules(opts.Rules, logger)
	if cache == nil {
		cache = repositories.NewNoopCacheRepository()
	}
	return &CatalogSyncService{
		provider: provider,
		cache:    cache,
		opts:     opts,
		logger:   logger,
		sleep:    sleepContext,
		now:      time.Now,
	}
}

// validRules отбрасывает правила с пустыми колонками или кривым ID справочника.
func validRules(rules []OtherFieldRule, logger *zap.Logger) []OtherFieldRule {
	v := validation.New()
	valid := make([]OtherFieldRule, 0, len(rules))
	for _, rule := range rules {
		if err := v.Validate(rule); err != nil {
			logger.Warn("правило Otro пропущено", zap.String("field", rule.PrimaryField), zap.String("list_id", rule.ListID), zap.Error(err))
			continue
		}
		valid = append(valid, rule)
	}
	return valid
}

func (s *CatalogSyncService) Enabled() bool {
	return s.opts.Enabled && s.provider != nil
}

// Detect собирает запросы на синхронизацию: по одному на каждое правило
// "Otro" и один на тег, если он не сгенерирован сервером.
func (s *CatalogSyncService) Detect(data map[string]interface{}, tag ingest.ResolvedTag) []dto.CatalogSyncRequestDTO {
	var requests []dto.CatalogSyncRequestDTO

	for _, rule := range s.opts.Rules {
		primary, ok := data[rule.PrimaryField].(string)
		if !ok || primary != OtherSentinel {
			continue
		}
		override, ok := data[rule.OverrideField].(string)
		if !ok || strings.TrimSpace(override) == "" {
			continue
		}
		requests = append(requests, dto.CatalogSyncRequestDTO{
			ListID:        rule.ListID,
			Value:         strings.TrimSpace(override),
			FieldName:     rule.PrimaryField,
			OverrideField: rule.OverrideField,
			RowData:       data,
		})
	}

	if tag.Tag != "" && !tag.Synthetic && !ingest.IsSyntheticTag(tag.Tag) {
		req := dto.CatalogSyncRequestDTO{
			ListID:     ListTags,
			Value:      tag.Tag,
			FieldName:  "Tag",
			Attribute1: tag.Components.Area,
			Attribute2: tag.Components.Type,
			RowData:    data,
		}
		if tag.Components.Type != "" || tag.Components.Number != "" {
			req.Description = fmt.Sprintf("Equipo: %s - %s", tag.Components.Type, tag.Components.Number)
		}
		requests = append(requests, req)
	}

	return requests
}

func (s *CatalogSyncService) AfterPersist(ctx context.Context, row RowSyncInput) (summary dto.CatalogSyncSummaryDTO) {
	summary = dto.CatalogSyncSummaryDTO{Errors: []string{}}
	if !s.Enabled() {
		return summary
	}

	defer func() {
		if p := recover(); p != nil {
			s.logger.Error("паника при синхронизации справочников", zap.Int("row", row.RowNumber), zap.Any("panic", p))
			summary.Errors = append(summary.Errors, fmt.Sprintf("catalog sync aborted: %v", p))
		}
	}()

	requests := s.Detect(row.Data, row.Tag)
	remote := false

	for _, req := range requests {
		summary.Attempted++

		if s.cached(ctx, req) {
			summary.Succeeded++
			continue
		}

		// Пауза между запросами к DataScope в рамках одной строки
		if remote {
			if err := s.sleep(ctx, s.opts.CallDelay); err != nil {
				summary.Errors = append(summary.Errors, failMessage(req, err))
				continue
			}
		}
		remote = true

		added, err := s.syncOne(ctx, req)
		if err != nil {
			s.logger.Warn("не удалось добавить значение в справочник",
				zap.Int("row", row.RowNumber),
				zap.String("list_id", req.ListID),
				zap.String("value", req.Value),
				zap.Error(err),
			)
			summary.Errors = append(summary.Errors, failMessage(req, err))
			continue
		}

		summary.Succeeded++
		if added && req.ListID == ListTags {
			summary.TagAdded = true
		}
	}

	return summary
}

// syncOne возвращает true, если значение было создано.
func (s *CatalogSyncService) syncOne(ctx context.Context, req dto.CatalogSyncRequestDTO) (bool, error) {
	if s.exists(ctx, req) {
		s.remember(ctx, req)
		return false, nil
	}

	description := req.Description
	if description == "" {
		description = "Auto-added from form: " + req.Value
	}
	item := integrationDTO.CatalogItem{
		Name:        req.Value,
		Description: description,
		Code:        utils.GenerateCatalogCode(req.Value, s.now()),
		Attribute1:  req.Attribute1,
		Attribute2:  req.Attribute2,
	}
	if err := s.provider.CreateObject(ctx, req.ListID, item); err != nil {
		return false, err
	}
	s.remember(ctx, req)
	return true, nil
}

// exists: любая ошибка проверки считается "не найдено".
func (s *CatalogSyncService) exists(ctx context.Context, req dto.CatalogSyncRequestDTO) bool {
	items, err := s.provider.ListObjects(ctx, req.ListID)
	if err != nil {
		s.logger.Warn("не удалось проверить наличие значения в справочнике",
			zap.String("list_id", req.ListID),
			zap.String("value", req.Value),
			zap.Error(err),
		)
		return false
	}
	for _, item := range items {
		if strings.EqualFold(item.Name, req.Value) || strings.EqualFold(item.Code, req.Value) {
			return true
		}
	}
	return false
}

func (s *CatalogSyncService) cached(ctx context.Context, req dto.CatalogSyncRequestDTO) bool {
	_, err := s.cache.Get(ctx, cacheKey(req))
	return err == nil
}

func (s *CatalogSyncService) remember(ctx context.Context, req dto.CatalogSyncRequestDTO) {
	if err := s.cache.Set(ctx, cacheKey(req), "1", s.opts.CacheTTL); err != nil {
		s.logger.Debug("не удалось записать в кеш справочников", zap.Error(err))
	}
}

func cacheKey(req dto.CatalogSyncRequestDTO) string {
	return "catalog:" + req.ListID + ":" + strings.ToLower(req.Value)
}

func failMessage(req dto.CatalogSyncRequestDTO, err error) string {
	return fmt.Sprintf("Failed to add \"%s\" to %s: %v", req.Value, req.FieldName, err)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
