package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"inspection-ingest/internal/dto"
	"inspection-ingest/internal/ingest"
	apperrors "inspection-ingest/pkg/errors"
)

type RowNormalizer interface {
	Normalize(row dto.BatchRowDTO) (*ingest.Draft, error)
}

type IngestServiceInterface interface {
	ProcessBatch(ctx context.Context, req dto.BatchRequestDTO) (*dto.BatchResponseDTO, error)
	SyncValues(ctx context.Context, rows []map[string]interface{}) (*dto.CatalogSyncBatchResultDTO, error)
}

type IngestService struct {
	normalizer       RowNormalizer
	tags             ingest.TagSource
	equipmentService EquipmentServiceInterface
	catalogSync      CatalogSyncServiceInterface
	syncWorkers      int
	logger           *zap.Logger
}

func NewIngestService(
	normalizer RowNormalizer,
	tags ingest.TagSource,
	equipmentService EquipmentServiceInterface,
	catalogSync CatalogSyncServiceInterface,
	syncWorkers int,
	logger *zap.Logger,
) *IngestService {
	if syncWorkers < 1 {
		syncWorkers = 1
	}
	return &IngestService{
		normalizer:       normalizer,
		tags:             tags,
		equipmentService: equipmentService,
		catalogSync:      catalogSync,
		syncWorkers:      syncWorkers,
		logger:           logger.Named("ingest_service"),
	}
}

// ProcessBatch возвращает ошибку только если хранилище недоступно целиком.
// Все остальные сбои попадают в ответ построчно.
func (s *IngestService) ProcessBatch(ctx context.Context, req dto.BatchRequestDTO) (*dto.BatchResponseDTO, error) {
	log := s.logger.With(
		zap.String("batch_id", uuid.NewString()),
		zap.String("sheet", req.Sheet),
		zap.Int("rows", len(req.Rows)),
	)
	log.Info("начата обработка пакета")

	resp := &dto.BatchResponseDTO{
		Success:      true,
		Message:      fmt.Sprintf("Processed %d rows", len(req.Rows)),
		Results:      []dto.RowResultDTO{},
		ErrorDetails: []dto.RowErrorDTO{},
	}

	drafts := make([]ingest.Draft, 0, len(req.Rows))
	for _, row := range req.Rows {
		draft, err := s.normalizer.Normalize(row)
		if err != nil {
			resp.ErrorDetails = append(resp.ErrorDetails, dto.RowErrorDTO{RowNumber: row.RowNumber, Error: rowReason(err)})
			log.Warn("строка не прошла проверку", zap.Int("row", row.RowNumber), zap.Error(err))
			continue
		}
		drafts = append(drafts, *draft)
	}

	if len(drafts) > 0 {
		session, err := s.equipmentService.OpenSession(ctx)
		if err != nil {
			log.Error("хранилище недоступно", zap.Error(err))
			return nil, err
		}
		outcomes := func() []UpsertOutcome {
			defer session.Close()
			return s.equipmentService.UpsertBatch(ctx, session, drafts)
		}()

		resp.Results = s.collect(ctx, drafts, outcomes, resp)
	}

	resp.Errors = len(resp.ErrorDetails)
	log.Info("пакет обработан",
		zap.Int("processed", resp.Processed),
		zap.Int("errors", resp.Errors),
	)
	return resp, nil
}

// collect строит results и запускает синхронизацию справочников только
// для записанных строк.
func (s *IngestService) collect(ctx context.Context, drafts []ingest.Draft, outcomes []UpsertOutcome, resp *dto.BatchResponseDTO) []dto.RowResultDTO {
	results := make([]dto.RowResultDTO, len(outcomes))

	var g errgroup.Group
	g.SetLimit(s.syncWorkers)

	for i, outcome := range outcomes {
		if outcome.Err != nil {
			results[i] = dto.RowResultDTO{RowNumber: outcome.RowNumber, Error: outcome.Err.Error()}
			resp.ErrorDetails = append(resp.ErrorDetails, dto.RowErrorDTO{RowNumber: outcome.RowNumber, Error: outcome.Err.Error()})
			continue
		}

		resp.Processed++
		results[i] = dto.RowResultDTO{
			RowNumber: outcome.RowNumber,
			ID:        outcome.Record.ID,
			Action:    outcome.Action,
			Tag:       outcome.Record.Tag,
			Data:      outcome.Record,
		}

		if s.catalogSync == nil || !s.catalogSync.Enabled() {
			continue
		}
		draft := drafts[i]
		i := i
		g.Go(func() error {
			summary := s.catalogSync.AfterPersist(ctx, RowSyncInput{
				RowNumber: draft.RowNumber,
				Data:      draft.Raw,
				Tag:       draft.Tag,
			})
			if summary.Attempted > 0 || len(summary.Errors) > 0 {
				results[i].CatalogSync = &summary
			}
			return nil
		})
	}

	_ = g.Wait()
	return results
}

// SyncValues прогоняет синхронизацию справочников по произвольным строкам
// без записи в базу.
func (s *IngestService) SyncValues(ctx context.Context, rows []map[string]interface{}) (*dto.CatalogSyncBatchResultDTO, error) {
	if s.catalogSync == nil || !s.catalogSync.Enabled() {
		return nil, apperrors.ErrCatalogDisabled
	}

	total := dto.CatalogSyncSummaryDTO{Errors: []string{}}
	for i, data := range rows {
		if data == nil {
			continue
		}
		tag := s.tags.Resolve(data, nil, i+1)
		total.Merge(s.catalogSync.AfterPersist(ctx, RowSyncInput{RowNumber: i + 1, Data: data, Tag: tag}))
	}

	s.logger.Info("ручная синхронизация справочников",
		zap.Int("rows", len(rows)),
		zap.Int("attempted", total.Attempted),
		zap.Int("succeeded", total.Succeeded),
	)
	// Ни одно значение не прошло: сервис справочников недоступен целиком
	if total.Attempted > 0 && total.Succeeded == 0 {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrCatalogUnavailable, strings.Join(total.Errors, "; "))
	}
	return &dto.CatalogSyncBatchResultDTO{
		Processed:  total.Attempted,
		Successful: total.Succeeded,
		Errors:     total.Errors,
	}, nil
}

func rowReason(err error) string {
	var rowErr *ingest.RowError
	if errors.As(err, &rowErr) {
		return rowErr.Reason
	}
	return err.Error()
}
