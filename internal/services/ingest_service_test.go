package services

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"inspection-ingest/internal/dto"
	"inspection-ingest/internal/ingest"
	apperrors "inspection-ingest/pkg/errors"
)

// rejectingNormalizer отклоняет выбранные строки так, будто у них нет тега.
type rejectingNormalizer struct {
	next   *ingest.Normalizer
	reject map[int]bool
}

func (n rejectingNormalizer) Normalize(row dto.BatchRowDTO) (*ingest.Draft, error) {
	if n.reject[row.RowNumber] {
		return nil, &ingest.RowError{RowNumber: row.RowNumber, Reason: ingest.ReasonMissingTag}
	}
	return n.next.Normalize(row)
}

type IngestServiceTestSuite struct {
	suite.Suite
	repo    *memRepository
	catalog *catalogFixture
	reject  map[int]bool
	service *IngestService
}

func (s *IngestServiceTestSuite) SetupTest() {
	s.repo = newMemRepository()
	s.catalog = newCatalogFixture(true)
	s.reject = map[int]bool{}
	s.service = s.newService(1)
}

func (s *IngestServiceTestSuite) newService(workers int) *IngestService {
	tags := ingest.NewTagResolver(func() time.Time { return time.UnixMilli(1700000000000) })
	return NewIngestService(
		rejectingNormalizer{next: ingest.NewNormalizer(tags), reject: s.reject},
		tags,
		NewEquipmentService(s.repo, zap.NewNop()),
		s.catalog.svc,
		workers,
		zap.NewNop(),
	)
}

func row(n int, data map[string]interface{}) dto.BatchRowDTO {
	return dto.BatchRowDTO{RowNumber: n, Data: data}
}

func (s *IngestServiceTestSuite) process(rows ...dto.BatchRowDTO) *dto.BatchResponseDTO {
	resp, err := s.service.ProcessBatch(context.Background(), dto.BatchRequestDTO{Sheet: "Inspecciones", Rows: rows})
	s.Require().NoError(err)
	return resp
}

func (s *IngestServiceTestSuite) TestRowValidationFailureDoesNotStopBatch() {
	s.reject[2] = true

	resp := s.process(
		row(1, map[string]interface{}{"Tag": "T-1"}),
		row(2, map[string]interface{}{}),
		row(3, map[string]interface{}{"Tag": "T-3"}),
	)

	s.True(resp.Success)
	s.Equal("Processed 3 rows", resp.Message)
	s.Equal(2, resp.Processed)
	s.Equal(1, resp.Errors)
	s.Equal([]dto.RowErrorDTO{{RowNumber: 2, Error: "missing required field: tag"}}, resp.ErrorDetails)
	s.Require().Len(resp.Results, 2)
	s.Equal(1, resp.Results[0].RowNumber)
	s.Equal(3, resp.Results[1].RowNumber)
	s.Equal(2, s.repo.count())
}

func (s *IngestServiceTestSuite) TestOutOfRangeValuesBecomeNull() {
	resp := s.process(row(1, map[string]interface{}{
		"Tag":                "T-1",
		"assigned_date":      1.7e15,
		"created":            -1e14,
		"minutes_to_perform": "3000000000",
		"latitude":           123.4,
	}))

	s.Equal(1, resp.Processed)
	s.Zero(resp.Errors)

	stored := s.repo.get("T-1", null.Time{})
	s.Require().NotNil(stored)
	s.False(stored.AssignedDate.Valid)
	s.False(stored.Created.Valid)
	s.False(stored.MinutesToPerform.Valid)
	s.False(stored.Latitude.Valid)

	_, err := json.Marshal(resp)
	s.NoError(err)
}

func (s *IngestServiceTestSuite) TestSameKeyIsOverwritten() {
	date := "2024-03-01"
	resp := s.process(
		row(1, map[string]interface{}{"Tag": "T-1", "assigned_date": date, "Servicio": "Preventivo", "Zona - Cliente": "Norte"}),
		row(2, map[string]interface{}{"Tag": "T-1", "assigned_date": date, "Servicio": "Correctivo"}),
	)

	s.Require().Len(resp.Results, 2)
	s.Equal(dto.ActionCreated, resp.Results[0].Action)
	s.Equal(dto.ActionUpdated, resp.Results[1].Action)
	s.Equal(resp.Results[0].ID, resp.Results[1].ID)
	s.Equal(1, s.repo.count())

	stored := s.repo.get("T-1", null.TimeFrom(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))
	s.Require().NotNil(stored)
	s.Equal(null.StringFrom("Correctivo"), stored.Servicio)
	s.False(stored.ZonaCliente.Valid, "обновление заменяет запись целиком")
}

func (s *IngestServiceTestSuite) TestDateIsPartOfKey() {
	resp := s.process(
		row(1, map[string]interface{}{"Tag": "X", "assigned_date": "2024-03-01"}),
		row(2, map[string]interface{}{"Tag": "X", "assigned_date": "2024-03-02"}),
		row(3, map[string]interface{}{"Tag": "X"}),
		row(4, map[string]interface{}{"Tag": "X", "assigned_date": "not a date"}),
	)

	s.Equal(4, resp.Processed)
	s.Equal(dto.ActionCreated, resp.Results[0].Action)
	s.Equal(dto.ActionCreated, resp.Results[1].Action)
	s.Equal(dto.ActionCreated, resp.Results[2].Action)
	s.Equal(dto.ActionUpdated, resp.Results[3].Action, "null совпадает только с null")
	s.Equal(3, s.repo.count())
}

func (s *IngestServiceTestSuite) TestPersistenceFailureIsPerRow() {
	s.repo.failTags["BAD"] = errConstraint

	resp := s.process(
		row(1, map[string]interface{}{"Tag": "T-1"}),
		row(2, map[string]interface{}{"Tag": "BAD"}),
		row(3, map[string]interface{}{"Tag": "T-3"}),
	)

	s.Equal(2, resp.Processed)
	s.Equal(1, resp.Errors)
	s.Require().Len(resp.Results, 3)
	s.Equal(errConstraint.Error(), resp.Results[1].Error)
	s.Empty(resp.Results[1].Action)
	s.Nil(resp.Results[1].CatalogSync)
	s.Equal([]dto.RowErrorDTO{{RowNumber: 2, Error: errConstraint.Error()}}, resp.ErrorDetails)
	s.Equal(2, s.repo.count())

	s.True(s.catalog.provider.Has(ListTags, "T-1"))
	s.False(s.catalog.provider.Has(ListTags, "BAD"), "несохраненная строка не синхронизируется")
	s.Require().NotNil(resp.Results[0].CatalogSync)
	s.True(resp.Results[0].CatalogSync.TagAdded)
}

func (s *IngestServiceTestSuite) TestStoreUnavailable() {
	s.repo.sessionErr = fmt.Errorf("%w: dial tcp: connection refused", apperrors.ErrStoreUnavailable)

	resp, err := s.service.ProcessBatch(context.Background(), dto.BatchRequestDTO{
		Rows: []dto.BatchRowDTO{row(1, map[string]interface{}{"Tag": "T-1"})},
	})

	s.Nil(resp)
	s.ErrorIs(err, apperrors.ErrStoreUnavailable)
	s.Zero(s.repo.count())
	lists, creates := s.catalog.provider.Calls()
	s.Zero(lists + creates)
}

func (s *IngestServiceTestSuite) TestSessionReleased() {
	s.process(row(1, map[string]interface{}{"Tag": "T-1"}))
	s.Equal(1, s.repo.opened)
	s.Equal(1, s.repo.closed)
}

func (s *IngestServiceTestSuite) TestNoSessionWhenEveryRowRejected() {
	s.reject[1] = true

	resp := s.process(row(1, map[string]interface{}{}))

	s.Zero(resp.Processed)
	s.Equal(1, resp.Errors)
	s.Empty(resp.Results)
	s.Zero(s.repo.opened)
}

func (s *IngestServiceTestSuite) TestSyntheticTagNotSynced() {
	resp := s.process(row(5, map[string]interface{}{"Servicio": "Preventivo"}))

	s.Require().Len(resp.Results, 1)
	s.Equal("AUTO-5", resp.Results[0].Tag)
	s.Nil(resp.Results[0].CatalogSync)
	lists, creates := s.catalog.provider.Calls()
	s.Zero(lists + creates)
}

func (s *IngestServiceTestSuite) TestCatalogSyncDisabled() {
	s.catalog = newCatalogFixture(false)
	s.service = s.newService(1)

	resp := s.process(row(1, map[string]interface{}{"Tag": "T-1", "Ejecutado por": "Otro", "Otro - Ejecutado por": "Ana"}))

	s.Equal(1, resp.Processed)
	s.Nil(resp.Results[0].CatalogSync)
	s.Empty(s.catalog.provider.Items(ListTags))
}

func (s *IngestServiceTestSuite) TestParallelCatalogSyncKeepsRowOrder() {
	s.service = s.newService(4)

	rows := make([]dto.BatchRowDTO, 0, 8)
	for i := 1; i <= 8; i++ {
		rows = append(rows, row(i, map[string]interface{}{"Tag": fmt.Sprintf("T-%d", i)}))
	}
	resp := s.process(rows...)

	s.Equal(8, resp.Processed)
	for i, r := range resp.Results {
		s.Equal(i+1, r.RowNumber)
		s.Require().NotNil(r.CatalogSync)
		s.Equal(1, r.CatalogSync.Succeeded)
	}
	s.Len(s.catalog.provider.Items(ListTags), 8)
}

func (s *IngestServiceTestSuite) TestSyncValues() {
	res, err := s.service.SyncValues(context.Background(), []map[string]interface{}{
		{"Ejecutado por": "Otro", "Otro - Ejecutado por": "Ana"},
		{"Tipo de Equipo": "Otro", "Otro - Tipo de Equipo": "Bomba"},
		{"Ejecutado por": "Luis"},
	})

	s.Require().NoError(err)
	s.Equal(2, res.Processed)
	s.Equal(2, res.Successful)
	s.Empty(res.Errors)
	s.True(s.catalog.provider.Has(ListEjecutadoPor, "Ana"))
	s.True(s.catalog.provider.Has(ListTipoEquipo, "Bomba"))
}

func (s *IngestServiceTestSuite) TestSyncValuesDisabled() {
	s.catalog = newCatalogFixture(false)
	s.service = s.newService(1)

	_, err := s.service.SyncValues(context.Background(), []map[string]interface{}{{"Ejecutado por": "Otro"}})
	s.ErrorIs(err, apperrors.ErrCatalogDisabled)
}

func (s *IngestServiceTestSuite) TestSyncValuesCatalogUnavailable() {
	s.catalog.provider.ShouldFailCreate = true

	_, err := s.service.SyncValues(context.Background(), []map[string]interface{}{
		{"Ejecutado por": "Otro", "Otro - Ejecutado por": "Ana"},
	})

	s.Require().ErrorIs(err, apperrors.ErrCatalogUnavailable)
	s.Contains(err.Error(), `Failed to add "Ana"`)
}

func TestIngestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(IngestServiceTestSuite))
}
