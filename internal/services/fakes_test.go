package services

import (
	"context"
	"errors"
	"sync"

	"github.com/aarondl/null/v8"

	"inspection-ingest/internal/entities"
	"inspection-ingest/internal/repositories"
	apperrors "inspection-ingest/pkg/errors"
	"inspection-ingest/pkg/types"
)

var errConstraint = errors.New("violates check constraint")

// memRepository - хранилище в памяти с транзакциями на уровне строки.
type memRepository struct {
	mu         sync.Mutex
	nextID     uint64
	records    map[string]*entities.Equipment
	failTags   map[string]error
	sessionErr error

	opened int
	closed int
}

func newMemRepository() *memRepository {
	return &memRepository{records: map[string]*entities.Equipment{}, failTags: map[string]error{}}
}

func memKey(tag string, date null.Time) string {
	if !date.Valid {
		return tag + "|null"
	}
	return tag + "|" + date.Time.UTC().String()
}

func (r *memRepository) Session(ctx context.Context) (repositories.EquipmentSessionInterface, error) {
	if r.sessionErr != nil {
		return nil, r.sessionErr
	}
	r.mu.Lock()
	r.opened++
	r.mu.Unlock()
	return &memSession{repo: r}, nil
}

func (r *memRepository) GetEquipments(ctx context.Context, filter types.Filter) ([]entities.Equipment, uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := make([]entities.Equipment, 0, len(r.records))
	for _, rec := range r.records {
		list = append(list, *rec)
	}
	return list, uint64(len(list)), nil
}

func (r *memRepository) FindEquipment(ctx context.Context, id uint64) (*entities.Equipment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.records {
		if rec.ID == id {
			cp := *rec
			return &cp, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *memRepository) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

func (r *memRepository) get(tag string, date null.Time) *entities.Equipment {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.records[memKey(tag, date)]
}

type memSession struct {
	repo *memRepository
}

// InTx держит блокировку хранилища всю транзакцию и применяет изменения
// только если fn вернула nil.
func (s *memSession) InTx(ctx context.Context, fn func(tx repositories.EquipmentTxInterface) error) error {
	s.repo.mu.Lock()
	defer s.repo.mu.Unlock()

	tx := &memTx{repo: s.repo, pending: map[string]*entities.Equipment{}, nextID: s.repo.nextID}
	if err := fn(tx); err != nil {
		return err
	}
	for k, rec := range tx.pending {
		s.repo.records[k] = rec
	}
	s.repo.nextID = tx.nextID
	return nil
}

func (s *memSession) Close() {
	s.repo.mu.Lock()
	s.repo.closed++
	s.repo.mu.Unlock()
}

type memTx struct {
	repo    *memRepository
	pending map[string]*entities.Equipment
	nextID  uint64
}

func (t *memTx) LockKey(ctx context.Context, tag string, date null.Time) error {
	return nil
}

func (t *memTx) FindByKey(ctx context.Context, tag string, date null.Time) (*entities.Equipment, error) {
	rec, ok := t.repo.records[memKey(tag, date)]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (t *memTx) Create(ctx context.Context, record entities.Equipment) (*entities.Equipment, error) {
	if err := t.repo.failTags[record.Tag]; err != nil {
		return nil, err
	}
	t.nextID++
	record.ID = t.nextID
	t.pending[memKey(record.Tag, record.AssignedDate)] = &record
	cp := record
	return &cp, nil
}

func (t *memTx) Update(ctx context.Context, id uint64, record entities.Equipment) (*entities.Equipment, error) {
	if err := t.repo.failTags[record.Tag]; err != nil {
		return nil, err
	}
	record.ID = id
	t.pending[memKey(record.Tag, record.AssignedDate)] = &record
	cp := record
	return &cp, nil
}
