package mock

import (
	"context"
	"errors"
	"strings"
	"sync"

	"inspection-ingest/internal/integrations/dto"
)

var ErrMockFailure = errors.New("mock provider failure")

// MockProvider хранит справочники в памяти. Используется при
// CATALOG_PROVIDER=mock и в тестах.
type MockProvider struct {
	ShouldFailList   bool
	ShouldFailCreate bool

	mu          sync.Mutex
	lists       map[string][]dto.CatalogItem
	listCalls   int
	createCalls int
}

func NewMockProvider() *MockProvider {
	return &MockProvider{lists: make(map[string][]dto.CatalogItem)}
}

func (m *MockProvider) Name() string {
	return "mock"
}

// Seed заранее кладет элементы в справочник.
func (m *MockProvider) Seed(listID string, items ...dto.CatalogItem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lists[listID] = append(m.lists[listID], items...)
}

func (m *MockProvider) ListObjects(ctx context.Context, listID string) ([]dto.CatalogItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++

	if m.ShouldFailList {
		return nil, ErrMockFailure
	}
	items := make([]dto.CatalogItem, len(m.lists[listID]))
	copy(items, m.lists[listID])
	return items, nil
}

func (m *MockProvider) CreateObject(ctx context.Context, listID string, item dto.CatalogItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createCalls++

	if m.ShouldFailCreate {
		return ErrMockFailure
	}
	m.lists[listID] = append(m.lists[listID], item)
	return nil
}

// Items - текущее содержимое справочника.
func (m *MockProvider) Items(listID string) []dto.CatalogItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	items := make([]dto.CatalogItem, len(m.lists[listID]))
	copy(items, m.lists[listID])
	return items
}

func (m *MockProvider) Has(listID, name string) bool {
	for _, it := range m.Items(listID) {
		if strings.EqualFold(it.Name, name) {
			return true
		}
	}
	return false
}

func (m *MockProvider) Calls() (list, create int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listCalls, m.createCalls
}
