// Файл: internal/integrations/registry.go
package integrations

import (
	"fmt"
	"sync"

	apperrors "inspection-ingest/pkg/errors"
)

// RegistryInterface определяет, что должен уметь наш реестр.
type RegistryInterface interface {
	// Register добавляет нового провайдера в список доступных.
	Register(provider CatalogProvider) error

	// Get находит и возвращает провайдера по его имени.
	Get(name string) (CatalogProvider, error)

	// SetActive устанавливает, какой провайдер является "главным" на данный момент.
	SetActive(name string) error

	// GetActive возвращает активного провайдера.
	GetActive() (CatalogProvider, error)
}

type Registry struct {
	providers map[string]CatalogProvider
	active    string
	mu        sync.RWMutex
}

func NewRegistry() RegistryInterface {
	return &Registry{
		providers: make(map[string]CatalogProvider),
	}
}

func (r *Registry) Register(provider CatalogProvider) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := provider.Name()
	if _, exists := r.providers[name]; exists {
		return fmt.Errorf("провайдер с именем '%s' уже зарегистрирован", name)
	}

	r.providers[name] = provider
	return nil
}

func (r *Registry) Get(name string) (CatalogProvider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	provider, exists := r.providers[name]
	if !exists {
		return nil, fmt.Errorf("%w: '%s'", apperrors.ErrProviderNotFound, name)
	}
	return provider, nil
}

func (r *Registry) SetActive(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.providers[name]; !exists {
		return fmt.Errorf("невозможно установить активным провайдера '%s': %w", name, apperrors.ErrProviderNotFound)
	}

	r.active = name
	return nil
}

func (r *Registry) GetActive() (CatalogProvider, error) {
	r.mu.RLock()
	activeName := r.active
	r.mu.RUnlock()

	if activeName == "" {
		return nil, fmt.Errorf("активный провайдер не установлен: %w", apperrors.ErrProviderNotFound)
	}

	return r.Get(activeName)
}
