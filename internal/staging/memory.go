package staging

import (
	"context"
	"sync"

	"github.com/PaulDelamare/FoudViseur/internal/domain"
)

// Memory keeps scanned products in process memory.
type Memory struct {
	products []domain.ScannedProduct
	mu       sync.RWMutex
}

// NewMemory creates an empty in-process staging list
func NewMemory() *Memory {
	return &Memory{}
}

var _ domain.ScannedStaging = (*Memory)(nil)

func (m *Memory) Add(_ context.Context, product domain.ScannedProduct) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products = append(m.products, product)
	return nil
}

func (m *Memory) All(_ context.Context) ([]domain.ScannedProduct, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.ScannedProduct, len(m.products))
	copy(out, m.products)
	return out, nil
}

// First returns the oldest staged product, or nil when the list is empty.
func (m *Memory) First(_ context.Context) (*domain.ScannedProduct, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.products) == 0 {
		return nil, nil
	}
	p := m.products[0]
	return &p, nil
}

// Drain returns every staged product and empties the list.
func (m *Memory) Drain(_ context.Context) ([]domain.ScannedProduct, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.products
	m.products = nil
	if out == nil {
		out = []domain.ScannedProduct{}
	}
	return out, nil
}

func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products = nil
	return nil
}
