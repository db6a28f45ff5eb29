package memory

import (
	"context"
	"sync"

	"github.com/vadimbarashkov/shortlink-registry/internal/entity"
)

// Backend keeps the last saved registry in process memory.
type Backend struct {
	mu      sync.Mutex
	records []*entity.URLRecord
	saves   int
}

func New(records ...*entity.URLRecord) *Backend {
	return &Backend{records: cloneAll(records)}
}

func (b *Backend) Load(ctx context.Context) ([]*entity.URLRecord, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return cloneAll(b.records), nil
}

func (b *Backend) Save(ctx context.Context, records []*entity.URLRecord) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.records = cloneAll(records)
	b.saves++

	return nil
}

// Saves reports how many times Save was called.
func (b *Backend) Saves() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.saves
}

func cloneAll(records []*entity.URLRecord) []*entity.URLRecord {
	out := make([]*entity.URLRecord, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}
	return out
}
