package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"evcharge-pipeline/models"
)

// MemoryStore is an in-memory RecordStore keyed by slug. It backs dry runs
// and tests, honoring the same upsert contract as the Postgres store.
type MemoryStore struct {
	mu       sync.RWMutex
	records  map[string]*models.LocalityRecord
	maxConns int

	// FailSlugs makes Upsert fail for the listed slugs, for exercising
	// the orchestrator's per-item error handling.
	FailSlugs map[string]bool
}

// NewMemoryStore creates an empty MemoryStore with the given declared
// connection ceiling.
func NewMemoryStore(maxConns int) *MemoryStore {
	if maxConns <= 0 {
		maxConns = 10
	}
	return &MemoryStore{
		records:  make(map[string]*models.LocalityRecord),
		maxConns: maxConns,
	}
}

// Upsert inserts or updates the record keyed by slug and returns its id.
func (ms *MemoryStore) Upsert(_ context.Context, rec *models.LocalityRecord) (string, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if ms.FailSlugs[rec.Slug] {
		return "", ErrWriteFailed
	}

	stored := *rec
	stored.UpdatedAt = time.Now()
	if existing, ok := ms.records[rec.Slug]; ok {
		stored.ID = existing.ID
	} else {
		stored.ID = uuid.NewString()
	}
	ms.records[rec.Slug] = &stored

	return stored.ID, nil
}

// FindMany retrieves records matching the filter, largest population first.
func (ms *MemoryStore) FindMany(_ context.Context, filter RecordFilter) ([]*models.LocalityRecord, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	var records []*models.LocalityRecord
	for _, rec := range ms.records {
		if filter.ContentGenerated != nil && rec.ContentGenerated != *filter.ContentGenerated {
			continue
		}
		if filter.RegionCode != "" && rec.RegionCode != filter.RegionCode {
			continue
		}
		copied := *rec
		records = append(records, &copied)
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].Population != records[j].Population {
			return records[i].Population > records[j].Population
		}
		return records[i].Slug < records[j].Slug
	})

	if filter.Limit > 0 && len(records) > filter.Limit {
		records = records[:filter.Limit]
	}
	return records, nil
}

// MaxConcurrentConnections declares the ceiling the orchestrator must honor.
func (ms *MemoryStore) MaxConcurrentConnections() int {
	return ms.maxConns
}

// Count returns the number of stored records.
func (ms *MemoryStore) Count() int {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return len(ms.records)
}

// Get returns the stored record for a slug, or nil.
func (ms *MemoryStore) Get(slug string) *models.LocalityRecord {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	if rec, ok := ms.records[slug]; ok {
		copied := *rec
		return &copied
	}
	return nil
}

func (ms *MemoryStore) Close() error {
	return nil
}
