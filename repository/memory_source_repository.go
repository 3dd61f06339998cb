package repository

import (
	"context"
	"sort"
	"sync"

	"legalmind-backend/models"
)

// MemorySourceRepository is an in-process legal source store. It serves
// development without Postgres and tests; ordering matches the SQL
// repository (last_updated descending, id ascending on ties).
type MemorySourceRepository struct {
	mu      sync.RWMutex
	sources []models.LegalSource
}

// NewMemorySourceRepository creates an in-memory source repository
func NewMemorySourceRepository(sources ...models.LegalSource) *MemorySourceRepository {
	return &MemorySourceRepository{sources: sources}
}

// Add inserts a source record
func (r *MemorySourceRepository) Add(source models.LegalSource) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources = append(r.sources, source)
}

// TopSources retrieves up to limit Verified sources for a jurisdiction,
// most recently updated first
func (r *MemorySourceRepository) TopSources(ctx context.Context, jurisdiction string, limit int) ([]models.LegalSource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []models.LegalSource
	for _, s := range r.sources {
		if s.Jurisdiction == jurisdiction && s.Status == models.SourceStatusVerified {
			matched = append(matched, s)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if !matched[i].LastUpdated.Equal(matched[j].LastUpdated) {
			return matched[i].LastUpdated.After(matched[j].LastUpdated)
		}
		return matched[i].ID.String() < matched[j].ID.String()
	})

	if limit >= 0 && len(matched) > limit {
		matched = matched[:limit]
	}

	return matched, nil
}
