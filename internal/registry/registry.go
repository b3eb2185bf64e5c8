// Package registry holds the live KnowledgeIndex for each tenant.
//
// Indexes themselves are immutable after build; the registry adds the one
// piece of synchronization the core does not provide: swapping a tenant's
// index reference while searches read it concurrently.
package registry

import (
	"sort"
	"sync"

	"github.com/kotae-dev/kotae/internal/models"
)

// Registry maps tenant IDs to their current index.
type Registry struct {
	mu      sync.RWMutex
	indexes map[string]*models.KnowledgeIndex
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{indexes: make(map[string]*models.KnowledgeIndex)}
}

// Get returns the current index for tenantID, or false if the tenant is unknown.
func (r *Registry) Get(tenantID string) (*models.KnowledgeIndex, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	idx, ok := r.indexes[tenantID]
	return idx, ok
}

// Set installs a freshly built index for its tenant, replacing any previous one.
func (r *Registry) Set(index *models.KnowledgeIndex) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.indexes[index.TenantID] = index
}

// Tenants returns the known tenant IDs in sorted order.
func (r *Registry) Tenants() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.indexes))
	for id := range r.indexes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// TenantStats describes one tenant's index for status reporting.
type TenantStats struct {
	TenantID  string `json:"tenant_id"`
	Documents int    `json:"documents"`
	Chunks    int    `json:"chunks"`
}

// Stats returns per-tenant document and chunk counts, sorted by tenant ID.
func (r *Registry) Stats() []TenantStats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stats := make([]TenantStats, 0, len(r.indexes))
	for id, idx := range r.indexes {
		stats = append(stats, TenantStats{
			TenantID:  id,
			Documents: idx.DocCount(),
			Chunks:    idx.Len(),
		})
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].TenantID < stats[j].TenantID })
	return stats
}
