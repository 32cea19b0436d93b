package client

import (
	"context"
	"strings"
	"sync"

	"github.com/nkhandel/bookstock/pkg/collection"
)

// AllCategories is the sentinel that disables category filtering.
const AllCategories = "All"

// ProductCache mirrors the last full product list fetched from the server.
// Search and filtering are answered locally from that snapshot; the cache
// is never patched by local edits, only replaced wholesale by Refresh.
type ProductCache struct {
	client  *Client
	session *Session

	mu    sync.RWMutex
	items []Product
}

// NewProductCache creates an empty cache bound to one client and session.
func NewProductCache(c *Client, s *Session) *ProductCache {
	return &ProductCache{client: c, session: s}
}

// Refresh discards the snapshot and refetches the entire list.
func (pc *ProductCache) Refresh(ctx context.Context) error {
	items, err := pc.client.Products(ctx, pc.session)
	if err != nil {
		return err
	}

	pc.mu.Lock()
	pc.items = items
	pc.mu.Unlock()
	return nil
}

// All returns a copy of the cached list.
func (pc *ProductCache) All() []Product {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	out := make([]Product, len(pc.items))
	copy(out, pc.items)
	return out
}

// Len returns the number of cached products.
func (pc *ProductCache) Len() int {
	pc.mu.RLock()
	defer pc.mu.RUnlock()
	return len(pc.items)
}

// Search returns products whose name contains term, case-insensitively.
// An empty term matches everything.
func (pc *ProductCache) Search(term string) []Product {
	return pc.Query(term, AllCategories)
}

// FilterByCategory returns products whose category matches exactly, or the
// full list for the "All" sentinel.
func (pc *ProductCache) FilterByCategory(category string) []Product {
	return pc.Query("", category)
}

// Query applies the name search and category filter conjunctively, always
// deriving from the full snapshot.
func (pc *ProductCache) Query(term, category string) []Product {
	items := pc.All()
	lowered := strings.ToLower(term)

	return collection.Filter(items, func(p Product) bool {
		if lowered != "" && !strings.Contains(strings.ToLower(p.Name), lowered) {
			return false
		}
		if category != AllCategories && p.Category != category {
			return false
		}
		return true
	})
}
