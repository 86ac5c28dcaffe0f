package repository

import (
	"context"
	"sort"
	"sync"

	"bookstore-catalog/internal/domains/author/model"
	"bookstore-catalog/internal/shared/listing"
	"bookstore-catalog/internal/shared/utils"
)

// MemoryRepository keeps authors in insertion order. It is a full adapter of
// RepositoryInterface, used by tests and by STORAGE_DRIVER=memory.
type MemoryRepository struct {
	mu      sync.RWMutex
	authors []model.Author
	nextID  int64
}

// NewMemoryRepository creates an empty author store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{nextID: 1}
}

// Create appends a new author with the next id.
func (r *MemoryRepository) Create(_ context.Context, in model.CreateAuthorInput) (*model.Author, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := utils.Now()
	a := model.Author{
		ID:        r.nextID,
		Name:      in.Name,
		Bio:       cloneString(in.Bio),
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.nextID++
	r.authors = append(r.authors, a)

	out := a
	return &out, nil
}

// List filters by name, orders by id descending and cuts one page.
func (r *MemoryRepository) List(_ context.Context, filter model.AuthorFilter) (listing.Result[model.Author], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res := listing.Apply(r.authors, filter.Params, filter.Matches, func(a model.Author) int64 { return a.ID })
	for i := range res.Items {
		res.Items[i].Bio = cloneString(res.Items[i].Bio)
	}
	return res, nil
}

// FindByIDs implements Lookup.
func (r *MemoryRepository) FindByIDs(_ context.Context, ids []int64) ([]model.Author, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wanted := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}

	out := make([]model.Author, 0, len(wanted))
	for _, a := range r.authors {
		if _, ok := wanted[a.ID]; ok {
			a.Bio = cloneString(a.Bio)
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
