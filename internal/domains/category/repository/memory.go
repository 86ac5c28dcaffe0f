package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"bookstore-catalog/internal/domains/category/model"
	"bookstore-catalog/internal/shared/listing"
	"bookstore-catalog/internal/shared/utils"
)

// MemoryRepository keeps categories in insertion order and enforces exact-name
// uniqueness the way the database constraint does.
type MemoryRepository struct {
	mu         sync.RWMutex
	categories []model.Category
	nextID     int64
}

// NewMemoryRepository creates an empty category store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{nextID: 1}
}

// Create appends a category, failing with ErrDuplicateName when the exact name exists.
func (r *MemoryRepository) Create(_ context.Context, in model.CreateCategoryInput) (*model.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.categories {
		if c.Name == in.Name {
			return nil, model.ErrDuplicateName
		}
	}

	now := utils.Now()
	c := model.Category{
		ID:        r.nextID,
		Name:      in.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.nextID++
	r.categories = append(r.categories, c)

	out := c
	return &out, nil
}

// List filters by name, orders by id descending and cuts one page.
func (r *MemoryRepository) List(_ context.Context, filter model.CategoryFilter) (listing.Result[model.Category], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return listing.Apply(r.categories, filter.Params, filter.Matches, func(c model.Category) int64 { return c.ID }), nil
}

// FindByName returns the category whose name equals name ignoring case, or nil.
func (r *MemoryRepository) FindByName(_ context.Context, name string) (*model.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.categories {
		if strings.EqualFold(c.Name, name) {
			out := c
			return &out, nil
		}
	}
	return nil, nil
}

// FindByIDs implements Lookup.
func (r *MemoryRepository) FindByIDs(_ context.Context, ids []int64) ([]model.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wanted := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}

	out := make([]model.Category, 0, len(wanted))
	for _, c := range r.categories {
		if _, ok := wanted[c.ID]; ok {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
