package model

import (
	"time"

	"bookstore-catalog/internal/shared/listing"
)

// Category groups books. Names are unique; categories are immutable once created.
type Category struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// InUTC returns a copy with its timestamps in UTC.
func (c Category) InUTC() Category {
	c.CreatedAt = c.CreatedAt.UTC()
	c.UpdatedAt = c.UpdatedAt.UTC()
	return c
}

// CreateCategoryInput is what the repository needs to insert a category.
type CreateCategoryInput struct {
	Name string
}

// CategoryFilter - listing criteria for GET /categories
type CategoryFilter struct {
	listing.Params
}

// Matches reports whether the category satisfies the search term of the filter.
func (f CategoryFilter) Matches(c Category) bool {
	return !f.HasSearch() || listing.ContainsFold(c.Name, f.Search)
}
