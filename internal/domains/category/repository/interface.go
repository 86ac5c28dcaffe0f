package repository

import (
	"context"

	"bookstore-catalog/internal/domains/category/model"
	"bookstore-catalog/internal/shared/store"
)

// RepositoryInterface - category persistence port
type RepositoryInterface interface {
	store.CanCreate[model.CreateCategoryInput, model.Category]
	store.CanList[model.CategoryFilter, model.Category]
	store.CanFindByName[model.Category]
}

// Lookup resolves category ids for the in-memory book store.
type Lookup interface {
	// FindByIDs returns the categories with the given ids in ascending id order, skipping unknown ids.
	FindByIDs(ctx context.Context, ids []int64) ([]model.Category, error)
}
