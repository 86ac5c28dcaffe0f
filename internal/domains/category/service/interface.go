package service

import (
	"context"

	"bookstore-catalog/internal/domains/category/model"
	"bookstore-catalog/internal/shared/listing"
)

// ServiceInterface defines business operations for the category domain
type ServiceInterface interface {
	// Create stores a new category.
	// Errors: model.ErrDuplicateName when a category with the same name (any case) exists.
	Create(ctx context.Context, req model.CreateCategoryRequest) (*model.Category, error)

	// List returns one page of categories, newest first.
	List(ctx context.Context, filter model.CategoryFilter) (listing.Result[model.Category], error)
}
