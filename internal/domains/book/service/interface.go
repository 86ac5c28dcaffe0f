package service

import (
	"context"

	"bookstore-catalog/internal/domains/book/model"
	"bookstore-catalog/internal/shared/listing"
)

// ServiceInterface defines business operations for the book domain
type ServiceInterface interface {
	Create(ctx context.Context, req model.CreateBookRequest) (*model.Book, error)
	List(ctx context.Context, filter model.BookFilter) (listing.Result[model.Book], error)
	// Update applies a partial update. An empty request only bumps updatedAt.
	Update(ctx context.Context, id int64, req model.UpdateBookRequest) (*model.Book, error)
	// Delete removes the book and its links, returning the book as it was.
	Delete(ctx context.Context, id int64) (*model.Book, error)
}
