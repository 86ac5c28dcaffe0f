package service

import (
	"context"

	"bookstore-catalog/internal/domains/author/model"
	"bookstore-catalog/internal/shared/listing"
)

// ServiceInterface defines business operations for the author domain
type ServiceInterface interface {
	// Create stores a new author. The request must already be validated.
	Create(ctx context.Context, req model.CreateAuthorRequest) (*model.Author, error)

	// List returns one page of authors, newest first.
	List(ctx context.Context, filter model.AuthorFilter) (listing.Result[model.Author], error)
}
