package service

import (
	"context"
	"fmt"

	"bookstore-catalog/internal/domains/author/model"
	"bookstore-catalog/internal/domains/author/repository"
	"bookstore-catalog/internal/shared/listing"
)

// authorService implements ServiceInterface
type authorService struct {
	repo repository.RepositoryInterface
}

// NewAuthorService creates a new author service instance
func NewAuthorService(repo repository.RepositoryInterface) ServiceInterface {
	return &authorService{repo: repo}
}

func (s *authorService) Create(ctx context.Context, req model.CreateAuthorRequest) (*model.Author, error) {
	created, err := s.repo.Create(ctx, req.ToInput())
	if err != nil {
		return nil, fmt.Errorf("failed to create author: %w", err)
	}
	return created, nil
}

func (s *authorService) List(ctx context.Context, filter model.AuthorFilter) (listing.Result[model.Author], error) {
	return s.repo.List(ctx, filter)
}
