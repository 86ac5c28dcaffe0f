package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"bookstore-catalog/internal/domains/category/model"
	"bookstore-catalog/internal/domains/category/repository"
	"bookstore-catalog/internal/shared/listing"
)

type categoryServiceImpl struct {
	repository repository.RepositoryInterface
}

func NewCategoryService(repo repository.RepositoryInterface) ServiceInterface {
	return &categoryServiceImpl{
		repository: repo,
	}
}

func (s *categoryServiceImpl) Create(ctx context.Context, req model.CreateCategoryRequest) (*model.Category, error) {
	// ========== STEP 1: Check Name Unique ==========
	// Two concurrent requests can both pass this check; the store's own
	// uniqueness constraint then rejects the loser with the same error.
	existing, err := s.repository.FindByName(ctx, req.Name)
	if err != nil {
		return nil, fmt.Errorf("create category: check name exists: %w", err)
	}
	if existing != nil {
		log.Debug().
			Str("name", req.Name).
			Int64("existing_id", existing.ID).
			Msg("Category name already taken")
		return nil, model.ErrDuplicateName
	}

	// ========== STEP 2: Insert ==========
	created, err := s.repository.Create(ctx, req.ToInput())
	if err != nil {
		if errors.Is(err, model.ErrDuplicateName) {
			return nil, err
		}
		return nil, fmt.Errorf("create category: %w", err)
	}

	return created, nil
}

func (s *categoryServiceImpl) List(ctx context.Context, filter model.CategoryFilter) (listing.Result[model.Category], error) {
	return s.repository.List(ctx, filter)
}
