package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"bookstore-catalog/internal/domains/book/model"
	"bookstore-catalog/internal/domains/book/repository"
	"bookstore-catalog/internal/shared/listing"
)

type bookService struct {
	repo repository.RepositoryInterface
}

func NewBookService(repo repository.RepositoryInterface) ServiceInterface {
	return &bookService{
		repo: repo,
	}
}

func (s *bookService) Create(ctx context.Context, req model.CreateBookRequest) (*model.Book, error) {
	created, err := s.repo.Create(ctx, req.ToInput())
	if err != nil {
		return nil, wrap("create book", err)
	}

	log.Debug().
		Int64("book_id", created.ID).
		Int("authors", len(created.Authors)).
		Int("categories", len(created.Categories)).
		Msg("Book created")
	return created, nil
}

func (s *bookService) List(ctx context.Context, filter model.BookFilter) (listing.Result[model.Book], error) {
	return s.repo.List(ctx, filter)
}

func (s *bookService) Update(ctx context.Context, id int64, req model.UpdateBookRequest) (*model.Book, error) {
	in := req.ToInput()
	if in.IsEmpty() {
		log.Debug().Int64("book_id", id).Msg("Empty book update, only updatedAt changes")
	}

	updated, err := s.repo.Update(ctx, id, in)
	if err != nil {
		return nil, wrap("update book", err)
	}
	return updated, nil
}

func (s *bookService) Delete(ctx context.Context, id int64) (*model.Book, error) {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, wrap("delete book", err)
	}

	log.Info().Int64("book_id", id).Str("title", deleted.Title).Msg("Book deleted")
	return deleted, nil
}

// wrap keeps domain sentinels matchable and adds the operation to anything else.
func wrap(op string, err error) error {
	switch {
	case errors.Is(err, model.ErrBookNotFound),
		errors.Is(err, model.ErrInvalidAuthorReference),
		errors.Is(err, model.ErrInvalidCategoryReference):
		return err
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
