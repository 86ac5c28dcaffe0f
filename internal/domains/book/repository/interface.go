package repository

import (
	"bookstore-catalog/internal/domains/book/model"
	"bookstore-catalog/internal/shared/store"
)

// RepositoryInterface - book persistence port
//
// Create and Update fail with model.ErrInvalidAuthorReference or
// model.ErrInvalidCategoryReference when an id does not resolve; nothing is
// written in that case. Update and Delete fail with model.ErrBookNotFound for
// an unknown id.
type RepositoryInterface interface {
	store.CanCreate[model.CreateBookInput, model.Book]
	store.CanList[model.BookFilter, model.Book]
	store.CanUpdate[model.UpdateBookInput, model.Book]
	store.CanDelete[model.Book]
}
