package repository

import (
	"context"

	"bookstore-catalog/internal/domains/author/model"
	"bookstore-catalog/internal/shared/store"
)

// RepositoryInterface - author persistence port
type RepositoryInterface interface {
	store.CanCreate[model.CreateAuthorInput, model.Author]
	store.CanList[model.AuthorFilter, model.Author]
}

// Lookup resolves author ids to authors. It is what the in-memory book store
// needs to build associations; the Postgres stores join instead.
type Lookup interface {
	// FindByIDs returns the authors with the given ids in ascending id order.
	// Unknown ids are skipped; callers compare lengths to detect them.
	FindByIDs(ctx context.Context, ids []int64) ([]model.Author, error)
}
