// Package store declares the capability interfaces repositories are composed from.
package store

import (
	"context"

	"bookstore-catalog/internal/shared/listing"
)

// CanCreate persists a new entity and returns it with its assigned id and timestamps.
type CanCreate[I any, E any] interface {
	Create(ctx context.Context, in I) (*E, error)
}

// CanList returns one page of entities matching the criteria.
type CanList[C any, E any] interface {
	List(ctx context.Context, criteria C) (listing.Result[E], error)
}

// CanUpdate applies a partial update to an existing entity.
type CanUpdate[I any, E any] interface {
	Update(ctx context.Context, id int64, in I) (*E, error)
}

// CanDelete removes an entity and returns its state before removal.
type CanDelete[E any] interface {
	Delete(ctx context.Context, id int64) (*E, error)
}

// CanFindByName looks an entity up by case-insensitive exact name. It returns nil, nil when absent.
type CanFindByName[E any] interface {
	FindByName(ctx context.Context, name string) (*E, error)
}
