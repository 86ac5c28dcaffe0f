package model

import (
	"time"

	"bookstore-catalog/internal/shared/listing"
)

// Author is a person credited on zero or more books. Authors are immutable once created.
type Author struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Bio       *string   `json:"bio" db:"bio"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// CreateAuthorInput is what the repository needs to insert an author.
type CreateAuthorInput struct {
	Name string
	Bio  *string
}

// AuthorFilter - listing criteria for GET /authors
type AuthorFilter struct {
	listing.Params
}

// Matches reports whether the author satisfies the search term of the filter.
func (f AuthorFilter) Matches(a Author) bool {
	return !f.HasSearch() || listing.ContainsFold(a.Name, f.Search)
}

// InUTC returns a copy with its timestamps in UTC. pgx decodes timestamptz in
// the local zone; the stores always hand out UTC.
func (a Author) InUTC() Author {
	a.CreatedAt = a.CreatedAt.UTC()
	a.UpdatedAt = a.UpdatedAt.UTC()
	return a
}
