package model

import (
	"time"

	authormodel "bookstore-catalog/internal/domains/author/model"
	categorymodel "bookstore-catalog/internal/domains/category/model"
	"bookstore-catalog/internal/shared/listing"
)

// Book is the catalog entry. Authors and Categories are the expanded
// association sets, ordered by id ascending.
type Book struct {
	ID          int64                    `json:"id" db:"id"`
	Title       string                   `json:"title" db:"title"`
	Description *string                  `json:"description" db:"description"`
	PublishedAt *time.Time               `json:"publishedAt" db:"published_at"`
	CreatedAt   time.Time                `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time                `json:"updatedAt" db:"updated_at"`
	Authors     []authormodel.Author     `json:"authors" db:"-"`
	Categories  []categorymodel.Category `json:"categories" db:"-"`
}

// InUTC returns a copy with every timestamp in UTC, associations included.
// Nil association slices become empty so they never encode as null.
func (b Book) InUTC() Book {
	b.CreatedAt = b.CreatedAt.UTC()
	b.UpdatedAt = b.UpdatedAt.UTC()
	if b.PublishedAt != nil {
		t := b.PublishedAt.UTC()
		b.PublishedAt = &t
	}

	authors := make([]authormodel.Author, len(b.Authors))
	for i, a := range b.Authors {
		authors[i] = a.InUTC()
	}
	b.Authors = authors

	categories := make([]categorymodel.Category, len(b.Categories))
	for i, c := range b.Categories {
		categories[i] = c.InUTC()
	}
	b.Categories = categories
	return b
}

// AuthorIDs lists the ids of the linked authors.
func (b Book) AuthorIDs() []int64 {
	ids := make([]int64, len(b.Authors))
	for i, a := range b.Authors {
		ids[i] = a.ID
	}
	return ids
}

// CategoryIDs lists the ids of the linked categories.
func (b Book) CategoryIDs() []int64 {
	ids := make([]int64, len(b.Categories))
	for i, c := range b.Categories {
		ids[i] = c.ID
	}
	return ids
}

// CreateBookInput is what the repository needs to insert a book and its links.
type CreateBookInput struct {
	Title       string
	Description *string
	PublishedAt *time.Time
	AuthorIDs   []int64
	CategoryIDs []int64
}

// UpdateBookInput carries only the fields to change. A nil pointer leaves the
// field untouched; a nil id slice leaves the association set untouched while a
// non-nil one (even empty) replaces it.
type UpdateBookInput struct {
	Title       *string
	Description *string
	PublishedAt *time.Time
	AuthorIDs   []int64
	CategoryIDs []int64
}

// IsEmpty reports whether the update changes nothing.
func (in UpdateBookInput) IsEmpty() bool {
	return in.Title == nil && in.Description == nil && in.PublishedAt == nil &&
		in.AuthorIDs == nil && in.CategoryIDs == nil
}

// BookFilter - listing criteria for GET /books
type BookFilter struct {
	listing.Params
	AuthorID   *int64
	CategoryID *int64
}

// Matches applies search (title OR description) and the association filters, ANDed.
func (f BookFilter) Matches(b Book) bool {
	if f.HasSearch() {
		inTitle := listing.ContainsFold(b.Title, f.Search)
		inDescription := b.Description != nil && listing.ContainsFold(*b.Description, f.Search)
		if !inTitle && !inDescription {
			return false
		}
	}
	if f.AuthorID != nil && !containsID(b.AuthorIDs(), *f.AuthorID) {
		return false
	}
	if f.CategoryID != nil && !containsID(b.CategoryIDs(), *f.CategoryID) {
		return false
	}
	return true
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
