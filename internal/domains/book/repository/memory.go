package repository

import (
	"context"
	"fmt"
	"sync"

	authormodel "bookstore-catalog/internal/domains/author/model"
	authorrepo "bookstore-catalog/internal/domains/author/repository"
	"bookstore-catalog/internal/domains/book/model"
	categorymodel "bookstore-catalog/internal/domains/category/model"
	categoryrepo "bookstore-catalog/internal/domains/category/repository"
	"bookstore-catalog/internal/shared/listing"
	"bookstore-catalog/internal/shared/utils"
)

// MemoryRepository keeps books in insertion order with their associations
// resolved. Authors and categories are immutable, so a snapshot taken at write
// time equals a join at read time.
type MemoryRepository struct {
	mu         sync.RWMutex
	books      []model.Book
	nextID     int64
	authors    authorrepo.Lookup
	categories categoryrepo.Lookup
}

// NewMemoryRepository creates an empty book store resolving ids against the given lookups.
func NewMemoryRepository(authors authorrepo.Lookup, categories categoryrepo.Lookup) *MemoryRepository {
	return &MemoryRepository{
		nextID:     1,
		authors:    authors,
		categories: categories,
	}
}

// Create resolves the associations first, so a bad id never consumes a book id.
func (r *MemoryRepository) Create(ctx context.Context, in model.CreateBookInput) (*model.Book, error) {
	authors, err := r.resolveAuthors(ctx, in.AuthorIDs)
	if err != nil {
		return nil, err
	}
	categories, err := r.resolveCategories(ctx, in.CategoryIDs)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := utils.Now()
	b := model.Book{
		ID:          r.nextID,
		Title:       in.Title,
		Description: cloneString(in.Description),
		PublishedAt: in.PublishedAt,
		CreatedAt:   now,
		UpdatedAt:   now,
		Authors:     authors,
		Categories:  categories,
	}
	r.nextID++
	r.books = append(r.books, b)

	out := cloneBook(b)
	return &out, nil
}

// List runs the shared listing engine over the stored books.
func (r *MemoryRepository) List(_ context.Context, filter model.BookFilter) (listing.Result[model.Book], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res := listing.Apply(r.books, filter.Params, filter.Matches, func(b model.Book) int64 { return b.ID })
	for i := range res.Items {
		res.Items[i] = cloneBook(res.Items[i])
	}
	return res, nil
}

// Update applies the present fields. updatedAt is bumped even for an empty update.
// An unknown book wins over an unknown reference, as in the Postgres store.
func (r *MemoryRepository) Update(ctx context.Context, id int64, in model.UpdateBookInput) (*model.Book, error) {
	r.mu.RLock()
	exists := r.indexOf(id) >= 0
	r.mu.RUnlock()
	if !exists {
		return nil, model.ErrBookNotFound
	}

	var (
		authors    []authormodel.Author
		categories []categorymodel.Category
		err        error
	)
	if in.AuthorIDs != nil {
		if authors, err = r.resolveAuthors(ctx, in.AuthorIDs); err != nil {
			return nil, err
		}
	}
	if in.CategoryIDs != nil {
		if categories, err = r.resolveCategories(ctx, in.CategoryIDs); err != nil {
			return nil, err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return nil, model.ErrBookNotFound
	}

	b := r.books[idx]
	if in.Title != nil {
		b.Title = *in.Title
	}
	if in.Description != nil {
		b.Description = cloneString(in.Description)
	}
	if in.PublishedAt != nil {
		t := *in.PublishedAt
		b.PublishedAt = &t
	}
	if in.AuthorIDs != nil {
		b.Authors = authors
	}
	if in.CategoryIDs != nil {
		b.Categories = categories
	}
	b.UpdatedAt = utils.Now()
	r.books[idx] = b

	out := cloneBook(b)
	return &out, nil
}

// Delete removes the book and returns it as it was.
func (r *MemoryRepository) Delete(_ context.Context, id int64) (*model.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return nil, model.ErrBookNotFound
	}

	deleted := r.books[idx]
	r.books = append(r.books[:idx], r.books[idx+1:]...)

	out := cloneBook(deleted)
	return &out, nil
}

func (r *MemoryRepository) indexOf(id int64) int {
	for i, b := range r.books {
		if b.ID == id {
			return i
		}
	}
	return -1
}

func (r *MemoryRepository) resolveAuthors(ctx context.Context, ids []int64) ([]authormodel.Author, error) {
	ids = utils.UniqueInt64s(ids)
	found, err := r.authors.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve authors: %w", err)
	}
	if len(found) != len(ids) {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidAuthorReference, missingIDs(ids, found, func(a authormodel.Author) int64 { return a.ID }))
	}
	return found, nil
}

func (r *MemoryRepository) resolveCategories(ctx context.Context, ids []int64) ([]categorymodel.Category, error) {
	ids = utils.UniqueInt64s(ids)
	found, err := r.categories.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve categories: %w", err)
	}
	if len(found) != len(ids) {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidCategoryReference, missingIDs(ids, found, func(c categorymodel.Category) int64 { return c.ID }))
	}
	return found, nil
}

// missingIDs returns the requested ids absent from found.
func missingIDs[T any](requested []int64, found []T, idOf func(T) int64) []int64 {
	have := make(map[int64]struct{}, len(found))
	for _, f := range found {
		have[idOf(f)] = struct{}{}
	}
	var missing []int64
	for _, id := range requested {
		if _, ok := have[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}

func cloneBook(b model.Book) model.Book {
	b.Description = cloneString(b.Description)
	if b.PublishedAt != nil {
		t := *b.PublishedAt
		b.PublishedAt = &t
	}
	authors := make([]authormodel.Author, len(b.Authors))
	for i, a := range b.Authors {
		a.Bio = cloneString(a.Bio)
		authors[i] = a
	}
	b.Authors = authors
	b.Categories = append(make([]categorymodel.Category, 0, len(b.Categories)), b.Categories...)
	return b
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
