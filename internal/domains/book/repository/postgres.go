package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	authormodel "bookstore-catalog/internal/domains/author/model"
	"bookstore-catalog/internal/domains/book/model"
	categorymodel "bookstore-catalog/internal/domains/category/model"
	"bookstore-catalog/internal/shared/listing"
	"bookstore-catalog/internal/shared/utils"
	"bookstore-catalog/pkg/database"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new book repository instance
func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

const bookColumns = `id, title, description, published_at, created_at, updated_at`

// Create inserts the book row and its link rows in one transaction. References
// are checked before the INSERT so a rejected book never draws from books_id_seq.
func (r *postgresRepository) Create(ctx context.Context, in model.CreateBookInput) (*model.Book, error) {
	return database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (*model.Book, error) {
		if err := checkReferences(ctx, tx, "authors", in.AuthorIDs, model.ErrInvalidAuthorReference); err != nil {
			return nil, err
		}
		if err := checkReferences(ctx, tx, "categories", in.CategoryIDs, model.ErrInvalidCategoryReference); err != nil {
			return nil, err
		}

		query := `
            INSERT INTO books (title, description, published_at, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $4)
            RETURNING ` + bookColumns

		// Stamped by the application clock, like updated_at on every update.
		rows, err := tx.Query(ctx, query, in.Title, in.Description, in.PublishedAt, utils.Now())
		if err != nil {
			return nil, fmt.Errorf("failed to create book: %w", err)
		}
		created, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[model.Book])
		if err != nil {
			return nil, fmt.Errorf("failed to create book: %w", err)
		}

		if err := linkAuthors(ctx, tx, created.ID, in.AuthorIDs); err != nil {
			return nil, err
		}
		if err := linkCategories(ctx, tx, created.ID, in.CategoryIDs); err != nil {
			return nil, err
		}

		return loadOne(ctx, tx, created)
	})
}

// List - one WHERE clause feeds both the count and the page query, then the
// associations of the page are loaded in batch
func (r *postgresRepository) List(ctx context.Context, filter model.BookFilter) (listing.Result[model.Book], error) {
	where := buildWhereClause(filter)

	var (
		total int
		books []model.Book
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		countQuery := `SELECT COUNT(*) FROM books ` + where.SQL()
		if err := r.pool.QueryRow(gctx, countQuery, where.Args()...).Scan(&total); err != nil {
			return fmt.Errorf("failed to count books: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		args := where.Args()
		next := where.Next()
		query := fmt.Sprintf(`
            SELECT %s
            FROM books
            %s
            ORDER BY id DESC
            LIMIT $%d OFFSET $%d`, bookColumns, where.SQL(), next, next+1)
		args = append(args, filter.Take(), filter.Skip())

		rows, err := r.pool.Query(gctx, query, args...)
		if err != nil {
			return fmt.Errorf("failed to query books: %w", err)
		}
		books, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Book])
		if err != nil {
			return fmt.Errorf("failed to scan books: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return listing.Result[model.Book]{}, err
	}

	ids := make([]int64, len(books))
	for i := range books {
		ids[i] = books[i].ID
	}

	var (
		authors    map[int64][]authormodel.Author
		categories map[int64][]categorymodel.Category
	)
	g, gctx = errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		authors, err = loadAuthors(gctx, r.pool, ids)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = loadCategories(gctx, r.pool, ids)
		return err
	})
	if err := g.Wait(); err != nil {
		return listing.Result[model.Book]{}, err
	}

	for i := range books {
		books[i].Authors = authors[books[i].ID]
		books[i].Categories = categories[books[i].ID]
		books[i] = books[i].InUTC()
	}

	return listing.Result[model.Book]{Items: books, Total: total}, nil
}

// Update locks the row, applies the present fields and replaces the provided association sets
func (r *postgresRepository) Update(ctx context.Context, id int64, in model.UpdateBookInput) (*model.Book, error) {
	return database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (*model.Book, error) {
		if _, err := lockBook(ctx, tx, id); err != nil {
			return nil, err
		}

		sets := []string{}
		args := []any{id}
		addSet := func(column string, v any) {
			args = append(args, v)
			sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
		}
		if in.Title != nil {
			addSet("title", *in.Title)
		}
		if in.Description != nil {
			addSet("description", *in.Description)
		}
		if in.PublishedAt != nil {
			addSet("published_at", *in.PublishedAt)
		}
		addSet("updated_at", utils.Now())

		query := `
            UPDATE books
            SET ` + strings.Join(sets, ", ") + `
            WHERE id = $1
            RETURNING ` + bookColumns

		rows, err := tx.Query(ctx, query, args...)
		if err != nil {
			return nil, fmt.Errorf("failed to update book: %w", err)
		}
		updated, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[model.Book])
		if err != nil {
			return nil, fmt.Errorf("failed to update book: %w", err)
		}

		if in.AuthorIDs != nil {
			if _, err := tx.Exec(ctx, `DELETE FROM book_authors WHERE book_id = $1`, id); err != nil {
				return nil, fmt.Errorf("failed to clear book authors: %w", err)
			}
			if err := linkAuthors(ctx, tx, id, in.AuthorIDs); err != nil {
				return nil, err
			}
		}
		if in.CategoryIDs != nil {
			if _, err := tx.Exec(ctx, `DELETE FROM book_categories WHERE book_id = $1`, id); err != nil {
				return nil, fmt.Errorf("failed to clear book categories: %w", err)
			}
			if err := linkCategories(ctx, tx, id, in.CategoryIDs); err != nil {
				return nil, err
			}
		}

		return loadOne(ctx, tx, updated)
	})
}

// Delete removes the book row; link rows go with it (ON DELETE CASCADE)
func (r *postgresRepository) Delete(ctx context.Context, id int64) (*model.Book, error) {
	return database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (*model.Book, error) {
		current, err := lockBook(ctx, tx, id)
		if err != nil {
			return nil, err
		}
		prior, err := loadOne(ctx, tx, current)
		if err != nil {
			return nil, err
		}

		if _, err := tx.Exec(ctx, `DELETE FROM books WHERE id = $1`, id); err != nil {
			return nil, fmt.Errorf("failed to delete book: %w", err)
		}
		return prior, nil
	})
}

func buildWhereClause(filter model.BookFilter) *utils.WhereBuilder {
	where := &utils.WhereBuilder{}

	if filter.HasSearch() {
		p := where.Arg(listing.LikePattern(filter.Search))
		where.AnyOf("title ILIKE "+p, "description ILIKE "+p)
	}
	if filter.AuthorID != nil {
		where.And(`EXISTS (SELECT 1 FROM book_authors ba WHERE ba.book_id = books.id AND ba.author_id = ` + where.Arg(*filter.AuthorID) + `)`)
	}
	if filter.CategoryID != nil {
		where.And(`EXISTS (SELECT 1 FROM book_categories bc WHERE bc.book_id = books.id AND bc.category_id = ` + where.Arg(*filter.CategoryID) + `)`)
	}

	return where
}

func lockBook(ctx context.Context, tx pgx.Tx, id int64) (model.Book, error) {
	rows, err := tx.Query(ctx, `SELECT `+bookColumns+` FROM books WHERE id = $1 FOR UPDATE`, id)
	if err != nil {
		return model.Book{}, fmt.Errorf("failed to get book: %w", err)
	}
	b, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[model.Book])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Book{}, model.ErrBookNotFound
		}
		return model.Book{}, fmt.Errorf("failed to get book: %w", err)
	}
	return b, nil
}

// checkReferences fails with sentinel when any of ids is missing from table.
// Authors and categories are never deleted, so a passing check still holds at link time.
func checkReferences(ctx context.Context, tx pgx.Tx, table string, ids []int64, sentinel error) error {
	ids = utils.UniqueInt64s(ids)
	if len(ids) == 0 {
		return nil
	}
	var found int
	err := tx.QueryRow(ctx, `SELECT count(*) FROM `+table+` WHERE id = ANY($1)`, pq.Array(ids)).Scan(&found)
	if err != nil {
		return fmt.Errorf("failed to check %s: %w", table, err)
	}
	if found != len(ids) {
		return fmt.Errorf("%w: %v", sentinel, ids)
	}
	return nil
}

// linkAuthors inserts one link row per existing author id. Fewer inserted rows
// than requested ids means at least one id does not resolve.
func linkAuthors(ctx context.Context, tx pgx.Tx, bookID int64, ids []int64) error {
	ids = utils.UniqueInt64s(ids)
	if len(ids) == 0 {
		return nil
	}
	tag, err := tx.Exec(ctx, `
        INSERT INTO book_authors (book_id, author_id)
        SELECT $1, a.id FROM authors a WHERE a.id = ANY($2)`,
		bookID, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to link authors: %w", err)
	}
	if tag.RowsAffected() != int64(len(ids)) {
		return fmt.Errorf("%w: %v", model.ErrInvalidAuthorReference, ids)
	}
	return nil
}

func linkCategories(ctx context.Context, tx pgx.Tx, bookID int64, ids []int64) error {
	ids = utils.UniqueInt64s(ids)
	if len(ids) == 0 {
		return nil
	}
	tag, err := tx.Exec(ctx, `
        INSERT INTO book_categories (book_id, category_id)
        SELECT $1, c.id FROM categories c WHERE c.id = ANY($2)`,
		bookID, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to link categories: %w", err)
	}
	if tag.RowsAffected() != int64(len(ids)) {
		return fmt.Errorf("%w: %v", model.ErrInvalidCategoryReference, ids)
	}
	return nil
}

// loadOne attaches the associations of a single book. A transaction serves
// one query at a time, so the two loads run sequentially here.
func loadOne(ctx context.Context, q querier, b model.Book) (*model.Book, error) {
	ids := []int64{b.ID}

	authors, err := loadAuthors(ctx, q, ids)
	if err != nil {
		return nil, err
	}
	categories, err := loadCategories(ctx, q, ids)
	if err != nil {
		return nil, err
	}

	b.Authors = authors[b.ID]
	b.Categories = categories[b.ID]
	out := b.InUTC()
	return &out, nil
}

func loadAuthors(ctx context.Context, q querier, bookIDs []int64) (map[int64][]authormodel.Author, error) {
	out := make(map[int64][]authormodel.Author, len(bookIDs))
	if len(bookIDs) == 0 {
		return out, nil
	}

	rows, err := q.Query(ctx, `
        SELECT ba.book_id, a.id, a.name, a.bio, a.created_at, a.updated_at
        FROM book_authors ba
        JOIN authors a ON a.id = ba.author_id
        WHERE ba.book_id = ANY($1)
        ORDER BY ba.book_id, a.id`, pq.Array(bookIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to load book authors: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			bookID int64
			a      authormodel.Author
		)
		if err := rows.Scan(&bookID, &a.ID, &a.Name, &a.Bio, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan book author: %w", err)
		}
		out[bookID] = append(out[bookID], a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to load book authors: %w", err)
	}
	return out, nil
}

func loadCategories(ctx context.Context, q querier, bookIDs []int64) (map[int64][]categorymodel.Category, error) {
	out := make(map[int64][]categorymodel.Category, len(bookIDs))
	if len(bookIDs) == 0 {
		return out, nil
	}

	rows, err := q.Query(ctx, `
        SELECT bc.book_id, c.id, c.name, c.created_at, c.updated_at
        FROM book_categories bc
        JOIN categories c ON c.id = bc.category_id
        WHERE bc.book_id = ANY($1)
        ORDER BY bc.book_id, c.id`, pq.Array(bookIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to load book categories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			bookID int64
			c      categorymodel.Category
		)
		if err := rows.Scan(&bookID, &c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan book category: %w", err)
		}
		out[bookID] = append(out[bookID], c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to load book categories: %w", err)
	}
	return out, nil
}
