package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"bookstore-catalog/internal/domains/category/model"
	"bookstore-catalog/internal/shared/listing"
	"bookstore-catalog/internal/shared/utils"
	"bookstore-catalog/pkg/database"
)

const (
	uniqueViolation = "23505"
	categoryColumns = `id, name, created_at, updated_at`
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a category repository backed by Postgres.
func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

// Create inserts a category. Inserts of one name are serialized by a
// transaction-scoped advisory lock and skipped when the name exists, so a
// duplicate never draws from categories_id_seq. UNIQUE(name) stays as backstop.
func (r *postgresRepository) Create(ctx context.Context, in model.CreateCategoryInput) (*model.Category, error) {
	return database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (*model.Category, error) {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, in.Name); err != nil {
			return nil, fmt.Errorf("failed to lock category name: %w", err)
		}

		query := `
            INSERT INTO categories (name)
            SELECT $1::text
            WHERE NOT EXISTS (SELECT 1 FROM categories WHERE name = $1::text)
            RETURNING ` + categoryColumns

		rows, err := tx.Query(ctx, query, in.Name)
		if err != nil {
			return nil, mapWriteError(err)
		}

		created, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[model.Category])
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, model.ErrDuplicateName
			}
			return nil, mapWriteError(err)
		}

		created = created.InUTC()
		return &created, nil
	})
}

// List - count and page queries share one WHERE clause and run concurrently
func (r *postgresRepository) List(ctx context.Context, filter model.CategoryFilter) (listing.Result[model.Category], error) {
	var where utils.WhereBuilder
	if filter.HasSearch() {
		where.And("name ILIKE " + where.Arg(listing.LikePattern(filter.Search)))
	}

	var (
		total      int
		categories []model.Category
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		countQuery := `SELECT COUNT(*) FROM categories ` + where.SQL()
		if err := r.pool.QueryRow(gctx, countQuery, where.Args()...).Scan(&total); err != nil {
			return fmt.Errorf("failed to count categories: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		args := where.Args()
		next := where.Next()
		query := fmt.Sprintf(`
            SELECT %s
            FROM categories
            %s
            ORDER BY id DESC
            LIMIT $%d OFFSET $%d`, categoryColumns, where.SQL(), next, next+1)
		args = append(args, filter.Take(), filter.Skip())

		rows, err := r.pool.Query(gctx, query, args...)
		if err != nil {
			return fmt.Errorf("failed to query categories: %w", err)
		}
		categories, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Category])
		if err != nil {
			return fmt.Errorf("failed to scan categories: %w", err)
		}
		for i := range categories {
			categories[i] = categories[i].InUTC()
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return listing.Result[model.Category]{}, err
	}

	return listing.Result[model.Category]{Items: categories, Total: total}, nil
}

// FindByName - case-insensitive exact match
func (r *postgresRepository) FindByName(ctx context.Context, name string) (*model.Category, error) {
	query := `
        SELECT ` + categoryColumns + `
        FROM categories
        WHERE lower(name) = lower($1)
        ORDER BY id
        LIMIT 1`

	rows, err := r.pool.Query(ctx, query, name)
	if err != nil {
		return nil, fmt.Errorf("failed to find category by name: %w", err)
	}

	c, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[model.Category])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find category by name: %w", err)
	}

	c = c.InUTC()
	return &c, nil
}

func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return model.ErrDuplicateName
	}
	return fmt.Errorf("failed to create category: %w", err)
}
