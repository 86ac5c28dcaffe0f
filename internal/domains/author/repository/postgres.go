package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"bookstore-catalog/internal/domains/author/model"
	"bookstore-catalog/internal/shared/listing"
	"bookstore-catalog/internal/shared/utils"
)

// postgresRepository implements RepositoryInterface on top of pgxpool
type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new author repository instance
func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

const authorColumns = `id, name, bio, created_at, updated_at`

// Create inserts new author; id and timestamps come from the database
func (r *postgresRepository) Create(ctx context.Context, in model.CreateAuthorInput) (*model.Author, error) {
	query := `
        INSERT INTO authors (name, bio)
        VALUES ($1, $2)
        RETURNING ` + authorColumns

	rows, err := r.pool.Query(ctx, query, in.Name, in.Bio)
	if err != nil {
		return nil, fmt.Errorf("failed to create author: %w", err)
	}

	created, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[model.Author])
	if err != nil {
		return nil, fmt.Errorf("failed to create author: %w", err)
	}

	created = created.InUTC()
	return &created, nil
}

// List - count and page queries share one WHERE clause and run concurrently
func (r *postgresRepository) List(ctx context.Context, filter model.AuthorFilter) (listing.Result[model.Author], error) {
	var where utils.WhereBuilder
	if filter.HasSearch() {
		where.And("name ILIKE " + where.Arg(listing.LikePattern(filter.Search)))
	}

	var (
		total   int
		authors []model.Author
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		countQuery := `SELECT COUNT(*) FROM authors ` + where.SQL()
		if err := r.pool.QueryRow(gctx, countQuery, where.Args()...).Scan(&total); err != nil {
			return fmt.Errorf("failed to count authors: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		args := where.Args()
		next := where.Next()
		query := fmt.Sprintf(`
            SELECT %s
            FROM authors
            %s
            ORDER BY id DESC
            LIMIT $%d OFFSET $%d`, authorColumns, where.SQL(), next, next+1)
		args = append(args, filter.Take(), filter.Skip())

		rows, err := r.pool.Query(gctx, query, args...)
		if err != nil {
			return fmt.Errorf("failed to query authors: %w", err)
		}
		authors, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Author])
		if err != nil {
			return fmt.Errorf("failed to scan authors: %w", err)
		}
		for i := range authors {
			authors[i] = authors[i].InUTC()
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return listing.Result[model.Author]{}, err
	}

	return listing.Result[model.Author]{Items: authors, Total: total}, nil
}
