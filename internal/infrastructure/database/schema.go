package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schemaStatements create the catalog tables. Link rows disappear with their
// book; authors and categories cannot be deleted while linked.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS authors (
        id          BIGSERIAL PRIMARY KEY,
        name        TEXT NOT NULL,
        bio         TEXT,
        created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
        updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
    )`,
	`CREATE TABLE IF NOT EXISTS categories (
        id          BIGSERIAL PRIMARY KEY,
        name        TEXT NOT NULL UNIQUE,
        created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
        updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
    )`,
	`CREATE TABLE IF NOT EXISTS books (
        id            BIGSERIAL PRIMARY KEY,
        title         TEXT NOT NULL,
        description   TEXT,
        published_at  TIMESTAMPTZ,
        created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
        updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
    )`,
	`CREATE TABLE IF NOT EXISTS book_authors (
        book_id    BIGINT NOT NULL REFERENCES books(id) ON DELETE CASCADE,
        author_id  BIGINT NOT NULL REFERENCES authors(id),
        PRIMARY KEY (book_id, author_id)
    )`,
	`CREATE TABLE IF NOT EXISTS book_categories (
        book_id      BIGINT NOT NULL REFERENCES books(id) ON DELETE CASCADE,
        category_id  BIGINT NOT NULL REFERENCES categories(id),
        PRIMARY KEY (book_id, category_id)
    )`,
	`CREATE INDEX IF NOT EXISTS idx_book_authors_author ON book_authors (author_id)`,
	`CREATE INDEX IF NOT EXISTS idx_book_categories_category ON book_categories (category_id)`,
}

// Tables in dependency order, children first.
var Tables = []string{"book_authors", "book_categories", "books", "authors", "categories"}

// EnsureSchema creates the catalog tables if they do not exist yet.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
