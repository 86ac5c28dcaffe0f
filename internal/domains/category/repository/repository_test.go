package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookstore-catalog/internal/domains/category/model"
	"bookstore-catalog/internal/shared/listing"
	"bookstore-catalog/internal/testsupport"
)

func forEachAdapter(t *testing.T, fn func(t *testing.T, repo RepositoryInterface)) {
	t.Run("memory", func(t *testing.T) {
		fn(t, NewMemoryRepository())
	})
	t.Run("postgres", func(t *testing.T) {
		fn(t, NewPostgresRepository(testsupport.PostgresPool(t)))
	})
}

func filter(n, size int, search string) model.CategoryFilter {
	return model.CategoryFilter{Params: listing.Params{Page: n, PageSize: size, Search: search}}
}

func TestCreate_RejectsExactDuplicate(t *testing.T) {
	forEachAdapter(t, func(t *testing.T, repo RepositoryInterface) {
		ctx := context.Background()

		_, err := repo.Create(ctx, model.CreateCategoryInput{Name: "Fantasy"})
		require.NoError(t, err)

		_, err = repo.Create(ctx, model.CreateCategoryInput{Name: "Fantasy"})
		assert.ErrorIs(t, err, model.ErrDuplicateName)

		res, err := repo.List(ctx, filter(1, 10, ""))
		require.NoError(t, err)
		assert.Equal(t, 1, res.Total)
	})
}

func TestFindByName_IgnoresCase(t *testing.T) {
	forEachAdapter(t, func(t *testing.T, repo RepositoryInterface) {
		ctx := context.Background()

		created, err := repo.Create(ctx, model.CreateCategoryInput{Name: "Science Fiction"})
		require.NoError(t, err)

		found, err := repo.FindByName(ctx, "science FICTION")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, created.ID, found.ID)

		missing, err := repo.FindByName(ctx, "Science")
		require.NoError(t, err)
		assert.Nil(t, missing)
	})
}

func TestList_SearchAndOrder(t *testing.T) {
	forEachAdapter(t, func(t *testing.T, repo RepositoryInterface) {
		ctx := context.Background()
		for _, name := range []string{"Fantasy", "History", "Dark Fantasy", "Poetry"} {
			_, err := repo.Create(ctx, model.CreateCategoryInput{Name: name})
			require.NoError(t, err)
		}

		res, err := repo.List(ctx, filter(1, 10, "fantasy"))
		require.NoError(t, err)
		assert.Equal(t, 2, res.Total)
		assert.Equal(t, "Dark Fantasy", res.Items[0].Name)
		assert.Equal(t, "Fantasy", res.Items[1].Name)

		res, err = repo.List(ctx, filter(2, 3, ""))
		require.NoError(t, err)
		assert.Equal(t, 4, res.Total)
		require.Len(t, res.Items, 1)
		assert.Equal(t, "Fantasy", res.Items[0].Name)
	})
}

func TestMemoryFindByIDs(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	for i := 1; i <= 3; i++ {
		_, err := repo.Create(ctx, model.CreateCategoryInput{Name: fmt.Sprintf("c%d", i)})
		require.NoError(t, err)
	}

	found, err := repo.FindByIDs(ctx, []int64{3, 1, 9})
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, int64(1), found[0].ID)
	assert.Equal(t, int64(3), found[1].ID)
}

// TestAdaptersAgree replays creates, rejected duplicates included, on both
// adapters and compares ids and pages.
func TestAdaptersAgree(t *testing.T) {
	pool := testsupport.PostgresPool(t)
	ctx := context.Background()

	names := []string{"Fantasy", "History", "Fantasy", "Poetry", "History", "Drama", "fantasy"}
	adapters := []RepositoryInterface{NewMemoryRepository(), NewPostgresRepository(pool)}
	outcomes := make([][]string, len(adapters))
	for i, repo := range adapters {
		for _, name := range names {
			c, err := repo.Create(ctx, model.CreateCategoryInput{Name: name})
			if err != nil {
				require.ErrorIs(t, err, model.ErrDuplicateName)
				outcomes[i] = append(outcomes[i], "duplicate")
				continue
			}
			outcomes[i] = append(outcomes[i], fmt.Sprintf("%d:%s", c.ID, c.Name))
		}
	}
	assert.Equal(t, outcomes[0], outcomes[1])
	assert.Equal(t, "5:fantasy", outcomes[0][6], "rejected duplicates consume no id")

	type view struct {
		ID   int64
		Name string
	}
	project := func(res listing.Result[model.Category]) ([]view, int) {
		out := make([]view, len(res.Items))
		for i, c := range res.Items {
			out[i] = view{ID: c.ID, Name: c.Name}
		}
		return out, res.Total
	}

	for _, f := range []model.CategoryFilter{filter(1, 2, ""), filter(3, 2, ""), filter(1, 10, "FANT"), filter(1, 10, "o")} {
		memRes, err := adapters[0].List(ctx, f)
		require.NoError(t, err)
		pgRes, err := adapters[1].List(ctx, f)
		require.NoError(t, err)

		memItems, memTotal := project(memRes)
		pgItems, pgTotal := project(pgRes)
		assert.Equal(t, memTotal, pgTotal, "total for %+v", f)
		assert.Equal(t, memItems, pgItems, "items for %+v", f)
	}
}
