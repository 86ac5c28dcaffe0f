package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"bookstore-catalog/internal/domains/category/model"
	"bookstore-catalog/internal/domains/category/repository"
	"bookstore-catalog/internal/shared/listing"
	"bookstore-catalog/internal/testsupport"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) Create(ctx context.Context, in model.CreateCategoryInput) (*model.Category, error) {
	args := m.Called(ctx, in)
	c, _ := args.Get(0).(*model.Category)
	return c, args.Error(1)
}

func (m *mockRepository) List(ctx context.Context, f model.CategoryFilter) (listing.Result[model.Category], error) {
	args := m.Called(ctx, f)
	return args.Get(0).(listing.Result[model.Category]), args.Error(1)
}

func (m *mockRepository) FindByName(ctx context.Context, name string) (*model.Category, error) {
	args := m.Called(ctx, name)
	c, _ := args.Get(0).(*model.Category)
	return c, args.Error(1)
}

func TestCreate_PreCheckRejectsCaseInsensitiveDuplicate(t *testing.T) {
	repo := &mockRepository{}
	repo.On("FindByName", mock.Anything, "fantasy").Return(&model.Category{ID: 1, Name: "Fantasy"}, nil)

	_, err := NewCategoryService(repo).Create(context.Background(), model.CreateCategoryRequest{Name: "fantasy"})

	assert.ErrorIs(t, err, model.ErrDuplicateName)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreate_StorageConstraintSurfacesAsDuplicate(t *testing.T) {
	repo := &mockRepository{}
	repo.On("FindByName", mock.Anything, "Fantasy").Return(nil, nil)
	repo.On("Create", mock.Anything, model.CreateCategoryInput{Name: "Fantasy"}).Return(nil, model.ErrDuplicateName)

	_, err := NewCategoryService(repo).Create(context.Background(), model.CreateCategoryRequest{Name: "Fantasy"})

	assert.ErrorIs(t, err, model.ErrDuplicateName)
	assert.Equal(t, 409, model.ToHTTPStatus(err))
}

func TestCreate_LookupFailureIsInternal(t *testing.T) {
	repo := &mockRepository{}
	repo.On("FindByName", mock.Anything, "Fantasy").Return(nil, errors.New("connection reset"))

	_, err := NewCategoryService(repo).Create(context.Background(), model.CreateCategoryRequest{Name: "Fantasy"})

	require.Error(t, err)
	assert.NotErrorIs(t, err, model.ErrDuplicateName)
	assert.Equal(t, 500, model.ToHTTPStatus(err))
}

// Concurrent creates of one name race between the pre-check and the storage
// constraint; exactly one must win and every loser must see ErrDuplicateName.
func TestCreate_ConcurrentSameNameExactlyOneWins(t *testing.T) {
	adapters := map[string]func(t *testing.T) repository.RepositoryInterface{
		"memory": func(t *testing.T) repository.RepositoryInterface { return repository.NewMemoryRepository() },
		"postgres": func(t *testing.T) repository.RepositoryInterface {
			return repository.NewPostgresRepository(testsupport.PostgresPool(t))
		},
	}

	for name, newRepo := range adapters {
		t.Run(name, func(t *testing.T) {
			repo := newRepo(t)
			svc := NewCategoryService(repo)

			const workers = 16
			var (
				wg        sync.WaitGroup
				mu        sync.Mutex
				successes int
				conflicts int
			)
			start := make(chan struct{})
			for i := 0; i < workers; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					<-start
					_, err := svc.Create(context.Background(), model.CreateCategoryRequest{Name: "Horror"})

					mu.Lock()
					defer mu.Unlock()
					switch {
					case err == nil:
						successes++
					case errors.Is(err, model.ErrDuplicateName):
						conflicts++
					default:
						t.Errorf("unexpected error: %v", err)
					}
				}()
			}
			close(start)
			wg.Wait()

			assert.Equal(t, 1, successes)
			assert.Equal(t, workers-1, conflicts)

			res, err := repo.List(context.Background(), model.CategoryFilter{Params: listing.DefaultParams()})
			require.NoError(t, err)
			assert.Equal(t, 1, res.Total)
		})
	}
}
