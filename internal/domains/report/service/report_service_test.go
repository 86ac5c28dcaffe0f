package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authormodel "bookstore-catalog/internal/domains/author/model"
	authorrepo "bookstore-catalog/internal/domains/author/repository"
	bookmodel "bookstore-catalog/internal/domains/book/model"
	bookrepo "bookstore-catalog/internal/domains/book/repository"
	categorymodel "bookstore-catalog/internal/domains/category/model"
	categoryrepo "bookstore-catalog/internal/domains/category/repository"
	"bookstore-catalog/internal/domains/report/model"
	"bookstore-catalog/internal/shared"
	"bookstore-catalog/internal/shared/listing"
	"bookstore-catalog/internal/testsupport"
	"bookstore-catalog/pkg/cache"
)

type harness struct {
	svc        *reportService
	queue      *testsupport.TaskRecorder
	clock      *testsupport.Clock
	authors    *authorrepo.MemoryRepository
	categories *categoryrepo.MemoryRepository
	books      *bookrepo.MemoryRepository
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		queue:      &testsupport.TaskRecorder{},
		clock:      testsupport.NewClock(),
		authors:    authorrepo.NewMemoryRepository(),
		categories: categoryrepo.NewMemoryRepository(),
	}
	h.books = bookrepo.NewMemoryRepository(h.authors, h.categories)

	svc := NewReportService(h.queue, cache.NewMemoryCache(cache.WithClock(h.clock.Now)), Sources{
		Authors:    h.authors,
		Categories: h.categories,
		Books:      h.books,
	}, Config{TTL: 60 * time.Second})
	h.svc = svc.(*reportService)
	h.svc.now = h.clock.Now
	return h
}

func (h *harness) seedAuthors(t *testing.T, n int) []int64 {
	t.Helper()
	ids := make([]int64, n)
	for i := range ids {
		a, err := h.authors.Create(context.Background(), authormodel.CreateAuthorInput{Name: fmt.Sprintf("Author %d", i+1)})
		require.NoError(t, err)
		ids[i] = a.ID
	}
	return ids
}

func (h *harness) seedBook(t *testing.T, title string, authorIDs, categoryIDs []int64) int64 {
	t.Helper()
	if authorIDs == nil {
		authorIDs = []int64{}
	}
	if categoryIDs == nil {
		categoryIDs = []int64{}
	}
	b, err := h.books.Create(context.Background(), bookmodel.CreateBookInput{Title: title, AuthorIDs: authorIDs, CategoryIDs: categoryIDs})
	require.NoError(t, err)
	return b.ID
}

func TestRequest_EnqueuesSingleAttemptTask(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.svc.Request(context.Background(), 42))

	tasks := h.queue.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, shared.TypeGenerateReport, tasks[0].Type())

	var payload shared.GenerateReportPayload
	require.NoError(t, json.Unmarshal(tasks[0].Payload(), &payload))
	assert.Equal(t, int64(42), payload.UserID)

	opts := map[asynq.OptionType]interface{}{}
	for _, opt := range h.queue.Options(0) {
		opts[opt.Type()] = opt.Value()
	}
	assert.Equal(t, shared.QueueReports, opts[asynq.QueueOpt])
	assert.Equal(t, 0, opts[asynq.MaxRetryOpt])
}

func TestRequest_EnqueueFailure(t *testing.T) {
	h := newHarness(t)
	h.queue.Fail(errors.New("redis down"))

	err := h.svc.Request(context.Background(), 1)
	assert.ErrorContains(t, err, "redis down")
}

func TestGetCached_MissBeforeGenerate(t *testing.T) {
	h := newHarness(t)

	_, err := h.svc.GetCached(context.Background(), "7")
	assert.ErrorIs(t, err, model.ErrReportNotFound)
}

func TestGenerate_CachesUnderUserKeyForTTL(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	generated, err := h.svc.Generate(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "7", generated.UserID)
	assert.Equal(t, h.clock.Now(), generated.GeneratedAt)

	cached, err := h.svc.GetCached(ctx, "7")
	require.NoError(t, err)
	assert.Equal(t, "7", cached.UserID)
	assert.True(t, generated.GeneratedAt.Equal(cached.GeneratedAt))

	_, err = h.svc.GetCached(ctx, "8")
	assert.ErrorIs(t, err, model.ErrReportNotFound, "reports are per user")

	h.clock.Advance(59 * time.Second)
	_, err = h.svc.GetCached(ctx, "7")
	require.NoError(t, err)

	h.clock.Advance(time.Second)
	_, err = h.svc.GetCached(ctx, "7")
	assert.ErrorIs(t, err, model.ErrReportNotFound)
}

func TestGenerate_RegenerationOverwrites(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.svc.Generate(ctx, 1)
	require.NoError(t, err)

	h.seedBook(t, "Later", nil, nil)
	h.clock.Advance(30 * time.Second)
	_, err = h.svc.Generate(ctx, 1)
	require.NoError(t, err)

	cached, err := h.svc.GetCached(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, 1, cached.Totals.Books)

	h.clock.Advance(59 * time.Second)
	_, err = h.svc.GetCached(ctx, "1")
	assert.NoError(t, err, "the TTL restarts with the newest write")
}

func TestGenerate_TotalsRankingAndAverage(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	authors := h.seedAuthors(t, 3)
	c, err := h.categories.Create(ctx, categorymodel.CreateCategoryInput{Name: "Fiction"})
	require.NoError(t, err)

	b1 := h.seedBook(t, "Solo", authors[:1], nil)
	b2 := h.seedBook(t, "Trio", authors, []int64{c.ID})
	b3 := h.seedBook(t, "Bare", nil, nil)
	b4 := h.seedBook(t, "Duo", authors[:2], nil)
	b5 := h.seedBook(t, "Solo Again", authors[1:2], nil)
	b6 := h.seedBook(t, "Tagged", nil, []int64{c.ID})

	report, err := h.svc.Generate(ctx, 3)
	require.NoError(t, err)

	assert.Equal(t, model.Totals{Authors: 3, Categories: 1, Books: 6}, report.Totals)

	ids := make([]int64, len(report.TopBooks))
	for i, tb := range report.TopBooks {
		ids[i] = tb.ID
	}
	// Trio(4), Duo(2), then the one-link books newest first.
	assert.Equal(t, []int64{b2, b4, b6, b5, b1}, ids)
	assert.NotContains(t, ids, b3)
	assert.Equal(t, 4, report.TopBooks[0].Links)

	// (1 + 3 + 0 + 2 + 1 + 0) / 6 = 1.1666...
	assert.True(t, decimal.RequireFromString("1.17").Equal(report.AverageAuthorsPerBook), report.AverageAuthorsPerBook.String())
}

func TestGenerate_EmptyCatalog(t *testing.T) {
	h := newHarness(t)

	report, err := h.svc.Generate(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, model.Totals{}, report.Totals)
	assert.Empty(t, report.TopBooks)
	assert.True(t, report.AverageAuthorsPerBook.IsZero())
}

func TestGenerate_SimulatedWorkHonoursCancellation(t *testing.T) {
	h := newHarness(t)
	h.svc.cfg.SimulatedWork = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := h.svc.Generate(ctx, 1)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = h.svc.GetCached(context.Background(), "1")
	assert.ErrorIs(t, err, model.ErrReportNotFound, "nothing is cached for an aborted run")
}

type failingBooks struct{}

func (failingBooks) List(context.Context, bookmodel.BookFilter) (listing.Result[bookmodel.Book], error) {
	return listing.Result[bookmodel.Book]{}, errors.New("connection refused")
}

func TestGenerate_SourceFailureCachesNothing(t *testing.T) {
	h := newHarness(t)
	h.svc.sources.Books = failingBooks{}

	_, err := h.svc.Generate(context.Background(), 5)
	assert.ErrorContains(t, err, "connection refused")

	_, err = h.svc.GetCached(context.Background(), "5")
	assert.ErrorIs(t, err, model.ErrReportNotFound)
}

func TestRankBooks_TieBreaksOnNewestID(t *testing.T) {
	books := []bookmodel.Book{{ID: 1, Title: "a"}, {ID: 3, Title: "c"}, {ID: 2, Title: "b"}}

	ranked := rankBooks(books)

	require.Len(t, ranked, 3)
	assert.Equal(t, int64(3), ranked[0].ID)
	assert.Equal(t, int64(2), ranked[1].ID)
	assert.Equal(t, int64(1), ranked[2].ID)
}
