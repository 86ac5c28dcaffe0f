package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	authormodel "bookstore-catalog/internal/domains/author/model"
	bookmodel "bookstore-catalog/internal/domains/book/model"
	categorymodel "bookstore-catalog/internal/domains/category/model"
	"bookstore-catalog/internal/domains/report/model"
	"bookstore-catalog/internal/shared"
	"bookstore-catalog/internal/shared/listing"
	"bookstore-catalog/internal/shared/store"
	"bookstore-catalog/internal/shared/utils"
	"bookstore-catalog/pkg/cache"
)

// Sources are the listing ports the report aggregates over.
type Sources struct {
	Authors    store.CanList[authormodel.AuthorFilter, authormodel.Author]
	Categories store.CanList[categorymodel.CategoryFilter, categorymodel.Category]
	Books      store.CanList[bookmodel.BookFilter, bookmodel.Book]
}

// Config tunes report generation.
type Config struct {
	TTL time.Duration
	// SimulatedWork delays every generation, standing in for an expensive computation.
	SimulatedWork time.Duration
}

type reportService struct {
	queue   TaskEnqueuer
	cache   cache.Cache
	sources Sources
	cfg     Config
	now     func() time.Time
}

// NewReportService wires the producer (queue) and the consumer side (sources + cache).
// A process that only enqueues may leave sources empty; Generate then must not be called.
func NewReportService(queue TaskEnqueuer, c cache.Cache, sources Sources, cfg Config) ServiceInterface {
	return &reportService{
		queue:   queue,
		cache:   c,
		sources: sources,
		cfg:     cfg,
		now:     utils.Now,
	}
}

func (s *reportService) Request(ctx context.Context, userID int64) error {
	payload, err := json.Marshal(shared.GenerateReportPayload{UserID: userID})
	if err != nil {
		return fmt.Errorf("marshal report payload: %w", err)
	}

	task := asynq.NewTask(shared.TypeGenerateReport, payload)
	info, err := s.queue.EnqueueContext(ctx, task,
		asynq.Queue(shared.QueueReports),
		asynq.MaxRetry(0),
	)
	if err != nil {
		return fmt.Errorf("enqueue report: %w", err)
	}

	log.Info().
		Int64("user_id", userID).
		Str("task_id", taskID(info)).
		Msg("Report generation queued")
	return nil
}

func (s *reportService) GetCached(ctx context.Context, userID string) (*model.Report, error) {
	var report model.Report
	found, err := s.cache.Get(ctx, model.CacheKey(userID), &report)
	if err != nil {
		return nil, fmt.Errorf("read cached report: %w", err)
	}
	if !found {
		return nil, model.ErrReportNotFound
	}
	return &report, nil
}

func (s *reportService) Generate(ctx context.Context, userID int64) (*model.Report, error) {
	if err := s.simulateWork(ctx); err != nil {
		return nil, err
	}

	report, err := s.compute(ctx)
	if err != nil {
		return nil, err
	}
	report.UserID = strconv.FormatInt(userID, 10)

	if err := s.cache.Set(ctx, model.CacheKey(report.UserID), report, s.cfg.TTL); err != nil {
		return nil, fmt.Errorf("cache report: %w", err)
	}
	return report, nil
}

func (s *reportService) simulateWork(ctx context.Context) error {
	if s.cfg.SimulatedWork <= 0 {
		return nil
	}
	timer := time.NewTimer(s.cfg.SimulatedWork)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// compute reads the totals and the newest books concurrently through the listing ports.
func (s *reportService) compute(ctx context.Context) (*model.Report, error) {
	var (
		totals model.Totals
		sample []bookmodel.Book
	)
	one := listing.Params{Page: 1, PageSize: 1}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res, err := s.sources.Authors.List(gctx, authormodel.AuthorFilter{Params: one})
		if err != nil {
			return fmt.Errorf("count authors: %w", err)
		}
		totals.Authors = res.Total
		return nil
	})
	g.Go(func() error {
		res, err := s.sources.Categories.List(gctx, categorymodel.CategoryFilter{Params: one})
		if err != nil {
			return fmt.Errorf("count categories: %w", err)
		}
		totals.Categories = res.Total
		return nil
	})
	g.Go(func() error {
		res, err := s.sources.Books.List(gctx, bookmodel.BookFilter{
			Params: listing.Params{Page: 1, PageSize: model.SampleSize},
		})
		if err != nil {
			return fmt.Errorf("list books: %w", err)
		}
		totals.Books = res.Total
		sample = res.Items
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &model.Report{
		Totals:                totals,
		TopBooks:              rankBooks(sample),
		AverageAuthorsPerBook: averageAuthors(sample),
		GeneratedAt:           s.now(),
	}, nil
}

// rankBooks orders by link count descending, then id descending, and keeps the top entries.
func rankBooks(books []bookmodel.Book) []model.TopBook {
	ranked := make([]model.TopBook, len(books))
	for i, b := range books {
		ranked[i] = model.TopBook{
			ID:    b.ID,
			Title: b.Title,
			Links: len(b.Authors) + len(b.Categories),
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Links != ranked[j].Links {
			return ranked[i].Links > ranked[j].Links
		}
		return ranked[i].ID > ranked[j].ID
	})
	if len(ranked) > model.TopBooksLimit {
		ranked = ranked[:model.TopBooksLimit]
	}
	return ranked
}

func averageAuthors(books []bookmodel.Book) decimal.Decimal {
	if len(books) == 0 {
		return decimal.Zero
	}
	var links int64
	for _, b := range books {
		links += int64(len(b.Authors))
	}
	return decimal.NewFromInt(links).
		Div(decimal.NewFromInt(int64(len(books)))).
		Round(2)
}

func taskID(info *asynq.TaskInfo) string {
	if info == nil {
		return ""
	}
	return info.ID
}
