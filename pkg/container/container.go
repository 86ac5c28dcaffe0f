package container

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"bookstore-catalog/internal/config"
	authorHandler "bookstore-catalog/internal/domains/author/handler"
	authorRepo "bookstore-catalog/internal/domains/author/repository"
	authorService "bookstore-catalog/internal/domains/author/service"
	bookHandler "bookstore-catalog/internal/domains/book/handler"
	bookRepo "bookstore-catalog/internal/domains/book/repository"
	bookService "bookstore-catalog/internal/domains/book/service"
	categoryHandler "bookstore-catalog/internal/domains/category/handler"
	categoryRepo "bookstore-catalog/internal/domains/category/repository"
	categoryService "bookstore-catalog/internal/domains/category/service"
	reportHandler "bookstore-catalog/internal/domains/report/handler"
	reportJob "bookstore-catalog/internal/domains/report/job"
	reportService "bookstore-catalog/internal/domains/report/service"
	infraCache "bookstore-catalog/internal/infrastructure/cache"
	"bookstore-catalog/internal/infrastructure/database"
	"bookstore-catalog/internal/infrastructure/queue"
	"bookstore-catalog/internal/shared"
	"bookstore-catalog/pkg/cache"
)

// Infrastructure is what the container needs from the outside world.
// NewContainer dials the real services; tests hand in fakes.
type Infrastructure struct {
	DB    *database.PostgresDB // nil with STORAGE_DRIVER=memory
	Redis *infraCache.RedisClient
	Cache cache.Cache
	Queue reportService.TaskEnqueuer
}

// Container holds every dependency of the application, built once in
// dependency order: infrastructure, repositories, services, handlers.
type Container struct {
	Config *config.Config

	// Infrastructure
	DB    *database.PostgresDB
	Redis *infraCache.RedisClient
	Cache cache.Cache
	Queue reportService.TaskEnqueuer

	// Repositories
	AuthorRepo   authorRepo.RepositoryInterface
	CategoryRepo categoryRepo.RepositoryInterface
	BookRepo     bookRepo.RepositoryInterface

	// Services
	AuthorService   authorService.ServiceInterface
	CategoryService categoryService.ServiceInterface
	BookService     bookService.ServiceInterface
	ReportService   reportService.ServiceInterface

	// Handlers
	AuthorHandler   *authorHandler.AuthorHandler
	CategoryHandler *categoryHandler.CategoryHandler
	BookHandler     *bookHandler.BookHandler
	ReportHandler   *reportHandler.ReportHandler

	// Jobs
	GenerateReportJob *reportJob.GenerateReportHandler

	closers []func() error
}

// NewContainer connects to the configured backends and builds the graph.
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	log.Info().Str("env", cfg.App.Environment).Msg("Initializing container")

	infra := Infrastructure{}
	var closers []func() error
	fail := func(err error) (*Container, error) {
		for i := len(closers) - 1; i >= 0; i-- {
			_ = closers[i]()
		}
		return nil, err
	}

	// ========== DATABASE ==========
	if cfg.Storage.Driver == config.DriverPostgres {
		db := database.NewPostgresDB(cfg.Database)

		connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		err := db.Connect(connectCtx)
		cancel()
		if err != nil {
			return fail(fmt.Errorf("failed to connect to database: %w", err))
		}
		closers = append(closers, db.Close)

		if err := database.EnsureSchema(ctx, db.Pool); err != nil {
			return fail(err)
		}
		infra.DB = db
	}

	// ========== REDIS ==========
	// The queue always lives in Redis; the cache may too.
	infra.Redis = infraCache.NewRedisClient(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	closers = append(closers, infra.Redis.Close)
	if err := infra.Redis.Connect(ctx); err != nil {
		// Not fatal: catalog endpoints work without Redis, /health reports it.
		log.Warn().Err(err).Msg("Redis unavailable, report endpoints will fail")
	}

	switch cfg.Cache.Driver {
	case config.DriverMemory:
		infra.Cache = cache.NewMemoryCache()
	default:
		infra.Cache = infraCache.NewRedisCache(infra.Redis.Client)
	}

	// ========== QUEUE PRODUCER ==========
	client := queue.NewClient(queue.RedisOpt(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB))
	closers = append(closers, client.Close)
	infra.Queue = client

	c, err := NewWithInfrastructure(cfg, infra)
	if err != nil {
		return fail(err)
	}
	c.closers = closers

	log.Info().
		Str("storage", cfg.Storage.Driver).
		Str("cache", cfg.Cache.Driver).
		Msg("Container initialized")
	return c, nil
}

// NewWithInfrastructure builds repositories, services and handlers on top of
// already connected infrastructure.
func NewWithInfrastructure(cfg *config.Config, infra Infrastructure) (*Container, error) {
	c := &Container{
		Config: cfg,
		DB:     infra.DB,
		Redis:  infra.Redis,
		Cache:  infra.Cache,
		Queue:  infra.Queue,
	}

	if c.Cache == nil {
		return nil, fmt.Errorf("container: cache is required")
	}
	if c.Queue == nil {
		return nil, fmt.Errorf("container: queue is required")
	}

	if err := c.initRepositories(); err != nil {
		return nil, fmt.Errorf("failed to init repositories: %w", err)
	}
	c.initServices()
	c.initHandlers()

	return c, nil
}

func (c *Container) initRepositories() error {
	switch c.Config.Storage.Driver {
	case config.DriverMemory:
		authors := authorRepo.NewMemoryRepository()
		categories := categoryRepo.NewMemoryRepository()
		c.AuthorRepo = authors
		c.CategoryRepo = categories
		c.BookRepo = bookRepo.NewMemoryRepository(authors, categories)

	case config.DriverPostgres:
		if c.DB == nil || c.DB.Pool == nil {
			return fmt.Errorf("postgres storage selected but no database connection")
		}
		pool := c.DB.Pool
		c.AuthorRepo = authorRepo.NewPostgresRepository(pool)
		c.CategoryRepo = categoryRepo.NewPostgresRepository(pool)
		c.BookRepo = bookRepo.NewPostgresRepository(pool)

	default:
		return fmt.Errorf("unknown storage driver %q", c.Config.Storage.Driver)
	}
	return nil
}

func (c *Container) initServices() {
	c.AuthorService = authorService.NewAuthorService(c.AuthorRepo)
	c.CategoryService = categoryService.NewCategoryService(c.CategoryRepo)
	c.BookService = bookService.NewBookService(c.BookRepo)
	c.ReportService = reportService.NewReportService(
		c.Queue,
		c.Cache,
		reportService.Sources{
			Authors:    c.AuthorRepo,
			Categories: c.CategoryRepo,
			Books:      c.BookRepo,
		},
		reportService.Config{
			TTL:           c.Config.Report.TTL,
			SimulatedWork: c.Config.Report.SimulatedWork,
		},
	)
}

func (c *Container) initHandlers() {
	c.AuthorHandler = authorHandler.NewAuthorHandler(c.AuthorService)
	c.CategoryHandler = categoryHandler.NewCategoryHandler(c.CategoryService)
	c.BookHandler = bookHandler.NewBookHandler(c.BookService, c.Config.App.LegacyErrorStatus)
	c.ReportHandler = reportHandler.NewReportHandler(c.ReportService)
	c.GenerateReportJob = reportJob.NewGenerateReportHandler(c.ReportService)
}

// NewWorker builds the report consumer pool with every job handler registered.
func (c *Container) NewWorker() *queue.Server {
	srv := queue.NewServer(
		queue.RedisOpt(c.Config.Redis.Host, c.Config.Redis.Password, c.Config.Redis.DB),
		c.Config.Worker.Concurrency,
		c.Config.Worker.ShutdownTimeout,
	)
	srv.HandleFunc(shared.TypeGenerateReport, c.GenerateReportJob.ProcessTask)
	return srv
}

// HealthChecks lists the dependency pings exposed on /health.
func (c *Container) HealthChecks() map[string]func(context.Context) error {
	checks := map[string]func(context.Context) error{
		"cache": c.Cache.Ping,
	}
	if c.DB != nil {
		checks["database"] = c.DB.Ping
	}
	return checks
}

// Cleanup releases connections in reverse order of creation
func (c *Container) Cleanup() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			log.Warn().Err(err).Msg("Cleanup step failed")
		}
	}
	c.closers = nil
	log.Info().Msg("Container cleanup completed")
}

var _ reportService.TaskEnqueuer = (*asynq.Client)(nil)
