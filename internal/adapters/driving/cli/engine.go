package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/custodia-labs/relevance/internal/adapters/driven/cache/memory"
	"github.com/custodia-labs/relevance/internal/adapters/driven/cache/redis"
	"github.com/custodia-labs/relevance/internal/adapters/driven/catalog"
	eventsmemory "github.com/custodia-labs/relevance/internal/adapters/driven/events/memory"
	"github.com/custodia-labs/relevance/internal/adapters/driven/events/nats"
	storagememory "github.com/custodia-labs/relevance/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/relevance/internal/adapters/driven/storage/postgres"
	"github.com/custodia-labs/relevance/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/relevance/internal/adapters/driven/telemetry"
	"github.com/custodia-labs/relevance/internal/core/domain"
	"github.com/custodia-labs/relevance/internal/core/ports/driven"
	"github.com/custodia-labs/relevance/internal/core/services"
	"github.com/custodia-labs/relevance/internal/extractors"
	"github.com/custodia-labs/relevance/internal/logger"
)

// connectTimeout bounds the initial dial to remote backends.
const connectTimeout = 5 * time.Second

// engine is the set of adapters and services for one process.
type engine struct {
	search       *services.SearchService
	orchestrator *services.Orchestrator
	contexts     *services.ContextManager
	indexer      *services.Indexer
	scheduler    *services.Scheduler
	subscriber   *services.ChangeSubscriber
	bus          driven.EventBus
	watcher      *catalog.Watcher
	metrics      *telemetry.Prometheus

	closers []io.Closer
}

// repository is the storage side of the engine.
type repository struct {
	content   driven.ContentStore
	ranker    driven.Ranker
	contexts  driven.ContextStore
	scheduler driven.SchedulerStore
	closer    io.Closer
}

// openEngine opens the configured backends and builds the services over them.
func openEngine(ctx context.Context, s domain.Settings) (*engine, error) {
	eng := &engine{metrics: telemetry.NewPrometheus(nil)}

	repo, err := openRepository(ctx, s)
	if err != nil {
		return nil, err
	}
	if repo.closer != nil {
		eng.closers = append(eng.closers, repo.closer)
	}

	cache, err := openCache(ctx, s.Cache)
	if err != nil {
		return nil, errors.Join(err, eng.Close())
	}
	eng.closers = append(eng.closers, cache)

	bus, err := openBus(s.Events)
	if err != nil {
		return nil, errors.Join(err, eng.Close())
	}
	eng.closers = append(eng.closers, bus)
	eng.bus = bus

	source := catalog.NewSource(s.Catalog.Dir)
	registry := extractors.NewDefaultRegistry(s.Indexer)
	searchCache := services.NewSearchCache(cache, s.Search.CachePrefix, eng.metrics)

	eng.search = services.NewSearchService(repo.content, repo.ranker, searchCache, s.Search, eng.metrics)
	eng.indexer = services.NewIndexer(source, repo.content, registry, searchCache, eng.metrics)
	eng.contexts = services.NewContextManager(repo.contexts, cache, s.Context)
	eng.orchestrator = services.NewOrchestrator(eng.search, eng.contexts, s.Orchestrator, eng.metrics)
	eng.scheduler = services.NewScheduler(s.Scheduler, repo.scheduler, eng.indexer, eng.contexts)
	eng.subscriber = services.NewChangeSubscriber(eng.indexer, eng.contexts, s.Events)
	eng.watcher = catalog.NewWatcher(s.Catalog.Dir, 0)

	logger.Debug("Engine: storage=%s cache=%s events=%s catalog=%s",
		s.Storage.Backend, s.Cache.Backend, s.Events.Backend, s.Catalog.Dir)
	return eng, nil
}

func openRepository(ctx context.Context, s domain.Settings) (repository, error) {
	switch s.Storage.Backend {
	case domain.StorageSQLite:
		store, err := sqlite.NewStore(s.Storage.DataDir)
		if err != nil {
			return repository{}, fmt.Errorf("opening sqlite store: %w", err)
		}
		return repository{
			content:   store.ContentStore(),
			ranker:    store.Ranker(s.Search.TitleWeight, s.Search.ContentWeight),
			contexts:  store.ContextStore(),
			scheduler: store.SchedulerStore(),
			closer:    store,
		}, nil

	case domain.StoragePostgres:
		dialCtx, cancel := context.WithTimeout(ctx, connectTimeout)
		defer cancel()
		store, err := postgres.Open(dialCtx, s.Storage.PostgresDSN)
		if err != nil {
			return repository{}, fmt.Errorf("opening postgres store: %w", err)
		}
		return repository{
			content:   store.ContentStore(),
			ranker:    store.Ranker(s.Search.TitleWeight, s.Search.ContentWeight),
			contexts:  store.ContextStore(),
			scheduler: storagememory.NewSchedulerStore(),
			closer:    store,
		}, nil

	case domain.StorageMemory:
		// No ranker: searches use keyword scoring.
		return repository{
			content:   storagememory.NewContentStore(),
			contexts:  storagememory.NewContextStore(),
			scheduler: storagememory.NewSchedulerStore(),
		}, nil
	}
	return repository{}, fmt.Errorf("%w: storage backend %q", domain.ErrInvalidInput, s.Storage.Backend)
}

func openCache(ctx context.Context, s domain.CacheSettings) (driven.Cache, error) {
	switch s.Backend {
	case domain.CacheMemory:
		return memory.New(0), nil
	case domain.CacheRedis:
		dialCtx, cancel := context.WithTimeout(ctx, connectTimeout)
		defer cancel()
		cache, err := redis.New(dialCtx, redis.Config{
			Addr:        s.RedisAddr,
			Password:    s.RedisPassword,
			DB:          s.RedisDB,
			Prefix:      s.KeyPrefix,
			DialTimeout: connectTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("opening redis cache: %w", err)
		}
		return cache, nil
	}
	return nil, fmt.Errorf("%w: cache backend %q", domain.ErrInvalidInput, s.Backend)
}

func openBus(s domain.EventSettings) (driven.EventBus, error) {
	switch s.Backend {
	case domain.EventsMemory:
		return eventsmemory.NewBus(), nil
	case domain.EventsNATS:
		bus, err := nats.Connect(s.NATSURL, s.Subject)
		if err != nil {
			return nil, err
		}
		return bus, nil
	}
	return nil, fmt.Errorf("%w: events backend %q", domain.ErrInvalidInput, s.Backend)
}

// install publishes the engine's services to the command package.
func (e *engine) install() {
	searchService = e.search
	orchestrator = e.orchestrator
	contextService = e.contexts
	indexer = e.indexer
	scheduler = e.scheduler
	subscriber = e.subscriber
	eventBus = e.bus
	catalogWatcher = e.watcher
	metricsHandler = e.metrics.Handler()
}

// Close releases backends in reverse order of opening.
func (e *engine) Close() error {
	var errs []error
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	e.closers = nil
	return errors.Join(errs...)
}
