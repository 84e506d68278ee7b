package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Adithya-Monish-Kumar-K/articlesearch/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/articlesearch/internal/api"
	"github.com/Adithya-Monish-Kumar-K/articlesearch/internal/article"
	"github.com/Adithya-Monish-Kumar-K/articlesearch/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/articlesearch/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/articlesearch/internal/searcher/cache"
	"github.com/Adithya-Monish-Kumar-K/articlesearch/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/articlesearch/internal/snapshot"
	"github.com/Adithya-Monish-Kumar-K/articlesearch/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/articlesearch/pkg/health"
	"github.com/Adithya-Monish-Kumar-K/articlesearch/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/articlesearch/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/articlesearch/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/articlesearch/pkg/postgres"
	pkgredis "github.com/Adithya-Monish-Kumar-K/articlesearch/pkg/redis"
)

const cacheInvalidateTimeout = 5 * time.Second

func main() {
	configPath := flag.String("config", "configs/articled.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("article service failed", "error", err)
		os.Exit(1)
	}
	slog.Info("article service stopped")
}

func run(ctx context.Context, cfg *config.Config) error {
	slog.Info("starting article service",
		"port", cfg.Server.Port,
		"snapshot_backend", cfg.Snapshot.Backend,
		"cache", cfg.Cache.Enabled,
		"events", cfg.Events.Enabled,
	)

	engine := indexer.NewEngine()

	store, db, err := openSnapshotStore(ctx, cfg)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}
	snapshot.Restore(ctx, store, engine)

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
		stats := engine.Stats()
		m.SetIndexSize(stats.Index.Keywords, stats.Index.Tags)
	}

	persister := snapshot.NewPersister(store, engine,
		snapshot.WithResultFunc(func(err error, articles int, elapsed time.Duration) {
			if m != nil {
				m.ObserveSnapshot(err)
			}
		}),
	)
	persister.Start()
	defer persister.Close()

	checker := health.NewChecker()
	checker.Register("engine", api.EngineCheck(engine))
	checker.Register("snapshot", health.LastErrorCheck(persister.LastError))
	if db != nil {
		checker.Register("postgres", health.PingCheck(db.Ping, health.StatusDown))
	}

	aggregator := analytics.NewAggregator()
	articleTrackers := analytics.Fanout{aggregator}
	searchTrackers := analytics.Fanout{aggregator}

	if cfg.Events.Enabled {
		eventsCtx, cancelEvents := context.WithCancel(context.Background())
		defer cancelEvents()

		articleProducer := kafka.NewProducer(cfg.Kafka, cfg.Kafka.Topics.ArticleEvents)
		defer articleProducer.Close()
		articleCollector := analytics.NewCollector(articleProducer, cfg.Events.BufferSize)
		articleCollector.Start(eventsCtx)
		defer articleCollector.Close()

		searchProducer := kafka.NewProducer(cfg.Kafka, cfg.Kafka.Topics.SearchEvents)
		defer searchProducer.Close()
		searchCollector := analytics.NewCollector(searchProducer, cfg.Events.BufferSize)
		searchCollector.Start(eventsCtx)
		defer searchCollector.Close()

		articleTrackers = append(articleTrackers, articleCollector)
		searchTrackers = append(searchTrackers, searchCollector)
		slog.Info("event publishing enabled",
			"brokers", cfg.Kafka.Brokers,
			"article_topic", cfg.Kafka.Topics.ArticleEvents,
			"search_topic", cfg.Kafka.Topics.SearchEvents,
		)
	}

	handlerOpts := []api.Option{api.WithTracker(searchTrackers)}
	if m != nil {
		handlerOpts = append(handlerOpts, api.WithMetrics(m))
	}

	var queryCache *cache.QueryCache
	if cfg.Cache.Enabled {
		redisClient, err := pkgredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			slog.Warn("redis unavailable, search caching disabled", "error", err)
			checker.Register("redis", func(context.Context) health.ComponentHealth {
				return health.ComponentHealth{Status: health.StatusDegraded, Message: "unavailable at startup"}
			})
		} else {
			defer redisClient.Close()
			queryCache = cache.New(redisClient, cfg.Cache.TTL)
			handlerOpts = append(handlerOpts, api.WithCache(queryCache))
			checker.Register("redis", health.PingCheck(redisClient.Ping, health.StatusDegraded))
			slog.Info("search cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Cache.TTL)
		}
	}

	engine.OnAdd(func(ctx context.Context, a article.Article) {
		persister.Notify()
		if queryCache != nil {
			queryCache.InvalidateAsync(ctx, cacheInvalidateTimeout)
		}
		if m != nil {
			m.ArticlesAddedTotal.Inc()
			stats := engine.Stats()
			m.SetIndexSize(stats.Index.Keywords, stats.Index.Tags)
		}
		articleTrackers.Track(analytics.ArticleEvent{
			Type:      analytics.EventArticleCreated,
			ArticleID: a.ID,
			Title:     a.Title,
			Tags:      a.Tags,
			Tokens:    len(tokenizer.Terms(a.Text())),
			Timestamp: a.CreatedAt.Time,
		})
	})

	router := api.NewRouter(api.RouterConfig{
		Handler:        api.NewHandler(engine, executor.New(engine), handlerOpts...),
		Health:         checker,
		Analytics:      analytics.NewHandler(aggregator),
		Metrics:        m,
		ServeMetrics:   cfg.Metrics.Port == 0,
		RequestTimeout: cfg.Server.RequestTimeout,
		CORSOrigins:    cfg.Server.CORSOrigins,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("article service listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	if m != nil && cfg.Metrics.Port != 0 {
		g.Go(func() error {
			return m.StartServer(gctx, cfg.Metrics.Port)
		})
	}
	return g.Wait()
}

// openSnapshotStore returns the configured snapshot backend and, for the
// postgres backend, the database client the caller must close.
func openSnapshotStore(ctx context.Context, cfg *config.Config) (snapshot.Store, *postgres.Client, error) {
	switch cfg.Snapshot.Backend {
	case config.SnapshotBackendPostgres:
		client, err := postgres.New(ctx, cfg.Postgres)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting snapshot database: %w", err)
		}
		store, err := snapshot.NewPostgresStore(ctx, client)
		if err != nil {
			client.Close()
			return nil, nil, err
		}
		slog.Info("postgres snapshot store ready", "host", cfg.Postgres.Host, "database", cfg.Postgres.Database)
		return store, client, nil
	default:
		slog.Info("file snapshot store ready", "path", cfg.Snapshot.Path)
		return snapshot.NewFileStore(cfg.Snapshot.Path), nil, nil
	}
}
