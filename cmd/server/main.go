package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/maxviazov/bookshelf-paginate/internal/config"
	"github.com/maxviazov/bookshelf-paginate/internal/handler"
	"github.com/maxviazov/bookshelf-paginate/internal/logger"
	"github.com/maxviazov/bookshelf-paginate/internal/metrics"
	"github.com/maxviazov/bookshelf-paginate/internal/repository"
	"github.com/maxviazov/bookshelf-paginate/internal/repository/gormstore"
	"github.com/maxviazov/bookshelf-paginate/internal/repository/postgres"
	"github.com/maxviazov/bookshelf-paginate/internal/service"
)

type storage struct {
	authors repository.AuthorRepository
	books   repository.BookRepository
	pinger  repository.Pinger
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Config loading failed: %v", err)
	}

	appLogger, err := logger.New(&cfg.Logger)
	if err != nil {
		log.Fatalf("❌ Logger initialization failed: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, appLogger); err != nil {
		appLogger.Fatal().Err(err).Msg("service stopped with error")
	}
	appLogger.Info().Msg("service stopped")
}

func run(ctx context.Context, cfg *config.Config, appLogger zerolog.Logger) error {
	repo, err := repository.New(ctx, cfg, &appLogger)
	if err != nil {
		return err
	}
	defer repo.Close()

	store, err := openStorage(cfg.Storage.Driver, repo, appLogger)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	pages := service.PageSettings{Strict: cfg.Pagination.Strict, MaxLimit: cfg.Pagination.MaxLimit}
	authorSvc := service.NewAuthorService(store.authors, pages, m, appLogger)
	bookSvc := service.NewBookService(store.books, store.authors, pages, m, appLogger)

	if cfg.Logger.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery(), handler.RequestID(), handler.AccessLog(appLogger, m), handler.CORS(cfg.HTTP.CORSOrigins))
	handler.Register(engine, store.pinger, authorSvc, bookSvc, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      engine,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeout) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLogger.Info().
			Str("addr", cfg.HTTP.Addr).
			Str("storage", cfg.Storage.Driver).
			Bool("strict_pagination", cfg.Pagination.Strict).
			Int("max_limit", cfg.Pagination.MaxLimit).
			Msg("🚀 Service started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	appLogger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownTimeout)*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openStorage(driver string, repo *repository.Repository, appLogger zerolog.Logger) (storage, error) {
	switch driver {
	case "gorm":
		db, err := gormstore.Open(repo.Pool(), appLogger)
		if err != nil {
			return storage{}, err
		}
		return storage{
			authors: gormstore.NewAuthorRepository(db),
			books:   gormstore.NewBookRepository(db),
			pinger:  gormstore.NewPinger(db),
		}, nil
	default:
		pool := repo.Pool()
		return storage{
			authors: postgres.NewAuthorRepository(pool),
			books:   postgres.NewBookRepository(pool),
			pinger:  postgres.NewPinger(pool),
		}, nil
	}
}
