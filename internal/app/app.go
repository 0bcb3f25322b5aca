package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/vacuum-planner/internal/cache"
	"github.com/vancomm/vacuum-planner/internal/config"
	"github.com/vancomm/vacuum-planner/internal/database"
	"github.com/vancomm/vacuum-planner/internal/metrics"
	"github.com/vancomm/vacuum-planner/internal/middleware"
)

const shutdownTimeout = 15 * time.Second

type App struct {
	logger     *slog.Logger
	router     *mux.Router
	db         *pgxpool.Pool
	plans      *cache.Plans
	cookies    *config.Cookies
	jwt        *config.JWT
	ws         *config.WebSocket
	limits     *config.Planner
	metrics    *metrics.Search
	origins    []string
	migrations fs.FS
}

func New(logger *slog.Logger, migrations fs.FS) *App {
	return &App{
		logger:     logger,
		router:     mux.NewRouter(),
		metrics:    metrics.New(),
		migrations: migrations,
	}
}

// connectStorage leaves a.db nil when no database is configured.
func (a *App) connectStorage(ctx context.Context) error {
	db, migrator, err := database.ConnectAndMigrate(ctx, a.migrations)
	if errors.Is(err, config.ErrNotConfigured) {
		a.logger.Warn("run storage disabled", slog.Any("reason", err))
		return nil
	}
	if err != nil {
		return fmt.Errorf("unable to connect to db: %w", err)
	}
	version, dirty, err := migrator.Version()
	if err == nil {
		a.logger.Info("database ready", slog.Uint64("version", uint64(version)), slog.Bool("dirty", dirty))
	}
	a.db = db
	return nil
}

// connectCache leaves a.plans nil when redis is not configured or unreachable.
func (a *App) connectCache(ctx context.Context) error {
	cfg, err := config.NewRedis()
	if errors.Is(err, config.ErrNotConfigured) {
		a.logger.Warn("plan cache disabled", slog.Any("reason", err))
		return nil
	}
	if err != nil {
		return err
	}

	plans := cache.New(cfg.Addr, cfg.Password, cfg.DB, cache.WithTTL(cfg.TTL))
	if err := plans.Ping(ctx); err != nil {
		a.logger.Warn("plan cache unreachable", slog.String("addr", cfg.Addr), slog.Any("error", err))
		plans.Close()
		return nil
	}
	a.plans = plans
	return nil
}

func (a *App) loadConfig() error {
	var err error
	if a.cookies, err = config.NewCookies(); err != nil {
		return err
	}
	if a.jwt, err = config.NewJWT(); err != nil {
		return err
	}
	if a.ws, err = config.NewWebSocket(); err != nil {
		return err
	}
	if a.limits, err = config.NewPlanner(); err != nil {
		return err
	}
	a.origins = config.AllowedOrigins()
	return nil
}

func (a *App) Handler() http.Handler {
	return middleware.Wrap(
		a.router,
		middleware.Auth(a.logger, a.cookies, a.jwt),
		middleware.Logging(a.logger),
		middleware.Cors(a.origins),
	)
}

func (a *App) close() {
	if a.db != nil {
		a.db.Close()
	}
	if a.plans != nil {
		if err := a.plans.Close(); err != nil {
			a.logger.Warn("unable to close plan cache", slog.Any("error", err))
		}
	}
}

// Start serves until ctx is cancelled or the listener fails.
func (a *App) Start(ctx context.Context) error {
	if err := a.loadConfig(); err != nil {
		return err
	}
	if err := a.connectStorage(ctx); err != nil {
		return err
	}
	if err := a.connectCache(ctx); err != nil {
		a.close()
		return err
	}
	defer a.close()

	a.loadRoutes()

	port := config.Port()
	server := &http.Server{
		Addr:              port,
		Handler:           a.Handler(),
		ReadHeaderTimeout: time.Second * 15,
		IdleTimeout:       time.Second * 60,
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info(fmt.Sprintf("planner server listening at http://localhost%s", port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to listen and serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		sCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(sCtx)
	})

	return g.Wait()
}
