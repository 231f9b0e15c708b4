package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"hrportal/internal/domain/audit"
	"hrportal/internal/domain/auth"
	"hrportal/internal/domain/dashboard"
	"hrportal/internal/domain/permissions"
	"hrportal/internal/domain/sites"
	"hrportal/internal/platform/cache"
	"hrportal/internal/platform/config"
	"hrportal/internal/platform/db"
	"hrportal/internal/platform/jobs"
	"hrportal/internal/platform/metrics"
	"hrportal/internal/transport/http/api"
	audithandler "hrportal/internal/transport/http/handlers/audit"
	authhandler "hrportal/internal/transport/http/handlers/auth"
	confighandler "hrportal/internal/transport/http/handlers/config"
	dashboardhandler "hrportal/internal/transport/http/handlers/dashboard"
	siteshandler "hrportal/internal/transport/http/handlers/sites"
	"hrportal/internal/transport/http/middleware"
)

const devJWTSecret = "dev-only-secret-change-me"

type App struct {
	Config  config.Config
	Logger  *slog.Logger
	DB      *pgxpool.Pool
	Redis   *redis.Client
	Queue   *asynq.Client
	Metrics *metrics.Collector
	Router  http.Handler
}

// Deps are the services the router mounts.
type Deps struct {
	Config      config.Config
	Logger      *slog.Logger
	Metrics     *metrics.Collector
	Auth        *auth.Service
	Permissions *permissions.Service
	Dashboard   *dashboard.Service
	Sites       *sites.Service
	Audit       audithandler.Reader
	Recorder    audit.Recorder
	Ready       func(ctx context.Context) error
}

// New connects to Postgres and Redis, prepares the schema and builds the router.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = config.NewLogger(cfg)
	}
	if cfg.JWTSecret == "" {
		logger.Warn("JWT_SECRET not set, using development secret")
		cfg.JWTSecret = devJWTSecret
	}

	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrations: %w", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg.SeedAdminEmail, cfg.SeedAdminPassword); err != nil {
			pool.Close()
			return nil, fmt.Errorf("seed: %w", err)
		}
	}

	rdb, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, running without cache", slog.Any("error", err))
	}
	queue := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	collector := metrics.New()

	auditService := audit.New(pool)
	deps := Deps{
		Config:      cfg,
		Logger:      logger,
		Metrics:     collector,
		Auth:        auth.NewService(auth.NewStore(pool), cfg.JWTSecret, jobs.NewNotifier(countingEnqueuer{next: queue, metrics: collector})),
		Permissions: permissions.NewService(permissions.NewStore(pool), cache.NewJSON(rdb, "hrportal"), cfg.PermissionsCacheTTL),
		Dashboard:   dashboard.NewService(dashboard.NewStore(pool), cache.NewJSON(rdb, "hrportal"), cfg.StatsCacheTTL),
		Sites:       sites.NewService(sites.NewStore(pool)),
		Audit:       auditService,
		Recorder:    auditService,
		Ready:       pool.Ping,
	}

	return &App{
		Config:  cfg,
		Logger:  logger,
		DB:      pool,
		Redis:   rdb,
		Queue:   queue,
		Metrics: collector,
		Router:  NewRouter(deps),
	}, nil
}

// NewRouter mounts every handler under /api.
func NewRouter(deps Deps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	var observer middleware.Observer
	if deps.Metrics != nil {
		observer = deps.Metrics
	}

	router := chi.NewRouter()
	router.Use(chimw.RealIP)
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger, observer))
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(deps.Config.IsProduction()))
	router.Use(middleware.BodyLimit(deps.Config.MaxBodyBytes))
	router.Use(middleware.Auth(deps.Config.JWTSecret))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if deps.Ready != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := deps.Ready(ctx); err != nil {
				http.Error(w, "db not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	if deps.Metrics != nil && deps.Config.MetricsEnabled {
		router.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	router.Route("/api", func(r chi.Router) {
		r.Use(middleware.RateLimit(deps.Config.RateLimitPerMinute, time.Minute))

		authhandler.NewHandler(deps.Auth, deps.Permissions, deps.Recorder, deps.Config.AuthRateLimitPerMinute).RegisterRoutes(r)
		confighandler.NewHandler(deps.Permissions, deps.Recorder).RegisterRoutes(r)
		dashboardhandler.NewHandler(deps.Dashboard, deps.Permissions).RegisterRoutes(r)
		siteshandler.NewHandler(deps.Sites, deps.Permissions, deps.Recorder, deps.Dashboard).RegisterRoutes(r)
		if deps.Audit != nil {
			audithandler.NewHandler(deps.Audit, deps.Permissions).RegisterRoutes(r)
		}
	})

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		api.Fail(w, http.StatusNotFound, "not_found", "route not found", middleware.GetRequestID(r.Context()))
	})
	return router
}

// Run serves HTTP until ctx is cancelled, then drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.Config.Addr,
		Handler:           a.Router,
		ReadTimeout:       a.Config.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      a.Config.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("HR portal listening", slog.String("addr", a.Config.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (a *App) Close() {
	if a.Queue != nil {
		if err := a.Queue.Close(); err != nil {
			a.Logger.Warn("queue close failed", slog.Any("error", err))
		}
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if a.DB != nil {
		a.DB.Close()
	}
}

type countingEnqueuer struct {
	next    jobs.TaskEnqueuer
	metrics *metrics.Collector
}

func (c countingEnqueuer) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	info, err := c.next.EnqueueContext(ctx, task, opts...)
	c.metrics.Enqueued(err)
	return info, err
}
