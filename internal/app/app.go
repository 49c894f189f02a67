package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/nagumeena22/ColabSphere/internal/account"
	"github.com/nagumeena22/ColabSphere/internal/auth"
	"github.com/nagumeena22/ColabSphere/internal/book"
	"github.com/nagumeena22/ColabSphere/internal/config"
	"github.com/nagumeena22/ColabSphere/internal/db"
	"github.com/nagumeena22/ColabSphere/internal/events"
	"github.com/nagumeena22/ColabSphere/internal/health"
	"github.com/nagumeena22/ColabSphere/internal/insights"
	"github.com/nagumeena22/ColabSphere/internal/jobs"
	"github.com/nagumeena22/ColabSphere/internal/joinrequest"
	"github.com/nagumeena22/ColabSphere/internal/logger"
	"github.com/nagumeena22/ColabSphere/internal/metrics"
	"github.com/nagumeena22/ColabSphere/internal/middleware"
	"github.com/nagumeena22/ColabSphere/internal/project"
	"github.com/nagumeena22/ColabSphere/internal/telemetry"
	"github.com/nagumeena22/ColabSphere/internal/user"
	"github.com/nagumeena22/ColabSphere/internal/viewapplication"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
)

const rateWindow = time.Minute

type App struct {
	config    *config.Config
	router    *gin.Engine
	server    *http.Server
	logger    *slog.Logger
	db        *bun.DB
	redis     *redis.Client
	publisher events.Publisher
	scheduler *jobs.Scheduler
	telemetry *telemetry.Telemetry
}

// Models lists every table the service owns, in creation order.
func Models() []interface{} {
	return []interface{}{
		(*user.User)(nil),
		(*auth.RefreshToken)(nil),
		(*project.Project)(nil),
		(*joinrequest.JoinRequest)(nil),
		(*viewapplication.Application)(nil),
		(*book.Book)(nil),
	}
}

// Migrations lists the index statements run after the tables exist.
func Migrations() []string {
	stmts := append([]string{}, joinrequest.Migrations...)
	return append(stmts, viewapplication.Migrations...)
}

func New() *App {
	slogLogger := logger.NewWithServiceContext(ServiceName, Version)

	// Set as default logger so slog.Info() uses the same handler
	slog.SetDefault(slogLogger)

	slogLogger.Info("initializing application", "git_commit", GitCommit, "build_time", BuildTime)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	slogLogger.Info("config loaded", "env", cfg.Env)

	if cfg.Env == "prod" || cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	app := &App{
		config: cfg,
		router: gin.New(),
		logger: slogLogger,
	}

	ctx := context.Background()

	tel, err := telemetry.Init(ctx, ServiceName, Version, cfg.Env, slogLogger)
	m := metrics.NewMock()
	if err != nil {
		slogLogger.Warn("telemetry disabled", "error", err)
	} else {
		app.telemetry = tel
		m = tel.Metrics
	}

	database, err := db.New(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	app.db = database

	if err := db.RunMigrations(ctx, database, Models(), Migrations()...); err != nil {
		log.Fatal("failed to run migrations:", err)
	}

	publisher, err := events.New(cfg.Events, slogLogger)
	if err != nil {
		slogLogger.Warn("failed to initialize event publisher, events disabled", "driver", cfg.Events.Driver, "error", err)
		publisher = events.Noop{}
	}
	app.publisher = publisher

	checks := map[string]health.Checker{
		"postgres": func(ctx context.Context) error { return db.Ping(ctx, database) },
	}

	app.scheduler = jobs.NewScheduler(slogLogger)

	var limiter middleware.Limiter
	if cfg.Redis.Addr != "" {
		app.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		limiter = middleware.NewRedisLimiter(app.redis, slogLogger)
		checks["redis"] = func(ctx context.Context) error { return app.redis.Ping(ctx).Err() }
		slogLogger.Info("redis rate limiter enabled", "addr", cfg.Redis.Addr)
	} else {
		local := middleware.NewRateLimiter()
		limiter = local
		if err := app.scheduler.AddRateLimitSweep("@every 5m", local); err != nil {
			log.Fatal("failed to schedule rate limit sweep:", err)
		}
	}

	dependencies := make([]string, 0, len(checks))
	for name := range checks {
		dependencies = append(dependencies, name)
	}
	if tel != nil {
		if err := m.Health.RegisterDependencies(ctx, otel.Meter(ServiceName), dependencies); err != nil {
			slogLogger.Warn("failed to register dependency gauges", "error", err)
		}
	}

	app.router.Use(gin.Recovery())
	app.router.Use(middleware.RequestID())
	app.router.Use(middleware.AccessLog(slogLogger))
	app.router.Use(middleware.CORS(cfg.Server.CORSOrigins))

	// Health endpoints (no auth required)
	health.NewHandler(checks, m, slogLogger).RegisterRoutes(app.router)

	callerID := func(c *gin.Context) (int64, bool) { return auth.GetUserID(c.Request.Context()) }

	tokens := auth.NewTokenManager(cfg.JWT.Secret,
		time.Duration(cfg.JWT.AccessTTLMinutes)*time.Minute,
		time.Duration(cfg.JWT.RefreshTTLHours)*time.Hour)
	requireAuth := auth.AuthMiddleware(tokens, slogLogger)

	userRepo := user.NewRepository(database, m)
	userService := user.NewService(userRepo)
	requireAdmin := auth.RequireAdmin(userRepo, slogLogger)

	authRepo := auth.NewRepository(database, m)
	authService := auth.NewService(authRepo, userRepo, userService, tokens)
	loginLimit := middleware.RateLimit(limiter, "login", middleware.ClientIPKey, cfg.RateLimit.LoginPerMinute, rateWindow)
	auth.NewHandler(authService, tokens, slogLogger, m).RegisterRoutes(app.router, requireAuth, loginLimit)

	if err := app.scheduler.AddTokenCleanup(cfg.JWT.CleanupCronSpec, authService); err != nil {
		log.Fatal("failed to schedule refresh token cleanup:", err)
	}

	projectRepo := project.NewRepository(database, m)
	projectService := project.NewService(projectRepo, userRepo)

	joinService := joinrequest.NewService(joinrequest.NewRepository(database, m), projectService, publisher, slogLogger, m)
	joinHandler := joinrequest.NewHandler(joinService, slogLogger, callerID)
	submitLimit := middleware.RateLimit(limiter, "join", middleware.UserOrIPKey(auth.GetUserID), cfg.RateLimit.JoinPerMinute, rateWindow)

	insightsHandler := insights.NewHandler(insights.NewService(insights.NewRepository(database, m), cfg.Insights, slogLogger, m))
	applicationHandler := viewapplication.NewHandler(
		viewapplication.NewService(viewapplication.NewRepository(database, m), projectService), slogLogger)
	bookHandler := book.NewHandler(book.NewService(book.NewRepository(database, m)), slogLogger)
	projectHandler := project.NewHandler(projectService, slogLogger, m, callerID)
	userHandler := user.NewHandler(userService, slogLogger, m, callerID)
	accountHandler := account.NewHandler(account.NewService(userRepo, projectService, joinService), slogLogger, callerID)

	public := app.router.Group("")
	protected := app.router.Group("", requireAuth)

	projectHandler.RegisterRoutes(public, protected)
	bookHandler.RegisterRoutes(public, protected)
	applicationHandler.RegisterRoutes(public, protected)

	joinHandler.RegisterRoutes(protected, submitLimit, requireAdmin)
	insightsHandler.RegisterRoutes(protected)
	accountHandler.RegisterRoutes(protected)
	userHandler.RegisterRoutes(protected, requireAdmin)

	// The dashboard reads these under /admin
	adminAliases := protected.Group("/admin")
	joinHandler.RegisterListingRoutes(adminAliases, requireAdmin)
	insightsHandler.RegisterRoutes(adminAliases)
	userHandler.RegisterAdminRoutes(protected.Group("/admin", requireAdmin))

	slogLogger.Info("application initialized successfully")

	return app
}

// Handler exposes the router for in-process tests.
func (a *App) Handler() http.Handler {
	return a.router
}

func (a *App) Run() error {
	a.server = &http.Server{
		Addr:         fmt.Sprintf(":%s", a.config.Server.Port),
		Handler:      a.router,
		ReadTimeout:  time.Duration(a.config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(a.config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(a.config.Server.IdleTimeout) * time.Second,
	}

	a.scheduler.Start()

	a.logger.Info("server starting", "port", a.config.Server.Port, "version", Version)
	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down server")

	var errs []error
	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("http server: %w", err))
		}
	}

	a.scheduler.Stop(ctx)

	if err := a.publisher.Close(); err != nil {
		errs = append(errs, fmt.Errorf("event publisher: %w", err))
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis: %w", err))
		}
	}
	if err := a.telemetry.Shutdown(ctx, a.logger); err != nil {
		errs = append(errs, err)
	}
	db.Close(a.db)

	return errors.Join(errs...)
}
