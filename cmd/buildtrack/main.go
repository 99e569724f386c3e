package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/buildtrack/buildtrack/internal/app"
	"github.com/buildtrack/buildtrack/internal/audit"
	"github.com/buildtrack/buildtrack/internal/auth"
	"github.com/buildtrack/buildtrack/internal/categories"
	"github.com/buildtrack/buildtrack/internal/dashboard"
	"github.com/buildtrack/buildtrack/internal/observability"
	"github.com/buildtrack/buildtrack/internal/plans"
	"github.com/buildtrack/buildtrack/internal/platform/cache"
	"github.com/buildtrack/buildtrack/internal/platform/db"
	"github.com/buildtrack/buildtrack/internal/platform/httpx"
	"github.com/buildtrack/buildtrack/internal/progress"
	"github.com/buildtrack/buildtrack/internal/projects"
	"github.com/buildtrack/buildtrack/internal/rbac"
	"github.com/buildtrack/buildtrack/internal/relations"
	"github.com/buildtrack/buildtrack/internal/resources"
	"github.com/buildtrack/buildtrack/internal/roles"
	"github.com/buildtrack/buildtrack/internal/subtasks"
	"github.com/buildtrack/buildtrack/internal/tasks"
	"github.com/buildtrack/buildtrack/internal/users"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN, cfg.PGMaxConns)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	if cfg.PGMigrate {
		applied, err := db.Migrate(ctx, dbpool)
		if err != nil {
			logger.Error("migrate", slog.Any("error", err))
			os.Exit(1)
		}
		if len(applied) > 0 {
			logger.Info("migrations applied", slog.Any("names", applied))
		}
	}

	// The dashboard runs uncached when Redis is unavailable.
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient, err = cache.New(ctx, cache.Options{Addr: cfg.RedisAddr})
		if err != nil {
			logger.Warn("redis unavailable, dashboard cache disabled", slog.Any("error", err))
		} else {
			defer func() {
				if err := redisClient.Close(); err != nil {
					logger.Warn("redis close", slog.Any("error", err))
				}
			}()
		}
	}

	codec, err := auth.NewTokenCodec(cfg.TokenSecret, auth.WithTTL(cfg.TokenTTL), auth.WithIssuer(cfg.TokenIssuer))
	if err != nil {
		logger.Error("token codec", slog.Any("error", err))
		os.Exit(1)
	}
	hasher := auth.NewHasher(cfg.BcryptCost)
	authenticate := auth.Authenticate(codec, cfg.TokenCookie)
	validator := httpx.NewValidator()
	gate := rbac.Middleware{Logger: logger}
	access := rbac.NewProjectAccess(rbac.NewMembershipStore(dbpool))
	metrics := observability.NewMetrics()

	dashboardCache := dashboard.NewCache(redisClient, cfg.DashboardCacheTTL)
	dashboardService := dashboard.NewService(dashboard.NewRepository(dbpool), dashboardCache)

	authService := auth.NewService(auth.NewRepository(dbpool), codec, hasher)
	authHandler := auth.NewHandler(logger, authService, validator, auth.CookieConfig{
		Name:   cfg.TokenCookie,
		Secure: !cfg.IsDevelopment(),
		TTL:    codec.TTL(),
	}, authenticate)

	auditRepo := audit.NewRepository(dbpool)

	routes := []app.Resource{
		{Path: "/role", Handler: roles.NewHandler(logger, roles.NewService(roles.NewRepository(dbpool)), validator, gate)},
		{Path: "/user", Handler: users.NewHandler(logger, users.NewService(users.NewRepository(dbpool), hasher), validator, gate)},
		{Path: "/category", Handler: categories.NewHandler(logger, categories.NewService(categories.NewRepository(dbpool)), validator, gate)},
		{Path: "/project", Handler: projects.NewHandler(logger, projects.NewService(projects.NewRepository(dbpool), access, dashboardCache), validator, gate)},
		{Path: "/task", Handler: tasks.NewHandler(logger, tasks.NewService(tasks.NewRepository(dbpool), access, dashboardCache), validator, gate)},
		{Path: "/subtask", Handler: subtasks.NewHandler(logger, subtasks.NewService(subtasks.NewRepository(dbpool), access, dashboardCache), validator, gate)},
		{Path: "/resource", Handler: resources.NewHandler(logger, resources.NewService(resources.NewRepository(dbpool), access, dashboardCache), validator, gate)},
		{Path: "/plan", Handler: plans.NewHandler(logger, plans.NewService(plans.NewRepository(dbpool), access, dashboardCache), validator, gate)},
		{Path: "/progress", Handler: progress.NewHandler(logger, progress.NewService(progress.NewRepository(dbpool), access, dashboardCache), validator, gate)},
		{Path: "/relations", Handler: relations.NewHandler(logger, relations.NewService(relations.NewRepository(dbpool)), validator, gate)},
		{Path: "/dashboard", Handler: dashboard.NewHandler(logger, dashboardService, gate)},
		{Path: "/audit", Handler: audit.NewHandler(logger, audit.NewService(auditRepo), gate)},
	}

	router := app.NewRouter(app.RouterParams{
		Logger:       logger,
		Config:       cfg,
		Metrics:      metrics,
		Authenticate: authenticate,
		Audit:        audit.NewRecorder(auditRepo, logger, metrics.Registerer()),
		AuthHandler:  authHandler,
		Resources:    routes,
	})

	server := &http.Server{
		Addr:              cfg.AppAddr,
		Handler:           router,
		ReadTimeout:       cfg.AppReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("http server starting", slog.String("addr", cfg.AppAddr), slog.String("prefix", cfg.APIPrefix))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
