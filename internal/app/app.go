package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/AlgoRMind/algomind-be/internal/chat"
	"github.com/AlgoRMind/algomind-be/internal/config"
	"github.com/AlgoRMind/algomind-be/internal/contribution"
	"github.com/AlgoRMind/algomind-be/internal/db"
	"github.com/AlgoRMind/algomind-be/internal/fund"
	"github.com/AlgoRMind/algomind-be/internal/health"
	"github.com/AlgoRMind/algomind-be/internal/logger"
	"github.com/AlgoRMind/algomind-be/internal/messaging"
	"github.com/AlgoRMind/algomind-be/internal/middleware"
	"github.com/AlgoRMind/algomind-be/internal/migrations"
	"github.com/AlgoRMind/algomind-be/internal/project"
	"github.com/AlgoRMind/algomind-be/internal/telemetry"
	"github.com/AlgoRMind/algomind-be/internal/user"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
)

type routeRegistrar interface {
	RegisterRoutes(router chi.Router)
}

type App struct {
	config    *config.Config
	router    chi.Router
	server    *http.Server
	logger    *slog.Logger
	db        *bun.DB
	producer  messaging.Producer
	telemetry *telemetry.Telemetry
	chat      *chat.Client
}

func New(ctx context.Context) (*App, error) {
	slogLogger := logger.NewWithServiceContext(ServiceName, Version)

	// Set as default logger so slog.Info() uses the same handler
	slog.SetDefault(slogLogger)

	slogLogger.Info("initializing application", "git_commit", GitCommit, "build_time", BuildTime)

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	slogLogger.Info("config loaded", "env", cfg.Env, "route_prefix", cfg.Server.RoutePrefix)

	tel, err := telemetry.Init(ctx, cfg.Telemetry, ServiceName, Version, slogLogger)
	if err != nil {
		return nil, err
	}
	m := tel.Metrics

	database, err := db.New(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := m.Database.RegisterDB(database.DB, otel.Meter(ServiceName)); err != nil {
		slogLogger.Warn("failed to register connection pool metrics", "error", err)
	}

	if err := migrations.Run(ctx, database); err != nil {
		db.Close(database)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	producer, err := messaging.NewProducer(cfg.Messaging, m, slogLogger)
	if err != nil {
		slogLogger.Warn("failed to initialize event producer, events will not be published", "error", err)
		producer = nil
	}

	// The chat client is optional; nothing routes to it yet.
	chatClient, err := chat.NewClient(ctx, cfg.Chat, slogLogger)
	if err != nil {
		slogLogger.Warn("chat client unavailable", "error", err)
	}

	fundRepo := fund.NewRepository(database, m)
	fundService := fund.NewService(fundRepo)

	contributionRepo := contribution.NewRepository(database, m)
	projectService := project.NewService(
		project.NewRepository(database, m),
		contributionRepo,
		project.NewTxManager(database, m),
		eventProducer(producer),
		m,
		slogLogger,
	)

	userService := user.NewService(user.NewRepository(database, m), projectService, fundService, m)

	app := &App{
		config:    cfg,
		logger:    slogLogger,
		db:        database,
		producer:  producer,
		telemetry: tel,
		chat:      chatClient,
	}
	app.router = newRouter(cfg.Server, slogLogger,
		user.NewHandler(userService, slogLogger),
		fund.NewHandler(fundService, slogLogger),
		project.NewHandler(projectService, slogLogger),
	)

	slogLogger.Info("application initialized successfully")

	return app, nil
}

// eventProducer keeps a nil producer a nil interface.
func eventProducer(p messaging.Producer) project.Producer {
	if p == nil {
		return nil
	}
	return p
}

// newRouter serves health routes at the root and under prefix, and every
// API handler under prefix.
func newRouter(cfg config.ServerConfig, logger *slog.Logger, api ...routeRegistrar) chi.Router {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.CORS(cfg.CORSOrigins))

	healthHandler := health.NewHandler()
	healthHandler.RegisterRoutes(router)

	register := func(r chi.Router) {
		for _, h := range api {
			h.RegisterRoutes(r)
		}
	}

	prefix := cfg.RoutePrefix
	if prefix == "" || prefix == "/" {
		register(router)
		return router
	}

	router.Route(prefix, func(r chi.Router) {
		healthHandler.RegisterRoutes(r)
		register(r)
	})
	return router
}

type pinger interface {
	Ping(ctx context.Context) error
}

// StartHealthChecks pings postgres and, when it supports it, the event
// broker every interval until ctx is done.
func (a *App) StartHealthChecks(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		a.checkDependencies(ctx)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (a *App) checkDependencies(ctx context.Context) {
	checks := map[string]func(context.Context) error{"postgres": a.db.PingContext}
	if p, ok := a.producer.(pinger); ok {
		checks[a.config.Messaging.Driver] = p.Ping
	}

	for name, ping := range checks {
		checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		start := time.Now()
		err := ping(checkCtx)
		cancel()

		a.telemetry.Metrics.Health.RecordDependencyCheck(ctx, name, time.Since(start), err)
		if err != nil {
			a.logger.Warn("dependency check failed", "dependency", name, "error", err)
		}
	}
}

func (a *App) Run() error {
	a.server = &http.Server{
		Addr:         fmt.Sprintf(":%s", a.config.Server.Port),
		Handler:      a.router,
		ReadTimeout:  time.Duration(a.config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(a.config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(a.config.Server.IdleTimeout) * time.Second,
	}

	a.logger.Info("server starting", "port", a.config.Server.Port)
	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests, then releases the producer, the
// database pool and the meter provider.
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down server")

	var errs []error
	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close producer: %w", err))
		}
	}
	db.Close(a.db)
	if err := a.telemetry.Shutdown(ctx, a.logger); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Chat returns the chat client, or nil when it is not configured.
func (a *App) Chat() *chat.Client {
	return a.chat
}
