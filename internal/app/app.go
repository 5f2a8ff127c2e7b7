package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/GustavoMarques22/plataforma-ensino-api/internal/aluno"
	"github.com/GustavoMarques22/plataforma-ensino-api/internal/areacurso"
	"github.com/GustavoMarques22/plataforma-ensino-api/internal/config"
	"github.com/GustavoMarques22/plataforma-ensino-api/internal/db"
	"github.com/GustavoMarques22/plataforma-ensino-api/internal/docs"
	"github.com/GustavoMarques22/plataforma-ensino-api/internal/filter"
	"github.com/GustavoMarques22/plataforma-ensino-api/internal/health"
	"github.com/GustavoMarques22/plataforma-ensino-api/internal/httputil"
	"github.com/GustavoMarques22/plataforma-ensino-api/internal/matricula"
	"github.com/GustavoMarques22/plataforma-ensino-api/internal/messaging"
	"github.com/GustavoMarques22/plataforma-ensino-api/internal/middleware"
	"github.com/GustavoMarques22/plataforma-ensino-api/internal/rules"
	"github.com/GustavoMarques22/plataforma-ensino-api/internal/telemetry"
	"github.com/GustavoMarques22/plataforma-ensino-api/internal/validation"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
)

const (
	msgRouteNotFound    = "Rota não encontrada"
	msgMethodNotAllowed = "Método não permitido"
)

type App struct {
	config    *config.Config
	router    chi.Router
	server    *http.Server
	db        *bun.DB
	telemetry *telemetry.Telemetry
	publisher messaging.Publisher
	limiter   *middleware.RateLimiter
	logger    *slog.Logger
}

// New opens the database selected by cfg, runs the migrations and wires the API.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	database, err := db.New(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.RunMigrations(ctx, database); err != nil {
		db.Close(database)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	app, err := NewWithDB(ctx, cfg, database, logger)
	if err != nil {
		db.Close(database)
		return nil, err
	}
	return app, nil
}

// NewWithDB wires the API on an already migrated database.
func NewWithDB(ctx context.Context, cfg *config.Config, database *bun.DB, logger *slog.Logger) (*App, error) {
	logger.InfoContext(ctx, "initializing application", "env", cfg.Env, "driver", cfg.Database.Driver)

	tel, err := telemetry.Init(ctx, cfg.Telemetry, ServiceName, Version, cfg.Env, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	m := tel.Metrics

	meter := otel.Meter(ServiceName)
	if err := m.Database.RegisterDB(database.DB, meter); err != nil {
		logger.WarnContext(ctx, "failed to register database pool metrics", "error", err)
	}
	if err := m.Health.RegisterDependencies(meter, "database"); err != nil {
		logger.WarnContext(ctx, "failed to register dependency metrics", "error", err)
	}

	publisher, err := messaging.New(cfg.Messaging, m.Messaging, logger)
	if err != nil {
		logger.WarnContext(ctx, "failed to initialize event publisher, events disabled", "driver", cfg.Messaging.Driver, "error", err)
		publisher = messaging.Noop{}
	}

	app := &App{
		config:    cfg,
		router:    chi.NewRouter(),
		db:        database,
		telemetry: tel,
		publisher: publisher,
		logger:    logger,
	}

	app.router.Use(chimw.RequestID)
	app.router.Use(chimw.RealIP)
	app.router.Use(chimw.Recoverer)
	app.router.Use(middleware.CORS(cfg.Server.CORSOrigins))
	app.router.Use(middleware.RequestLogger(logger, m.HTTP))
	if rl := cfg.Server.RateLimit; rl.RequestsPerSecond > 0 {
		app.limiter = middleware.NewRateLimiter(rl.RequestsPerSecond, rl.Burst, m.HTTP)
		app.router.Use(app.limiter.Handler)
	}

	app.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httputil.RespondMessage(w, http.StatusNotFound, msgRouteNotFound)
	})
	app.router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httputil.RespondMessage(w, http.StatusMethodNotAllowed, msgMethodNotAllowed)
	})

	// Health endpoints
	health.NewHandler(database, m.Health).RegisterRoutes(app.router)

	if tel.Handler != nil {
		app.router.Handle("/metrics", tel.Handler)
	}

	base := validation.New()
	pages := filter.PageDefaults{PerPage: cfg.Server.DefaultPerPage, MaxPerPage: cfg.Server.MaxPerPage}
	engine := rules.NewEngine(rules.NewStore(database, m.Database), m.Domain)

	alunoRepo := aluno.NewRepository(database, m.Database)
	alunoService := aluno.NewService(alunoRepo, aluno.NewValidator(base, alunoRepo), engine, publisher, logger)
	alunoHandler := aluno.NewHandler(alunoService, pages, logger, m.Domain)

	areaRepo := areacurso.NewRepository(database, m.Database)
	areaService := areacurso.NewService(areaRepo, areacurso.NewValidator(base, areaRepo), engine, publisher, logger)
	areaHandler := areacurso.NewHandler(areaService, pages, logger, m.Domain)

	matriculaRepo := matricula.NewRepository(database, m.Database)
	matriculaService := matricula.NewService(matriculaRepo, matricula.NewValidator(base, matriculaRepo), engine, publisher, m.Domain, logger)
	matriculaHandler := matricula.NewHandler(matriculaService, pages, logger, m.Domain)

	docsHandler := docs.NewHandler(APIVersion)

	app.router.Route("/api", func(r chi.Router) {
		docsHandler.RegisterRoutes(r)
		alunoHandler.RegisterRoutes(r)
		areaHandler.RegisterRoutes(r)
		matriculaHandler.RegisterRoutes(r)
	})

	logger.InfoContext(ctx, "application initialized successfully")

	return app, nil
}

// Handler exposes the router, mainly for tests.
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

	a.logger.Info("server starting", "port", a.config.Server.Port)
	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server and releases every resource New acquired.
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down server")

	var errs []error
	if a.server != nil {
		errs = append(errs, a.server.Shutdown(ctx))
	}
	if a.limiter != nil {
		a.limiter.Close()
	}
	if err := a.publisher.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close publisher: %w", err))
	}
	if err := telemetry.Shutdown(ctx, a.telemetry.MeterProvider, a.logger); err != nil {
		errs = append(errs, err)
	}
	db.Close(a.db)

	return errors.Join(errs...)
}
