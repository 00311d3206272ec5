package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mrlokans/authcore/internal/audit"
	"github.com/mrlokans/authcore/internal/auth"
	"github.com/mrlokans/authcore/internal/config"
	"github.com/mrlokans/authcore/internal/database"
	auditRepo "github.com/mrlokans/authcore/internal/database/audit"
	"github.com/mrlokans/authcore/internal/database/sessions"
	"github.com/mrlokans/authcore/internal/database/users"
	http_controllers "github.com/mrlokans/authcore/internal/http"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// App holds the wired components of a running service.
type App struct {
	Database *database.Database
	Users    *users.Repository
	Sessions *sessions.Repository
	Service  *auth.Service
	Audit    *audit.Service
	Strategy auth.Strategy
	Registry *prometheus.Registry
	Router   *gin.Engine
}

// Build opens storage and wires every component from cfg.
func Build(cfg *config.Config, version string) (*App, error) {
	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.SQL()
	if err != nil {
		db.Close()
		return nil, err
	}
	sessionRepo, err := sessions.NewSQLiteRepository(sqlDB)
	if err != nil {
		db.Close()
		return nil, err
	}

	userRepo := users.NewRepository(db.DB)
	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	service := auth.NewService(userRepo, hasher)
	auditService := audit.NewService(auditRepo.NewRepository(db.DB))

	strategy, err := auth.NewStrategy(cfg.Auth, userRepo, hasher, sessionRepo)
	if err != nil {
		db.Close()
		return nil, err
	}
	strategyName := string(config.AuthTypeNone)
	if strategy != nil {
		strategyName = strategy.Name()
	}
	slog.Info("authentication configured",
		"strategy", strategyName,
		"session_duration", cfg.Auth.SessionDuration,
		"excluded_paths", len(cfg.Auth.ExcludedPaths))

	reg := prometheus.NewRegistry()
	var metricsHandler http.Handler
	if cfg.Metrics.Enabled {
		reg.MustRegister(collectors.NewGoCollector())
		auth.RegisterMetrics(reg)
		metricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	}

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Database:       db,
		Users:          userRepo,
		Counter:        userRepo,
		Hasher:         hasher,
		AuthService:    service,
		Events:         auditService,
		Strategy:       strategy,
		AuthConfig:     cfg.Auth,
		MetricsHandler: metricsHandler,
		Version:        version,
	})

	return &App{
		Database: db,
		Users:    userRepo,
		Sessions: sessionRepo,
		Service:  service,
		Audit:    auditService,
		Strategy: strategy,
		Registry: reg,
		Router:   router,
	}, nil
}

// Serve runs the HTTP server until ctx is cancelled, then shuts down
// within the configured timeout.
func Serve(ctx context.Context, router http.Handler, cfg *config.Config, onShutdown ShutdownFunc) error {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down server", "timeout", timeout)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	err := srv.Shutdown(shutdownCtx)

	// Runs after in-flight requests have drained.
	if onShutdown != nil {
		onShutdown(shutdownCtx)
	}

	if err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server exiting")
	return nil
}

// Run builds the app and serves it until SIGINT or SIGTERM.
func Run(cfg *config.Config, version string) error {
	slog.Info("starting authcore", "version", version)

	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	app, err := Build(cfg, version)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	onShutdown := func(context.Context) {
		if err := app.Database.Close(); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}

	return Serve(ctx, app.Router, cfg, onShutdown)
}
