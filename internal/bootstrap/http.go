package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/zoohub/zookeeper-hub/config"
	httpx "github.com/zoohub/zookeeper-hub/internal/http"
	"github.com/zoohub/zookeeper-hub/internal/service"
)

// HTTPServerConfig contains configuration for the HTTP server.
type HTTPServerConfig struct {
	Config   *config.AppConfig
	Services *ServiceContainer
	Logger   *slog.Logger
}

// StartHTTPServer creates and starts the HTTP server.
// Returns the server instance for graceful shutdown.
func StartHTTPServer(cfg *HTTPServerConfig) (*http.Server, error) {
	if cfg == nil || cfg.Services == nil {
		return nil, fmt.Errorf("http server config with services is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	appCfg := cfg.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}

	container := cfg.Services
	services := httpx.RouterServices{
		Auth:         container.Auth,
		Animals:      container.Animals,
		Feeding:      container.Feeding,
		Medical:      container.Medical,
		Users:        container.Users,
		Research:     container.Research,
		NewWatcher:   newWatcherFactory(container, logger),
		Cache:        container.Cache,
		Metrics:      container.Observability.MetricsSink,
		CookieDomain: appCfg.HTTP.CookieDomain,
		SSOEnabled:   appCfg.Auth.Mode != config.AuthModeCredentials,
		Logger:       logger,
	}

	handler, err := buildHTTPHandler(logger, services)
	if err != nil {
		return nil, err
	}

	return startServer(logger, handler, appCfg.HTTP.Addr), nil
}

// newWatcherFactory builds per-connection auth state stores for the
// /auth/watch stream, each scoped to the requesting browser's session.
// Each connection gets its own store so tearing one down never disturbs
// another.
func newWatcherFactory(container *ServiceContainer, logger *slog.Logger) func(string) (httpx.AuthStateWatcher, error) {
	if container.SessionBus == nil || container.RoleRecords == nil {
		return nil
	}
	return func(sessionID string) (httpx.AuthStateWatcher, error) {
		store, err := service.NewAuthStateStore(service.AuthStateStoreOptions{
			SessionID: sessionID,
			Roles:     container.RoleRecords,
			Events:    container.SessionBus,
			Logger:    logger,
		})
		if err != nil {
			return nil, fmt.Errorf("build auth state store: %w", err)
		}
		return store, nil
	}
}

func buildHTTPHandler(logger *slog.Logger, services httpx.RouterServices) (http.Handler, error) {
	router, err := httpx.NewRouter(services)
	if err != nil {
		return nil, fmt.Errorf("build router: %w", err)
	}

	// Order: Recover -> Logging -> Router
	h := httpx.Logging(logger)(router)
	h = httpx.Recover(logger)(h)
	return h, nil
}

func startServer(logger *slog.Logger, handler http.Handler, addr string) *http.Server {
	// Guard against empty addr to avoid listening on Go default
	if addr == "" {
		addr = ":8080"
	}

	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", "error", err)
		}
	}()

	return server
}

// ShutdownHTTPServer gracefully shuts down the HTTP server.
func ShutdownHTTPServer(ctx context.Context, server *http.Server, logger *slog.Logger) error {
	if server == nil {
		return nil
	}
	if logger != nil {
		logger.Info("shutting down HTTP server")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown HTTP server: %w", err)
	}

	if logger != nil {
		logger.Info("HTTP server stopped")
	}
	return nil
}
