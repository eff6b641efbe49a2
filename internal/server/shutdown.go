package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"ecommerce-dashboard/internal/config"
)

// GracefulServer wraps an http.Server with signal handling and ordered
// shutdown hooks.
type GracefulServer struct {
	server     *http.Server
	logger     *slog.Logger
	config     *config.Config
	shutdownFn []func(ctx context.Context) error
	mu         sync.Mutex
}

func NewGracefulServer(server *http.Server, logger *slog.Logger, config *config.Config) *GracefulServer {
	return &GracefulServer{
		server: server,
		logger: logger,
		config: config,
	}
}

func (gs *GracefulServer) RegisterShutdownHook(fn func(ctx context.Context) error) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	gs.shutdownFn = append(gs.shutdownFn, fn)
}

func (gs *GracefulServer) ListenAndServe() error {
	serverErrors := make(chan error, 1)

	go func() {
		gs.logger.Info("starting server",
			"addr", gs.server.Addr,
			"read_timeout", gs.config.Server.ReadTimeout,
			"write_timeout", gs.config.Server.WriteTimeout,
		)
		serverErrors <- gs.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil

	case sig := <-shutdown:
		gs.logger.Info("shutdown signal received", "signal", sig)

		ctx, cancel := context.WithTimeout(context.Background(), gs.config.Server.ShutdownTimeout)
		defer cancel()

		return gs.shutdownGracefully(ctx)
	}
}

func (gs *GracefulServer) shutdownGracefully(ctx context.Context) error {
	gs.logger.Info("starting graceful shutdown", "timeout", gs.config.Server.ShutdownTimeout)

	if err := gs.server.Shutdown(ctx); err != nil {
		gs.logger.Error("HTTP server shutdown failed", "error", err)
		return fmt.Errorf("HTTP server shutdown failed: %w", err)
	}
	gs.logger.Info("HTTP server stopped gracefully")

	gs.mu.Lock()
	hooks := make([]func(ctx context.Context) error, len(gs.shutdownFn))
	copy(hooks, gs.shutdownFn)
	gs.mu.Unlock()

	var firstErr error
	for i, hook := range hooks {
		if err := hook(ctx); err != nil {
			gs.logger.Error("shutdown hook failed", "hook_index", i, "error", err)
			if firstErr == nil {
				firstErr = fmt.Errorf("shutdown hook %d failed: %w", i, err)
			}
			continue
		}
		gs.logger.Debug("shutdown hook completed", "hook_index", i)
	}

	if firstErr == nil {
		gs.logger.Info("graceful shutdown completed")
	}
	return firstErr
}
