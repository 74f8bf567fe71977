// Package server runs the editor's long-lived components (gRPC listener,
// metrics endpoint, catalog watcher) and shuts them down in order.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"slices"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Service represents a long-running component that can be started and stopped.
type Service interface {
	// Start runs the service and blocks until it is stopped or fails.
	Start() error
	// Stop gracefully stops the service, unblocking Start.
	Stop()
}

// FuncService adapts a start/stop function pair into the Service interface.
type FuncService struct {
	StartFn func() error
	StopFn  func()
}

// Start calls the underlying start function.
func (f *FuncService) Start() error { return f.StartFn() }

// Stop calls the underlying stop function.
func (f *FuncService) Stop() { f.StopFn() }

// HTTPService wraps srv so that a graceful Shutdown is not reported as a failure.
//
// Precondition: srv must be non-nil with Addr set.
func HTTPService(srv *http.Server, shutdownTimeout time.Duration) Service {
	return &FuncService{
		StartFn: func() error {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
		StopFn: func() {
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			_ = srv.Shutdown(ctx)
		},
	}
}

// Lifecycle manages the startup and shutdown of multiple services.
// Services are started in order and stopped in reverse order.
type Lifecycle struct {
	logger   *zap.Logger
	services []namedService
	mu       sync.Mutex
}

type namedService struct {
	name    string
	service Service
}

// NewLifecycle creates a new Lifecycle manager.
//
// Precondition: logger must be non-nil.
func NewLifecycle(logger *zap.Logger) *Lifecycle {
	return &Lifecycle{logger: logger}
}

// Add registers a named service for lifecycle management.
//
// Precondition: name must be non-empty; svc must be non-nil.
func (l *Lifecycle) Add(name string, svc Service) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.services = append(l.services, namedService{name: name, service: svc})
}

// Run starts all services and blocks until ctx is cancelled, SIGINT or
// SIGTERM arrives, or any service fails. Services are then stopped in
// reverse order.
//
// Postcondition: All services are stopped when this method returns; the
// first service failure, if any, is returned.
func (l *Lifecycle) Run(ctx context.Context) error {
	start := time.Now()

	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	l.mu.Lock()
	services := slices.Clone(l.services)
	l.mu.Unlock()

	g, gctx := errgroup.WithContext(ctx)
	for _, ns := range services {
		g.Go(func() error {
			l.logger.Info("starting service", zap.String("service", ns.name))
			svcStart := time.Now()
			if err := ns.service.Start(); err != nil {
				l.logger.Error("service failed",
					zap.String("service", ns.name),
					zap.Error(err),
					zap.Duration("uptime", time.Since(svcStart)),
				)
				return fmt.Errorf("service %s: %w", ns.name, err)
			}
			return nil
		})
	}

	l.logger.Info("all services started",
		zap.Int("count", len(services)),
		zap.Duration("startup", time.Since(start)),
	)

	<-gctx.Done()
	l.logger.Info("shutting down", zap.NamedError("cause", context.Cause(gctx)))
	shutdown(l.logger, services)

	err := g.Wait()
	l.logger.Info("shutdown complete", zap.Duration("total_uptime", time.Since(start)))
	return err
}

func shutdown(logger *zap.Logger, services []namedService) {
	shutdownStart := time.Now()
	for _, ns := range slices.Backward(services) {
		svcStart := time.Now()
		ns.service.Stop()
		logger.Info("service stopped",
			zap.String("service", ns.name),
			zap.Duration("elapsed", time.Since(svcStart)),
		)
	}
	logger.Info("all services stopped", zap.Duration("shutdown_elapsed", time.Since(shutdownStart)))
}
