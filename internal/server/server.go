// Package server runs the HTTP server until its context ends and then shuts
// it down within a bounded grace period.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrForcedShutdown is returned when in-flight requests outlive the grace period.
var ErrForcedShutdown = errors.New("forcefully shut down")

// Run listens on srv.Addr and serves until ctx is done or serving fails.
func Run(ctx context.Context, srv *http.Server, grace time.Duration, log *zap.Logger) error {
	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", srv.Addr, err)
	}
	return Serve(ctx, srv, ln, grace, log)
}

// Serve serves on ln. When ctx is done, or Serve fails, the server stops
// accepting connections and waits up to grace for in-flight requests before
// closing them.
func Serve(ctx context.Context, srv *http.Server, ln net.Listener, grace time.Duration, log *zap.Logger) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("server listening", zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down gracefully", zap.Duration("grace", grace))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("forcefully shutting down", zap.Error(err))
			srv.Close()
			return fmt.Errorf("%w: %v", ErrForcedShutdown, err)
		}
		log.Info("server closed")
		return nil
	})

	return g.Wait()
}
