package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os/signal"
	"syscall"
	"time"

	pb "sales-observer/src/grpc_control"
	"sales-observer/src/server"
	"sales-observer/src/watcher"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API, websocket feed and gRPC control plane",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx, a)
	},
}

// -----------------------------------------------------------------------------

// serve runs until ctx is cancelled or a server fails.
func serve(ctx context.Context, a *app) error {
	cfg, appLogger := a.Config, a.Logger

	// 1. API server, subscribed before the first refresh so it gets the report
	srv := server.NewAPIServer(cfg.MConfig, a.Service, a.Metrics, appLogger.With("APIServer"))
	a.Service.Subscribe(srv)

	// 2. Initial load. A failure is served as 503 until a reload succeeds.
	if _, err := a.Service.Refresh(ctx); err != nil {
		appLogger.Warning("Initial refresh failed: %v", err)
	}

	errCh := make(chan error, 2)
	go func() {
		if err := srv.Start(); err != nil {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	// 3. gRPC control plane
	var grpcServer *grpc.Server
	if cfg.GrpcPort != 0 {
		addr := fmt.Sprintf("%s:%d", cfg.GrpcHost, cfg.GrpcPort)
		lis, err := net.Listen("tcp", addr)
		if err != nil {
			return fmt.Errorf("failed to listen for gRPC on %s: %w", addr, err)
		}
		grpcServer = grpc.NewServer()
		pb.RegisterAnalyticsControlServer(grpcServer, pb.NewControlService(a.Service, appLogger.With("ControlService")))

		go func() {
			appLogger.Info("Starting gRPC Control Server on %s", addr)
			if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
				errCh <- fmt.Errorf("grpc server: %w", err)
			}
		}()
	}

	// 4. Optional file watcher
	if cfg.Watch.Enabled {
		if path, ok := watcher.LocalFile(cfg.Source.Location); ok {
			w, err := watcher.NewWatcher(path, time.Duration(cfg.Watch.DebounceMs)*time.Millisecond,
				func(ctx context.Context) error {
					_, err := a.Service.Refresh(ctx)
					return err
				}, appLogger.With("Watcher"))
			if err != nil {
				appLogger.Warning("File watching disabled: %v", err)
			} else {
				go w.Run(ctx)
			}
		} else {
			appLogger.Info("Source %s is not a local file, watching disabled", cfg.Source.Location)
		}
	}

	// 5. Wait for a signal or a failure
	var runErr error
	select {
	case <-ctx.Done():
		appLogger.Info("Shutting down...")
	case runErr = <-errCh:
		appLogger.Error("%v", runErr)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if grpcServer != nil {
		grpcServer.GracefulStop()
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("HTTP shutdown failed: %v", err)
	}

	appLogger.Info("Shutdown complete.")
	return runErr
}
