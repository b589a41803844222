package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iwvelando/vehicle-loan/internal/config"
	"github.com/iwvelando/vehicle-loan/internal/server"
	"github.com/iwvelando/vehicle-loan/pkg/constants"
	"github.com/iwvelando/vehicle-loan/pkg/datetime"
	"github.com/iwvelando/vehicle-loan/pkg/loans"
	"github.com/iwvelando/vehicle-loan/pkg/store"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const shutdownTimeout = 5 * time.Second

func main() {
	configLocation := flag.String("config", constants.DefaultServerConfigFile, "path to server configuration file")
	address := flag.String("address", "", "listen address override")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	cfg, err := server.LoadConfig(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load server configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}
	if *address != "" {
		cfg.Address = *address
	}

	logger, err := config.NewLogger(cfg.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	var storage store.Storage = store.NewMemoryStore()
	if cfg.StorePath != "" {
		sqliteStore, err := store.NewSQLiteStore(logger, cfg.StorePath)
		if err != nil {
			logger.Fatal("failed to open loan store",
				zap.String("op", "main"),
				zap.String("path", cfg.StorePath),
				zap.Error(err),
			)
		}
		storage = sqliteStore
	}
	defer func() {
		if err := storage.Close(); err != nil {
			logger.Warn("failed to close loan store", zap.String("op", "main"), zap.Error(err))
		}
	}()

	handler := server.NewHandler(logger, server.Options{
		Store:         storage,
		Engine:        loans.NewEngine(logger, cfg.CollisionPolicy()),
		Clock:         datetime.SystemClock{},
		MaxUploadSize: cfg.UploadSizeBytes(),
		Version:       version,
	})

	srv := &http.Server{
		Addr:              cfg.Address,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	listener, err := net.Listen("tcp", cfg.Address)
	if err != nil {
		logger.Error("failed to listen", zap.String("op", "main"), zap.String("address", cfg.Address), zap.Error(err))
		return
	}

	logger.Info("listening",
		zap.String("op", "main"),
		zap.String("address", listener.Addr().String()),
		zap.Int64("maxUploadSize", cfg.UploadSizeBytes()),
		zap.String("extraPaymentPolicy", cfg.CollisionPolicy().String()),
	)
	if err := serve(ctx, logger, srv, listener); err != nil {
		logger.Error("server stopped", zap.String("op", "main"), zap.Error(err))
	}
}

// serve runs srv on listener until ctx is cancelled. It returns only after
// in-flight requests have drained or the shutdown timeout has passed.
func serve(ctx context.Context, logger *zap.Logger, srv *http.Server, listener net.Listener) error {
	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("graceful shutdown failed", zap.String("op", "main"), zap.Error(err))
		}
	}()

	err := srv.Serve(listener)
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-done
	return nil
}
