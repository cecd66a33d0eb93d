package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/courtdata/atp-proxy/internal/app"
	"github.com/courtdata/atp-proxy/internal/config"
	"github.com/courtdata/atp-proxy/internal/observability"
	"github.com/courtdata/atp-proxy/internal/platform/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	baseLogger := logging.NewJSON(cfg.LogLevel)

	logger, loggerShutdown, err := observability.InitBetterStackLogger(cfg, baseLogger)
	if err != nil {
		baseLogger.Error("init logger fanout", "error", err)
		os.Exit(1)
	}
	logging.SetDefault(logger)

	uptraceShutdown, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		logger.Error("init uptrace", "error", err)
		os.Exit(1)
	}

	pyroscopeStop, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		logger.Error("init pyroscope", "error", err)
		os.Exit(1)
	}

	pprofServer, err := observability.StartPprofServer(cfg, logger)
	if err != nil {
		logger.Error("start pprof server", "error", err)
		os.Exit(1)
	}

	srv, closeBackends, err := app.NewHTTPServer(cfg, logger)
	if err != nil {
		logger.Error("build app", "error", err)
		os.Exit(1)
	}

	go func() {
		logger.Info("http server starting",
			"addr", cfg.HTTPAddr,
			"registry_backend", cfg.RegistryBackend,
			"env", cfg.AppEnv,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", "error", err)
			os.Exit(1)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
	if err := closeBackends(); err != nil {
		logger.Error("close backends", "error", err)
	}
	if err := observability.StopPprofServer(pprofServer, logger, 5*time.Second); err != nil {
		logger.Error("stop pprof server", "error", err)
	}
	if err := pyroscopeStop(); err != nil {
		logger.Error("stop pyroscope", "error", err)
	}
	if err := uptraceShutdown(shutdownCtx); err != nil {
		logger.Error("shutdown uptrace", "error", err)
	}
	if err := loggerShutdown(shutdownCtx); err != nil {
		logger.Error("shutdown logger fanout", "error", err)
	}

	logger.Info("http server stopped")
}
