package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "moviewatch/docs"
	"moviewatch/internal/app"
	"moviewatch/internal/config"
	"moviewatch/internal/handlers"
	"moviewatch/internal/logger"
	"moviewatch/internal/metrics"
	"moviewatch/internal/server"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const shutdownTimeout = 10 * time.Second

// @title                       moviewatch API
// @version                     1.0
// @description                 Movie search and per-user saved movies.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}

	log := logger.Get(cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		log.Fatalw("invalid config", "err", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	services, closeServices, err := app.Services(cfg, log, m)
	if err != nil {
		log.Fatalw("failed to wire services", "err", err)
	}
	defer func() {
		if cerr := closeServices(); cerr != nil {
			log.Errorw("failed to close directory", "err", cerr)
		}
	}()

	apiHandler := handlers.NewHandler(services, log,
		handlers.WithMetrics(m, reg),
		handlers.WithSearchDebounce(cfg.Search.Debounce),
	)

	srv := &server.Server{}
	runHTTPServer(srv, cfg.Port, apiHandler, log)

	waitForShutdown(srv, log)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		log.Infow("http_server_starting", "port", port)
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
	_ = log.Sync()
}
