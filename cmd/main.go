package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/tinoosan/ja4gate/internal/config"
	"github.com/tinoosan/ja4gate/internal/events"
	"github.com/tinoosan/ja4gate/internal/ja4h"
	"github.com/tinoosan/ja4gate/internal/metrics"
	"github.com/tinoosan/ja4gate/internal/proxy"
	"github.com/tinoosan/ja4gate/internal/repo"
	"github.com/tinoosan/ja4gate/internal/router"
	"github.com/tinoosan/ja4gate/internal/service"
	"github.com/tinoosan/ja4gate/internal/stream"
	"github.com/tinoosan/ja4gate/internal/tracker"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		slog.New(slog.NewTextHandler(os.Stderr, nil)).Error("config", "err", err)
		os.Exit(1)
	}

	var logOut io.Writer = os.Stdout
	if cfg.LogFile != "" {
		logOut = &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    50, // megabytes
			MaxBackups: 5,
			MaxAge:     28, // days
			Compress:   true,
		}
	}
	logger := slog.New(slog.NewTextHandler(logOut, nil))

	metrics.Register()

	var sightingRepo repo.SightingRepo
	if os.Getenv("POSTGRES_HOST") != "" {
		pg, err := repo.NewPostgresRepoFromEnv()
		if err != nil {
			logger.Error("postgres", "err", err)
			os.Exit(1)
		}
		defer func() { _ = pg.Close() }()
		sightingRepo = pg
		logger.Info("using postgres sighting store")
	} else {
		sightingRepo = repo.NewInMemorySightingRepo()
		logger.Info("using in-memory sighting store")
	}

	svc := service.NewSightings(sightingRepo)
	eventCh := make(chan events.Event, 256)
	bc := stream.NewBroadcaster()

	trk := tracker.New(logger, svc, eventCh, bc)
	trk.Run()
	defer trk.Stop()

	p := proxy.New(logger, cfg, events.NewChanReporter(eventCh))

	proxySrv := &http.Server{
		Addr:         cfg.Listen,
		Handler:      p.Handler(),
		IdleTimeout:  120 * time.Second,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	opts := ja4h.NewOptions(cfg.IgnoreHeaders, cfg.VersionHeader)
	adminSrv := &http.Server{
		Addr:         cfg.AdminListen,
		Handler:      router.New(logger, svc, opts, bc),
		IdleTimeout:  120 * time.Second,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Info("proxy listening", "addr", proxySrv.Addr, "upstream", cfg.Upstream.String())
		if err := proxySrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("proxy server", "err", err)
			os.Exit(1)
		}
	}()

	go func() {
		logger.Info("admin api listening", "addr", adminSrv.Addr)
		if err := adminSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("admin server", "err", err)
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	sig := <-sigChan
	logger.Info("received terminate, graceful shutdown", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := proxySrv.Shutdown(ctx); err != nil {
		logger.Error("proxy shutdown", "err", err)
	}
	if err := adminSrv.Shutdown(ctx); err != nil {
		logger.Error("admin shutdown", "err", err)
	}
}
