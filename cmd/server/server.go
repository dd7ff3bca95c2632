package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"cg-server/internal/config"
	"cg-server/internal/infrastructure/crontab"
	"cg-server/internal/infrastructure/logger"
	"cg-server/internal/infrastructure/observability"
	"cg-server/internal/interfaces/httpserver"

	_ "net/http/pprof"
)

type Application struct {
	HTTPServer *httpserver.HTTPServer
	Crontab    *crontab.Crontab
}

func init() {
	cfg, err := config.Load()
	if err != nil {
		return
	}
	if _, err := logger.Configure(cfg.LogLevel, cfg.LogFormat); err != nil {
		log := logger.GetLogger()
		log.Warn().Err(err).Msg("invalid log settings, keeping defaults")
	}
}

func (application *Application) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.GetGlobal()

	var eg errgroup.Group
	eg.Go(func() error {
		// metrics and pprof share the ops port
		http.Handle("/metrics", promhttp.Handler())
		err := http.ListenAndServe(fmt.Sprintf("0.0.0.0:%d", cfg.MetricsPort), nil)
		if err != nil {
			cancel()
		}
		return err
	})
	eg.Go(func() error {
		err := application.Crontab.Run(ctx)
		if err != nil {
			cancel()
		}
		return err
	})
	eg.Go(func() error {
		err := application.HTTPServer.Run()
		if err != nil {
			cancel()
		}
		return err
	})

	if err := eg.Wait(); err != nil {
		panic(err)
	}
}

func main() {
	ctx := context.Background()
	log := logger.GetLogger()

	cfg := config.GetGlobal()
	if cfg == nil {
		log.Fatal().Msg("config not loaded")
	}

	application, err := CreateApplication()
	if err != nil {
		log.Fatal().Err(err).Msg("create application")
	}

	otelShutdown, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("initialize observability")
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := otelShutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("shutdown telemetry")
			}
		}()
	}

	application.Start()
}
