package main

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/linkonce/internal/config"
	"git.home.luguber.info/inful/linkonce/internal/events"
	"git.home.luguber.info/inful/linkonce/internal/metrics"
	"git.home.luguber.info/inful/linkonce/internal/pageindex"
	"git.home.luguber.info/inful/linkonce/internal/render"
	"git.home.luguber.info/inful/linkonce/internal/server"
	"git.home.luguber.info/inful/linkonce/internal/source"
)

// runServe starts the preview server and blocks until SIGINT/SIGTERM.
func runServe(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loader, err := source.NewLoader(cfg.Source)
	if err != nil {
		return err
	}

	index, err := pageindex.Open(cfg.Index.Path)
	if err != nil {
		return err
	}
	defer func() {
		if err := index.Close(); err != nil {
			slog.Warn("Failed to close page index", "error", err)
		}
	}()

	publisher, err := events.NewPublisher(cfg.Events)
	if err != nil {
		return err
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			slog.Warn("Failed to close event publisher", "error", err)
		}
	}()

	var recorder metrics.Recorder = metrics.NoopRecorder{}
	var promReg *prom.Registry
	if cfg.Server.Metrics {
		promReg = prom.NewRegistry()
		recorder = metrics.NewPrometheusRecorder(promReg)
	}

	pipeline, err := render.NewPipeline(render.Options{
		Extension: cfg.Extension,
		BasePath:  cfg.Wiki.BasePath,
		Resolver:  index,
		Recorder:  recorder,
		Publisher: publisher,
	})
	if err != nil {
		return err
	}

	srv, err := server.New(server.Options{
		Config:   cfg.Server,
		Wiki:     cfg.Wiki,
		Loader:   loader,
		Index:    index,
		Pipeline: pipeline,
		Recorder: recorder,
		PromReg:  promReg,
	})
	if err != nil {
		return err
	}

	return srv.Run(ctx)
}
