// Command ytscribe runs the YouTube transcription HTTP service.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/skillsenselab/ytscribe/internal/api"
	"github.com/skillsenselab/ytscribe/internal/config"
	"github.com/skillsenselab/ytscribe/internal/logger"
	"github.com/skillsenselab/ytscribe/internal/media"
	"github.com/skillsenselab/ytscribe/internal/observability"
	"github.com/skillsenselab/ytscribe/internal/process"
	"github.com/skillsenselab/ytscribe/internal/server"
	"github.com/skillsenselab/ytscribe/internal/service"
	"github.com/skillsenselab/ytscribe/internal/transcribe"
	"github.com/skillsenselab/ytscribe/internal/youtube"
)

const serviceName = "ytscribe"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", serviceName, err)
		os.Exit(1)
	}
}

func run() error {
	var cfg config.Config
	if err := config.Load(serviceName, &cfg); err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	log := logger.New(cfg.Logging, cfg.Name)
	logger.SetGlobalLogger(log)

	if cfg.OpenAI.APIKey == "" {
		log.Warn("OPENAI_API_KEY is not set; transcription requests will fail")
	} else {
		log.Info("Transcription service configured", logger.Fields(
			"api_key", logger.MaskSecret(cfg.OpenAI.APIKey, 3),
			"model", cfg.OpenAI.Model,
		))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownObs, err := observability.Init(ctx, cfg.Name, cfg.Observability)
	if err != nil {
		return fmt.Errorf("initializing observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownObs(shutdownCtx); err != nil {
			log.Warn("Observability shutdown failed", logger.Fields(logger.FieldError, err.Error()))
		}
	}()

	var metrics *observability.Metrics
	if cfg.Observability.Enabled {
		metrics, err = observability.NewMetrics()
		if err != nil {
			return fmt.Errorf("creating metrics: %w", err)
		}
	}

	runner := process.ExecRunner{}
	pipeline := service.NewPipeline(
		cfg.Pipeline,
		youtube.NewResolver(),
		media.NewFetcher(cfg.Tools, runner, log),
		media.NewTranscoder(cfg.Tools, runner, log),
		media.NewChunker(cfg.Tools, runner, log),
		transcribe.NewOpenAIClient(cfg.OpenAI, log),
		metrics,
		log,
	)

	srv := server.New(cfg.Server, log)
	srv.ApplyMiddleware()
	api.NewHandler(pipeline, cfg.Name, log).Register(srv.GinEngine())

	if err := srv.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	log.Info("Shutdown signal received")

	stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Stop(stopCtx)
}
