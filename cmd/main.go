package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/wgomg/rezumat/internal/api"
	"github.com/wgomg/rezumat/internal/config"
	"github.com/wgomg/rezumat/internal/embedding"
	"github.com/wgomg/rezumat/internal/metrics"
	"github.com/wgomg/rezumat/internal/preprocess"
	"github.com/wgomg/rezumat/internal/summarizer"
	"github.com/wgomg/rezumat/internal/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log := utils.NewLogger("error", false)
		log.Fatal("Failed to load configuration: ", err)
	}
	if err := cfg.Validate(); err != nil {
		log := utils.NewLogger("error", cfg.App.RawBodyLog)
		log.Fatal("Invalid configuration: ", err)
	}

	var sinks []io.Writer
	if cfg.App.LogFile != "" {
		logFile := utils.NewRotatingFile(cfg.App.LogFile, cfg.App.LogMaxSizeMB, cfg.App.LogMaxBackups, cfg.App.LogMaxAgeDays)
		defer logFile.Close()
		sinks = append(sinks, logFile)
	}

	logger := utils.NewLogger(cfg.App.LogLevel, cfg.App.RawBodyLog, sinks...)
	logger.Info(nil, "Starting Romanian Summarization Service")
	logger.Info(nil, "Environment: %s", cfg.App.Env)
	logger.Info(nil, "Log level: %s", cfg.App.LogLevel)
	logger.Info(nil, "Default embedding: %s", cfg.Summary.DefaultEmbedding)
	logger.Info(nil, "Python config directory: %s", cfg.Semantic.Python.ConfigDir)

	resources, err := preprocess.LoadResources(&cfg.Preprocess)
	if err != nil {
		logger.Error(nil, "Failed to load preprocessing resources: %v", err)
		logger.Fatal("Invalid preprocessing configuration")
	}
	logger.Info(nil, "Loaded %d %s segmentation rules and %d stopwords",
		len(resources.Segmenter.Rules()), resources.Segmenter.Language(), len(resources.Stopwords))

	registry, err := embedding.NewDefaultRegistry(logger, &cfg.Semantic)
	if err != nil {
		logger.Error(nil, "Failed to create embedding registry: %v", err)
		logger.Fatal("Failed to initialize embeddings")
	}
	defer registry.Close()

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(promRegistry, registry.Cache())

	opts, err := summarizer.OptionsFromConfig(&cfg.Summary)
	if err != nil {
		logger.Error(nil, "Invalid summary configuration: %v", err)
		logger.Fatal("Invalid configuration")
	}
	s := summarizer.New(logger, resources, registry, opts)
	handler := api.NewHandler(logger, s, m, cfg)
	router := api.NewRouter(logger, handler, promRegistry)

	timeout := time.Duration(cfg.App.HttpTimeoutSeconds) * time.Second
	server := &http.Server{
		Addr:              "0.0.0.0:" + cfg.App.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       timeout,
		// model inference may take the whole semantic timeout
		WriteTimeout: timeout + time.Duration(cfg.Semantic.TimeoutMs)*time.Millisecond,
		IdleTimeout:  2 * timeout,
	}

	logger.Info(nil, "Starting server on port %s", cfg.App.ServerPort)
	logger.Info(nil, "Endpoints:")
	logger.Info(nil, "  GET  /health")
	logger.Info(nil, "  GET  /metrics")
	logger.Info(nil, "  POST /summarize")

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		if err != nil {
			registry.Close()
			logger.Fatal("Server failed: ", err)
		}
	case sig := <-stop:
		logger.Info(nil, "Received %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error(nil, "Graceful shutdown failed: %v", err)
	}
	logger.Info(nil, "Server stopped")
}
