package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"imageIngestor/internal/config"
	"imageIngestor/internal/http-server/router"
	"imageIngestor/internal/ingest"
	"imageIngestor/internal/kafka/producer"
	"imageIngestor/internal/lib/logger/handlers/slogpretty"
	"imageIngestor/internal/lib/logger/sl"
	"imageIngestor/internal/storage/fs"
	"imageIngestor/internal/thumbnail"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

// @title        Image Ingestor API
// @version      1.0
// @description  Stores uploaded or fetched images together with 100x100 thumbnails.
// @BasePath     /
func main() {
	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info("starting image ingestor", slog.String("env", cfg.Env))
	log.Debug("debug messages are enabled")

	storage, err := fs.New(fs.Config{
		FullDir:  cfg.Storage.FullDir,
		ThumbDir: cfg.Storage.ThumbDir,
	})
	if err != nil {
		log.Error("failed to init storage", sl.Err(err))
		os.Exit(1)
	}

	thumbs := thumbnail.New(log, storage, thumbnail.Config{
		Width:   cfg.Thumbnail.Width,
		Height:  cfg.Thumbnail.Height,
		Workers: cfg.Thumbnail.Workers,
	})

	opts := []ingest.Option{
		ingest.WithHTTPClient(&http.Client{Timeout: cfg.Fetch.Timeout}),
	}

	var kafkaProducer *producer.Producer
	if cfg.Kafka.Enabled() {
		kafkaProducer, err = producer.NewProducer(&cfg.Kafka, log)
		if err != nil {
			log.Error("failed to create kafka producer", sl.Err(err))
			os.Exit(1)
		}
		opts = append(opts, ingest.WithNotifier(kafkaProducer))
	} else {
		log.Info("kafka brokers not configured, ingestion events disabled")
	}

	ingestor := ingest.New(log, storage, thumbs, ingest.Config{
		MaxUploadSize:    cfg.Upload.MaxItemSize,
		MaxFetchSize:     cfg.Fetch.MaxItemSize,
		FetchConcurrency: cfg.Fetch.Concurrency,
	}, opts...)

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router.New(log, ingestor, storage, cfg.Storage.StaticDir),
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		log.Info("starting server", slog.String("address", cfg.HTTPServer.Address))

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("failed to start server", sl.Err(err))
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT, os.Interrupt)

	sign := <-stop

	log.Info("application stopping", slog.String("signal", sign.String()))

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTPServer.ShutdownTimeout)
	defer cancel()

	if err = srv.Shutdown(ctx); err != nil {
		log.Error("failed to stop server", sl.Err(err))
	}

	if kafkaProducer != nil {
		if err = kafkaProducer.Close(); err != nil {
			log.Error("failed to close kafka producer", sl.Err(err))
		}

		log.Info("kafka connection closed")
	}

	log.Info("application stopped")
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = setupPrettySlog()
	case envDev:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}

	return log
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	h := opts.NewPrettyHandler(os.Stdout)

	return slog.New(h)
}
