package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/lunavoice/luna/internal/config"
	dbredis "github.com/lunavoice/luna/internal/db/redis"
	logpkg "github.com/lunavoice/luna/internal/logger"
	"github.com/lunavoice/luna/internal/metrics"
	flightsrepo "github.com/lunavoice/luna/internal/repository/flights"
	kbrepo "github.com/lunavoice/luna/internal/repository/kb"
	"github.com/lunavoice/luna/internal/tools"
	chiTransport "github.com/lunavoice/luna/internal/transport/chi"
	openaiEmb "github.com/lunavoice/luna/internal/transport/openai"
	"github.com/lunavoice/luna/internal/transport/relay"
	destinationuc "github.com/lunavoice/luna/internal/usecase/destination"
	flightinfouc "github.com/lunavoice/luna/internal/usecase/flightinfo"
	groundinguc "github.com/lunavoice/luna/internal/usecase/grounding"
	retrievaluc "github.com/lunavoice/luna/internal/usecase/retrieval"
	"github.com/lunavoice/luna/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting luna backend",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("kb_addrs", cfg.KB.Addrs),
	)

	// Knowledge-base search store
	store, err := dbredis.NewStore(dbredis.Config{
		Addrs:    cfg.KB.Addrs,
		Password: cfg.KB.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create search store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.KB.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Search store not ready", zap.Error(err))
	}
	logger.Info("Connected to search store")

	// Flight database
	flightDB, err := flightsrepo.Open(cfg.Flights.DSN)
	if err != nil {
		logger.Fatal("Failed to connect flight database", zap.Error(err))
	}
	flightRepo := flightsrepo.New(flightDB)
	if err := flightRepo.Ping(ctx); err != nil {
		logger.Fatal("Flight database not ready", zap.Error(err))
	}
	logger.Info("Connected to flight database")

	// Register domain metrics explicitly (no init())
	metrics.Register()

	embedder := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Logger:     logger,
	})
	logger.Info("Embedder created",
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
	)

	// Repositories and use case services
	kbRepo := kbrepo.New(store, cfg.KB.Index)
	retrievalSvc := retrievaluc.New(kbRepo, embedder, cfg.KB.KNNNeighbors, logger)
	destinationSvc := destinationuc.New(flightRepo, retrievalSvc, logger)
	flightInfoSvc := flightinfouc.New(flightRepo, logger)
	groundingSvc := groundinguc.New(kbRepo, logger)

	// Tool registry — sealed before the relay starts serving
	builder := tools.NewBuilder()
	if err := tools.Attach(builder, destinationSvc, retrievalSvc, flightInfoSvc, groundingSvc); err != nil {
		logger.Fatal("Failed to register tools", zap.Error(err))
	}
	registry := builder.Build()

	rt := relay.New(relay.Config{
		URL:    cfg.Realtime.URL,
		APIKey: cfg.Realtime.APIKey,
		Voice:  cfg.Realtime.Voice,
	}, registry, logger)

	server := chiTransport.NewServer(rt, flightRepo, store, cfg.HTTP.StaticDir, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      server.Router(),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}
