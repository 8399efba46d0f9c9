package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"

	"github.com/Parlows/Video-Surveillance-Retrieval/config"
	"github.com/Parlows/Video-Surveillance-Retrieval/embedding"
	"github.com/Parlows/Video-Surveillance-Retrieval/media"
	"github.com/Parlows/Video-Surveillance-Retrieval/server"
	"github.com/Parlows/Video-Surveillance-Retrieval/storage"
	"github.com/Parlows/Video-Surveillance-Retrieval/timelog"
)

func main() {
	logger := slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      slog.LevelInfo,
			TimeFormat: "15:04:05",
		}),
	)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var embedder embedding.Embedder
	switch cfg.EmbProvider {
	case "openai":
		embedder = embedding.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL)
		logger.Info("embedding provider: openai-compatible", "base_url", cfg.OpenAIBaseURL)
	default:
		embedder = embedding.NewEngineClient(cfg.EmbEngineURL())
		logger.Info("embedding provider: encoder engine", "url", cfg.EmbEngineURL())
	}

	backends := map[string]storage.SearchBackend{}

	backends["qdrant"] = storage.NewQdrantBackend(cfg.QdrantURL())
	logger.Info("qdrant backend registered", "url", cfg.QdrantURL())

	milvus, err := storage.NewMilvusBackend(ctx, cfg.MilvusAddr(), cfg.MilvusToken)
	if err != nil {
		logger.Warn("milvus backend unavailable", "addr", cfg.MilvusAddr(), "err", err)
	} else {
		backends["milvus"] = milvus
		defer milvus.Close()
		logger.Info("milvus backend registered", "addr", cfg.MilvusAddr())
	}

	if cfg.DatabaseURL != "" {
		pg, err := storage.NewPgVectorBackend(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Warn("pgvector backend unavailable", "err", err)
		} else {
			backends["pgvector"] = pg
			defer pg.Close()
			logger.Info("pgvector backend registered")
		}
	}

	var timings timelog.Sink = timelog.Nop{}
	if cfg.LogDir != "" {
		sink, err := timelog.NewFileSink(cfg.LogDir, logger)
		if err != nil {
			logger.Warn("timing log disabled", "dir", cfg.LogDir, "err", err)
		} else {
			timings = sink
			defer sink.Flush()
		}
	}

	queryHandlers := server.NewQueryHandlers(embedder, backends, timings, logger)
	streamHandlers := server.NewStreamHandlers(cfg.VideoDir, media.FFProber{}, media.FFStreamer{}, logger)

	// Routes
	mux := http.NewServeMux()
	mux.HandleFunc("GET /query/{backend}", queryHandlers.QueryHandler)
	mux.HandleFunc("GET /video", streamHandlers.VideoHandler)
	mux.HandleFunc("GET /health", server.HealthHandler(backends))

	if info, err := os.Stat(cfg.StaticDir); err == nil && info.IsDir() {
		mux.Handle("/", http.FileServer(http.Dir(cfg.StaticDir)))
		logger.Info("serving static assets", "dir", cfg.StaticDir)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: mux,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "err", err)
	}
}
