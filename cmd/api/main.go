package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"scanrag/internal/app"
	"scanrag/internal/config"
	"scanrag/internal/contextutil"
)

//go:generate swagger generate spec -o swagger.json

// General API information
//
// This API transcribes scanned PDFs with a vision model and answers questions
// grounded in the transcribed pages.
//
// swagger:meta
//
// ---
// swagger: '2.0'
// info:
//   title: scanrag API
//   description: |
//     OCR and retrieval-augmented chat over scanned PDF documents.
//     Upload PDFs to /ocr or /knowledge-base/ingest, then ask questions at /chat.
//   version: 1.0.0
// schemes:
//   - http
//   - https
// consumes:
//   - application/json
//   - multipart/form-data
// produces:
//   - application/json

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const shutdownTimeout = 30 * time.Second

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := app.NewLogger(cfg, os.Stdout)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = contextutil.WithLogger(ctx, logger)

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer func() {
		if err := a.Close(); err != nil {
			slog.Error("Failed to close resources", "error", err)
		}
	}()

	srv := &nethttp.Server{
		Addr:              cfg.Addr(),
		Handler:           a.Router(version),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting API server", "addr", srv.Addr, "version", version)
		slog.Debug("Inference configuration", "base_url", cfg.BaseURL, "ocr_model", cfg.OCRModel, "chat_model", cfg.ChatModel)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, nethttp.ErrServerClosed) {
			slog.Error("API server failed", "error", err)
		}
	case <-ctx.Done():
		slog.Info("Shutting down API server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Graceful shutdown failed", "error", err)
		}
	}
}
