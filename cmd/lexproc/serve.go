package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dgallion1/lexproc/internal/analyze"
	"github.com/dgallion1/lexproc/internal/api"
	"github.com/dgallion1/lexproc/internal/config"
	"github.com/dgallion1/lexproc/internal/pipeline"
	"github.com/dgallion1/lexproc/internal/textract"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP analysis service",
		Long: `Run the HTTP analysis service. Configuration comes from the environment
(and a .env file in the working directory): PORT, LEXPROC_API_KEY,
WORKER_COUNT, MAX_QUEUE_SIZE, MAX_UPLOAD_BYTES, JOB_TTL,
PDF_FALLBACK_PDFTOTEXT, LEXPROC_VOCABULARY, LEXPROC_LOG_LEVEL.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func runServe() error {
	cfg := config.Load()
	log := newLogger(os.Stdout, cfg.LogLevel, true)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		return err
	}

	vocab, err := loadVocabulary(cfg.VocabularyPath)
	if err != nil {
		log.Error("load vocabulary", "path", cfg.VocabularyPath, "error", err)
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	analyzer := analyze.New(vocab, textract.Options{FallbackPdftotext: cfg.PDFFallbackPdftotext}, log)

	// Initialize pipeline.
	orch := pipeline.NewOrchestrator(cfg, analyzer, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(orch, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		// Stop accepting uploads before the queue is closed.
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error("http shutdown", "error", err)
		}

		orch.Stop()
	}()

	if cfg.APIKey == "" {
		log.Warn("LEXPROC_API_KEY is not set, API is unauthenticated")
	}
	log.Info("starting lexproc", "port", cfg.Port, "workers", cfg.WorkerCount, "version", version)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server error", "error", err)
		return err
	}
	<-stopped
	return nil
}
