package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/onthisday/internal/api"
	"github.com/dgallion1/onthisday/internal/config"
	"github.com/dgallion1/onthisday/internal/gdocs"
	"github.com/dgallion1/onthisday/internal/generate"
	"github.com/dgallion1/onthisday/internal/notify"
	"github.com/dgallion1/onthisday/internal/pipeline"
	"github.com/dgallion1/onthisday/internal/wikimedia"
)

func main() {
	var (
		dateStr = flag.String("date", "", "digest date as YYYY-MM-DD (default today)")
		serve   = flag.Bool("serve", false, "run the HTTP API server instead of a one-shot digest")
		preview = flag.String("preview", "", "write an HTML preview of the composed digest to this path")
		docx    = flag.String("docx", "", "write a .docx archive of the composed digest to this path")
		dryRun  = flag.Bool("dry-run", false, "compose and export only: no document, no notification")
	)
	flag.Parse()

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if *serve && cfg.DigestAPIKey == "" {
		log.Error("invalid configuration", "error", "DIGEST_API_KEY is required in serve mode")
		os.Exit(1)
	}

	date := time.Now()
	if *dateStr != "" {
		parsed, err := time.Parse("2006-01-02", *dateStr)
		if err != nil {
			log.Error("invalid -date, want YYYY-MM-DD", "date", *dateStr)
			os.Exit(1)
		}
		date = parsed
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gen := generate.NewClient(cfg.AnthropicAPIKey, cfg.AnthropicModel, log)
	images := wikimedia.NewClient(cfg.WikimediaUserAgent)

	var (
		docs     *gdocs.Client
		notifier *notify.Client
	)
	if !*dryRun {
		var err error
		docs, err = gdocs.NewClient(ctx, gdocs.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RefreshToken: cfg.GoogleRefreshToken,
			FolderID:     cfg.DriveFolderID,
		})
		if err != nil {
			log.Error("google session", "error", err)
			os.Exit(1)
		}
		notifier = notify.NewClient(cfg.DiscordWebhookURL)
	}

	runner := pipeline.NewRunner(gen, images, docs, notifier, log, pipeline.Options{
		StyleBatchSize: cfg.StyleBatchSize,
		PreviewPath:    *preview,
		DocxPath:       *docx,
		DryRun:         *dryRun,
	})

	if !*serve {
		report, err := runner.Run(ctx, date)
		if err != nil {
			if errors.Is(err, pipeline.ErrNoEvents) {
				log.Warn("nothing to publish", "date", date.Format("2006-01-02"))
				return
			}
			log.Error("digest run failed", "error", err)
			os.Exit(1)
		}
		log.Info("done",
			"doc_url", report.DocURL,
			"events", report.Events,
			"images_placed", report.ImagesPlaced,
			"images_failed", report.ImagesFailed,
		)
		return
	}

	orch := pipeline.NewOrchestrator(runner, log, cfg.MaxQueueSize, cfg.JobTTL)
	orch.Start(ctx)

	srv := api.NewServer(orch, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		gen.Close()
	}()

	log.Info("starting onthisday", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
