package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hilite-dev/hilite/internal/api"
	"github.com/hilite-dev/hilite/internal/config"
	"github.com/hilite-dev/hilite/internal/controller"
	"github.com/hilite-dev/hilite/internal/docstore"
	"github.com/hilite-dev/hilite/internal/store"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Selection store backend: remote KV when configured, local files
	// otherwise.
	var selections store.Store
	var remote *store.Client
	if cfg.SelectionStoreURL != "" {
		remote = store.NewClient(cfg.SelectionStoreURL, cfg.SelectionStoreAPIKey)
		selections = remote
	} else {
		fs, err := store.NewFileStore(cfg.SelectionStorePath)
		if err != nil {
			log.Error("open selection store", "error", err)
			os.Exit(1)
		}
		selections = fs
	}

	docs := docstore.NewRegistry()
	ctrl := controller.New(selections, cfg.HighlightClass, log)
	srv := api.NewServer(docs, ctrl, selections, log, cfg)

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

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		if remote != nil {
			remote.Close()
		}
	}()

	log.Info("starting hilite", "port", cfg.Port, "highlight_class", cfg.HighlightClass)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
