package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/romaxnova/dvf-api/internal/config"
	"github.com/romaxnova/dvf-api/internal/infra"
	"github.com/romaxnova/dvf-api/internal/loader"
	"github.com/romaxnova/dvf-api/internal/repository"
	"github.com/romaxnova/dvf-api/internal/router"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger: pretty in dev, JSON in prod
	if !cfg.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo, err := openRepository(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.StoreBackend).Msg("failed to open store")
	}

	r := router.New(cfg, repo)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Str("backend", repo.Backend()).Msgf("DVF API listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}

// openRepository builds the configured store. The memory backend loads the
// whole data directory before returning, so no request is ever served from a
// partially loaded snapshot.
func openRepository(ctx context.Context, cfg *config.Config) (repository.DVFRepository, error) {
	switch cfg.StoreBackend {
	case repository.BackendMemory:
		sink := loader.NewMemoryWriter()
		if _, err := loader.New(sink, cfg.BatchSize).LoadAll(ctx, cfg.DataDir); err != nil {
			return nil, fmt.Errorf("load snapshot: %w", err)
		}
		snap := repository.NewSnapshotRepository(sink.Mutations())
		log.Info().Int("rows", snap.Len()).Str("data_dir", cfg.DataDir).Msg("snapshot ready")
		return snap, nil
	default:
		db, err := infra.NewDatabase(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return repository.NewDVFRepository(db), nil
	}
}
