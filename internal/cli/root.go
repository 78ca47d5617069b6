// Package cli implements the dvf-loader command.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/romaxnova/dvf-api/internal/config"
	"github.com/romaxnova/dvf-api/internal/infra"
	"github.com/romaxnova/dvf-api/internal/loader"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type loadOptions struct {
	dataDir      string
	batchSize    int
	ensureSchema bool
	verbose      bool
}

func newRootCmd() *cobra.Command {
	opts := &loadOptions{}

	cmd := &cobra.Command{
		Use:   "dvf-loader",
		Short: "Load DVF CSV exports into Postgres",
		Long: `dvf-loader walks DATA_DIR/<batch>/*.csv and inserts every row into the
dvf table in multi-row batches. Each run reloads all files; rows already
present are inserted again.

Exit Codes:
  0  - Success
  1  - Configuration, read or insert error`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("batch-size") && (opts.batchSize < 1 || opts.batchSize > loader.MaxBatchSize) {
				return fmt.Errorf("batch size must be between 1 and %d", loader.MaxBatchSize)
			}
			return runLoad(cmd.Context(), cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.dataDir, "data-dir", "d", "", "Root data directory (default: $DATA_DIR or ./data)")
	cmd.Flags().IntVarP(&opts.batchSize, "batch-size", "b", 0, "Rows per INSERT statement (default: $BATCH_SIZE or 500)")
	cmd.Flags().BoolVar(&opts.ensureSchema, "ensure-schema", true, "Create the dvf table if it does not exist")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	return cmd
}

func runLoad(ctx context.Context, cmd *cobra.Command, opts *loadOptions) error {
	level := zerolog.InfoLevel
	if opts.verbose {
		level = zerolog.DebugLevel
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), TimeFormat: time.RFC3339}).Level(level)

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if opts.dataDir != "" {
		cfg.DataDir = opts.dataDir
	}
	if opts.batchSize > 0 {
		cfg.BatchSize = opts.batchSize
	}

	pool, err := infra.NewPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	writer := loader.NewPgxWriter(pool)

	if opts.ensureSchema {
		if err := writer.EnsureSchema(ctx); err != nil {
			writer.Close()
			return err
		}
	}

	log.Info().Str("data_dir", cfg.DataDir).Int("batch_size", cfg.BatchSize).Msg("loading DVF data")
	if _, err := loader.New(writer, cfg.BatchSize).LoadAll(ctx, cfg.DataDir); err != nil {
		return fmt.Errorf("load: %w", err)
	}
	return nil
}

// Execute runs the loader command, cancelling the load on SIGINT / SIGTERM.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("error loading DVF data")
		return err
	}
	return nil
}
