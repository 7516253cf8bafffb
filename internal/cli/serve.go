package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/riordanpawley/tasktable/internal/fixtures"
	"github.com/riordanpawley/tasktable/internal/server"
	"github.com/riordanpawley/tasktable/internal/storage"
)

type serveOptions struct {
	addr string
	db   string
	seed string
	demo bool
}

func newServeCmd(opts *options) *cobra.Command {
	so := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a local task backend backed by SQLite",
		Long: `Serve the task REST API from a local SQLite database.

Use --seed to load a YAML seed file, or --demo for the built-in sample
project, when the seeded project has no tasks yet.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			if so.addr == "" {
				so.addr = cfg.Server.Addr
			}
			if so.db == "" {
				so.db = cfg.Server.DBPath
			}

			logger, closeLog, err := newLogger(cfg.Log, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer closeLog()

			ctx := cmd.Context()
			store, err := openStore(ctx, so, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			fmt.Fprintf(cmd.OutOrStdout(), "Serving tasks from %s on http://%s\n", so.db, so.addr)
			return server.NewServer(store, logger).Run(ctx, so.addr)
		},
	}

	f := cmd.Flags()
	f.StringVar(&so.addr, "addr", "", "listen address (default from server.addr)")
	f.StringVar(&so.db, "db", "", "SQLite database path, or :memory: (default from server.dbPath)")
	f.StringVar(&so.seed, "seed", "", "YAML seed file to load into an empty project")
	f.BoolVar(&so.demo, "demo", false, "load the built-in sample project into an empty project")
	cmd.MarkFlagsMutuallyExclusive("seed", "demo")
	return cmd
}

// openStore opens the database and applies the requested seed
func openStore(ctx context.Context, so *serveOptions, logger *slog.Logger) (*storage.TaskStore, error) {
	store, err := storage.NewTaskStore(so.db)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	var seed *fixtures.Seed
	switch {
	case so.seed != "":
		seed, err = fixtures.LoadFile(so.seed)
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("failed to load seed: %w", err)
		}
	case so.demo:
		seed = fixtures.Sample()
	default:
		return store, nil
	}

	existing, err := store.List(ctx, seed.Project, false)
	if err != nil {
		store.Close()
		return nil, err
	}
	if len(existing) > 0 {
		logger.Info("project already has tasks, skipping seed", "project", seed.Project, "count", len(existing))
		return store, nil
	}

	n, err := seed.Apply(ctx, store)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to seed %s: %w", seed.Project, err)
	}
	logger.Info("seeded project", "project", seed.Project, "tasks", n)
	return store, nil
}
