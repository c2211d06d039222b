package cmd

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/solatis/hookify/internal/core/config"
	"github.com/solatis/hookify/internal/core/db"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	var status bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply snapshot store migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}

			database, err := openDB(ctx, cfg)
			if err != nil {
				return err
			}
			defer database.Close()

			out := cmd.OutOrStdout()
			if status {
				statuses, err := db.MigrateStatus(ctx, database)
				if err != nil {
					return fmt.Errorf("failed to read migration status: %w", err)
				}
				for _, s := range statuses {
					if s.Applied {
						fmt.Fprintf(out, "applied  %s  %s\n", s.ID, s.AppliedAt)
					} else {
						fmt.Fprintf(out, "pending  %s\n", s.ID)
					}
				}
				return nil
			}

			ran, err := db.MigrateUp(ctx, database)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			if len(ran) == 0 {
				fmt.Fprintln(out, "Database is up to date.")
				return nil
			}
			for _, id := range ran {
				fmt.Fprintf(out, "applied  %s\n", id)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&status, "status", false, "list migrations without applying them")
	return cmd
}

// openDB opens the configured snapshot store.
func openDB(ctx context.Context, cfg *config.LoaderConfig) (*sqlx.DB, error) {
	if cfg.DBURL == "" {
		return nil, fmt.Errorf("--db-url required (or set HOOKIFY_DB_URL)")
	}
	database, err := db.Open(ctx, cfg.DBURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return database, nil
}
