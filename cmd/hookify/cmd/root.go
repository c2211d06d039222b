package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/solatis/hookify/internal/core/config"
	"github.com/solatis/hookify/internal/core/db"
	"github.com/solatis/hookify/internal/core/snapshot"
	"github.com/solatis/hookify/internal/logging"
	"github.com/solatis/hookify/internal/rules"
)

const Version = "0.1.0"

// rootOptions holds the persistent flag values shared by every subcommand.
type rootOptions struct {
	configFile string
	rulesDir   string
	dbURL      string
	logLevel   string
	logFormat  string
	strict     bool

	fs afero.Fs
}

// NewRootCmd builds the hookify command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{fs: afero.NewOsFs()}

	rootCmd := &cobra.Command{
		Use:           "hookify",
		Short:         "Inspect and validate hookify rule files",
		Long:          `hookify loads hookify.*.local.md rule files, reports the rules they define and records snapshots of the effective rule set.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return logging.SetupLogger(opts.logLevel, opts.logFormat)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.configFile, "config", "", "config file path")
	pf.StringVar(&opts.rulesDir, "dir", rules.DefaultRulesDir, "directory holding rule files")
	pf.StringVar(&opts.dbURL, "db-url", "", "snapshot store URL (sqlite://path or postgres://...)")
	pf.StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	pf.StringVar(&opts.logFormat, "log-format", "text", "log format (json, text)")
	pf.BoolVar(&opts.strict, "strict", false, "reject unrecognized header lines")

	rootCmd.AddCommand(
		newListCmd(opts),
		newShowCmd(opts),
		newCheckCmd(opts),
		newSnapshotCmd(opts),
		newMigrateCmd(opts),
	)
	return rootCmd
}

// Execute runs the root command, cancelling its context on SIGINT or SIGTERM.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCmd().ExecuteContext(ctx)
}

// loadConfig reads the config layers and applies explicitly set flags on top.
func (o *rootOptions) loadConfig(cmd *cobra.Command) (*config.LoaderConfig, error) {
	cfg, err := config.LoadConfig(o.configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if cmd.Flags().Changed("dir") {
		cfg.RulesDir = o.rulesDir
	}
	if cmd.Flags().Changed("strict") {
		cfg.Strict = o.strict
	}
	if cmd.Flags().Changed("db-url") {
		if err := config.ValidateDBURL(o.dbURL); err != nil {
			return nil, err
		}
		cfg.DBURL = o.dbURL
	}
	return cfg, nil
}

// newLoader builds a rule loader that reports skipped files on the command's stderr.
func (o *rootOptions) newLoader(cmd *cobra.Command, cfg *config.LoaderConfig) *rules.Loader {
	return rules.NewLoader(o.fs, rules.LoaderOptions{
		Dir:     cfg.RulesDir,
		Pattern: cfg.FilePattern,
		Strict:  cfg.Strict,
	}, o.diagnostics(cmd))
}

func (o *rootOptions) diagnostics(cmd *cobra.Command) zerolog.Logger {
	return logging.NewDiagnostics(cmd.ErrOrStderr())
}

// openStore opens and checks the snapshot store. The caller closes it.
func (o *rootOptions) openStore(ctx context.Context, cfg *config.LoaderConfig) (*snapshot.Store, func() error, error) {
	database, err := openDB(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	statuses, err := db.MigrateStatus(ctx, database)
	if err != nil {
		database.Close()
		return nil, nil, fmt.Errorf("failed to check migrations: %w", err)
	}
	for _, s := range statuses {
		if !s.Applied {
			database.Close()
			return nil, nil, fmt.Errorf("migration %s not applied - run 'hookify migrate' first", s.ID)
		}
	}

	store, err := snapshot.NewStore(database, logging.GetLogger("snapshot"))
	if err != nil {
		database.Close()
		return nil, nil, fmt.Errorf("failed to load queries: %w", err)
	}
	return store, database.Close, nil
}
