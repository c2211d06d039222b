package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/solatis/hookify/internal/render"
)

func newSnapshotCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Record and inspect rule set snapshots",
	}
	cmd.AddCommand(
		newSnapshotRecordCmd(opts),
		newSnapshotListCmd(opts),
		newSnapshotStatusCmd(opts),
	)
	return cmd
}

func newSnapshotRecordCmd(opts *rootOptions) *cobra.Command {
	var event string

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Load the rules directory and store the effective rule set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}

			store, closeDB, err := opts.openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeDB()

			loaded := opts.newLoader(cmd, cfg).Load(event)
			snap, err := store.Record(ctx, cfg.RulesDir, event, loaded)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Recorded snapshot %s (%d rules, hash %s)\n",
				snap.ID, snap.RuleCount, snap.RulesHash)
			return nil
		},
	}

	cmd.Flags().StringVar(&event, "event", "", "only rules for this event")
	return cmd
}

func newSnapshotListCmd(opts *rootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded snapshots, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}

			store, closeDB, err := opts.openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeDB()

			snaps, err := store.List(ctx, limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			return render.Snapshots(out, snaps, render.IsTerminal(out))
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of snapshots")
	return cmd
}

func newSnapshotStatusCmd(opts *rootOptions) *cobra.Command {
	var event string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Report whether the rule set changed since the latest snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}

			store, closeDB, err := opts.openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeDB()

			// Must match the --event the snapshot was recorded with.
			changed, err := store.Changed(ctx, cfg.RulesDir, opts.newLoader(cmd, cfg).Load(event))
			if err != nil {
				return err
			}
			if changed {
				fmt.Fprintln(cmd.OutOrStdout(), "changed")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "unchanged")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&event, "event", "", "event filter the snapshot was recorded with")
	return cmd
}
