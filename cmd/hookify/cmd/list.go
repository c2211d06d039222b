package cmd

import (
	"github.com/spf13/cobra"

	"github.com/solatis/hookify/internal/logging"
	"github.com/solatis/hookify/internal/render"
	"github.com/solatis/hookify/internal/types"
)

func newListCmd(opts *rootOptions) *cobra.Command {
	var (
		event string
		all   bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the rules loaded from the rules directory",
		Long: `List loads every rule file in the rules directory and prints the enabled
rules that apply to --event. Files that cannot be loaded are reported on
stderr and skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}

			logger := logging.GetLogger("list")
			done := logging.LogOperationStart(logger, "load rules")
			loader := opts.newLoader(cmd, cfg)

			var loaded []types.Rule
			if all {
				loaded = loader.LoadAll(event)
			} else {
				loaded = loader.Load(event)
			}
			done()

			out := cmd.OutOrStdout()
			return render.RuleList(out, loaded, render.IsTerminal(out))
		},
	}

	cmd.Flags().StringVar(&event, "event", "", "only rules for this event (bash, file, stop, ...)")
	cmd.Flags().BoolVar(&all, "all", false, "include disabled rules")
	return cmd
}
