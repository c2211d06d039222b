package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/solatis/hookify/internal/render"
	"github.com/solatis/hookify/internal/rules"
)

func newShowCmd(opts *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show <file>",
		Short: "Print the rule defined by one file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := render.ParseFormat(format)
			if err != nil {
				return err
			}
			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}

			rule, err := rules.ReadRuleFile(opts.fs, args[0], rules.ParseOptions{Strict: cfg.Strict})
			if err != nil {
				return fmt.Errorf("failed to load %s: %w", args[0], err)
			}

			out := cmd.OutOrStdout()
			return render.Rule(out, *rule, f, render.IsTerminal(out))
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", render.FormatText, "output format (text, yaml, json)")
	return cmd
}
