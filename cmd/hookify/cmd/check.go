package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/solatis/hookify/internal/rules"
)

func newCheckCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check [file...]",
		Short: "Validate rule files with strict parsing",
		Long: `Check parses each file in strict mode and prints one line per file.
With no arguments every rule file in the rules directory is checked.
Exits non-zero if any file fails.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}

			paths := args
			if len(paths) == 0 {
				paths, err = opts.newLoader(cmd, cfg).Candidates()
				if err != nil {
					return fmt.Errorf("failed to list rule files in %s: %w", cfg.RulesDir, err)
				}
			}

			out := cmd.OutOrStdout()
			failed := 0
			for _, path := range paths {
				rule, err := rules.ReadRuleFile(opts.fs, path, rules.ParseOptions{Strict: true})
				if err != nil {
					failed++
					fmt.Fprintf(out, "FAIL %s: %v\n", path, err)
					continue
				}
				fmt.Fprintf(out, "ok   %s (%s, %d conditions)\n", path, rule.Name, len(rule.Conditions))
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d rule files failed", failed, len(paths))
			}
			return nil
		},
	}
}
