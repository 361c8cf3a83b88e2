package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewLintCommand creates a new lint command that uses the provided Linter.
func NewLintCommand(linter Linter) *cobra.Command {
	var opts LintOptions

	cmd := &cobra.Command{
		Use:   "lint <version>",
		Short: "Check upstream option schemas for issues",
		Long: `Lint extracts the option schemas of a web-ext release and reports
shapes the generator cannot render faithfully.

Issues are categorized by severity (error, warning, info) and include
the command, option and rule they belong to.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Verbose, _ = cmd.Flags().GetBool("verbose")
			out := cmd.OutOrStdout()

			issues, err := linter.Lint(cmd.Context(), args[0], opts)
			if err != nil {
				return fmt.Errorf("lint failed: %w", err)
			}

			if len(issues) == 0 {
				_, _ = fmt.Fprintln(out, "No issues found")
				return nil
			}

			errorCount := 0
			for _, issue := range issues {
				location := issue.Command
				if issue.Option != "" {
					location += "/" + issue.Option
				}
				_, _ = fmt.Fprintf(out, "%s: %s: %s (%s)\n",
					location, issue.Severity, issue.Message, issue.Rule)
				if issue.Severity == "error" {
					errorCount++
				}
			}

			if errorCount > 0 {
				return fmt.Errorf("lint found %d error(s)", errorCount)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to webext-types.yaml")

	return cmd
}
