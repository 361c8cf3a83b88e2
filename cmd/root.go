package cmd

import (
	"github.com/spf13/cobra"
)

// NewRootCommand creates the root command of the webext-types CLI.
func NewRootCommand(name, description string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   name,
		Short: description,
		Long: description + `

The generator reads the option schemas web-ext registers for its
subcommands and emits matching TypeScript interfaces.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add persistent flags available to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	cmd.PersistentFlags().String("log-format", "text", "Log format: text or json")
	cmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn or error")

	return cmd
}
