package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lex00/webext-types/generate"
)

// DefaultDebugDir is used by --debug when no --debug-dir is given.
const DefaultDebugDir = "debug"

// NewGenerateCommand creates a new generate command that uses the provided Generator.
func NewGenerateCommand(generator Generator) *cobra.Command {
	var opts GenerateOptions
	var debug bool

	cmd := &cobra.Command{
		Use:   "generate <version>",
		Short: "Generate TypeScript option interfaces for a web-ext release",
		Long: `Generate downloads src/program.js for the given web-ext release tag,
extracts the option schema of each configured subcommand and prints one
TypeScript interface per subcommand.

Nothing is written to the output file unless the whole run succeeds.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Verbose, _ = cmd.Flags().GetBool("verbose")
			if debug && opts.DebugDir == "" {
				opts.DebugDir = DefaultDebugDir
			}

			out, err := generator.Generate(cmd.Context(), args[0], opts)
			if err != nil {
				return fmt.Errorf("generate failed: %w", err)
			}

			if opts.Output == "" {
				_, _ = fmt.Fprint(cmd.OutOrStdout(), out)
				return nil
			}
			if err := generate.WriteOutput(opts.Output, out); err != nil {
				return fmt.Errorf("generate failed: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", opts.Output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().BoolVarP(&debug, "debug", "d", false, "Write intermediate artifacts to ./"+DefaultDebugDir)
	cmd.Flags().StringVar(&opts.DebugDir, "debug-dir", "", "Directory for intermediate artifacts")
	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to webext-types.yaml")

	return cmd
}
