// Command webext-types generates TypeScript option interfaces from a web-ext
// release.
//
// Usage:
//
//	webext-types generate 8.3.0 -o index.d.ts
//	webext-types generate 8.3.0 --debug
//	webext-types lint 8.3.0
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/lex00/webext-types/cmd"
	"github.com/lex00/webext-types/config"
	"github.com/lex00/webext-types/ctxlog"
	"github.com/lex00/webext-types/fetch"
	"github.com/lex00/webext-types/generate"
)

func main() {
	level := new(slog.LevelVar)
	root := cmd.NewRootCommand("webext-types", "Generate TypeScript types for web-ext options")
	root.PersistentPreRun = func(c *cobra.Command, args []string) {
		name, _ := c.Flags().GetString("log-level")
		level.Set(ctxlog.ParseLevel(name))
		if verbose, _ := c.Flags().GetBool("verbose"); verbose {
			level.Set(slog.LevelDebug)
		}
		format, _ := c.Flags().GetString("log-format")
		logger := ctxlog.New(os.Stderr, format, level)
		c.SetContext(ctxlog.WithLogger(c.Context(), logger))
	}

	r := &runner{}
	root.AddCommand(cmd.NewGenerateCommand(r))
	root.AddCommand(cmd.NewLintCommand(r))
	root.AddCommand(cmd.NewVersionCommand())

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// runner wires the CLI to the generation pipeline.
type runner struct{}

func (r *runner) Generate(ctx context.Context, version string, opts cmd.GenerateOptions) (string, error) {
	g, err := r.generator(ctx, opts.ConfigPath)
	if err != nil {
		return "", err
	}
	g.DebugDir = opts.DebugDir
	return g.Generate(ctx, version)
}

func (r *runner) Lint(ctx context.Context, version string, opts cmd.LintOptions) ([]cmd.Issue, error) {
	g, err := r.generator(ctx, opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	found, err := g.Lint(ctx, version)
	if err != nil {
		return nil, err
	}
	issues := make([]cmd.Issue, 0, len(found))
	for _, issue := range found {
		issues = append(issues, cmd.Issue{
			Command:  issue.Command,
			Option:   issue.Option,
			Severity: issue.Severity.String(),
			Message:  issue.Message,
			Rule:     issue.Rule,
		})
	}
	return issues, nil
}

func (r *runner) generator(ctx context.Context, configPath string) (*generate.Generator, error) {
	cfg, path, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if path != "" {
		ctxlog.FromContext(ctx).Debug("loaded config", "path", path)
	}
	return generate.New(fetch.NewRetriever(cfg.Source.URL), cfg), nil
}
