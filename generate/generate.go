// Package generate runs the full pipeline: retrieve the upstream source,
// extract each command's option schema and render the declarations.
package generate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tdewolff/parse/v2/js"

	"github.com/lex00/webext-types/ast"
	"github.com/lex00/webext-types/config"
	"github.com/lex00/webext-types/ctxlog"
	"github.com/lex00/webext-types/discover"
	"github.com/lex00/webext-types/lint"
	"github.com/lex00/webext-types/literal"
	"github.com/lex00/webext-types/render"
	"github.com/lex00/webext-types/schema"
)

// Debug artifact names written under the debug directory.
const (
	OriginalArtifact = "web-ext.original.js"
	StrippedArtifact = "web-ext.stripped.js"
	ASTArtifact      = "web-ext.ast.json"
)

// SourceRetriever fetches the upstream source for a version.
type SourceRetriever interface {
	Fetch(ctx context.Context, version string) (string, error)
}

// Generator turns an upstream program into TypeScript declarations.
type Generator struct {
	Retriever SourceRetriever
	Config    *config.Config
	// DebugDir receives intermediate artifacts when non-empty.
	DebugDir string
}

// New creates a Generator. A nil cfg selects config.Default().
func New(retriever SourceRetriever, cfg *config.Config) *Generator {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Generator{Retriever: retriever, Config: cfg}
}

// Generate fetches the source for version and renders it.
func (g *Generator) Generate(ctx context.Context, version string) (string, error) {
	logger := ctxlog.FromContext(ctx)
	if g.Retriever == nil {
		return "", fmt.Errorf("generate: no source retriever configured")
	}

	logger.Info("fetching upstream source", "version", version)
	src, err := g.Retriever.Fetch(ctx, version)
	if err != nil {
		return "", err
	}
	logger.Debug("fetched upstream source", "bytes", len(src))

	if err := g.writeDebug(ctx, OriginalArtifact, []byte(src)); err != nil {
		return "", err
	}
	return g.GenerateSource(ctx, src)
}

// GenerateSource renders declarations from already retrieved source text.
func (g *Generator) GenerateSource(ctx context.Context, src string) (string, error) {
	specs, err := g.Extract(ctx, src)
	if err != nil {
		return "", err
	}

	renderer := render.New(g.Config.Overrides(), g.Config.Preferred())
	g.check(ctx, specs, renderer)

	out, err := renderer.Render(specs)
	if err != nil {
		return "", fmt.Errorf("render: %w", err)
	}
	return out, nil
}

// Extract strips and parses src and recovers one CommandSpec per configured
// command, in configured order. Commands without a registration yield an
// empty spec.
func (g *Generator) Extract(ctx context.Context, src string) ([]*schema.CommandSpec, error) {
	logger := ctxlog.FromContext(ctx)

	symbols, err := g.Config.Symbols()
	if err != nil {
		return nil, err
	}

	tree, stripped, err := ast.StripAndParse(src, ast.StripOptions{Filename: g.Config.Source.Filename})
	if stripped != "" {
		if werr := g.writeDebug(ctx, StrippedArtifact, []byte(stripped)); werr != nil {
			return nil, werr
		}
	}
	if err != nil {
		return nil, err
	}
	if err := g.dumpTree(ctx, tree); err != nil {
		return nil, err
	}
	logger.Debug("upstream registrations", "commands", discover.ListCommands(tree))

	specs := make([]*schema.CommandSpec, 0, len(g.Config.Commands))
	for _, name := range g.Config.Commands {
		spec, err := extractCommand(tree, name, symbols)
		if err != nil {
			return nil, err
		}
		if !spec.Found {
			logger.Warn("no registration found for command; emitting empty interface", "command", name)
		} else {
			logger.Debug("extracted command", "command", name, "options", len(spec.Options))
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func extractCommand(tree *js.AST, name string, symbols literal.Symbols) (*schema.CommandSpec, error) {
	reg, ok := discover.FindCommandSchema(tree, name)
	if !ok {
		return schema.Missing(name), nil
	}
	value, err := literal.Eval(reg.Options, symbols)
	if err != nil {
		return nil, fmt.Errorf("command %q: %w", name, err)
	}
	return schema.DecodeCommand(name, value)
}

// Lint fetches the source for version and returns the schema issues of the
// extracted commands without rendering them.
func (g *Generator) Lint(ctx context.Context, version string) ([]lint.Issue, error) {
	if g.Retriever == nil {
		return nil, fmt.Errorf("generate: no source retriever configured")
	}
	src, err := g.Retriever.Fetch(ctx, version)
	if err != nil {
		return nil, err
	}
	specs, err := g.Extract(ctx, src)
	if err != nil {
		return nil, err
	}
	return g.Issues(specs, render.New(g.Config.Overrides(), g.Config.Preferred())), nil
}

// Issues runs the enabled schema rules over specs.
func (g *Generator) Issues(specs []*schema.CommandSpec, renderer *render.Renderer) []lint.Issue {
	targets := make([]lint.Target, 0, len(specs))
	for _, spec := range specs {
		targets = append(targets, lint.Target{Spec: spec, Overrides: g.Config.Overrides(), Renderer: renderer})
	}
	cfg := lint.DefaultConfig()
	cfg.DisabledRules = g.Config.Lint.Disabled
	return lint.Check(targets, lint.DefaultRegistry().All(), cfg)
}

// check logs schema issues. They never fail the run.
func (g *Generator) check(ctx context.Context, specs []*schema.CommandSpec, renderer *render.Renderer) {
	logger := ctxlog.FromContext(ctx)
	for _, issue := range g.Issues(specs, renderer) {
		attrs := []any{"rule", issue.Rule, "command", issue.Command, "severity", issue.Severity.String()}
		if issue.Option != "" {
			attrs = append(attrs, "option", issue.Option)
		}
		if issue.Suggestion != "" {
			attrs = append(attrs, "suggestion", issue.Suggestion)
		}
		logger.Warn(issue.Message, attrs...)
	}
}

func (g *Generator) dumpTree(ctx context.Context, tree *js.AST) error {
	if g.DebugDir == "" {
		return nil
	}
	data, err := ast.Dump(tree)
	if err != nil {
		return fmt.Errorf("dump syntax tree: %w", err)
	}
	return g.writeDebug(ctx, ASTArtifact, data)
}

func (g *Generator) writeDebug(ctx context.Context, name string, data []byte) error {
	if g.DebugDir == "" {
		return nil
	}
	file := filepath.Join(g.DebugDir, name)
	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return fmt.Errorf("create debug directory: %w", err)
	}
	if err := os.WriteFile(file, data, 0o644); err != nil {
		return fmt.Errorf("write debug artifact: %w", err)
	}
	ctxlog.FromContext(ctx).Debug("wrote debug artifact", "path", file)
	return nil
}
