// Package cmd provides the command framework for the webext-types CLI.
//
// Commands depend on small interfaces so the pipeline can be replaced by a
// mock in tests.
package cmd

import "context"

// GenerateOptions contains options for the generate command.
type GenerateOptions struct {
	// Output is the target file; empty writes to stdout.
	Output string
	// DebugDir receives intermediate artifacts when non-empty.
	DebugDir   string
	ConfigPath string
	Verbose    bool
}

// LintOptions contains options for the lint command.
type LintOptions struct {
	ConfigPath string
	Verbose    bool
}

// Issue represents a schema issue found in an upstream command.
type Issue struct {
	Command  string
	Option   string
	Severity string // "error", "warning", "info"
	Message  string
	Rule     string
}

// Generator renders declarations for an upstream version.
type Generator interface {
	Generate(ctx context.Context, version string, opts GenerateOptions) (string, error)
}

// Linter checks the option schemas of an upstream version.
type Linter interface {
	Lint(ctx context.Context, version string, opts LintOptions) ([]Issue, error)
}
