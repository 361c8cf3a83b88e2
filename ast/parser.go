// Package ast strips type annotations from upstream JavaScript and parses
// the result into a syntax tree.
package ast

import (
	"errors"
	"fmt"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/js"

	"github.com/lex00/webext-types/serialize"
)

// ParseError reports source that could not be stripped or parsed.
type ParseError struct {
	// Stage is "strip" or "parse".
	Stage   string
	Message string
	Line    int
	Column  int
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s error at %d:%d: %s", e.Stage, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Stage, e.Message)
}

// StripOptions configures type stripping.
type StripOptions struct {
	// Filename is used in error messages.
	Filename string
}

// Strip erases Flow and TypeScript annotation syntax, leaving plain
// JavaScript with the same runtime behavior.
func Strip(src string, opts StripOptions) (string, error) {
	result := api.Transform(src, api.TransformOptions{
		Loader:     api.LoaderTS,
		Target:     api.ESNext,
		Sourcefile: opts.Filename,
		LogLevel:   api.LogLevelSilent,
	})
	if len(result.Errors) > 0 {
		msg := result.Errors[0]
		perr := &ParseError{Stage: "strip", Message: msg.Text}
		if msg.Location != nil {
			perr.Line = msg.Location.Line
			perr.Column = msg.Location.Column + 1
		}
		return "", perr
	}
	return string(result.Code), nil
}

// Parse parses src as an ECMAScript module.
func Parse(src string) (*js.AST, error) {
	tree, err := js.Parse(parse.NewInputString(src), js.Options{})
	if err != nil {
		perr := &ParseError{Stage: "parse", Message: err.Error()}
		var pe *parse.Error
		if errors.As(err, &pe) {
			perr.Message = pe.Message
			perr.Line = pe.Line
			perr.Column = pe.Column
		}
		return nil, perr
	}
	return tree, nil
}

// StripAndParse runs Strip followed by Parse and returns the tree together
// with the stripped source.
func StripAndParse(src string, opts StripOptions) (*js.AST, string, error) {
	stripped, err := Strip(src, opts)
	if err != nil {
		return nil, "", err
	}
	tree, err := Parse(stripped)
	if err != nil {
		return nil, stripped, err
	}
	return tree, stripped, nil
}

// Dump renders a tree as indented JSON for debugging. Scope bookkeeping is
// left out; every node carries its Go type under "type".
func Dump(tree *js.AST) ([]byte, error) {
	return serialize.ToJSONIndent(tree,
		serialize.CamelCase,
		serialize.OmitEmpty,
		serialize.TypeKey("type"),
		serialize.SkipFields("Scope"),
	)
}
