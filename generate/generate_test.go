package generate

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lex00/webext-types/ast"
	"github.com/lex00/webext-types/config"
	"github.com/lex00/webext-types/ctxlog"
	"github.com/lex00/webext-types/fetch"
	"github.com/lex00/webext-types/literal"
)

type fakeRetriever struct {
	src     string
	err     error
	version string
}

func (f *fakeRetriever) Fetch(ctx context.Context, version string) (string, error) {
	f.version = version
	return f.src, f.err
}

func readTestdata(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return string(data)
}

func testContext(buf *bytes.Buffer) context.Context {
	level := new(slog.LevelVar)
	level.Set(slog.LevelDebug)
	return ctxlog.WithLogger(context.Background(), ctxlog.New(buf, "text", level))
}

// Wrapped comment lines in the golden file carry no trailing whitespace,
// unlike the line-break spaces the upstream generator leaves behind.
func TestGenerate_Program(t *testing.T) {
	r := &fakeRetriever{src: readTestdata(t, "program.js")}
	g := New(r, nil)

	out, err := g.Generate(context.Background(), "8.3.0")
	require.NoError(t, err)
	assert.Equal(t, "8.3.0", r.version)

	want := readTestdata(t, "index.d.ts")
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("Generate() mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerate_RetrievalError(t *testing.T) {
	rerr := &fetch.RetrievalError{URL: "https://example.test/x", StatusCode: 404, Status: "404 Not Found"}
	g := New(&fakeRetriever{err: rerr}, nil)

	out, err := g.Generate(context.Background(), "0.0.0")
	require.Error(t, err)
	assert.Empty(t, out)

	var got *fetch.RetrievalError
	require.True(t, errors.As(err, &got))
	assert.Equal(t, 404, got.StatusCode)
}

func TestGenerate_NoRetriever(t *testing.T) {
	g := New(nil, nil)
	_, err := g.Generate(context.Background(), "8.3.0")
	assert.Error(t, err)
}

func TestGenerateSource_MissingCommand(t *testing.T) {
	src := `
program
  .command('run', 'Run', handler, {
    verbose: { type: 'boolean', describe: 'Be loud' },
  });
`
	cfg := config.Default()
	cfg.Commands = []string{"run", "sign"}

	var logs bytes.Buffer
	out, err := New(nil, cfg).GenerateSource(testContext(&logs), src)
	require.NoError(t, err)

	want := `export interface RunOptions {
  /**
   * Be loud
   */
  verbose?: boolean | undefined
}

export interface SignOptions {
}
`
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("GenerateSource() mismatch (-want +got):\n%s", diff)
	}
	assert.Contains(t, logs.String(), "no registration found")
	assert.Contains(t, logs.String(), "command=sign")
}

func TestGenerateSource_FirstRegistrationWins(t *testing.T) {
	src := `
program.command('run', 'first', h, { first: { type: 'string' } });
program.command('run', 'second', h, { second: { type: 'string' } });
`
	cfg := config.Default()
	cfg.Commands = []string{"run"}

	out, err := New(nil, cfg).GenerateSource(context.Background(), src)
	require.NoError(t, err)
	assert.Contains(t, out, "first?: string | undefined")
	assert.NotContains(t, out, "second")
}

func TestGenerateSource_FirstRegistrationWinsInChain(t *testing.T) {
	src := `
program
  .command('run', 'first', h, { first: { type: 'string' } })
  .command('run', 'second', h, { second: { type: 'string' } });
`
	cfg := config.Default()
	cfg.Commands = []string{"run"}

	out, err := New(nil, cfg).GenerateSource(context.Background(), src)
	require.NoError(t, err)
	assert.Contains(t, out, "first?: string | undefined")
	assert.NotContains(t, out, "second")
}

func TestGenerateSource_ExtractionGap(t *testing.T) {
	src := `
program.command('run', 'Run', handler, {
  timeout: { type: 'number', default: DEFAULT_TIMEOUT },
});
`
	cfg := config.Default()
	cfg.Commands = []string{"run"}

	out, err := New(nil, cfg).GenerateSource(context.Background(), src)
	require.Error(t, err)
	assert.Empty(t, out)

	var gap *literal.ExtractionGapError
	require.True(t, errors.As(err, &gap))
	assert.Equal(t, "DEFAULT_TIMEOUT", gap.Name)
	assert.Contains(t, err.Error(), `command "run"`)
}

func TestGenerateSource_Constants(t *testing.T) {
	src := `
program.command('run', 'Run', handler, {
  timeout: { type: 'number', default: DEFAULT_TIMEOUT },
});
`
	cfg := config.Default()
	cfg.Commands = []string{"run"}
	cfg.Constants["DEFAULT_TIMEOUT"] = 30000

	out, err := New(nil, cfg).GenerateSource(context.Background(), src)
	require.NoError(t, err)
	assert.Contains(t, out, "@default 30000")
	assert.Contains(t, out, "timeout: number | undefined")
}

func TestGenerateSource_ParseError(t *testing.T) {
	out, err := New(nil, nil).GenerateSource(context.Background(), "program.command('run', {")
	require.Error(t, err)
	assert.Empty(t, out)

	var perr *ast.ParseError
	require.True(t, errors.As(err, &perr))
}

func TestGenerateSource_LintWarnings(t *testing.T) {
	src := `
program.command('run', 'Run', handler, {
  level: { type: 'count' },
});
`
	cfg := config.Default()
	cfg.Commands = []string{"run"}

	var logs bytes.Buffer
	out, err := New(nil, cfg).GenerateSource(testContext(&logs), src)
	require.NoError(t, err)
	assert.Contains(t, out, "level?: count | undefined")
	assert.Contains(t, logs.String(), "rule=WEXT001")
}

func TestGenerate_DebugArtifacts(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "debug")
	src := readTestdata(t, "program.js")

	g := New(&fakeRetriever{src: src}, nil)
	g.DebugDir = dir

	_, err := g.Generate(context.Background(), "8.3.0")
	require.NoError(t, err)

	original, err := os.ReadFile(filepath.Join(dir, OriginalArtifact))
	require.NoError(t, err)
	assert.Equal(t, src, string(original))

	stripped, err := os.ReadFile(filepath.Join(dir, StrippedArtifact))
	require.NoError(t, err)
	assert.NotContains(t, string(stripped), "import type")
	assert.NotContains(t, string(stripped), "MainParams")

	dump, err := os.ReadFile(filepath.Join(dir, ASTArtifact))
	require.NoError(t, err)
	assert.Contains(t, string(dump), `"type"`)
	assert.Contains(t, string(dump), "CallExpr")
}

func TestGenerate_NoDebugDir(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer func() { _ = os.Chdir(wd) }()

	g := New(&fakeRetriever{src: "program.command('run', 'Run', h, {});"}, nil)
	_, err = g.Generate(context.Background(), "8.3.0")
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestWriteOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.d.ts")

	require.NoError(t, WriteOutput(path, "export interface RunOptions {\n}\n"))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "export interface RunOptions {\n}\n", string(data))

	require.NoError(t, WriteOutput(path, "replaced\n"))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "replaced\n", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriteOutput_MissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "index.d.ts")
	assert.Error(t, WriteOutput(path, "x"))
}

func TestLint(t *testing.T) {
	src := `
program.command('run', 'Run', handler, {
  level: { type: 'count' },
  mode: { type: 'string', choices: ['a', 'b'] },
});
`
	cfg := config.Default()
	cfg.Commands = []string{"run"}
	cfg.TypeOverrides = nil

	issues, err := New(&fakeRetriever{src: src}, cfg).Lint(context.Background(), "8.3.0")
	require.NoError(t, err)

	rules := make([]string, 0, len(issues))
	for _, issue := range issues {
		rules = append(rules, issue.Rule)
	}
	assert.ElementsMatch(t, []string{"WEXT001", "WEXT002"}, rules)
}

func TestLint_DisabledRule(t *testing.T) {
	src := `program.command('run', 'Run', handler, { level: { type: 'count' } });`
	cfg := config.Default()
	cfg.Commands = []string{"run"}
	cfg.TypeOverrides = nil
	cfg.Lint.Disabled = []string{"WEXT001"}

	issues, err := New(&fakeRetriever{src: src}, cfg).Lint(context.Background(), "8.3.0")
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestGenerateSource_FlowAnnotatedProgram(t *testing.T) {
	cfg := config.Default()
	cfg.Commands = []string{"run", "build"}

	out, err := New(nil, cfg).GenerateSource(context.Background(), readTestdata(t, "program_flow.js"))
	require.NoError(t, err)

	want := `export interface RunOptions {
  /**
   * Do not reload the extension when source files change
   */
  noReload?: boolean | undefined
  /**
   * Open the DevTools Browser Console.
   */
  browserConsole?: boolean | undefined
}

export interface BuildOptions {
  /**
   * Watch for file changes and re-build as needed
   */
  asNeeded?: boolean | undefined
}
`
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("GenerateSource() mismatch (-want +got):\n%s", diff)
	}
}
