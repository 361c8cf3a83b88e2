package literal

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/js"
)

func parseExpr(t *testing.T, src string) js.IExpr {
	t.Helper()
	tree, err := js.Parse(parse.NewInputString("("+src+");"), js.Options{})
	require.NoError(t, err)
	require.Len(t, tree.List, 1)
	stmt, ok := tree.List[0].(*js.ExprStmt)
	require.True(t, ok, "expected expression statement, got %T", tree.List[0])
	return stmt.Value
}

func TestEvalPrimitives(t *testing.T) {
	tests := []struct {
		src  string
		want any
	}{
		{`'single'`, "single"},
		{`"double"`, "double"},
		{`42`, 42.0},
		{`1.5`, 1.5},
		{`0x10`, 16.0},
		{`1_000`, 1000.0},
		{`-3`, -3.0},
		{`true`, true},
		{`false`, false},
		{`null`, nil},
		{`undefined`, nil},
		{`!0`, true},
		{`'a' + 'b' + 'c'`, "abc"},
		{`'n=' + 2`, "n=2"},
		{`1 + 2`, 3.0},
		{"`plain`", "plain"},
		{"`a${'b'}c`", "abc"},
		{"`x${1}y${true}z`", "x1ytruez"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got, err := Eval(parseExpr(t, tt.src), nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvalObjectPreservesOrder(t *testing.T) {
	src := `{
		'zeta': {type: 'string'},
		alpha: {type: 'boolean', default: false},
		"middle-key": {type: 'array', choices: ['a', 'b']},
	}`
	v, err := Eval(parseExpr(t, src), nil)
	require.NoError(t, err)

	obj, ok := v.(*Object)
	require.True(t, ok)
	assert.Equal(t, []string{"zeta", "alpha", "middle-key"}, obj.Keys())

	middle, _ := obj.Get("middle-key")
	choices, _ := middle.(*Object).Get("choices")
	assert.Equal(t, []any{"a", "b"}, choices)
}

func TestEvalSpread(t *testing.T) {
	symbols := Symbols{}
	base, err := Eval(parseExpr(t, `{a: 1, b: 2}`), nil)
	require.NoError(t, err)
	symbols["common"] = base
	symbols["extra"] = []any{"x"}

	v, err := Eval(parseExpr(t, `{...common, b: 3, c: [...extra, 'y']}`), symbols)
	require.NoError(t, err)

	obj := v.(*Object)
	assert.Equal(t, []string{"a", "b", "c"}, obj.Keys())
	b, _ := obj.Get("b")
	assert.Equal(t, 3.0, b)
	c, _ := obj.Get("c")
	assert.Equal(t, []any{"x", "y"}, c)
}

func TestEvalSymbols(t *testing.T) {
	symbols := Symbols{
		"AMO_BASE_URL":     "https://addons.mozilla.org/api/v5/",
		"defaults.timeout": 30.0,
	}

	v, err := Eval(parseExpr(t, `{default: AMO_BASE_URL, timeout: defaults.timeout}`), symbols)
	require.NoError(t, err)

	obj := v.(*Object)
	def, _ := obj.Get("default")
	assert.Equal(t, "https://addons.mozilla.org/api/v5/", def)
	timeout, _ := obj.Get("timeout")
	assert.Equal(t, 30.0, timeout)
}

func TestEvalUnresolvedIdentifier(t *testing.T) {
	_, err := Eval(parseExpr(t, `{'api-url': {default: UNKNOWN_CONSTANT}}`), nil)
	require.Error(t, err)

	var gap *ExtractionGapError
	require.True(t, errors.As(err, &gap))
	assert.Equal(t, "UNKNOWN_CONSTANT", gap.Name)
	assert.Equal(t, "api-url.default", gap.Path)
	assert.Contains(t, err.Error(), `unresolved identifier "UNKNOWN_CONSTANT"`)
}

func TestEvalUnsupportedCall(t *testing.T) {
	_, err := Eval(parseExpr(t, `{default: path.join('a', 'b')}`), nil)

	var gap *ExtractionGapError
	require.True(t, errors.As(err, &gap))
	assert.Empty(t, gap.Name)
	assert.Equal(t, "default", gap.Path)
}

func TestEvalFunctionsAreOpaque(t *testing.T) {
	src := `{
		coerce: (arg) => arg != null ? coerceCLICustomPreference(arg) : undefined,
		check: function (x) { return neverCalled(x) },
		type: 'string',
	}`
	v, err := Eval(parseExpr(t, src), nil)
	require.NoError(t, err)

	obj := v.(*Object)
	coerce, _ := obj.Get("coerce")
	assert.IsType(t, Function{}, coerce)
	check, _ := obj.Get("check")
	assert.IsType(t, Function{}, check)
}

func TestUnquote(t *testing.T) {
	tests := map[string]string{
		`'plain'`:          "plain",
		`"it's"`:           "it's",
		`'it\'s'`:          "it's",
		`"tab\tnew\nline"`: "tab\tnew\nline",
		`'\x41B\u{43}'`:    "ABC",
		`'\uD83D\uDE00'`:   "\U0001F600",
		`'back\\slash'`:    `back\slash`,
		`'un\known'`:       "unknown",
	}
	for in, want := range tests {
		got, err := Unquote(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := Unquote(`'unterminated`)
	assert.Error(t, err)
}

func TestJSON(t *testing.T) {
	obj := NewObject()
	obj.Set("z", "a<b>&c")
	obj.Set("a", []any{1.0, true, nil, Function{}})
	obj.Set("fn", Function{})
	obj.Set("z", "again")

	got, err := JSON(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"z":"again","a":[1,true,null,null]}`, got)

	s, err := JSON("https://addons.mozilla.org/api/v5/")
	require.NoError(t, err)
	assert.Equal(t, `"https://addons.mozilla.org/api/v5/"`, s)
}

func TestTruthyAndString(t *testing.T) {
	assert.False(t, Truthy(nil))
	assert.False(t, Truthy(""))
	assert.False(t, Truthy(0.0))
	assert.True(t, Truthy("no"))
	assert.True(t, Truthy(NewObject()))
	assert.True(t, Truthy([]any{}))

	assert.Equal(t, "3", String(3.0))
	assert.Equal(t, "0.5", String(0.5))
	assert.Equal(t, "a,b", String([]any{"a", "b"}))
	assert.Equal(t, "undefined", String(nil))
}
