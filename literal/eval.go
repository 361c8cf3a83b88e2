package literal

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tdewolff/parse/v2/js"
)

// Symbols resolves free identifiers, and dotted member paths such as
// "constants.AMO_BASE_URL", to values.
type Symbols map[string]any

// ExtractionGapError reports an expression the interpreter cannot reduce to a
// value, usually an identifier that has no entry in the symbol table.
type ExtractionGapError struct {
	// Name is the unresolved identifier or member path, empty for
	// unsupported expression shapes.
	Name string
	// Path locates the expression inside the evaluated literal, e.g.
	// "firefox.default".
	Path string
	// Expr is the offending expression.
	Expr string
	// Reason describes why evaluation failed.
	Reason string
}

// Error implements the error interface.
func (e *ExtractionGapError) Error() string {
	var sb strings.Builder
	sb.WriteString("extraction gap")
	if e.Path != "" {
		sb.WriteString(" at ")
		sb.WriteString(e.Path)
	}
	sb.WriteString(": ")
	if e.Name != "" {
		fmt.Fprintf(&sb, "unresolved identifier %q (add a constant for it)", e.Name)
	} else {
		sb.WriteString(e.Reason)
	}
	if e.Expr != "" {
		sb.WriteString(" in ")
		sb.WriteString(e.Expr)
	}
	return sb.String()
}

// Eval reduces a literal expression to a Go value. Identifiers resolve
// through symbols; function expressions become opaque Function values.
func Eval(expr js.IExpr, symbols Symbols) (any, error) {
	e := &evaluator{symbols: symbols}
	return e.eval(expr)
}

type evaluator struct {
	symbols Symbols
	path    []string
}

func (e *evaluator) eval(expr js.IExpr) (any, error) {
	if expr == nil {
		return nil, nil
	}
	if isFunction(expr) {
		return Function{Source: expr.String()}, nil
	}

	switch n := expr.(type) {
	case *js.LiteralExpr:
		return e.literal(n.TokenType, n.Data, expr)
	case *js.Var:
		return e.lookup(string(n.Data), expr)
	case *js.GroupExpr:
		return e.eval(n.X)
	case *js.DotExpr:
		name, ok := dottedName(n)
		if !ok {
			return nil, e.gap("", expr, "unsupported member expression")
		}
		return e.lookup(name, expr)
	case *js.ArrayExpr:
		return e.array(n)
	case *js.ObjectExpr:
		return e.object(n)
	case *js.TemplateExpr:
		return e.template(n)
	case *js.UnaryExpr:
		return e.unary(n)
	case *js.BinaryExpr:
		return e.binary(n)
	}
	return nil, e.gap("", expr, "unsupported expression")
}

func (e *evaluator) literal(tt js.TokenType, data []byte, expr js.IExpr) (any, error) {
	switch tt {
	case js.StringToken:
		s, err := Unquote(string(data))
		if err != nil {
			return nil, e.gap("", expr, err.Error())
		}
		return s, nil
	case js.TrueToken:
		return true, nil
	case js.FalseToken:
		return false, nil
	case js.NullToken:
		return nil, nil
	case js.DecimalToken, js.BinaryToken, js.OctalToken, js.HexadecimalToken:
		f, err := parseNumber(string(data))
		if err != nil {
			return nil, e.gap("", expr, err.Error())
		}
		return f, nil
	case js.IdentifierToken:
		return e.lookup(string(data), expr)
	}
	return nil, e.gap("", expr, "unsupported literal")
}

func (e *evaluator) lookup(name string, expr js.IExpr) (any, error) {
	if v, ok := e.symbols[name]; ok {
		return v, nil
	}
	switch name {
	case "undefined":
		return nil, nil
	case "NaN":
		return math.NaN(), nil
	case "Infinity":
		return math.Inf(1), nil
	}
	return nil, e.gap(name, expr, "")
}

func (e *evaluator) array(n *js.ArrayExpr) ([]any, error) {
	out := make([]any, 0, len(n.List))
	for i, el := range n.List {
		e.push(strconv.Itoa(i))
		v, err := e.eval(el.Value)
		e.pop()
		if err != nil {
			return nil, err
		}
		if !el.Spread {
			out = append(out, v)
			continue
		}
		items, ok := v.([]any)
		if !ok {
			return nil, e.gap("", el.Value, "spread of non-array value")
		}
		out = append(out, items...)
	}
	return out, nil
}

func (e *evaluator) object(n *js.ObjectExpr) (*Object, error) {
	obj := NewObject()
	for _, p := range n.List {
		if p.Spread {
			v, err := e.eval(p.Value)
			if err != nil {
				return nil, err
			}
			switch src := v.(type) {
			case nil:
			case *Object:
				for _, k := range src.keys {
					obj.Set(k, src.values[k])
				}
			default:
				return nil, e.gap("", p.Value, "spread of non-object value")
			}
			continue
		}

		key, err := e.propertyKey(p)
		if err != nil {
			return nil, err
		}

		e.push(key)
		v, err := e.eval(p.Value)
		e.pop()
		if err != nil {
			return nil, err
		}
		obj.Set(key, v)
	}
	return obj, nil
}

func (e *evaluator) propertyKey(p js.Property) (string, error) {
	if p.Name == nil {
		// Shorthand property: { name }
		if v, ok := p.Value.(*js.Var); ok {
			return string(v.Data), nil
		}
		return "", e.gap("", p.Value, "unsupported property")
	}
	if p.Name.Computed != nil {
		k, err := e.eval(p.Name.Computed)
		if err != nil {
			return "", err
		}
		return String(k), nil
	}

	data := p.Name.Literal.Data
	switch p.Name.Literal.TokenType {
	case js.StringToken:
		s, err := Unquote(string(data))
		if err != nil {
			return "", e.gap("", nil, err.Error())
		}
		return s, nil
	case js.DecimalToken, js.BinaryToken, js.OctalToken, js.HexadecimalToken:
		f, err := parseNumber(string(data))
		if err != nil {
			return "", e.gap("", nil, err.Error())
		}
		return formatNumber(f), nil
	}
	return string(data), nil
}

func (e *evaluator) template(n *js.TemplateExpr) (string, error) {
	if n.Tag != nil {
		return "", e.gap("", n, "tagged template")
	}
	var sb strings.Builder
	for _, part := range n.List {
		s, err := unescape(templateChunk(string(part.Value)))
		if err != nil {
			return "", e.gap("", n, err.Error())
		}
		sb.WriteString(s)

		v, err := e.eval(part.Expr)
		if err != nil {
			return "", err
		}
		sb.WriteString(String(v))
	}
	tail, err := unescape(templateChunk(string(n.Tail)))
	if err != nil {
		return "", e.gap("", n, err.Error())
	}
	sb.WriteString(tail)
	return sb.String(), nil
}

func (e *evaluator) unary(n *js.UnaryExpr) (any, error) {
	v, err := e.eval(n.X)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case js.NotToken:
		return !Truthy(v), nil
	case js.VoidToken:
		return nil, nil
	case js.NegToken, js.PosToken:
		f, ok := v.(float64)
		if !ok {
			return nil, e.gap("", n, "numeric operator on non-number")
		}
		if n.Op == js.NegToken {
			return -f, nil
		}
		return f, nil
	}
	return nil, e.gap("", n, "unsupported operator")
}

func (e *evaluator) binary(n *js.BinaryExpr) (any, error) {
	if n.Op != js.AddToken {
		return nil, e.gap("", n, "unsupported operator")
	}
	x, err := e.eval(n.X)
	if err != nil {
		return nil, err
	}
	y, err := e.eval(n.Y)
	if err != nil {
		return nil, err
	}

	xf, xNum := x.(float64)
	yf, yNum := y.(float64)
	if xNum && yNum {
		return xf + yf, nil
	}
	_, xStr := x.(string)
	_, yStr := y.(string)
	if xStr || yStr {
		return String(x) + String(y), nil
	}
	return nil, e.gap("", n, "addition of non-primitive values")
}

func (e *evaluator) push(key string) { e.path = append(e.path, key) }
func (e *evaluator) pop()            { e.path = e.path[:len(e.path)-1] }

func (e *evaluator) gap(name string, expr js.INode, reason string) *ExtractionGapError {
	err := &ExtractionGapError{
		Name:   name,
		Path:   strings.Join(e.path, "."),
		Reason: reason,
	}
	if expr != nil {
		err.Expr = expr.String()
	}
	return err
}

// isFunction reports whether n is a function-valued expression.
func isFunction(n any) bool {
	switch n.(type) {
	case *js.ArrowFunc, *js.FuncDecl, *js.MethodDecl, *js.ClassDecl:
		return true
	}
	return false
}

// MemberName returns the property name of a member access such as
// program.command.
func MemberName(d *js.DotExpr) (string, bool) {
	switch y := any(d.Y).(type) {
	case *js.LiteralExpr:
		return string(y.Data), true
	case js.LiteralExpr:
		return string(y.Data), true
	}
	return "", false
}

// dottedName flattens a chain of identifiers and member accesses into
// "a.b.c".
func dottedName(expr js.IExpr) (string, bool) {
	switch n := expr.(type) {
	case *js.Var:
		return string(n.Data), true
	case *js.DotExpr:
		prefix, ok := dottedName(n.X)
		if !ok {
			return "", false
		}
		name, ok := MemberName(n)
		if !ok {
			return "", false
		}
		return prefix + "." + name, true
	}
	return "", false
}

func parseNumber(s string) (float64, error) {
	s = strings.ReplaceAll(s, "_", "")
	if len(s) > 1 && s[0] == '0' {
		switch s[1] {
		case 'x', 'X', 'b', 'B', 'o', 'O':
			n, err := strconv.ParseUint(s, 0, 64)
			if err != nil {
				return 0, fmt.Errorf("invalid number %s", s)
			}
			return float64(n), nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %s", s)
	}
	return f, nil
}
