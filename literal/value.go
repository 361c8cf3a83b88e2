// Package literal evaluates JavaScript literal expressions into Go values
// without executing any code.
//
// Evaluated values are nil (null and undefined), bool, float64, string,
// []any, *Object and Function.
package literal

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// Object is a JavaScript object value that remembers key insertion order.
type Object struct {
	keys   []string
	values map[string]any
}

// NewObject creates an empty Object.
func NewObject() *Object {
	return &Object{values: make(map[string]any)}
}

// Set assigns a property. Reassigning an existing key keeps its original
// position, as JavaScript does.
func (o *Object) Set(key string, value any) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (any, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Keys returns property names in insertion order.
func (o *Object) Keys() []string {
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

// Len returns the number of properties.
func (o *Object) Len() int {
	return len(o.keys)
}

// MarshalJSON encodes the object with keys in insertion order.
func (o *Object) MarshalJSON() ([]byte, error) {
	s, err := JSON(o)
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}

// Function stands in for a function or arrow expression. Its body is never
// evaluated.
type Function struct {
	Source string
}

// Truthy reports JavaScript truthiness of an evaluated value.
func Truthy(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	case float64:
		return v != 0 && !math.IsNaN(v)
	case string:
		return v != ""
	default:
		return true
	}
}

// String converts a value the way JavaScript's String() does for the
// primitive cases.
func String(v any) string {
	switch v := v.(type) {
	case nil:
		return "undefined"
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return formatNumber(v)
	case string:
		return v
	case []any:
		var buf bytes.Buffer
		for i, item := range v {
			if i > 0 {
				buf.WriteByte(',')
			}
			if item != nil {
				buf.WriteString(String(item))
			}
		}
		return buf.String()
	case *Object:
		return "[object Object]"
	case Function:
		return v.Source
	default:
		return ""
	}
}

// TypeName returns the JavaScript typeof name of a value.
func TypeName(v any) string {
	switch v.(type) {
	case nil:
		return "undefined"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return "string"
	case Function:
		return "function"
	default:
		return "object"
	}
}

func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == math.Trunc(f) && math.Abs(f) < 1e21:
		return strconv.FormatFloat(f, 'f', -1, 64)
	default:
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
}

// JSON encodes a value like JSON.stringify without indentation: object
// keys keep insertion order, functions are dropped from objects and become
// null inside arrays, and HTML characters are not escaped.
func JSON(v any) (string, error) {
	var buf bytes.Buffer
	if err := encodeJSON(&buf, v, false); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func encodeJSON(buf *bytes.Buffer, v any, inArray bool) error {
	switch v := v.(type) {
	case nil:
		buf.WriteString("null")
	case bool:
		buf.WriteString(strconv.FormatBool(v))
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			buf.WriteString("null")
			return nil
		}
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		buf.Write(b)
	case string:
		return encodeString(buf, v)
	case []any:
		buf.WriteByte('[')
		for i, item := range v {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeJSON(buf, item, true); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case *Object:
		buf.WriteByte('{')
		first := true
		for _, key := range v.keys {
			item := v.values[key]
			if _, ok := item.(Function); ok {
				continue
			}
			if !first {
				buf.WriteByte(',')
			}
			first = false
			if err := encodeString(buf, key); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := encodeJSON(buf, item, false); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case Function:
		if inArray {
			buf.WriteString("null")
		}
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		buf.Write(b)
	}
	return nil
}

func encodeString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	buf.Write(bytes.TrimRight(tmp.Bytes(), "\n"))
	return nil
}
