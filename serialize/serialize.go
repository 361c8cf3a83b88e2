// Package serialize converts arbitrary Go values, such as syntax trees, into
// plain maps and serializes them to JSON/YAML with configurable naming
// conventions.
package serialize

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

// Option configures serialization behavior.
type Option func(*options)

type options struct {
	namingConvention func(string) string
	omitEmpty        bool
	typeKey          string
	skip             map[string]bool
}

// SnakeCase converts field names to snake_case (e.g., FirstName -> first_name).
var SnakeCase Option = func(o *options) {
	o.namingConvention = toSnakeCase
}

// CamelCase converts field names to camelCase (e.g., FirstName -> firstName).
var CamelCase Option = func(o *options) {
	o.namingConvention = toCamelCase
}

// PascalCase keeps field names as PascalCase (e.g., FirstName -> FirstName).
var PascalCase Option = func(o *options) {
	o.namingConvention = toPascalCase
}

// OmitEmpty omits fields with zero values from output.
var OmitEmpty Option = func(o *options) {
	o.omitEmpty = true
}

// TypeKey records each struct's Go type name under key.
func TypeKey(key string) Option {
	return func(o *options) {
		o.typeKey = key
	}
}

// SkipFields drops struct fields with the given Go names.
func SkipFields(names ...string) Option {
	return func(o *options) {
		for _, n := range names {
			o.skip[n] = true
		}
	}
}

func newOptions(opts []Option) *options {
	o := &options{
		namingConvention: toPascalCase, // default
		skip:             make(map[string]bool),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// ToMap converts a struct to a map with the given options.
func ToMap(v any, opts ...Option) map[string]any {
	o := newOptions(opts)
	return newConverter(o).structToMap(reflect.ValueOf(v))
}

// ToValue converts any value to a tree of maps, slices and scalars.
func ToValue(v any, opts ...Option) any {
	o := newOptions(opts)
	return newConverter(o).convertValue(reflect.ValueOf(v))
}

// ToYAML serializes a value to YAML bytes with the given options.
func ToYAML(v any, opts ...Option) ([]byte, error) {
	return yaml.Marshal(ToValue(v, opts...))
}

// ToJSON serializes a value to JSON bytes with the given options.
func ToJSON(v any, opts ...Option) ([]byte, error) {
	return json.Marshal(ToValue(v, opts...))
}

// ToJSONIndent serializes a value to two-space indented JSON.
func ToJSONIndent(v any, opts ...Option) ([]byte, error) {
	return json.MarshalIndent(ToValue(v, opts...), "", "  ")
}

// converter tracks the pointers on the current path so cyclic structures
// terminate.
type converter struct {
	o      *options
	active map[visit]bool
}

// visit identifies a pointer by address and type; a struct and its first
// field share an address.
type visit struct {
	ptr uintptr
	typ reflect.Type
}

func newConverter(o *options) *converter {
	return &converter{o: o, active: make(map[visit]bool)}
}

func (c *converter) structToMap(v reflect.Value) map[string]any {
	// Handle pointer
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil
		}
		key := visit{v.Pointer(), v.Type()}
		c.active[key] = true
		defer delete(c.active, key)
		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		return nil
	}

	result := make(map[string]any)
	t := v.Type()

	if c.o.typeKey != "" {
		result[c.o.typeKey] = t.Name()
	}

	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		fieldValue := v.Field(i)

		// Skip unexported fields
		if !field.IsExported() || c.o.skip[field.Name] {
			continue
		}

		// Check for zero value if omitEmpty is set
		if c.o.omitEmpty && isZeroValue(fieldValue) {
			continue
		}

		key := c.o.namingConvention(field.Name)
		result[key] = c.convertValue(fieldValue)
	}

	return result
}

func (c *converter) convertValue(v reflect.Value) any {
	if !v.IsValid() {
		return nil
	}

	switch v.Kind() {
	case reflect.Ptr:
		if v.IsNil() {
			return nil
		}
		key := visit{v.Pointer(), v.Type()}
		if c.active[key] {
			return fmt.Sprintf("<cycle %s>", v.Type().Elem().Name())
		}
		c.active[key] = true
		defer delete(c.active, key)
		return c.convertValue(v.Elem())
	case reflect.Struct:
		return c.structToMap(v)
	case reflect.Slice, reflect.Array:
		if v.Kind() == reflect.Slice && v.IsNil() {
			return nil
		}
		// Byte slices hold source text
		if v.Type().Elem().Kind() == reflect.Uint8 && v.Kind() == reflect.Slice {
			return string(v.Bytes())
		}
		// Return slice values directly for simple types
		if v.Type().Elem().Kind() == reflect.String {
			result := make([]string, v.Len())
			for i := 0; i < v.Len(); i++ {
				result[i] = v.Index(i).String()
			}
			return result
		}
		result := make([]any, v.Len())
		for i := 0; i < v.Len(); i++ {
			result[i] = c.convertValue(v.Index(i))
		}
		return result
	case reflect.Map:
		if v.IsNil() {
			return nil
		}
		result := make(map[string]any)
		for _, key := range v.MapKeys() {
			result[c.o.namingConvention(fmt.Sprint(key.Interface()))] = c.convertValue(v.MapIndex(key))
		}
		return result
	case reflect.Interface:
		if v.IsNil() {
			return nil
		}
		return c.convertValue(v.Elem())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		// Enumerations such as token types read better by name.
		if v.CanInterface() {
			if s, ok := v.Interface().(fmt.Stringer); ok {
				return s.String()
			}
		}
		return v.Interface()
	default:
		if !v.CanInterface() {
			return nil
		}
		return v.Interface()
	}
}

func isZeroValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return v.String() == ""
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	case reflect.Slice, reflect.Map:
		return v.IsNil() || v.Len() == 0
	case reflect.Array:
		return v.Len() == 0
	case reflect.Struct:
		return v.IsZero()
	default:
		return false
	}
}

// toSnakeCase converts PascalCase to snake_case.
// Handles consecutive capitals (e.g., "ID" -> "id", "APIKey" -> "api_key").
func toSnakeCase(s string) string {
	if len(s) == 0 {
		return s
	}

	runes := []rune(s)
	var result strings.Builder

	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 {
				prevLower := unicode.IsLower(runes[i-1])
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if prevLower || nextLower {
					result.WriteRune('_')
				}
			}
			result.WriteRune(unicode.ToLower(r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// toCamelCase converts PascalCase to camelCase.
func toCamelCase(s string) string {
	if len(s) == 0 {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}

// toPascalCase returns the string as-is (already PascalCase).
func toPascalCase(s string) string {
	return s
}
