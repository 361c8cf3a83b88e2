// Package schema holds the option descriptors recovered from an upstream
// command registration.
package schema

import (
	"fmt"

	"github.com/lex00/webext-types/literal"
)

// Declared option types the renderer understands without an override.
const (
	TypeString  = "string"
	TypeBoolean = "boolean"
	TypeArray   = "array"
	TypeNumber  = "number"
)

// OptionDescriptor is one CLI option as declared upstream.
type OptionDescriptor struct {
	// Name is the canonical option key.
	Name string
	// Type is the declared type token, empty when undeclared.
	Type string
	// Choices lists the allowed values in declaration order, nil when absent.
	Choices []string
	// Default is the declared default. Only meaningful when HasDefault is set.
	Default any
	// HasDefault is true when a default other than null or undefined is declared.
	HasDefault bool
	// Describe is the human-readable description.
	Describe string
	// Aliases lists alternate names in declaration order.
	Aliases []string
	// DemandOption marks the option as mandatory.
	DemandOption bool
}

// CommandSpec is the option schema of one target subcommand.
type CommandSpec struct {
	Name    string
	Options []OptionDescriptor
	// Found is false when no registration for the command was located.
	Found bool
}

// Option returns the descriptor with the given canonical name.
func (c *CommandSpec) Option(name string) (OptionDescriptor, bool) {
	for _, opt := range c.Options {
		if opt.Name == name {
			return opt, true
		}
	}
	return OptionDescriptor{}, false
}

// TypeOverrides maps "<command>/<optionKey>" to a literal type expression.
type TypeOverrides map[string]string

// Key builds the lookup key for a command option.
func (TypeOverrides) Key(command, option string) string {
	return command + "/" + option
}

// Lookup returns the override for a command option.
func (o TypeOverrides) Lookup(command, option string) (string, bool) {
	t, ok := o[o.Key(command, option)]
	return t, ok
}

// PreferredAliases is the set of alias names emitted in place of the
// canonical option key.
type PreferredAliases map[string]bool

// NewPreferredAliases builds a set from a list of names.
func NewPreferredAliases(names ...string) PreferredAliases {
	set := make(PreferredAliases, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}

// Has reports whether name is preferred.
func (p PreferredAliases) Has(name string) bool {
	return p[name]
}

// Missing returns the spec for a command with no matching registration.
func Missing(name string) *CommandSpec {
	return &CommandSpec{Name: name}
}

// DecodeCommand converts the evaluated options literal of a registration
// into a CommandSpec. Option order follows the literal's key order.
func DecodeCommand(name string, value any) (*CommandSpec, error) {
	obj, ok := value.(*literal.Object)
	if !ok {
		return nil, fmt.Errorf("command %q: options must be an object, got %s", name, literal.TypeName(value))
	}

	spec := &CommandSpec{Name: name, Found: true, Options: make([]OptionDescriptor, 0, obj.Len())}
	for _, key := range obj.Keys() {
		v, _ := obj.Get(key)
		opt, err := DecodeOption(key, v)
		if err != nil {
			return nil, fmt.Errorf("command %q: %w", name, err)
		}
		spec.Options = append(spec.Options, opt)
	}
	return spec, nil
}

// DecodeOption converts one evaluated option descriptor object.
func DecodeOption(name string, value any) (OptionDescriptor, error) {
	obj, ok := value.(*literal.Object)
	if !ok {
		return OptionDescriptor{}, fmt.Errorf("option %q: descriptor must be an object, got %s", name, literal.TypeName(value))
	}

	opt := OptionDescriptor{Name: name}

	if v, ok := obj.Get("type"); ok && v != nil {
		opt.Type = literal.String(v)
	}

	// yargs accepts description and desc as synonyms of describe.
	for _, field := range []string{"describe", "description", "desc"} {
		if v, ok := obj.Get(field); ok && v != nil {
			opt.Describe = literal.String(v)
			break
		}
	}

	if v, ok := obj.Get("default"); ok && v != nil {
		opt.Default = v
		opt.HasDefault = true
	}

	if v, ok := obj.Get("demandOption"); ok {
		opt.DemandOption = literal.Truthy(v)
	}

	if v, ok := obj.Get("alias"); ok {
		opt.Aliases = stringList(v)
	}

	if v, ok := obj.Get("choices"); ok && v != nil {
		opt.Choices = stringList(v)
	}

	return opt, nil
}

// stringList normalises a single value or an array of values to strings.
func stringList(v any) []string {
	switch v := v.(type) {
	case nil:
		return nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, literal.String(item))
		}
		return out
	default:
		return []string{literal.String(v)}
	}
}
