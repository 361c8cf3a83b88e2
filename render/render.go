// Package render turns command option schemas into TypeScript interface
// declarations.
package render

import (
	"fmt"
	"strings"

	"github.com/mitchellh/go-wordwrap"

	"github.com/lex00/webext-types/literal"
	"github.com/lex00/webext-types/schema"
)

// WrapWidth is the column at which descriptions are wrapped.
const WrapWidth = 79

const indent = "  "

// Renderer renders CommandSpecs with a fixed set of type overrides and
// preferred aliases.
type Renderer struct {
	overrides schema.TypeOverrides
	preferred schema.PreferredAliases
}

// New creates a Renderer. Both arguments may be nil.
func New(overrides schema.TypeOverrides, preferred schema.PreferredAliases) *Renderer {
	return &Renderer{overrides: overrides, preferred: preferred}
}

// Render renders every spec in order, separating interfaces with one blank
// line. The result ends with a single newline.
func (r *Renderer) Render(specs []*schema.CommandSpec) (string, error) {
	blocks := make([]string, 0, len(specs))
	for _, spec := range specs {
		block, err := r.RenderInterface(spec)
		if err != nil {
			return "", err
		}
		blocks = append(blocks, block)
	}
	return strings.Join(blocks, "\n\n") + "\n", nil
}

// RenderInterface renders one "export interface <Command>Options" block
// without a trailing newline.
func (r *Renderer) RenderInterface(spec *schema.CommandSpec) (string, error) {
	var body strings.Builder
	for _, opt := range spec.Options {
		if err := r.writeOption(&body, spec.Name, opt); err != nil {
			return "", fmt.Errorf("render %s/%s: %w", spec.Name, opt.Name, err)
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "export interface %s {\n", InterfaceName(spec.Name))
	if content := strings.TrimRight(body.String(), " \t\r\n"); content != "" {
		for _, line := range strings.Split(content, "\n") {
			if line != "" {
				sb.WriteString(indent)
				sb.WriteString(line)
			}
			sb.WriteByte('\n')
		}
	}
	sb.WriteString("}")
	return sb.String(), nil
}

func (r *Renderer) writeOption(b *strings.Builder, command string, opt schema.OptionDescriptor) error {
	if opt.Describe != "" || opt.HasDefault {
		b.WriteString("/**\n")
		if opt.Describe != "" {
			for _, line := range WrapDescription(opt.Describe) {
				b.WriteString(strings.TrimRight(" * "+line, " \t"))
				b.WriteByte('\n')
			}
		}
		if opt.HasDefault {
			def, err := literal.JSON(opt.Default)
			if err != nil {
				return err
			}
			if def == "" {
				// JSON.stringify of a function is undefined.
				def = "undefined"
			}
			if opt.Describe != "" {
				b.WriteString(" *\n")
			}
			b.WriteString(" * @default ")
			b.WriteString(def)
			b.WriteByte('\n')
		}
		b.WriteString(" */\n")
	}

	marker := "?"
	if Required(opt) {
		marker = ""
	}
	fmt.Fprintf(b, "%s%s: %s\n", r.PropertyName(opt), marker, r.PropertyType(command, opt))
	return nil
}

// InterfaceName returns the interface name for a command, e.g. "RunOptions".
func InterfaceName(command string) string {
	return Pascal(command) + "Options"
}

// PropertyKey returns the upstream key the property is named after: the first
// alias in the preferred set, else the canonical option name.
func (r *Renderer) PropertyKey(opt schema.OptionDescriptor) string {
	for _, alias := range opt.Aliases {
		if r.preferred.Has(alias) {
			return alias
		}
	}
	return opt.Name
}

// PropertyName returns the emitted property identifier.
func (r *Renderer) PropertyName(opt schema.OptionDescriptor) string {
	return Camel(r.PropertyKey(opt))
}

// PropertyType returns the emitted type, including the undefined union for
// options that are not mandatory.
func (r *Renderer) PropertyType(command string, opt schema.OptionDescriptor) string {
	t := r.BaseType(command, opt)
	if !opt.DemandOption {
		t += " | undefined"
	}
	return t
}

// BaseType resolves the type without the undefined union. Overrides are
// keyed by the canonical option name.
func (r *Renderer) BaseType(command string, opt schema.OptionDescriptor) string {
	if t, ok := r.overrides.Lookup(command, opt.Name); ok {
		return t
	}
	switch opt.Type {
	case schema.TypeArray:
		if len(opt.Choices) == 0 {
			return "string[]"
		}
		quoted := make([]string, len(opt.Choices))
		for i, c := range opt.Choices {
			quoted[i] = quote(c)
		}
		return "(" + strings.Join(quoted, " | ") + ")[]"
	case "":
		return "unknown"
	default:
		return opt.Type
	}
}

// Required reports whether the property is emitted without the optional
// marker.
func Required(opt schema.OptionDescriptor) bool {
	return opt.DemandOption || opt.HasDefault
}

// WrapDescription splits a description into comment lines of at most
// WrapWidth characters, breaking only at whitespace. Words longer than the
// width are kept whole on their own line.
func WrapDescription(s string) []string {
	return strings.Split(wordwrap.WrapString(s, WrapWidth), "\n")
}

func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "'", `\'`)
	return "'" + s + "'"
}
