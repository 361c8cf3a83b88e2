package lint

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lex00/webext-types/schema"
)

// knownTypes are the declared types that map onto a TypeScript type.
var knownTypes = map[string]bool{
	schema.TypeString:  true,
	schema.TypeBoolean: true,
	schema.TypeArray:   true,
	schema.TypeNumber:  true,
}

// UnknownTypeRule flags declared types that would be emitted verbatim but
// are not TypeScript types, such as yargs' "count".
type UnknownTypeRule struct{}

func (UnknownTypeRule) ID() string { return "WEXT001" }

func (UnknownTypeRule) Description() string {
	return "option type has no TypeScript equivalent"
}

func (r UnknownTypeRule) Check(t Target) []Issue {
	var issues []Issue
	for _, opt := range t.Spec.Options {
		if _, ok := t.Overrides.Lookup(t.Spec.Name, opt.Name); ok {
			continue
		}
		if opt.Type == "" || knownTypes[opt.Type] {
			continue
		}
		issues = append(issues, Issue{
			Rule:       r.ID(),
			Option:     opt.Name,
			Severity:   SeverityWarning,
			Message:    fmt.Sprintf("type %q is emitted verbatim", opt.Type),
			Suggestion: fmt.Sprintf("add a type override for %s", t.Overrides.Key(t.Spec.Name, opt.Name)),
		})
	}
	return issues
}

// IgnoredChoicesRule flags choices on options whose type does not use them.
type IgnoredChoicesRule struct{}

func (IgnoredChoicesRule) ID() string { return "WEXT002" }

func (IgnoredChoicesRule) Description() string {
	return "choices only narrow array options"
}

func (r IgnoredChoicesRule) Check(t Target) []Issue {
	var issues []Issue
	for _, opt := range t.Spec.Options {
		if len(opt.Choices) == 0 || opt.Type == schema.TypeArray {
			continue
		}
		if _, ok := t.Overrides.Lookup(t.Spec.Name, opt.Name); ok {
			continue
		}
		issues = append(issues, Issue{
			Rule:       r.ID(),
			Option:     opt.Name,
			Severity:   SeverityInfo,
			Message:    fmt.Sprintf("choices %s are not reflected in type %q", strings.Join(opt.Choices, ", "), opt.Type),
			Suggestion: fmt.Sprintf("add a type override for %s", t.Overrides.Key(t.Spec.Name, opt.Name)),
		})
	}
	return issues
}

// DuplicatePropertyRule flags options that render to the same property name.
type DuplicatePropertyRule struct{}

func (DuplicatePropertyRule) ID() string { return "WEXT003" }

func (DuplicatePropertyRule) Description() string {
	return "two options emit the same property"
}

func (r DuplicatePropertyRule) Check(t Target) []Issue {
	if t.Renderer == nil {
		return nil
	}
	seen := make(map[string]string)
	var issues []Issue
	for _, opt := range t.Spec.Options {
		name := t.Renderer.PropertyName(opt)
		if first, ok := seen[name]; ok {
			issues = append(issues, Issue{
				Rule:     r.ID(),
				Option:   opt.Name,
				Severity: SeverityError,
				Message:  fmt.Sprintf("property %q is also emitted for option %q", name, first),
			})
			continue
		}
		seen[name] = opt.Name
	}
	return issues
}

// StaleOverrideRule flags type overrides naming options the command no
// longer declares.
type StaleOverrideRule struct{}

func (StaleOverrideRule) ID() string { return "WEXT004" }

func (StaleOverrideRule) Description() string {
	return "type override targets a missing option"
}

func (r StaleOverrideRule) Check(t Target) []Issue {
	if !t.Spec.Found {
		return nil
	}
	prefix := t.Spec.Name + "/"
	var keys []string
	for key := range t.Overrides {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	var issues []Issue
	for _, key := range keys {
		option := strings.TrimPrefix(key, prefix)
		if _, ok := t.Spec.Option(option); ok {
			continue
		}
		issues = append(issues, Issue{
			Rule:     r.ID(),
			Option:   option,
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("override %s matches no option", key),
		})
	}
	return issues
}
