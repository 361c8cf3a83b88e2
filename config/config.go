// Package config holds the generation settings: which upstream file to read,
// which commands to extract and how to render them.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lex00/webext-types/fetch"
	"github.com/lex00/webext-types/literal"
	"github.com/lex00/webext-types/schema"
)

// ConfigFilename is the standard name for configuration files.
const ConfigFilename = "webext-types.yaml"

// Config represents the generation configuration.
type Config struct {
	Source SourceConfig `yaml:"source"`
	// Commands lists the subcommands to extract, in output order.
	Commands []string `yaml:"commands"`
	// Constants resolves upstream identifiers the option literals reference.
	Constants map[string]any `yaml:"constants,omitempty"`
	// TypeOverrides maps "<command>/<option>" to a TypeScript type.
	TypeOverrides map[string]string `yaml:"typeOverrides,omitempty"`
	// PreferredAliases are emitted as property names instead of the canonical key.
	PreferredAliases []string   `yaml:"preferredAliases,omitempty"`
	Lint             LintConfig `yaml:"lint,omitempty"`
}

// SourceConfig locates the upstream file.
type SourceConfig struct {
	// URL is a template containing {version}.
	URL string `yaml:"url"`
	// Filename names the source in error messages and debug artifacts.
	Filename string `yaml:"filename,omitempty"`
}

// LintConfig represents schema check configuration.
type LintConfig struct {
	Disabled []string `yaml:"disabled,omitempty"`
}

// Default returns the built-in configuration for web-ext.
func Default() *Config {
	return &Config{
		Source: SourceConfig{
			URL:      fetch.DefaultURLTemplate,
			Filename: "program.js",
		},
		Commands: []string{"run", "build", "sign"},
		Constants: map[string]any{
			"AMO_BASE_URL": "https://addons.mozilla.org/api/v5/",
		},
		TypeOverrides: map[string]string{
			"sign/channel": "'listed' | 'unlisted'",
		},
		PreferredAliases: []string{"firefox-binary"},
	}
}

// LoadConfigFile loads from a specific path. Values in the file overlay the
// defaults: lists replace, maps merge key by key.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration over the defaults and validates it.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Find walks up from startDir looking for ConfigFilename. It returns an
// empty path when none exists.
func Find(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ConfigFilename)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// Load reads path when given, otherwise the nearest ConfigFilename above
// the working directory, otherwise the defaults. It returns the path used.
func Load(path string) (*Config, string, error) {
	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, "", fmt.Errorf("failed to get current directory: %w", err)
		}
		if path, err = Find(cwd); err != nil {
			return nil, "", err
		}
		if path == "" {
			return Default(), "", nil
		}
	}
	cfg, err := LoadConfigFile(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// Validate checks the configuration for values the pipeline cannot use.
func (c *Config) Validate() error {
	if len(c.Commands) == 0 {
		return fmt.Errorf("config: at least one command is required")
	}
	seen := make(map[string]bool, len(c.Commands))
	for _, cmd := range c.Commands {
		if strings.TrimSpace(cmd) == "" {
			return fmt.Errorf("config: empty command name")
		}
		if seen[cmd] {
			return fmt.Errorf("config: duplicate command %q", cmd)
		}
		seen[cmd] = true
	}
	if !strings.Contains(c.Source.URL, fetch.VersionPlaceholder) {
		return fmt.Errorf("config: source url %q has no %s placeholder", c.Source.URL, fetch.VersionPlaceholder)
	}
	for key := range c.TypeOverrides {
		cmd, option, ok := strings.Cut(key, "/")
		if !ok || cmd == "" || option == "" {
			return fmt.Errorf("config: type override key %q is not <command>/<option>", key)
		}
	}
	return nil
}

// Overrides returns the type overrides in schema form.
func (c *Config) Overrides() schema.TypeOverrides {
	return schema.TypeOverrides(c.TypeOverrides)
}

// Preferred returns the preferred alias set.
func (c *Config) Preferred() schema.PreferredAliases {
	return schema.NewPreferredAliases(c.PreferredAliases...)
}

// Symbols converts the configured constants into interpreter values.
func (c *Config) Symbols() (literal.Symbols, error) {
	symbols := make(literal.Symbols, len(c.Constants))
	for name, v := range c.Constants {
		converted, err := toLiteral(v)
		if err != nil {
			return nil, fmt.Errorf("config: constant %s: %w", name, err)
		}
		symbols[name] = converted
	}
	return symbols, nil
}

// toLiteral maps decoded YAML values onto the interpreter's value types.
func toLiteral(v any) (any, error) {
	switch v := v.(type) {
	case nil, bool, string, float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			conv, err := toLiteral(item)
			if err != nil {
				return nil, err
			}
			out[i] = conv
		}
		return out, nil
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		obj := literal.NewObject()
		for _, k := range keys {
			conv, err := toLiteral(v[k])
			if err != nil {
				return nil, err
			}
			obj.Set(k, conv)
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("unsupported value of type %T", v)
	}
}
