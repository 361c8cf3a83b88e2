package lint

import (
	"sort"
	"sync"

	"github.com/lex00/webext-types/render"
	"github.com/lex00/webext-types/schema"
)

// Target is what a rule inspects: one command schema together with the
// rendering configuration it will be emitted with.
type Target struct {
	Spec      *schema.CommandSpec
	Overrides schema.TypeOverrides
	Renderer  *render.Renderer
}

// Rule defines the interface for lint rules.
type Rule interface {
	// ID returns the unique identifier for this rule (e.g., "WEXT001").
	ID() string
	// Description returns a brief description of what the rule checks.
	Description() string
	// Check analyzes the target and returns any issues found.
	Check(t Target) []Issue
}

// RuleRegistry maintains a collection of rules.
type RuleRegistry struct {
	mu    sync.RWMutex
	rules map[string]Rule
}

// NewRuleRegistry creates a new empty rule registry.
func NewRuleRegistry() *RuleRegistry {
	return &RuleRegistry{
		rules: make(map[string]Rule),
	}
}

// DefaultRegistry returns a registry holding the built-in rules.
func DefaultRegistry() *RuleRegistry {
	r := NewRuleRegistry()
	r.Register(UnknownTypeRule{})
	r.Register(IgnoredChoicesRule{})
	r.Register(DuplicatePropertyRule{})
	r.Register(StaleOverrideRule{})
	return r
}

// Register adds a rule to the registry.
// If a rule with the same ID already exists, it will be replaced.
func (r *RuleRegistry) Register(rule Rule) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules[rule.ID()] = rule
}

// Get returns the rule with the given ID, or nil if not found.
func (r *RuleRegistry) Get(id string) Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rules[id]
}

// All returns all registered rules sorted by ID.
func (r *RuleRegistry) All() []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rules := make([]Rule, 0, len(r.rules))
	for _, rule := range r.rules {
		rules = append(rules, rule)
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].ID() < rules[j].ID() })
	return rules
}

// IDs returns all registered rule IDs in sorted order.
func (r *RuleRegistry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.rules))
	for id := range r.rules {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
