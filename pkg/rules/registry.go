package rules

import (
	"sync"

	"github.com/arthur-debert/rulekit/pkg/errors"
	"github.com/arthur-debert/rulekit/pkg/lifecycle"
	"github.com/arthur-debert/rulekit/pkg/logging"
	"github.com/arthur-debert/rulekit/pkg/pattern"
	"github.com/rs/zerolog"
)

// compiledRule pairs a rule with its compiled output pattern
type compiledRule struct {
	rule    Rule
	pattern *pattern.Pattern
}

// Registry holds rules in declaration order. The first rule whose
// output pattern matches a target wins.
type Registry struct {
	mu      sync.RWMutex
	ordered []compiledRule
	byName  map[string]int
	logger  zerolog.Logger
}

// NewRegistry creates an empty rule registry
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]int),
		logger: logging.GetLogger("rules.registry"),
	}
}

// Add validates a rule, compiles its output pattern, and appends it.
// A malformed pattern is fatal at registration and rejects the rule.
func (r *Registry) Add(rule Rule) error {
	if rule.Name == "" {
		return errors.New(errors.ErrRuleInvalid, "rule has empty name")
	}
	if rule.Target == "" {
		return errors.Newf(errors.ErrRuleInvalid, "rule %q has empty target pattern", rule.Name)
	}
	if rule.Command == "" {
		return errors.Newf(errors.ErrRuleInvalid, "rule %q has empty command template", rule.Name)
	}
	if rule.Retention == "" {
		rule.Retention = lifecycle.Persistent
	}

	compiled, err := pattern.Compile(rule.Target)
	if err != nil {
		return err
	}

	// A param shadowing a wildcard would make placeholder resolution
	// ambiguous
	for _, wildcard := range compiled.Wildcards() {
		if _, clash := rule.Params[wildcard]; clash {
			return errors.Newf(errors.ErrRuleInvalid,
				"rule %q: param %q collides with a target wildcard", rule.Name, wildcard).
				WithDetail("rule", rule.Name).
				WithDetail("name", wildcard)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[rule.Name]; exists {
		return errors.Newf(errors.ErrAlreadyExists, "rule %q is already registered", rule.Name)
	}

	r.byName[rule.Name] = len(r.ordered)
	r.ordered = append(r.ordered, compiledRule{rule: rule, pattern: compiled})

	r.logger.Debug().
		Str("rule", rule.Name).
		Str("target", rule.Target).
		Str("retention", string(rule.Retention)).
		Msg("Registered rule")

	return nil
}

// Get retrieves a rule by name
func (r *Registry) Get(name string) (Rule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx, ok := r.byName[name]
	if !ok {
		return Rule{}, errors.Newf(errors.ErrNotFound, "rule %q not found", name)
	}
	return r.ordered[idx].rule, nil
}

// Names returns rule names in declaration order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.ordered))
	for i, c := range r.ordered {
		names[i] = c.rule.Name
	}
	return names
}

// Len returns the number of registered rules
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.ordered)
}

// match finds the first rule whose output pattern matches target
func (r *Registry) match(target string) (compiledRule, pattern.Binding, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.ordered {
		if binding, ok := c.pattern.Match(target); ok {
			return c, binding, true
		}
	}
	return compiledRule{}, nil, false
}
