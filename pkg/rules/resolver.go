package rules

import (
	"sort"

	"github.com/arthur-debert/rulekit/pkg/config"
	"github.com/arthur-debert/rulekit/pkg/errors"
	"github.com/arthur-debert/rulekit/pkg/lifecycle"
	"github.com/arthur-debert/rulekit/pkg/logging"
	"github.com/arthur-debert/rulekit/pkg/template"
	"github.com/rs/zerolog"
)

// Resolver turns requested target paths into ResolvedActions. It is
// safe for concurrent use: the registry and store are read-only
// during resolution and the tracker serializes its own mutations.
type Resolver struct {
	registry *Registry
	store    *config.Store
	tracker  *lifecycle.Tracker
	logger   zerolog.Logger
}

// NewResolver creates a resolver over a registry, a sealed config
// store, and an output tracker. The store may be nil when no rule
// references config; the tracker may be nil when output lifecycle is
// not tracked.
func NewResolver(registry *Registry, store *config.Store, tracker *lifecycle.Tracker) *Resolver {
	return &Resolver{
		registry: registry,
		store:    store,
		tracker:  tracker,
		logger:   logging.GetLogger("rules.resolver"),
	}
}

// Resolve finds the first rule matching target, substitutes its
// templates, and registers the output's retention class with the
// tracker. Params render first, over the wildcard binding; inputs and
// the command then see wildcards and params alike. Fails with
// RULE_NOT_FOUND when no rule's pattern matches the target.
func (r *Resolver) Resolve(target string) (*ResolvedAction, error) {
	matched, binding, ok := r.registry.match(target)
	if !ok {
		return nil, errors.Newf(errors.ErrRuleNotFound,
			"no rule produces target %q", target).
			WithDetail("target", target)
	}
	rule := matched.rule

	r.logger.Debug().
		Str("rule", rule.Name).
		Str("target", target).
		Interface("binding", binding).
		Msg("Resolving target")

	values := make(map[string]string, len(binding)+len(rule.Params))
	for name, value := range binding {
		values[name] = value
	}

	params, err := r.renderParams(rule, values)
	if err != nil {
		return nil, err
	}
	for name, value := range params {
		values[name] = value
	}

	inputs := make([]string, 0, len(rule.Inputs))
	for _, inputTmpl := range rule.Inputs {
		input, err := template.Render(inputTmpl, values, r.store)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, input)
	}

	command, err := template.Render(rule.Command, values, r.store)
	if err != nil {
		return nil, err
	}

	if r.tracker != nil {
		if err := r.tracker.Register(target, rule.Retention); err != nil {
			return nil, err
		}
	}

	return &ResolvedAction{
		Rule:      rule.Name,
		Output:    target,
		Inputs:    inputs,
		Params:    params,
		Command:   command,
		Binding:   binding,
		Retention: rule.Retention,
	}, nil
}

// renderParams substitutes every param template over the wildcard
// binding. Params render in sorted name order so failures are
// reported deterministically.
func (r *Resolver) renderParams(rule Rule, binding map[string]string) (map[string]string, error) {
	params := make(map[string]string, len(rule.Params))

	names := make([]string, 0, len(rule.Params))
	for name := range rule.Params {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		value, err := template.Render(rule.Params[name], binding, r.store)
		if err != nil {
			return nil, err
		}
		params[name] = value
	}
	return params, nil
}
