package rules

import (
	"github.com/arthur-debert/rulekit/pkg/lifecycle"
	"github.com/arthur-debert/rulekit/pkg/pattern"
)

// Rule is the declarative unit binding an output pattern, inputs,
// parameters, and an action template together. Immutable once added
// to a registry.
type Rule struct {
	// Name identifies the rule; unique within a registry
	Name string

	// Target is the wildcard pattern for the rule's primary output,
	// e.g. "{prefix}.out.copy"
	Target string

	// Inputs are path templates rendered per invocation
	Inputs []string

	// Params maps parameter names to value templates; params may
	// reference wildcards and config, and are available to Inputs
	// and Command by name
	Params map[string]string

	// Command is the action template handed to the executor after
	// substitution
	Command string

	// Retention classifies the output; empty means persistent
	Retention lifecycle.Retention
}

// ResolvedAction is a fully substituted action ready for execution.
// Created per invocation; owned solely by the executor that consumes
// it.
type ResolvedAction struct {
	// Rule is the name of the rule that produced this action
	Rule string

	// Output is the concrete output path (the requested target)
	Output string

	// Inputs are the concrete input paths, in declaration order
	Inputs []string

	// Params are the concrete parameter values
	Params map[string]string

	// Command is the literal command string with all placeholders
	// resolved
	Command string

	// Binding holds the wildcard values the target matched with
	Binding pattern.Binding

	// Retention is the output's retention class
	Retention lifecycle.Retention
}
