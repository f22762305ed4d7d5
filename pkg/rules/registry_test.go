// pkg/rules/registry_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test rule validation, registration order, and lookup

package rules_test

import (
	"testing"

	"github.com/arthur-debert/rulekit/pkg/errors"
	"github.com/arthur-debert/rulekit/pkg/lifecycle"
	"github.com/arthur-debert/rulekit/pkg/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdd(t *testing.T) {
	reg := rules.NewRegistry()

	err := reg.Add(rules.Rule{
		Name:    "copy",
		Target:  "{prefix}.out.copy",
		Inputs:  []string{"{prefix}.out"},
		Command: "cp {prefix}.out {prefix}.out.copy",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, reg.Len())

	rule, err := reg.Get("copy")
	require.NoError(t, err)
	// Retention defaults to persistent
	assert.Equal(t, lifecycle.Persistent, rule.Retention)
}

func TestAddValidation(t *testing.T) {
	tests := []struct {
		name     string
		rule     rules.Rule
		wantCode errors.ErrorCode
	}{
		{
			name:     "empty_name",
			rule:     rules.Rule{Target: "{p}.out", Command: "true"},
			wantCode: errors.ErrRuleInvalid,
		},
		{
			name:     "empty_target",
			rule:     rules.Rule{Name: "r", Command: "true"},
			wantCode: errors.ErrRuleInvalid,
		},
		{
			name:     "empty_command",
			rule:     rules.Rule{Name: "r", Target: "{p}.out"},
			wantCode: errors.ErrRuleInvalid,
		},
		{
			name: "malformed_pattern_rejected_at_registration",
			rule: rules.Rule{Name: "r", Target: "{p.out", Command: "true"},
			// detected at registration, rejects the rule
			wantCode: errors.ErrPatternSyntax,
		},
		{
			name: "param_shadows_wildcard",
			rule: rules.Rule{
				Name:    "r",
				Target:  "{prefix}.out",
				Params:  map[string]string{"prefix": "x"},
				Command: "true",
			},
			wantCode: errors.ErrRuleInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := rules.NewRegistry()
			err := reg.Add(tt.rule)
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, tt.wantCode),
				"want %s, got %v", tt.wantCode, err)
			assert.Equal(t, 0, reg.Len())
		})
	}
}

func TestAddDuplicateName(t *testing.T) {
	reg := rules.NewRegistry()
	rule := rules.Rule{Name: "copy", Target: "{p}.out.copy", Command: "true"}

	require.NoError(t, reg.Add(rule))
	err := reg.Add(rule)
	assert.True(t, errors.IsErrorCode(err, errors.ErrAlreadyExists))
}

func TestNamesKeepDeclarationOrder(t *testing.T) {
	reg := rules.NewRegistry()
	require.NoError(t, reg.Add(rules.Rule{Name: "zeta", Target: "{p}.z", Command: "true"}))
	require.NoError(t, reg.Add(rules.Rule{Name: "alpha", Target: "{p}.a", Command: "true"}))

	assert.Equal(t, []string{"zeta", "alpha"}, reg.Names())
}

func TestGetMissing(t *testing.T) {
	reg := rules.NewRegistry()
	_, err := reg.Get("ghost")
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
}
