// pkg/template/template_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test placeholder rendering from bindings and config

package template_test

import (
	"testing"

	"github.com/arthur-debert/rulekit/pkg/config"
	"github.com/arthur-debert/rulekit/pkg/errors"
	"github.com/arthur-debert/rulekit/pkg/template"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) *config.Store {
	t.Helper()
	store, err := config.NewStore(config.Tree{
		"cp": map[string]interface{}{
			"options": "-f",
		},
		"retries": 3,
	})
	require.NoError(t, err)
	return store
}

func TestRender(t *testing.T) {
	store := testStore(t)
	values := map[string]string{
		"prefix":  "report",
		"options": "-f",
	}

	tests := []struct {
		name string
		tmpl string
		want string
	}{
		{
			name: "command_template",
			tmpl: "cp {options} {prefix}.out {prefix}.out.copy",
			want: "cp -f report.out report.out.copy",
		},
		{
			name: "config_reference",
			tmpl: "cp {cfg:cp.options} {prefix}.out",
			want: "cp -f report.out",
		},
		{
			name: "numeric_config_value",
			tmpl: "retry {cfg:retries} times",
			want: "retry 3 times",
		},
		{
			name: "no_placeholders",
			tmpl: "make all",
			want: "make all",
		},
		{
			name: "escaped_braces",
			tmpl: "awk '{{print $1}}' {prefix}.out",
			want: "awk '{print $1}' report.out",
		},
		{
			name: "empty_template",
			tmpl: "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := template.Render(tt.tmpl, values, store)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderUnresolved(t *testing.T) {
	store := testStore(t)
	values := map[string]string{"prefix": "report"}

	tests := []struct {
		name            string
		tmpl            string
		wantPlaceholder string
	}{
		{name: "unknown_wildcard", tmpl: "cp {missing}.out", wantPlaceholder: "missing"},
		{name: "missing_config_path", tmpl: "cp {cfg:mv.options}", wantPlaceholder: "cfg:mv.options"},
		{name: "config_tree_not_scalar", tmpl: "cp {cfg:cp}", wantPlaceholder: "cfg:cp"},
		{name: "empty_placeholder", tmpl: "cp {} x", wantPlaceholder: ""},
		{name: "unbalanced_open", tmpl: "cp {prefix.out", wantPlaceholder: "{prefix.out"},
		{name: "unbalanced_close", tmpl: "cp prefix}.out", wantPlaceholder: "}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := template.Render(tt.tmpl, values, store)
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrPlaceholder),
				"want PLACEHOLDER_UNRESOLVED, got %v", err)
			assert.Empty(t, got, "no partial substitution on failure")

			details := errors.GetErrorDetails(err)
			assert.Equal(t, tt.wantPlaceholder, details["placeholder"])
			assert.Equal(t, tt.tmpl, details["template"])
		})
	}
}

func TestRenderMissingConfigWrapsConfigKey(t *testing.T) {
	store := testStore(t)

	_, err := template.Render("{cfg:mv.options}", nil, store)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrPlaceholder))
	// The underlying CONFIG_KEY failure stays reachable through the chain
	assert.Contains(t, err.Error(), "CONFIG_KEY")
}

func TestRenderNilStore(t *testing.T) {
	_, err := template.Render("{cfg:cp.options}", nil, nil)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrPlaceholder))

	// Templates without config references work without a store
	got, err := template.Render("{prefix}.out", map[string]string{"prefix": "report"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "report.out", got)
}

func TestRenderSinglePass(t *testing.T) {
	// A substituted value containing placeholder syntax is not re-scanned
	values := map[string]string{"a": "{b}", "b": "boom"}
	got, err := template.Render("x {a} y", values, nil)
	require.NoError(t, err)
	assert.Equal(t, "x {b} y", got)
}
