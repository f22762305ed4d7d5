// Package template renders placeholder-templated strings for rule
// resolution. Placeholders come in two kinds: `{name}` resolved from
// a value set (wildcard bindings and rule params), and
// `{cfg:dotted.path}` resolved from the configuration store. `{{` and
// `}}` escape to literal braces. Resolution is single-pass and
// non-recursive: substituted content is never re-scanned.
package template

import (
	"strings"

	"github.com/arthur-debert/rulekit/pkg/config"
	"github.com/arthur-debert/rulekit/pkg/errors"
)

// configPrefix marks a placeholder resolved from the config store
const configPrefix = "cfg:"

// Render substitutes every placeholder in tmpl. A token naming a
// value not present in values, or a config path absent from store,
// fails with a PLACEHOLDER_UNRESOLVED error carrying the offending
// placeholder and template. Silent empty substitution is never an
// option: a malformed command is worse than a loud failure.
func Render(tmpl string, values map[string]string, store *config.Store) (string, error) {
	var out strings.Builder

	for i := 0; i < len(tmpl); {
		switch tmpl[i] {
		case '{':
			if i+1 < len(tmpl) && tmpl[i+1] == '{' {
				out.WriteByte('{')
				i += 2
				continue
			}
			end := strings.IndexByte(tmpl[i:], '}')
			if end < 0 {
				return "", unresolvedErr(tmpl, tmpl[i:], "unbalanced '{'")
			}
			end += i
			token := tmpl[i+1 : end]

			value, err := resolveToken(tmpl, token, values, store)
			if err != nil {
				return "", err
			}
			out.WriteString(value)
			i = end + 1
		case '}':
			if i+1 < len(tmpl) && tmpl[i+1] == '}' {
				out.WriteByte('}')
				i += 2
				continue
			}
			return "", unresolvedErr(tmpl, "}", "unbalanced '}'")
		default:
			out.WriteByte(tmpl[i])
			i++
		}
	}

	return out.String(), nil
}

func resolveToken(tmpl, token string, values map[string]string, store *config.Store) (string, error) {
	if path, isConfig := strings.CutPrefix(token, configPrefix); isConfig {
		if store == nil {
			return "", unresolvedErr(tmpl, token, "no config store supplied")
		}
		value, err := store.String(path)
		if err != nil {
			return "", errors.Wrapf(err, errors.ErrPlaceholder,
				"unresolved config placeholder %q in template %q", token, tmpl).
				WithDetail("placeholder", token).
				WithDetail("template", tmpl)
		}
		return value, nil
	}

	if token == "" {
		return "", unresolvedErr(tmpl, token, "empty placeholder")
	}
	value, ok := values[token]
	if !ok {
		return "", unresolvedErr(tmpl, token, "no such wildcard or param")
	}
	return value, nil
}

func unresolvedErr(tmpl, token, reason string) *errors.RulekitError {
	return errors.Newf(errors.ErrPlaceholder,
		"unresolved placeholder %q in template %q (%s)", token, tmpl, reason).
		WithDetail("placeholder", token).
		WithDetail("template", tmpl)
}
