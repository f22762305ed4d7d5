package pattern

import (
	"regexp"
	"strings"

	"github.com/arthur-debert/rulekit/pkg/errors"
)

// defaultSlotExpr matches one or more non-separator characters,
// non-greedy so the leftmost slot gets the shortest sufficient match.
const defaultSlotExpr = `[^/]+?`

var slotNameRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Binding maps wildcard slot names to the strings they matched for
// one concrete target path.
type Binding map[string]string

// segment is one literal or wildcard piece of a compiled pattern
type segment struct {
	literal    string
	name       string // slot name, empty for literals
	constraint string // slot regexp constraint, empty for the default
}

// Pattern is a compiled wildcard rule pattern
type Pattern struct {
	source    string
	segments  []segment
	wildcards []string
	re        *regexp.Regexp
}

// Compile parses a pattern string into literal and wildcard segments.
// Fails with a PATTERN_SYNTAX error on unbalanced braces, malformed
// slot syntax, or duplicate wildcard names.
func Compile(source string) (*Pattern, error) {
	p := &Pattern{source: source}
	seen := make(map[string]bool)

	var literal strings.Builder
	for i := 0; i < len(source); {
		switch source[i] {
		case '{':
			end, err := findSlotEnd(source, i)
			if err != nil {
				return nil, err
			}
			name, constraint, err := parseSlot(source, source[i+1:end])
			if err != nil {
				return nil, err
			}
			if seen[name] {
				return nil, errors.Newf(errors.ErrPatternSyntax,
					"duplicate wildcard %q in pattern %q", name, source).
					WithDetail("pattern", source).
					WithDetail("wildcard", name)
			}
			seen[name] = true

			if literal.Len() > 0 {
				p.segments = append(p.segments, segment{literal: literal.String()})
				literal.Reset()
			}
			p.segments = append(p.segments, segment{name: name, constraint: constraint})
			p.wildcards = append(p.wildcards, name)
			i = end + 1
		case '}':
			return nil, errors.Newf(errors.ErrPatternSyntax,
				"unbalanced '}' in pattern %q", source).
				WithDetail("pattern", source)
		default:
			literal.WriteByte(source[i])
			i++
		}
	}
	if literal.Len() > 0 {
		p.segments = append(p.segments, segment{literal: literal.String()})
	}

	re, err := p.compileRegexp()
	if err != nil {
		return nil, err
	}
	p.re = re

	return p, nil
}

// findSlotEnd locates the '}' closing the slot opened at start.
// Braces inside a constraint (e.g. {n,\d{4}}) nest.
func findSlotEnd(source string, start int) (int, error) {
	depth := 0
	for i := start; i < len(source); i++ {
		switch source[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return 0, errors.Newf(errors.ErrPatternSyntax,
		"unbalanced '{' in pattern %q", source).
		WithDetail("pattern", source)
}

// parseSlot splits a slot body into its name and optional constraint
func parseSlot(source, body string) (name, constraint string, err error) {
	name = body
	if idx := strings.Index(body, ","); idx >= 0 {
		name = body[:idx]
		constraint = body[idx+1:]
		if constraint == "" {
			return "", "", errors.Newf(errors.ErrPatternSyntax,
				"empty constraint for wildcard %q in pattern %q", name, source).
				WithDetail("pattern", source)
		}
		if _, err := regexp.Compile(constraint); err != nil {
			return "", "", errors.Wrapf(err, errors.ErrPatternSyntax,
				"invalid constraint for wildcard %q in pattern %q", name, source).
				WithDetail("pattern", source)
		}
	}
	if !slotNameRe.MatchString(name) {
		return "", "", errors.Newf(errors.ErrPatternSyntax,
			"invalid wildcard name %q in pattern %q", name, source).
			WithDetail("pattern", source)
	}
	return name, constraint, nil
}

func (p *Pattern) compileRegexp() (*regexp.Regexp, error) {
	var expr strings.Builder
	expr.WriteString("^")
	for _, seg := range p.segments {
		if seg.name == "" {
			expr.WriteString(regexp.QuoteMeta(seg.literal))
			continue
		}
		slotExpr := seg.constraint
		if slotExpr == "" {
			slotExpr = defaultSlotExpr
		}
		expr.WriteString("(?P<" + seg.name + ">" + slotExpr + ")")
	}
	expr.WriteString("$")

	re, err := regexp.Compile(expr.String())
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrPatternSyntax,
			"pattern %q does not compile", p.source).
			WithDetail("pattern", p.source)
	}
	return re, nil
}

// String returns the original pattern source
func (p *Pattern) String() string {
	return p.source
}

// Wildcards returns the slot names in pattern order
func (p *Pattern) Wildcards() []string {
	out := make([]string, len(p.wildcards))
	copy(out, p.wildcards)
	return out
}

// Match aligns a candidate path against the pattern. Literal segments
// must match exactly; wildcard slots bind deterministically, leftmost
// slot shortest. Returns the binding and true on success, or nil and
// false when no alignment exists. Match never fails.
func (p *Pattern) Match(candidate string) (Binding, bool) {
	groups := p.re.FindStringSubmatch(candidate)
	if groups == nil {
		return nil, false
	}

	binding := make(Binding, len(p.wildcards))
	for i, name := range p.re.SubexpNames() {
		if name != "" {
			binding[name] = groups[i]
		}
	}
	return binding, true
}

// Fill substitutes a binding back into the pattern, producing a
// concrete path. Fails with a PLACEHOLDER_UNRESOLVED error when the
// binding is missing a slot name.
func (p *Pattern) Fill(binding Binding) (string, error) {
	var out strings.Builder
	for _, seg := range p.segments {
		if seg.name == "" {
			out.WriteString(seg.literal)
			continue
		}
		value, ok := binding[seg.name]
		if !ok {
			return "", errors.Newf(errors.ErrPlaceholder,
				"no binding for wildcard %q in pattern %q", seg.name, p.source).
				WithDetail("pattern", p.source).
				WithDetail("wildcard", seg.name)
		}
		out.WriteString(value)
	}
	return out.String(), nil
}
