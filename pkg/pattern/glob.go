package pattern

import (
	"io/fs"
	"sort"
	"strings"

	"github.com/arthur-debert/rulekit/pkg/errors"
	"github.com/arthur-debert/rulekit/pkg/logging"
	"github.com/bmatcuk/doublestar/v4"
)

// BindAll discovers every file under fsys the pattern can match and
// returns their bindings, sorted by the matched path. Slots are
// widened to globs for the filesystem walk and each hit is re-matched
// against the pattern, so constraints still apply.
func BindAll(fsys fs.FS, p *Pattern) ([]Binding, error) {
	logger := logging.GetLogger("pattern.glob")

	paths, err := doublestar.Glob(fsys, p.globExpr())
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInternal,
			"glob failed for pattern %q", p.source).
			WithDetail("pattern", p.source)
	}
	sort.Strings(paths)

	var bindings []Binding
	for _, path := range paths {
		if binding, ok := p.Match(path); ok {
			bindings = append(bindings, binding)
		}
	}

	logger.Debug().
		Str("pattern", p.source).
		Int("candidates", len(paths)).
		Int("bindings", len(bindings)).
		Msg("Globbed wildcard bindings")

	return bindings, nil
}

// globExpr renders the pattern as a glob, slots widened to '*'
func (p *Pattern) globExpr() string {
	var out strings.Builder
	for _, seg := range p.segments {
		if seg.name != "" {
			out.WriteString("*")
			continue
		}
		for i := 0; i < len(seg.literal); i++ {
			if strings.IndexByte(`*?[]{}\`, seg.literal[i]) >= 0 {
				out.WriteByte('\\')
			}
			out.WriteByte(seg.literal[i])
		}
	}
	return out.String()
}
