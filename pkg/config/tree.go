package config

import (
	"strings"

	"github.com/arthur-debert/rulekit/pkg/errors"
)

// Tree is a nested configuration tree. Values are either scalars
// or nested Trees (as map[string]interface{}).
type Tree = map[string]interface{}

// MergeDefaults fills gaps in target with values from defaults,
// recursively. A key already present in target is never replaced:
// user-set values win unconditionally, even when the default at the
// same path has a different shape. Nested default values are
// deep-copied in, so later mutation of defaults cannot leak into
// target. Mutates and returns target.
func MergeDefaults(target, defaults Tree) Tree {
	if target == nil {
		target = Tree{}
	}
	for key, defValue := range defaults {
		current, exists := target[key]
		if !exists {
			target[key] = copyValue(defValue)
			continue
		}

		currentTree, currentIsTree := current.(map[string]interface{})
		defTree, defIsTree := defValue.(map[string]interface{})
		if currentIsTree && defIsTree {
			MergeDefaults(currentTree, defTree)
		}
		// Scalar in target shadows the default, whatever its shape
	}
	return target
}

// CopyTree returns a deep copy of a tree
func CopyTree(tree Tree) Tree {
	if tree == nil {
		return Tree{}
	}
	out := make(Tree, len(tree))
	for key, value := range tree {
		out[key] = copyValue(value)
	}
	return out
}

func copyValue(value interface{}) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		return CopyTree(v)
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, item := range v {
			out[i] = copyValue(item)
		}
		return out
	default:
		return v
	}
}

// Lookup retrieves a leaf value by a dotted key path, e.g. "cp.options".
// Returns a CONFIG_KEY error naming the attempted path when any
// segment is absent or a non-tree value is traversed.
func Lookup(tree Tree, path string) (interface{}, error) {
	if path == "" {
		return nil, errors.New(errors.ErrConfigKey, "empty config path").
			WithDetail("path", path)
	}

	segments := strings.Split(path, ".")
	var current interface{} = map[string]interface{}(tree)
	for _, segment := range segments {
		subtree, ok := current.(map[string]interface{})
		if !ok {
			return nil, errors.Newf(errors.ErrConfigKey, "config path %q traverses a non-tree value", path).
				WithDetail("path", path)
		}
		current, ok = subtree[segment]
		if !ok {
			return nil, errors.Newf(errors.ErrConfigKey, "config key not found: %s", path).
				WithDetail("path", path).
				WithDetail("segment", segment)
		}
	}
	return current, nil
}
