package config

import (
	"fmt"

	"github.com/arthur-debert/rulekit/pkg/errors"
	"github.com/arthur-debert/rulekit/pkg/logging"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/v2"
)

// Store is a sealed configuration store for rule resolution.
// It is built once from a user tree plus default trees and is
// read-only afterward, so lookups are safe for unsynchronized
// concurrent use.
type Store struct {
	k *koanf.Koanf
}

// NewStore builds a store from the user tree with the given default
// trees merged in, in order. Earlier defaults take precedence over
// later ones; the user tree always wins. The caller's trees are not
// mutated.
func NewStore(user Tree, defaults ...Tree) (*Store, error) {
	logger := logging.GetLogger("config.store")

	merged := CopyTree(user)
	for _, def := range defaults {
		MergeDefaults(merged, def)
	}

	k := koanf.New(".")
	if err := k.Load(confmap.Provider(merged, "."), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to build config store")
	}

	logger.Debug().
		Int("keys", len(k.Keys())).
		Int("defaultTrees", len(defaults)).
		Msg("Config store sealed")

	return &Store{k: k}, nil
}

// Lookup retrieves a value by dotted path. Fails with a CONFIG_KEY
// error when the path is absent.
func (s *Store) Lookup(path string) (interface{}, error) {
	if !s.k.Exists(path) {
		return nil, errors.Newf(errors.ErrConfigKey, "config key not found: %s", path).
			WithDetail("path", path)
	}
	return s.k.Get(path), nil
}

// String retrieves a value by dotted path and renders it as a string.
// Nested trees are not stringable and fail with a CONFIG_KEY error.
func (s *Store) String(path string) (string, error) {
	value, err := s.Lookup(path)
	if err != nil {
		return "", err
	}
	switch v := value.(type) {
	case string:
		return v, nil
	case map[string]interface{}:
		return "", errors.Newf(errors.ErrConfigKey, "config key %s is a tree, not a scalar", path).
			WithDetail("path", path)
	default:
		return fmt.Sprintf("%v", v), nil
	}
}

// Has reports whether a dotted path is present
func (s *Store) Has(path string) bool {
	return s.k.Exists(path)
}
