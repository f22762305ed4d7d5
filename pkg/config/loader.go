package config

import (
	"path/filepath"

	"github.com/arthur-debert/rulekit/pkg/errors"
	"github.com/arthur-debert/rulekit/pkg/logging"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// LoadFile parses a TOML or YAML configuration file into a Tree.
// The format is chosen by file extension. The resulting tree is
// typically handed to NewStore together with default trees.
func LoadFile(path string) (Tree, error) {
	logger := logging.GetLogger("config.loader")

	var parser koanf.Parser
	switch filepath.Ext(path) {
	case ".toml":
		parser = toml.Parser()
	case ".yaml", ".yml":
		parser = yaml.Parser()
	default:
		return nil, errors.Newf(errors.ErrConfigParse, "unsupported config format: %s", path).
			WithDetail("path", path)
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to load config from %s", path).
			WithDetail("path", path)
	}

	logger.Debug().
		Str("path", path).
		Int("keys", len(k.Keys())).
		Msg("Loaded config file")

	return k.Raw(), nil
}
