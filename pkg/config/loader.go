package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"patchcheck/pkg/errors"
)

// EnvPrefix is the prefix for environment overrides, e.g.
// PATCHCHECK_BUILD_FLAVOR=debug.
const EnvPrefix = "PATCHCHECK_"

// configFileNames are tried in order at the project root; the first
// one that exists wins.
var configFileNames = []string{".patchcheck.toml", "patchcheck.toml"}

// Load builds the effective configuration for a project root:
// embedded defaults, then the project config file if present, then
// PATCHCHECK_* environment variables.
//
// Build.Root defaults to projectRoot when neither the file nor the
// environment sets it; PATCHCHECK_ROOT always wins.
func Load(projectRoot string) (*Config, error) {
	return LoadWithOverrides(projectRoot, nil)
}

// LoadWithOverrides is Load with a final overlay of dotted-key values
// (e.g. "build.flavor"), used for command-line flag overrides. The
// overlay wins over every other layer.
func LoadWithOverrides(projectRoot string, overrides map[string]interface{}) (*Config, error) {
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to load default configuration")
	}

	// 2. Project config file, if one exists
	for _, filename := range configFileNames {
		path := filepath.Join(projectRoot, filename)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to parse config file %s", path)
		}
		log.Debug().Str("path", path).Msg("Loaded project config")
		break
	}

	// 3. Environment overrides
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".")
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment overrides")
	}

	// 4. Explicit overrides, e.g. from command-line flags
	if len(overrides) > 0 {
		if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to apply overrides")
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}

	// PATCHCHECK_ROOT is the documented root override; the generic
	// env mapping above would file it under the wrong key. It slots in
	// at environment precedence: above the config file, below explicit
	// overrides.
	if root := os.Getenv("PATCHCHECK_ROOT"); root != "" {
		if _, ok := overrides["build.root"]; !ok {
			cfg.Build.Root = root
		}
	}
	if cfg.Build.Root == "" {
		cfg.Build.Root = projectRoot
	}

	log.Debug().
		Str("root", cfg.Build.Root).
		Str("flavor", cfg.Build.Flavor).
		Int("manifest_sources", len(cfg.Manifest.Sources)).
		Msg("Configuration loaded")

	return &cfg, nil
}
