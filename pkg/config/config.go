// Package config loads and layers patchcheck configuration: embedded
// defaults, then an optional project file, then PATCHCHECK_*
// environment variables.
package config

import (
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"patchcheck/pkg/errors"
	"patchcheck/pkg/logging"
)

var log = logging.GetLogger("config")

// FlavorPlaceholder is the token substituted with the active build
// flavor in build paths and exemption patterns.
const FlavorPlaceholder = "{flavor}"

// Config is the full tool configuration.
type Config struct {
	Build      BuildConfig      `koanf:"build" toml:"build"`
	Manifest   ManifestConfig   `koanf:"manifest" toml:"manifest"`
	Library    LibraryConfig    `koanf:"library" toml:"library"`
	Exemptions ExemptionsConfig `koanf:"exemptions" toml:"exemptions"`
	Report     ReportConfig     `koanf:"report" toml:"report"`
	Check      CheckConfig      `koanf:"check" toml:"check"`
}

// BuildConfig identifies the build tree being checked.
type BuildConfig struct {
	Flavor string `koanf:"flavor" toml:"flavor"`
	Root   string `koanf:"root" toml:"root"`
}

// ManifestConfig lists the manifest sources in lookup order.
type ManifestConfig struct {
	Sources []string `koanf:"sources" toml:"sources"`
}

// LibraryConfig points at the previous release's library snapshots.
type LibraryConfig struct {
	Files    string `koanf:"files" toml:"files"`
	Registry string `koanf:"registry" toml:"registry"`
}

// ExemptionsConfig holds the substring patterns that silence
// individual checks. Patterns may contain the flavor placeholder.
type ExemptionsConfig struct {
	Untracked   []string `koanf:"untracked" toml:"untracked"`
	ZeroVersion []string `koanf:"zero_version" toml:"zero_version"`
	Skip        []string `koanf:"skip" toml:"skip"`
}

// ReportConfig configures the report sinks.
type ReportConfig struct {
	File       string   `koanf:"file" toml:"file"`
	Recipients []string `koanf:"recipients" toml:"recipients"`
	SMTPHost   string   `koanf:"smtp_host" toml:"smtp_host"`
	SMTPFrom   string   `koanf:"smtp_from" toml:"smtp_from"`
}

// CheckConfig tunes the reconciliation pass.
type CheckConfig struct {
	Workers int `koanf:"workers" toml:"workers"`
}

// DefaultConfig returns the embedded defaults as a typed Config. It
// round-trips the same bytes genconfig writes, so the template and the
// struct cannot drift apart.
func DefaultConfig() (*Config, error) {
	var cfg Config
	if err := toml.Unmarshal(defaultConfig, &cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "embedded defaults are not valid TOML")
	}
	return &cfg, nil
}

// ExpandFlavor substitutes the flavor placeholder in s.
func ExpandFlavor(s, flavor string) string {
	return strings.ReplaceAll(s, FlavorPlaceholder, flavor)
}

// MatchesAny reports whether path contains any of the patterns after
// flavor substitution. Matching is case-insensitive: the paths come
// from installer manifests and Windows build trees.
func MatchesAny(path string, patterns []string, flavor string) bool {
	lower := strings.ToLower(path)
	for _, p := range patterns {
		p = strings.ToLower(ExpandFlavor(p, flavor))
		if p == "" {
			continue
		}
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// IsSkipped reports whether path is excluded from checking entirely.
func (c *Config) IsSkipped(path string) bool {
	return MatchesAny(path, c.Exemptions.Skip, c.Build.Flavor)
}

// IsZeroVersionExempt reports whether path may carry the zero version
// without a warning.
func (c *Config) IsZeroVersionExempt(path string) bool {
	return MatchesAny(path, c.Exemptions.ZeroVersion, c.Build.Flavor)
}

// IsUntrackedAllowed reports whether path may be absent from source
// control without contributing to the untracked-files warning.
func (c *Config) IsUntrackedAllowed(path string) bool {
	return MatchesAny(path, c.Exemptions.Untracked, c.Build.Flavor)
}
