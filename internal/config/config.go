// Package config implements the driver configuration (spec.md §4.11):
// fields populated from CLI flags (teacher's mainer-based style, see
// internal/maincmd) with JSINSTRUMENT_*-prefixed environment variable
// defaults, flags always winning over env vars, and an optional on-disk
// YAML file supplying defaults below both of those.
//
// The teacher's go.mod pulls in github.com/caarlos0/env/v6 only
// transitively (mainer depends on it internally for its own --env-vars
// flag parsing) and never imports it directly; this package is where that
// dependency gets an actual, direct home instead of staying dead weight.
// gopkg.in/yaml.v3, likewise only pulled in transitively by the teacher's
// own dependency graph, gets its home in FromFile below.
package config

import (
	"os"

	"github.com/caarlos0/env/v6"
	"gopkg.in/yaml.v3"
)

// Config holds every knob spec.md §4.11 lists. The zero value has every
// flag off and an empty Prefix; FromFile starts from Prefix "livepack".
type Config struct {
	InitPath   string `env:"INIT_PATH" yaml:"init"`
	Prefix     string `env:"PREFIX" yaml:"prefix"`
	SourceMaps bool   `env:"SOURCE_MAPS" yaml:"sourceMaps"`
	CommonJS   bool   `env:"COMMONJS" yaml:"commonjs"`
	Strict     bool   `env:"STRICT" yaml:"strict"`
	NameBlocks bool   `env:"NAME_BLOCKS" yaml:"nameBlocks"`
}

// FromFile reads a YAML config file (e.g. ".jsinstrument.yaml") into a
// new Config with spec.md's defaults applied first, so a file that omits
// a key keeps that key's default rather than zeroing it. A missing file
// is not an error: it just means no file-level defaults apply.
func FromFile(path string) (*Config, error) {
	cfg := &Config{Prefix: "livepack"}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv reads JSINSTRUMENT_*-prefixed environment variables into cfg,
// overriding whichever of its fields the environment sets (spec.md
// §4.11's env layer sits above the YAML file's defaults, below flags).
func (cfg *Config) FromEnv() error {
	return env.ParseWithOptions(cfg, env.Options{Prefix: "JSINSTRUMENT_"})
}

