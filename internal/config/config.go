// Package config loads the optional .scmgo.yaml host configuration file
// (§6 ambient tooling): extra search roots for the CLI's script and
// host-init paths, and the path to a host
// init script to run after the bootstrap macros but before the user's
// own script.
package config

import (
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
)

// Config is the shape of .scmgo.yaml.
type Config struct {
	// LoadPaths are extra directories searched (in order, after the
	// name itself as given) by ResolveLoad, which the CLI uses for the
	// script file and HostInit paths. The load primitive does not
	// consult them.
	LoadPaths []string `yaml:"load_paths"`

	// HostInit, if set, names a script evaluated once after the
	// bootstrap macros and before the user's program.
	HostInit string `yaml:"host_init"`
}

// FileName is the configuration file's conventional name.
const FileName = ".scmgo.yaml"

// Load reads FileName from dir. A missing file is not an error: it
// returns a zero-value Config, since the file is entirely optional.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ResolveLoad finds name against c's LoadPaths, returning the first
// existing match, or name unchanged if none of the search roots (or
// name itself) exist.
func (c *Config) ResolveLoad(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	if _, err := os.Stat(name); err == nil {
		return name
	}
	for _, root := range c.LoadPaths {
		candidate := filepath.Join(root, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return name
}
