// Package config loads and validates hashalign.toml. Validation is eager:
// an unrecognized style or policy value fails here, before any literal is
// processed, and is never retried.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"hashalign/internal/align"
)

// ManifestName is the configuration file looked up from the start
// directory towards the filesystem root.
const ManifestName = "hashalign.toml"

// TrailingArgPolicy decides whether a literal in trailing call-argument
// position is inspected at all.
type TrailingArgPolicy uint8

const (
	// TrailingAlwaysInspect checks every trailing-argument literal.
	TrailingAlwaysInspect TrailingArgPolicy = iota
	// TrailingAlwaysIgnore skips every trailing-argument literal.
	TrailingAlwaysIgnore
	// TrailingIgnoreExplicit skips braced trailing-argument literals.
	TrailingIgnoreExplicit
	// TrailingIgnoreImplicit skips unbraced trailing-argument literals.
	TrailingIgnoreImplicit
)

func (p TrailingArgPolicy) String() string {
	switch p {
	case TrailingAlwaysInspect:
		return "always_inspect"
	case TrailingAlwaysIgnore:
		return "always_ignore"
	case TrailingIgnoreExplicit:
		return "ignore_explicit"
	case TrailingIgnoreImplicit:
		return "ignore_implicit"
	}
	return "unknown"
}

// ParseTrailingArgPolicy resolves a configured policy name.
func ParseTrailingArgPolicy(name string) (TrailingArgPolicy, error) {
	switch name {
	case "always_inspect":
		return TrailingAlwaysInspect, nil
	case "always_ignore":
		return TrailingAlwaysIgnore, nil
	case "ignore_explicit":
		return TrailingIgnoreExplicit, nil
	case "ignore_implicit":
		return TrailingIgnoreImplicit, nil
	}
	return TrailingAlwaysInspect, fmt.Errorf(
		"unknown trailing argument policy %q (expected always_inspect, always_ignore, ignore_explicit, or ignore_implicit)", name)
}

// Config is the resolved configuration for one analysis pass: one style per
// separator kind plus the trailing-argument policy.
type Config struct {
	Colons      align.Style
	Rockets     align.Style
	TrailingArg TrailingArgPolicy

	// Path of the manifest the config was loaded from; empty for defaults.
	Path string
}

// Default returns the configuration used when no manifest exists.
func Default() Config {
	return Config{
		Colons:      align.StyleKey,
		Rockets:     align.StyleKey,
		TrailingArg: TrailingAlwaysInspect,
	}
}

// Digest returns a stable representation of the resolved settings, used to
// key cached results.
func (c Config) Digest() string {
	return fmt.Sprintf("colons=%s;rockets=%s;trailing=%s", c.Colons, c.Rockets, c.TrailingArg)
}

type manifest struct {
	Align alignSection `toml:"align"`
}

type alignSection struct {
	Colons       string `toml:"colons"`
	Rockets      string `toml:"rockets"`
	TrailingArgs string `toml:"trailing_args"`
}

// Find walks up from startDir looking for the manifest.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load resolves the configuration for startDir: the nearest manifest if one
// exists, the defaults otherwise.
func Load(startDir string) (Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile parses and validates one manifest.
func LoadFile(path string) (Config, error) {
	var m manifest
	meta, err := toml.DecodeFile(path, &m)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}

	cfg := Default()
	cfg.Path = path

	if meta.IsDefined("align", "colons") {
		cfg.Colons, err = align.ParseStyle(strings.TrimSpace(m.Align.Colons))
		if err != nil {
			return Config{}, fmt.Errorf("%s: [align].colons: %w", path, err)
		}
	}
	if meta.IsDefined("align", "rockets") {
		cfg.Rockets, err = align.ParseStyle(strings.TrimSpace(m.Align.Rockets))
		if err != nil {
			return Config{}, fmt.Errorf("%s: [align].rockets: %w", path, err)
		}
	}
	if meta.IsDefined("align", "trailing_args") {
		cfg.TrailingArg, err = ParseTrailingArgPolicy(strings.TrimSpace(m.Align.TrailingArgs))
		if err != nil {
			return Config{}, fmt.Errorf("%s: [align].trailing_args: %w", path, err)
		}
	}
	return cfg, nil
}

// Starter is the manifest written by `hashalign init`.
const Starter = `# hashalign configuration
[align]
# Alignment style per separator kind: key | table | separator
colons  = "key"
rockets = "key"

# Literals in trailing call-argument position:
# always_inspect | always_ignore | ignore_explicit | ignore_implicit
trailing_args = "always_inspect"
`
