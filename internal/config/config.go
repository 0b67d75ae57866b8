// Package config loads analysis settings from a project strata.toml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ManifestName is the per-project settings file looked up from a start
// directory towards the filesystem root.
const ManifestName = "strata.toml"

// CatchScoping selects how catch-clause parameters are scoped.
type CatchScoping int

const (
	// CatchScopeModern gives every catch clause its own scope.
	CatchScopeModern CatchScoping = iota
	// CatchScopeLegacy hoists catch parameters into the enclosing
	// function scope, the way pre-ES3-quirks engines did.
	CatchScopeLegacy
)

func (c CatchScoping) String() string {
	if c == CatchScopeLegacy {
		return "legacy"
	}
	return "modern"
}

// Config carries the language and analysis settings for one compilation.
type Config struct {
	// BlockScoping enables block-level scopes for let/const bindings.
	// When false only function and catch scopes exist and let/const
	// declarations scope like var.
	BlockScoping bool

	// CatchScoping selects catch-parameter scoping.
	CatchScoping CatchScoping

	// MaxDiagnostics caps how many diagnostics a single compilation
	// reports. Zero means unlimited.
	MaxDiagnostics int

	// WarningsAsErrors promotes warnings to errors for exit-code
	// purposes.
	WarningsAsErrors bool
}

// Default returns the settings used when no manifest is present.
func Default() Config {
	return Config{
		BlockScoping:   true,
		CatchScoping:   CatchScopeModern,
		MaxDiagnostics: 200,
	}
}

// ErrAnalysisSectionMissing indicates that [analysis] is missing in a
// manifest that was expected to carry one.
var ErrAnalysisSectionMissing = errors.New("missing [analysis]")

type manifest struct {
	Analysis struct {
		BlockScoping     *bool  `toml:"block_scoping"`
		CatchScoping     string `toml:"catch_scoping"`
		MaxDiagnostics   *int   `toml:"max_diagnostics"`
		WarningsAsErrors *bool  `toml:"warnings_as_errors"`
	} `toml:"analysis"`
}

// Load parses a strata.toml at path, applying defaults for any setting
// the file omits.
func Load(path string) (Config, error) {
	cfg := Default()
	var m manifest
	meta, err := toml.DecodeFile(path, &m)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("analysis") {
		return cfg, nil
	}
	if m.Analysis.BlockScoping != nil {
		cfg.BlockScoping = *m.Analysis.BlockScoping
	}
	if s := strings.TrimSpace(m.Analysis.CatchScoping); s != "" {
		switch s {
		case "modern":
			cfg.CatchScoping = CatchScopeModern
		case "legacy":
			cfg.CatchScoping = CatchScopeLegacy
		default:
			return Config{}, fmt.Errorf("%s: invalid [analysis].catch_scoping %q (want \"modern\" or \"legacy\")", path, s)
		}
	}
	if m.Analysis.MaxDiagnostics != nil {
		if *m.Analysis.MaxDiagnostics < 0 {
			return Config{}, fmt.Errorf("%s: invalid [analysis].max_diagnostics %d: must be non-negative", path, *m.Analysis.MaxDiagnostics)
		}
		cfg.MaxDiagnostics = *m.Analysis.MaxDiagnostics
	}
	if m.Analysis.WarningsAsErrors != nil {
		cfg.WarningsAsErrors = *m.Analysis.WarningsAsErrors
	}
	return cfg, nil
}

// Find walks from startDir towards the filesystem root looking for a
// strata.toml. It returns the manifest path and true when found.
func Find(startDir string) (string, bool, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, err
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		info, statErr := os.Stat(candidate)
		if statErr == nil && !info.IsDir() {
			return candidate, true, nil
		}
		if statErr != nil && !errors.Is(statErr, os.ErrNotExist) {
			return "", false, statErr
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

// LoadFrom resolves the manifest governing startDir. When no manifest
// exists the defaults apply.
func LoadFrom(startDir string) (Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}
