// Package project loads lowc.toml.
package project

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"

	"lowc/internal/trace"
)

// Emit modes.
const (
	EmitIR  = "ir"  // rendered IR listing
	EmitAST = "ast" // folded AST in surface syntax
)

type Config struct {
	Package PackageConfig `toml:"package"`
	Build   BuildConfig   `toml:"build"`
	Trace   TraceConfig   `toml:"trace"`
}

type PackageConfig struct {
	Name string `toml:"name"`
	// Requires is a semver constraint on the tool version, e.g. ">= 0.1.0".
	Requires string `toml:"requires"`
}

type BuildConfig struct {
	Fold     bool     `toml:"fold"`
	Simplify bool     `toml:"simplify"`
	Jobs     int      `toml:"jobs"` // 0 means one per CPU
	Emit     string   `toml:"emit"`
	Cache    bool     `toml:"cache"`
	Werror   bool     `toml:"werror"` // warnings fail the build
	Inputs   []string `toml:"inputs"`  // glob patterns relative to the project root
	OutDir   string   `toml:"out_dir"` // relative to the project root
}

type TraceConfig struct {
	Level  trace.Level `toml:"level"`
	Output string      `toml:"output"`
}

// Default returns the configuration used when lowc.toml omits a key or is
// absent.
func Default() Config {
	return Config{
		Build: BuildConfig{
			Fold:     true,
			Simplify: true,
			Emit:     EmitIR,
			Cache:    true,
			Inputs:   []string{"*.last"},
			OutDir:   "build",
		},
		Trace: TraceConfig{Level: trace.LevelOff, Output: "-"},
	}
}

// Manifest is a loaded lowc.toml.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// ManifestError reports an invalid lowc.toml.
type ManifestError struct {
	Path string
	Msg  string
	Err  error
}

func (e *ManifestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Path, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Msg)
}

func (e *ManifestError) Unwrap() error { return e.Err }

// Load finds lowc.toml from startDir upward and decodes it. ok is false when
// there is no manifest.
func Load(startDir string) (m *Manifest, ok bool, err error) {
	path, ok, err := Find(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := LoadFile(path)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{Path: path, Root: filepath.Dir(path), Config: cfg}, true, nil
}

// LoadFile decodes a manifest on top of Default. Unknown keys are rejected.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, &ManifestError{Path: path, Msg: "failed to parse TOML", Err: err}
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, &ManifestError{Path: path, Msg: "unknown keys: " + strings.Join(keys, ", ")}
	}
	if !meta.IsDefined("package", "name") || strings.TrimSpace(cfg.Package.Name) == "" {
		return Config{}, &ManifestError{Path: path, Msg: "missing [package].name"}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, &ManifestError{Path: path, Msg: "invalid configuration", Err: err}
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	var errs []error
	switch c.Build.Emit {
	case EmitIR, EmitAST:
	default:
		errs = append(errs, fmt.Errorf("[build].emit must be %q or %q, got %q", EmitIR, EmitAST, c.Build.Emit))
	}
	if c.Build.Jobs < 0 {
		errs = append(errs, fmt.Errorf("[build].jobs must not be negative, got %d", c.Build.Jobs))
	}
	if c.Package.Requires != "" {
		if _, err := semver.NewConstraint(c.Package.Requires); err != nil {
			errs = append(errs, fmt.Errorf("[package].requires: %w", err))
		}
	}
	return errors.Join(errs...)
}

// ErrIncompatible is returned by CheckRequires when the tool version falls
// outside [package].requires.
var ErrIncompatible = errors.New("tool version does not satisfy [package].requires")

// CheckRequires verifies toolVersion against [package].requires.
func (c *Config) CheckRequires(toolVersion string) error {
	if c.Package.Requires == "" {
		return nil
	}
	constraint, err := semver.NewConstraint(c.Package.Requires)
	if err != nil {
		return fmt.Errorf("[package].requires: %w", err)
	}
	v, err := semver.NewVersion(toolVersion)
	if err != nil {
		return fmt.Errorf("tool version %q: %w", toolVersion, err)
	}
	if !constraint.Check(v) {
		return fmt.Errorf("%w: %s does not match %q", ErrIncompatible, v, c.Package.Requires)
	}
	return nil
}

// Inputs expands [build].inputs relative to the project root, sorted and
// without duplicates.
func (m *Manifest) Inputs() ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, pattern := range m.Config.Build.Inputs {
		matches, err := filepath.Glob(filepath.Join(m.Root, pattern))
		if err != nil {
			return nil, fmt.Errorf("%s: bad input pattern %q: %w", m.Path, pattern, err)
		}
		for _, p := range matches {
			if !seen[p] {
				seen[p] = true
				out = append(out, p)
			}
		}
	}
	slices.Sort(out)
	return out, nil
}

// OutDir returns the absolute output directory.
func (m *Manifest) OutDir() string {
	if filepath.IsAbs(m.Config.Build.OutDir) {
		return m.Config.Build.OutDir
	}
	return filepath.Join(m.Root, m.Config.Build.OutDir)
}
