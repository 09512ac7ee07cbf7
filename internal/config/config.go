// Package config loads the wgslfront.toml project file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"

	"wgslfront/internal/builtin"
	"wgslfront/internal/diag"
	"wgslfront/internal/source"
)

// FileName is looked up from the checked path upwards.
const FileName = "wgslfront.toml"

type Config struct {
	// Path is empty for the built-in defaults.
	Path        string            `toml:"-"`
	Front       FrontConfig       `toml:"front"`
	Diagnostics map[string]string `toml:"diagnostics"`
	Check       CheckConfig       `toml:"check"`

	meta toml.MetaData
}

type FrontConfig struct {
	Extensions     []string `toml:"extensions"`
	Requires       string   `toml:"requires"`
	MaxErrors      int      `toml:"max_errors"`
	MaxDiagnostics int      `toml:"max_diagnostics"`
}

// CheckConfig filters files of a directory check. Patterns match the path
// relative to the checked directory, with filepath.Match syntax.
type CheckConfig struct {
	Include []string `toml:"include"`
	Exclude []string `toml:"exclude"`
}

// Settings is a Config turned into front-end inputs.
type Settings struct {
	Extensions     builtin.Extensions
	RuleSeverity   map[builtin.DiagnosticRule]builtin.DiagnosticSeverity
	MaxErrors      uint
	MaxDiagnostics int
}

func Default() *Config {
	return &Config{
		Front: FrontConfig{MaxErrors: 32, MaxDiagnostics: 100},
	}
}

// Find walks from startDir to the filesystem root looking for FileName.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	if info, statErr := os.Stat(dir); statErr == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	for {
		candidate := filepath.Join(dir, FileName)
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

// Load decodes path over the defaults. Keys absent from the file keep their
// default values.
func Load(path string) (*Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			if len(k) > 0 && k[0] == "diagnostics" {
				continue
			}
			keys = append(keys, k.String())
		}
		if len(keys) > 0 {
			return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
		}
	}
	if meta.IsDefined("front", "max_errors") && cfg.Front.MaxErrors < 0 {
		return nil, fmt.Errorf("%s: [front].max_errors must not be negative", path)
	}
	cfg.Path = path
	cfg.meta = meta
	return cfg, nil
}

// Discover loads the nearest project file above startDir, or returns the
// defaults when there is none.
func Discover(startDir string) (*Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Resolve validates the file against toolVersion and converts it. Problems are
// reported as CFG diagnostics located in the config file, which is added to fs;
// only an unreadable file is an error.
func (c *Config) Resolve(fs *source.FileSet, r diag.Reporter, toolVersion string) (Settings, error) {
	settings := Settings{
		RuleSeverity:   make(map[builtin.DiagnosticRule]builtin.DiagnosticSeverity),
		MaxDiagnostics: c.Front.MaxDiagnostics,
	}
	if c.Front.MaxErrors > 0 {
		settings.MaxErrors = uint(c.Front.MaxErrors)
	}

	var file *source.File
	if c.Path != "" && fs != nil {
		id, err := fs.Load(c.Path)
		if err != nil {
			return settings, fmt.Errorf("%s: %w", c.Path, err)
		}
		file = fs.Get(id)
	}
	at := func(text string) source.Span {
		if file == nil {
			return source.Span{}
		}
		off := bytes.Index(file.Content, []byte(text))
		if off < 0 {
			return source.Span{File: file.ID}
		}
		return source.Span{File: file.ID, Start: uint32(off), End: uint32(off + len(text))} //nolint:gosec // file size checked on load
	}

	for _, name := range c.Front.Extensions {
		ext := builtin.ParseExtension(name)
		if ext == builtin.ExtensionUndefined {
			diag.ReportError(r, diag.CfgUnknownExtension, at(`"`+name+`"`),
				fmt.Sprintf("unknown extension '%s' (known: %s)", name, strings.Join(builtin.ExtensionStrings(), ", "))).Emit()
			continue
		}
		settings.Extensions = settings.Extensions.With(ext)
	}

	if c.Front.Requires != "" {
		if err := CheckVersion(c.Front.Requires, toolVersion); err != nil {
			diag.ReportError(r, diag.CfgVersionConstraint, at(c.Front.Requires), err.Error()).Emit()
		}
	}

	names := make([]string, 0, len(c.Diagnostics))
	for name := range c.Diagnostics {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		category, rule := "", name
		if dot := strings.IndexByte(name, '.'); dot >= 0 {
			category, rule = name[:dot], name[dot+1:]
		}
		parsed := builtin.ParseDiagnosticRule(category, rule)
		if parsed == 0 {
			diag.ReportWarning(r, diag.CfgUnknownRule, at(name), fmt.Sprintf("unrecognized diagnostic rule '%s'", name)).Emit()
			continue
		}
		sev := builtin.ParseDiagnosticSeverity(c.Diagnostics[name])
		if sev == 0 {
			diag.ReportError(r, diag.CfgInvalidFile, at(c.Diagnostics[name]),
				fmt.Sprintf("invalid severity '%s' for rule '%s' (expected: %s)", c.Diagnostics[name], name, strings.Join(builtin.DiagnosticSeverityStrings(), ", "))).Emit()
			continue
		}
		settings.RuleSeverity[parsed] = sev
	}
	return settings, nil
}

// CheckVersion reports whether version satisfies constraint. Pre-release
// suffixes of version are ignored so that "0.2.0-dev" satisfies ">= 0.2.0".
func CheckVersion(constraint, version string) error {
	cons, err := semver.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("invalid version constraint %q: %w", constraint, err)
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("invalid tool version %q: %w", version, err)
	}
	core, err := v.SetPrerelease("")
	if err != nil {
		return err
	}
	if ok, errs := cons.Validate(&core); !ok {
		msgs := make([]string, 0, len(errs))
		for _, e := range errs {
			msgs = append(msgs, e.Error())
		}
		return fmt.Errorf("wgslfront %s does not satisfy requires %q: %s", version, constraint, strings.Join(msgs, "; "))
	}
	return nil
}

// Selects reports whether rel, a slash-separated path relative to the checked
// directory, passes the include and exclude filters.
func (c CheckConfig) Selects(rel string) bool {
	rel = filepath.ToSlash(rel)
	match := func(patterns []string) bool {
		for _, p := range patterns {
			if ok, _ := filepath.Match(p, rel); ok {
				return true
			}
			if ok, _ := filepath.Match(p, filepath.Base(rel)); ok {
				return true
			}
		}
		return false
	}
	if len(c.Include) > 0 && !match(c.Include) {
		return false
	}
	return !match(c.Exclude)
}

// IsDefined exposes the decoded key set; always false for defaults.
func (c *Config) IsDefined(key ...string) bool {
	if c.Path == "" {
		return false
	}
	return c.meta.IsDefined(key...)
}
