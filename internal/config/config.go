// Package config loads wslint settings from .wslint.yaml or .wslint.toml.
//
// Settings are resolved in three layers: the built-in defaults below, then the
// config file, then command-line flags applied by the caller.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"wslint/internal/diagnostics"
	"wslint/internal/rules"
)

var ErrInvalidConfig = errors.New("invalid config")

// DefaultNames are looked up, in order, by Discover.
var DefaultNames = []string{".wslint.yaml", ".wslint.yml", ".wslint.toml"}

const defaultConfig = `
extensions = [".cs", ".go", ".c", ".h", ".cpp", ".hpp", ".java", ".js", ".ts"]
exclude = [".git", "vendor", "node_modules"]
generated = ["*.designer.cs", "*.g.cs", "*.g.i.cs", "*.pb.go"]
workers = 0
format = "text"
color = "auto"
log-level = "warn"

[rules.no-trailing-whitespace]
enabled = true
severity = "warning"

[rules.indent-using-tabs]
enabled = true
severity = "warning"

[rules.no-spaces-before-tabs]
enabled = true
severity = "warning"

# Off until tab-then-space alignment is understood.
[rules.one-tab-indent]
enabled = false
severity = "warning"
`

// RuleConfig holds the per-rule settings. A nil Enabled or empty Severity falls
// back to the built-in default for that rule.
type RuleConfig struct {
	Enabled  *bool  `yaml:"enabled" toml:"enabled"`
	Severity string `yaml:"severity" toml:"severity"`
}

type Config struct {
	Rules      map[string]RuleConfig `yaml:"rules" toml:"rules"`
	Extensions []string              `yaml:"extensions" toml:"extensions"`
	Exclude    []string              `yaml:"exclude" toml:"exclude"`
	Generated  []string              `yaml:"generated" toml:"generated"`
	Workers    int                   `yaml:"workers" toml:"workers"`
	Format     string                `yaml:"format" toml:"format"`
	Color      string                `yaml:"color" toml:"color"`
	LogLevel   string                `yaml:"log-level" toml:"log-level"`

	// Path is the file the config was loaded from, empty for defaults.
	Path string `yaml:"-" toml:"-"`
}

var defaults = mustDefault()

func mustDefault() *Config {
	c := &Config{}
	if _, err := toml.Decode(defaultConfig, c); err != nil {
		panic(fmt.Sprintf("decode default config: %v", err))
	}
	return c
}

// Default returns a fresh copy of the built-in configuration
func Default() *Config {
	return mustDefault()
}

// Load reads the config file at path over the defaults and validates the result.
func Load(path string) (*Config, error) {
	c := Default()
	if err := c.LoadFromFile(path); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadFromFile decodes path on top of c. The format follows the file extension.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), c); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
		}
	default:
		return fmt.Errorf("%w: %s: unsupported config format", ErrInvalidConfig, path)
	}

	c.Path = path
	c.normalizeRules()
	return c.Validate()
}

// Discover returns the first default config file found in dir.
func Discover(dir string) (string, bool) {
	for _, name := range DefaultNames {
		p := filepath.Join(dir, name)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, true
		}
	}
	return "", false
}

func (c *Config) Validate() error {
	for name, rc := range c.Rules {
		if _, err := rules.ParseRuleID(name); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		if rc.Severity != "" {
			if _, err := diagnostics.ParseSeverity(rc.Severity); err != nil {
				return fmt.Errorf("%w: rule %s: %v", ErrInvalidConfig, name, err)
			}
		}
	}

	switch c.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: unknown format %q", ErrInvalidConfig, c.Format)
	}

	switch c.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("%w: unknown color mode %q", ErrInvalidConfig, c.Color)
	}

	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative", ErrInvalidConfig)
	}

	for _, pattern := range append(append([]string{}, c.Exclude...), c.Generated...) {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return fmt.Errorf("%w: pattern %q: %v", ErrInvalidConfig, pattern, err)
		}
	}

	return nil
}

// normalizeRules re-keys entries given by rule code onto the rule name. The file is
// decoded on top of the defaults, which are keyed by name, so a code key would
// otherwise lose to the default entry. Fields left unset keep the name entry's value.
func (c *Config) normalizeRules() {
	for key, rc := range c.Rules {
		r, err := rules.ParseRuleID(key)
		if err != nil || key == r.String() {
			continue
		}
		existing := c.Rules[r.String()]
		if rc.Enabled == nil {
			rc.Enabled = existing.Enabled
		}
		if rc.Severity == "" {
			rc.Severity = existing.Severity
		}
		delete(c.Rules, key)
		c.Rules[r.String()] = rc
	}
}

// lookup finds the settings for r, accepting either the rule name or its code as key.
func (c *Config) lookup(r rules.RuleID) (RuleConfig, bool) {
	if rc, ok := c.Rules[r.String()]; ok {
		return rc, true
	}
	rc, ok := c.Rules[r.Code()]
	return rc, ok
}

func (c *Config) RuleEnabled(r rules.RuleID) bool {
	if rc, ok := c.lookup(r); ok && rc.Enabled != nil {
		return *rc.Enabled
	}
	if c != defaults {
		return defaults.RuleEnabled(r)
	}
	return false
}

func (c *Config) Severity(r rules.RuleID) diagnostics.Severity {
	if rc, ok := c.lookup(r); ok && rc.Severity != "" {
		if sev, err := diagnostics.ParseSeverity(rc.Severity); err == nil {
			return sev
		}
	}
	if c != defaults {
		return defaults.Severity(r)
	}
	return diagnostics.Warning
}

// SetRuleEnabled overrides the enabled state of r, keeping its severity.
func (c *Config) SetRuleEnabled(r rules.RuleID, enabled bool) {
	if c.Rules == nil {
		c.Rules = make(map[string]RuleConfig)
	}
	rc, _ := c.lookup(r)
	delete(c.Rules, r.Code())
	rc.Enabled = &enabled
	c.Rules[r.String()] = rc
}

// ScanOptions derives the scanner options. OneTabIndent is only computed-and-emitted
// by the scanner when the rule is enabled here.
func (c *Config) ScanOptions() rules.Options {
	return rules.Options{EnforceOneTabIndent: c.RuleEnabled(rules.OneTabIndent)}
}

// Matches reports whether path has one of the configured extensions.
// An empty extension list matches everything.
func (c *Config) Matches(path string) bool {
	if len(c.Extensions) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range c.Extensions {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}

// Excluded reports whether a file or directory should be skipped during discovery.
func (c *Config) Excluded(path string) bool {
	return matchAny(c.Exclude, path)
}

// IsGeneratedPath reports whether path matches one of the generated-file patterns.
func (c *Config) IsGeneratedPath(path string) bool {
	return matchAny(c.Generated, path)
}

// matchAny matches patterns against the base name and the slash-separated path,
// ignoring case.
func matchAny(patterns []string, path string) bool {
	base := strings.ToLower(filepath.Base(path))
	slashed := strings.ToLower(filepath.ToSlash(path))
	for _, p := range patterns {
		p = strings.ToLower(p)
		if ok, _ := filepath.Match(p, base); ok {
			return true
		}
		if ok, _ := filepath.Match(p, slashed); ok {
			return true
		}
	}
	return false
}

// SlogLevel converts LogLevel, defaulting to warn.
func (c *Config) SlogLevel() slog.Level {
	level, err := ParseLogLevel(c.LogLevel)
	if err != nil {
		return slog.LevelWarn
	}
	return level
}

func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning", "":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", s)
	}
}
