package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"wslint/internal/diagnostics"
	"wslint/internal/rules"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestDefaults(t *testing.T) {
	c := Default()
	if err := c.Validate(); err != nil {
		t.Fatalf("Default config should validate: %v", err)
	}

	for _, r := range []rules.RuleID{rules.NoTrailingWhitespace, rules.IndentUsingTabs, rules.NoSpacesBeforeTabs} {
		if !c.RuleEnabled(r) {
			t.Errorf("Expected %v enabled by default", r)
		}
		if c.Severity(r) != diagnostics.Warning {
			t.Errorf("Expected %v to default to warning", r)
		}
	}
	if c.RuleEnabled(rules.OneTabIndent) || c.ScanOptions().EnforceOneTabIndent {
		t.Error("Expected one-tab-indent disabled by default")
	}
	if c.Format != "text" || c.Color != "auto" || c.SlogLevel() != slog.LevelWarn {
		t.Errorf("Unexpected defaults: %+v", c)
	}
}

func TestDefaultIsACopy(t *testing.T) {
	a := Default()
	a.SetRuleEnabled(rules.NoTrailingWhitespace, false)
	if !Default().RuleEnabled(rules.NoTrailingWhitespace) {
		t.Error("Mutating one Default() must not leak into the next")
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, ".wslint.yaml", `
rules:
  one-tab-indent:
    enabled: true
  WS001:
    severity: error
extensions: [.cs]
format: json
`)

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !c.RuleEnabled(rules.OneTabIndent) || !c.ScanOptions().EnforceOneTabIndent {
		t.Error("Expected one-tab-indent enabled")
	}
	if c.Severity(rules.OneTabIndent) != diagnostics.Warning {
		t.Error("Expected severity to fall back to the default")
	}
	if c.Severity(rules.NoTrailingWhitespace) != diagnostics.Error {
		t.Error("Expected rule code keys to be honoured")
	}
	if !c.RuleEnabled(rules.IndentUsingTabs) {
		t.Error("Rules absent from the file keep their defaults")
	}
	if c.Format != "json" || !c.Matches("a.CS") || c.Matches("a.go") {
		t.Errorf("Unexpected overlay: %+v", c)
	}
	if c.Path != path {
		t.Errorf("Expected Path %s, got %s", path, c.Path)
	}
}

func TestLoadTOML(t *testing.T) {
	path := writeConfig(t, ".wslint.toml", `
workers = 3
log-level = "debug"
generated = ["*_gen.go"]

[rules.no-spaces-before-tabs]
enabled = false
`)

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Workers != 3 || c.SlogLevel() != slog.LevelDebug {
		t.Errorf("Unexpected overlay: %+v", c)
	}
	if c.RuleEnabled(rules.NoSpacesBeforeTabs) {
		t.Error("Expected no-spaces-before-tabs disabled")
	}
	if !c.IsGeneratedPath("pkg/x_gen.go") || c.IsGeneratedPath("pkg/x.go") {
		t.Error("Unexpected generated matching")
	}
}

func TestLoadRuleCodeKeys(t *testing.T) {
	tests := []struct {
		file    string
		content string
	}{
		{".wslint.yaml", "rules:\n  WS001: {enabled: false, severity: error}\n  WS003: {severity: error}\n"},
		{".wslint.toml", "[rules.WS001]\nenabled = false\nseverity = \"error\"\n\n[rules.WS003]\nseverity = \"error\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			c, err := Load(writeConfig(t, tt.file, tt.content))
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if c.RuleEnabled(rules.NoTrailingWhitespace) || c.Severity(rules.NoTrailingWhitespace) != diagnostics.Error {
				t.Error("Expected the WS001 entry to override the default")
			}
			if !c.RuleEnabled(rules.NoSpacesBeforeTabs) || c.Severity(rules.NoSpacesBeforeTabs) != diagnostics.Error {
				t.Error("Expected WS003 to change severity and keep the default enabled state")
			}
			if _, ok := c.Rules["WS001"]; ok {
				t.Error("Expected code keys to be folded onto rule names")
			}
		})
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"unknown rule", "a.yaml", "rules:\n  tabs-only: {enabled: true}\n"},
		{"bad severity", "a.yaml", "rules:\n  one-tab-indent: {severity: fatal}\n"},
		{"bad format", "a.toml", "format = \"xml\"\n"},
		{"bad color", "a.yaml", "color: rainbow\n"},
		{"negative workers", "a.yaml", "workers: -1\n"},
		{"bad glob", "a.yaml", "exclude: [\"[\"]\n"},
		{"bad log level", "a.yaml", "log-level: loud\n"},
		{"syntax", "a.yaml", "rules: [\n"},
		{"unsupported", "a.json", "{}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.file, tt.content))
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected not-exist error, got %v", err)
	}
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	if _, ok := Discover(dir); ok {
		t.Fatal("Expected nothing in empty dir")
	}

	if err := os.WriteFile(filepath.Join(dir, ".wslint.toml"), []byte(""), 0644); err != nil {
		t.Fatal(err)
	}
	path, ok := Discover(dir)
	if !ok || filepath.Base(path) != ".wslint.toml" {
		t.Errorf("Expected .wslint.toml, got %q", path)
	}
}

func TestExcluded(t *testing.T) {
	c := Default()
	if !c.Excluded("/src/vendor") || !c.Excluded(".git") || c.Excluded("/src/main.cs") {
		t.Error("Unexpected exclusion result")
	}
}
