package context

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"wslint/internal/config"
	"wslint/internal/diagnostics"
	"wslint/internal/rules"
)

const (
	cleanCsFile     = "clean.cs"
	cleanCsContent  = "class A {\n\tint x;\n}\n"
	dirtyCsFile     = "dirty.cs"
	dirtyCsContent  = "class B { \n    int y;\n}\n"
	noErrorExpected = "Expected no error, got: %v"
)

// Helper function to create a temporary test file
func createTestFile(dir, name, content string) (string, error) {
	filePath := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return "", err
	}
	err := os.WriteFile(filePath, []byte(content), 0644)
	return filePath, err
}

func TestDiscoverFilesSingleFile(t *testing.T) {
	tmpDir := t.TempDir()
	path, err := createTestFile(tmpDir, "notes.txt", "x")
	if err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	ctx := New(nil, nil)
	if err := ctx.DiscoverFiles(path); err != nil {
		t.Fatalf(noErrorExpected, err)
	}

	// Explicit files bypass the extension filter
	if len(ctx.Files) != 1 || ctx.GetFile(path) == nil {
		t.Errorf("Expected %s in context, got %v", path, ctx.FileOrder)
	}
}

func TestDiscoverFilesDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	for name, content := range map[string]string{
		"b.cs":            cleanCsContent,
		"a.cs":            cleanCsContent,
		"readme.md":       "text",
		"vendor/v.cs":     cleanCsContent,
		"sub/c.go":        "package c\n",
		"sub/.git/config": "x",
	} {
		if _, err := createTestFile(tmpDir, name, content); err != nil {
			t.Fatalf("Failed to create %s: %v", name, err)
		}
	}

	ctx := New(nil, nil)
	if err := ctx.DiscoverFiles(tmpDir); err != nil {
		t.Fatalf(noErrorExpected, err)
	}

	want := []string{
		filepath.Join(tmpDir, "a.cs"),
		filepath.Join(tmpDir, "b.cs"),
		filepath.Join(tmpDir, "sub", "c.go"),
	}
	if len(ctx.FileOrder) != len(want) {
		t.Fatalf("Expected %v, got %v", want, ctx.FileOrder)
	}
	for i, p := range want {
		if ctx.FileOrder[i] != p {
			t.Errorf("FileOrder[%d] = %s, want %s", i, ctx.FileOrder[i], p)
		}
	}
}

func TestDiscoverFilesDuplicates(t *testing.T) {
	tmpDir := t.TempDir()
	path, _ := createTestFile(tmpDir, cleanCsFile, cleanCsContent)

	ctx := New(nil, nil)
	if err := ctx.DiscoverFiles(path, tmpDir, path); err != nil {
		t.Fatalf(noErrorExpected, err)
	}
	if len(ctx.FileOrder) != 1 {
		t.Errorf("Expected 1 file, got %v", ctx.FileOrder)
	}
}

func TestDiscoverFilesMissing(t *testing.T) {
	ctx := New(nil, nil)
	err := ctx.DiscoverFiles(filepath.Join(t.TempDir(), "missing"))
	if !errors.Is(err, ErrNoSuchPath) {
		t.Errorf("Expected ErrNoSuchPath, got %v", err)
	}
}

func TestIsGenerated(t *testing.T) {
	cfg := config.Default()
	tests := []struct {
		name    string
		path    string
		content string
		want    bool
	}{
		{"plain", "a.cs", "class A {}\n", false},
		{"designer", "Form1.Designer.cs", "", true},
		{"grpc stub", "api/service.pb.go", "package api\n", true},
		{"go marker", "x.go", "// Code generated by stringer. DO NOT EDIT.\n\npackage x\n", true},
		{"go marker crlf", "x.go", "// Code generated by tool. DO NOT EDIT.\r\n", true},
		{"auto-generated", "x.cs", "// <auto-generated>\n//   tool\n// </auto-generated>\n", true},
		{"marker too late", "x.go", strings.Repeat("\n", 20) + "// Code generated by x. DO NOT EDIT.\n", false},
		{"marker mid-line", "x.go", "x := \"// Code generated by x. DO NOT EDIT.\"\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsGenerated(tt.path, tt.content, cfg); got != tt.want {
				t.Errorf("IsGenerated(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestPipelineCleanFile(t *testing.T) {
	ctx := New(nil, nil)
	file := ctx.CheckSource(cleanCsFile, cleanCsContent)

	if len(file.Tokens) == 0 {
		t.Fatal("Expected tokens")
	}
	if len(file.Violations) != 0 || ctx.Diagnostics.Len() != 0 {
		t.Errorf("Expected no findings, got %+v", file.Violations)
	}
}

func TestPipelineDirtyFile(t *testing.T) {
	ctx := New(nil, nil)
	file := ctx.CheckSource(dirtyCsFile, dirtyCsContent)

	if len(file.Violations) != 2 {
		t.Fatalf("Expected 2 violations, got %+v", file.Violations)
	}
	if v := file.Violations[0]; v.Rule != rules.NoTrailingWhitespace || v.Line != 1 || v.Column != 10 {
		t.Errorf("Unexpected first violation %+v", v)
	}
	if v := file.Violations[1]; v.Rule != rules.IndentUsingTabs || v.Line != 2 || v.Reason != rules.ReasonAfterOpenBrace {
		t.Errorf("Unexpected second violation %+v", v)
	}

	if ctx.Diagnostics.WarningCount() != 2 || ctx.HasErrors() || ctx.Failed() {
		t.Error("Expected two warnings and a passing run")
	}
}

func TestPipelineDisabledRuleAndSeverity(t *testing.T) {
	cfg := config.Default()
	cfg.SetRuleEnabled(rules.NoTrailingWhitespace, false)
	cfg.Rules[rules.IndentUsingTabs.String()] = config.RuleConfig{Severity: "error"}

	ctx := New(nil, cfg)
	file := ctx.CheckSource(dirtyCsFile, dirtyCsContent)

	if len(file.Violations) != 1 || file.Violations[0].Rule != rules.IndentUsingTabs {
		t.Fatalf("Expected only the indentation finding, got %+v", file.Violations)
	}
	if !ctx.HasErrors() || !ctx.Failed() {
		t.Error("Expected an error-severity finding to fail the run")
	}
}

func TestPipelineGeneratedFile(t *testing.T) {
	ctx := New(nil, nil)
	file := ctx.CheckSource("x.go", "// Code generated by hand. DO NOT EDIT.\n\npackage x  \n")

	if !file.Generated || len(file.Violations) != 0 {
		t.Errorf("Expected generated file to be skipped, got %+v", file)
	}
}

func TestPipelineLexerError(t *testing.T) {
	ctx := New(nil, nil)
	file := ctx.CheckSource("s.cs", "s = \"abc\n")

	if len(file.LexErrors) == 0 {
		t.Fatal("Expected a lexer error")
	}
	diags := ctx.Diagnostics.Diagnostics()
	if len(diags) == 0 || diags[0].Code != diagnostics.LexerErrorCode || diags[0].Severity != diagnostics.Warning {
		t.Errorf("Expected lexer warning first, got %+v", diags)
	}
}

func TestStrictFailsOnWarnings(t *testing.T) {
	ctx := New(&CheckOptions{Strict: true}, nil)
	ctx.CheckSource(dirtyCsFile, dirtyCsContent)

	if ctx.HasErrors() || !ctx.Failed() {
		t.Error("Expected strict mode to fail on warnings only")
	}
}

func TestCollectIsDeterministic(t *testing.T) {
	ctx := New(nil, nil)
	second := ctx.AddFile("b.cs", dirtyCsContent)
	first := ctx.AddFile("a.cs", "x \n")

	// Process out of order; output follows FileOrder
	for _, f := range []*SourceFile{first, second} {
		ctx.LexFile(f)
		ctx.CheckFile(f)
	}
	ctx.Collect()
	ctx.Collect()

	diags := ctx.Diagnostics.Diagnostics()
	if len(diags) != 3 {
		t.Fatalf("Expected 3 diagnostics, got %d", len(diags))
	}
	if diags[0].FilePath != "b.cs" || diags[2].FilePath != "a.cs" {
		t.Errorf("Expected FileOrder, got %s, %s", diags[0].FilePath, diags[2].FilePath)
	}
}

func TestEmitDiagnosticsJSON(t *testing.T) {
	cfg := config.Default()
	cfg.Format = "json"
	ctx := New(nil, cfg)
	ctx.CheckSource(dirtyCsFile, dirtyCsContent)

	var buf bytes.Buffer
	if err := ctx.EmitDiagnostics(&buf); err != nil {
		t.Fatalf(noErrorExpected, err)
	}
	if !strings.Contains(buf.String(), `"rule": "no-trailing-whitespace"`) {
		t.Errorf("Unexpected JSON output:\n%s", buf.String())
	}
}

func TestPipelineLiterals(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []rules.RuleID
	}{
		{"rune literal holding a quote", "var q = '\"'   \n", []rules.RuleID{rules.NoTrailingWhitespace}},
		{"raw string body is not code", "const doc = `{\n    \"a\": 1  \n}`\n", nil},
		{"trailing whitespace after raw string", "const doc = `a\n  b`  \n", []rules.RuleID{rules.NoTrailingWhitespace}},
		{"verbatim string body is not code", "var s = @\"{\n    x \"\" \t y\n\";\n", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := New(nil, nil)
			file := ctx.CheckSource("p.go", tt.content)

			if len(file.LexErrors) != 0 {
				t.Errorf("Unexpected lexer errors: %v", file.LexErrors)
			}
			if len(file.Violations) != len(tt.want) {
				t.Fatalf("Expected %v, got %+v", tt.want, file.Violations)
			}
			for i, r := range tt.want {
				if file.Violations[i].Rule != r {
					t.Errorf("Violation %d = %v, want %v", i, file.Violations[i].Rule, r)
				}
			}
		})
	}
}
