// Package context holds the state of one check run.
//
// A CheckContext owns every SourceFile of the run together with the diagnostic bag.
// The phases in pipeline.go are stateless workers over a single SourceFile, so
// different files may be processed concurrently; Collect then merges the results in
// FileOrder, which keeps the output independent of scheduling.
package context

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"wslint/internal/config"
	"wslint/internal/diagnostics"
	"wslint/internal/frontend/lexer"
	"wslint/internal/rules"
)

var ErrNoSuchPath = errors.New("no such file or directory")

// CheckOptions are the run-wide switches that do not live in the config file.
type CheckOptions struct {
	Debug  bool // Log every phase and token at debug level
	Strict bool // Treat any finding as a failure, whatever its severity
}

// CheckContext is the central hub for all state of a run.
type CheckContext struct {
	Diagnostics *diagnostics.DiagnosticBag

	// Files maps the path as discovered to its SourceFile
	Files map[string]*SourceFile

	// FileOrder tracks the order files were added, for deterministic output
	FileOrder []string

	Options *CheckOptions
	Config  *config.Config
	Logger  *slog.Logger

	mu sync.RWMutex
}

// SourceFile is one document moving through the pipeline. It implements
// rules.Document.
type SourceFile struct {
	Path      string
	Content   string
	Generated bool

	Tokens     []lexer.Token
	LexErrors  []error
	Violations []rules.Violation
}

func (f *SourceFile) TokenStream() []lexer.Token { return f.Tokens }
func (f *SourceFile) IsGenerated() bool          { return f.Generated }

// New starts a run. Nil options and config fall back to defaults.
func New(options *CheckOptions, cfg *config.Config) *CheckContext {
	if options == nil {
		options = &CheckOptions{}
	}
	if cfg == nil {
		cfg = config.Default()
	}

	return &CheckContext{
		Diagnostics: diagnostics.NewDiagnosticBag(""),
		Files:       make(map[string]*SourceFile),
		FileOrder:   make([]string, 0),
		Options:     options,
		Config:      cfg,
		Logger:      slog.Default(),
	}
}

// AddFile registers a source file. Adding a path twice returns the existing file.
func (ctx *CheckContext) AddFile(path string, content string) *SourceFile {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()

	if file, ok := ctx.Files[path]; ok {
		return file
	}

	file := &SourceFile{
		Path:      path,
		Content:   content,
		Generated: IsGenerated(path, content, ctx.Config),
	}

	ctx.Files[path] = file
	ctx.FileOrder = append(ctx.FileOrder, path)

	return file
}

// GetFile returns nil if the file hasn't been registered.
func (ctx *CheckContext) GetFile(path string) *SourceFile {
	ctx.mu.RLock()
	defer ctx.mu.RUnlock()
	return ctx.Files[path]
}

// GetAllFiles returns all registered files in the order they were added.
func (ctx *CheckContext) GetAllFiles() []*SourceFile {
	ctx.mu.RLock()
	defer ctx.mu.RUnlock()

	files := make([]*SourceFile, 0, len(ctx.FileOrder))
	for _, path := range ctx.FileOrder {
		files = append(files, ctx.Files[path])
	}
	return files
}

// HasErrors returns true if any error-severity diagnostic has been collected.
func (ctx *CheckContext) HasErrors() bool {
	return ctx.Diagnostics.HasErrors()
}

// Failed decides the outcome of the run once Collect has run.
func (ctx *CheckContext) Failed() bool {
	if ctx.Options.Strict {
		return ctx.Diagnostics.Len() > 0
	}
	return ctx.HasErrors()
}

// EmitDiagnostics writes the collected diagnostics in the configured format.
func (ctx *CheckContext) EmitDiagnostics(w io.Writer) error {
	if ctx.Config.Format == "json" {
		return ctx.Diagnostics.EmitJSON(w)
	}
	ctx.Diagnostics.EmitAllToWriter(w)
	return nil
}

// DiscoverFiles registers every file named by paths. Files are taken as given;
// directories are walked in lexical order, skipping excluded entries and files
// without a configured extension.
func (ctx *CheckContext) DiscoverFiles(paths ...string) error {
	for _, p := range paths {
		p = filepath.Clean(p)
		info, err := os.Stat(p)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("%w: %s", ErrNoSuchPath, p)
			}
			return fmt.Errorf("failed to stat %s: %w", p, err)
		}

		if !info.IsDir() {
			if err := ctx.addFromDisk(p); err != nil {
				return err
			}
			continue
		}

		if err := ctx.walkDir(p); err != nil {
			return err
		}
	}

	ctx.Logger.Debug("discovered files", "count", len(ctx.FileOrder))
	return nil
}

func (ctx *CheckContext) walkDir(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("failed to walk %s: %w", path, err)
		}
		if path != root && ctx.Config.Excluded(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() || !ctx.Config.Matches(path) {
			return nil
		}
		return ctx.addFromDisk(path)
	})
}

func (ctx *CheckContext) addFromDisk(path string) error {
	if ctx.GetFile(path) != nil {
		return nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", path, err)
	}

	file := ctx.AddFile(path, string(content))
	ctx.Logger.Debug("registered", "path", path, "bytes", len(content), "generated", file.Generated)
	return nil
}
