package diagnostics

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"wslint/colors"
)

// DiagnosticBag collects diagnostics for a whole run. Safe for concurrent use.
type DiagnosticBag struct {
	diagnostics []*Diagnostic
	filepath    string
	mu          sync.Mutex
	errorCount  int
	warnCount   int
	sources     map[string][]string
}

// NewDiagnosticBag creates a new diagnostic bag for a file
func NewDiagnosticBag(filepath string) *DiagnosticBag {
	return &DiagnosticBag{
		diagnostics: make([]*Diagnostic, 0),
		filepath:    filepath,
		sources:     make(map[string][]string),
	}
}

// Add adds a diagnostic to the bag
func (db *DiagnosticBag) Add(diag *Diagnostic) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.diagnostics = append(db.diagnostics, diag)

	// If this is the first diagnostic with a filepath, use it as the bag's filepath
	if db.filepath == "" && diag.FilePath != "" {
		db.filepath = diag.FilePath
	}

	switch diag.Severity {
	case Error:
		db.errorCount++
	case Warning:
		db.warnCount++
	}
}

// SetSource records the content of a file so rendering does not reread it from disk
func (db *DiagnosticBag) SetSource(filepath, content string) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.sources[filepath] = SplitLines(content)
}

// HasErrors returns true if there are any errors
func (db *DiagnosticBag) HasErrors() bool {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.errorCount > 0
}

// ErrorCount returns the number of errors
func (db *DiagnosticBag) ErrorCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.errorCount
}

// WarningCount returns the number of warnings
func (db *DiagnosticBag) WarningCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.warnCount
}

// Len returns the number of diagnostics of any severity
func (db *DiagnosticBag) Len() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.diagnostics)
}

// Diagnostics returns a snapshot of all diagnostics in the order they were added
func (db *DiagnosticBag) Diagnostics() []*Diagnostic {
	db.mu.Lock()
	defer db.mu.Unlock()
	out := make([]*Diagnostic, len(db.diagnostics))
	copy(out, db.diagnostics)
	return out
}

// EmitAllToWriter renders every diagnostic followed by a summary line
func (db *DiagnosticBag) EmitAllToWriter(w io.Writer) {
	emitter := NewEmitterWithWriter(w)

	db.mu.Lock()
	diagnostics := make([]*Diagnostic, len(db.diagnostics))
	copy(diagnostics, db.diagnostics)
	filepath := db.filepath
	for path, lines := range db.sources {
		emitter.SetSourceLines(path, lines)
	}
	errorCount, warnCount := db.errorCount, db.warnCount
	db.mu.Unlock()

	for _, diag := range diagnostics {
		emitter.Emit(filepath, diag)
	}

	printSummary(w, errorCount, warnCount)
}

// EmitAllToString renders to a string, with ANSI codes when colors are enabled
func (db *DiagnosticBag) EmitAllToString() string {
	var buf bytes.Buffer
	db.EmitAllToWriter(&buf)
	return buf.String()
}

// EmitAllToHTML emits all diagnostics to an HTML string
func (db *DiagnosticBag) EmitAllToHTML() string {
	return colors.ConvertANSIToHTML(db.EmitAllToString())
}

type jsonDiagnostic struct {
	File     string `json:"file"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Code     string `json:"code,omitempty"`
	Rule     string `json:"rule,omitempty"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

type jsonReport struct {
	Diagnostics []jsonDiagnostic `json:"diagnostics"`
	Errors      int              `json:"errors"`
	Warnings    int              `json:"warnings"`
}

// EmitJSON writes all diagnostics as a single JSON document
func (db *DiagnosticBag) EmitJSON(w io.Writer) error {
	db.mu.Lock()
	report := jsonReport{
		Diagnostics: make([]jsonDiagnostic, 0, len(db.diagnostics)),
		Errors:      db.errorCount,
		Warnings:    db.warnCount,
	}
	for _, d := range db.diagnostics {
		jd := jsonDiagnostic{
			File:     d.FilePath,
			Code:     d.Code,
			Rule:     d.Rule,
			Severity: d.Severity.String(),
			Message:  d.Message,
		}
		if loc := d.Primary(); loc != nil && loc.Start != nil {
			jd.Line = loc.Start.Line
			jd.Column = loc.Start.Column
		}
		report.Diagnostics = append(report.Diagnostics, jd)
	}
	db.mu.Unlock()

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encode diagnostics: %w", err)
	}
	return nil
}

func printSummary(w io.Writer, errorCount, warnCount int) {
	if errorCount > 0 {
		fmt.Fprintf(w, "\nCheck failed with %d error(s)", errorCount)
		if warnCount > 0 {
			fmt.Fprintf(w, " and %d warning(s)", warnCount)
		}
		fmt.Fprintln(w)
	} else if warnCount > 0 {
		fmt.Fprintf(w, "\nCheck passed with %d warning(s)\n", warnCount)
	}
}

// Clear removes all diagnostics
func (db *DiagnosticBag) Clear() {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.diagnostics = make([]*Diagnostic, 0)
	db.errorCount = 0
	db.warnCount = 0
}
