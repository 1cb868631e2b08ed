package context

import (
	"wslint/internal/diagnostics"
	"wslint/internal/frontend/lexer"
	"wslint/internal/rules"
)

// LexFile tokenizes a single source file. Tokenizer errors are kept on the file;
// the scan still runs over the best-effort tokens.
func (ctx *CheckContext) LexFile(file *SourceFile) {
	tokenizer := lexer.New(file.Path, file.Content)
	tokenizer.Logger = ctx.Logger

	file.Tokens = tokenizer.Tokenize(ctx.Options.Debug)
	file.LexErrors = tokenizer.Errors

	ctx.Logger.Debug("tokenized", "path", file.Path, "tokens", len(file.Tokens), "errors", len(file.LexErrors))
}

// CheckFile scans a tokenized file and keeps the violations of enabled rules.
func (ctx *CheckContext) CheckFile(file *SourceFile) {
	file.Violations = nil
	if file.Generated {
		ctx.Logger.Debug("skipping generated file", "path", file.Path)
		return
	}

	rules.ScanFunc(file, ctx.Config.ScanOptions(), func(v rules.Violation) {
		if ctx.Config.RuleEnabled(v.Rule) {
			file.Violations = append(file.Violations, v)
		}
	})

	ctx.Logger.Debug("scanned", "path", file.Path, "violations", len(file.Violations))
}

// Collect turns every file's results into diagnostics, file by file in FileOrder.
// The bag is rebuilt on every call.
func (ctx *CheckContext) Collect() {
	ctx.Diagnostics.Clear()
	for _, file := range ctx.GetAllFiles() {
		ctx.Diagnostics.SetSource(file.Path, file.Content)

		for _, err := range file.LexErrors {
			ctx.Diagnostics.Add(diagnostics.LexerError(file.Path, err))
		}
		for _, v := range file.Violations {
			ctx.Diagnostics.Add(diagnostics.FromViolation(file.Path, v, ctx.Config.Severity(v.Rule)))
		}
	}
}

// CheckSource runs the whole pipeline over in-memory content, for hosts without a
// file system.
func (ctx *CheckContext) CheckSource(path, content string) *SourceFile {
	file := ctx.AddFile(path, content)
	ctx.LexFile(file)
	ctx.CheckFile(file)
	ctx.Collect()
	return file
}
