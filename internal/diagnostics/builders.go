package diagnostics

import (
	"fmt"

	"wslint/internal/rules"
	"wslint/internal/source"
)

// Lexer diagnostics use this code. They are never fatal: the file is still checked.
const LexerErrorCode = "L0001"

// FromViolation turns a scanner finding into a renderable diagnostic
func FromViolation(filepath string, v rules.Violation, severity Severity) *Diagnostic {
	loc := source.Span(v.Line, v.Column, v.Length)
	d := New(severity, v.Rule.Description()).
		WithCode(v.Rule.Code()).
		WithRule(v.Rule.String())

	switch v.Rule {
	case rules.NoTrailingWhitespace:
		return d.WithPrimaryLabel(filepath, loc, "remove this").
			WithHelp("strip whitespace at the end of the line")

	case rules.NoSpacesBeforeTabs:
		return d.WithPrimaryLabel(filepath, loc, "space followed by tab").
			WithHelp("delete the space; a tab already moves to the next stop")

	case rules.OneTabIndent:
		return d.WithPrimaryLabel(filepath, loc, fmt.Sprintf("%d extra tab(s)", v.Length)).
			WithNote("align continuation lines with spaces after the previous line's tabs").
			WithHelp("indent one tab deeper than the line above")

	case rules.IndentUsingTabs:
		return indentDiagnostic(d, filepath, loc, v)
	}

	return d.WithPrimaryLabel(filepath, loc, "")
}

func indentDiagnostic(d *Diagnostic, filepath string, loc *source.Location, v rules.Violation) *Diagnostic {
	switch v.Reason {
	case rules.ReasonFewerTabs:
		return d.WithPrimaryLabel(filepath, loc, "spaces in indentation").
			WithNote("this line has fewer leading tabs than the previous one, so nothing above lines up with it").
			WithHelp("indent with tabs only")

	case rules.ReasonPastPreviousLine:
		d.WithPrimaryLabel(filepath, loc, "spaces reach past the previous line")
		if v.PrevLine > 0 {
			d.WithSecondaryLabel(filepath, source.Span(v.PrevLine, v.PrevColumn, 1), "previous line ends here")
		}
		return d.WithNote("spaces may only align with text on the line above").
			WithHelp("replace the leading spaces with tabs")

	case rules.ReasonAfterOpenBrace:
		return d.WithPrimaryLabel(filepath, loc, "spaces in indentation").
			WithNote("the previous line opened a block").
			WithHelp("start a new block with tab indentation only")
	}

	return d.WithPrimaryLabel(filepath, loc, "spaces in indentation")
}

// LexerError wraps a tokenizer error
func LexerError(filepath string, err error) *Diagnostic {
	d := NewWarning(err.Error()).WithCode(LexerErrorCode)
	d.FilePath = filepath
	return d.WithNote("whitespace checks continue with best-effort tokens")
}
