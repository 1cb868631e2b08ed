// Package rules implements the line-whitespace scanner: a single forward pass over a
// document's tokens that reports trailing whitespace, space indentation, spaces before
// tabs and (opt-in) indentation that deepens by more than one tab.
//
// The scanner owns no configuration and no output format. Hosts decide which rules
// are enabled and how violations are shown.
package rules

import (
	"strings"
	"unicode/utf8"

	"wslint/internal/frontend/lexer"
)

// Document is what the host hands to the scanner.
type Document interface {
	// TokenStream returns every token of the document in source order, with
	// Value holding the verbatim source text.
	TokenStream() []lexer.Token
	// IsGenerated reports whether the document is exempt from analysis.
	IsGenerated() bool
}

// TokenDocument is a Document backed by a token slice.
type TokenDocument struct {
	Tokens    []lexer.Token
	Generated bool
}

func (d *TokenDocument) TokenStream() []lexer.Token { return d.Tokens }
func (d *TokenDocument) IsGenerated() bool          { return d.Generated }

// Options tunes the scanner.
type Options struct {
	// EnforceOneTabIndent emits OneTabIndent. The check is always computed but stays
	// silent by default: it cannot yet tell a real over-indent from tab-then-space
	// alignment under an expression that started further right on the previous line.
	EnforceOneTabIndent bool
}

// Violation is a single finding. Column and Length locate the offending whitespace
// in characters of the raw line (a tab counts as one).
type Violation struct {
	Rule   RuleID
	Line   int
	Column int
	Length int
	Reason Reason

	// PrevLine and PrevColumn point at the last character of the previous line
	// when Reason is ReasonPastPreviousLine.
	PrevLine   int
	PrevColumn int
}

// scanState is the per-document state of one pass. It never outlives Scan.
type scanState struct {
	lastWasWhitespace bool
	lastWasEndOfLine  bool
	firstToken        bool
	prevIndent        string
	prevLineLength    int
	prevLineNumber    int
	curLineLength     int
	lastNonWhitespace *lexer.Token

	lastWhitespaceColumn int
	lastWhitespaceLength int
}

// Scan runs the pass and returns violations in the order they were found.
func Scan(doc Document, opts Options) []Violation {
	var out []Violation
	ScanFunc(doc, opts, func(v Violation) {
		out = append(out, v)
	})
	return out
}

// ScanFunc runs the pass and calls report once per violation, in source order.
func ScanFunc(doc Document, opts Options, report func(Violation)) {
	if doc == nil || doc.IsGenerated() {
		return
	}

	st := &scanState{firstToken: true}
	tokens := doc.TokenStream()
	for i := range tokens {
		st.step(&tokens[i], opts, report)
	}
}

func (st *scanState) step(tok *lexer.Token, opts Options, report func(Violation)) {
	startOfLine := st.lastWasEndOfLine || st.firstToken
	column := st.curLineLength + 1
	length := utf8.RuneCountInString(tok.Value)
	st.curLineLength += length
	line := tok.Line()

	if tok.IsWhitespace() {
		if idx := strings.Index(tok.Value, " \t"); idx >= 0 {
			report(Violation{
				Rule:   NoSpacesBeforeTabs,
				Line:   line,
				Column: column + utf8.RuneCountInString(tok.Value[:idx]),
				Length: 2,
			})
		}
	}

	if tok.IsWhitespace() && startOfLine {
		st.checkIndent(tok, line, length, opts, report)
		st.prevIndent = tok.Value
	}

	if tok.IsEndOfLine() && st.lastWasWhitespace {
		report(Violation{
			Rule:   NoTrailingWhitespace,
			Line:   line,
			Column: st.lastWhitespaceColumn,
			Length: st.lastWhitespaceLength,
		})
	}

	st.lastWasEndOfLine = tok.IsEndOfLine()
	st.lastWasWhitespace = tok.IsWhitespace()
	st.firstToken = false
	if tok.IsWhitespace() {
		st.lastWhitespaceColumn = column
		st.lastWhitespaceLength = length
	} else if !tok.IsEndOfLine() {
		st.lastNonWhitespace = tok
	}

	if tok.IsEndOfLine() {
		st.prevLineLength = st.curLineLength
		st.prevLineNumber = line
		st.curLineLength = 0
	}
}

// checkIndent applies the indentation rules to the whitespace that opens a line.
func (st *scanState) checkIndent(tok *lexer.Token, line, length int, opts Options, report func(Violation)) {
	tabsThis := leadingRun(tok.Value, '\t')
	tabsLast := leadingRun(st.prevIndent, '\t')

	if tabsThis > tabsLast+1 && opts.EnforceOneTabIndent {
		report(Violation{
			Rule:   OneTabIndent,
			Line:   line,
			Column: tabsLast + 2,
			Length: tabsThis - tabsLast - 1,
		})
	}

	if !strings.Contains(tok.Value, " ") {
		return
	}

	indent := Violation{Rule: IndentUsingTabs, Line: line, Column: 1, Length: length}

	if tabsThis < tabsLast {
		indent.Reason = ReasonFewerTabs
		report(indent)
		return
	}

	// -1 drops the terminator of the previous line.
	lastContent := st.prevLineLength - tabsLast - 1
	spacesThis := leadingRun(tok.Value[tabsThis:], ' ')
	if spacesThis > lastContent {
		indent.Reason = ReasonPastPreviousLine
		indent.PrevLine = st.prevLineNumber
		indent.PrevColumn = max(st.prevLineLength-1, 1)
		report(indent)
		return
	}

	if st.lastNonWhitespace != nil && st.lastNonWhitespace.Kind == lexer.OPEN_CURLY {
		indent.Reason = ReasonAfterOpenBrace
		report(indent)
	}
}

func leadingRun(s string, c byte) int {
	n := 0
	for n < len(s) && s[n] == c {
		n++
	}
	return n
}
