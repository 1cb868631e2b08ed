// Package lexer splits source text into a whitespace-preserving token stream.
//
// Unlike a compiler lexer nothing is discarded: blanks, line terminators and
// comments all come out as tokens, and every token's Value is the verbatim
// source text. Style rules downstream rely on that to measure lines.
package lexer

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"wslint/internal/source"
)

var (
	ErrUnterminatedString  = errors.New("unterminated string literal")
	ErrUnterminatedComment = errors.New("unterminated block comment")
)

// Tokenizer holds the cursor state for one file. It is not safe for concurrent use;
// create one per file.
type Tokenizer struct {
	Path   string
	Errors []error
	Logger *slog.Logger

	src     string
	pos     int
	line    int
	col     int
	inBlock bool
	tokens  []Token

	// inRaw is the closing delimiter of the open multi-line literal, 0 when none.
	// rawStart is where that literal began, for error reporting.
	inRaw    byte
	rawStart source.Position
}

// New creates a tokenizer for content read from path.
func New(path, content string) *Tokenizer {
	return &Tokenizer{
		Path: path,
		src:  content,
		line: 1,
		col:  1,
	}
}

// Tokenize consumes the whole input and returns its tokens in source order.
// With debug set every token is logged at debug level.
func (t *Tokenizer) Tokenize(debug bool) []Token {
	for t.pos < len(t.src) {
		t.next()
	}

	if t.inBlock {
		t.errorf(t.line, t.col, ErrUnterminatedComment)
	}
	if t.inRaw != 0 {
		t.errorf(t.rawStart.Line, t.rawStart.Column, ErrUnterminatedString)
	}

	if debug {
		logger := t.Logger
		if logger == nil {
			logger = slog.Default()
		}
		for _, tok := range t.tokens {
			logger.Debug("token", "path", t.Path, "token", tok.String())
		}
	}

	return t.tokens
}

func (t *Tokenizer) next() {
	c := t.src[t.pos]

	if c == '\n' || c == '\r' {
		t.endOfLine()
		return
	}

	if t.inRaw != 0 {
		t.rawString(0)
		return
	}

	if t.inBlock {
		if t.col == 1 && isBlank(c) {
			t.whitespace()
			return
		}
		t.blockComment(0)
		return
	}

	rest := t.src[t.pos:]
	switch {
	case isBlank(c):
		t.whitespace()
	case c == '{':
		t.emit(OPEN_CURLY, t.pos+1)
	case c == '}':
		t.emit(CLOSE_CURLY, t.pos+1)
	case c == '"':
		t.stringLiteral()
	case c == '\'':
		t.charLiteral()
	case c == '`':
		t.openRaw('`', 1)
	case strings.HasPrefix(rest, `@"`):
		t.openRaw('"', 2)
	case strings.HasPrefix(rest, `$@"`), strings.HasPrefix(rest, `@$"`):
		t.openRaw('"', 3)
	case strings.HasPrefix(rest, "//"):
		t.lineComment()
	case strings.HasPrefix(rest, "/*"):
		t.inBlock = true
		t.blockComment(2)
	default:
		t.other()
	}
}

func (t *Tokenizer) endOfLine() {
	end := t.pos + 1
	if t.src[t.pos] == '\r' && end < len(t.src) && t.src[end] == '\n' {
		end++
	}
	t.emit(EOL_TOKEN, end)
	t.line++
	t.col = 1
}

func (t *Tokenizer) whitespace() {
	end := t.pos
	for end < len(t.src) && isBlank(t.src[end]) {
		end++
	}
	t.emit(WHITESPACE_TOKEN, end)
}

func (t *Tokenizer) other() {
	end := t.pos
	for end < len(t.src) {
		c := t.src[end]
		if isBlank(c) || isBreak(c) || c == '{' || c == '}' || c == '"' || c == '\'' || c == '`' {
			break
		}
		if c == '/' && end+1 < len(t.src) && (t.src[end+1] == '/' || t.src[end+1] == '*') {
			break
		}
		if rest := t.src[end:]; strings.HasPrefix(rest, `@"`) || strings.HasPrefix(rest, `@$"`) || strings.HasPrefix(rest, `$@"`) {
			break
		}
		end++
	}
	t.emit(OTHER_TOKEN, end)
}

// stringLiteral reads a double-quoted literal. Literals never span lines; one
// that reaches the end of the line is closed there and reported.
func (t *Tokenizer) stringLiteral() {
	line, col := t.line, t.col
	end := t.pos + 1
	closed := false
	for end < len(t.src) {
		c := t.src[end]
		if c == '\\' && end+1 < len(t.src) && !isBreak(t.src[end+1]) {
			end += 2
			continue
		}
		if isBreak(c) {
			break
		}
		end++
		if c == '"' {
			closed = true
			break
		}
	}
	if !closed {
		t.errorf(line, col, ErrUnterminatedString)
	}
	t.emit(STRING_TOKEN, end)
}

// charLiteral reads a single-quoted literal with backslash escapes. A quote that
// is not closed on the same line stays a lone OTHER token, so apostrophes and
// C++ digit separators never swallow the rest of the line.
func (t *Tokenizer) charLiteral() {
	end := t.pos + 1
	for end < len(t.src) && !isBreak(t.src[end]) {
		c := t.src[end]
		if c == '\\' && end+1 < len(t.src) && !isBreak(t.src[end+1]) {
			end += 2
			continue
		}
		end++
		if c == '\'' {
			t.emit(STRING_TOKEN, end)
			return
		}
	}
	t.emit(OTHER_TOKEN, t.pos+1)
}

// openRaw starts a literal that may span lines: a Go raw string (closed by '`')
// or a C# verbatim string (closed by '"', with "" as an escaped quote). skip is
// the length of the opener.
func (t *Tokenizer) openRaw(closing byte, skip int) {
	t.inRaw = closing
	t.rawStart = source.Position{Line: t.line, Column: t.col}
	t.rawString(skip)
}

// rawString emits the part of a multi-line literal that lies on the current line
// as one STRING token. Line terminators inside it still come out as EOL tokens,
// but the whitespace that follows them stays inside the literal.
func (t *Tokenizer) rawString(skip int) {
	end := t.pos + skip
	for end < len(t.src) && !isBreak(t.src[end]) {
		c := t.src[end]
		end++
		if c != t.inRaw {
			continue
		}
		if c == '"' && end < len(t.src) && t.src[end] == '"' {
			end++
			continue
		}
		t.inRaw = 0
		break
	}
	t.emit(STRING_TOKEN, end)
}

func (t *Tokenizer) lineComment() {
	end := t.pos
	for end < len(t.src) && !isBreak(t.src[end]) {
		end++
	}
	t.emitTrimmed(COMMENT_TOKEN, end)
}

// blockComment emits the part of a block comment that lies on the current line.
// skip is the number of bytes already known to belong to the comment opener.
func (t *Tokenizer) blockComment(skip int) {
	end := t.pos + skip
	for end < len(t.src) && !isBreak(t.src[end]) {
		if t.src[end] == '*' && end+1 < len(t.src) && t.src[end+1] == '/' {
			end += 2
			t.inBlock = false
			break
		}
		end++
	}
	t.emitTrimmed(COMMENT_TOKEN, end)
}

// emitTrimmed emits src[pos:end] as kind, splitting off trailing blanks as a
// separate whitespace token.
func (t *Tokenizer) emitTrimmed(kind TOKEN, end int) {
	cut := end
	for cut > t.pos && isBlank(t.src[cut-1]) {
		cut--
	}
	if cut > t.pos {
		t.emit(kind, cut)
	}
	if cut < end {
		t.emit(WHITESPACE_TOKEN, end)
	}
}

func (t *Tokenizer) emit(kind TOKEN, end int) {
	value := t.src[t.pos:end]
	start := source.Position{Line: t.line, Column: t.col}
	t.col += utf8.RuneCountInString(value)
	t.tokens = append(t.tokens, Token{
		Kind:  kind,
		Value: value,
		Start: start,
		End:   source.Position{Line: t.line, Column: t.col},
	})
	t.pos = end
}

func (t *Tokenizer) errorf(line, col int, err error) {
	t.Errors = append(t.Errors, fmt.Errorf("%s:%d:%d: %w", t.Path, line, col, err))
}

func isBlank(c byte) bool {
	return c == ' ' || c == '\t' || c == '\v' || c == '\f'
}

func isBreak(c byte) bool {
	return c == '\n' || c == '\r'
}
