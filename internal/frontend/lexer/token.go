package lexer

import (
	"strconv"

	"wslint/internal/source"
)

// TOKEN is the classification of a lexical unit
type TOKEN string

const (
	WHITESPACE_TOKEN TOKEN = "WHITESPACE"
	EOL_TOKEN        TOKEN = "EOL"
	OPEN_CURLY       TOKEN = "{"
	CLOSE_CURLY      TOKEN = "}"
	STRING_TOKEN     TOKEN = "STRING" // string and rune literals; multi-line ones come one segment per line
	COMMENT_TOKEN    TOKEN = "COMMENT"
	OTHER_TOKEN      TOKEN = "OTHER"
)

// Token is a verbatim slice of the source. Value holds the exact characters,
// so joining every Value of a file reproduces the file.
type Token struct {
	Kind  TOKEN
	Value string
	Start source.Position
	End   source.Position
}

// Line is the 1-based line the token starts on.
func (t Token) Line() int {
	return t.Start.Line
}

func (t Token) IsWhitespace() bool {
	return t.Kind == WHITESPACE_TOKEN
}

func (t Token) IsEndOfLine() bool {
	return t.Kind == EOL_TOKEN
}

func (t Token) String() string {
	return string(t.Kind) + " " + strconv.Quote(t.Value) + " @" + source.NewLocation(&t.Start, &t.End).String()
}
