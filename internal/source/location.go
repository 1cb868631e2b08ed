// Package source holds file positions shared by the lexer and the diagnostics renderer.
package source

import "fmt"

// Position is a 1-based line and column in a source file.
// Columns count characters, so a tab is one column.
type Position struct {
	Line   int
	Column int
}

// Location spans from Start up to (not including) End on the same or a later line.
type Location struct {
	Start *Position
	End   *Position
}

// NewLocation creates a location between two positions
func NewLocation(start, end *Position) *Location {
	return &Location{
		Start: start,
		End:   end,
	}
}

// Span creates a single-line location of length characters starting at line:col.
func Span(line, col, length int) *Location {
	if length < 1 {
		length = 1
	}
	return NewLocation(
		&Position{Line: line, Column: col},
		&Position{Line: line, Column: col + length},
	)
}

func (l *Location) String() string {
	if l == nil || l.Start == nil {
		return "-"
	}
	return fmt.Sprintf("%d:%d", l.Start.Line, l.Start.Column)
}
