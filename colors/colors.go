// Package colors provides ANSI terminal colours for diagnostic output.
package colors

import (
	"fmt"
	"html"
	"io"
	"regexp"
	"strings"
)

// COLOR is an ANSI SGR escape sequence.
type COLOR string

const (
	RESET COLOR = "\033[0m"

	RED    COLOR = "\033[31m"
	GREEN  COLOR = "\033[32m"
	YELLOW COLOR = "\033[33m"
	BLUE   COLOR = "\033[34m"
	PURPLE COLOR = "\033[35m"
	CYAN   COLOR = "\033[36m"
	GREY   COLOR = "\033[90m"

	BOLD_RED    COLOR = "\033[1;31m"
	BOLD_GREEN  COLOR = "\033[1;32m"
	BOLD_YELLOW COLOR = "\033[1;33m"
	BOLD_BLUE   COLOR = "\033[1;34m"
	BOLD_PURPLE COLOR = "\033[1;35m"
	BOLD_CYAN   COLOR = "\033[1;36m"
)

// Enabled toggles colour output globally. When false every helper writes plain text.
var Enabled = true

// Sprint wraps the formatted operands in the colour.
func (c COLOR) Sprint(a ...any) string {
	s := fmt.Sprint(a...)
	if !Enabled || s == "" {
		return s
	}
	return string(c) + s + string(RESET)
}

func (c COLOR) Fprint(w io.Writer, a ...any) {
	fmt.Fprint(w, c.Sprint(a...))
}

func (c COLOR) Fprintf(w io.Writer, format string, a ...any) {
	fmt.Fprint(w, c.Sprint(fmt.Sprintf(format, a...)))
}

func (c COLOR) Fprintln(w io.Writer, a ...any) {
	fmt.Fprintln(w, c.Sprint(a...))
}

var ansiPattern = regexp.MustCompile("\033\\[([0-9;]*)m")

var htmlClasses = map[string]string{
	"31": "red", "32": "green", "33": "yellow", "34": "blue",
	"35": "purple", "36": "cyan", "90": "grey",
}

// ConvertANSIToHTML turns the escape sequences produced by this package into
// <span class="..."> elements. Text is HTML-escaped.
func ConvertANSIToHTML(s string) string {
	var b strings.Builder
	open := false
	last := 0
	for _, m := range ansiPattern.FindAllStringSubmatchIndex(s, -1) {
		b.WriteString(html.EscapeString(s[last:m[0]]))
		last = m[1]

		if open {
			b.WriteString("</span>")
			open = false
		}

		code := s[m[2]:m[3]]
		if code == "" || code == "0" {
			continue
		}

		var classes []string
		for _, part := range strings.Split(code, ";") {
			if part == "1" {
				classes = append(classes, "bold")
			} else if name, ok := htmlClasses[part]; ok {
				classes = append(classes, name)
			}
		}
		if len(classes) > 0 {
			fmt.Fprintf(&b, `<span class="%s">`, strings.Join(classes, " "))
			open = true
		}
	}
	b.WriteString(html.EscapeString(s[last:]))
	if open {
		b.WriteString("</span>")
	}
	return b.String()
}
