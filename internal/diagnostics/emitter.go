package diagnostics

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"wslint/colors"
)

const (
	STR_MULTIPLIER = "%*d | "

	// Tabs are expanded to this width when a source line is echoed, so that
	// underlines land under the right characters.
	defaultTabWidth = 4
)

// SourceCache caches source file contents for error reporting
type SourceCache struct {
	files map[string][]string
}

func NewSourceCache() *SourceCache {
	return &SourceCache{
		files: make(map[string][]string),
	}
}

// Set seeds the cache with in-memory content, used when there is no file on disk
func (sc *SourceCache) Set(filepath string, lines []string) {
	sc.files[filepath] = lines
}

// GetLine retrieves a specific line from a source file
func (sc *SourceCache) GetLine(filepath string, line int) (string, error) {
	lines, ok := sc.files[filepath]
	if !ok {
		loaded, err := loadLines(filepath)
		if err != nil {
			return "", err
		}
		sc.files[filepath] = loaded
		lines = loaded
	}

	if line > 0 && line <= len(lines) {
		return lines[line-1], nil
	}
	return "", fmt.Errorf("line %d out of range", line)
}

func loadLines(filepath string) ([]string, error) {
	content, err := os.ReadFile(filepath)
	if err != nil {
		return nil, err
	}
	return SplitLines(string(content)), nil
}

// SplitLines splits content the way the lexer numbers lines: at "\n", "\r\n" or a lone "\r"
func SplitLines(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	return strings.Split(strings.TrimSuffix(content, "\n"), "\n")
}

// Emitter handles the rendering and output of diagnostics
type Emitter struct {
	w        io.Writer
	cache    *SourceCache
	TabWidth int
}

// labelContext groups parameters for printing one underlined line
type labelContext struct {
	filepath     string
	line         int
	label        Label
	lineNumWidth int
	severity     Severity
}

func NewEmitterWithWriter(w io.Writer) *Emitter {
	return &Emitter{
		w:        w,
		cache:    NewSourceCache(),
		TabWidth: defaultTabWidth,
	}
}

// SetSourceLines pre-populates the source cache for filepath
func (e *Emitter) SetSourceLines(filepath string, lines []string) {
	e.cache.Set(filepath, lines)
}

// Emit renders one diagnostic
func (e *Emitter) Emit(filepath string, diag *Diagnostic) {
	// Use filepath from diagnostic if available, otherwise use parameter
	if diag.FilePath != "" {
		filepath = diag.FilePath
	}

	e.printHeader(diag)

	if len(diag.Labels) > 0 {
		var primary *Label
		secondaries := []Label{}
		for i, label := range diag.Labels {
			if label.Style == Primary && primary == nil {
				primary = &diag.Labels[i]
			} else {
				secondaries = append(secondaries, label)
			}
		}

		switch {
		case primary == nil:
			for _, label := range diag.Labels {
				e.printLabel(filepath, label, diag.Severity)
			}
		case len(secondaries) == 0:
			e.printLabel(filepath, *primary, diag.Severity)
		default:
			e.printRoutedLabels(filepath, *primary, secondaries, diag.Severity)
		}
	} else if filepath != "" {
		colors.BLUE.Fprintf(e.w, "  --> %s\n", filepath)
	}

	for _, note := range diag.Notes {
		e.printNote(note)
	}

	if diag.Help != "" {
		e.printHelp(diag.Help)
	}

	fmt.Fprintln(e.w)
}

func (e *Emitter) printHeader(diag *Diagnostic) {
	color := headerColor(diag.Severity)

	color.Fprint(e.w, diag.Severity.String())
	if diag.Code != "" {
		fmt.Fprintf(e.w, "[%s]", diag.Code)
	}
	fmt.Fprint(e.w, ": ")
	color.Fprintln(e.w, diag.Message)
}

func (e *Emitter) printLabel(filepath string, label Label, severity Severity) {
	if label.Location == nil || label.Location.Start == nil {
		return
	}

	start := label.Location.Start
	colors.BLUE.Fprintf(e.w, "  --> %s:%d:%d\n", filepath, start.Line, start.Column)

	lineNumWidth := len(fmt.Sprintf("%d", start.Line))
	e.printGutter(lineNumWidth)

	// Show the previous line for context when it has content
	if start.Line > 1 {
		prevLine, err := e.cache.GetLine(filepath, start.Line-1)
		if err == nil && strings.TrimSpace(prevLine) != "" {
			colors.GREY.Fprintf(e.w, STR_MULTIPLIER, lineNumWidth, start.Line-1)
			colors.GREY.Fprintln(e.w, e.expandTabs(prevLine))
		}
	}

	e.printLabeledLine(labelContext{
		filepath:     filepath,
		line:         start.Line,
		label:        label,
		lineNumWidth: lineNumWidth,
		severity:     severity,
	})

	e.printGutter(lineNumWidth)
}

// printLabeledLine echoes a source line and underlines the label beneath it
func (e *Emitter) printLabeledLine(ctx labelContext) {
	sourceLine, err := e.cache.GetLine(ctx.filepath, ctx.line)
	if err != nil {
		return
	}

	colors.GREY.Fprintf(e.w, STR_MULTIPLIER, ctx.lineNumWidth, ctx.line)
	fmt.Fprintln(e.w, e.expandTabs(sourceLine))

	loc := ctx.label.Location
	startCol := loc.Start.Column
	endCol := startCol + 1
	if loc.End != nil && loc.End.Line == loc.Start.Line && loc.End.Column > startCol {
		endCol = loc.End.Column
	}

	padding := e.displayColumn(sourceLine, startCol) - 1
	length := e.displayColumn(sourceLine, endCol) - 1 - padding
	if length <= 0 {
		length = 1
	}

	color := underlineColor(ctx.label.Style, ctx.severity)
	char := underlineChar(ctx.label.Style, length)

	colors.GREY.Fprint(e.w, strings.Repeat(" ", ctx.lineNumWidth))
	colors.GREY.Fprint(e.w, " | ")
	fmt.Fprint(e.w, strings.Repeat(" ", padding))
	color.Fprint(e.w, strings.Repeat(char, length))
	if ctx.label.Message != "" {
		color.Fprintf(e.w, " %s", ctx.label.Message)
	}
	fmt.Fprintln(e.w)
}

// printRoutedLabels prints a primary label plus secondaries that may sit on
// other lines, in line order, with "..." marking skipped lines
func (e *Emitter) printRoutedLabels(filepath string, primary Label, secondaries []Label, severity Severity) {
	if primary.Location == nil || primary.Location.Start == nil {
		return
	}

	primaryLine := primary.Location.Start.Line
	colors.BLUE.Fprintf(e.w, "  --> %s:%d:%d\n", filepath, primaryLine, primary.Location.Start.Column)

	byLine := map[int]Label{primaryLine: primary}
	lineNumbers := []int{primaryLine}
	for _, sec := range secondaries {
		if sec.Location == nil || sec.Location.Start == nil {
			continue
		}
		if _, seen := byLine[sec.Location.Start.Line]; seen {
			continue
		}
		byLine[sec.Location.Start.Line] = sec
		lineNumbers = append(lineNumbers, sec.Location.Start.Line)
	}
	sort.Ints(lineNumbers)

	lineNumWidth := len(fmt.Sprintf("%d", lineNumbers[len(lineNumbers)-1]))
	e.printGutter(lineNumWidth)

	for idx, lineNum := range lineNumbers {
		if idx > 0 && lineNum-lineNumbers[idx-1] > 1 {
			colors.GREY.Fprint(e.w, strings.Repeat(" ", lineNumWidth))
			colors.GREY.Fprintln(e.w, " ...")
		}
		e.printLabeledLine(labelContext{
			filepath:     filepath,
			line:         lineNum,
			label:        byLine[lineNum],
			lineNumWidth: lineNumWidth,
			severity:     severity,
		})
	}

	e.printGutter(lineNumWidth)
}

func (e *Emitter) printGutter(width int) {
	colors.GREY.Fprint(e.w, strings.Repeat(" ", width))
	colors.GREY.Fprintln(e.w, " |")
}

func (e *Emitter) printNote(note Note) {
	colors.CYAN.Fprint(e.w, "  = note: ")
	fmt.Fprintln(e.w, note.Message)
}

func (e *Emitter) printHelp(help string) {
	colors.GREEN.Fprint(e.w, "  = help: ")
	fmt.Fprintln(e.w, help)
}

func (e *Emitter) tabWidth() int {
	if e.TabWidth < 1 {
		return defaultTabWidth
	}
	return e.TabWidth
}

// expandTabs replaces tabs with spaces up to the next tab stop
func (e *Emitter) expandTabs(line string) string {
	if !strings.Contains(line, "\t") {
		return line
	}
	tw := e.tabWidth()
	var b strings.Builder
	col := 0
	for _, r := range line {
		if r == '\t' {
			n := tw - col%tw
			b.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		b.WriteRune(r)
		col++
	}
	return b.String()
}

// displayColumn maps a 1-based character column of line to its 1-based column
// after tab expansion. Columns past the end of the line extend one cell each.
func (e *Emitter) displayColumn(line string, col int) int {
	tw := e.tabWidth()
	display := 0
	i := 1
	for _, r := range line {
		if i >= col {
			return display + 1
		}
		if r == '\t' {
			display += tw - display%tw
		} else {
			display++
		}
		i++
	}
	return display + 1 + (col - i)
}

func headerColor(severity Severity) colors.COLOR {
	switch severity {
	case Error:
		return colors.BOLD_RED
	case Warning:
		return colors.BOLD_YELLOW
	case Info:
		return colors.BOLD_CYAN
	default:
		return colors.BOLD_PURPLE
	}
}

// severityColor returns the underline color for a primary label
func severityColor(severity Severity) colors.COLOR {
	switch severity {
	case Error:
		return colors.RED
	case Warning:
		return colors.YELLOW
	case Info:
		return colors.BLUE
	case Hint:
		return colors.PURPLE
	default:
		return colors.RED
	}
}

func underlineColor(style LabelStyle, severity Severity) colors.COLOR {
	if style == Primary {
		return severityColor(severity)
	}
	return colors.BLUE
}

func underlineChar(style LabelStyle, length int) string {
	if style == Primary {
		if length == 1 {
			return "^"
		}
		return "~"
	}
	return "-"
}
