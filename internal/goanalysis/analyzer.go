package goanalysis

import (
	"fmt"
	"go/ast"
	"go/token"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/tools/go/analysis"

	"wslint/internal/frontend/lexer"
	"wslint/internal/rules"
)

var Analyzer = &analysis.Analyzer{
	Name: "wslint",
	Doc:  "report trailing whitespace and space indentation in Go files",
	Run:  run,
}

var (
	oneTabIndent bool
	disable      string
)

func init() {
	Analyzer.Flags.BoolVar(&oneTabIndent, "one-tab-indent", false, "report indentation that deepens by more than one tab")
	Analyzer.Flags.StringVar(&disable, "disable", "", "comma-separated rule names or codes to skip")
}

func run(pass *analysis.Pass) (interface{}, error) {
	disabled, err := parseDisabled(disable)
	if err != nil {
		return nil, err
	}
	opts := rules.Options{EnforceOneTabIndent: oneTabIndent && !disabled[rules.OneTabIndent]}

	readFile := pass.ReadFile
	if readFile == nil {
		readFile = os.ReadFile
	}

	for _, file := range pass.Files {
		if ast.IsGenerated(file) {
			continue
		}
		tf := pass.Fset.File(file.Pos())
		if tf == nil {
			continue
		}

		content, err := readFile(tf.Name())
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", tf.Name(), err)
		}

		doc := &rules.TokenDocument{Tokens: lexer.New(tf.Name(), string(content)).Tokenize(false)}
		rules.ScanFunc(doc, opts, func(v rules.Violation) {
			if disabled[v.Rule] {
				return
			}
			pass.Report(analysis.Diagnostic{
				Pos:      position(tf, content, v.Line, v.Column),
				Category: v.Rule.String(),
				Message:  fmt.Sprintf("%s (%s)", v.Rule.Description(), v.Rule.Code()),
			})
		})
	}

	return nil, nil
}

func parseDisabled(list string) (map[rules.RuleID]bool, error) {
	disabled := make(map[rules.RuleID]bool)
	for _, name := range strings.Split(list, ",") {
		if name = strings.TrimSpace(name); name == "" {
			continue
		}
		id, err := rules.ParseRuleID(name)
		if err != nil {
			return nil, fmt.Errorf("-disable: %w", err)
		}
		disabled[id] = true
	}
	return disabled, nil
}

// position maps a 1-based line and rune column to a token.Pos. go/token only
// breaks lines at '\n', so a line it does not know falls back to the file start.
func position(tf *token.File, content []byte, line, col int) token.Pos {
	if line < 1 || line > tf.LineCount() {
		return tf.Pos(0)
	}

	off := tf.Offset(tf.LineStart(line))
	for i := 1; i < col && off < len(content) && off < tf.Size(); i++ {
		if content[off] == '\n' {
			break
		}
		_, size := utf8.DecodeRune(content[off:])
		off += size
	}
	if off > tf.Size() {
		off = tf.Size()
	}
	return tf.Pos(off)
}
