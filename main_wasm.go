//go:build js && wasm

package main

import (
	"fmt"
	"syscall/js"

	"wslint/internal/config"
	"wslint/internal/context"
	"wslint/internal/rules"
)

// checkCode runs every rule over code and returns the HTML rendering of the findings.
func checkCode(code, filename string, oneTabIndent bool) (string, bool) {
	jsConsole := js.Global().Get("console")

	defer func() {
		if r := recover(); r != nil {
			jsConsole.Call("error", "PANIC in checkCode:", r)
		}
	}()

	cfg := config.Default()
	if oneTabIndent {
		cfg.SetRuleEnabled(rules.OneTabIndent, true)
	}

	// There is no file system: the code becomes a virtual file
	ctx := context.New(nil, cfg)
	ctx.CheckSource(filename, code)

	if ctx.Diagnostics.Len() == 0 {
		return "No whitespace problems found.", true
	}
	return ctx.Diagnostics.EmitAllToHTML(), !ctx.Failed()
}

// wslintCheckJS is the JavaScript-callable function:
// wslintCheck(code, filename?, oneTabIndent?)
func wslintCheckJS(this js.Value, args []js.Value) interface{} {
	defer func() {
		if r := recover(); r != nil {
			jsConsole := js.Global().Get("console")
			jsConsole.Call("error", "PANIC in wslint:", r)
		}
	}()

	if len(args) < 1 {
		return map[string]interface{}{
			"success": false,
			"error":   "Expected at least 1 argument (code string)",
		}
	}

	code := args[0].String()
	filename := "input.cs"
	if len(args) > 1 && args[1].Type() == js.TypeString {
		filename = args[1].String()
	}
	oneTabIndent := len(args) > 2 && args[2].Truthy()

	output, ok := checkCode(code, filename, oneTabIndent)
	return map[string]interface{}{
		"success": ok,
		"output":  output,
	}
}

func main() {
	c := make(chan struct{})

	js.Global().Set("wslintCheck", js.FuncOf(wslintCheckJS))
	js.Global().Set("wslintWasmVersion", version)

	fmt.Println("wslint WASM ready")

	<-c
}
