//go:build !js || !wasm

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"wslint/colors"
	"wslint/internal/cmd"
	"wslint/internal/config"
	"wslint/internal/context"
	"wslint/internal/rules"
)

const (
	exitOK       = 0
	exitFindings = 1
	exitFailure  = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	// Parse command-line flags
	fs := flag.NewFlagSet("wslint", flag.ContinueOnError)
	fs.SetOutput(stderr)

	configPath := fs.String("config", "", "Config file (.yaml, .yml or .toml); defaults to ./.wslint.*")
	format := fs.String("format", "", "Output format: text or json")
	colorMode := fs.String("color", "", "Colorize output: auto, always or never")
	oneTab := fs.Bool("one-tab-indent", false, "Report indentation that deepens by more than one tab")
	disable := fs.String("disable", "", "Comma-separated rule names or codes to disable")
	strict := fs.Bool("strict", false, "Fail on any finding, whatever its severity")
	debug := fs.Bool("debug", false, "Enable debug output")
	showVersion := fs.Bool("version", false, "Print version and exit")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: wslint [flags] <path>...\n\nFlags:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nRules:\n")
		for _, r := range rules.AllRules() {
			fmt.Fprintf(stderr, "  %s  %-24s %s\n", r.Code(), r, r.Description())
		}
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitFailure
	}

	if *showVersion {
		fmt.Fprintf(stdout, "wslint %s\n", version)
		return exitOK
	}

	// Validate arguments
	if fs.NArg() < 1 {
		fs.Usage()
		return exitFailure
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "wslint: %v\n", err)
		return exitFailure
	}

	// Flags override the config file
	if *format != "" {
		cfg.Format = *format
	}
	if *colorMode != "" {
		cfg.Color = *colorMode
	}
	if *oneTab {
		cfg.SetRuleEnabled(rules.OneTabIndent, true)
	}
	for _, name := range splitList(*disable) {
		id, err := rules.ParseRuleID(name)
		if err != nil {
			fmt.Fprintf(stderr, "wslint: -disable: %v\n", err)
			return exitFailure
		}
		cfg.SetRuleEnabled(id, false)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "wslint: %v\n", err)
		return exitFailure
	}

	level := cfg.SlogLevel()
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	if cfg.Path != "" {
		logger.Debug("loaded config", "path", cfg.Path)
	}

	colors.Enabled = useColor(cfg.Color, stdout)

	ctx := context.New(&context.CheckOptions{Debug: *debug, Strict: *strict}, cfg)
	ctx.Logger = logger

	if err := cmd.Check(ctx, fs.Args()...); err != nil {
		logger.Error("check failed", "error", err)
		return exitFailure
	}

	if err := ctx.EmitDiagnostics(stdout); err != nil {
		logger.Error("writing report failed", "error", err)
		return exitFailure
	}

	if ctx.Failed() {
		return exitFindings
	}
	return exitOK
}

// loadConfig reads path, or the first default config file in the working
// directory when path is empty.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		found, ok := config.Discover(".")
		if !ok {
			return config.Default(), nil
		}
		path = found
	}
	return config.Load(path)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// useColor resolves the color mode. "auto" colors terminals only and honours NO_COLOR.
func useColor(mode string, w io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}

	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}
