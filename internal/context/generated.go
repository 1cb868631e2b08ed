package context

import (
	"regexp"
	"strings"

	"wslint/internal/config"
)

// Markers are only looked for near the top of a file.
const generatedHeaderLines = 20

var goGeneratedMarker = regexp.MustCompile(`^// Code generated .* DO NOT EDIT\.$`)

// IsGenerated reports whether a file is exempt from whitespace checks, either by
// name or by a generator marker in its header.
func IsGenerated(path, content string, cfg *config.Config) bool {
	if cfg != nil && cfg.IsGeneratedPath(path) {
		return true
	}

	for i, line := range strings.SplitN(content, "\n", generatedHeaderLines+1) {
		if i == generatedHeaderLines {
			break
		}
		line = strings.TrimSpace(line)
		if goGeneratedMarker.MatchString(line) || strings.Contains(line, "<auto-generated") {
			return true
		}
	}
	return false
}
