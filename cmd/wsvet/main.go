// Command wsvet runs the wslint whitespace rules as a standalone vet tool:
//
//	wsvet ./...
//	go vet -vettool=$(which wsvet) ./...
package main

import (
	"golang.org/x/tools/go/analysis/singlechecker"

	"wslint/internal/goanalysis"
)

func main() {
	singlechecker.Main(goanalysis.Analyzer)
}
