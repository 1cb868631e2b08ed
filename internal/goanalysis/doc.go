// Package goanalysis runs the whitespace rules as a go/analysis pass.
//
// The pass works on raw file bytes rather than the syntax tree: each non-generated
// Go file of the package is read back with Pass.ReadFile, tokenized and scanned,
// and every violation is reported at its exact column.
//
// # Flags
//
//	-one-tab-indent  also report indentation that deepens by more than one tab
//	-disable         comma-separated rule names or codes to skip
//
// The analyzer has no facts and no result, so it can be combined freely with other
// passes in a multichecker.
package goanalysis
