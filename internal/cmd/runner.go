package cmd

import (
	"fmt"
	"runtime"
	"sync"

	"wslint/internal/context"
)

// RunScanPhase tokenizes and scans all files in parallel on a bounded pool.
func RunScanPhase(ctx *context.CheckContext) {
	files := ctx.GetAllFiles()
	workers := workerCount(ctx.Config.Workers, len(files))

	ctx.Logger.Debug("scan phase", "files", len(files), "workers", workers)

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for _, file := range files {
		wg.Add(1)
		sem <- struct{}{}
		go func(f *context.SourceFile) {
			defer wg.Done()
			defer func() { <-sem }()

			ctx.LexFile(f)
			ctx.CheckFile(f)
		}(file)
	}

	wg.Wait()
}

// workerCount picks the pool size: the configured value, else one worker per CPU,
// never more than there are files.
func workerCount(configured, files int) int {
	n := configured
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}
	if n > files {
		n = files
	}
	if n < 1 {
		n = 1
	}
	return n
}

// Check runs every phase over paths and leaves the diagnostics in ctx.
// An error is returned only when the run itself could not complete; style
// findings are reported through ctx.Diagnostics.
func Check(ctx *context.CheckContext, paths ...string) error {
	// Phase 0: File Discovery
	if err := ctx.DiscoverFiles(paths...); err != nil {
		return fmt.Errorf("file discovery failed: %w", err)
	}

	// Phase 1 & 2: Lex + Scan
	RunScanPhase(ctx)

	// Phase 3: Collect, in discovery order
	ctx.Collect()

	ctx.Logger.Debug("check finished",
		"files", len(ctx.FileOrder),
		"errors", ctx.Diagnostics.ErrorCount(),
		"warnings", ctx.Diagnostics.WarningCount())

	return nil
}
