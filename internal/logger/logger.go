// Package logger prints pipeline progress to stderr when the CLI runs
// with --verbose. Output is off by default so answers stay clean for
// shell consumption.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var state = struct {
	mu      sync.RWMutex
	verbose bool
	out     io.Writer
}{out: os.Stderr}

// SetVerbose switches verbose output on or off.
func SetVerbose(v bool) {
	state.mu.Lock()
	state.verbose = v
	state.mu.Unlock()
}

// IsVerbose reports whether verbose output is enabled.
func IsVerbose() bool {
	state.mu.RLock()
	defer state.mu.RUnlock()
	return state.verbose
}

// SetOutput redirects log output, mainly for tests.
func SetOutput(w io.Writer) {
	state.mu.Lock()
	state.out = w
	state.mu.Unlock()
}

// Debug logs fine-grained progress.
func Debug(format string, args ...any) { logf("[DEBUG] ", format, args...) }

// Info logs pipeline milestones.
func Info(format string, args ...any) { logf("[INFO] ", format, args...) }

// Warn logs recoverable problems.
func Warn(format string, args ...any) { logf("[WARN] ", format, args...) }

// Section prints a banner separating pipeline phases.
func Section(name string) {
	state.mu.RLock()
	defer state.mu.RUnlock()
	if state.verbose {
		fmt.Fprintf(state.out, "\n=== %s ===\n", name)
	}
}

func logf(prefix, format string, args ...any) {
	state.mu.RLock()
	defer state.mu.RUnlock()
	if state.verbose {
		fmt.Fprintf(state.out, prefix+format+"\n", args...)
	}
}
