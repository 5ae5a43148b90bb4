// Package logger provides verbose logging for xwb.
// When verbose mode is enabled via the --verbose flag, debug messages
// are printed to stderr so users can follow catalog loading and each
// import stage. Import diagnostics never go through this package.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

const timeLayout = "15:04:05.000"

var (
	mu         sync.Mutex
	verbose    bool
	timestamps bool
	output     io.Writer = os.Stderr
	now                  = time.Now
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.Lock()
	defer mu.Unlock()
	return verbose
}

// SetTimestamps prefixes every line with the wall-clock time.
// Long-running commands such as "import --watch" turn this on.
func SetTimestamps(on bool) {
	mu.Lock()
	defer mu.Unlock()
	timestamps = on
}

// SetOutput sets the output writer for verbose logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	write("[DEBUG] ", format, args...)
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	write("[INFO] ", format, args...)
}

// Warn prints a warning message if verbose mode is enabled.
func Warn(format string, args ...any) {
	write("[WARN] ", format, args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.Lock()
	defer mu.Unlock()
	if !verbose {
		return
	}
	fmt.Fprintf(output, "\n%s=== %s ===\n", stampLocked(), name)
}

// Stage logs the start of a named step and returns a func that logs how
// long it took. Typical use:
//
//	defer logger.Stage("load catalog")()
func Stage(name string) func() {
	if !IsVerbose() {
		return func() {}
	}
	start := now()
	Debug("%s: started", name)
	return func() {
		Debug("%s: done in %s", name, now().Sub(start).Round(time.Microsecond))
	}
}

func write(level, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if !verbose {
		return
	}
	fmt.Fprintf(output, stampLocked()+level+format+"\n", args...)
}

// stampLocked must be called with mu held.
func stampLocked() string {
	if !timestamps {
		return ""
	}
	return now().Format(timeLayout) + " "
}
