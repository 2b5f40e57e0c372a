// Package observe provides the pipeline's progress and warning output.
//
// No structured-logging library appears anywhere in the example corpus
// for a CLI of this size; this follows the teacher's own choice of a
// small writer-gated package (internal/debug) over slog/zerolog/zap.
package observe

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	mu      sync.Mutex
	out     io.Writer = os.Stderr
	verbose bool
	quiet   bool
)

// Configure sets the verbosity mode requested by the CLI's
// --verbose/--quiet flags (spec §6). The two are mutually exclusive;
// quiet wins if both are set.
func Configure(v, q bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
	quiet = q
}

// SetOutput redirects progress/warning output, primarily for tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
}

// Progress prints a phase-transition line unless quiet mode is active.
func Progress(format string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	if quiet {
		return
	}
	fmt.Fprintf(out, format+"\n", args...)
}

// Verbosef prints a detail line only when --verbose was requested.
func Verbosef(format string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	if quiet || !verbose {
		return
	}
	fmt.Fprintf(out, format+"\n", args...)
}

// Warnf logs a recoverable per-file failure (spec §7: per-file parse/IO
// failures are logged at warning level and do not stop the phase).
func Warnf(format string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	if quiet {
		return
	}
	fmt.Fprintf(out, "warning: "+format+"\n", args...)
}
