/*------------------------------------------------------------------------------
* trace.go : leveled debug trace, same shape as gnssgo's Trace()/TraceLevel()
*
* The core never panics (spec.md §7), so Trace is the only diagnostic
* surface: a cheap, package-level leveled sink that is silent until a
* caller raises the level or installs a destination. No third-party
* structured logger appears anywhere in the retrieved example pack, so
* this keeps the teacher's own convention rather than inventing one.
*-----------------------------------------------------------------------------*/
package vpscore

import (
	"fmt"
	"io"
	"os"
)

var (
	traceOut   io.Writer = os.Stderr
	traceLevel int       = 0
)

// SetTraceLevel sets the highest level that Trace writes; messages with a
// higher level are dropped. At the default 0, every message of level 1 or
// above is dropped.
func SetTraceLevel(level int) {
	traceLevel = level
}

// SetTraceOutput redirects trace output; nil resets it to os.Stderr.
func SetTraceOutput(w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	traceOut = w
}

// Trace writes a leveled diagnostic line. It never blocks on I/O errors
// and never allocates when the level is below the configured threshold.
func Trace(level int, format string, v ...interface{}) {
	if level > traceLevel {
		return
	}
	fmt.Fprintf(traceOut, format, v...)
}
