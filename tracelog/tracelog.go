// Package tracelog gives the quantizer's callers somewhere to send
// structured per-iteration diagnostics (which bone was picked, which track
// got bumped, and its attributed error) without the core itself doing any
// I/O.
package tracelog

import (
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"
)

var dumpConfig *spew.ConfigState

func init() {
	dumpConfig = spew.NewDefaultConfig()
	dumpConfig.DisableCapacities = true
}

// Logger wraps an io.Writer and is nil-safe: a nil *Logger silently drops
// everything, so call sites never need a "if logger != nil" guard.
type Logger struct {
	w io.Writer
}

// New wraps w. Passing a nil w yields a Logger that still accepts calls but
// discards them, same as a nil *Logger.
func New(w io.Writer) *Logger {
	return &Logger{w: w}
}

func (l *Logger) Printf(format string, args ...interface{}) {
	if l == nil || l.w == nil {
		return
	}
	fmt.Fprintf(l.w, format+"\n", args...)
}

func (l *Logger) Println(args ...interface{}) {
	if l == nil || l.w == nil {
		return
	}
	fmt.Fprintln(l.w, args...)
}

// Dump writes a, spew-formatted, as one log line.
func (l *Logger) Dump(a ...interface{}) {
	if l == nil || l.w == nil {
		return
	}
	fmt.Fprintln(l.w, dumpConfig.Sdump(a...))
}

// SDump renders a the same way Dump does, without writing anywhere —
// useful for embedding in an error message.
func SDump(a ...interface{}) string {
	return dumpConfig.Sdump(a...)
}
