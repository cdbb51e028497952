package monitoring

import (
	"log"
	"sync/atomic"
)

// Logf is the package-level diagnostic logger used by the mirror engine. It
// defaults to log.Printf but may be replaced by SetLogger so tests or hosts
// can redirect or mute it.
var Logf func(format string, v ...interface{}) = log.Printf

var verbose atomic.Bool

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// SetVerbose enables or disables Debugf output.
func SetVerbose(on bool) { verbose.Store(on) }

// Verbose reports whether debug logging is enabled.
func Verbose() bool { return verbose.Load() }

// Debugf logs through Logf only when verbose logging is enabled. Per-point
// and per-channel traces go here so batch runs stay quiet by default.
func Debugf(format string, v ...interface{}) {
	if !verbose.Load() {
		return
	}
	Logf("[debug] "+format, v...)
}

// Warnf logs a non-fatal condition that the caller should see in the log,
// such as a missing mirror partner.
func Warnf(format string, v ...interface{}) {
	Logf("[warn] "+format, v...)
}
