package monitoring

import "log"

// Logf is the package-level diagnostic logger for the ISP pipeline. It
// defaults to log.Printf but may be replaced by SetLogger; tests and batch
// tooling can redirect or mute it.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil installs a no-op
// logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}
