// Package panicerr converts a recovered panic in a command handler into an
// ordinary error, attaching a stack trace for -trace diagnostics. discdiag
// is single-threaded and synchronous (spec: no internal suspension points),
// so recovery happens inline around each dispatched command rather than
// across a goroutine boundary.
package panicerr

// Recover runs f and converts any panic it raises into a non-nil error,
// tagged with name (typically the verb being dispatched) for diagnostics.
func Recover(name string, f func() error) (err error) {
	defer func() {
		if e := recover(); e != nil {
			err = newPanicError(name, e)
		}
	}()
	return f()
}
