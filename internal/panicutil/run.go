package panicutil

import (
	"github.com/sourcegraph/conc/panics"
)

// Run invokes f and returns its error.
// A panic inside f is recovered and returned as *panics.ErrRecovered.
// If f terminates the goroutine with runtime.Goexit, onGoexit is called
// (when non-nil) while the goroutine unwinds, and Run never returns.
func Run(f func() error, onGoexit func()) (err error) {
	var (
		catcher  panics.Catcher
		returned bool
	)
	defer func() {
		if !returned && onGoexit != nil {
			onGoexit()
		}
	}()

	catcher.Try(func() {
		err = f()
	})
	returned = true

	if r := catcher.Recovered(); r != nil {
		return r.AsError()
	}
	return err
}
