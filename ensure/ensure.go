// Package ensure gives contract violations somewhere to go besides a raw
// panic call scattered through the core packages. It stands in for the
// ACL_ENSURE abort hook: by default a violation panics, but tests can swap
// Hook for a recording stub and assert an invariant fired without killing
// the test binary.
package ensure

import "fmt"

// Hook is invoked whenever That's condition is false. The default panics;
// assign a different function (e.g. in a test) to observe violations
// without crashing.
var Hook = func(format string, args ...interface{}) {
	panic(fmt.Sprintf(format, args...))
}

// That calls Hook with the formatted message when cond is false.
func That(cond bool, format string, args ...interface{}) {
	if !cond {
		Hook(format, args...)
	}
}
