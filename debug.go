//go:build !lrmichaeldebug

package lrmichael

// debugAssert is a no-op in release builds. Build with -tags lrmichaeldebug
// to turn invalid-pointer conditions into panics instead of silently
// ignoring them.
func debugAssert(ok bool, msg string) {}
