//go:build lrmichaeldebug

package lrmichael

// debugAssert panics when ok is false. Only compiled into
// -tags lrmichaeldebug builds; see debug.go for the release no-op.
func debugAssert(ok bool, msg string) {
	if !ok {
		panic(msg)
	}
}
