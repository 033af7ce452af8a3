package crypto

import "runtime"

// Wipe zeroes b in place. Key scalars and shared secrets pass through here
// once they are no longer needed.
//
//go:noinline
func Wipe(b []byte) {
	clear(b)
	runtime.KeepAlive(&b)
}
