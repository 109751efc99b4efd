package secrets

import "runtime"

// Wipe zeroes b in place. Callers scrub passwords and key material with it
// once the bytes are no longer needed.
func Wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(b)
}
