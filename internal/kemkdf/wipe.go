package kemkdf

import "runtime"

// Wipe zeroes a buffer holding ephemeral key or derived-secret material.
// Best-effort: it aims to reduce the chance the compiler elides the write
// once the buffer is otherwise dead.
//
//go:noinline
func Wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(&b)
}
